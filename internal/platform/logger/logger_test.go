// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/logger"
)

func TestNew_JSON(t *testing.T) {
	var buffer bytes.Buffer
	log := logger.New(&buffer, false, false)

	log.Debug("hidden")
	log.Info("auth_login_succeeded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &line))
	assert.Equal(t, "auth_login_succeeded", line["msg"])
	assert.Equal(t, "hrportal-api", line["app"])
}

func TestNew_Development(t *testing.T) {
	var buffer bytes.Buffer
	log := logger.New(&buffer, true, false)

	log.Debug("visible")
	assert.Contains(t, buffer.String(), "visible")
}
