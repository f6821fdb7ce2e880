package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("loud"))
}

func TestFromContext(t *testing.T) {
	Setup("info", "json")
	var buf bytes.Buffer
	SetOutput(&buf)

	entry := Base().WithField("request_id", "abc")
	ctx := WithLogger(context.Background(), entry)

	Component(ctx, "gate").Info("checked access")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["request_id"])
	assert.Equal(t, "gate", line["component"])
	assert.Equal(t, "checked access", line["msg"])

	assert.Equal(t, Base(), FromContext(context.Background()))
}
