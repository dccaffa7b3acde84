package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Init("debug", "json", &buf)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.Same(t, l, Get())

	WithRequest(nil, "r-1").WithField("trials", 3).Info("hello")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, float64(3), entry["trials"])
}

func TestInitBadLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Init("loud", "text", &buf)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "invalid log level")
}

func TestWithGame(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "json", &buf)
	e := WithGame("Bears", "Owls")
	assert.Equal(t, "Bears", e.Data["home"])
	assert.Equal(t, "Owls", e.Data["away"])
	assert.Equal(t, "api", WithComponent("api").Data["component"])

	e = WithRequest(WithComponent("http"), "r-2")
	assert.Equal(t, "http", e.Data["component"])
	assert.Equal(t, "r-2", e.Data["request_id"])
}
