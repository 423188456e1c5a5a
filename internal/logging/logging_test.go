package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHonoursVerbosity(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 0)

	logger.Info("loaded profile", "profile", "oss")
	logger.V(1).Info("request", "url", "https://example.com")
	logger.Error(errors.New("boom"), "apply failed")

	out := buf.String()
	assert.Contains(t, out, "steward")
	assert.Contains(t, out, `"msg"="loaded profile"`)
	assert.Contains(t, out, `"profile"="oss"`)
	assert.NotContains(t, out, "request")
	assert.Contains(t, out, `"error"="boom"`)
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 1)
	t.Cleanup(func() { New(&buf, 0) })

	logger.V(1).Info("request", "status", 200)

	assert.Contains(t, buf.String(), `"msg"="request"`)
}

func TestNewNilWriterDiscards(t *testing.T) {
	logger := New(nil, 5)

	assert.False(t, logger.Enabled())
}
