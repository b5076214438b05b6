package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_Quiet(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	c.Step("scanning")
	c.Success("done")
	c.Warn("careful")
	assert.Empty(t, buf.String())

	c.Error("failed: %d", 1)
	assert.Contains(t, buf.String(), "failed: 1")
}

func TestConsole_Verbose(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.Step("1. Discovering project files")
	c.Warn("2 warnings")
	assert.Contains(t, buf.String(), "Discovering project files")
	assert.Contains(t, buf.String(), "2 warnings")
}
