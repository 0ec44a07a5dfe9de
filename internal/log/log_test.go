package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		Configure(false, false)
	})
	return &buf
}

func TestConfigure(t *testing.T) {
	buf := capture(t)

	Configure(false, false)
	Debug("hidden")
	Info("shown", "documents", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=INFO msg=shown documents=3")

	buf.Reset()
	Configure(true, false)
	Debug("details")
	assert.Contains(t, buf.String(), "level=DEBUG msg=details")

	buf.Reset()
	Configure(true, true)
	Info("progress")
	Warn("slow")
	assert.NotContains(t, buf.String(), "progress")
	assert.Contains(t, buf.String(), "level=WARN msg=slow")
}

func TestInfoln(t *testing.T) {
	buf := capture(t)
	Configure(false, false)

	Infoln("Loading", 2, "projects")
	assert.Contains(t, buf.String(), `msg="Loading 2 projects"`)
}
