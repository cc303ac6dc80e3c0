package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	logger := New("test")
	logger.Info("hidden by default")
	logger.Noticef("frame %d", 1)
	if strings.Contains(buf.String(), "hidden by default") {
		t.Error("Expected info messages to be filtered at the default level")
	}
	if !strings.Contains(buf.String(), "frame 1") || !strings.Contains(buf.String(), "[test]") {
		t.Errorf("Expected a notice tagged with the module, got %q", buf.String())
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("bvh built in %d ms", 3)
	if !strings.Contains(buf.String(), "bvh built in 3 ms") {
		t.Errorf("Expected debug output, got %q", buf.String())
	}

	buf.Reset()
	SetLevel(Error)
	logger.Warning("dropped")
	logger.Error("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("Unexpected output at error level: %q", buf.String())
	}
}
