package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := Logger.GetLevel()
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		Logger.SetLevel(prev)
	})

	SetLevel("warn")
	Infof("hidden %d", 1)
	WithFields(Fields{"test_id": "t1"}).Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, "test_id=t1") {
		t.Fatalf("warn line missing: %q", out)
	}

	SetLevel("nonsense")
	if Logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %v, want warn kept", Logger.GetLevel())
	}
}
