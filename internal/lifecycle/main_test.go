package lifecycle

import (
	"io"
	"os"
	"testing"

	"github.com/mind-engage/culturetest/internal/log"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}
