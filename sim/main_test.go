package sim

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Kernel tests spawn many short processes; per-event Trace logs drown the output.
	// Set DEBUG_TESTS=1 to see them: DEBUG_TESTS=1 go test ./sim -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}
