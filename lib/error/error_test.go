package error

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestExternal(t *testing.T) {
	buf, out, exit := &bytes.Buffer{}, log.Writer(), Exit
	log.SetOutput(buf)
	defer func() {
		log.SetOutput(out)
		Exit = exit
	}()

	code := -1
	Exit = func(c int) { code = c }
	External("Bins must be positive, got %d.", -3)

	if code != 1 {
		t.Errorf("Expected exit code 1, got %d.", code)
	}
	if !strings.Contains(buf.String(), "Bins must be positive, got -3.") {
		t.Errorf("Expected the message to be logged, got %q.", buf.String())
	}
}
