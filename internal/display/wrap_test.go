package display

import (
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	long := strings.Repeat("room 12 world 1003 members 2 ", 5)

	for _, line := range strings.Split(Wrap(long), "\n") {
		if len(line) > DefaultWidth {
			t.Errorf("line exceeds %d columns: %q", DefaultWidth, line)
		}
	}

	short := "3 players online"
	if got := Wrap(short); got != short {
		t.Errorf("short text should pass through unchanged, got %q", got)
	}
}
