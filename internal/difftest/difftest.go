// Package difftest helps tests assert that a program's actual output
// matches an expected inline string, reporting a readable patch instead
// of a raw string-equality failure. It is a trimmed-down version of the
// golden-file-directory approach: Lox's end-to-end scenarios are short
// literal programs (a handful of lines), so the expected output lives
// next to the test as a string literal rather than in its own file.
package difftest

import (
	"testing"

	"github.com/kylelemons/godebug/diff"
)

// Equal fails the test with a unified diff if got != want.
func Equal(t *testing.T, label, want, got string) {
	t.Helper()
	if patch := diff.Diff(want, got); patch != "" {
		t.Errorf("diff %s:\n%s\n", label, patch)
	}
}
