package lib

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", base, 1},
		{"exit error", &ExitError{Code: 2, Err: base}, 2},
		{"wrapped exit error", fmt.Errorf("run: %w", &ExitError{Code: 3, Err: base}), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitErrorUnwraps(t *testing.T) {
	base := errors.New("boom")
	err := &ExitError{Code: 2, Err: base}
	if !errors.Is(err, base) {
		t.Error("errors.Is(ExitError, base) = false")
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, errors.New("boom"))
	if got := buf.String(); got != "Error: boom\n" {
		t.Errorf("Report wrote %q", got)
	}
}
