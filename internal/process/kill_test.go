package process

// Real process groups are not killed here; browser cleanup is exercised by
// the renderer tests that launch Chrome.

import (
	"errors"
	"runtime"
	"testing"
)

func TestKillProcessGroup_RejectsOwnGroup(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1} {
		if err := KillProcessGroup(pid); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("KillProcessGroup(%d) error = %v, want %v", pid, err, ErrInvalidPID)
		}
	}
}

func TestKillProcessGroup_GoneProcess(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("taskkill reports missing processes as errors")
	}
	if err := KillProcessGroup(999999999); err != nil {
		t.Errorf("KillProcessGroup(gone) error = %v, want nil", err)
	}
}
