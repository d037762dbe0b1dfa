// Package preflight checks the machine a run targets: the tools that apply
// network scripts and the directories iftool writes to.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// BinaryCheck represents a binary used to apply generated files.
type BinaryCheck struct {
	Name        string
	InstallHint string
}

// applyBinaries are needed to bring generated interfaces up. Their absence
// only matters on the target machine, so it is a warning.
var applyBinaries = []BinaryCheck{
	{Name: "ip", InstallHint: "install iproute2 (dnf install iproute)"},
	{Name: "ifup", InstallHint: "install network-scripts (dnf install network-scripts)"},
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// CheckBinaries returns the apply binaries missing from PATH.
func CheckBinaries() []BinaryCheck {
	var missing []BinaryCheck
	for _, bin := range applyBinaries {
		if _, err := lookPath(bin.Name); err != nil {
			missing = append(missing, bin)
		}
	}
	return missing
}

// CheckWritableDir reports why dir cannot receive files, or nil if it can.
func CheckWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	return nil
}

// CheckStateDir reports whether dir, or its nearest existing parent, can
// hold locks and backups.
func CheckStateDir(dir string) error {
	for d := dir; ; {
		if _, err := os.Stat(d); err == nil {
			return CheckWritableDir(d)
		}
		parent := filepath.Dir(d)
		if parent == d {
			return fmt.Errorf("%s: no existing parent", dir)
		}
		d = parent
	}
}

// CheckAll runs every check for a run writing to destination with state in
// stateDir. Missing binaries are warnings; directory problems are errors.
func CheckAll(destination, stateDir string) (warnings []string, errors []string) {
	for _, bin := range CheckBinaries() {
		warnings = append(warnings, bin.Name+": "+bin.InstallHint)
	}
	if err := CheckWritableDir(destination); err != nil {
		errors = append(errors, "destination "+err.Error())
	}
	if err := CheckStateDir(stateDir); err != nil {
		errors = append(errors, "state directory "+err.Error())
	}
	return warnings, errors
}
