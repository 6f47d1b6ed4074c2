package writer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrOpenUnsupported is returned when the platform has no known file viewer.
var ErrOpenUnsupported = errors.New("automatic opening of the html file is not supported on this platform")

// viewerCommand returns the command that opens a file with the default viewer
// of the given operating system.
func viewerCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, ErrOpenUnsupported
	}
}

// Open opens the file with the default viewer of the platform.
func Open(ctx context.Context, path string) error {
	name, args, err := viewerCommand(runtime.GOOS, path)
	if err != nil {
		return err
	}
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s is not installed", name)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("opening file: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
