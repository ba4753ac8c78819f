package driver

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
)

// runCommand executes an external command and captures its output streams.
// The stderr text is returned verbatim so driver failures surface the
// backend's own words instead of a paraphrase.
func runCommand(ctx context.Context, dir string, env []string, name string, args ...string) (stdout string, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	return stdoutBuf.String(), strings.TrimSpace(stderrBuf.String()), runErr
}

// streamCommand executes an external command wired to the caller's terminal,
// used for pass-through log tailing.
func streamCommand(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
