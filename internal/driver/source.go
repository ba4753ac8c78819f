package driver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	shellwords "github.com/mattn/go-shellwords"

	"stackctl/internal/config"
	"stackctl/internal/health"
	"stackctl/internal/stack"
	"stackctl/pkg/logging"
)

// SourceDriver realizes components as locally built and supervised
// processes. Each component declares a build command (run to completion
// before launch) and a run command (launched detached in its own process
// group). The process id is written next to the component's log file so a
// later `stackctl stop` can find it without any orchestrator state.
type SourceDriver struct {
	probeStatus

	settings config.SourceSettings
}

// NewSourceDriver creates the built-from-source backend driver.
func NewSourceDriver(settings config.SourceSettings, prober *health.Prober) *SourceDriver {
	if settings.LogDir == "" {
		settings.LogDir = filepath.Join(".stackctl", "logs")
	}
	return &SourceDriver{
		probeStatus: probeStatus{prober: prober},
		settings:    settings,
	}
}

func (d *SourceDriver) Name() string { return "source" }

func (d *SourceDriver) logPath(c stack.Component) string {
	return filepath.Join(d.settings.LogDir, c.Name+".log")
}

func (d *SourceDriver) pidPath(c stack.Component) string {
	return filepath.Join(d.settings.LogDir, c.Name+".pid")
}

func componentEnv(c stack.Component) []string {
	env := make([]string, 0, len(c.Definition.Env))
	for k, v := range c.Definition.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// Deploy builds the component if a build command is declared, then launches
// its run command detached, redirecting output to the component log file.
func (d *SourceDriver) Deploy(ctx context.Context, c stack.Component) error {
	runCmd := c.Definition.RunCommand
	if runCmd == "" {
		return &DeployError{Component: c.Name, Backend: d.Name(), Err: fmt.Errorf("component declares no runCommand for the source backend")}
	}

	if err := os.MkdirAll(d.settings.LogDir, 0o755); err != nil {
		return &DeployError{Component: c.Name, Backend: d.Name(), Err: fmt.Errorf("create log dir: %w", err)}
	}

	if build := c.Definition.BuildCommand; build != "" {
		words, err := shellwords.Parse(build)
		if err != nil {
			return &DeployError{Component: c.Name, Backend: d.Name(), Err: fmt.Errorf("parse buildCommand: %w", err)}
		}
		logging.Info("SourceDriver", "Building component %s: %s", c.Name, build)
		_, stderr, err := runCommand(ctx, c.Definition.WorkDir, componentEnv(c), words[0], words[1:]...)
		if err != nil {
			return &DeployError{Component: c.Name, Backend: d.Name(), Output: stderr, Err: fmt.Errorf("build failed: %w", err)}
		}
	}

	words, err := shellwords.Parse(runCmd)
	if err != nil {
		return &DeployError{Component: c.Name, Backend: d.Name(), Err: fmt.Errorf("parse runCommand: %w", err)}
	}

	logFile, err := os.OpenFile(d.logPath(c), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &DeployError{Component: c.Name, Backend: d.Name(), Err: fmt.Errorf("open log file: %w", err)}
	}
	defer logFile.Close()

	// Deliberately not CommandContext: the service must outlive this
	// invocation. Cancellation only prevents launches that have not started.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	cmd := exec.Command(words[0], words[1:]...)
	cmd.Dir = c.Definition.WorkDir
	cmd.Env = append(os.Environ(), componentEnv(c)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	// Own process group so Stop can kill the service and its children
	// without touching stackctl itself.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	logging.Info("SourceDriver", "Launching component %s: %s", c.Name, runCmd)
	if err := cmd.Start(); err != nil {
		return &DeployError{Component: c.Name, Backend: d.Name(), Err: fmt.Errorf("launch failed: %w", err)}
	}

	if err := os.WriteFile(d.pidPath(c), []byte(strconv.Itoa(cmd.Process.Pid)), 0o644); err != nil {
		logging.Warn("SourceDriver", "Could not record pid for %s: %v", c.Name, err)
	}

	// Reap the child when it exits so it never lingers as a zombie.
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// Stop kills the process group recorded for the component. A missing or
// stale pid file means the component is already gone, which is success.
func (d *SourceDriver) Stop(ctx context.Context, c stack.Component) error {
	data, err := os.ReadFile(d.pidPath(c))
	if os.IsNotExist(err) {
		logging.Debug("SourceDriver", "No pid recorded for %s, nothing to stop", c.Name)
		return nil
	}
	if err != nil {
		return &StopError{Component: c.Name, Backend: d.Name(), Err: err}
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return &StopError{Component: c.Name, Backend: d.Name(), Err: fmt.Errorf("corrupt pid file: %w", err)}
	}

	logging.Info("SourceDriver", "Stopping component %s (pid %d)", c.Name, pid)
	// Negative pid targets the whole process group.
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil && err != syscall.ESRCH {
		return &StopError{Component: c.Name, Backend: d.Name(), Err: err}
	}

	if err := os.Remove(d.pidPath(c)); err != nil && !os.IsNotExist(err) {
		logging.Warn("SourceDriver", "Could not remove pid file for %s: %v", c.Name, err)
	}
	return nil
}

// Logs tails the component's log file.
func (d *SourceDriver) Logs(ctx context.Context, c stack.Component, follow bool) error {
	args := []string{}
	if follow {
		args = append(args, "-f")
	}
	args = append(args, d.logPath(c))
	return streamCommand(ctx, "", "tail", args...)
}
