package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// dispatchPiped runs args with its output fed to the standard input of
// script, run by the platform shell. The shell's output goes to out and its
// diagnostics to the error sink.
func (d *Dispatcher) dispatchPiped(ctx context.Context, args []string, script string, out io.Writer) error {
	sh := shellCommand(ctx, script)
	sh.Stdout = out
	sh.Stderr = d.env.ErrWriter()

	stdin, err := sh.StdinPipe()
	if err != nil {
		d.env.Reportf("cannot run %q: %v", script, err)
		return fmt.Errorf("%w: %v", ErrReported, err)
	}
	if err := sh.Start(); err != nil {
		d.env.Reportf("cannot run %q: %v", script, err)
		return fmt.Errorf("%w: %v", ErrReported, err)
	}

	runErr := d.dispatch(ctx, args, &pipeWriter{w: stdin})
	_ = stdin.Close()
	waitErr := sh.Wait()

	if runErr != nil {
		return runErr
	}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		return nil
	case errors.As(waitErr, &exitErr):
		// The shell command reports its own failures on stderr.
		return fmt.Errorf("%w: %q exited with status %d", ErrReported, script, exitErr.ExitCode())
	default:
		d.env.Reportf("%q: %v", script, waitErr)
		return fmt.Errorf("%w: %v", ErrReported, waitErr)
	}
}

func shellCommand(ctx context.Context, script string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", script)
	}
	return exec.CommandContext(ctx, "/bin/sh", "-c", script)
}

// pipeWriter feeds the shell's standard input. Once the shell stops reading,
// as with "| head -1", the rest of the output is dropped so the command
// itself still succeeds.
type pipeWriter struct {
	w      io.Writer
	broken bool
}

func (p *pipeWriter) Write(b []byte) (int, error) {
	if !p.broken {
		if _, err := p.w.Write(b); err != nil {
			p.broken = true
		}
	}
	return len(b), nil
}
