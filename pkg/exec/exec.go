// Package exec runs external commands bounded by a context.
package exec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/logging"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

var log = logging.DefaultLogger.WithFields(logrus.Fields{logfields.LogSubsys: "exec"})

func warnToLog(cmd *exec.Cmd, out []byte, err error) {
	log.WithError(err).WithField("cmd", cmd.Args).Debug("Command execution failed")
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		log.Debug(scanner.Text())
	}
}

func checkContext(ctx context.Context, cmd *exec.Cmd, err error) error {
	if ctx.Err() == nil {
		return nil
	}
	if !errors.Is(ctx.Err(), context.Canceled) {
		log.WithError(err).WithField("cmd", cmd.Args).Warn("Command execution timed out")
	}
	return fmt.Errorf("command execution failed for %s: %w", cmd.Args, ctx.Err())
}

// Cmd wraps exec.Cmd with a context so that a timeout is reported as such:
//
//	out, err := exec.WithTimeout(5*time.Second, "mdfind", query).Output(false)
type Cmd struct {
	*exec.Cmd
	ctx      context.Context
	cancelFn func()
}

// CommandContext wraps exec.CommandContext.
func CommandContext(ctx context.Context, prog string, args ...string) *Cmd {
	return &Cmd{
		Cmd: exec.CommandContext(ctx, prog, args...),
		ctx: ctx,
	}
}

// WithTimeout creates a Cmd with a context that times out after the specified
// duration.
func WithTimeout(timeout time.Duration, prog string, args ...string) *Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	cmd := CommandContext(ctx, prog, args...)
	cmd.cancelFn = cancel
	return cmd
}

// Output runs the command and returns its standard output. Standard error is
// attached to the returned error when the command exits non-zero.
func (c *Cmd) Output(verbose bool) ([]byte, error) {
	defer c.cancel()
	out, err := c.Cmd.Output()
	if cerr := checkContext(c.ctx, c.Cmd, err); cerr != nil {
		return nil, cerr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("%w stderr=%q", exitErr, exitErr.Stderr)
		}
		if verbose {
			warnToLog(c.Cmd, out, err)
		}
	}
	return out, err
}

func (c *Cmd) cancel() {
	if c.cancelFn != nil {
		c.cancelFn()
	}
}

// Which returns the absolute path of bin in PATH.
func Which(bin string) (string, error) {
	p, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%s not found", bin)
	}
	return strings.TrimSpace(p), nil
}
