// Package device talks to physical slaves through the ethercat command
// line tool of the IgH master. It shells out and moves raw bytes; all
// image interpretation stays in internal/sii.
package device

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// Logger receives one line per tool invocation. A nil logger is valid
// and discards the record.
type Logger interface {
	LogToolCall(args []string, exitCode int, err error)
}

// Access invokes the external ethercat tool.
type Access struct {
	Tool    string        // binary name or path, default "ethercat"
	Master  int           // master index
	Timeout time.Duration // per-invocation limit, 0 = none
	Log     Logger
}

// New returns an Access for the given tool binary and master index.
func New(tool string, master int, timeout time.Duration, log Logger) *Access {
	if tool == "" {
		tool = "ethercat"
	}
	return &Access{Tool: tool, Master: master, Timeout: timeout, Log: log}
}

func (a *Access) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	args = append([]string{"--master", strconv.Itoa(a.Master)}, args...)
	c := exec.CommandContext(ctx, a.Tool, args...)
	if stdin != nil {
		c.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	if a.Log != nil {
		exit := -1
		if c.ProcessState != nil {
			exit = c.ProcessState.ExitCode()
		}
		a.Log.LogToolCall(args, exit, err)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s %v: %w", a.Tool, args, ctx.Err())
		}
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("%s %v: %w: %s", a.Tool, args, err, msg)
		}
		return nil, fmt.Errorf("%s %v: %w", a.Tool, args, err)
	}
	return stdout.Bytes(), nil
}

// Slaves lists the slaves the master currently sees.
func (a *Access) Slaves(ctx context.Context) ([]Slave, error) {
	out, err := a.run(ctx, nil, "slaves")
	if err != nil {
		return nil, err
	}
	return ParseSlaves(out)
}

// ReadSII reads the raw EEPROM image of the slave at position.
func (a *Access) ReadSII(ctx context.Context, position int) ([]byte, error) {
	return a.run(ctx, nil, "sii_read", "--position", strconv.Itoa(position))
}

// WriteSII writes a raw EEPROM image to the slave at position. The
// image is handed to the tool through a temporary file.
func (a *Access) WriteSII(ctx context.Context, position int, image []byte) error {
	tmp, err := os.CreateTemp("", "esitool-sii-*.bin")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp image: %w", err)
	}

	_, err = a.run(ctx, nil, "sii_write", "--position", strconv.Itoa(position), "--force", filepath.Clean(path))
	return err
}
