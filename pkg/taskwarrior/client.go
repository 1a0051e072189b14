package taskwarrior

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

type Client struct {
	Binary string
}

func NewClient() *Client {
	return &Client{Binary: "task"}
}

// Encode writes tasks as the JSON array `task import` reads.
func Encode(w io.Writer, tasks []Task) error {
	enc := json.NewEncoder(w)
	return enc.Encode(tasks)
}

// Import hands tasks to `task import`. Hooks and confirmations are disabled
// so the import runs unattended.
func (c *Client) Import(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	var stdin bytes.Buffer
	if err := Encode(&stdin, tasks); err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Binary, "rc.hooks=0", "rc.confirmation=off", "import")
	cmd.Stdin = &stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("taskwarrior import failed: exit code %d, stderr: %s", exitErr.ExitCode(), stderr.String())
		}
		return fmt.Errorf("taskwarrior import failed: %w", err)
	}
	return nil
}
