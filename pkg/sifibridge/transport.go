package sifibridge

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// process owns the spawned bridge executable and its pipes for the lifetime
// of the client.
type process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   io.ReadCloser
}

// spawn starts the bridge executable with stdin/stdout pipes attached.
// Stderr is left connected to the parent so bridge diagnostics stay visible.
func spawn(execPath string, args []string) (*process, error) {
	cmd := exec.Command(execPath, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdin pipe: %w", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", execPath, err)
	}
	return &process{cmd: cmd, stdin: stdin, out: out}, nil
}

// close shuts the command stream down and reaps the child. The bridge exits
// on stdin EOF; its exit status after a deliberate close is not a failure.
func (p *process) close() error {
	_ = p.stdin.Close()
	err := p.cmd.Wait()
	if _, ok := err.(*exec.ExitError); ok {
		return nil
	}
	return err
}

// BridgeVersion runs `<execPath> -V` and returns the version the executable
// reports. The version is the last space-separated field of the output
// ("sifi_bridge 1.2.3" -> "1.2.3").
func BridgeVersion(execPath string) (string, error) {
	out, err := exec.Command(execPath, "-V").Output()
	if err != nil {
		return "", fmt.Errorf("query %s version: %w", execPath, err)
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty version output from %s", execPath)
	}
	return fields[len(fields)-1], nil
}
