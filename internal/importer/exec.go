package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

var errHostClosed = errors.New("host already closed")

// ExecLauncher starts the bridge program as a subprocess.
type ExecLauncher struct {
	Command []string  // program and arguments
	Env     []string  // nil inherits the current environment
	Stderr  io.Writer // bridge diagnostics; defaults to os.Stderr
	Logger  *slog.Logger
}

// ParseCommand splits a host command line on whitespace.
func ParseCommand(s string) []string {
	return strings.Fields(s)
}

// Launch starts the bridge. The subprocess is killed if ctx is cancelled.
func (l *ExecLauncher) Launch(ctx context.Context) (Host, error) {
	if len(l.Command) == 0 {
		return nil, ErrNoHost
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, l.Command[0], l.Command[1:]...)
	if l.Env != nil {
		cmd.Env = l.Env
	}
	cmd.Stderr = l.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("host stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("host stdout: %w", err)
	}

	logger.Debug("starting host", "command", l.Command)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", l.Command[0], err)
	}

	return &ExecHost{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   json.NewDecoder(bufio.NewReader(stdout)),
	}, nil
}

type request struct {
	Op        string        `json:"op"`
	Extension string        `json:"extension,omitempty"`
	URDFPath  string        `json:"urdf_path,omitempty"`
	Config    *ImportConfig `json:"config,omitempty"`
	USDPath   string        `json:"usd_path,omitempty"`
}

type response struct {
	OK     bool   `json:"ok"`
	Status bool   `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ExecHost is a Host backed by a bridge subprocess.
// Not safe for concurrent use.
type ExecHost struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	dec    *json.Decoder
	closed bool
}

// Enable implements Host.
func (h *ExecHost) Enable(ctx context.Context, extension string) error {
	_, err := h.call(ctx, request{Op: "enable", Extension: extension})
	return err
}

// Import implements Host.
func (h *ExecHost) Import(ctx context.Context, urdfPath string, cfg ImportConfig) (bool, error) {
	resp, err := h.call(ctx, request{Op: "import", URDFPath: urdfPath, Config: &cfg})
	if err != nil {
		return false, err
	}
	return resp.Status, nil
}

// Export implements Host.
func (h *ExecHost) Export(ctx context.Context, usdPath string) error {
	_, err := h.call(ctx, request{Op: "export", USDPath: usdPath})
	return err
}

// Close asks the bridge to shut down and waits for it to exit.
func (h *ExecHost) Close() error {
	if h.closed {
		return nil
	}
	// Best effort: the bridge may already be gone.
	if err := h.enc.Encode(request{Op: "close"}); err == nil {
		var resp response
		_ = h.dec.Decode(&resp)
	}
	h.closed = true
	_ = h.stdin.Close()

	if err := h.cmd.Wait(); err != nil {
		return fmt.Errorf("host exited: %w", err)
	}
	return nil
}

func (h *ExecHost) call(ctx context.Context, req request) (response, error) {
	if h.closed {
		return response{}, errHostClosed
	}
	if err := ctx.Err(); err != nil {
		return response{}, err
	}
	if err := h.enc.Encode(req); err != nil {
		return response{}, fmt.Errorf("send %s: %w", req.Op, err)
	}

	var resp response
	if err := h.dec.Decode(&resp); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return response{}, fmt.Errorf("read %s response: %w", req.Op, err)
	}
	if !resp.OK {
		return resp, &HostError{Op: req.Op, Message: resp.Error}
	}
	return resp, nil
}
