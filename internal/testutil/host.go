package testutil

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/roach88/padconv/internal/importer"
)

// FakeHost is an in-process importer.Host that records every call.
//
// Export writes USDContent to the requested path so callers can stat the
// produced artifact. Set the *Err fields or ImportStatus to script
// failures.
type FakeHost struct {
	mu sync.Mutex

	ImportStatus bool
	EnableErr    error
	ImportErr    error
	ExportErr    error
	CloseErr     error
	USDContent   []byte

	Calls      []string
	Extensions []string
	Configs    []importer.ImportConfig
	Closed     int
}

// NewFakeHost returns a host whose imports succeed.
func NewFakeHost() *FakeHost {
	return &FakeHost{ImportStatus: true, USDContent: []byte("#usda 1.0\n")}
}

func (h *FakeHost) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Calls = append(h.Calls, call)
}

// Enable implements importer.Host.
func (h *FakeHost) Enable(ctx context.Context, extension string) error {
	h.record("enable")
	h.mu.Lock()
	h.Extensions = append(h.Extensions, extension)
	h.mu.Unlock()
	return h.EnableErr
}

// Import implements importer.Host.
func (h *FakeHost) Import(ctx context.Context, urdfPath string, cfg importer.ImportConfig) (bool, error) {
	h.record("import")
	h.mu.Lock()
	h.Configs = append(h.Configs, cfg)
	h.mu.Unlock()
	if h.ImportErr != nil {
		return false, h.ImportErr
	}
	return h.ImportStatus, nil
}

// Export implements importer.Host.
func (h *FakeHost) Export(ctx context.Context, usdPath string) error {
	h.record("export")
	if h.ExportErr != nil {
		return h.ExportErr
	}
	return os.WriteFile(usdPath, h.USDContent, 0644)
}

// Close implements importer.Host.
func (h *FakeHost) Close() error {
	h.record("close")
	h.mu.Lock()
	h.Closed++
	h.mu.Unlock()
	return h.CloseErr
}

// FakeLauncher hands out a single FakeHost and counts launches.
type FakeLauncher struct {
	mu        sync.Mutex
	Host      *FakeHost
	LaunchErr error
	Launches  int
}

// NewFakeLauncher returns a launcher for host.
func NewFakeLauncher(host *FakeHost) *FakeLauncher {
	return &FakeLauncher{Host: host}
}

// Launch implements importer.Launcher.
func (l *FakeLauncher) Launch(ctx context.Context) (importer.Host, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Launches++
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	if l.Host == nil {
		return nil, errors.New("fake launcher has no host")
	}
	return l.Host, nil
}
