package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Orchestrator runs the enable/import/export sequence against a host.
type Orchestrator struct {
	launcher  Launcher
	extension string
	config    ImportConfig
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConfig overrides the import configuration.
func WithConfig(cfg ImportConfig) Option {
	return func(o *Orchestrator) { o.config = cfg }
}

// WithExtension overrides the extension enabled before import.
func WithExtension(id string) Option {
	return func(o *Orchestrator) { o.extension = id }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New returns an Orchestrator using the default import configuration.
func New(launcher Launcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		launcher:  launcher,
		extension: URDFExtension,
		config:    DefaultImportConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns the import configuration sent to the host.
func (o *Orchestrator) Config() ImportConfig {
	return o.config
}

// Convert imports urdfPath through a freshly launched host and exports the
// resulting stage to usdPath.
//
// Returns *MissingInputError before launching anything when urdfPath does
// not exist, and *ImportFailureError when the host rejects the import.
// Other host errors are wrapped with %w and otherwise unchanged.
func (o *Orchestrator) Convert(ctx context.Context, urdfPath, usdPath string) (err error) {
	if _, statErr := os.Stat(urdfPath); statErr != nil {
		if os.IsNotExist(statErr) {
			return &MissingInputError{Path: urdfPath}
		}
		return fmt.Errorf("stat source URDF: %w", statErr)
	}

	o.logger.Info("launching import host")
	host, err := o.launcher.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launch host: %w", err)
	}
	defer func() {
		if closeErr := host.Close(); closeErr != nil {
			o.logger.Error("error closing import host", "error", closeErr)
			if err == nil {
				err = fmt.Errorf("close host: %w", closeErr)
			}
		}
	}()

	o.logger.Debug("enabling extension", "extension", o.extension)
	if err := host.Enable(ctx, o.extension); err != nil {
		return fmt.Errorf("enable %s: %w", o.extension, err)
	}

	o.logger.Info("importing urdf", "path", urdfPath)
	ok, err := host.Import(ctx, urdfPath, o.config)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if !ok {
		return &ImportFailureError{URDFPath: urdfPath}
	}
	o.logger.Info("urdf import successful")

	if err := host.Export(ctx, usdPath); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	o.logger.Info("usd export successful", "path", usdPath)

	return nil
}
