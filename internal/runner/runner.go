// Package runner sequences a conversion run: URDF import through the host,
// then config emission, tracked by a small state machine.
//
//	init -> importing -> exporting-config -> done
//	  \          \               \
//	   +----------+---------------+--> failed
//
// Every error is caught, logged and surfaced on the Report. Nothing is
// retried.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/padconv/internal/layout"
	"github.com/roach88/padconv/internal/metrics"
	"github.com/roach88/padconv/internal/padcfg"
	"github.com/roach88/padconv/internal/sensor"
	"github.com/roach88/padconv/internal/store"
)

// Converter turns a URDF file into a USD file.
// Implemented by *importer.Orchestrator.
type Converter interface {
	Convert(ctx context.Context, urdfPath, usdPath string) error
}

// Ledger records runs. Implemented by *store.Store.
type Ledger interface {
	BeginRun(ctx context.Context, r store.Run) error
	RecordTransition(ctx context.Context, tr store.Transition) error
	FinishRun(ctx context.Context, r store.Run) error
	LastHash(ctx context.Context, profile, yamlPath string) (string, error)
}

// ErrNoConverter is returned when an import is requested without a Converter.
var ErrNoConverter = errors.New("no converter configured")

// Config configures a Runner. Layout and Profile are required.
type Config struct {
	Layout  layout.Layout
	Profile sensor.Profile

	// Converter is required unless SkipImport is set.
	Converter Converter
	// SkipImport emits the config only: init -> exporting-config.
	SkipImport bool

	// Ledger and Metrics are optional.
	Ledger  Ledger
	Metrics *metrics.Recorder

	Now    func() time.Time
	NewID  func() string
	Logger *slog.Logger
}

// Transition is one recorded state change.
type Transition struct {
	Seq  int64     `json:"seq"`
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}

// Report is the outcome of a run.
type Report struct {
	RunID       string        `json:"run_id"`
	Profile     string        `json:"profile"`
	State       State         `json:"state"`
	URDFPath    string        `json:"urdf_path"`
	USDPath     string        `json:"usd_path"`
	YAMLPath    string        `json:"yaml_path"`
	TotalPads   int           `json:"total_pads"`
	Groups      int           `json:"groups"`
	USDBytes    int64         `json:"usd_bytes"`
	YAMLBytes   int64         `json:"yaml_bytes"`
	YAMLHash    string        `json:"yaml_hash,omitempty"`
	Unchanged   bool          `json:"unchanged"`
	Duration    time.Duration `json:"duration_ns"`
	Error       string        `json:"error,omitempty"`
	Transitions []Transition  `json:"transitions"`

	// Err is the failure cause when State is StateFailed.
	Err error `json:"-"`
}

// OK reports whether the run reached StateDone.
func (r *Report) OK() bool {
	return r.State == StateDone
}

// Runner executes conversion runs.
type Runner struct {
	cfg Config
}

// New returns a Runner, filling defaults for Now, NewID and Logger.
func New(cfg Config) *Runner {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Runner{cfg: cfg}
}

// run is the mutable state of one Run call.
type run struct {
	*Runner
	ctx       context.Context
	// ledgerCtx outlives cancellation so an interrupted run is still recorded.
	ledgerCtx context.Context
	clock     *Clock
	report    *Report
	ledger    Ledger
	logger    *slog.Logger
}

// Run performs one conversion and returns its report. It never returns nil.
func (r *Runner) Run(ctx context.Context) *Report {
	cfg := r.cfg
	start := cfg.Now()
	rep := &Report{
		RunID:     cfg.NewID(),
		Profile:   cfg.Profile.Name,
		State:     StateInit,
		URDFPath:  cfg.Layout.URDFPath,
		USDPath:   cfg.Layout.USDPath,
		YAMLPath:  cfg.Layout.YAMLPath,
		TotalPads: cfg.Profile.TotalPads(),
		Groups:    len(cfg.Profile.Groups),
	}
	x := &run{
		Runner:    r,
		ctx:       ctx,
		ledgerCtx: context.WithoutCancel(ctx),
		clock:     NewClock(),
		report:    rep,
		ledger:    cfg.Ledger,
		logger:    cfg.Logger.With("run_id", rep.RunID, "profile", rep.Profile),
	}

	x.begin(start)
	if err := x.execute(); err != nil {
		x.fail(err)
	}
	rep.Duration = cfg.Now().Sub(start)
	x.finish()
	return rep
}

func (x *run) execute() error {
	cfg := x.cfg
	if err := cfg.Layout.EnsureOutputDirs(); err != nil {
		return err
	}

	if !cfg.SkipImport {
		if err := x.transition(StateImporting); err != nil {
			return err
		}
		if cfg.Converter == nil {
			return ErrNoConverter
		}
		if err := cfg.Converter.Convert(x.ctx, cfg.Layout.URDFPath, cfg.Layout.USDPath); err != nil {
			return err
		}
	}

	if info, err := os.Stat(cfg.Layout.USDPath); err == nil {
		x.report.USDBytes = info.Size()
	} else if !cfg.SkipImport {
		return fmt.Errorf("stat exported USD: %w", err)
	}

	if err := x.transition(StateExportingConfig); err != nil {
		return err
	}
	previous := x.lastHash()

	data, err := padcfg.WriteFile(cfg.Layout.YAMLPath, cfg.Profile, cfg.Layout.USDPath, padcfg.Meta{
		SourceName:  filepath.Base(cfg.Layout.URDFPath),
		GeneratedAt: cfg.Now(),
	})
	if err != nil {
		return err
	}
	x.report.YAMLBytes = int64(len(data))
	x.report.YAMLHash = padcfg.BodyHash(data)
	x.report.Unchanged = previous != "" && previous == x.report.YAMLHash
	x.logger.Info("config written", "path", cfg.Layout.YAMLPath, "bytes", x.report.YAMLBytes, "unchanged", x.report.Unchanged)

	return x.transition(StateDone)
}

func (x *run) transition(to State) error {
	from := x.report.State
	if !from.CanTransition(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	tr := Transition{Seq: x.clock.Next(), From: from, To: to, At: x.cfg.Now()}
	x.report.State = to
	x.report.Transitions = append(x.report.Transitions, tr)
	x.logger.Debug("state transition", "seq", tr.Seq, "from", from, "to", to)

	if x.ledger != nil {
		err := x.ledger.RecordTransition(x.ledgerCtx, store.Transition{
			RunID: x.report.RunID,
			Seq:   tr.Seq,
			From:  string(tr.From),
			To:    string(tr.To),
			At:    tr.At,
		})
		if err != nil {
			x.ledgerFailed("record transition", err)
		}
	}
	return nil
}

func (x *run) fail(err error) {
	x.report.Err = err
	x.report.Error = err.Error()
	if x.report.State.CanTransition(StateFailed) {
		_ = x.transition(StateFailed)
	} else {
		x.report.State = StateFailed
	}
	x.logger.Error("conversion failed", "state", x.report.State, "error", err)
}

func (x *run) begin(start time.Time) {
	x.logger.Info("starting conversion", "urdf", x.report.URDFPath, "skip_import", x.cfg.SkipImport)
	if x.ledger == nil {
		return
	}
	err := x.ledger.BeginRun(x.ledgerCtx, store.Run{
		ID:        x.report.RunID,
		Profile:   x.report.Profile,
		SourceDir: x.cfg.Layout.SourceDir,
		URDFPath:  x.report.URDFPath,
		USDPath:   x.report.USDPath,
		YAMLPath:  x.report.YAMLPath,
		State:     string(StateInit),
		TotalPads: x.report.TotalPads,
		StartedAt: start,
	})
	if err != nil {
		x.ledgerFailed("begin run", err)
	}
}

func (x *run) lastHash() string {
	if x.ledger == nil {
		return ""
	}
	h, err := x.ledger.LastHash(x.ledgerCtx, x.report.Profile, x.report.YAMLPath)
	if err != nil {
		x.ledgerFailed("last hash", err)
		return ""
	}
	return h
}

func (x *run) finish() {
	rep := x.report
	if rep.OK() {
		x.logger.Info("conversion complete",
			"usd_bytes", rep.USDBytes,
			"yaml_bytes", rep.YAMLBytes,
			"total_pads", rep.TotalPads,
			"duration", rep.Duration)
	}

	if x.ledger != nil {
		err := x.ledger.FinishRun(x.ledgerCtx, store.Run{
			ID:         rep.RunID,
			State:      string(rep.State),
			Error:      rep.Error,
			TotalPads:  rep.TotalPads,
			USDBytes:   rep.USDBytes,
			YAMLBytes:  rep.YAMLBytes,
			YAMLHash:   rep.YAMLHash,
			FinishedAt: x.cfg.Now(),
		})
		if err != nil {
			x.ledgerFailed("finish run", err)
		}
	}

	if m := x.cfg.Metrics; m != nil {
		m.ObserveRun(rep.Profile, string(rep.State), rep.Duration)
		if rep.OK() {
			m.ObserveProfile(x.cfg.Profile)
			m.ObserveArtifact(metrics.ArtifactUSD, rep.USDBytes)
			m.ObserveArtifact(metrics.ArtifactYAML, rep.YAMLBytes)
		}
	}
}

// ledgerFailed logs a ledger error and stops further ledger writes. The
// conversion itself carries on.
func (x *run) ledgerFailed(op string, err error) {
	x.logger.Warn("run ledger unavailable", "op", op, "error", err)
	x.ledger = nil
}
