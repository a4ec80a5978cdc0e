// Package initializer bootstraps a database from a SQL script.
//
// A run resolves the engine, ensures the data directory, loads the script,
// opens the database, executes the script and commits. The connection is
// closed on every exit path. Nothing is retried.
package initializer

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canonica-labs/dbinit/internal/adapters"
	"github.com/canonica-labs/dbinit/internal/config"
	"github.com/canonica-labs/dbinit/internal/errors"
	"github.com/canonica-labs/dbinit/internal/sqlscript"
)

// Initializer runs a bootstrap script against the configured database.
type Initializer struct {
	cfg      *config.Config
	registry *adapters.AdapterRegistry
	logger   *zap.Logger
}

// Plan describes what a run would do. Building a plan reads the script but
// never touches the database or the data directory.
type Plan struct {
	Engine adapters.EngineAdapter
	Target string
	Script *sqlscript.Script

	// Mode is the execution mode that will actually be used.
	Mode string

	// Batch is true when the script text is sent in one call, false when its
	// statements are executed one at a time.
	Batch bool

	// Warnings explain why Mode differs from the configured mode.
	Warnings []string
}

// Result describes a successful run.
type Result struct {
	RunID      string        `json:"run_id"`
	Engine     string        `json:"engine"`
	Target     string        `json:"target"`
	Script     string        `json:"script"`
	Statements int           `json:"statements"`
	Mode       string        `json:"mode"`
	Tables     []string      `json:"tables"`
	Duration   time.Duration `json:"duration_ns"`
}

// Inspection lists what an existing database holds.
type Inspection struct {
	Engine string   `json:"engine"`
	Target string   `json:"target"`
	Tables []string `json:"tables"`
}

// New creates an Initializer. The configuration is validated here so that a
// bad configuration fails before anything else happens.
func New(cfg *config.Config, registry *adapters.AdapterRegistry, logger *zap.Logger) (*Initializer, error) {
	if cfg == nil {
		return nil, errors.NewInvalidConfig("config", "is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil || registry.IsEmpty() {
		return nil, errors.NewInvalidConfig("database.driver", "no database engines are registered")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{cfg: cfg, registry: registry, logger: logger}, nil
}

// Run executes the bootstrap.
func (i *Initializer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := i.logger.With(zap.String("run_id", runID))

	engine, target, err := i.resolve()
	if err != nil {
		return nil, err
	}
	log.Info("starting database initialization",
		zap.String("engine", engine.Name()),
		zap.String("target", adapters.RedactDSN(target)))

	if engine.FileBased() {
		if err := i.ensureDir(log); err != nil {
			return nil, err
		}
	}

	script, err := i.loadScript()
	if err != nil {
		return nil, err
	}
	plan := i.plan(engine, target, script)
	for _, w := range plan.Warnings {
		log.Warn(w, zap.String("mode", plan.Mode))
	}
	log.Debug("script loaded",
		zap.String("script", script.Source),
		zap.Int("statements", len(script.Statements)),
		zap.Any("kinds", script.Kinds()))

	if engine.FileBased() {
		if err := checkWritable(target); err != nil {
			return nil, err
		}
	}

	db, err := engine.Open(ctx, target)
	if err != nil {
		return nil, errors.NewOpenFailed(engine.Name(), adapters.RedactDSN(target), err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn("closing database failed", zap.Error(cerr))
		}
		log.Debug("database connection released")
	}()

	if err := i.execute(ctx, db, plan); err != nil {
		log.Error("script failed", zap.Error(err))
		return nil, err
	}

	tables, err := engine.Tables(ctx, db)
	if err != nil {
		// The script is committed at this point; the listing is informational.
		log.Warn("listing tables failed", zap.Error(err))
	}

	res := &Result{
		RunID:      runID,
		Engine:     engine.Name(),
		Target:     adapters.RedactDSN(target),
		Script:     script.Source,
		Statements: len(script.Statements),
		Mode:       plan.Mode,
		Tables:     tables,
		Duration:   time.Since(start),
	}
	log.Info("database initialized",
		zap.Int("statements", res.Statements),
		zap.String("mode", res.Mode),
		zap.Strings("tables", res.Tables),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// Plan loads the script and decides how it would be executed.
func (i *Initializer) Plan() (*Plan, error) {
	engine, target, err := i.resolve()
	if err != nil {
		return nil, err
	}
	script, err := i.loadScript()
	if err != nil {
		return nil, err
	}
	return i.plan(engine, target, script), nil
}

// Inspect lists the tables of the configured database. A missing database
// file is reported instead of being created.
func (i *Initializer) Inspect(ctx context.Context) (*Inspection, error) {
	engine, target, err := i.resolve()
	if err != nil {
		return nil, err
	}
	redacted := adapters.RedactDSN(target)

	if engine.FileBased() {
		if _, err := os.Stat(target); err != nil {
			return nil, errors.NewOpenFailed(engine.Name(), target, err)
		}
	}

	db, err := engine.Open(ctx, target)
	if err != nil {
		return nil, errors.NewOpenFailed(engine.Name(), redacted, err)
	}
	defer db.Close()

	tables, err := engine.Tables(ctx, db)
	if err != nil {
		return nil, errors.NewOpenFailed(engine.Name(), redacted, err)
	}
	return &Inspection{Engine: engine.Name(), Target: redacted, Tables: tables}, nil
}

// Engine returns the configured engine adapter.
func (i *Initializer) Engine() (adapters.EngineAdapter, error) {
	return i.registry.Lookup(i.cfg.Database.Driver)
}

func (i *Initializer) resolve() (adapters.EngineAdapter, string, error) {
	engine, err := i.Engine()
	if err != nil {
		return nil, "", err
	}

	if engine.FileBased() {
		if strings.TrimSpace(i.cfg.Database.File) == "" {
			return nil, "", errors.NewInvalidConfig("database.file",
				fmt.Sprintf("is required for the %s engine", engine.Name()))
		}
		return engine, i.cfg.DatabasePath(), nil
	}

	if strings.TrimSpace(i.cfg.Database.DSN) == "" {
		return nil, "", errors.NewInvalidConfig("database.dsn",
			fmt.Sprintf("is required for the %s engine", engine.Name()))
	}
	return engine, i.cfg.Database.DSN, nil
}

func (i *Initializer) ensureDir(log *zap.Logger) error {
	dir := i.cfg.Database.Dir
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewDirectoryFailed(dir, err)
	}
	log.Debug("data directory ready", zap.String("dir", dir))
	return nil
}

func (i *Initializer) loadScript() (*sqlscript.Script, error) {
	if i.cfg.Script.Bundled {
		return sqlscript.Bundled()
	}
	return sqlscript.Load(i.cfg.Script.Path)
}

func (i *Initializer) plan(engine adapters.EngineAdapter, target string, script *sqlscript.Script) *Plan {
	p := &Plan{
		Engine: engine,
		Target: target,
		Script: script,
		Mode:   i.cfg.Exec.Mode,
		Batch:  engine.MultiStatement(),
	}
	if p.Mode != config.ModeTransaction {
		return p
	}

	switch {
	case script.HasTransactionControl():
		p.Mode = config.ModeAutocommit
		p.Warnings = append(p.Warnings, "script manages its own transactions; running in autocommit mode")
	case script.RequiresAutocommit():
		p.Mode = config.ModeAutocommit
		p.Warnings = append(p.Warnings,
			"script has statements that cannot run inside a transaction; running in autocommit mode")
	case !engine.TransactionalDDL():
		p.Mode = config.ModeAutocommit
		p.Warnings = append(p.Warnings,
			fmt.Sprintf("%s commits schema changes implicitly; running in autocommit mode", engine.Name()))
	}
	return p
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (i *Initializer) execute(ctx context.Context, db *sql.DB, p *Plan) error {
	execCtx, err := p.Engine.ScriptContext(ctx)
	if err != nil {
		return errors.NewExecFailed(p.Script.Source, 0, err)
	}

	if p.Mode == config.ModeAutocommit {
		return runScript(execCtx, db, p)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewExecFailed(p.Script.Source, 0, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := runScript(execCtx, tx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.NewCommitFailed(err)
	}
	return nil
}

func runScript(ctx context.Context, ex execer, p *Plan) error {
	if p.Batch {
		if _, err := ex.ExecContext(ctx, p.Script.Text); err != nil {
			return errors.NewExecFailed(p.Script.Source, 0, err)
		}
		return nil
	}

	for _, st := range p.Script.Statements {
		if _, err := ex.ExecContext(ctx, st.SQL); err != nil {
			return errors.NewExecFailed(p.Script.Source, st.Index, err)
		}
	}
	return nil
}

// checkWritable verifies that the database file, or the directory that will
// hold it, can be written.
func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err == nil {
		return f.Close()
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return errors.NewFileAccessFailed(path, err)
	}

	probe, err := os.CreateTemp(filepath.Dir(path), ".dbinit-probe-*")
	if err != nil {
		return errors.NewFileAccessFailed(path, err)
	}
	probe.Close()
	if err := os.Remove(probe.Name()); err != nil {
		return errors.NewFileAccessFailed(path, err)
	}
	return nil
}
