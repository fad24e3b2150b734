// Package probe runs the connectivity probe: connect, introspect, optionally
// repeat against a secondary database, release everything, and report.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"dbprobe/internal/storage"
)

// DefaultSecondary is the database probed again when the server lists it
const DefaultSecondary = "appdb"

// Options configures a Prober
type Options struct {
	// Config is the primary connection. It is never modified.
	Config storage.Config
	// Secondary names the database to probe when it appears in the listing.
	// Empty disables the second connection.
	Secondary string
	// Columns lists the columns of every table found.
	Columns bool
	Open    storage.Opener
	Logger  *slog.Logger
	Metrics *storage.Metrics
}

// Prober runs one probe per call to Run
type Prober struct {
	cfg       storage.Config
	secondary string
	columns   bool
	open      storage.Opener
	logger    *slog.Logger
	metrics   *storage.Metrics
}

// New creates a new Prober
func New(opts Options) *Prober {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		cfg:       opts.Config,
		secondary: opts.Secondary,
		columns:   opts.Columns,
		open:      opts.Open,
		logger:    logger,
		metrics:   opts.Metrics,
	}
}

// Run performs a single probe. The report is never nil and holds whatever was
// gathered before a failure. A non-nil error is always a *Error.
func (p *Prober) Run(ctx context.Context) (*Report, error) {
	report := NewReport(p.cfg)
	logger := p.logger.With("run_id", report.ID)

	start := time.Now()
	err := p.run(ctx, logger, report)
	duration := time.Since(start)

	report.Duration = duration.String()
	report.fail(err)
	p.metrics.ObserveRun(duration, err)

	if err != nil {
		logger.Warn("probe failed", "kind", KindOf(err), "stage", report.Stage, "error", err)
		return report, err
	}
	logger.Info("probe finished", "duration", duration, "tables", len(report.Primary.Tables))
	return report, nil
}

func (p *Prober) run(ctx context.Context, logger *slog.Logger, report *Report) (err error) {
	if p.open == nil {
		return generic(errors.New("no database opener configured"))
	}

	conn, err := p.connect(ctx, logger, p.cfg)
	if err != nil {
		return operational(err)
	}
	report.advance(StageConnected)

	// conn always holds the one open connection, released on every path.
	defer func() {
		if conn == nil {
			return
		}
		if cerr := conn.Close(); cerr != nil {
			if err == nil {
				err = generic(fmt.Errorf("closing connection: %w", cerr))
				return
			}
			logger.Warn("failed to close connection", "error", cerr)
			return
		}
		if err == nil {
			report.advance(StageClosed)
		}
	}()

	report.Version, err = timed(p, logger, "server_version", func() (string, error) {
		return conn.ServerVersion(ctx)
	})
	if err != nil {
		return generic(err)
	}
	report.advance(StageVersion)

	report.CurrentDatabase, err = timed(p, logger, "current_database", func() (string, error) {
		return conn.CurrentDatabase(ctx)
	})
	if err != nil {
		return generic(err)
	}
	report.advance(StageCurrentDatabase)

	report.Databases, err = timed(p, logger, "databases", func() ([]string, error) {
		return conn.ListDatabases(ctx)
	})
	if err != nil {
		return generic(err)
	}
	report.advance(StageDatabases)

	report.Primary, err = p.listTables(ctx, logger, conn, report.CurrentDatabase)
	if err != nil {
		return generic(err)
	}
	report.advance(StageTables)

	if p.secondary == "" || !slices.Contains(report.Databases, p.secondary) {
		return nil
	}

	report.Secondary = &TableListing{Database: p.secondary}
	closing := conn
	conn = nil
	if err := closing.Close(); err != nil {
		return generic(fmt.Errorf("closing connection: %w", err))
	}

	next, err := p.connect(ctx, logger, p.cfg.WithDatabase(p.secondary))
	if err != nil {
		return generic(err)
	}
	conn = next

	listing, err := p.listTables(ctx, logger, conn, p.secondary)
	if err != nil {
		return generic(err)
	}
	report.Secondary = listing
	report.advance(StageSecondaryTables)

	return nil
}

func (p *Prober) connect(ctx context.Context, logger *slog.Logger, cfg storage.Config) (storage.Inspector, error) {
	logger.Info("connecting",
		"engine", cfg.Engine(),
		"host", cfg.Host,
		"port", cfg.Port,
		"user", cfg.Username,
		"database", cfg.Database,
	)

	conn, err := p.open(ctx, cfg)
	p.metrics.ObserveConnect(cfg.Database, err)
	if err != nil {
		logger.Warn("connection failed",
			"database", cfg.Database,
			"reason", storage.ReasonOf(err),
			"error", err,
		)
		return nil, err
	}
	return conn, nil
}

func (p *Prober) listTables(ctx context.Context, logger *slog.Logger, conn storage.Inspector, database string) (*TableListing, error) {
	tables, err := timed(p, logger, "tables", func() ([]string, error) {
		return conn.ListTables(ctx)
	})
	if err != nil {
		return nil, err
	}
	p.metrics.SetTables(database, len(tables))

	listing := &TableListing{Database: database, Tables: tables}
	if !p.columns {
		return listing, nil
	}

	listing.Columns = make(map[string][]storage.Column, len(tables))
	for _, table := range tables {
		columns, err := timed(p, logger, "columns", func() ([]storage.Column, error) {
			return conn.ListColumns(ctx, table)
		})
		if err != nil {
			return nil, err
		}
		listing.Columns[table] = columns
	}
	return listing, nil
}

func timed[T any](p *Prober, logger *slog.Logger, query string, fn func() (T, error)) (T, error) {
	start := time.Now()
	value, err := fn()
	elapsed := time.Since(start)

	p.metrics.ObserveQuery(query, elapsed)
	logger.Debug("query finished", "query", query, "duration", elapsed, "error", err)
	return value, err
}
