package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smcclab/video-stitcher/internal/catalog"
	"github.com/smcclab/video-stitcher/internal/config"
	"github.com/smcclab/video-stitcher/internal/ffmpeg"
	"github.com/smcclab/video-stitcher/internal/history"
	"github.com/smcclab/video-stitcher/internal/logging"
)

// Renderer drives the full pipeline: catalog load, per-item processing, and
// per-session collation.
type Renderer struct {
	cfg     *config.Config
	logger  *slog.Logger
	runner  *ffmpeg.Runner
	history *history.Store
	runID   string
	force   bool
	dryRun  bool
}

// Option configures optional Renderer behavior.
type Option func(*Renderer)

// WithForce disables the mtime freshness checks so every item and session is
// re-rendered.
func WithForce() Option {
	return func(r *Renderer) { r.force = true }
}

// WithDryRun logs the ffmpeg work that would happen without executing it.
func WithDryRun() Option {
	return func(r *Renderer) { r.dryRun = true }
}

// WithHistory records one row per session attempt in the given store.
func WithHistory(store *history.Store) Option {
	return func(r *Renderer) { r.history = store }
}

// New constructs a Renderer. Each Renderer carries a run ID that tags every
// log line and history record it produces.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:   cfg,
		runID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	r.logger = logger.With(logging.String(logging.FieldRunID, r.runID))
	r.runner = ffmpeg.NewRunner(cfg.FFmpegBinary(), r.logger)
	if r.dryRun {
		r.runner = r.runner.DryRun()
	}
	return r
}

// RunID returns the identifier tagging this renderer's log lines and history
// records.
func (r *Renderer) RunID() string {
	return r.runID
}

// SessionResult summarizes one session render attempt.
type SessionResult struct {
	Session    string
	Items      int
	Skipped    int
	OutputPath string
	Status     history.Status
	Err        error
	Elapsed    time.Duration
}

// RenderAll loads the catalog and renders every session, or only the listed
// session codes when codes is non-empty. A failing session is reported in its
// result and does not abort the remaining sessions.
func (r *Renderer) RenderAll(ctx context.Context, codes []string) ([]SessionResult, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	rows, err := catalog.Load(r.cfg.Paths.CatalogFile, r.cfg.Catalog, r.logger)
	if err != nil {
		return nil, err
	}
	sessions := catalog.GroupBySession(rows)
	sessions, err = filterSessions(sessions, codes)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}

	log := logging.WithComponent(r.logger, "render")
	results := make([]SessionResult, 0, len(sessions))
	for _, session := range sessions {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		result := r.renderSession(ctx, session)
		r.recordHistory(ctx, result)
		if result.Err != nil {
			log.Error("session failed",
				logging.String(logging.FieldSession, result.Session),
				logging.Error(result.Err),
			)
		} else {
			log.Info("session complete",
				logging.String(logging.FieldSession, result.Session),
				logging.String("status", string(result.Status)),
				logging.String(logging.FieldPath, result.OutputPath),
				logging.Duration("elapsed", result.Elapsed),
			)
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Renderer) renderSession(ctx context.Context, session catalog.Session) SessionResult {
	started := time.Now()
	result := SessionResult{Session: session.Code}

	items := catalog.ResolveSession(r.cfg.Paths.InputsDir, r.cfg.Encode.Extensions, session, r.logger)
	result.Skipped = len(session.Rows) - len(items)

	outcome, err := r.Collate(ctx, session.Code, items)
	result.Elapsed = time.Since(started)
	if err != nil {
		result.Status = history.StatusFailed
		result.Err = err
		return result
	}
	result.Items = outcome.Items
	result.OutputPath = outcome.OutputPath
	if outcome.Fresh {
		result.Status = history.StatusFresh
	} else {
		result.Status = history.StatusRendered
	}
	return result
}

func (r *Renderer) recordHistory(ctx context.Context, result SessionResult) {
	if r.history == nil || r.dryRun {
		return
	}
	rec := history.Record{
		RunID:      r.runID,
		Session:    result.Session,
		Items:      result.Items,
		Skipped:    result.Skipped,
		OutputPath: result.OutputPath,
		Status:     result.Status,
		StartedAt:  time.Now().Add(-result.Elapsed),
		FinishedAt: time.Now(),
	}
	if result.Err != nil {
		rec.ErrorText = result.Err.Error()
	}
	if err := r.history.Add(ctx, rec); err != nil {
		r.logger.Warn("failed to record render history", logging.Error(err))
	}
}

func filterSessions(sessions []catalog.Session, codes []string) ([]catalog.Session, error) {
	if len(codes) == 0 {
		return sessions, nil
	}
	byCode := make(map[string]catalog.Session, len(sessions))
	for _, session := range sessions {
		byCode[session.Code] = session
	}
	filtered := make([]catalog.Session, 0, len(codes))
	for _, code := range codes {
		session, ok := byCode[code]
		if !ok {
			return nil, fmt.Errorf("%w: unknown session %q", ErrNoSessions, code)
		}
		filtered = append(filtered, session)
	}
	return filtered, nil
}
