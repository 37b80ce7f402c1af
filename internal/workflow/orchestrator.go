// -- internal/workflow/orchestrator.go --
package workflow

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/api/schemas"
	"github.com/mesaworks/smartpost/internal/browser"
	"github.com/mesaworks/smartpost/internal/config"
)

// runSession is the slice of the browser session the orchestrator needs.
// Narrowed to an interface so the run loop is testable without Chrome.
type runSession interface {
	Close()
	IsClosed() bool
	Screenshot(ctx context.Context, dir, label string) (string, error)
}

// Orchestrator sequences the wizard stages for one job record at a time:
// fail-fast ordering, a single session per run, and teardown guaranteed on
// every exit path. A failed stage is terminal for the run; there is no
// stage-level retry here.
type Orchestrator struct {
	cfg    *config.Config
	logger *zap.Logger

	// openRun opens the session and builds the stage pipeline for one job.
	// Swapped out in tests.
	openRun func(ctx context.Context, job schemas.JobRecord) (runSession, []StageDef, error)
}

// NewOrchestrator creates an orchestrator backed by a real browser session.
func NewOrchestrator(cfg *config.Config, logger *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		logger: logger.Named("orchestrator"),
	}
	o.openRun = o.openBrowserRun
	return o
}

func (o *Orchestrator) openBrowserRun(ctx context.Context, job schemas.JobRecord) (runSession, []StageDef, error) {
	session, err := browser.NewSession(ctx, o.cfg.Browser, o.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open browser session: %w", err)
	}
	poster := NewPoster(session, o.cfg, job, o.logger)
	return session, poster.Stages(), nil
}

// Run drives the full pipeline for one job record and reports whether
// every stage succeeded in order. The job record is treated as read-only
// for the duration of the run.
func (o *Orchestrator) Run(ctx context.Context, job schemas.JobRecord) (ok bool) {
	runID := uuid.New().String()
	log := o.logger.With(
		zap.String("run_id", runID),
		zap.String("company", job.CompanyName),
		zap.String("title", job.JobTitle),
	)
	log.Info("Workflow run starting.")

	session, stages, err := o.openRun(ctx, job)
	if err != nil {
		log.Error("Workflow run could not start.", zap.Error(err))
		return false
	}

	// The one teardown for the run. Close is idempotent, so an early close
	// elsewhere cannot cause a double release.
	defer session.Close()

	// Outermost fault boundary: a stage must not panic, but if one does,
	// the run fails and the deferred teardown still executes.
	defer func() {
		if r := recover(); r != nil {
			log.Error("Unexpected fault during workflow run.",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			ok = false
		}
	}()

	start := time.Now()
	for i, stage := range stages {
		stageLog := log.With(zap.String("stage", stage.Name), zap.Int("position", i+1))
		stageLog.Info("Stage starting.")

		result := stage.Run(ctx)
		if !result.Success() {
			stageLog.Error("Stage failed; aborting run.", zap.String("reason", result.Reason()))
			o.captureFailure(session, stage.Name)
			return false
		}
		stageLog.Info("Stage completed.")
	}

	log.Info("Workflow run completed successfully.",
		zap.Int("stages", len(stages)),
		zap.Duration("elapsed", time.Since(start)))
	return true
}

// captureFailure snapshots the UI at the point of the first failing stage.
// Uses a fresh context so the artifact is still captured when the run's
// context is already canceled.
func (o *Orchestrator) captureFailure(session runSession, stageName string) {
	capCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	path, err := session.Screenshot(capCtx, o.cfg.Artifacts.Dir, stageName+"_error")
	if err != nil {
		o.logger.Warn("Could not capture failure screenshot.",
			zap.String("stage", stageName), zap.Error(err))
		return
	}
	o.logger.Info("Failure screenshot captured.",
		zap.String("stage", stageName), zap.String("path", path))
}
