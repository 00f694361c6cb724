package dataset

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// cronLogger routes cron's own logging through zap.
type cronLogger struct{ log *zap.SugaredLogger }

func (l cronLogger) Info(msg string, kv ...any) { l.log.Debugw(msg, kv...) }
func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Errorw(msg, append(kv, "error", err)...)
}

// Scheduler re-runs an import on a cron schedule. Runs never overlap; a
// tick that fires while the previous import is still going is skipped.
type Scheduler struct {
	cron     *cron.Cron
	importer *Importer
	sources  Sources
	spec     string
	replace  bool
}

// NewScheduler creates a Scheduler for spec, e.g. "@daily" or "0 3 * * 1".
func NewScheduler(im *Importer, src Sources, spec string, replace bool) *Scheduler {
	logger := cronLogger{log: zap.L().Sugar().Named("cron")}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger))),
		importer: im,
		sources:  src,
		spec:     spec,
		replace:  replace,
	}
}

// Start registers the import job and starts the cron loop. ctx bounds every
// run.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return eris.Wrapf(err, "dataset: schedule %q", s.spec)
	}
	s.cron.Start()
	zap.L().Info("dataset: refresh scheduled", zap.String("spec", s.spec))
	return nil
}

// Stop halts the schedule and waits for a running import to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	zap.L().Info("dataset: refresh schedule stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	zap.L().Info("dataset: scheduled refresh started")
	if _, err := s.importer.Run(ctx, s.sources, s.replace); err != nil {
		zap.L().Error("dataset: scheduled refresh failed", zap.Error(err))
	}
}
