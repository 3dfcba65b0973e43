package blackboard

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the blackboard lifecycle sweep every few minutes:
// scheduled entries go live, expired ones get archived.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(service EntryService, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc("@every 5m", func() {
		if err := service.Sweep(context.Background()); err != nil {
			logger.Error("blackboard sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting blackboard scheduler")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
