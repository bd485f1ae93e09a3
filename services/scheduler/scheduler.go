package scheduler

import (
	"github.com/robfig/cron/v3"

	"boradedesconto/offerworker/logger"
)

// Scheduler drives periodic ingestion cycles. It is a thin shell around
// cron: the orchestrator itself knows nothing about time.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New creates an idle scheduler
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  logger.ForScheduler(),
	}
}

// Add registers a job under a cron spec ("@every 1h", "0 */6 * * *", ...).
func (s *Scheduler) Add(spec string, name string, job func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Info().Str("job", name).Msg("Scheduled run starting")
		job()
		s.log.Info().Str("job", name).Msg("Scheduled run finished")
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("job", name).Str("spec", spec).Msg("Job scheduled")
	return nil
}

// Start launches the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
