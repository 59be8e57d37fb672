package maintenance

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
	job  *Job
}

func NewScheduler(job *Job) *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds()), job: job}
}

// Start schedules the nightly pass at 12:00AM and returns immediately.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 0 * * *", func() {
		s.job.Run(context.Background())
	})
	if err != nil {
		return err
	}

	log.Println("maintenance scheduler started (nightly at 12:00AM)")
	s.cron.Start()
	return nil
}

// Stop waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
