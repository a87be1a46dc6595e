package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"donatehub/api/internal/repository"
	"donatehub/api/internal/service"
)

// Scheduler runs the in-process maintenance work: purging expired
// sessions and keeping the public stats aggregate warm.
type Scheduler struct {
	cron      *cron.Cron
	sessions  *repository.SessionRepository
	donations *service.DonationService
	log       zerolog.Logger
}

func NewScheduler(sessions *repository.SessionRepository, donations *service.DonationService, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		sessions:  sessions,
		donations: donations,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * * *", s.purgeExpiredSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 */10 * * * *", s.warmStats); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits briefly for in-flight jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("expired sessions removed")
	}
}

func (s *Scheduler) warmStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.donations.WarmStats(ctx); err != nil {
		s.log.Error().Err(err).Msg("stats warm failed")
	}
}
