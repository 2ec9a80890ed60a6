package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"filmoteca/internal/repository"
)

// Scheduler runs periodic maintenance. Session expiry stays lazy at lookup;
// the purge only deletes rows that have already stopped authenticating.
type Scheduler struct {
	cron     *cron.Cron
	sessions repository.SessionRepository
	log      zerolog.Logger
}

// NewScheduler creates a scheduler over the session repository.
func NewScheduler(sessions repository.SessionRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sessions: sessions,
		log:      log,
	}
}

// Start registers the daily purge and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeExpiredSessions); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron loop, waiting briefly for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("purge expired sessions failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("purged expired sessions")
	}
}
