package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"k9vision/api/internal/repository"
)

// retainExpired keeps expired unconsumed tokens around for a while so
// support can answer "my link stopped working" questions.
const retainExpired = 30 * 24 * time.Hour

type Scheduler struct {
	cron  *cron.Cron
	store repository.Store
	log   zerolog.Logger
}

func NewScheduler(store repository.Store, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		store: store,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeTokens); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running purge to finish, up to five seconds.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) purgeTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.store.Tokens().PurgeExpired(ctx, time.Now().Add(-retainExpired))
	if err != nil {
		s.log.Error().Err(err).Msg("token purge failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("expired tokens purged")
	}
}
