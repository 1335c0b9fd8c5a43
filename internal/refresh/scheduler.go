package refresh

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/pricing"
)

const jobTimeout = 10 * time.Minute

// Scheduler drives the periodic refresh and pricing jobs. Panics inside a
// job are recovered and logged instead of taking the process down.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(refreshSpec, pricingSpec string, pipeline *Pipeline, pricer *pricing.Service) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cronLogger{})))

	if _, err := c.AddFunc(refreshSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := pipeline.RefreshAllGuilds(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled refresh failed")
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(pricingSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := pricer.RefreshPrices(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled pricing refresh failed")
		}
	}); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("refresh scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// cronLogger adapts the cron logger interface onto zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
