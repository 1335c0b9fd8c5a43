package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/config"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/gameweek"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/leetify"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/logging"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/pricing"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/refresh"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
	httptransport "github.com/AlfiePerkins1/mvp-fantasy-cs/internal/transport/http"
)

func main() {
	// .env is a local-dev convenience; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	clock := gameweek.NewClock()

	client := leetify.NewClient(cfg.Refresh.LeetifyBaseURL,
		time.Duration(cfg.Refresh.LeetifyTimeoutMS)*time.Millisecond)
	pipeline := refresh.NewPipeline(st, clock, client, refresh.Config{
		IngestLimit:    cfg.Refresh.IngestLimit,
		MaxParallelism: cfg.Refresh.MaxParallelism,
	})
	pricer := pricing.NewService(st, client)

	if cfg.Refresh.CronEnabled {
		sched, err := refresh.NewScheduler(cfg.Refresh.RefreshCronSpec, cfg.Refresh.PricingCronSpec, pipeline, pricer)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler init failed")
		}
		sched.Start()
		defer sched.Stop()
	}

	r := httptransport.NewRouter(st, cfg.Server, clock, pipeline, pricer)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
