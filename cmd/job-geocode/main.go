package main

import (
	"context"
	"fmt"
	"time"

	"tradecareers_backend/internal/geocode"
	jobrepo "tradecareers_backend/internal/jobs/repository"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/db"
	"tradecareers_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting job geocode backfill")

	if !cfg.IsGeocoderEnabled() {
		log.Error("OPENCAGE_API_KEY is required for the geocode backfill")
		return
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := jobrepo.New(pool)
	geocoder := geocode.NewService(cfg, log)

	const batchSize = 25
	for {
		missing, err := repo.ListMissingCoordinates(ctx, batchSize)
		if err != nil {
			log.Error("failed to list jobs", "error", err)
			return
		}
		if len(missing) == 0 {
			log.Info("no jobs left to geocode")
			return
		}

		progress := false

		for _, job := range missing {
			location := fmt.Sprintf("%s, %s", job.City, job.State)
			coord, found, err := geocoder.Forward(ctx, location)
			if err != nil {
				log.Error("geocode failed", "jobId", job.ID, "error", err)
				time.Sleep(time.Second)
				continue
			}
			if !found {
				log.Info("no geocode result", "jobId", job.ID, "location", location)
				time.Sleep(time.Second)
				continue
			}

			if err := repo.SetCoordinates(ctx, job.ID, coord.Lat, coord.Lng); err != nil {
				log.Error("failed to update job", "jobId", job.ID, "error", err)
				time.Sleep(time.Second)
				continue
			}

			log.Info("job geocoded", "jobId", job.ID, "lat", coord.Lat, "lng", coord.Lng)
			progress = true
			time.Sleep(time.Second)
		}

		if !progress {
			log.Info("no geocode progress in batch, stopping")
			return
		}
	}
}
