package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fileapi/internal/api"
	"fileapi/internal/config"
	"fileapi/internal/jobs"
	"fileapi/internal/spawn"
	"fileapi/internal/tempfile"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	stagingDir := filepath.Join(cfg.Static.Root, cfg.Static.DownloadsDir)
	resultsDir := filepath.Join(cfg.Static.Root, cfg.Static.JobResultsDir)
	for _, dir := range []string{stagingDir, resultsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	retention := time.Duration(cfg.RetentionSeconds) * time.Second

	sp := spawn.NewSpawner()
	publisher := tempfile.NewPublisher(stagingDir, path.Join(cfg.Static.PublicBase, cfg.Static.DownloadsDir), sp)
	publisher.Retention = retention
	runner := jobs.NewRunner(resultsDir, sp, logger)

	tempfile.SweepStale(stagingDir, retention, logger)
	go func() {
		for {
			time.Sleep(time.Hour)
			tempfile.SweepStale(stagingDir, retention, logger)
		}
	}()

	works := map[string]jobs.Work{
		"ping": func() (any, error) { return "pong", nil },
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	api.RegisterHandlers(r, &api.APIHandler{
		Publisher: publisher,
		Runner:    runner,
		Works:     works,
	})

	logger.Infof("Server starting on :%d...", cfg.Server.Port)
	r.Run(fmt.Sprintf(":%d", cfg.Server.Port))
}
