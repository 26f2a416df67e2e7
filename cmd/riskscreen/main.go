package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/finshield/riskscreen/internal/api"
	"github.com/finshield/riskscreen/internal/audit"
	"github.com/finshield/riskscreen/internal/compliance"
	"github.com/finshield/riskscreen/internal/config"
	"github.com/finshield/riskscreen/internal/metrics"
	"github.com/finshield/riskscreen/internal/screening"
	"github.com/finshield/riskscreen/internal/watchlist"
	"github.com/finshield/riskscreen/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	metrics.Register(prometheus.DefaultRegisterer)

	store := watchlist.NewStore(cfg.Watchlist.DataDir, zapLogger)
	if err := store.Load(); err != nil {
		zapLogger.Fatal("failed to load watchlists", zap.Error(err))
	}
	metrics.WatchlistRecords.Set(float64(len(store.Records())))

	engine := screening.NewEngine(store, cfg.Watchlist.SimilarityThreshold, zapLogger)
	recorder := audit.NewRecorder(zapLogger)
	service := compliance.NewService(store, engine, recorder, zapLogger)

	server := api.NewServer(service, zapLogger)
	if err := server.Run(cfg.Server.Addr); err != nil {
		zapLogger.Fatal("api server exited", zap.Error(err))
	}
}
