package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/config"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/infrastructure/repository/memory"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/interfaces/httpapi"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/resilience"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/relevance"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/sources"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/textparse"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := usecase.NewMetrics(registry)

	breakerCfg := resilience.BreakerConfig{
		Enabled:          cfg.FeedCircuitEnabled,
		FailureThreshold: cfg.FeedCircuitFailureCount,
		OpenTimeout:      cfg.FeedCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
	}

	parser := textparse.NewParser()
	parser.MinConfidence = cfg.MinConfidence
	parser.IsClubName = relevance.IsKnownClub

	transferSources, newsSources, clearers := buildSources(cfg, logger, parser, breakerCfg)

	seedRepo := memory.NewTransferRepository(memory.SeedTransfers())
	seedSource := sources.NewSeedSource(seedRepo)

	feedSvc := usecase.NewFeedService(usecase.FeedServiceConfig{
		Sources:    transferSources,
		Seed:       seedSource,
		DedupKey:   dedupKeyForPolicy(cfg.DedupPolicy),
		MaxWorkers: cfg.FeedMaxWorkers,
		Logger:     logger,
		Metrics:    metrics,
	})
	controller := usecase.NewFeedController(usecase.FeedControllerConfig{
		Aggregator: feedSvc,
		Seed:       seedSource,
		TTL:        cfg.SnapshotTTL,
		Logger:     logger,
		Metrics:    metrics,
	})
	newsSvc := usecase.NewNewsService(usecase.NewsServiceConfig{
		Sources:  newsSources,
		CacheTTL: cfg.NewsCacheTTL,
		Logger:   logger,
		Metrics:  metrics,
	})
	teamSvc := usecase.NewTeamService(controller, newsSvc, logger)
	adminSvc := usecase.NewAdminService(controller, newsSvc, clearers, logger)

	handler := httpapi.NewHandler(controller, newsSvc, teamSvc, adminSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		MetricsRegistry:    registry,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildSources(
	cfg config.Config,
	logger *logging.Logger,
	parser *textparse.Parser,
	breakerCfg resilience.BreakerConfig,
) ([]sources.TransferSource, []sources.NewsSource, map[string]usecase.CacheClearer) {
	var transferSources []sources.TransferSource
	var newsSources []sources.NewsSource
	clearers := make(map[string]usecase.CacheClearer)

	// Registration order is merge priority: structured feeds outrank
	// free-text extraction on duplicate records.
	if cfg.TransferAPIEnabled {
		adapter := sources.NewTransferAPI(sources.TransferAPIConfig{
			BaseURL:        cfg.TransferAPIBaseURL,
			APIKey:         cfg.TransferAPIKey,
			Timeout:        cfg.TransferAPITimeout,
			MaxRetries:     cfg.TransferAPIMaxRetries,
			CacheTTL:       cfg.TransferAPICacheTTL,
			Logger:         logger,
			CircuitBreaker: breakerCfg,
		})
		transferSources = append(transferSources, adapter)
		clearers[scopeName(adapter.Name())] = adapter
	}

	if cfg.DealWireEnabled {
		adapter := sources.NewDealWire(sources.DealWireConfig{
			BaseURL:        cfg.DealWireBaseURL,
			Token:          cfg.DealWireToken,
			Timeout:        cfg.DealWireTimeout,
			CacheTTL:       cfg.DealWireCacheTTL,
			Logger:         logger,
			CircuitBreaker: breakerCfg,
		})
		transferSources = append(transferSources, adapter)
		clearers[scopeName(adapter.Name())] = adapter
	}

	if cfg.ArticleFeedEnabled {
		adapter := sources.NewArticleFeed(sources.ArticleFeedConfig{
			BaseURL:        cfg.ArticleFeedBaseURL,
			Timeout:        cfg.ArticleFeedTimeout,
			MaxRetries:     cfg.ArticleFeedMaxRetries,
			CacheTTL:       cfg.ArticleFeedCacheTTL,
			Logger:         logger,
			Parser:         parser,
			CircuitBreaker: breakerCfg,
		})
		transferSources = append(transferSources, adapter)
		clearers[scopeName(adapter.Name())] = adapter
	}

	if cfg.NewsAPIEnabled {
		adapter := sources.NewNewsAPI(sources.NewsAPIConfig{
			BaseURL:        cfg.NewsAPIBaseURL,
			APIKey:         cfg.NewsAPIKey,
			Query:          cfg.NewsAPIQuery,
			Timeout:        cfg.NewsAPITimeout,
			MaxRetries:     cfg.NewsAPIMaxRetries,
			CacheTTL:       cfg.NewsAPICacheTTL,
			Logger:         logger,
			CircuitBreaker: breakerCfg,
		})
		newsSources = append(newsSources, adapter)
		clearers[scopeName(adapter.Name())] = adapter
	}

	return transferSources, newsSources, clearers
}

func dedupKeyForPolicy(policy string) transfer.DedupKeyFunc {
	if policy == "player_club_date" {
		return transfer.KeyByPlayerClubDate
	}
	return transfer.KeyByPlayerClub
}

func scopeName(adapterName string) string {
	return strings.ToLower(strings.ReplaceAll(adapterName, " ", "-"))
}
