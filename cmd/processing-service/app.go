package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"intake/internal/broker"
	"intake/internal/config"
	"intake/internal/constants"
	"intake/internal/logger"
	"intake/internal/notify"
	"intake/internal/processing"
	"intake/internal/store"
	"intake/pkg/bootstrap"
	"intake/pkg/health"
	"intake/pkg/metrics"
	"intake/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	db             *sql.DB
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	itemProcessor  *processing.ItemProcessor
	quoteProcessor *processing.QuoteProcessor
	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName("processing-service")
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitBroker("processing-service"); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	if err := a.initProcessors(ctx); err != nil {
		return fmt.Errorf("failed to initialize processors: %w", err)
	}

	tp, err := tracing.Init(a.Config.Tracing, "processing-service")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.RegisterProcessingMetrics()
	metrics.RegisterBrokerMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	a.initHTTPServer()
	return nil
}

func (a *App) initProcessors(ctx context.Context) error {
	repos, db, mongoClient, err := a.dbConnector.InitRepositories(ctx)
	if err != nil {
		return err
	}
	a.db = db
	a.mongoClient = mongoClient

	items := repos.Items
	quotes := repos.Quotes
	if a.Config.CircuitBreaker.Enabled {
		items = store.NewCircuitBreakerItemRepository(items, a.Config.CircuitBreaker)
		quotes = store.NewCircuitBreakerQuoteRepository(quotes, a.Config.CircuitBreaker)
	}

	var guard *processing.Guard
	if a.Config.Processing.Idempotency.Enabled {
		redisClient, err := a.dbConnector.InitRedis(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.redisClient = redisClient
		guard = processing.NewGuard(processing.NewKeyRepository(redisClient), a.Config.Processing.Idempotency, a.Logger)
	} else {
		guard = processing.NewGuard(nil, a.Config.Processing.Idempotency, a.Logger)
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if topic := a.Config.Broker.Kafka.NotificationsTopic; topic != "" {
		notifier = notify.NewBrokerNotifier(a.Producer, topic, a.Logger)
	}

	rater := processing.NewRandomRater(rand.New(rand.NewSource(time.Now().UnixNano())))

	a.itemProcessor = processing.NewItemProcessor(items, guard, a.Logger)
	a.quoteProcessor = processing.NewQuoteProcessor(quotes, rater, guard, notifier, a.Logger)
	return nil
}

func (a *App) initHTTPServer() {
	mux := http.NewServeMux()

	healthRegistry := health.NewCheckerRegistry()
	if a.db != nil {
		healthRegistry.Register(health.NewPostgreSQLChecker(a.db))
	}
	if a.mongoClient != nil {
		healthRegistry.Register(health.NewMongoDBChecker(a.mongoClient))
	}
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := healthRegistry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, h.Status, h.Timestamp.Format(time.RFC3339))
	})

	mux.Handle("/metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler: mux,
	}
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	itemsTopic := a.Config.Broker.Kafka.ItemsTopic
	if itemsTopic == "" {
		itemsTopic = constants.DefaultItemsTopic
	}
	g.Go(func() error {
		a.Logger.InfowCtx(gCtx, "Starting item consumer", "topic", itemsTopic)
		return a.Consumer.Consume(gCtx, itemsTopic, a.itemProcessor.Handle)
	})

	// Each topic needs its own consumer; a reader is bound to one topic.
	quotesConsumer, err := broker.NewConsumer(a.Config.Broker, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create quote consumer: %w", err)
	}
	quotesConsumer.SetServiceName("processing-service")
	defer quotesConsumer.Close()

	quotesTopic := a.Config.Broker.Kafka.QuotesTopic
	if quotesTopic == "" {
		quotesTopic = constants.DefaultQuotesTopic
	}
	g.Go(func() error {
		a.Logger.InfowCtx(gCtx, "Starting quote consumer", "topic", quotesTopic)
		return quotesConsumer.Consume(gCtx, quotesTopic, a.quoteProcessor.Handle)
	})

	err = g.Wait()

	if shutdownErr := a.ShutdownApp(context.Background()); shutdownErr != nil {
		a.Logger.Errorw("Shutdown error", "error", shutdownErr)
	}
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func (a *App) ShutdownApp(ctx context.Context) error {
	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
			}
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.redisClient, a.db, a.mongoClient)...)

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
