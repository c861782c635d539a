package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"github.com/basel-ax/ailogo/internal/config"
	"github.com/basel-ax/ailogo/internal/domain"
	"github.com/basel-ax/ailogo/internal/infrastructure/cloudfunction"
	"github.com/basel-ax/ailogo/internal/logger"
	"github.com/basel-ax/ailogo/internal/repository"
	"github.com/basel-ax/ailogo/internal/service"
)

func main() {
	prompt := flag.String("prompt", "", "Prompt text (at most 500 characters)")
	style := flag.String("style", domain.DefaultStyle, "Logo style: no-style, monogram, abstract, mascot")
	surprise := flag.Bool("surprise", false, "Use a sample prompt instead of -prompt")
	retries := flag.Int("retries", 0, "How many times to retry after a failed generation")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *verbose {
		cfg.Logger.Level = "debug"
	}

	appLogger, err := logger.New(cfg.Logger, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	collector := domain.NewPromptCollector()
	if *surprise {
		collector.Surprise()
	} else {
		collector.SetText(*prompt)
	}
	if err := collector.SelectStyle(*style); err != nil {
		appLogger.Fatal("Invalid style", zap.Error(err))
	}
	if collector.Len() == 0 {
		appLogger.Fatal("Please provide a prompt with -prompt or use -surprise")
	}

	code := generate(cfg, collector, *retries, appLogger)
	_ = appLogger.Sync()
	os.Exit(code)
}

// generate wires the dispatcher for cfg and runs one generation to completion.
func generate(cfg *config.Config, collector *domain.PromptCollector, retries int, appLogger *zap.Logger) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sink, closeSink, err := newSink(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize image sink", zap.String("sink", cfg.Sink), zap.Error(err))
		return 1
	}
	defer closeSink()

	generator := cloudfunction.NewClient(cfg.GenerationBaseURL, cfg.GenerationTimeout, appLogger)
	dispatcher := service.NewDispatcher(generator, sink, service.NewResultHolder(), cfg.UserID, appLogger)

	appLogger.Info("Generating logo",
		zap.String("env", cfg.AppEnv),
		zap.String("style", collector.Style()),
		zap.String("counter", collector.Counter()),
	)

	code := run(ctx, dispatcher, collector.Request(), retries, os.Stdout, appLogger)
	pushMetrics(cfg.PushGatewayURL, appLogger)
	return code
}

// run submits req, retrying up to retries times on error, and prints the views.
func run(ctx context.Context, d *service.Dispatcher, req domain.GenerationRequest, retries int, w io.Writer, appLogger *zap.Logger) int {
	attempt := d.Submit(ctx, req)
	if attempt == nil {
		return 2
	}
	// Submit leaves the status pending; the call may already be answered by now.
	printStatus(w, service.ViewForStatus(domain.StatusPending))

	for {
		out, err := attempt.Wait(ctx)
		if err != nil {
			appLogger.Warn("Interrupted while waiting for generation", zap.Error(err))
			return 130
		}
		printStatus(w, service.ViewForStatus(out.Status))

		if out.Status == domain.StatusSuccess {
			if view, ok := d.Design(out.AttemptID); ok {
				fmt.Fprintf(w, "\nYour Design\n  image:  %s\n  prompt: %s\n", view.ImageURL, view.Prompt)
				if view.StyleLabel != "" {
					fmt.Fprintf(w, "  style:  %s\n", view.StyleLabel)
				}
			}
			if err, ok := <-attempt.Persisted(); ok && err != nil {
				appLogger.Warn("Design was generated but not saved", zap.Error(err))
			}
			return 0
		}

		if retries <= 0 {
			return 1
		}
		retries--
		attempt = d.Retry(ctx)
		printStatus(w, service.ViewForStatus(domain.StatusPending))
	}
}

func printStatus(w io.Writer, v service.StatusView) {
	if !v.Visible() {
		return
	}
	fmt.Fprintf(w, "[%s] %s %s\n", v.State, v.Title, v.Subtitle)
}

// newSink builds the configured image repository and a function that releases it.
func newSink(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (domain.ImageRepository, func(), error) {
	switch cfg.Sink {
	case config.SinkFirestore:
		client, err := repository.NewFirestoreClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsPath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewFirestoreImageRepository(client, cfg.Firestore.Collection)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		appLogger.Info("Firestore sink initialized", zap.String("collection", cfg.Firestore.Collection))
		return repo, func() { _ = repo.Close() }, nil

	case config.SinkPostgres:
		db, err := sql.Open("postgres", cfg.GetDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

		repo := repository.NewPostgresImageRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		appLogger.Info("Postgres sink initialized", zap.String("host", cfg.DB.Host), zap.String("database", cfg.DB.Database))
		return repo, func() { _ = db.Close() }, nil

	case config.SinkLog:
		return repository.NewLogImageRepository(appLogger), func() {}, nil

	default:
		return nil, nil, errors.New("unknown sink " + cfg.Sink)
	}
}

func pushMetrics(url string, appLogger *zap.Logger) {
	if url == "" {
		return
	}
	hostname, _ := os.Hostname()
	err := push.New(url, "ailogo").
		Grouping("instance", hostname).
		Gatherer(prometheus.DefaultGatherer).
		Push()
	if err != nil {
		appLogger.Error("Failed to push metrics to Pushgateway", zap.Error(err))
		return
	}
	appLogger.Debug("Metrics pushed to Pushgateway", zap.String("url", url))
}
