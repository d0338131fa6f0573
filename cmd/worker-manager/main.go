// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"assessment-workers/internal/common/aws"
	"assessment-workers/internal/common/config"
	"assessment-workers/internal/common/database"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/observability"
	"assessment-workers/internal/scoring"

	// Intake Workers (1)
	vsc "assessment-workers/internal/workers/intake/validate-scorecard"

	// Assessment Workers (1)
	cs "assessment-workers/internal/workers/assessment/calculate-scores"

	// Advisory Workers (1)
	gi "assessment-workers/internal/workers/advisory/generate-insight"

	// Reporting Workers (2)
	rr "assessment-workers/internal/workers/reporting/render-report"
	sr "assessment-workers/internal/workers/reporting/send-report"

	// Records Workers (1)
	pa "assessment-workers/internal/workers/records/persist-assessment"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Scoring engines (shared, immutable) ---
	engines, err := scoring.BuildEngines()
	if err != nil {
		zapLog.Fatal("scoring table integrity check failed", zap.Error(err))
	}
	zapLog.Info("Scoring engines built", zap.Int("surveys", len(engines)))

	// --- External service clients ---
	anthropicClient := anthropic.NewClient(option.WithAPIKey(cfg.Anthropic.APIKey))

	var sesClient *aws.SESClient
	var snsClient *aws.SNSClient
	if cfg.AWS.SES.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
	}
	if cfg.AWS.SNS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
	}

	zapLog.Info("All external service clients initialized")

	// --- START: Register ALL 6 Workers ---

	// --- 1. Intake Workers (1) ---
	if cfg.Workers[vsc.TaskType].Enabled {
		handler, err := vsc.NewHandler(
			&vsc.Config{
				Timeout: time.Duration(cfg.Workers[vsc.TaskType].Timeout) * time.Millisecond,
			},
			engines, log,
		)
		if err != nil {
			zapLog.Fatal("validate-scorecard handler init failed", zap.Error(err))
		}
		startWorker(zeebeClient, vsc.TaskType, cfg.Workers[vsc.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Assessment Workers (1) ---
	if cfg.Workers[cs.TaskType].Enabled {
		handler := cs.NewHandler(
			&cs.Config{
				Timeout:  time.Duration(cfg.Workers[cs.TaskType].Timeout) * time.Millisecond,
				CacheTTL: 24 * time.Hour,
			},
			engines, redis, log,
		)
		startWorker(zeebeClient, cs.TaskType, cfg.Workers[cs.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Advisory Workers (1) ---
	if cfg.Workers[gi.TaskType].Enabled {
		handler := gi.NewHandler(
			&gi.Config{
				Timeout:      time.Duration(cfg.Anthropic.Timeout) * time.Millisecond,
				Model:        cfg.Anthropic.Model,
				MaxTokens:    cfg.Anthropic.MaxTokens,
				Temperature:  cfg.Anthropic.Temperature,
				MaxRetries:   cfg.Anthropic.MaxRetries,
				RetryBackoff: 2 * time.Second,
			},
			&anthropicClient.Messages, log,
		)
		startWorker(zeebeClient, gi.TaskType, cfg.Workers[gi.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Reporting Workers (2) ---
	if cfg.Workers[rr.TaskType].Enabled {
		handler := rr.NewHandler(
			&rr.Config{
				Timeout:      time.Duration(cfg.Workers[rr.TaskType].Timeout) * time.Millisecond,
				BrandName:    cfg.Report.BrandName,
				ContactEmail: cfg.Report.ContactEmail,
				WebsiteURL:   cfg.Report.WebsiteURL,
			},
			log,
		)
		startWorker(zeebeClient, rr.TaskType, cfg.Workers[rr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sr.TaskType].Enabled && sesClient != nil {
		var notifier sr.SNSAPI
		if snsClient != nil {
			notifier = snsClient
		}
		handler := sr.NewHandler(
			&sr.Config{
				Timeout:     time.Duration(cfg.Workers[sr.TaskType].Timeout) * time.Millisecond,
				FromEmail:   cfg.AWS.SES.FromEmail,
				ReplyTo:     cfg.AWS.SES.ReplyTo,
				BrandName:   cfg.Report.BrandName,
				SNSTopicARN: cfg.AWS.SNS.TopicARN,
			},
			sesClient, notifier, log,
		)
		startWorker(zeebeClient, sr.TaskType, cfg.Workers[sr.TaskType], handler.Handle, zapLog)
	}

	// --- 5. Records Workers (1) ---
	if cfg.Workers[pa.TaskType].Enabled {
		handler := pa.NewHandler(
			&pa.Config{
				Timeout:     time.Duration(cfg.Workers[pa.TaskType].Timeout) * time.Millisecond,
				SearchIndex: cfg.Database.Elasticsearch.AssessmentIndex,
			},
			pg.DB, esClient, log,
		)
		startWorker(zeebeClient, pa.TaskType, cfg.Workers[pa.TaskType], handler.Handle, zapLog)
	}

	// --- END: Register ALL 6 Workers ---

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		zapLog.Info("Health/Metrics server listening on " + addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
