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

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "jobchaja-workers/internal/common/aws"
	"jobchaja-workers/internal/common/camunda"
	"jobchaja-workers/internal/common/config"
	"jobchaja-workers/internal/common/database"
	"jobchaja-workers/internal/common/logger"
	"jobchaja-workers/internal/common/observability"

	"jobchaja-workers/internal/catalog"
	"jobchaja-workers/internal/diagnosis"
	"jobchaja-workers/pkg/registry"

	// Diagnosis Workers (2)
	evp "jobchaja-workers/internal/workers/diagnosis/evaluate-pathway"
	sdr "jobchaja-workers/internal/workers/diagnosis/send-diagnosis-report"

	// Data Access Workers (2)
	qjp "jobchaja-workers/internal/workers/data-access/query-job-postings"
	qvc "jobchaja-workers/internal/workers/data-access/query-visa-catalog"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// The task registry documents every task type this binary can serve;
	// a missing or unreadable registry is a packaging mistake.
	taskRegistry, err := registry.LoadRegistry("configs/task-registry.json")
	if err != nil {
		zapLog.Fatal("task registry load failed", zap.Error(err))
	}
	zapLog.Info("Task registry loaded",
		zap.String("version", taskRegistry.Version),
		zap.Strings("taskTypes", taskRegistry.TaskTypes()),
	)

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

	needsPostgres := cfg.Catalog.Source == "postgres" ||
		config.IsWorkerEnabled(cfg, qvc.TaskType) ||
		config.IsWorkerEnabled(cfg, sdr.TaskType)

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	if needsPostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	if config.IsWorkerEnabled(cfg, qjp.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			// Test the connection
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	if cfg.Diagnosis.CacheTTL > 0 && config.IsWorkerEnabled(cfg, evp.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Load the visa catalog and start the diagnosis engine ---
	var catalogSource catalog.Source
	if cfg.Catalog.Source == "postgres" {
		catalogSource = &catalog.PostgresSource{DB: pg}
	} else {
		catalogSource = &catalog.FileSource{Path: cfg.Catalog.File}
	}

	initialCatalog, err := catalog.Load(ctx, catalogSource)
	if err != nil {
		zapLog.Fatal("visa catalog load failed", zap.Error(err))
	}
	zapLog.Info("Visa catalog loaded",
		zap.String("version", initialCatalog.Version),
		zap.Int("entries", initialCatalog.Size()),
	)

	engine := diagnosis.NewEngine(initialCatalog, diagnosis.Config{
		TopN:              cfg.Diagnosis.TopN,
		HourlyMinimumWage: cfg.Diagnosis.HourlyMinimumWage,
		WonPerUSD:         cfg.Diagnosis.WonPerUSD,
	})

	reloadCtx, stopReload := context.WithCancel(ctx)
	defer stopReload()
	if cfg.Catalog.ReloadInterval > 0 {
		loader := catalog.NewLoader(
			catalogSource, engine,
			time.Duration(cfg.Catalog.ReloadInterval)*time.Second, log,
		)
		go loader.Run(reloadCtx)
		zapLog.Info("Catalog reload scheduled",
			zap.Int("interval_s", cfg.Catalog.ReloadInterval))
	}

	// --- Init AWS clients for report delivery ---
	var sesClient *awsclients.SESClient
	var snsClient *awsclients.SNSClient
	if config.IsWorkerEnabled(cfg, sdr.TaskType) {
		if cfg.AWS.SES.Enabled {
			sesClient, err = awsclients.NewSESClient(ctx, cfg.AWS.Region)
			if err != nil {
				zapLog.Fatal("SES client init failed", zap.Error(err))
			}
		}
		if cfg.AWS.SNS.Enabled {
			snsClient, err = awsclients.NewSNSClient(ctx, cfg.AWS.Region)
			if err != nil {
				zapLog.Fatal("SNS client init failed", zap.Error(err))
			}
		}
	}

	// --- START: Register Workers ---

	var taskWorkers []*camunda.TaskWorker

	// --- 1. Diagnosis Workers (2) ---
	if cfg.Workers[evp.TaskType].Enabled {
		handler := evp.NewHandler(
			&evp.Config{
				Timeout:  time.Duration(cfg.Workers[evp.TaskType].Timeout) * time.Millisecond,
				CacheTTL: time.Duration(cfg.Diagnosis.CacheTTL) * time.Second,
			},
			engine, redis.GetClient(), log,
		)
		taskWorkers = append(taskWorkers, startWorker(zeebeClient, evp.TaskType, cfg.Workers[evp.TaskType], handler, zapLog))
	}

	if cfg.Workers[sdr.TaskType].Enabled {
		var email sdr.EmailSender
		var sms sdr.SMSSender
		if sesClient != nil {
			email = sesClient
		}
		if snsClient != nil {
			sms = snsClient
		}
		handler := sdr.NewHandler(
			&sdr.Config{
				Timeout:      time.Duration(cfg.Workers[sdr.TaskType].Timeout) * time.Millisecond,
				FromEmail:    cfg.Reports.Email.FromEmail,
				EmailEnabled: cfg.Reports.Email.Enabled && sesClient != nil,
				SMSEnabled:   cfg.Reports.SMS.Enabled && snsClient != nil,
			},
			pg.DB, email, sms, log,
		)
		taskWorkers = append(taskWorkers, startWorker(zeebeClient, sdr.TaskType, cfg.Workers[sdr.TaskType], handler, zapLog))
	}

	// --- 2. Data Access Workers (2) ---
	if cfg.Workers[qvc.TaskType].Enabled {
		handler := qvc.NewHandler(
			&qvc.Config{
				Timeout: time.Duration(cfg.Workers[qvc.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		taskWorkers = append(taskWorkers, startWorker(zeebeClient, qvc.TaskType, cfg.Workers[qvc.TaskType], handler, zapLog))
	}

	if cfg.Workers[qjp.TaskType].Enabled {
		handler := qjp.NewHandler(
			&qjp.Config{
				Timeout:      time.Duration(cfg.Workers[qjp.TaskType].Timeout) * time.Millisecond,
				DefaultIndex: cfg.Search.JobPostingsIndex,
			},
			esClient.Client, log,
		)
		taskWorkers = append(taskWorkers, startWorker(zeebeClient, qjp.TaskType, cfg.Workers[qjp.TaskType], handler, zapLog))
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status":         "ready",
				"catalogVersion": engine.Catalog().Version,
				"time":           time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	stopReload()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	for _, tw := range taskWorkers {
		if tw != nil {
			tw.Stop(stopCtx)
		}
	}
	stopCancel()

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log *zap.Logger) *camunda.TaskWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	return camunda.NewTaskWorker(client, taskType, camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
	}, handler, log)
}
