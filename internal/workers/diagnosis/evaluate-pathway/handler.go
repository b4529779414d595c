// internal/workers/diagnosis/evaluate-pathway/handler.go
package evaluatepathway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"jobchaja-workers/internal/common/logger"
	"jobchaja-workers/internal/common/metrics"
	"jobchaja-workers/internal/diagnosis"
	"jobchaja-workers/internal/models"
)

const (
	TaskType = "evaluate-visa-pathway"

	cacheKeyPrefix = "diagnosis:result:"
)

var (
	ErrEvaluationFailed = errors.New("DIAGNOSIS_EVALUATION_FAILED")
)

type Handler struct {
	config *Config
	engine *diagnosis.Engine
	redis  *redis.Client
	logger logger.Logger
}

// NewHandler wires the diagnosis engine behind the Zeebe task. The redis
// client is optional; without it every evaluation is computed fresh.
func NewHandler(config *Config, engine *diagnosis.Engine, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.DiagnosisEvaluations.WithLabelValues("error").Inc()
		h.failJob(client, job, h.mapErrorToCode(err), err.Error())
		return
	}

	metrics.DiagnosisEvaluations.WithLabelValues("success").Inc()
	metrics.DiagnosisPathwaysReturned.Observe(float64(len(output.Result.Pathways)))
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	raw := diagnosis.RawDiagnosisInput{
		Nationality:        input.Nationality,
		Age:                input.Age,
		EducationLevel:     input.EducationLevel,
		AvailableFund:      input.AvailableFund,
		FinalGoal:          input.FinalGoal,
		PriorityPreference: input.PriorityPreference,
	}

	key := h.cacheKey(&raw)
	if !input.SkipCache {
		if result, ok := h.cachedResult(ctx, key); ok {
			return &Output{Result: result, Cached: true}, nil
		}
	}

	result, err := h.engine.Evaluate(&raw)
	if err != nil {
		return nil, err
	}

	h.storeResult(ctx, key, result)
	return &Output{Result: result, Cached: false}, nil
}

// cacheKey hashes the raw answers so the same profile always maps to the
// same entry regardless of userId or job metadata. The catalog version is
// part of the key, so swapping in a new snapshot retires every cached
// result at once; stale entries just age out through the TTL.
func (h *Handler) cacheKey(raw *diagnosis.RawDiagnosisInput) string {
	data, _ := json.Marshal(raw)
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + h.engine.Catalog().Version + ":" + hex.EncodeToString(sum[:])
}

func (h *Handler) cachedResult(ctx context.Context, key string) (*models.DiagnosisResult, bool) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return nil, false
	}

	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.DiagnosisCacheHits.WithLabelValues("error").Inc()
			h.logger.Warn("cache lookup failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
			return nil, false
		}
		metrics.DiagnosisCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}

	var result models.DiagnosisResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		metrics.DiagnosisCacheHits.WithLabelValues("error").Inc()
		return nil, false
	}

	metrics.DiagnosisCacheHits.WithLabelValues("hit").Inc()
	return &result, true
}

func (h *Handler) storeResult(ctx context.Context, key string, result *models.DiagnosisResult) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	var unknownOpt *diagnosis.UnknownOptionError
	var validation *diagnosis.ValidationError
	var config *diagnosis.ConfigError

	switch {
	case errors.As(err, &unknownOpt):
		return "UNKNOWN_OPTION"
	case errors.As(err, &validation):
		return "DIAGNOSIS_VALIDATION_FAILED"
	case errors.As(err, &config):
		return "CATALOG_CONFIG_INVALID"
	}
	return "DIAGNOSIS_EVALUATION_FAILED"
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
