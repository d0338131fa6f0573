package calculatescores

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"assessment-workers/internal/common/database"
	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType       = "calculate-scores"
	cacheKeyPrefix = "assessment:result:"
)

// Handler runs the scoring engine over a validated scorecard. Results are
// cached by submission id so workflow retries after a downstream failure do
// not recompute (and, more importantly, never re-randomize timestamps or
// ordering in the stored result).
type Handler struct {
	config  *Config
	engines map[string]*scoring.Engine
	cache   *database.RedisClient
	logger  logger.Logger
}

// NewHandler accepts a nil cache; scoring then always recomputes.
func NewHandler(config *Config, engines map[string]*scoring.Engine, cache *database.RedisClient, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		engines: engines,
		cache:   cache,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := prometheus.NewTimer(metrics.WorkerJobDuration.WithLabelValues(TaskType))
	defer timer.ObserveDuration()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey": job.Key,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, jobError(err))
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

// jobError maps an execute failure onto the shared taxonomy.
func jobError(err error) *errors.StandardError {
	if stderrors.Is(err, scoring.ErrConfigIntegrity) {
		return errors.NewConfigIntegrityError(err)
	}
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return errors.NewScoreFailedError(err)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	engine, ok := h.engines[input.SurveyID]
	if !ok {
		return nil, errors.NewUnknownSurveyError(input.SurveyID)
	}

	if cached, ok := h.lookupCached(ctx, input.SubmissionID); ok {
		h.logger.Info("serving cached result", map[string]interface{}{
			"submissionId": input.SubmissionID,
		})
		return &Output{SubmissionID: input.SubmissionID, Result: *cached, Cached: true}, nil
	}

	result, err := engine.Score(&input.Scorecard)
	if err != nil {
		return nil, errors.NewScoreFailedError(err)
	}

	metrics.AssessmentsScored.WithLabelValues(input.SurveyID).Inc()
	metrics.AssessmentTotals.WithLabelValues(input.SurveyID).Observe(float64(result.Total))

	h.storeCached(ctx, input.SubmissionID, result)

	h.logger.Info("scorecard scored", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"surveyId":     input.SurveyID,
		"total":        result.Total,
		"readiness":    result.Readiness,
	})

	return &Output{SubmissionID: input.SubmissionID, Result: *result}, nil
}

func (h *Handler) lookupCached(ctx context.Context, submissionID string) (*scoring.Result, bool) {
	if h.cache == nil || submissionID == "" {
		return nil, false
	}

	raw, err := h.cache.Get(ctx, cacheKeyPrefix+submissionID)
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			h.logger.Warn("result cache read failed", map[string]interface{}{
				"submissionId": submissionID,
				"error":        err.Error(),
			})
		}
		return nil, false
	}

	var result scoring.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		h.logger.Warn("discarding corrupt cache entry", map[string]interface{}{
			"submissionId": submissionID,
			"error":        err.Error(),
		})
		return nil, false
	}
	return &result, true
}

func (h *Handler) storeCached(ctx context.Context, submissionID string, result *scoring.Result) {
	if h.cache == nil || submissionID == "" {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := h.config.CacheTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	if err := h.cache.Set(ctx, cacheKeyPrefix+submissionID, payload, ttl); err != nil {
		h.logger.Warn("result cache write failed", map[string]interface{}{
			"submissionId": submissionID,
			"error":        err.Error(),
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *errors.StandardError) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()

	bpmnErr := errors.ConvertToBPMNError(stdErr)
	fields := bpmnErr.ToErrorVariables()
	fields["jobKey"] = job.Key
	h.logger.Error("job failed", fields)

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// Execute exposes the scoring logic for pipeline tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
