package generateinsight

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TaskType = "generate-insight"
)

var (
	ErrInsightTimeout = stderrors.New("INSIGHT_TIMEOUT")
	ErrInsightFailed  = stderrors.New("INSIGHT_GENERATION_FAILED")
)

// MessagesAPI is the slice of the Anthropic client the worker needs.
// *anthropic.MessageService satisfies it; tests substitute a stub.
type MessagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Handler turns a scored assessment into consultant-style narrative via the
// Anthropic Messages API.
type Handler struct {
	config   *Config
	messages MessagesAPI
	logger   logger.Logger
}

func NewHandler(config *Config, messages MessagesAPI, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		messages: messages,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := prometheus.NewTimer(metrics.WorkerJobDuration.WithLabelValues(TaskType))
	defer timer.ObserveDuration()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
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
	if stderrors.Is(err, ErrInsightTimeout) {
		return errors.NewInsightTimeoutError()
	}
	return errors.NewInsightFailedError(err)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	prompt := buildPrompt(input)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(h.config.Model),
		MaxTokens:   int64(h.config.MaxTokens),
		Temperature: anthropic.Float(h.config.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var msg *anthropic.Message
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := h.config.RetryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrInsightTimeout
			}
			h.logger.Warn("retrying insight generation", map[string]interface{}{
				"submissionId": input.SubmissionID,
				"attempt":      attempt,
				"lastError":    lastErr.Error(),
			})
		}

		msg, lastErr = h.messages.New(ctx, params)
		if lastErr == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ErrInsightTimeout
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsightFailed, lastErr)
	}

	insight := extractText(msg)
	if insight == "" {
		return nil, fmt.Errorf("%w: model returned no text content", ErrInsightFailed)
	}

	h.logger.Info("insight generated", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"surveyId":     input.SurveyID,
		"length":       len(insight),
	})

	return &Output{
		SubmissionID: input.SubmissionID,
		Insight:      insight,
		Model:        h.config.Model,
	}, nil
}

func extractText(msg *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String())
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

// Execute exposes the insight flow for pipeline tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
