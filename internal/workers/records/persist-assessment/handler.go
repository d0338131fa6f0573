package persistassessment

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TaskType = "persist-assessment"
)

var (
	ErrDatabaseInsertFailed = stderrors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateSubmission  = stderrors.New("DUPLICATE_SUBMISSION")
)

// Indexer pushes the searchable assessment document. Satisfied by
// *database.ElasticsearchClient; nil disables indexing.
type Indexer interface {
	Index(ctx context.Context, index, documentID string, body []byte) error
}

// Handler writes the completed assessment to Postgres (system of record) and
// mirrors a denormalized document into the search index. The index write is
// best-effort: search lag is acceptable, losing the record is not.
type Handler struct {
	config  *Config
	db      *sql.DB
	indexer Indexer
	logger  logger.Logger
}

func NewHandler(config *Config, db *sql.DB, indexer Indexer, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		db:      db,
		indexer: indexer,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, jobError(&input, err))
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

// jobError maps an execute failure onto the shared taxonomy.
func jobError(input *Input, err error) *errors.StandardError {
	if stderrors.Is(err, ErrDuplicateSubmission) {
		return errors.NewDuplicateSubmissionError(input.SubmissionID)
	}
	return errors.NewDatabaseInsertError(err)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM assessments
			WHERE submission_id = $1
		)`, input.SubmissionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: submission %s already persisted", ErrDuplicateSubmission, input.SubmissionID)
	}

	assessmentID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	answersJSON, err := json.Marshal(input.Scorecard.Answers)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal answers: %v", ErrDatabaseInsertFailed, err)
	}
	resultJSON, err := json.Marshal(input.Result)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal result: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO assessments (
			id, submission_id, survey_id, full_name, company_name, email,
			answers, result, insight, total_score, max_score, readiness,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		assessmentID,
		input.SubmissionID,
		input.SurveyID,
		input.Scorecard.FullName,
		input.Scorecard.CompanyName,
		input.Scorecard.Email,
		answersJSON,
		resultJSON,
		input.Insight,
		input.Result.Total,
		input.Result.MaxTotal,
		input.Result.Readiness,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	indexed := h.indexDocument(ctx, assessmentID, createdAt, input)

	h.logger.Info("assessment persisted", map[string]interface{}{
		"assessmentId": assessmentID,
		"submissionId": input.SubmissionID,
		"surveyId":     input.SurveyID,
		"indexed":      indexed,
	})

	return &Output{
		AssessmentID: assessmentID,
		SubmissionID: input.SubmissionID,
		CreatedAt:    createdAt,
		Indexed:      indexed,
	}, nil
}

func (h *Handler) indexDocument(ctx context.Context, assessmentID, createdAt string, input *Input) bool {
	if h.indexer == nil || h.config.SearchIndex == "" {
		return false
	}

	doc := searchDocument{
		AssessmentID: assessmentID,
		SubmissionID: input.SubmissionID,
		SurveyID:     input.SurveyID,
		CompanyName:  input.Scorecard.CompanyName,
		Email:        input.Scorecard.Email,
		TotalScore:   input.Result.Total,
		MaxScore:     input.Result.MaxTotal,
		Readiness:    input.Result.Readiness,
		Critical:     input.Result.CriticalFlags,
		Opportunity:  input.Result.OpportunityFlags,
		Answers:      input.Scorecard.Answers,
		CreatedAt:    createdAt,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		h.logger.Warn("failed to marshal search document", map[string]interface{}{
			"assessmentId": assessmentID,
			"error":        err.Error(),
		})
		return false
	}

	if err := h.indexer.Index(ctx, h.config.SearchIndex, assessmentID, body); err != nil {
		h.logger.Warn("search indexing failed", map[string]interface{}{
			"assessmentId": assessmentID,
			"error":        err.Error(),
		})
		return false
	}
	return true
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

// Execute exposes the persistence flow for pipeline tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
