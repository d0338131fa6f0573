package validatescorecard

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-scorecard"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Handler validates raw submissions against the option catalog before any
// scoring happens. The answer map is checked with a JSON schema generated
// from the survey configuration (one enum per question); identity fields are
// checked separately since they are free text.
type Handler struct {
	config  *Config
	engines map[string]*scoring.Engine
	schemas map[string]*gojsonschema.Schema
	logger  logger.Logger
}

func NewHandler(config *Config, engines map[string]*scoring.Engine, log logger.Logger) (*Handler, error) {
	schemas := make(map[string]*gojsonschema.Schema, len(engines))
	for id, engine := range engines {
		schema, err := compileAnswerSchema(engine.Survey())
		if err != nil {
			return nil, fmt.Errorf("compile schema for survey %q: %w", id, err)
		}
		schemas[id] = schema
	}
	return &Handler{
		config:  config,
		engines: engines,
		schemas: schemas,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
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
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return errors.NewValidationFailedError(err.Error())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	schema, ok := h.schemas[input.SurveyID]
	if !ok {
		return nil, errors.NewUnknownSurveyError(input.SurveyID)
	}

	output := &Output{SurveyID: input.SurveyID}

	doc := gojsonschema.NewGoLoader(input.Scorecard.Answers)
	result, err := schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	for _, issue := range result.Errors() {
		output.Errors = append(output.Errors, ValidationError{
			Field:   issue.Field(),
			Message: issue.Description(),
		})
	}

	output.Errors = append(output.Errors, validateIdentity(&input.Scorecard)...)
	output.Valid = len(output.Errors) == 0

	if !output.Valid {
		h.logger.Warn("scorecard rejected", map[string]interface{}{
			"surveyId":   input.SurveyID,
			"errorCount": len(output.Errors),
		})
	}

	return output, nil
}

// compileAnswerSchema builds a closed JSON schema over the survey's scored
// and context questions: every question required, every answer constrained
// to its catalog options, nothing extra allowed.
func compileAnswerSchema(survey *scoring.Survey) (*gojsonschema.Schema, error) {
	properties := map[string]interface{}{}
	required := []string{}

	addQuestion := func(id string, options []string) {
		properties[id] = map[string]interface{}{
			"type": "string",
			"enum": options,
		}
		required = append(required, id)
	}

	for _, cat := range survey.Categories {
		for _, q := range cat.Questions {
			addQuestion(q.ID, scoring.Options(q.ID))
		}
	}
	for _, id := range survey.Context {
		addQuestion(id, scoring.Options(id))
	}
	sort.Strings(required)

	schemaDoc := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaDoc))
}

func validateIdentity(card *scoring.Scorecard) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(card.FullName) == "" {
		errs = append(errs, ValidationError{Field: "fullName", Message: "required field missing"})
	}
	if strings.TrimSpace(card.CompanyName) == "" {
		errs = append(errs, ValidationError{Field: "companyName", Message: "required field missing"})
	}
	if !emailPattern.MatchString(strings.TrimSpace(card.Email)) {
		errs = append(errs, ValidationError{Field: "email", Message: "not a valid email address"})
	}
	return errs
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

// Execute exposes the validation logic for pipeline tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
