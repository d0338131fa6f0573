package sendreport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TaskType = "send-report"
)

var ErrSendFailed = stderrors.New("REPORT_SEND_FAILED")

// SESAPI is the slice of the SES wrapper this worker uses.
type SESAPI interface {
	SendRawEmail(ctx context.Context, input *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SNSAPI publishes the internal delivery notice.
type SNSAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Handler emails the rendered PDF to the respondent and, when a topic is
// configured, posts an internal notification. The SNS publish is best-effort:
// a delivered report must not be retried because the notice failed.
type Handler struct {
	config *Config
	ses    SESAPI
	sns    SNSAPI
	logger logger.Logger
}

func NewHandler(config *Config, sesClient SESAPI, snsClient SNSAPI, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, errors.NewReportSendFailedError(err))
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if !isValidEmail(input.Email) {
		return nil, fmt.Errorf("%w: invalid recipient address %q", ErrSendFailed, input.Email)
	}
	if input.PDFBase64 == "" {
		return nil, fmt.Errorf("%w: no report attached", ErrSendFailed)
	}

	attachment, err := base64.StdEncoding.DecodeString(input.PDFBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode report: %v", ErrSendFailed, err)
	}

	raw := buildRawMessage(h.config, input, attachment)

	resp, err := h.ses.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: raw},
		Source:       awssdk.String(h.config.FromEmail),
		Destinations: []string{input.Email},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	notified := h.publishNotice(ctx, input)

	output := &Output{
		SubmissionID: input.SubmissionID,
		Success:      true,
		Notified:     notified,
		SentAt:       time.Now().UTC(),
	}
	if resp != nil && resp.MessageId != nil {
		output.MessageID = *resp.MessageId
	}

	h.logger.Info("report delivered", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"to":           input.Email,
		"messageId":    output.MessageID,
		"notified":     notified,
	})

	return output, nil
}

// publishNotice posts the internal "assessment completed" notice. Failures
// are logged and swallowed.
func (h *Handler) publishNotice(ctx context.Context, input *Input) bool {
	if h.sns == nil || h.config.SNSTopicARN == "" {
		return false
	}

	message := fmt.Sprintf(
		"Assessment report delivered\nSubmission: %s\nCompany: %s\nSurvey: %s\nTotal: %d/%d (%s)",
		input.SubmissionID, input.CompanyName, input.SurveyID,
		input.Result.Total, input.Result.MaxTotal, input.Result.Readiness,
	)

	_, err := h.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(h.config.SNSTopicARN),
		Subject:  awssdk.String("Assessment report delivered: " + input.CompanyName),
		Message:  awssdk.String(message),
	})
	if err != nil {
		h.logger.Warn("delivery notice failed", map[string]interface{}{
			"submissionId": input.SubmissionID,
			"error":        err.Error(),
		})
		return false
	}
	return true
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	return strings.Contains(parts[1], ".")
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

// Execute exposes the delivery flow for pipeline tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
