package errors

import (
	"fmt"
	"time"
)

type ErrorCode string

const (
	ErrCodeParseError          ErrorCode = "PARSE_ERROR"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnknownSurvey       ErrorCode = "UNKNOWN_SURVEY"
	ErrCodeScoreFailed         ErrorCode = "SCORE_CALCULATION_FAILED"
	ErrCodeConfigIntegrity     ErrorCode = "CONFIG_INTEGRITY"
	ErrCodeInsightFailed       ErrorCode = "INSIGHT_GENERATION_FAILED"
	ErrCodeInsightTimeout      ErrorCode = "INSIGHT_TIMEOUT"
	ErrCodeReportRenderFailed  ErrorCode = "REPORT_RENDER_FAILED"
	ErrCodeReportSendFailed    ErrorCode = "REPORT_SEND_FAILED"
	ErrCodeDatabaseInsert      ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateSubmission ErrorCode = "DUPLICATE_SUBMISSION"
)

// StandardError is the uniform failure shape carried across workers.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

// Error includes Details so the message thrown back to the process names
// the offending survey, question, or submission.
func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// BPMNError carries failure details back into process variables so the
// workflow can branch on them.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ConvertToBPMNError shapes a StandardError for the throw-error command.
// The Message carries the full rendered error so process-level incident
// views show the details without digging into variables.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Error(),
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
	}
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Malformed job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Scorecard validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownSurveyError(surveyID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownSurvey,
		Message:   "No survey configuration for the requested id",
		Details:   fmt.Sprintf("surveyId: %s", surveyID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewScoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoreFailed,
		Message:   "Score calculation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewConfigIntegrityError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigIntegrity,
		Message:   "Survey configuration failed integrity checks",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewInsightFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsightFailed,
		Message:   "Narrative generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewInsightTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInsightTimeout,
		Message:   "Narrative generation timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewReportRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportRenderFailed,
		Message:   "PDF report rendering failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewReportSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportSendFailed,
		Message:   "Report delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewDatabaseInsertError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsert,
		Message:   "Assessment record insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewDuplicateSubmissionError(submissionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateSubmission,
		Message:   "Assessment already recorded for this submission",
		Details:   fmt.Sprintf("submissionId: %s", submissionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
