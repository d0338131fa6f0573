package sendreport

import (
	"time"

	"assessment-workers/internal/scoring"
)

type Input struct {
	SubmissionID string         `json:"submissionId"`
	SurveyID     string         `json:"surveyId"`
	FullName     string         `json:"fullName"`
	CompanyName  string         `json:"companyName"`
	Email        string         `json:"email"`
	Result       scoring.Result `json:"result"`
	FileName     string         `json:"fileName"`
	PDFBase64    string         `json:"pdfBase64"`
}

type Output struct {
	SubmissionID string    `json:"submissionId"`
	Success      bool      `json:"success"`
	MessageID    string    `json:"messageId"`
	Notified     bool      `json:"notified"`
	SentAt       time.Time `json:"sentAt"`
}
