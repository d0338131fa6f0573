package renderreport

import "assessment-workers/internal/scoring"

type Input struct {
	SubmissionID string            `json:"submissionId"`
	SurveyID     string            `json:"surveyId"`
	Scorecard    scoring.Scorecard `json:"scorecard"`
	Result       scoring.Result    `json:"result"`
	Insight      string            `json:"insight"`
}

type Output struct {
	SubmissionID string `json:"submissionId"`
	FileName     string `json:"fileName"`
	PDFBase64    string `json:"pdfBase64"`
	SizeBytes    int    `json:"sizeBytes"`
}
