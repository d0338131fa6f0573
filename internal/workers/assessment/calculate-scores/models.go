package calculatescores

import "assessment-workers/internal/scoring"

type Input struct {
	SubmissionID string            `json:"submissionId"`
	SurveyID     string            `json:"surveyId"`
	Scorecard    scoring.Scorecard `json:"scorecard"`
}

type Output struct {
	SubmissionID string         `json:"submissionId"`
	Result       scoring.Result `json:"result"`
	Cached       bool           `json:"cached"`
}
