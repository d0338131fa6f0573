package generateinsight

import "assessment-workers/internal/scoring"

type Input struct {
	SubmissionID string            `json:"submissionId"`
	SurveyID     string            `json:"surveyId"`
	Scorecard    scoring.Scorecard `json:"scorecard"`
	Result       scoring.Result    `json:"result"`
}

type Output struct {
	SubmissionID string `json:"submissionId"`
	Insight      string `json:"insight"`
	Model        string `json:"model"`
}
