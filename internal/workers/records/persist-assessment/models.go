package persistassessment

import "assessment-workers/internal/scoring"

type Input struct {
	SubmissionID string            `json:"submissionId"`
	SurveyID     string            `json:"surveyId"`
	Scorecard    scoring.Scorecard `json:"scorecard"`
	Result       scoring.Result    `json:"result"`
	Insight      string            `json:"insight"`
}

type Output struct {
	AssessmentID string `json:"assessmentId"`
	SubmissionID string `json:"submissionId"`
	CreatedAt    string `json:"createdAt"`
	Indexed      bool   `json:"indexed"`
}

// searchDocument is the denormalized shape pushed to the search index.
type searchDocument struct {
	AssessmentID string          `json:"assessmentId"`
	SubmissionID string          `json:"submissionId"`
	SurveyID     string          `json:"surveyId"`
	CompanyName  string          `json:"companyName"`
	Email        string          `json:"email"`
	TotalScore   int             `json:"totalScore"`
	MaxScore     int             `json:"maxScore"`
	Readiness    string          `json:"readiness"`
	Critical     []string        `json:"criticalFlags,omitempty"`
	Opportunity  []string        `json:"opportunityFlags,omitempty"`
	Answers      scoring.Answers `json:"answers"`
	CreatedAt    string          `json:"createdAt"`
}
