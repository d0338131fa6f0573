package validatescorecard

import "assessment-workers/internal/scoring"

type Input struct {
	SurveyID  string            `json:"surveyId"`
	Scorecard scoring.Scorecard `json:"scorecard"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Output struct {
	Valid    bool              `json:"valid"`
	SurveyID string            `json:"surveyId"`
	Errors   []ValidationError `json:"errors,omitempty"`
}
