package scoring

// Answers maps question id to the single selected option.
type Answers map[string]string

// Scorecard is one submitted assessment: the validated answers plus the
// identity fields carried through unscored.
type Scorecard struct {
	Answers     Answers `json:"answers"`
	FullName    string  `json:"fullName"`
	CompanyName string  `json:"companyName"`
	Email       string  `json:"email"`
}

// Context returns the scorecard's answer to an unscored context question,
// or "" when absent.
func (c *Scorecard) Context(questionID string) string {
	return c.Answers[questionID]
}

// CategoryScore is one pillar's computed score.
type CategoryScore struct {
	Category   string  `json:"category"`
	Name       string  `json:"name"`
	Raw        float64 `json:"raw"`
	Normalized int     `json:"normalized"`
	Percent    float64 `json:"percent"`
	Grade      string  `json:"grade,omitempty"`
}

// Result is a full assessment outcome: per-category scores in survey order,
// their sum, the fixed ceiling, the readiness label and, for flag-bearing
// surveys, the derived tags. Narrative text is attached downstream.
type Result struct {
	SurveyID         string          `json:"surveyId"`
	Categories       []CategoryScore `json:"categories"`
	Total            int             `json:"total"`
	MaxTotal         int             `json:"maxTotal"`
	Readiness        string          `json:"readiness"`
	CriticalFlags    []string        `json:"criticalFlags,omitempty"`
	OpportunityFlags []string        `json:"opportunityFlags,omitempty"`
}

// CategoryScoreFor returns the score entry for a category id, or nil.
func (r *Result) CategoryScoreFor(categoryID string) *CategoryScore {
	for i := range r.Categories {
		if r.Categories[i].Category == categoryID {
			return &r.Categories[i]
		}
	}
	return nil
}
