package scoring

// deriveFlags evaluates every rule independently against the raw answers and
// the computed category scores. Each rule owns exactly one tag, evaluation
// order is irrelevant, and a tag is never removed once emitted.
func deriveFlags(rules []FlagRule, answers Answers, result *Result) (critical, opportunity []string) {
	critical = []string{}
	opportunity = []string{}
	for _, rule := range rules {
		if !rule.matches(answers, result) {
			continue
		}
		switch rule.Kind {
		case FlagCritical:
			critical = append(critical, rule.Tag)
		case FlagOpportunity:
			opportunity = append(opportunity, rule.Tag)
		}
	}
	return critical, opportunity
}

func (r *FlagRule) matches(answers Answers, result *Result) bool {
	if r.Question != "" {
		answer := answers[r.Question]
		for _, want := range r.AnyOf {
			if answer == want {
				return true
			}
		}
		return false
	}
	if r.Category != "" {
		if score := result.CategoryScoreFor(r.Category); score != nil {
			return score.Normalized >= r.MinScore
		}
	}
	return false
}
