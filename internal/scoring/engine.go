package scoring

import (
	"fmt"
	"math"
)

// Engine scores submissions against one survey configuration. The
// normalization denominators are computed once at construction; the engine is
// immutable afterwards and safe to share across concurrent scoring calls.
type Engine struct {
	survey *Survey
	maxRaw map[string]float64
}

// NewEngine validates the survey tables and precomputes per-category maximum
// raw scores. A table that fails integrity checks is fatal: serving with a
// broken denominator would produce mathematically wrong scores.
func NewEngine(survey *Survey) (*Engine, error) {
	if err := survey.validate(); err != nil {
		return nil, err
	}
	maxRaw := make(map[string]float64, len(survey.Categories))
	for i := range survey.Categories {
		cat := &survey.Categories[i]
		max := cat.maxRaw()
		if max <= 0 {
			return nil, fmt.Errorf("%w: category %q: max raw score is %v", ErrConfigIntegrity, cat.ID, max)
		}
		maxRaw[cat.ID] = max
	}
	return &Engine{survey: survey, maxRaw: maxRaw}, nil
}

// Survey returns the configuration the engine was built from.
func (e *Engine) Survey() *Survey { return e.survey }

// MaxRaw returns the precomputed normalization denominator for a category.
func (e *Engine) MaxRaw(categoryID string) float64 { return e.maxRaw[categoryID] }

// ScoreCategory computes one category's normalized score on the survey's
// target scale: weighted raw sum over the category's questions, scaled by
// raw/maxRaw, rounded half-up and clamped at the scale ceiling. The clamp
// only guards floating-point overshoot at full marks.
func (e *Engine) ScoreCategory(answers Answers, categoryID string) (int, error) {
	cat := e.category(categoryID)
	if cat == nil {
		return 0, fmt.Errorf("%w: unknown category %q", ErrConfigIntegrity, categoryID)
	}
	score, err := e.scoreCategory(answers, cat)
	if err != nil {
		return 0, err
	}
	return score.Normalized, nil
}

// Score runs the full assessment: every category scored and normalized, the
// aggregate total assembled, the readiness label chosen and flags derived for
// flag-bearing surveys.
func (e *Engine) Score(card *Scorecard) (*Result, error) {
	result := &Result{
		SurveyID:   e.survey.ID,
		Categories: make([]CategoryScore, 0, len(e.survey.Categories)),
		MaxTotal:   e.survey.MaxTotal(),
	}

	for i := range e.survey.Categories {
		cat := &e.survey.Categories[i]
		score, err := e.scoreCategory(card.Answers, cat)
		if err != nil {
			return nil, err
		}
		result.Categories = append(result.Categories, score)
		result.Total += score.Normalized
	}

	result.Readiness = e.readiness(result.Total)

	if len(e.survey.Flags) > 0 {
		result.CriticalFlags, result.OpportunityFlags = deriveFlags(e.survey.Flags, card.Answers, result)
	}

	return result, nil
}

func (e *Engine) scoreCategory(answers Answers, cat *Category) (CategoryScore, error) {
	if cat.Solo != nil {
		if answers[cat.Solo.TriggerQuestion] == cat.Solo.Sentinel {
			return e.scoreSolo(answers, cat)
		}
	}

	var raw float64
	for _, q := range cat.Questions {
		answer, ok := answers[q.ID]
		if !ok {
			return CategoryScore{}, fmt.Errorf("%w: question %q: no answer submitted", ErrAnswerNotScorable, q.ID)
		}
		pts, ok := q.Points[answer]
		if !ok {
			return CategoryScore{}, fmt.Errorf("%w: question %q: answer %q not in points map", ErrAnswerNotScorable, q.ID, answer)
		}
		raw += float64(pts) * q.Weight
	}

	return e.normalize(cat, raw, e.maxRaw[cat.ID]), nil
}

// scoreSolo handles the single-person-operation sentinel: the category
// collapses to the delegation proxy plus a fixed baseline credit, and every
// other answer in the category is ignored.
func (e *Engine) scoreSolo(answers Answers, cat *Category) (CategoryScore, error) {
	rule := cat.Solo
	proxy := rule.question(cat, rule.ProxyQuestion)
	answer, ok := answers[proxy.ID]
	if !ok {
		return CategoryScore{}, fmt.Errorf("%w: question %q: no answer submitted", ErrAnswerNotScorable, proxy.ID)
	}
	pts, ok := proxy.Points[answer]
	if !ok {
		return CategoryScore{}, fmt.Errorf("%w: question %q: answer %q not in points map", ErrAnswerNotScorable, proxy.ID, answer)
	}

	raw := float64(pts)*proxy.Weight + rule.BaseCredit
	max := float64(rule.ProxyCeiling)*proxy.Weight + rule.BaseCredit
	return e.normalize(cat, raw, max), nil
}

func (e *Engine) normalize(cat *Category, raw, max float64) CategoryScore {
	scale := e.survey.TargetScale
	normalized := roundHalfUp(raw / max * float64(scale))
	if normalized > scale {
		normalized = scale
	}
	percent := raw / max * 100
	score := CategoryScore{
		Category:   cat.ID,
		Name:       cat.Name,
		Raw:        raw,
		Normalized: normalized,
		Percent:    percent,
	}
	if len(e.survey.Grades) > 0 {
		score.Grade = grade(e.survey.Grades, percent)
	}
	return score
}

// readiness picks the label of the first band whose threshold the total
// meets. Bands are descending and closed on the lower end, so a total exactly
// on a boundary lands in the higher band.
func (e *Engine) readiness(total int) string {
	for _, band := range e.survey.Bands {
		if total >= band.Min {
			return band.Label
		}
	}
	return e.survey.Bands[len(e.survey.Bands)-1].Label
}

func grade(bands []GradeBand, percent float64) string {
	for _, b := range bands {
		if percent >= b.MinPercent {
			return b.Grade
		}
	}
	return bands[len(bands)-1].Grade
}

func (e *Engine) category(id string) *Category {
	for i := range e.survey.Categories {
		if e.survey.Categories[i].ID == id {
			return &e.survey.Categories[i]
		}
	}
	return nil
}

// roundHalfUp rounds to the nearest integer with .5 rounding up. Scores are
// never negative, so floor(x+0.5) is sufficient.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
