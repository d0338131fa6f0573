package scoring

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answersAt builds a full answer set for a survey picking, per question, the
// option whose points match the given selector.
func answersAt(s *Survey, pick func(q Question) string) Answers {
	answers := Answers{}
	for _, cat := range s.Categories {
		for _, q := range cat.Questions {
			answers[q.ID] = pick(q)
		}
	}
	for _, id := range s.Context {
		answers[id] = Options(id)[0]
	}
	return answers
}

func maxOption(q Question) string {
	best, bestPts := "", math.MinInt
	for opt, pts := range q.Points {
		if pts > bestPts {
			best, bestPts = opt, pts
		}
	}
	return best
}

func minOption(q Question) string {
	worst, worstPts := "", math.MaxInt
	for opt, pts := range q.Points {
		if pts < worstPts {
			worst, worstPts = opt, pts
		}
	}
	return worst
}

func mustEngine(t *testing.T, s *Survey) *Engine {
	t.Helper()
	engine, err := NewEngine(s)
	require.NoError(t, err)
	return engine
}

func TestScoreCategory_MaxAnswersHitScaleExactly(t *testing.T) {
	for _, survey := range []*Survey{Universal(), GrowthReadiness()} {
		t.Run(survey.ID, func(t *testing.T) {
			engine := mustEngine(t, survey)
			answers := answersAt(survey, maxOption)

			for _, cat := range survey.Categories {
				score, err := engine.ScoreCategory(answers, cat.ID)
				require.NoError(t, err)
				assert.Equal(t, survey.TargetScale, score, "category %s", cat.ID)
			}
		})
	}
}

func TestScoreCategory_MinAnswersMatchClosedForm(t *testing.T) {
	for _, survey := range []*Survey{Universal(), GrowthReadiness()} {
		t.Run(survey.ID, func(t *testing.T) {
			engine := mustEngine(t, survey)
			answers := answersAt(survey, minOption)

			for _, cat := range survey.Categories {
				// team_size min is "Solo operation", which takes the solo
				// path; covered separately below.
				if cat.Solo != nil {
					continue
				}
				var raw float64
				for _, q := range cat.Questions {
					raw += float64(q.Points[minOption(q)]) * q.Weight
				}
				want := roundHalfUp(raw / engine.MaxRaw(cat.ID) * float64(survey.TargetScale))

				score, err := engine.ScoreCategory(answers, cat.ID)
				require.NoError(t, err)
				assert.Equal(t, want, score, "category %s", cat.ID)
				assert.GreaterOrEqual(t, score, 0)
			}
		})
	}
}

func TestScoreCategory_RangeAndMonotonic(t *testing.T) {
	survey := Universal()
	engine := mustEngine(t, survey)

	base := answersAt(survey, minOption)
	for _, cat := range survey.Categories {
		if cat.Solo != nil {
			continue
		}
		for _, q := range cat.Questions {
			prev := -1
			// Walk the question's options in ascending points order; the
			// category score must never decrease and always stay in range.
			for _, opt := range ascendingByPoints(q) {
				answers := cloneAnswers(base)
				answers[q.ID] = opt
				score, err := engine.ScoreCategory(answers, cat.ID)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, survey.TargetScale)
				assert.GreaterOrEqual(t, score, prev, "question %s option %s", q.ID, opt)
				prev = score
			}
		}
	}
}

func ascendingByPoints(q Question) []string {
	opts := append([]string(nil), q.options()...)
	for i := 0; i < len(opts); i++ {
		for j := i + 1; j < len(opts); j++ {
			if q.Points[opts[j]] < q.Points[opts[i]] {
				opts[i], opts[j] = opts[j], opts[i]
			}
		}
	}
	return opts
}

func cloneAnswers(a Answers) Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func TestScoreCategory_SoloOperation(t *testing.T) {
	survey := Universal()
	engine := mustEngine(t, survey)

	delegationWeight := 1.4
	for option, pts := range map[string]int{
		"Do everything myself":    1,
		"Delegate basic tasks":    2,
		"Delegate important work": 4,
		"Team runs independently": 5,
	} {
		t.Run(option, func(t *testing.T) {
			answers := answersAt(survey, minOption)
			answers["team_size"] = "Solo operation"
			answers["delegation"] = option

			want := roundHalfUp((float64(pts)*delegationWeight + 3.0) / (5*delegationWeight + 3.0) * 25)

			score, err := engine.ScoreCategory(answers, "team")
			require.NoError(t, err)
			assert.Equal(t, want, score)

			// Any other team answer is ignored while the solo sentinel holds.
			answers["hiring_process"] = "Comprehensive system"
			answers["employee_training"] = "Formal programs"
			answers["performance_tracking"] = "Formal performance reviews"
			again, err := engine.ScoreCategory(answers, "team")
			require.NoError(t, err)
			assert.Equal(t, score, again)
		})
	}
}

func TestScore_AllMaxUniversal(t *testing.T) {
	survey := Universal()
	engine := mustEngine(t, survey)

	card := &Scorecard{Answers: answersAt(survey, maxOption)}
	result, err := engine.Score(card)
	require.NoError(t, err)

	for _, cs := range result.Categories {
		assert.Equal(t, 25, cs.Normalized, "category %s", cs.Category)
	}
	assert.Equal(t, 150, result.Total)
	assert.Equal(t, 150, result.MaxTotal)
	assert.Equal(t, "Scale-Ready", result.Readiness)
}

func TestScore_TotalIsSumOfCategories(t *testing.T) {
	survey := GrowthReadiness()
	engine := mustEngine(t, survey)

	card := &Scorecard{Answers: answersAt(survey, func(q Question) string {
		return ascendingByPoints(q)[len(q.options())/2]
	})}
	result, err := engine.Score(card)
	require.NoError(t, err)

	sum := 0
	for _, cs := range result.Categories {
		sum += cs.Normalized
	}
	assert.Equal(t, sum, result.Total)
	assert.LessOrEqual(t, result.Total, result.MaxTotal)
}

func TestReadiness_BoundaryClosesUpward(t *testing.T) {
	survey := GrowthReadiness()
	engine := mustEngine(t, survey)

	tests := []struct {
		total int
		want  string
	}{
		{100, "Scale-Ready"},
		{85, "Scale-Ready"},
		{84, "Growth-Ready"},
		{70, "Growth-Ready"},
		{69, "Developing"},
		{50, "Developing"},
		{49, "Foundational"},
		{0, "Foundational"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.readiness(tt.total), "total %d", tt.total)
	}
}

// Worked example: one category, two questions (weights 1.0 and 1.5, points
// {A:1, B:5} each). max_raw = 12.5; answers A,B give raw 8.5 and a normalized
// score of round(8.5/12.5*25) = 17.
func TestScoreCategory_WorkedExample(t *testing.T) {
	survey := &Survey{
		ID:          "example",
		TargetScale: 25,
		Categories: []Category{{
			ID:   "only",
			Name: "Only",
			Questions: []Question{
				{ID: "q1", Options: []string{"A", "B"}, Points: PointsMap{"A": 1, "B": 5}, Weight: 1.0},
				{ID: "q2", Options: []string{"A", "B"}, Points: PointsMap{"A": 1, "B": 5}, Weight: 1.5},
			},
		}},
		Bands: []Band{{Min: 0, Label: "any"}},
	}
	engine := mustEngine(t, survey)

	assert.Equal(t, 12.5, engine.MaxRaw("only"))

	score, err := engine.ScoreCategory(Answers{"q1": "A", "q2": "B"}, "only")
	require.NoError(t, err)
	assert.Equal(t, 17, score)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 2, roundHalfUp(1.5))
	assert.Equal(t, 3, roundHalfUp(2.5))
	assert.Equal(t, 2, roundHalfUp(2.4999))
	assert.Equal(t, 0, roundHalfUp(0.4999))
	assert.Equal(t, 1, roundHalfUp(0.5))
}

func TestScore_UnscorableAnswerFailsLoudly(t *testing.T) {
	survey := Universal()
	engine := mustEngine(t, survey)

	answers := answersAt(survey, maxOption)
	answers["cash_flow"] = "not a real option"

	_, err := engine.ScoreCategory(answers, "financial")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnswerNotScorable)
	assert.Contains(t, err.Error(), "cash_flow")

	delete(answers, "revenue")
	_, err = engine.ScoreCategory(answers, "financial")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnswerNotScorable)
}

func TestNewEngine_ConfigIntegrity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Survey)
	}{
		{
			name: "points map missing an option",
			mutate: func(s *Survey) {
				delete(s.Categories[0].Questions[0].Points, "Under $10K")
			},
		},
		{
			name: "zero weight",
			mutate: func(s *Survey) {
				s.Categories[0].Questions[0].Weight = 0
			},
		},
		{
			name: "unknown question id",
			mutate: func(s *Survey) {
				s.Categories[0].Questions[0].ID = "no_such_question"
			},
		},
		{
			name: "no categories",
			mutate: func(s *Survey) {
				s.Categories = nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			survey := Universal()
			tt.mutate(survey)
			_, err := NewEngine(survey)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigIntegrity)
		})
	}
}

func TestNewEngine_ZeroMaxRawRejected(t *testing.T) {
	survey := &Survey{
		ID:          "broken",
		TargetScale: 25,
		Categories: []Category{{
			ID:   "c",
			Name: "C",
			Questions: []Question{
				{ID: "q", Options: []string{"A"}, Points: PointsMap{"A": 0}, Weight: 1.0},
			},
		}},
		Bands: []Band{{Min: 0, Label: "any"}},
	}
	_, err := NewEngine(survey)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigIntegrity)
}

func TestGrades_GrowthVariant(t *testing.T) {
	survey := GrowthReadiness()
	engine := mustEngine(t, survey)

	card := &Scorecard{Answers: answersAt(survey, maxOption)}
	result, err := engine.Score(card)
	require.NoError(t, err)
	for _, cs := range result.Categories {
		assert.Equal(t, "A", cs.Grade, "category %s", cs.Category)
		assert.InDelta(t, 100.0, cs.Percent, 1e-9)
	}

	// The universal variant carries no grade scale.
	uni := mustEngine(t, Universal())
	uniResult, err := uni.Score(&Scorecard{Answers: answersAt(Universal(), maxOption)})
	require.NoError(t, err)
	for _, cs := range uniResult.Categories {
		assert.Empty(t, cs.Grade)
	}
}

func TestBuildEngines(t *testing.T) {
	engines, err := BuildEngines()
	require.NoError(t, err)
	require.Contains(t, engines, SurveyUniversal)
	require.Contains(t, engines, SurveyGrowth)
	assert.Equal(t, 150, engines[SurveyUniversal].Survey().MaxTotal())
	assert.Equal(t, 100, engines[SurveyGrowth].Survey().MaxTotal())
}

func TestMaxRaw_MatchesHandComputation(t *testing.T) {
	engine := mustEngine(t, Universal())

	// financial: 6*1.0 + 5*1.5 + 2*1.0 + 5*1.0 + 5*1.0 + 5*1.2 = 31.5
	assert.InDelta(t, 31.5, engine.MaxRaw("financial"), 1e-9)
	// team: 6*1.0 + 5*1.0 + 5*1.1 + 5*1.4 + 5*1.0 = 28.5
	assert.InDelta(t, 28.5, engine.MaxRaw("team"), 1e-9)
}

func ExampleEngine_ScoreCategory() {
	engine, _ := NewEngine(Universal())
	answers := answersAt(Universal(), maxOption)
	score, _ := engine.ScoreCategory(answers, "digital")
	fmt.Println(score)
	// Output: 25
}
