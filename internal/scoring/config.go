// Package scoring implements the weighted multi-pillar maturity scorer: static
// survey configurations, a generic category scorer with per-category
// normalization, readiness bands, letter grades and risk/strength flags.
//
// The package is pure computation. Engines are immutable after construction
// and safe for concurrent use; all I/O lives in the worker layer.
package scoring

import (
	"errors"
	"fmt"
)

// ErrConfigIntegrity marks a broken scoring table: a points map that does not
// cover an option from the catalog, or a non-positive normalization
// denominator. The service must refuse to start on this error.
var ErrConfigIntegrity = errors.New("CONFIG_INTEGRITY")

// ErrAnswerNotScorable marks an answer value with no entry in the points map.
// Validation rejects these upstream; hitting it inside the engine is a
// programming error and must never default to zero, since that would skew the
// numerator against the precomputed denominator.
var ErrAnswerNotScorable = errors.New("ANSWER_NOT_SCORABLE")

// PointsMap maps an answer option to its integer score contribution.
type PointsMap map[string]int

// Question is one scored survey item inside a category. Options is the closed
// answer set the points map must cover; when nil, the catalog's list for the
// question id applies.
type Question struct {
	ID      string
	Options []string
	Points  PointsMap
	Weight  float64
}

func (q *Question) options() []string {
	if q.Options != nil {
		return q.Options
	}
	return Options(q.ID)
}

// SoloRule collapses a category to a single proxy question plus a fixed
// baseline credit when the trigger answer equals the sentinel. Used by the
// team category: most team-management questions are meaningless for a
// one-person business.
type SoloRule struct {
	TriggerQuestion string
	Sentinel        string
	ProxyQuestion   string
	ProxyCeiling    int
	BaseCredit      float64
}

// Category is one scored dimension (pillar) of the assessment.
type Category struct {
	ID        string
	Name      string
	Questions []Question
	Solo      *SoloRule
}

// Band assigns a label to totals greater than or equal to Min. Bands are
// listed descending; ties resolve to the higher band.
type Band struct {
	Min   int
	Label string
}

// GradeBand assigns a letter grade to category percentages greater than or
// equal to MinPercent. Listed descending, ties resolve upward.
type GradeBand struct {
	MinPercent float64
	Grade      string
}

// FlagKind separates risk tags from strength tags.
type FlagKind string

const (
	FlagCritical    FlagKind = "critical"
	FlagOpportunity FlagKind = "opportunity"
)

// FlagRule emits Tag when its condition holds. Exactly one condition form is
// set per rule: an answer-membership test (Question/AnyOf) or a category
// score threshold (Category/MinScore). One tag per rule, so duplicate tags
// are impossible by construction.
type FlagRule struct {
	Tag      string
	Kind     FlagKind
	Question string
	AnyOf    []string
	Category string
	MinScore int
}

// Survey is one complete assessment configuration: the categories scored, the
// per-category target scale, readiness bands over the total and, optionally,
// grade bands and flag rules. Two survey instances share the one engine.
type Survey struct {
	ID          string
	Name        string
	TargetScale int
	Categories  []Category
	Bands       []Band
	Grades      []GradeBand
	Flags       []FlagRule
	// Context lists catalog questions that are validated and carried into
	// narrative generation but never scored.
	Context []string
}

// MaxTotal is the ceiling of the aggregate score: every category contributes
// TargetScale points regardless of its question count.
func (s *Survey) MaxTotal() int {
	return s.TargetScale * len(s.Categories)
}

// validate checks the structural integrity of a survey configuration. Every
// catalog option of every scored question must appear in its points map, and
// every referenced question must exist in the catalog.
func (s *Survey) validate() error {
	if s.TargetScale <= 0 {
		return fmt.Errorf("%w: survey %q: target scale must be positive", ErrConfigIntegrity, s.ID)
	}
	if len(s.Categories) == 0 {
		return fmt.Errorf("%w: survey %q: no categories", ErrConfigIntegrity, s.ID)
	}
	if len(s.Bands) == 0 {
		return fmt.Errorf("%w: survey %q: no readiness bands", ErrConfigIntegrity, s.ID)
	}
	for _, cat := range s.Categories {
		if len(cat.Questions) == 0 {
			return fmt.Errorf("%w: category %q has no questions", ErrConfigIntegrity, cat.ID)
		}
		for _, q := range cat.Questions {
			if q.Weight <= 0 {
				return fmt.Errorf("%w: question %q: weight must be positive", ErrConfigIntegrity, q.ID)
			}
			if len(q.Points) == 0 {
				return fmt.Errorf("%w: question %q: empty points map", ErrConfigIntegrity, q.ID)
			}
			options := q.options()
			if options == nil {
				return fmt.Errorf("%w: question %q: no option set (not in catalog)", ErrConfigIntegrity, q.ID)
			}
			for _, opt := range options {
				if _, ok := q.Points[opt]; !ok {
					return fmt.Errorf("%w: question %q: option %q missing from points map", ErrConfigIntegrity, q.ID, opt)
				}
			}
		}
		if cat.Solo != nil {
			if err := cat.Solo.validate(&cat); err != nil {
				return err
			}
		}
	}
	for _, id := range s.Context {
		if !KnownQuestion(id) {
			return fmt.Errorf("%w: context question %q not in catalog", ErrConfigIntegrity, id)
		}
	}
	return nil
}

func (r *SoloRule) validate(cat *Category) error {
	if r.question(cat, r.TriggerQuestion) == nil {
		return fmt.Errorf("%w: solo rule: trigger question %q not in category %q", ErrConfigIntegrity, r.TriggerQuestion, cat.ID)
	}
	proxy := r.question(cat, r.ProxyQuestion)
	if proxy == nil {
		return fmt.Errorf("%w: solo rule: proxy question %q not in category %q", ErrConfigIntegrity, r.ProxyQuestion, cat.ID)
	}
	if float64(r.ProxyCeiling)*proxy.Weight+r.BaseCredit <= 0 {
		return fmt.Errorf("%w: solo rule: non-positive denominator for category %q", ErrConfigIntegrity, cat.ID)
	}
	return nil
}

func (r *SoloRule) question(cat *Category, id string) *Question {
	for i := range cat.Questions {
		if cat.Questions[i].ID == id {
			return &cat.Questions[i]
		}
	}
	return nil
}

// maxRaw is the theoretical maximum weighted raw sum for a category, the
// normalization denominator.
func (c *Category) maxRaw() float64 {
	var max float64
	for _, q := range c.Questions {
		best := 0
		for _, pts := range q.Points {
			if pts > best {
				best = pts
			}
		}
		max += float64(best) * q.Weight
	}
	return max
}
