package scoring

import "fmt"

// BuildEngines constructs an engine per shipped survey variant. Called once
// at process start; any table integrity error aborts startup.
func BuildEngines() (map[string]*Engine, error) {
	engines := make(map[string]*Engine, 2)
	for _, survey := range []*Survey{Universal(), GrowthReadiness()} {
		engine, err := NewEngine(survey)
		if err != nil {
			return nil, fmt.Errorf("build survey %q: %w", survey.ID, err)
		}
		engines[survey.ID] = engine
	}
	return engines, nil
}
