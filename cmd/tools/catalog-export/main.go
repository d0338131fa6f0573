// cmd/tools/catalog-export/main.go
//
// Dumps the survey configuration (question catalog, points tables, weights,
// bands) as JSON so the frontend can render forms from the same source of
// truth the scoring engine uses.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"assessment-workers/internal/scoring"
)

type questionExport struct {
	ID      string            `json:"id"`
	Options []string          `json:"options"`
	Points  scoring.PointsMap `json:"points,omitempty"`
	Weight  float64           `json:"weight,omitempty"`
}

type categoryExport struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Questions []questionExport `json:"questions"`
}

type bandExport struct {
	Min   int    `json:"min"`
	Label string `json:"label"`
}

type gradeExport struct {
	MinPercent float64 `json:"minPercent"`
	Grade      string  `json:"grade"`
}

type surveyExport struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	TargetScale int              `json:"targetScale"`
	MaxTotal    int              `json:"maxTotal"`
	Categories  []categoryExport `json:"categories"`
	Bands       []bandExport     `json:"bands"`
	Grades      []gradeExport    `json:"grades,omitempty"`
	Context     []questionExport `json:"contextQuestions"`
}

func main() {
	surveyID := flag.String("survey", "", "export a single survey (default: all)")
	outPath := flag.String("out", "", "write to file instead of stdout")
	pretty := flag.Bool("pretty", true, "indent output")
	flag.Parse()

	all := []*scoring.Survey{scoring.Universal(), scoring.GrowthReadiness()}

	var exports []surveyExport
	for _, s := range all {
		if *surveyID != "" && s.ID != *surveyID {
			continue
		}
		exports = append(exports, exportSurvey(s))
	}
	if len(exports) == 0 {
		fmt.Fprintf(os.Stderr, "unknown survey: %s\n", *surveyID)
		os.Exit(1)
	}

	var (
		data []byte
		err  error
	)
	if *pretty {
		data, err = json.MarshalIndent(exports, "", "  ")
	} else {
		data, err = json.Marshal(exports)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal failed: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *outPath == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d survey(s) to %s\n", len(exports), *outPath)
}

func exportSurvey(s *scoring.Survey) surveyExport {
	out := surveyExport{
		ID:          s.ID,
		Name:        s.Name,
		TargetScale: s.TargetScale,
		MaxTotal:    s.MaxTotal(),
	}
	for _, b := range s.Bands {
		out.Bands = append(out.Bands, bandExport{Min: b.Min, Label: b.Label})
	}
	for _, g := range s.Grades {
		out.Grades = append(out.Grades, gradeExport{MinPercent: g.MinPercent, Grade: g.Grade})
	}
	for _, cat := range s.Categories {
		ce := categoryExport{ID: cat.ID, Name: cat.Name}
		for _, q := range cat.Questions {
			ce.Questions = append(ce.Questions, questionExport{
				ID:      q.ID,
				Options: scoring.Options(q.ID),
				Points:  q.Points,
				Weight:  q.Weight,
			})
		}
		out.Categories = append(out.Categories, ce)
	}
	for _, id := range s.Context {
		out.Context = append(out.Context, questionExport{
			ID:      id,
			Options: scoring.Options(id),
		})
	}
	return out
}
