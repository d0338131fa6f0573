package generateinsight

import (
	"fmt"
	"strings"

	"assessment-workers/internal/scoring"
)

// servicesContext is appended to every prompt so the model can anchor its
// closing recommendations in offerings we can actually deliver.
const servicesContext = `AVAILABLE SERVICES:
1. **Managed Intelligence Services** – Business intelligence reports & dashboards for key metrics and data-driven decisions
2. **Web & Workflow Engineering** – High-converting websites and automated workflows to save time
3. **Data Infrastructure & Automation** – Clean databases, smooth APIs, and integrated systems
4. **AI & Machine Learning** – Predictive models for customer behavior, fraud detection, and opportunity identification
5. **Custom AI Agents** – Digital employees for support tickets, lead qualification, data analysis, and operations`

var surveysByID = func() map[string]*scoring.Survey {
	surveys := map[string]*scoring.Survey{}
	for _, s := range []*scoring.Survey{scoring.Universal(), scoring.GrowthReadiness()} {
		surveys[s.ID] = s
	}
	return surveys
}()

// buildPrompt assembles the consultant brief: score summary, the full answer
// digest grouped by category, business profile and the services catalog.
func buildPrompt(input *Input) string {
	survey := surveysByID[input.SurveyID]
	answers := input.Scorecard.Answers

	businessType := orUnknown(answers["business_type"])
	businessAge := orUnknown(answers["business_age"])
	maturity := classifyMaturity(answers)

	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a business consultant specializing in %s businesses. Analyze this %s:\n\n", businessType, maturity)

	sb.WriteString("ASSESSMENT SCORES:\n")
	scale := 0
	if survey != nil {
		scale = survey.TargetScale
	}
	for _, cat := range input.Result.Categories {
		if scale > 0 {
			fmt.Fprintf(&sb, "• %s: %d/%d\n", cat.Name, cat.Normalized, scale)
		} else {
			fmt.Fprintf(&sb, "• %s: %d\n", cat.Name, cat.Normalized)
		}
	}
	fmt.Fprintf(&sb, "• Overall Score: %d/%d (%s)\n\n", input.Result.Total, input.Result.MaxTotal, input.Result.Readiness)

	writeProfile(&sb, answers)
	writeResponses(&sb, survey, answers)
	writeFlags(&sb, &input.Result)

	sb.WriteString(servicesContext)
	sb.WriteString("\n\n")

	sb.WriteString("ANALYSIS REQUIREMENTS:\n")
	fmt.Fprintf(&sb, "1. **Business Health Summary** (2-3 sentences): Assess their current position as a %s %s business.\n", businessAge, businessType)
	sb.WriteString("2. **Key Strengths**: Identify 2-3 areas where they're performing well, considering their business type and size.\n")
	fmt.Fprintf(&sb, "3. **Priority Improvements**: Highlight the 2-3 most critical areas for improvement that would directly impact their stated goal: %q.\n", orUnknown(answers["main_goal"]))
	fmt.Fprintf(&sb, "4. **Actionable Recommendations**: Provide 4-6 specific recommendations that are appropriate for a %s business of their size, directly address their challenge %q, are realistic given their current systems, and include both immediate (30 days) and medium-term (3-6 months) actions.\n", businessType, orUnknown(answers["primary_challenge"]))
	sb.WriteString("5. **Implementation Priority**: Rank your recommendations by impact vs. effort, focusing on what will move the needle most for their revenue/profitability.\n")
	sb.WriteString("6. **Success Metrics**: Suggest 3-4 practical metrics they should track, appropriate for their business type and current sophistication level.\n")
	sb.WriteString("7. **How We Can Accelerate Your Growth**: Based on their specific assessment results, identify 2-3 services from the catalog above that would have the highest impact, which gaps they address, the expected business outcomes, and why they fit the current stage.\n\n")

	fmt.Fprintf(&sb, "Tailor advice specifically for %s businesses. Avoid startup/tech jargon if this is a traditional business. Focus on practical, implementable advice that fits their business model and current capabilities.\n", businessType)

	return sb.String()
}

func writeProfile(sb *strings.Builder, answers scoring.Answers) {
	sb.WriteString("BUSINESS PROFILE:\n")
	profile := []struct{ label, question string }{
		{"Business Type", "business_type"},
		{"Business Age", "business_age"},
		{"Team Size", "team_size"},
		{"Location Importance", "location_importance"},
		{"Primary Challenge", "primary_challenge"},
		{"Main Goal", "main_goal"},
	}
	for _, p := range profile {
		if v, ok := answers[p.question]; ok {
			fmt.Fprintf(sb, "- %s: %s\n", p.label, v)
		}
	}
	sb.WriteString("\n")
}

func writeResponses(sb *strings.Builder, survey *scoring.Survey, answers scoring.Answers) {
	if survey == nil {
		return
	}
	sb.WriteString("SUBMITTED RESPONSES:\n")
	for _, cat := range survey.Categories {
		fmt.Fprintf(sb, "%s:\n", strings.ToUpper(cat.Name))
		for _, q := range cat.Questions {
			if v, ok := answers[q.ID]; ok {
				fmt.Fprintf(sb, "- %s: %s\n", labelFor(q.ID), v)
			}
		}
		sb.WriteString("\n")
	}
}

func writeFlags(sb *strings.Builder, result *scoring.Result) {
	if len(result.CriticalFlags) == 0 && len(result.OpportunityFlags) == 0 {
		return
	}
	if len(result.CriticalFlags) > 0 {
		fmt.Fprintf(sb, "CRITICAL RISK SIGNALS: %s\n", strings.Join(result.CriticalFlags, ", "))
	}
	if len(result.OpportunityFlags) > 0 {
		fmt.Fprintf(sb, "OPPORTUNITY SIGNALS: %s\n", strings.Join(result.OpportunityFlags, ", "))
	}
	sb.WriteString("\n")
}

// classifyMaturity maps context answers to a coarse maturity framing for the
// prompt's opening sentence. Revenue bands use the catalog's exact strings.
func classifyMaturity(answers scoring.Answers) string {
	age := answers["business_age"]
	team := answers["team_size"]
	revenue := answers["revenue"]
	businessType := answers["business_type"]

	if team == "Solo operation" && (businessType == "Professional Services" || businessType == "Consulting") {
		return "solo professional practice"
	}
	if age == "10+ years" || revenue == "$1M–$5M" || revenue == "Over $5M" {
		return "established business"
	}
	if (age == "Less than 1 year" || age == "1-3 years") && (team == "Solo operation" || team == "2-5 people") {
		return "startup"
	}
	return "growing business"
}

func labelFor(questionID string) string {
	words := strings.Split(questionID, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orUnknown(v string) string {
	if v == "" {
		return "unspecified"
	}
	return v
}
