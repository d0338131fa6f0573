package renderreport

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 20.0
	bodySize   = 10.5
	lineHeight = 5.5
)

// renderPDF lays out the report: header block, overview, score summary,
// business profile, the narrative insight and a closing contact section.
func renderPDF(cfg *Config, input *Input) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	// Catalog options carry cp1252 punctuation ("$10K–$50K"); the translator
	// maps them onto the core font encoding.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	writeHeader(pdf, tr, cfg, input)
	writeOverview(pdf, tr, input)
	writeScores(pdf, tr, input)
	writeProfile(pdf, tr, input)
	writeInsight(pdf, tr, input.Insight)
	writeNextSteps(pdf, tr, cfg)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf, tr func(string) string, cfg *Config, input *Input) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(0, 12, tr("Business Assessment Report"), "", 1, "C", false, 0, "")

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr(cfg.BrandName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Prepared for: "+input.Scorecard.FullName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Company: "+input.Scorecard.CompanyName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Email: "+input.Scorecard.Email), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Date: "+time.Now().Format("January 2, 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeOverview(pdf *fpdf.Fpdf, tr func(string) string, input *Input) {
	sectionTitle(pdf, tr, "Assessment Overview")

	names := make([]string, 0, len(input.Result.Categories))
	for _, cat := range input.Result.Categories {
		names = append(names, cat.Name)
	}
	overview := fmt.Sprintf(
		"This report provides a comprehensive evaluation of %s's business performance across %d key pillars: %s. The assessment yields a total score of %d out of %d (%s), reflecting the business's current strengths and areas for improvement.",
		input.Scorecard.CompanyName, len(names), strings.Join(names, ", "),
		input.Result.Total, input.Result.MaxTotal, input.Result.Readiness,
	)
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.MultiCell(0, lineHeight, tr(overview), "", "L", false)
	pdf.Ln(3)
}

func writeScores(pdf *fpdf.Fpdf, tr func(string) string, input *Input) {
	sectionTitle(pdf, tr, "Assessment Scores")

	pdf.SetFillColor(240, 248, 255)
	pdf.SetFont("Helvetica", "", bodySize)
	for _, cat := range input.Result.Categories {
		line := fmt.Sprintf("%s: %d", cat.Name, cat.Normalized)
		if cat.Grade != "" {
			line += fmt.Sprintf(" (grade %s)", cat.Grade)
		}
		pdf.CellFormat(0, lineHeight+1, tr(line), "", 1, "L", true, 0, "")
	}
	pdf.SetFont("Helvetica", "B", bodySize)
	pdf.CellFormat(0, lineHeight+1, tr(fmt.Sprintf("Total Score: %d/%d (%s)", input.Result.Total, input.Result.MaxTotal, input.Result.Readiness)), "", 1, "L", true, 0, "")

	if len(input.Result.CriticalFlags) > 0 {
		pdf.SetTextColor(180, 40, 40)
		pdf.CellFormat(0, lineHeight+1, tr("Attention: "+strings.Join(humanizeTags(input.Result.CriticalFlags), ", ")), "", 1, "L", true, 0, "")
		pdf.SetTextColor(51, 51, 51)
	}
	if len(input.Result.OpportunityFlags) > 0 {
		pdf.SetTextColor(30, 120, 60)
		pdf.CellFormat(0, lineHeight+1, tr("Working in your favor: "+strings.Join(humanizeTags(input.Result.OpportunityFlags), ", ")), "", 1, "L", true, 0, "")
		pdf.SetTextColor(51, 51, 51)
	}
	pdf.Ln(3)
}

func writeProfile(pdf *fpdf.Fpdf, tr func(string) string, input *Input) {
	sectionTitle(pdf, tr, "Business Profile")

	rows := []struct{ label, question string }{
		{"Business Type", "business_type"},
		{"Business Age", "business_age"},
		{"Team Size", "team_size"},
		{"Location Importance", "location_importance"},
		{"Primary Challenge", "primary_challenge"},
		{"Main Goal", "main_goal"},
	}
	for _, row := range rows {
		value := input.Scorecard.Context(row.question)
		if value == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", bodySize)
		pdf.CellFormat(50, lineHeight+1, tr(row.label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", bodySize)
		pdf.MultiCell(0, lineHeight+1, tr(value), "", "L", false)
	}
	pdf.Ln(3)
}

// writeInsight renders the model's markdown-lite narrative: "#"-prefixed
// headings, "-"/"*" bullets and **bold** spans. Anything else is body text.
func writeInsight(pdf *fpdf.Fpdf, tr func(string) string, insight string) {
	sectionTitle(pdf, tr, "Insights and Recommendations")

	for _, line := range strings.Split(insight, "\n") {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			pdf.Ln(2)
		case strings.HasPrefix(trimmed, "#"):
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			pdf.SetFont("Helvetica", "B", bodySize+1)
			pdf.MultiCell(0, lineHeight+1, tr(stripBoldMarkers(heading)), "", "L", false)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", bodySize)
			pdf.CellFormat(5, lineHeight, "", "", 0, "L", false, 0, "")
			writeStyledLine(pdf, tr, "• "+trimmed[2:])
		default:
			pdf.SetFont("Helvetica", "", bodySize)
			writeStyledLine(pdf, tr, trimmed)
		}
	}
	pdf.Ln(3)
}

// writeStyledLine alternates regular and bold runs around ** markers.
func writeStyledLine(pdf *fpdf.Fpdf, tr func(string) string, line string) {
	parts := strings.Split(line, "**")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i%2 == 1 {
			pdf.SetFont("Helvetica", "B", bodySize)
		} else {
			pdf.SetFont("Helvetica", "", bodySize)
		}
		pdf.Write(lineHeight, tr(part))
	}
	pdf.Ln(lineHeight)
}

func writeNextSteps(pdf *fpdf.Fpdf, tr func(string) string, cfg *Config) {
	sectionTitle(pdf, tr, "Next Steps")

	text := fmt.Sprintf(
		"To implement the recommendations provided in this report, contact %s at %s or visit %s to schedule a consultation. Our team is ready to help you achieve your business goals with tailored solutions.",
		cfg.BrandName, cfg.ContactEmail, cfg.WebsiteURL,
	)
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.MultiCell(0, lineHeight, tr(text), "", "L", false)
}

func sectionTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
}

func stripBoldMarkers(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

// humanizeTags turns snake_case flag tags into sentence fragments.
func humanizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, strings.ReplaceAll(tag, "_", " "))
	}
	return out
}

// reportFileName derives a filesystem-safe attachment name from the company.
func reportFileName(company string) string {
	var sb strings.Builder
	for _, r := range company {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if !strings.HasSuffix(sb.String(), "_") {
				sb.WriteRune('_')
			}
		}
	}
	name := strings.Trim(sb.String(), "_")
	if name == "" {
		name = "Business"
	}
	return name + "_Assessment_Report.pdf"
}
