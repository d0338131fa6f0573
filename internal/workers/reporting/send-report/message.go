package sendreport

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const mimeBoundary = "=_assessment-report-boundary"

// buildRawMessage assembles the multipart MIME message: a plain-text body
// with the score summary, and the PDF report as an attachment.
func buildRawMessage(cfg *Config, input *Input, attachment []byte) []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", cfg.BrandName, cfg.FromEmail))
	b.WriteString(fmt.Sprintf("To: %s\r\n", input.Email))
	if cfg.ReplyTo != "" {
		b.WriteString(fmt.Sprintf("Reply-To: %s\r\n", cfg.ReplyTo))
	}
	b.WriteString(fmt.Sprintf("Subject: Your Business Assessment Report - %s\r\n", input.CompanyName))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", mimeBoundary))
	b.WriteString("\r\n")

	// Text part
	b.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(bodyText(cfg, input))
	b.WriteString("\r\n")

	// Attachment part
	b.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	b.WriteString("Content-Type: application/pdf\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", attachmentName(input)))
	b.WriteString("\r\n")
	b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(attachment)))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s--\r\n", mimeBoundary))

	return []byte(b.String())
}

func bodyText(cfg *Config, input *Input) string {
	var b strings.Builder

	name := strings.TrimSpace(input.FullName)
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&b, "Thank you for completing the business assessment for %s.\r\n\r\n", input.CompanyName)
	fmt.Fprintf(&b, "Overall score: %d/%d (%s)\r\n", input.Result.Total, input.Result.MaxTotal, input.Result.Readiness)
	for _, cat := range input.Result.Categories {
		fmt.Fprintf(&b, "  %s: %d\r\n", cat.Name, cat.Normalized)
	}
	b.WriteString("\r\n")
	b.WriteString("Your full report, including tailored recommendations, is attached as a PDF.\r\n\r\n")
	fmt.Fprintf(&b, "Best regards,\r\n%s\r\n", cfg.BrandName)

	return b.String()
}

func attachmentName(input *Input) string {
	if input.FileName != "" {
		return input.FileName
	}
	return "Assessment_Report.pdf"
}

// wrapBase64 folds the encoded attachment at 76 columns per RFC 2045.
func wrapBase64(s string) string {
	const width = 76
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\r\n")
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
