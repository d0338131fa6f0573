package renderreport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake Job Client
// ==========================

// fakeJobClient records the complete/throw-error commands a handler issues.
type fakeJobClient struct {
	completedVars interface{}
	thrownCode    string
	thrownMessage string
}

func (c *fakeJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return &fakeCompleteCommand{client: c}
}

func (c *fakeJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return nil
}

func (c *fakeJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return &fakeThrowErrorCommand{client: c}
}

type fakeCompleteCommand struct {
	client *fakeJobClient
}

func (c *fakeCompleteCommand) JobKey(int64) commands.CompleteJobCommandStep2 { return c }

func (c *fakeCompleteCommand) VariablesFromString(string) (commands.DispatchCompleteJobCommand, error) {
	return c, nil
}

func (c *fakeCompleteCommand) VariablesFromStringer(fmt.Stringer) (commands.DispatchCompleteJobCommand, error) {
	return c, nil
}

func (c *fakeCompleteCommand) VariablesFromMap(map[string]interface{}) (commands.DispatchCompleteJobCommand, error) {
	return c, nil
}

func (c *fakeCompleteCommand) VariablesFromObject(vars interface{}) (commands.DispatchCompleteJobCommand, error) {
	c.client.completedVars = vars
	return c, nil
}

func (c *fakeCompleteCommand) VariablesFromObjectIgnoreOmitempty(vars interface{}) (commands.DispatchCompleteJobCommand, error) {
	c.client.completedVars = vars
	return c, nil
}

func (c *fakeCompleteCommand) Send(context.Context) (*pb.CompleteJobResponse, error) {
	return &pb.CompleteJobResponse{}, nil
}

type fakeThrowErrorCommand struct {
	client *fakeJobClient
}

func (c *fakeThrowErrorCommand) JobKey(int64) commands.ThrowErrorCommandStep2 { return c }

func (c *fakeThrowErrorCommand) ErrorCode(code string) commands.DispatchThrowErrorCommand {
	c.client.thrownCode = code
	return c
}

func (c *fakeThrowErrorCommand) ErrorMessage(msg string) commands.DispatchThrowErrorCommand {
	c.client.thrownMessage = msg
	return c
}

func (c *fakeThrowErrorCommand) VariablesFromString(string) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowErrorCommand) VariablesFromStringer(fmt.Stringer) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowErrorCommand) VariablesFromMap(map[string]interface{}) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowErrorCommand) VariablesFromObject(interface{}) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowErrorCommand) VariablesFromObjectIgnoreOmitempty(interface{}) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowErrorCommand) Send(context.Context) (*pb.ThrowErrorResponse, error) {
	return &pb.ThrowErrorResponse{}, nil
}

func createMockJob(t *testing.T, key int64, variables interface{}) entities.Job {
	variablesJSON, err := json.Marshal(variables)
	require.NoError(t, err)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       key,
		Type:      TaskType,
		Retries:   3,
		Variables: string(variablesJSON),
	}}
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return DefaultConfig()
}

func createTestInput() *Input {
	return &Input{
		SubmissionID: "sub-900",
		SurveyID:     scoring.SurveyUniversal,
		Scorecard: scoring.Scorecard{
			Answers: scoring.Answers{
				"business_type":       "Manufacturing",
				"business_age":        "3-10 years",
				"team_size":           "6-15 people",
				"location_importance": "Regional reach",
				"primary_challenge":   "Managing costs/expenses",
				"main_goal":           "Improve profitability",
				"revenue":             "$250K–$1M",
			},
			FullName:    "Ada Okafor",
			CompanyName: "Okafor Trading Ltd",
			Email:       "ada@okafortrading.com",
		},
		Result: scoring.Result{
			SurveyID: scoring.SurveyUniversal,
			Categories: []scoring.CategoryScore{
				{Category: "financial", Name: "Financial Health", Normalized: 17},
				{Category: "growth", Name: "Growth & Marketing", Normalized: 14},
				{Category: "operations", Name: "Operations & Systems", Normalized: 19},
			},
			Total:     50,
			MaxTotal:  150,
			Readiness: "Foundational",
		},
		Insight: "## Business Health Summary\nA **solid** foundation with room to grow.\n\n- Tighten cost tracking\n- Formalize quality control",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ProducesPDF(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "sub-900", output.SubmissionID)
	assert.Equal(t, "Okafor_Trading_Ltd_Assessment_Report.pdf", output.FileName)
	assert.Greater(t, output.SizeBytes, 0)

	doc, err := base64.StdEncoding.DecodeString(output.PDFBase64)
	require.NoError(t, err)
	assert.Equal(t, output.SizeBytes, len(doc))
	// Every PDF opens with the version header.
	assert.Equal(t, "%PDF-", string(doc[:5]))
}

func TestHandler_Execute_HandlesCatalogPunctuation(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	input := createTestInput()
	input.Insight = "Revenue in the $10K–$50K band is typical for this stage."

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Greater(t, output.SizeBytes, 0)
}

func TestHandler_Execute_FlagSections(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	input := createTestInput()
	input.Result.CriticalFlags = []string{scoring.TagNegativeCashFlow, scoring.TagNoDataProtection}
	input.Result.OpportunityFlags = []string{scoring.TagLoyalCustomerBase}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Greater(t, output.SizeBytes, 0)
}

func TestHandler_Execute_EmptyInsight(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	input := createTestInput()
	input.Insight = ""

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Greater(t, output.SizeBytes, 0)
}

// ==========================
// Unit Tests
// ==========================

func TestReportFileName(t *testing.T) {
	tests := []struct {
		name     string
		company  string
		expected string
	}{
		{"plain name", "Okafor Trading Ltd", "Okafor_Trading_Ltd_Assessment_Report.pdf"},
		{"punctuation stripped", "Smith & Sons, Inc.", "Smith_Sons_Inc_Assessment_Report.pdf"},
		{"empty falls back", "", "Business_Assessment_Report.pdf"},
		{"symbols only", "###", "Business_Assessment_Report.pdf"},
		{"keeps hyphen as underscore", "Beam-X", "Beam_X_Assessment_Report.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reportFileName(tt.company))
		})
	}
}

func TestHumanizeTags(t *testing.T) {
	assert.Equal(t,
		[]string{"negative cash flow", "loyal customer base"},
		humanizeTags([]string{"negative_cash_flow", "loyal_customer_base"}))
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.BrandName = ""
	assert.Error(t, cfg.Validate())
}

// ==========================
// Handle Boundary Tests
// ==========================

func TestHandler_Handle_CompletesAndCountsJob(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	client := &fakeJobClient{}

	completedBefore := testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType))

	handler.Handle(client, createMockJob(t, 12345, createTestInput()))

	assert.Equal(t, completedBefore+1, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType)))
	require.NotNil(t, client.completedVars)
	output, ok := client.completedVars.(*Output)
	require.True(t, ok)
	assert.Equal(t, "sub-900", output.SubmissionID)
	assert.Empty(t, client.thrownCode)
}

func TestHandler_Handle_BadVariablesThrowsParseError(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	client := &fakeJobClient{}

	failedBefore := testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR"))

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 99, Type: TaskType, Variables: "not json{"}}
	handler.Handle(client, job)

	assert.Equal(t, failedBefore+1, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR")))
	assert.Equal(t, "PARSE_ERROR", client.thrownCode)
	assert.Contains(t, client.thrownMessage, "Malformed job variables")
	assert.Nil(t, client.completedVars)
}
