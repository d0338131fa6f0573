package generateinsight

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/scoring"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		Model:         "claude-3-5-sonnet-20241022",
		MaxTokens:     2000,
		Temperature:   0.7,
		MaxRetries:    2,
		RetryBackoff:  time.Millisecond,
	}
}

// stubMessages fails failures times before answering with text.
type stubMessages struct {
	text     string
	failures int
	calls    int
	lastBody anthropic.MessageNewParams
}

func (s *stubMessages) New(_ context.Context, body anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	s.calls++
	s.lastBody = body
	if s.calls <= s.failures {
		return nil, fmt.Errorf("upstream unavailable (attempt %d)", s.calls)
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: s.text},
		},
	}, nil
}

func createTestInput() *Input {
	return &Input{
		SubmissionID: "sub-777",
		SurveyID:     scoring.SurveyUniversal,
		Scorecard: scoring.Scorecard{
			Answers: scoring.Answers{
				"business_type":     "Restaurant/Food",
				"business_age":      "3-10 years",
				"team_size":         "6-15 people",
				"revenue":           "$250K–$1M",
				"primary_challenge": "Inconsistent revenue",
				"main_goal":         "Improve profitability",
				"revenue_trend":     "Growing slowly (<10%)",
			},
			FullName:    "Ada Okafor",
			CompanyName: "Okafor Trading Ltd",
			Email:       "ada@okafortrading.com",
		},
		Result: scoring.Result{
			SurveyID: scoring.SurveyUniversal,
			Categories: []scoring.CategoryScore{
				{Category: "financial", Name: "Financial Health", Normalized: 15},
				{Category: "growth", Name: "Growth & Marketing", Normalized: 18},
			},
			Total:     93,
			MaxTotal:  150,
			Readiness: "Developing",
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	stub := &stubMessages{text: "  ## Business Health Summary\nSolid fundamentals.  "}
	handler := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "sub-777", output.SubmissionID)
	assert.Equal(t, "## Business Health Summary\nSolid fundamentals.", output.Insight)
	assert.Equal(t, "claude-3-5-sonnet-20241022", output.Model)
	assert.Equal(t, 1, stub.calls)
}

func TestHandler_Execute_SendsConfiguredSamplingParams(t *testing.T) {
	stub := &stubMessages{text: "ok"}
	handler := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, anthropic.Model("claude-3-5-sonnet-20241022"), stub.lastBody.Model)
	assert.Equal(t, int64(2000), stub.lastBody.MaxTokens)
	require.Len(t, stub.lastBody.Messages, 1)
}

func TestHandler_Execute_RetriesTransientFailure(t *testing.T) {
	stub := &stubMessages{text: "recovered", failures: 2}
	handler := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "recovered", output.Insight)
	assert.Equal(t, 3, stub.calls)
}

func TestHandler_Execute_ExhaustedRetriesFail(t *testing.T) {
	stub := &stubMessages{text: "never reached", failures: 10}
	handler := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInsightFailed)
	assert.Equal(t, 3, stub.calls) // initial attempt + MaxRetries
}

func TestHandler_Execute_CanceledContextIsTimeout(t *testing.T) {
	stub := &stubMessages{text: "never reached", failures: 10}
	handler := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	output, err := handler.Execute(ctx, createTestInput())

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInsightTimeout)
}

func TestHandler_Execute_EmptyResponseRejected(t *testing.T) {
	stub := &stubMessages{text: "   "}
	handler := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInsightFailed)
}

// ==========================
// Prompt Construction Tests
// ==========================

func TestBuildPrompt_ContainsScoresAndContext(t *testing.T) {
	input := createTestInput()
	prompt := buildPrompt(input)

	assert.Contains(t, prompt, "Restaurant/Food businesses")
	assert.Contains(t, prompt, "growing business")
	assert.Contains(t, prompt, "• Financial Health: 15/25")
	assert.Contains(t, prompt, "• Overall Score: 93/150 (Developing)")
	assert.Contains(t, prompt, `"Improve profitability"`)
	assert.Contains(t, prompt, `"Inconsistent revenue"`)
	assert.Contains(t, prompt, "Managed Intelligence Services")
	assert.Contains(t, prompt, "- Revenue Trend: Growing slowly (<10%)")
}

func TestBuildPrompt_IncludesFlagSignals(t *testing.T) {
	input := createTestInput()
	input.SurveyID = scoring.SurveyGrowth
	input.Result.CriticalFlags = []string{scoring.TagNegativeCashFlow}
	input.Result.OpportunityFlags = []string{scoring.TagLoyalCustomerBase}

	prompt := buildPrompt(input)

	assert.Contains(t, prompt, "CRITICAL RISK SIGNALS: negative_cash_flow")
	assert.Contains(t, prompt, "OPPORTUNITY SIGNALS: loyal_customer_base")
}

func TestClassifyMaturity(t *testing.T) {
	tests := []struct {
		name     string
		answers  scoring.Answers
		expected string
	}{
		{
			name: "solo consultant",
			answers: scoring.Answers{
				"team_size":     "Solo operation",
				"business_type": "Consulting",
				"business_age":  "1-3 years",
			},
			expected: "solo professional practice",
		},
		{
			name: "long lived business",
			answers: scoring.Answers{
				"business_age": "10+ years",
				"team_size":    "2-5 people",
			},
			expected: "established business",
		},
		{
			name: "high revenue overrides age",
			answers: scoring.Answers{
				"business_age": "1-3 years",
				"revenue":      "Over $5M",
				"team_size":    "16-50 people",
			},
			expected: "established business",
		},
		{
			name: "young and small",
			answers: scoring.Answers{
				"business_age": "Less than 1 year",
				"team_size":    "2-5 people",
			},
			expected: "startup",
		},
		{
			name:     "default",
			answers:  scoring.Answers{"business_age": "3-10 years", "team_size": "6-15 people"},
			expected: "growing business",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyMaturity(tt.answers))
		})
	}
}

func TestErrorSentinels(t *testing.T) {
	assert.True(t, stderrors.Is(fmt.Errorf("%w: boom", ErrInsightFailed), ErrInsightFailed))
	assert.False(t, stderrors.Is(ErrInsightFailed, ErrInsightTimeout))
}

func TestJobError_MapsSharedTaxonomy(t *testing.T) {
	timeout := jobError(ErrInsightTimeout)
	assert.Equal(t, errors.ErrCodeInsightTimeout, timeout.Code)

	failed := jobError(fmt.Errorf("%w: model overloaded", ErrInsightFailed))
	assert.Equal(t, errors.ErrCodeInsightFailed, failed.Code)
	assert.Contains(t, failed.Error(), "model overloaded")
}
