package sendreport

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/scoring"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
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
		FromEmail:     "reports@beamxsolutions.com",
		ReplyTo:       "hello@beamxsolutions.com",
		BrandName:     "BeamX Solutions",
		SNSTopicARN:   "arn:aws:sns:us-east-1:123456789012:assessments",
	}
}

type mockSES struct {
	lastInput *ses.SendRawEmailInput
	err       error
}

func (m *mockSES) SendRawEmail(_ context.Context, input *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendRawEmailOutput{MessageId: awssdk.String("msg-0001")}, nil
}

type mockSNS struct {
	lastInput *sns.PublishInput
	err       error
}

func (m *mockSNS) Publish(_ context.Context, input *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("notice-0001")}, nil
}

func createTestInput() *Input {
	return &Input{
		SubmissionID: "sub-450",
		SurveyID:     scoring.SurveyGrowth,
		FullName:     "Ada Okafor",
		CompanyName:  "Okafor Trading Ltd",
		Email:        "ada@okafortrading.com",
		Result: scoring.Result{
			SurveyID: scoring.SurveyGrowth,
			Categories: []scoring.CategoryScore{
				{Category: "financial_health", Name: "Financial Health", Normalized: 16},
				{Category: "growth_marketing", Name: "Growth & Marketing", Normalized: 14},
			},
			Total:     72,
			MaxTotal:  100,
			Readiness: "Growth-Ready",
		},
		FileName:  "Okafor_Trading_Ltd_Assessment_Report.pdf",
		PDFBase64: base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake document body")),
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsEmailWithAttachment(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := NewHandler(createTestConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Success)
	assert.Equal(t, "msg-0001", output.MessageID)
	assert.True(t, output.Notified)
	assert.False(t, output.SentAt.IsZero())

	require.NotNil(t, sesMock.lastInput)
	assert.Equal(t, "reports@beamxsolutions.com", *sesMock.lastInput.Source)
	assert.Equal(t, []string{"ada@okafortrading.com"}, sesMock.lastInput.Destinations)

	raw := string(sesMock.lastInput.RawMessage.Data)
	assert.Contains(t, raw, "Subject: Your Business Assessment Report - Okafor Trading Ltd")
	assert.Contains(t, raw, "Content-Type: application/pdf")
	assert.Contains(t, raw, `filename="Okafor_Trading_Ltd_Assessment_Report.pdf"`)
	assert.Contains(t, raw, "Overall score: 72/100 (Growth-Ready)")
	assert.Contains(t, raw, "Reply-To: hello@beamxsolutions.com")
}

func TestHandler_Execute_PublishesDeliveryNotice(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := NewHandler(createTestConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.NotNil(t, snsMock.lastInput)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:assessments", *snsMock.lastInput.TopicArn)
	assert.Contains(t, *snsMock.lastInput.Message, "Okafor Trading Ltd")
	assert.Contains(t, *snsMock.lastInput.Message, "72/100")
}

func TestHandler_Execute_SNSFailureDoesNotFailJob(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{err: errors.New("topic gone")}
	handler := NewHandler(createTestConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Success)
	assert.False(t, output.Notified)
}

func TestHandler_Execute_NoTopicConfigured(t *testing.T) {
	cfg := createTestConfig()
	cfg.SNSTopicARN = ""
	snsMock := &mockSNS{}
	handler := NewHandler(cfg, &mockSES{}, snsMock, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Notified)
	assert.Nil(t, snsMock.lastInput)
}

func TestHandler_Execute_SESFailurePropagates(t *testing.T) {
	sesMock := &mockSES{err: errors.New("throttled")}
	handler := NewHandler(createTestConfig(), sesMock, &mockSNS{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrSendFailed)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_RejectsBadRecipient(t *testing.T) {
	handler := NewHandler(createTestConfig(), &mockSES{}, &mockSNS{}, logger.NewTestLogger(t))

	input := createTestInput()
	input.Email = "not-an-address"

	output, err := handler.Execute(context.Background(), input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestHandler_Execute_RejectsMissingAttachment(t *testing.T) {
	handler := NewHandler(createTestConfig(), &mockSES{}, &mockSNS{}, logger.NewTestLogger(t))

	input := createTestInput()
	input.PDFBase64 = ""

	output, err := handler.Execute(context.Background(), input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestHandler_Execute_RejectsCorruptAttachment(t *testing.T) {
	handler := NewHandler(createTestConfig(), &mockSES{}, &mockSNS{}, logger.NewTestLogger(t))

	input := createTestInput()
	input.PDFBase64 = "!!! not base64 !!!"

	output, err := handler.Execute(context.Background(), input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"ada@okafortrading.com", true},
		{" padded@example.org ", true},
		{"", false},
		{"no-at-sign", false},
		{"@example.com", false},
		{"user@", false},
		{"user@nodot", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, isValidEmail(tt.email))
		})
	}
}

// ==========================
// Message Construction Tests
// ==========================

func TestBuildRawMessage_Base64Folding(t *testing.T) {
	cfg := createTestConfig()
	input := createTestInput()
	attachment := make([]byte, 600)

	raw := string(buildRawMessage(cfg, input, attachment))

	idx := strings.Index(raw, "Content-Transfer-Encoding: base64")
	require.NotEqual(t, -1, idx)
	body := raw[idx:]
	body = body[strings.Index(body, "\r\n\r\n")+4:]
	body = body[:strings.Index(body, "\r\n--")]

	for _, line := range strings.Split(body, "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
	assert.NotEmpty(t, body)
}

func TestAttachmentName_Fallback(t *testing.T) {
	input := createTestInput()
	input.FileName = ""
	assert.Equal(t, "Assessment_Report.pdf", attachmentName(input))
}
