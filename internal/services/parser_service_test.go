package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/logging"
	"github.com/justsurfingit/application-tracker/internal/metrics"
)

const sampleJD = `Senior Backend Engineer
Acme Corp is looking for a Senior Python Developer.
Location: Nairobi, Kenya
Salary: $120,000 - $160,000

Requirements:
- 5+ years of Python and Django experience
- Experience with AWS and Docker
- Knowledge of PostgreSQL

Apply here: https://acme.com/careers/123`

type fakeModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, opts...)
}

func TestParseJDRules(t *testing.T) {
	job := ParseJDRules(sampleJD, "")

	assert.Equal(t, "Senior Backend Engineer", job.Title)
	require.NotNil(t, job.Location)
	assert.Equal(t, "Nairobi", *job.Location)
	require.NotNil(t, job.SalaryRange)
	assert.Equal(t, "$120,000", *job.SalaryRange)
	require.NotNil(t, job.SeniorityLevel)
	assert.Equal(t, "senior", *job.SeniorityLevel)
	assert.Equal(t, []string{"aws", "django", "docker", "postgresql", "python"}, job.Skills)
	require.NotNil(t, job.ApplyURL)
	assert.Equal(t, "https://acme.com/careers/123", *job.ApplyURL)
	assert.Equal(t, 0.45, job.Confidence)
	assert.Equal(t, "rules", job.Method)
}

func TestParseJDRulesModeLocation(t *testing.T) {
	job := ParseJDRules("Frontend Engineer\nThis role is fully REMOTE.", "")
	require.NotNil(t, job.Location)
	assert.Equal(t, "Remote", *job.Location)
}

func TestParseJDRulesFallbacks(t *testing.T) {
	job := ParseJDRules("ok\nhttp://x\nfine", "https://jobs.example.com/1")

	assert.Equal(t, UnknownPosition, job.Title)
	assert.Equal(t, UnknownCompany, job.Company)
	assert.Nil(t, job.Location)
	assert.Nil(t, job.SeniorityLevel)
	assert.Empty(t, job.Skills)
	require.NotNil(t, job.ApplyURL)
	assert.Equal(t, "http://x", *job.ApplyURL)

	job = ParseJDRules("nothing useful in this text", "https://jobs.example.com/1")
	require.NotNil(t, job.ApplyURL)
	assert.Equal(t, "https://jobs.example.com/1", *job.ApplyURL)
}

func TestParseJDRulesCompanyAndTitleLabel(t *testing.T) {
	job := ParseJDRules("Position: Data Analyst\nCompany: Safaricom PLC\nWe are hiring", "")
	assert.Equal(t, "Data Analyst", job.Title)
	assert.Equal(t, "Safaricom PLC", job.Company)

	job = ParseJDRules("Backend Developer\nJoin us at Globex is hiring now", "")
	assert.Equal(t, "Globex", job.Company)
}

func TestParseJDRulesSeniorityOrder(t *testing.T) {
	job := ParseJDRules("Junior developer, senior mentors around", "")
	require.NotNil(t, job.SeniorityLevel)
	assert.Equal(t, "entry", *job.SeniorityLevel)

	job = ParseJDRules("Engineer with 3-7 years of experience", "")
	require.NotNil(t, job.SeniorityLevel)
	assert.Equal(t, "mid", *job.SeniorityLevel)
}

func TestLLMExtractNormalizes(t *testing.T) {
	model := &fakeModel{reply: "```json\n" + `{
		"title": "Platform Engineer",
		"company": null,
		"seniority_level": "Principal",
		"skills": ["go", "kubernetes"],
		"apply_url": ""
	}` + "\n```"}
	s := &LLMService{Client: model}

	long := strings.Repeat("word ", 100)
	job, err := s.Extract(context.Background(), long, "https://example.com/apply")
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", job.Title)
	assert.Equal(t, UnknownCompany, job.Company)
	assert.Nil(t, job.SeniorityLevel)
	assert.Equal(t, []string{"go", "kubernetes"}, job.Skills)
	assert.Len(t, []rune(job.Description), 300)
	require.NotNil(t, job.ApplyURL)
	assert.Equal(t, "https://example.com/apply", *job.ApplyURL)
	assert.Equal(t, 0.85, job.Confidence)
	assert.Equal(t, "ai", job.Method)
}

func TestLLMExtractRejectsEmpty(t *testing.T) {
	s := &LLMService{Client: &fakeModel{reply: `{"title": "", "skills": []}`}}
	_, err := s.Extract(context.Background(), sampleJD, "")
	assert.ErrorIs(t, err, ErrEmptyExtraction)
}

func TestParserFallsBackToRules(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	model := &fakeModel{err: errors.New("quota exceeded")}
	p := NewParserService(&LLMService{Client: model}, "gemini-2.5-flash", logging.Discard(), m)

	job := p.Parse(context.Background(), &dtos.JobExtractionRequest{RawJD: sampleJD})
	assert.Equal(t, "rules", job.Method)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JDParses.WithLabelValues("rules")))
}

func TestParserUsesAIWhenAsked(t *testing.T) {
	model := &fakeModel{reply: `{"title": "SRE", "company": "Acme", "skills": ["linux"], "confidence": 0.9}`}
	p := NewParserService(&LLMService{Client: model}, "gemini-2.5-flash", logging.Discard(), nil)

	job := p.Parse(context.Background(), &dtos.JobExtractionRequest{RawJD: sampleJD})
	assert.Equal(t, "ai", job.Method)
	assert.Equal(t, 0.9, job.Confidence)

	off := false
	job = p.Parse(context.Background(), &dtos.JobExtractionRequest{RawJD: sampleJD, UseLLM: &off})
	assert.Equal(t, "rules", job.Method)
	assert.Equal(t, 1, model.calls)
}

func TestParserHealth(t *testing.T) {
	h := NewParserService(nil, "", logging.Discard(), nil).Health()
	assert.False(t, h.AIAvailable)
	assert.Equal(t, "rules", h.Method)
	assert.Nil(t, h.Model)
	assert.True(t, h.FallbackAvailable)

	h = NewParserService(&LLMService{}, "gemini-2.5-flash", logging.Discard(), nil).Health()
	assert.True(t, h.AIAvailable)
	require.NotNil(t, h.Model)
	assert.Equal(t, "gemini-2.5-flash", *h.Model)
}
