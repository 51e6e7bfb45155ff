package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/application-tracker/internal/config"
	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/storage"
)

// JDExtractor turns a raw job description into structured fields.
type JDExtractor interface {
	Extract(ctx context.Context, rawJD, url string) (*dtos.ParsedJob, error)
}

const (
	llmInputCap       = 8000
	llmDescriptionCap = 300
	llmConfidence     = 0.85
)

// ErrEmptyExtraction means the model answered but found neither a title nor
// any skills.
var ErrEmptyExtraction = errors.New("model returned no title or skills")

type LLMService struct {
	Client  llms.Model
	Model   string
	Timeout time.Duration
}

// NewLLMService builds a Gemini-backed extractor from cfg.
func NewLLMService(ctx context.Context, cfg config.LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMService{Client: llm, Model: cfg.Model, Timeout: cfg.Timeout}, nil
}

const jobExtractionPrompt = `
You are an expert HR parser. Extract structured data from this job description.

JOB DESCRIPTION:
%s

INSTRUCTIONS:
1. Extract the fields below into a strictly valid JSON object.
2. If a value is not found, return null. Do not guess.
3. "skills" must be a list of lowercase technical strings.
4. "seniority_level" must be one of "entry", "mid", "senior", or null.

REQUIRED JSON STRUCTURE:
{
    "title": "string",
    "company": "string",
    "location": "string",
    "salary_range": "string",
    "seniority_level": "string",
    "skills": ["string"],
    "description": "short summary string",
    "apply_url": "string",
    "confidence": 0.0
}
`

type llmJob struct {
	Title          *string  `json:"title"`
	Company        *string  `json:"company"`
	Location       *string  `json:"location"`
	SalaryRange    *string  `json:"salary_range"`
	SeniorityLevel *string  `json:"seniority_level"`
	Skills         []string `json:"skills"`
	Description    *string  `json:"description"`
	ApplyURL       *string  `json:"apply_url"`
	Confidence     *float64 `json:"confidence"`
}

// Extract asks the model for JSON and normalizes what comes back.
func (s *LLMService) Extract(ctx context.Context, rawJD, url string) (*dtos.ParsedJob, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(jobExtractionPrompt, storage.Truncate(rawJD, llmInputCap))
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt,
		llms.WithJSONMode(),
		llms.WithTemperature(0.1),
	)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	var out llmJob
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &out); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if nonEmpty(out.Title) == "" && len(out.Skills) == 0 {
		return nil, ErrEmptyExtraction
	}

	job := &dtos.ParsedJob{
		Title:          orDefault(out.Title, UnknownPosition),
		Company:        orDefault(out.Company, UnknownCompany),
		Location:       out.Location,
		SalaryRange:    out.SalaryRange,
		SeniorityLevel: normalizeSeniority(out.SeniorityLevel),
		Skills:         out.Skills,
		Description:    orDefault(out.Description, storage.Truncate(rawJD, llmDescriptionCap)),
		ApplyURL:       out.ApplyURL,
		Confidence:     llmConfidence,
		Method:         "ai",
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	if nonEmpty(job.ApplyURL) == "" {
		job.ApplyURL = nil
		if url != "" {
			job.ApplyURL = &url
		}
	}
	if out.Confidence != nil {
		job.Confidence = *out.Confidence
	}
	return job, nil
}

// Some models wrap JSON in a markdown fence even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func orDefault(s *string, def string) string {
	if v := nonEmpty(s); v != "" {
		return v
	}
	return def
}

func normalizeSeniority(s *string) *string {
	switch v := strings.ToLower(nonEmpty(s)); v {
	case "entry", "mid", "senior":
		return &v
	}
	return nil
}
