package services

import (
	"context"
	"log/slog"

	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/metrics"
)

// ParserService parses job descriptions with the AI extractor when one is
// configured and the caller asks for it, and with the fixed rules otherwise
// or when the extractor fails.
type ParserService struct {
	AI        JDExtractor
	ModelName string
	Log       *slog.Logger
	Metrics   *metrics.Metrics
}

// NewParserService accepts a nil ai; parsing then always uses the rules.
func NewParserService(ai JDExtractor, model string, log *slog.Logger, m *metrics.Metrics) *ParserService {
	return &ParserService{AI: ai, ModelName: model, Log: log, Metrics: m}
}

func (s *ParserService) Parse(ctx context.Context, req *dtos.JobExtractionRequest) *dtos.ParsedJob {
	useAI := req.UseLLM == nil || *req.UseLLM
	if useAI && s.AI != nil {
		job, err := s.AI.Extract(ctx, req.RawJD, req.URL)
		if err == nil {
			s.Log.InfoContext(ctx, "job description parsed", "method", "ai", "confidence", job.Confidence)
			s.Metrics.JDParsed("ai")
			return job
		}
		s.Log.WarnContext(ctx, "ai extraction failed, using rules", "error", err)
	}

	job := ParseJDRules(req.RawJD, req.URL)
	s.Metrics.JDParsed("rules")
	return job
}

func (s *ParserService) Health() *dtos.ParserHealth {
	h := &dtos.ParserHealth{
		Status:            "healthy",
		AIAvailable:       s.AI != nil,
		Method:            "rules",
		FallbackAvailable: true,
	}
	if h.AIAvailable {
		h.Method = "ai"
		if s.ModelName != "" {
			model := s.ModelName
			h.Model = &model
		}
	}
	return h
}
