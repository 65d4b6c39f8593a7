package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"github.com/rs/zerolog/log"
)

// Analysis sources
const (
	SourceExternal = "external"
	SourceFallback = "fallback-local"
)

// recentInteractionsInPrompt is how many of the latest interactions the model sees
const recentInteractionsInPrompt = 3

// ClientSnapshot is the client data an analysis is computed from
type ClientSnapshot struct {
	Name            string                `json:"name"`
	Phone           string                `json:"phone"`
	Status          engagement.Status     `json:"status"`
	LastInteraction time.Time             `json:"lastInteraction"`
	Interactions    []InteractionSnapshot `json:"interactions"`
}

// InteractionSnapshot is one entry of a snapshot's history, oldest first
type InteractionSnapshot struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// SnapshotFromClient converts a stored client into an analysis snapshot
func SnapshotFromClient(c *models.Client) ClientSnapshot {
	snap := ClientSnapshot{
		Name:            c.Name,
		Phone:           c.Phone,
		Status:          c.Status,
		LastInteraction: c.LastInteractionAt,
		Interactions:    make([]InteractionSnapshot, 0, len(c.Interactions)),
	}
	for _, i := range c.Interactions {
		snap.Interactions = append(snap.Interactions, InteractionSnapshot{Date: i.OccurredAt, Description: i.Description})
	}
	return snap
}

// AnalysisResult is returned to the caller and never stored.
// RecommendedStatus and NeedsChange always come from the local classifier.
type AnalysisResult struct {
	Analysis                 string            `json:"analysis"`
	Recommendation           string            `json:"recommendation"`
	DaysSinceLastInteraction int               `json:"daysSinceLastInteraction"`
	Source                   string            `json:"sourceLabel"`
	Model                    string            `json:"model"`
	RecommendedStatus        engagement.Status `json:"recommendedStatus"`
	NeedsChange              bool              `json:"needsChange"`
}

// AnalysisService produces client analyses, preferring the external model
// and falling back to the local classifier on any failure.
type AnalysisService struct {
	llmService *llm.Service
	timeout    time.Duration
	now        func() time.Time
}

// NewAnalysisService creates the service. llmService may be nil, in which
// case every analysis comes from the classifier.
func NewAnalysisService(llmService *llm.Service, timeout time.Duration) *AnalysisService {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &AnalysisService{
		llmService: llmService,
		timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Analyze never fails: external errors end in the fallback result
func (s *AnalysisService) Analyze(ctx context.Context, snap ClientSnapshot) AnalysisResult {
	classification := engagement.Classify(s.now(), snap.LastInteraction, snap.Status)

	result := AnalysisResult{
		DaysSinceLastInteraction: classification.DaysSince,
		RecommendedStatus:        classification.RecommendedStatus,
		NeedsChange:              classification.NeedsChange,
	}

	if parsed, ok := s.generate(ctx, snap, classification.DaysSince); ok {
		result.Analysis = parsed.Analysis
		result.Recommendation = parsed.Recommendation
		result.Source = SourceExternal
		result.Model = s.llmService.GetModel()
	} else {
		result.Analysis = classification.Analysis
		result.Recommendation = classification.Recommendation
		result.Source = SourceFallback
		result.Model = SourceFallback
	}

	metrics.RecordAnalysis(result.Source)
	return result
}

// generate makes the single external attempt. Any problem yields ok=false.
func (s *AnalysisService) generate(ctx context.Context, snap ClientSnapshot, daysSince int) (parsed parsedAnalysis, ok bool) {
	if s.llmService == nil {
		metrics.RecordFallback("not_configured")
		return parsedAnalysis{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("LLM provider panicked, using local analysis")
			metrics.RecordFallback("panic")
			parsed, ok = parsedAnalysis{}, false
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	systemPrompt := llm.BuildAnalysisSystemPrompt(s.llmService.SupportsStructured())
	userMessage := llm.BuildClientContext(buildClientContext(snap, daysSince))

	text, structured, err := s.llmService.Generate(ctx, systemPrompt, userMessage, llm.AnalysisSchema)
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		log.Warn().Err(err).Str("provider", s.llmService.GetProviderName()).Str("reason", reason).
			Msg("external analysis failed, using local analysis")
		metrics.RecordFallback(reason)
		return parsedAnalysis{}, false
	}

	parsed, ok = parseStructured(text)
	if !ok && !structured {
		parsed, ok = parseLabeled(text)
	}
	if !ok {
		log.Warn().Str("provider", s.llmService.GetProviderName()).Int("length", len(text)).
			Msg("external analysis response invalid, using local analysis")
		metrics.RecordFallback("invalid_response")
		return parsedAnalysis{}, false
	}

	return parsed, true
}

func buildClientContext(snap ClientSnapshot, daysSince int) llm.ClientContext {
	recent := make([]string, 0, recentInteractionsInPrompt)
	for i := len(snap.Interactions) - 1; i >= 0 && len(recent) < recentInteractionsInPrompt; i-- {
		recent = append(recent, snap.Interactions[i].Description)
	}

	return llm.ClientContext{
		Name:               snap.Name,
		Phone:              snap.Phone,
		Status:             snap.Status.String(),
		LastInteraction:    snap.LastInteraction,
		DaysSince:          daysSince,
		InteractionCount:   len(snap.Interactions),
		RecentInteractions: recent,
	}
}

// Validate checks that a posted snapshot can be analyzed
func (snap ClientSnapshot) Validate() error {
	if !snap.Status.Valid() {
		return validationError("invalid status %q", snap.Status)
	}
	if snap.LastInteraction.IsZero() {
		return validationError("lastInteraction is required")
	}
	return nil
}

func (r AnalysisResult) String() string {
	return fmt.Sprintf("%s (%d days, source %s)", r.RecommendedStatus, r.DaysSinceLastInteraction, r.Source)
}
