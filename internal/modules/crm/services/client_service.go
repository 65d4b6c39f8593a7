package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	maxNameLength        = 255
	maxPhoneLength       = 32
	maxDescriptionLength = 2000
)

// CreateClientInput is the payload for a new client
type CreateClientInput struct {
	Name   string            `json:"name"`
	Phone  string            `json:"phone"`
	Status engagement.Status `json:"status"`
	// LastInteraction defaults to now
	LastInteraction *time.Time `json:"lastInteraction,omitempty"`
	// InitialNote, when set, becomes the first interaction
	InitialNote string `json:"initialNote,omitempty"`
}

// UpdateClientInput holds the editable fields; nil means unchanged
type UpdateClientInput struct {
	Name   *string            `json:"name,omitempty"`
	Phone  *string            `json:"phone,omitempty"`
	Status *engagement.Status `json:"status,omitempty"`
}

// AddInteractionInput appends a note to a client's history
type AddInteractionInput struct {
	Description string `json:"description"`
	// Date defaults to now
	Date *time.Time `json:"date,omitempty"`
}

// ApplyRecommendationResult reports what the classifier decided
type ApplyRecommendationResult struct {
	Client         *models.Client            `json:"client"`
	Changed        bool                      `json:"changed"`
	PreviousStatus engagement.Status         `json:"previousStatus"`
	Classification engagement.Classification `json:"classification"`
}

// ClientService handles client records and their interaction history
type ClientService struct {
	repo repositories.ClientRepo
	now  func() time.Time
}

// NewClientService creates a new client service
func NewClientService(repo repositories.ClientRepo) *ClientService {
	return &ClientService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and stores a new client
func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	phone, err := normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		return nil, validationError("status is required")
	}
	if !status.Valid() {
		return nil, validationError("invalid status %q", status)
	}
	var note string
	if strings.TrimSpace(in.InitialNote) != "" {
		if note, err = normalizeDescription(in.InitialNote); err != nil {
			return nil, err
		}
	}

	if err := s.ensurePhoneAvailable(ctx, phone, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now()
	lastInteraction := now
	if in.LastInteraction != nil {
		lastInteraction = in.LastInteraction.UTC()
	}

	client := &models.Client{
		Name:              name,
		Phone:             phone,
		Status:            status,
		LastInteractionAt: lastInteraction,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if note != "" {
		err = s.repo.CreateWithInteraction(ctx, client, &models.Interaction{OccurredAt: lastInteraction, Description: note})
	} else {
		err = s.repo.Create(ctx, client)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	log.Info().Str("client_id", client.ID.String()).Str("status", string(status)).Msg("✅ Client created")
	return s.Get(ctx, client.ID)
}

// Get returns a live client with its interactions
func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return client, nil
}

// List returns live clients matching the filter
func (s *ClientService) List(ctx context.Context, filter repositories.ClientFilter) ([]models.Client, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationError("invalid status %q", filter.Status)
	}
	clients, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Stats counts live clients per status
func (s *ClientService) Stats(ctx context.Context) (*models.ClientStats, error) {
	return s.repo.Stats(ctx)
}

// Update changes name, phone or status
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, in UpdateClientInput) (*models.Client, error) {
	fields := map[string]interface{}{}

	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if in.Phone != nil {
		phone, err := normalizePhone(*in.Phone)
		if err != nil {
			return nil, err
		}
		if err := s.ensurePhoneAvailable(ctx, phone, id); err != nil {
			return nil, err
		}
		fields["phone"] = phone
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, validationError("invalid status %q", *in.Status)
		}
		fields["status"] = *in.Status
	}

	if len(fields) == 0 {
		return s.Get(ctx, id)
	}
	fields["updated_at"] = s.now()

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneTaken
		}
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id)
}

// AddInteraction appends a note and moves the last interaction date
func (s *ClientService) AddInteraction(ctx context.Context, id uuid.UUID, in AddInteractionInput) (*models.Client, error) {
	description, err := normalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}

	now := s.now()
	occurredAt := now
	if in.Date != nil {
		occurredAt = in.Date.UTC()
	}

	interaction := &models.Interaction{OccurredAt: occurredAt, Description: description}
	if err := s.repo.AppendInteraction(ctx, id, interaction, now); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a client; its phone number becomes free again
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id, s.now()); err != nil {
		return mapNotFound(err)
	}
	log.Info().Str("client_id", id.String()).Msg("🗑️ Client deleted")
	return nil
}

// ApplyRecommendation sets the status the classifier recommends
func (s *ClientService) ApplyRecommendation(ctx context.Context, id uuid.UUID) (*ApplyRecommendationResult, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	classification := engagement.Classify(now, client.LastInteractionAt, client.Status)
	result := &ApplyRecommendationResult{
		Client:         client,
		PreviousStatus: client.Status,
		Classification: classification,
	}
	if !classification.NeedsChange {
		return result, nil
	}

	err = s.repo.Update(ctx, id, map[string]interface{}{
		"status":     classification.RecommendedStatus,
		"updated_at": now,
	})
	if err != nil {
		return nil, mapNotFound(err)
	}

	if result.Client, err = s.Get(ctx, id); err != nil {
		return nil, err
	}
	result.Changed = true

	log.Info().Str("client_id", id.String()).
		Str("from", string(result.PreviousStatus)).
		Str("to", string(classification.RecommendedStatus)).
		Msg("🔄 Recommendation applied")
	return result, nil
}

func (s *ClientService) ensurePhoneAvailable(ctx context.Context, phone string, self uuid.UUID) error {
	existing, err := s.repo.FindActiveByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check phone: %w", err)
	}
	if existing.ID != self {
		return ErrPhoneTaken
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", validationError("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", validationError("name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func normalizeDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if description == "" {
		return "", validationError("description is required")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return "", validationError("description must be at most %d characters", maxDescriptionLength)
	}
	return description, nil
}

// normalizePhone strips formatting and keeps an optional leading +
func normalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", validationError("phone is required")
	}

	var b strings.Builder
	for i, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", validationError("phone contains invalid character %q", r)
		}
	}

	phone := b.String()
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 6 || len(phone) > maxPhoneLength {
		return "", validationError("phone must have between 6 and %d digits", maxPhoneLength-1)
	}
	return phone, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrClientNotFound
	}
	return err
}
