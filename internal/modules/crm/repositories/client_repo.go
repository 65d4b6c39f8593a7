package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientFilter narrows a client listing
type ClientFilter struct {
	Search                string // matches name (case-insensitive) or phone
	Status                engagement.Status
	SortByLastInteraction bool // newest interaction first instead of most recently updated
	Limit                 int
}

// ClientRepo is the storage collaborator for client records.
// Every method ignores soft-deleted clients; lookups of a deleted client
// return gorm.ErrRecordNotFound.
type ClientRepo interface {
	Create(ctx context.Context, client *models.Client) error
	CreateWithInteraction(ctx context.Context, client *models.Client, first *models.Interaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	FindActiveByPhone(ctx context.Context, phone string) (*models.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]models.Client, error)
	Stats(ctx context.Context) (*models.ClientStats, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	AppendInteraction(ctx context.Context, clientID uuid.UUID, interaction *models.Interaction, updatedAt time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error
	FindInactivationCandidates(ctx context.Context, status engagement.Status, cutoff time.Time) ([]models.Client, error)
	MarkInactive(ctx context.Context, id uuid.UUID, cutoff, now time.Time) (bool, error)
}

type clientRepo struct {
	db *gorm.DB
}

// NewClientRepo creates a new client repository
func NewClientRepo(db *gorm.DB) ClientRepo {
	return &clientRepo{db: db}
}

func orderedInteractions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(client).Error
}

// CreateWithInteraction stores a new client and its first interaction in one
// transaction. Nothing is stored when either insert fails.
func (r *clientRepo) CreateWithInteraction(ctx context.Context, client *models.Client, first *models.Interaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(client).Error; err != nil {
			return err
		}
		first.ClientID = client.ID
		first.Position = 0
		return tx.Create(first).Error
	})
}

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("Interactions", orderedInteractions).
		Where("id = ? AND deleted = ?", id, false).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) FindActiveByPhone(ctx context.Context, phone string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("phone = ? AND deleted = ?", phone, false).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) List(ctx context.Context, filter ClientFilter) ([]models.Client, error) {
	query := r.db.WithContext(ctx).
		Preload("Interactions", orderedInteractions).
		Where("deleted = ?", false)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+term+"%")
	}
	if filter.SortByLastInteraction {
		query = query.Order("last_interaction_at DESC")
	} else {
		query = query.Order("updated_at DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var clients []models.Client
	err := query.Find(&clients).Error
	return clients, err
}

func (r *clientRepo) Stats(ctx context.Context) (*models.ClientStats, error) {
	var rows []struct {
		Status engagement.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Select("status, COUNT(*) AS count").
		Where("deleted = ?", false).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.ClientStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case engagement.StatusActive:
			stats.Active = row.Count
		case engagement.StatusPotential:
			stats.Potential = row.Count
		case engagement.StatusInactive:
			stats.Inactive = row.Count
		}
	}
	return stats, nil
}

func (r *clientRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AppendInteraction stores the interaction at the end of the client's history
// and moves last_interaction_at to its timestamp in one transaction.
func (r *clientRepo) AppendInteraction(ctx context.Context, clientID uuid.UUID, interaction *models.Interaction, updatedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND deleted = ?", clientID, false).
			First(&client).Error
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Interaction{}).Where("client_id = ?", clientID).Count(&count).Error; err != nil {
			return err
		}

		interaction.ClientID = clientID
		interaction.Position = int(count)
		if err := tx.Create(interaction).Error; err != nil {
			return err
		}

		return tx.Model(&models.Client{}).
			Where("id = ?", clientID).
			Updates(map[string]interface{}{
				"last_interaction_at": interaction.OccurredAt,
				"updated_at":          updatedAt,
			}).Error
	})
}

func (r *clientRepo) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	return r.Update(ctx, id, map[string]interface{}{
		"deleted":    true,
		"updated_at": deletedAt,
	})
}

func (r *clientRepo) FindInactivationCandidates(ctx context.Context, status engagement.Status, cutoff time.Time) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("status = ? AND deleted = ? AND last_interaction_at <= ?", status, false, cutoff).
		Order("last_interaction_at ASC").
		Find(&clients).Error
	return clients, err
}

// MarkInactive moves one client to Inactive only if it is still eligible at
// write time. It reports false when another writer got there first.
func (r *clientRepo) MarkInactive(ctx context.Context, id uuid.UUID, cutoff, now time.Time) (bool, error) {
	eligible := []string{string(engagement.StatusActive), string(engagement.StatusPotential)}

	res := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND deleted = ? AND status IN ? AND last_interaction_at <= ?", id, false, eligible, cutoff).
		Updates(map[string]interface{}{
			"status":     engagement.StatusInactive,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
