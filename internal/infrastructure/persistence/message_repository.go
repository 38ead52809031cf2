package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/portal"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMessageRepository implements portal.MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// FindByID finds a message by its ID
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*portal.Message, error) {
	var message portal.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindByClient finds messages in a client's thread, oldest first
func (r *GormMessageRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]portal.Message, error) {
	var messages []portal.Message
	query := applyPagination(
		r.db.WithContext(ctx).Model(&portal.Message{}).
			Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
			Order("created_at ASC"),
		filter,
	)
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CountUnreadForClient counts unread messages from the given sender side
func (r *GormMessageRepository) CountUnreadForClient(ctx context.Context, tenantID, clientID uuid.UUID, sender portal.MessageSender) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&portal.Message{}).
		Where("tenant_id = ? AND client_id = ? AND sender = ? AND read_at IS NULL",
			tenantID, clientID, sender).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a message
func (r *GormMessageRepository) Save(ctx context.Context, message *portal.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}

var _ portal.MessageRepository = (*GormMessageRepository)(nil)
