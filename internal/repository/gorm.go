package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"portfolio-api/internal/model"
)

// contactRow is the relational shape of a contact message. The surrogate
// primary key never leaves this package.
type contactRow struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ContactID string    `gorm:"type:varchar(36);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Message   string    `gorm:"type:text;not null"`
	Status    string    `gorm:"type:varchar(50);not null;default:new;index"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the table name for contactRow
func (contactRow) TableName() string {
	return "contacts"
}

func (r contactRow) toModel() model.ContactMessage {
	return model.ContactMessage{
		ID:        r.ContactID,
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Message,
		CreatedAt: r.CreatedAt.UTC(),
		Status:    r.Status,
	}
}

// GormRepository stores contact messages in a SQL database through GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository on top of an open GORM connection
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var _ ContactRepository = (*GormRepository)(nil)

// Migrate creates or updates the contacts table
func (r *GormRepository) Migrate() error {
	if err := r.db.AutoMigrate(&contactRow{}); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (r *GormRepository) Create(ctx context.Context, contact *model.ContactMessage) error {
	row := contactRow{
		ContactID: contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Message:   contact.Message,
		Status:    contact.Status,
		CreatedAt: contact.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

func (r *GormRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	var rows []contactRow
	if err := r.newestFirst(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]model.ContactMessage, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, row.toModel())
	}
	return contacts, nil
}

// newestFirst orders by creation time, breaking ties by insertion order
func (r *GormRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	var row contactRow
	err := r.db.WithContext(ctx).Where("contact_id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	contact := row.toModel()
	return &contact, nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&contactRow{}).Where("contact_id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update contact status: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when the value is unchanged.
	var n int64
	if err := r.db.WithContext(ctx).Model(&contactRow{}).Where("contact_id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if n == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&contactRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

func (r *GormRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&contactRow{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count contacts by status: %w", err)
	}
	return n, nil
}

func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepository) Close(_ context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.Close()
}
