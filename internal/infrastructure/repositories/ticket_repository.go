package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/checkoutsvc/domain"
	"gorm.io/gorm"
)

// TicketRepositoryImpl implements domain.TicketRepository using GORM
type TicketRepositoryImpl struct {
	db *gorm.DB
}

// DBTicketType represents the database model for TicketType (with GORM tags)
type DBTicketType struct {
	ID           uint   `gorm:"primaryKey"`
	EventID      uint   `gorm:"index"`
	Name         string `gorm:"size:255"`
	Price        float64
	Capacity     int
	Description  string `gorm:"size:1024"`
	SectionColor string `gorm:"size:32"`
	FeeRate      *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBTicketType) TableName() string {
	return "ticket_types"
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) domain.TicketRepository {
	return &TicketRepositoryImpl{db: db}
}

// FindByID implements domain.TicketRepository
func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.TicketType, error) {
	var dbTicket DBTicketType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbTicket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &domain.TicketType{
		ID:           dbTicket.ID,
		EventID:      dbTicket.EventID,
		Name:         dbTicket.Name,
		Price:        dbTicket.Price,
		Capacity:     dbTicket.Capacity,
		Description:  dbTicket.Description,
		SectionColor: dbTicket.SectionColor,
		FeeRate:      dbTicket.FeeRate,
		CreatedAt:    dbTicket.CreatedAt,
		UpdatedAt:    dbTicket.UpdatedAt,
	}, nil
}
