package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/you/checkoutsvc/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepositoryImpl implements domain.ProfileRepository using GORM
type ProfileRepositoryImpl struct {
	db *gorm.DB
}

// DBProfile represents the database model for ProfileRecord (with GORM tags)
type DBProfile struct {
	CustomerID     uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:255"`
	LastName       string `gorm:"size:255"`
	DocumentTypeID uint   `gorm:"index"`
	DocumentID     string `gorm:"uniqueIndex;size:32"`
	Phone          string `gorm:"size:32"`
	Birthdate      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (DBProfile) TableName() string {
	return "profiles"
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) domain.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

// Upsert implements domain.ProfileRepository. A second submit for the same
// customer replaces the stored profile; reusing another customer's document
// is rejected.
func (r *ProfileRepositoryImpl) Upsert(ctx context.Context, profile *domain.ProfileRecord) error {
	dbProfile := r.domainToDB(profile)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}},
		UpdateAll: true,
	}).Create(dbProfile).Error
	if err != nil {
		if isDuplicateError(err) {
			return domain.ErrProfileDuplicateDocument
		}
		return domain.ErrProfileStoreUnavailable
	}
	return nil
}

// FindByCustomerID implements domain.ProfileRepository
func (r *ProfileRepositoryImpl) FindByCustomerID(ctx context.Context, customerID uint) (*domain.ProfileRecord, error) {
	var dbProfile DBProfile
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&dbProfile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbProfile), nil
}

// isDuplicateError detects a unique-constraint violation across the
// Postgres and SQLite drivers
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

func (r *ProfileRepositoryImpl) domainToDB(profile *domain.ProfileRecord) *DBProfile {
	return &DBProfile{
		CustomerID:     profile.CustomerID,
		Name:           profile.Name,
		LastName:       profile.LastName,
		DocumentTypeID: profile.DocumentTypeID,
		DocumentID:     profile.DocumentID,
		Phone:          profile.Phone,
		Birthdate:      profile.Birthdate,
	}
}

func (r *ProfileRepositoryImpl) dbToDomain(dbProfile *DBProfile) *domain.ProfileRecord {
	return &domain.ProfileRecord{
		CustomerID:     dbProfile.CustomerID,
		Name:           dbProfile.Name,
		LastName:       dbProfile.LastName,
		DocumentTypeID: dbProfile.DocumentTypeID,
		DocumentID:     dbProfile.DocumentID,
		Phone:          dbProfile.Phone,
		Birthdate:      dbProfile.Birthdate,
		CreatedAt:      dbProfile.CreatedAt,
		UpdatedAt:      dbProfile.UpdatedAt,
	}
}
