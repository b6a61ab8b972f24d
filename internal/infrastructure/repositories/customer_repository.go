package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/you/checkoutsvc/domain"
	"gorm.io/gorm"
)

// CustomerRepositoryImpl implements domain.CustomerRepository using GORM
type CustomerRepositoryImpl struct {
	db *gorm.DB
}

// DBCustomer represents the database model for Customer (with GORM tags)
type DBCustomer struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:255"`
	Phone     string         `gorm:"index;size:32"`
	Role      string         `gorm:"index;size:64"`
	IsActive  bool           `gorm:"index"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBCustomer) TableName() string {
	return "customers"
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

// Create implements domain.CustomerRepository
func (r *CustomerRepositoryImpl) Create(ctx context.Context, customer *domain.Customer) error {
	dbCustomer := r.domainToDB(customer)
	if err := r.db.WithContext(ctx).Create(dbCustomer).Error; err != nil {
		return err
	}
	customer.ID = dbCustomer.ID
	return nil
}

// FindByIdentifier implements domain.CustomerRepository. Identifiers starting
// with "+" are phone numbers, everything else is matched against email.
func (r *CustomerRepositoryImpl) FindByIdentifier(ctx context.Context, identifier string) (*domain.Customer, error) {
	var dbCustomer DBCustomer
	query := r.db.WithContext(ctx)
	if strings.HasPrefix(identifier, "+") {
		query = query.Where("phone = ?", identifier)
	} else {
		query = query.Where("email = ?", strings.ToLower(identifier))
	}
	if err := query.First(&dbCustomer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbCustomer), nil
}

// FindByID implements domain.CustomerRepository
func (r *CustomerRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var dbCustomer DBCustomer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbCustomer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbCustomer), nil
}

// Update implements domain.CustomerRepository
func (r *CustomerRepositoryImpl) Update(ctx context.Context, customer *domain.Customer) error {
	dbCustomer := r.domainToDB(customer)
	return r.db.WithContext(ctx).Save(dbCustomer).Error
}

// domainToDB converts domain customer to database customer
func (r *CustomerRepositoryImpl) domainToDB(customer *domain.Customer) *DBCustomer {
	return &DBCustomer{
		ID:       customer.ID,
		Email:    customer.Email,
		Phone:    customer.Phone,
		Role:     customer.Role,
		IsActive: customer.IsActive,
	}
}

// dbToDomain converts database customer to domain customer
func (r *CustomerRepositoryImpl) dbToDomain(dbCustomer *DBCustomer) *domain.Customer {
	return &domain.Customer{
		ID:        dbCustomer.ID,
		Email:     dbCustomer.Email,
		Phone:     dbCustomer.Phone,
		Role:      dbCustomer.Role,
		IsActive:  dbCustomer.IsActive,
		CreatedAt: dbCustomer.CreatedAt,
		UpdatedAt: dbCustomer.UpdatedAt,
	}
}
