package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/checkoutsvc/domain"
	"gorm.io/gorm"
)

// TransactionRepositoryImpl implements domain.TransactionRepository using GORM
type TransactionRepositoryImpl struct {
	db *gorm.DB
}

// DBTransaction represents the database model for Transaction (with GORM tags)
type DBTransaction struct {
	ID         string `gorm:"primaryKey;size:36"`
	OrderID    string `gorm:"uniqueIndex;size:64"`
	CustomerID uint   `gorm:"index"`
	SellerID   *uint  `gorm:"index"`
	TicketID   uint   `gorm:"index"`
	UnitPrice  float64
	Fee        float64
	Tax        float64
	Quantity   int
	Total      int64
	Status     string    `gorm:"index;size:16"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (DBTransaction) TableName() string {
	return "transactions"
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domain.TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

// Create implements domain.TransactionRepository
func (r *TransactionRepositoryImpl) Create(ctx context.Context, tx *domain.Transaction) error {
	dbTx := r.domainToDB(tx)
	if err := r.db.WithContext(ctx).Create(dbTx).Error; err != nil {
		if isDuplicateError(err) {
			return domain.ErrDuplicateOrder
		}
		return err
	}
	return nil
}

// FindByOrderID implements domain.TransactionRepository
func (r *TransactionRepositoryImpl) FindByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error) {
	var dbTx DBTransaction
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&dbTx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbTx), nil
}

// UpdateStatus implements domain.TransactionRepository
func (r *TransactionRepositoryImpl) UpdateStatus(ctx context.Context, orderID string, status domain.TransactionStatus) error {
	result := r.db.WithContext(ctx).Model(&DBTransaction{}).
		Where("order_id = ?", orderID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// List implements domain.TransactionRepository
func (r *TransactionRepositoryImpl) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&DBTransaction{}).Order("created_at DESC")
	if filter.TicketID != 0 {
		query = query.Where("ticket_id = ?", filter.TicketID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var dbTxs []DBTransaction
	if err := query.Find(&dbTxs).Error; err != nil {
		return nil, err
	}

	txs := make([]*domain.Transaction, 0, len(dbTxs))
	for i := range dbTxs {
		txs = append(txs, r.dbToDomain(&dbTxs[i]))
	}
	return txs, nil
}

func (r *TransactionRepositoryImpl) domainToDB(tx *domain.Transaction) *DBTransaction {
	return &DBTransaction{
		ID:         tx.ID,
		OrderID:    tx.OrderID,
		CustomerID: tx.CustomerID,
		SellerID:   tx.SellerID,
		TicketID:   tx.TicketID,
		UnitPrice:  tx.UnitPrice,
		Fee:        tx.Fee,
		Tax:        tx.Tax,
		Quantity:   tx.Quantity,
		Total:      tx.Total,
		Status:     string(tx.Status),
	}
}

func (r *TransactionRepositoryImpl) dbToDomain(dbTx *DBTransaction) *domain.Transaction {
	return &domain.Transaction{
		ID:         dbTx.ID,
		OrderID:    dbTx.OrderID,
		CustomerID: dbTx.CustomerID,
		SellerID:   dbTx.SellerID,
		TicketID:   dbTx.TicketID,
		UnitPrice:  dbTx.UnitPrice,
		Fee:        dbTx.Fee,
		Tax:        dbTx.Tax,
		Quantity:   dbTx.Quantity,
		Total:      dbTx.Total,
		Status:     domain.TransactionStatus(dbTx.Status),
		CreatedAt:  dbTx.CreatedAt,
		UpdatedAt:  dbTx.UpdatedAt,
	}
}
