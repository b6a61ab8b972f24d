package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/checkoutsvc/domain"
)

// AdminHandlers exposes back-office views over recorded transactions
type AdminHandlers struct {
	txRepo domain.TransactionRepository
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(txRepo domain.TransactionRepository) *AdminHandlers {
	return &AdminHandlers{txRepo: txRepo}
}

// ListTransactions returns transactions filtered by ticket and status
func (h *AdminHandlers) ListTransactions(c *gin.Context) {
	filter := domain.TransactionFilter{Limit: 50}

	if raw := c.Query("ticket_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket_id"})
			return
		}
		filter.TicketID = uint(id)
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = domain.TransactionStatus(raw)
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
			return
		}
		filter.Offset = offset
	}

	transactions, err := h.txRepo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Listing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": transactions, "count": len(transactions)})
}

// GetTransaction returns a single transaction by order reference
func (h *AdminHandlers) GetTransaction(c *gin.Context) {
	tx, err := h.txRepo.FindByOrderID(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tx})
}
