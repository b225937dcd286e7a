// internal/services/transaction_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

func TestCalculateBreakdownRequestValidation(t *testing.T) {
	base := func() CalculateBreakdownRequest {
		return CalculateBreakdownRequest{
			TransactionValue: 500000,
			CommissionRate:   3,
		}
	}

	t.Run("no co-broking", func(t *testing.T) {
		req := base()
		assert.NoError(t, utils.ValidateStruct(&req))
	})

	t.Run("enabled co-broking with valid split", func(t *testing.T) {
		req := base()
		req.CoBroking = &CoBrokingRequest{Enabled: true, CommissionSplit: 60}
		assert.NoError(t, utils.ValidateStruct(&req))
	})

	t.Run("enabled co-broking with zero split is rejected", func(t *testing.T) {
		req := base()
		req.CoBroking = &CoBrokingRequest{Enabled: true, CommissionSplit: 0}
		assert.Error(t, utils.ValidateStruct(&req))
	})

	t.Run("enabled co-broking with out-of-range split is rejected", func(t *testing.T) {
		for _, split := range []int{-5, 100, 150} {
			req := base()
			req.CoBroking = &CoBrokingRequest{Enabled: true, CommissionSplit: split}
			assert.Error(t, utils.ValidateStruct(&req), "split = %d", split)
		}
	})

	t.Run("disabled co-broking ignores the split", func(t *testing.T) {
		req := base()
		req.CoBroking = &CoBrokingRequest{Enabled: false, CommissionSplit: 0}
		assert.NoError(t, utils.ValidateStruct(&req))
	})
}

func TestCreateTransactionRequestValidation(t *testing.T) {
	base := func() CreateTransactionRequest {
		return CreateTransactionRequest{
			TransactionType:  models.TransactionTypeSale,
			TransactionDate:  "2024-01-01",
			TransactionValue: 500000,
			CommissionRate:   3,
		}
	}

	t.Run("valid request", func(t *testing.T) {
		req := base()
		assert.NoError(t, utils.ValidateStruct(&req))
	})

	t.Run("known transaction types", func(t *testing.T) {
		for _, transactionType := range []models.TransactionType{
			models.TransactionTypeSale,
			models.TransactionTypeRent,
			models.TransactionTypePrimary,
		} {
			req := base()
			req.TransactionType = transactionType
			assert.NoError(t, utils.ValidateStruct(&req), "type = %s", transactionType)
		}
	})

	t.Run("unknown transaction type is rejected", func(t *testing.T) {
		req := base()
		req.TransactionType = models.TransactionType("Foo")
		err := utils.ValidateStruct(&req)
		assert.Error(t, err)

		validationErrors := utils.GetValidationErrors(err)
		assert.Len(t, validationErrors, 1)
		assert.Equal(t, "oneof", validationErrors[0].Tag)
	})

	t.Run("missing transaction type is rejected", func(t *testing.T) {
		req := base()
		req.TransactionType = ""
		assert.Error(t, utils.ValidateStruct(&req))
	})
}
