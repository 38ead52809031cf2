package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEstimate(t *testing.T) *Estimate {
	t.Helper()
	estimate, err := NewEstimate(uuid.New(), uuid.New(), "EST-000001")
	require.NoError(t, err)
	return estimate
}

func newSentEstimate(t *testing.T) *Estimate {
	t.Helper()
	estimate := newTestEstimate(t)
	require.NoError(t, estimate.AddItem("Site survey", decimal.NewFromInt(1), decimal.NewFromInt(300)))
	require.NoError(t, estimate.Send())
	return estimate
}

func TestNewEstimate(t *testing.T) {
	t.Run("creates draft estimate", func(t *testing.T) {
		estimate, err := NewEstimate(uuid.New(), uuid.New(), "EST-000007")

		require.NoError(t, err)
		assert.Equal(t, EstimateStatusDraft, estimate.Status)
		assert.Equal(t, "EST-000007", estimate.Number)
		assert.True(t, estimate.IsEditable())
	})

	t.Run("fails with empty number", func(t *testing.T) {
		estimate, err := NewEstimate(uuid.New(), uuid.New(), "")

		assert.Error(t, err)
		assert.Nil(t, estimate)
	})
}

func TestEstimateLifecycle(t *testing.T) {
	t.Run("send requires line items", func(t *testing.T) {
		estimate := newTestEstimate(t)

		assert.Error(t, estimate.Send())
	})

	t.Run("accept from sent", func(t *testing.T) {
		estimate := newSentEstimate(t)

		require.NoError(t, estimate.Accept())

		assert.Equal(t, EstimateStatusAccepted, estimate.Status)
		assert.False(t, estimate.IsEditable())
	})

	t.Run("decline from sent", func(t *testing.T) {
		estimate := newSentEstimate(t)

		require.NoError(t, estimate.Decline())

		assert.Equal(t, EstimateStatusDeclined, estimate.Status)
	})

	t.Run("cannot accept a draft", func(t *testing.T) {
		estimate := newTestEstimate(t)

		assert.Error(t, estimate.Accept())
	})

	t.Run("cannot accept twice", func(t *testing.T) {
		estimate := newSentEstimate(t)
		require.NoError(t, estimate.Accept())

		assert.Error(t, estimate.Accept())
	})

	t.Run("cannot accept past expiry", func(t *testing.T) {
		estimate := newSentEstimate(t)
		expired := time.Now().Add(-time.Hour)
		estimate.ExpiryDate = &expired

		err := estimate.Accept()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})
}

func TestEstimateMarkExpired(t *testing.T) {
	t.Run("expires sent estimate past expiry date", func(t *testing.T) {
		estimate := newSentEstimate(t)
		expiry := time.Now().Add(-time.Minute)
		estimate.ExpiryDate = &expiry

		require.NoError(t, estimate.MarkExpired(time.Now()))

		assert.Equal(t, EstimateStatusExpired, estimate.Status)
	})

	t.Run("rejects estimate still within validity", func(t *testing.T) {
		estimate := newSentEstimate(t)
		expiry := time.Now().Add(time.Hour)
		estimate.ExpiryDate = &expiry

		assert.Error(t, estimate.MarkExpired(time.Now()))
	})

	t.Run("rejects non-sent estimate", func(t *testing.T) {
		estimate := newTestEstimate(t)

		assert.Error(t, estimate.MarkExpired(time.Now()))
	})
}

func TestEstimateConvertToInvoice(t *testing.T) {
	t.Run("copies items and tax rate", func(t *testing.T) {
		estimate := newTestEstimate(t)
		require.NoError(t, estimate.AddItem("Labor", decimal.NewFromInt(8), decimal.NewFromInt(75)))
		require.NoError(t, estimate.AddItem("Materials", decimal.NewFromInt(1), decimal.NewFromInt(200)))
		require.NoError(t, estimate.SetTaxRate(decimal.NewFromInt(10)))
		require.NoError(t, estimate.Send())
		require.NoError(t, estimate.Accept())

		invoice, err := estimate.ConvertToInvoice("INV-000009")

		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusDraft, invoice.Status)
		assert.Equal(t, estimate.TenantID, invoice.TenantID)
		assert.Equal(t, estimate.ClientID, invoice.ClientID)
		require.NotNil(t, invoice.EstimateID)
		assert.Equal(t, estimate.ID, *invoice.EstimateID)
		assert.Len(t, invoice.Items, 2)
		assert.True(t, invoice.Subtotal.Equal(estimate.Subtotal))
		assert.True(t, invoice.Total.Equal(estimate.Total))
	})

	t.Run("rejects unaccepted estimate", func(t *testing.T) {
		estimate := newSentEstimate(t)

		invoice, err := estimate.ConvertToInvoice("INV-000010")

		assert.Error(t, err)
		assert.Nil(t, invoice)
	})
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-000042", FormatNumber(DocumentKindInvoice, 42))
	assert.Equal(t, "EST-000001", FormatNumber(DocumentKindEstimate, 1))
	assert.Equal(t, "DOC-000007", FormatNumber(DocumentKind("unknown"), 7))
}

func TestLineItem(t *testing.T) {
	t.Run("amount is quantity times unit price", func(t *testing.T) {
		item, err := NewLineItem("Filter", decimal.NewFromInt(3), decimal.NewFromFloat(12.5))

		require.NoError(t, err)
		assert.True(t, item.Amount.Equal(decimal.NewFromFloat(37.5)))
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewLineItem("", decimal.NewFromInt(1), decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		_, err := NewLineItem("Filter", decimal.NewFromInt(1), decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("update recomputes amount", func(t *testing.T) {
		item, err := NewLineItem("Filter", decimal.NewFromInt(1), decimal.NewFromInt(10))
		require.NoError(t, err)

		require.NoError(t, item.Update("Filter XL", decimal.NewFromInt(2), decimal.NewFromInt(15)))

		assert.True(t, item.Amount.Equal(decimal.NewFromInt(30)))
	})
}
