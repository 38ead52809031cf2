package billing

import (
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	invoice, err := NewInvoice(uuid.New(), uuid.New(), "INV-000001")
	require.NoError(t, err)
	return invoice
}

func newSentInvoice(t *testing.T) *Invoice {
	t.Helper()
	invoice := newTestInvoice(t)
	require.NoError(t, invoice.AddItem("Labor", decimal.NewFromInt(4), decimal.NewFromInt(50)))
	require.NoError(t, invoice.Send())
	return invoice
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice with zero totals", func(t *testing.T) {
		tenantID := uuid.New()
		clientID := uuid.New()

		invoice, err := NewInvoice(tenantID, clientID, "INV-000042")

		require.NoError(t, err)
		assert.Equal(t, "INV-000042", invoice.Number)
		assert.Equal(t, tenantID, invoice.TenantID)
		assert.Equal(t, clientID, invoice.ClientID)
		assert.Equal(t, InvoiceStatusDraft, invoice.Status)
		assert.True(t, invoice.Total.IsZero())
		assert.True(t, invoice.Balance.IsZero())
		assert.Len(t, invoice.GetDomainEvents(), 1)
	})

	t.Run("fails with empty number", func(t *testing.T) {
		invoice, err := NewInvoice(uuid.New(), uuid.New(), "")

		assert.Error(t, err)
		assert.Nil(t, invoice)
	})
}

func TestInvoiceAddItem(t *testing.T) {
	t.Run("recomputes totals", func(t *testing.T) {
		invoice := newTestInvoice(t)

		require.NoError(t, invoice.AddItem("Labor", decimal.NewFromInt(4), decimal.NewFromInt(50)))
		require.NoError(t, invoice.AddItem("Parts", decimal.NewFromInt(2), decimal.NewFromFloat(19.99)))

		assert.Len(t, invoice.Items, 2)
		assert.Equal(t, 0, invoice.Items[0].Position)
		assert.Equal(t, 1, invoice.Items[1].Position)
		assert.True(t, invoice.Subtotal.Equal(decimal.NewFromFloat(239.98)))
		assert.True(t, invoice.Total.Equal(decimal.NewFromFloat(239.98)))
		assert.True(t, invoice.Balance.Equal(invoice.Total))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		invoice := newTestInvoice(t)

		err := invoice.AddItem("Labor", decimal.Zero, decimal.NewFromInt(50))

		assert.Error(t, err)
		assert.Empty(t, invoice.Items)
	})

	t.Run("rejects edits after send", func(t *testing.T) {
		invoice := newSentInvoice(t)

		err := invoice.AddItem("Extra", decimal.NewFromInt(1), decimal.NewFromInt(10))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "draft")
	})
}

func TestInvoiceTaxCalculation(t *testing.T) {
	invoice := newTestInvoice(t)
	require.NoError(t, invoice.AddItem("Labor", decimal.NewFromInt(10), decimal.NewFromInt(100)))

	require.NoError(t, invoice.SetTaxRate(decimal.NewFromFloat(7.5)))

	assert.True(t, invoice.TaxAmount.Equal(decimal.NewFromInt(75)), "tax amount: %s", invoice.TaxAmount)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(1075)))
	assert.True(t, invoice.Balance.Equal(decimal.NewFromInt(1075)))

	t.Run("rejects rate above 100", func(t *testing.T) {
		err := invoice.SetTaxRate(decimal.NewFromInt(101))
		assert.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		err := invoice.SetTaxRate(decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestInvoiceSend(t *testing.T) {
	t.Run("fails without line items", func(t *testing.T) {
		invoice := newTestInvoice(t)

		err := invoice.Send()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one line item")
	})

	t.Run("transitions draft to sent", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.AddItem("Labor", decimal.NewFromInt(1), decimal.NewFromInt(100)))

		require.NoError(t, invoice.Send())

		assert.Equal(t, InvoiceStatusSent, invoice.Status)
	})

	t.Run("cannot send twice", func(t *testing.T) {
		invoice := newSentInvoice(t)

		err := invoice.Send()

		assert.Error(t, err)
	})
}

func TestInvoiceApplyPayment(t *testing.T) {
	t.Run("partial payment keeps invoice outstanding", func(t *testing.T) {
		invoice := newSentInvoice(t) // total 200

		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(50)))

		assert.Equal(t, InvoiceStatusPartiallyPaid, invoice.Status)
		assert.True(t, invoice.AmountPaid.Equal(decimal.NewFromInt(50)))
		assert.True(t, invoice.Balance.Equal(decimal.NewFromInt(150)))
		assert.True(t, invoice.IsOutstanding())
	})

	t.Run("full payment marks invoice paid", func(t *testing.T) {
		invoice := newSentInvoice(t)

		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(200)))

		assert.Equal(t, InvoiceStatusPaid, invoice.Status)
		assert.True(t, invoice.Balance.IsZero())
		assert.False(t, invoice.IsOutstanding())
	})

	t.Run("two partial payments settle the balance", func(t *testing.T) {
		invoice := newSentInvoice(t)

		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(120)))
		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(80)))

		assert.Equal(t, InvoiceStatusPaid, invoice.Status)
		assert.True(t, invoice.Balance.IsZero())
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		invoice := newSentInvoice(t)

		err := invoice.ApplyPayment(decimal.NewFromInt(500))

		assert.ErrorIs(t, err, shared.ErrOverpayment)
		assert.True(t, invoice.AmountPaid.IsZero())
		assert.Equal(t, InvoiceStatusSent, invoice.Status)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		invoice := newSentInvoice(t)

		assert.Error(t, invoice.ApplyPayment(decimal.Zero))
		assert.Error(t, invoice.ApplyPayment(decimal.NewFromInt(-10)))
	})

	t.Run("rejects payment on draft invoice", func(t *testing.T) {
		invoice := newTestInvoice(t)

		err := invoice.ApplyPayment(decimal.NewFromInt(10))

		assert.Error(t, err)
	})

	t.Run("rejects payment on paid invoice", func(t *testing.T) {
		invoice := newSentInvoice(t)
		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(200)))

		err := invoice.ApplyPayment(decimal.NewFromInt(1))

		assert.Error(t, err)
	})
}

func TestInvoiceVoid(t *testing.T) {
	t.Run("voids unpaid invoice", func(t *testing.T) {
		invoice := newSentInvoice(t)

		require.NoError(t, invoice.Void())

		assert.Equal(t, InvoiceStatusVoid, invoice.Status)
	})

	t.Run("cannot void invoice with payments", func(t *testing.T) {
		invoice := newSentInvoice(t)
		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(50)))

		err := invoice.Void()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "recorded payments")
	})

	t.Run("cannot void twice", func(t *testing.T) {
		invoice := newSentInvoice(t)
		require.NoError(t, invoice.Void())

		assert.Error(t, invoice.Void())
	})
}

func TestInvoiceIsOverdue(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	t.Run("outstanding past due date", func(t *testing.T) {
		invoice := newSentInvoice(t)
		invoice.DueDate = &yesterday

		assert.True(t, invoice.IsOverdue(now))
	})

	t.Run("outstanding before due date", func(t *testing.T) {
		invoice := newSentInvoice(t)
		invoice.DueDate = &tomorrow

		assert.False(t, invoice.IsOverdue(now))
	})

	t.Run("paid invoice is never overdue", func(t *testing.T) {
		invoice := newSentInvoice(t)
		invoice.DueDate = &yesterday
		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(200)))

		assert.False(t, invoice.IsOverdue(now))
	})

	t.Run("no due date means never overdue", func(t *testing.T) {
		invoice := newSentInvoice(t)

		assert.False(t, invoice.IsOverdue(now))
	})
}

func TestInvoiceSetDueDate(t *testing.T) {
	invoice := newTestInvoice(t)

	t.Run("rejects due date before issue date", func(t *testing.T) {
		past := invoice.IssueDate.Add(-time.Hour)

		err := invoice.SetDueDate(&past)

		assert.Error(t, err)
	})

	t.Run("accepts future due date", func(t *testing.T) {
		future := invoice.IssueDate.Add(30 * 24 * time.Hour)

		require.NoError(t, invoice.SetDueDate(&future))
		assert.Equal(t, &future, invoice.DueDate)
	})
}
