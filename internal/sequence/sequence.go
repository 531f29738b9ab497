package sequence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
)

const (
	orderPrefix   = "ORD"
	invoicePrefix = "INV"

	orderPadWidth   = 3
	invoicePadWidth = 4
)

// Next bumps the counter for scopeKey inside tx and returns the new value.
// The upsert is atomic, so two issuers racing on the same scope always
// observe distinct values.
func Next(ctx context.Context, tx *gorm.DB, scopeKey string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction handle required")
	}
	if scopeKey == "" {
		return 0, fmt.Errorf("scope key required")
	}

	var value int64
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (scope_key, value, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (scope_key)
		DO UPDATE SET value = sequence_counters.value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING value`, scopeKey).Scan(&value).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump sequence counter")
	}
	return value, nil
}

// NextOrderNumber issues an order number scoped to the calendar day of now,
// e.g. ORD-20250614-001. The numeric part keeps growing past the pad width.
func NextOrderNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	scope := fmt.Sprintf("%s-%s", orderPrefix, now.UTC().Format("20060102"))
	value, err := Next(ctx, tx, scope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%0*d", scope, orderPadWidth, value), nil
}

// NextInvoiceNumber issues an invoice number scoped to the calendar month of
// now, e.g. INV-202506-0001.
func NextInvoiceNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	scope := fmt.Sprintf("%s-%s", invoicePrefix, now.UTC().Format("200601"))
	value, err := Next(ctx, tx, scope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%0*d", scope, invoicePadWidth, value), nil
}
