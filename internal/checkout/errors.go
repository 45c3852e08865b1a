package checkout

import "fmt"

// ValidationError marks input that cannot start a checkout. No database work
// has happened when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InsufficientStockError signals that the guarded stock decrement touched
// zero rows for a variant. The surrounding transaction is rolled back.
type InsufficientStockError struct {
	VariantID uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for variant ID %d", e.VariantID)
}

// InvoiceGenerationError covers any failure to produce the invoice PDF,
// including an empty render result.
type InvoiceGenerationError struct {
	cause error
}

func (e *InvoiceGenerationError) Error() string {
	if e.cause == nil {
		return "invoice generation failed"
	}
	return fmt.Sprintf("invoice generation failed: %v", e.cause)
}

func (e *InvoiceGenerationError) Unwrap() error {
	return e.cause
}

// PersistenceError wraps database failures during the checkout transaction.
type PersistenceError struct {
	Op    string
	cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.cause
}

// NotificationError wraps a failed invoice email. Since the email is sent
// before commit, it aborts the purchase.
type NotificationError struct {
	cause error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("sending invoice email: %v", e.cause)
}

func (e *NotificationError) Unwrap() error {
	return e.cause
}
