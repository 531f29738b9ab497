package enums

import "fmt"

// InvoiceStatus tracks the lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var validInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPending,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

// String implements fmt.Stringer.
func (i InvoiceStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InvoiceStatus.
func (i InvoiceStatus) IsValid() bool {
	for _, candidate := range validInvoiceStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (i InvoiceStatus) IsTerminal() bool {
	return i == InvoiceStatusPaid || i == InvoiceStatusCancelled
}

// ParseInvoiceStatus converts raw input into an InvoiceStatus.
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	for _, candidate := range validInvoiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice status %q", value)
}

// InvoicePaymentMethod is how an invoice was settled.
type InvoicePaymentMethod string

const (
	InvoicePaymentMethodCash         InvoicePaymentMethod = "cash"
	InvoicePaymentMethodCard         InvoicePaymentMethod = "card"
	InvoicePaymentMethodBankTransfer InvoicePaymentMethod = "bank_transfer"
)

var validInvoicePaymentMethods = []InvoicePaymentMethod{
	InvoicePaymentMethodCash,
	InvoicePaymentMethodCard,
	InvoicePaymentMethodBankTransfer,
}

// String implements fmt.Stringer.
func (i InvoicePaymentMethod) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InvoicePaymentMethod.
func (i InvoicePaymentMethod) IsValid() bool {
	for _, candidate := range validInvoicePaymentMethods {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInvoicePaymentMethod converts raw input into an InvoicePaymentMethod.
func ParseInvoicePaymentMethod(value string) (InvoicePaymentMethod, error) {
	for _, candidate := range validInvoicePaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice payment method %q", value)
}
