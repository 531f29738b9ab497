package enums

import "fmt"

// OrderPaymentStatus tracks whether a grocery order has been settled.
type OrderPaymentStatus string

const (
	OrderPaymentStatusPending OrderPaymentStatus = "pending"
	OrderPaymentStatusPaid    OrderPaymentStatus = "paid"
)

var validOrderPaymentStatuses = []OrderPaymentStatus{
	OrderPaymentStatusPending,
	OrderPaymentStatusPaid,
}

// String implements fmt.Stringer.
func (o OrderPaymentStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPaymentStatus.
func (o OrderPaymentStatus) IsValid() bool {
	for _, candidate := range validOrderPaymentStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderPaymentStatus converts raw input into an OrderPaymentStatus.
func ParseOrderPaymentStatus(value string) (OrderPaymentStatus, error) {
	for _, candidate := range validOrderPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order payment status %q", value)
}

// OrderPaymentMethod is how a grocery order is settled.
type OrderPaymentMethod string

const (
	OrderPaymentMethodCash       OrderPaymentMethod = "cash"
	OrderPaymentMethodRoomCharge OrderPaymentMethod = "room_charge"
)

var validOrderPaymentMethods = []OrderPaymentMethod{
	OrderPaymentMethodCash,
	OrderPaymentMethodRoomCharge,
}

// String implements fmt.Stringer.
func (o OrderPaymentMethod) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPaymentMethod.
func (o OrderPaymentMethod) IsValid() bool {
	for _, candidate := range validOrderPaymentMethods {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderPaymentMethod converts raw input into an OrderPaymentMethod.
func ParseOrderPaymentMethod(value string) (OrderPaymentMethod, error) {
	for _, candidate := range validOrderPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order payment method %q", value)
}
