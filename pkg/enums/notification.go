package enums

import "fmt"

// NotificationType categorizes notifications by originating module.
type NotificationType string

const (
	NotificationTypeMaintenance NotificationType = "maintenance"
	NotificationTypeInvoice     NotificationType = "invoice"
	NotificationTypeGrocery     NotificationType = "grocery"
	NotificationTypeSystem      NotificationType = "system"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeMaintenance,
	NotificationTypeInvoice,
	NotificationTypeGrocery,
	NotificationTypeSystem,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// DocumentKind identifies which entity a rendered PDF belongs to.
type DocumentKind string

const (
	DocumentKindInvoice DocumentKind = "invoice"
	DocumentKindOrder   DocumentKind = "order"
)

var validDocumentKinds = []DocumentKind{
	DocumentKindInvoice,
	DocumentKindOrder,
}

// String implements fmt.Stringer.
func (d DocumentKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentKind.
func (d DocumentKind) IsValid() bool {
	for _, candidate := range validDocumentKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentKind converts raw input into a DocumentKind.
func ParseDocumentKind(value string) (DocumentKind, error) {
	for _, candidate := range validDocumentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document kind %q", value)
}
