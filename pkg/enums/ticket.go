package enums

import "fmt"

// TicketStatus tracks the lifecycle of a maintenance ticket.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusCompleted  TicketStatus = "completed"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusInProgress,
	TicketStatusCompleted,
	TicketStatusCancelled,
}

// String implements fmt.Stringer.
func (t TicketStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketStatus.
func (t TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}

// TicketPriority orders maintenance tickets for triage.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

var validTicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// String implements fmt.Stringer.
func (t TicketPriority) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketPriority.
func (t TicketPriority) IsValid() bool {
	for _, candidate := range validTicketPriorities {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketPriority converts raw input into a TicketPriority.
func ParseTicketPriority(value string) (TicketPriority, error) {
	for _, candidate := range validTicketPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket priority %q", value)
}

// TicketCategory is the kind of work a maintenance ticket requests.
type TicketCategory string

const (
	TicketCategoryPlumbing   TicketCategory = "plumbing"
	TicketCategoryElectrical TicketCategory = "electrical"
	TicketCategoryFurniture  TicketCategory = "furniture"
	TicketCategoryAppliance  TicketCategory = "appliance"
	TicketCategoryOther      TicketCategory = "other"
)

var validTicketCategories = []TicketCategory{
	TicketCategoryPlumbing,
	TicketCategoryElectrical,
	TicketCategoryFurniture,
	TicketCategoryAppliance,
	TicketCategoryOther,
}

// String implements fmt.Stringer.
func (t TicketCategory) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketCategory.
func (t TicketCategory) IsValid() bool {
	for _, candidate := range validTicketCategories {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketCategory converts raw input into a TicketCategory.
func ParseTicketCategory(value string) (TicketCategory, error) {
	for _, candidate := range validTicketCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket category %q", value)
}
