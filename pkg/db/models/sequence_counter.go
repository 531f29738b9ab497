package models

import "time"

// SequenceCounter holds the last issued value for a document number scope,
// e.g. "ORD-20250614" or "INV-202506". Rows are bumped with an atomic upsert
// so concurrent issuers never observe the same value.
type SequenceCounter struct {
	ScopeKey  string    `gorm:"column:scope_key;primaryKey"`
	Value     int64     `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
