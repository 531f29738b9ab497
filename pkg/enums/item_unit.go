package enums

import "fmt"

// ItemUnit is the sale unit for a catalog item.
type ItemUnit string

const (
	ItemUnitPiece ItemUnit = "piece"
	ItemUnitKg    ItemUnit = "kg"
	ItemUnitLiter ItemUnit = "liter"
	ItemUnitPack  ItemUnit = "pack"
)

var validItemUnits = []ItemUnit{
	ItemUnitPiece,
	ItemUnitKg,
	ItemUnitLiter,
	ItemUnitPack,
}

// String implements fmt.Stringer.
func (i ItemUnit) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemUnit.
func (i ItemUnit) IsValid() bool {
	for _, candidate := range validItemUnits {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemUnit converts raw input into an ItemUnit.
func ParseItemUnit(value string) (ItemUnit, error) {
	for _, candidate := range validItemUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item unit %q", value)
}
