package enums

import "fmt"

// ItemCategory groups grocery catalog items.
type ItemCategory string

const (
	ItemCategoryFood      ItemCategory = "food"
	ItemCategoryBeverages ItemCategory = "beverages"
	ItemCategoryCleaning  ItemCategory = "cleaning"
	ItemCategoryOther     ItemCategory = "other"
)

var validItemCategories = []ItemCategory{
	ItemCategoryFood,
	ItemCategoryBeverages,
	ItemCategoryCleaning,
	ItemCategoryOther,
}

// String implements fmt.Stringer.
func (i ItemCategory) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemCategory.
func (i ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
