package models

import "time"

// PropertyType classifies a property for tax rating purposes.
type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
	PropertyIndustrial  PropertyType = "industrial"
	PropertyVacant      PropertyType = "vacant"
)

// Valid reports whether the property type is one of the known types.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyResidential, PropertyCommercial, PropertyIndustrial, PropertyVacant:
		return true
	}
	return false
}

// Property is a registered taxable property. Ownership is never reassigned
// and properties are never deleted.
type Property struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Address   string       `json:"address"`
	FloorArea float64      `json:"floor_area"`
	Type      PropertyType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// PropertyWithOwner is the denormalized read model joining the owner's
// display name onto the property.
type PropertyWithOwner struct {
	Property
	OwnerName string `json:"owner_name"`
}
