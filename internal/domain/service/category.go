package service

import "strings"

// Category is the top-level classification bucket of a government service.
type Category string

// Category constants.
const (
	CivilStatus    Category = "CIVIL_STATUS"
	Employment     Category = "EMPLOYMENT"
	Business       Category = "BUSINESS"
	Education      Category = "EDUCATION"
	Health         Category = "HEALTH"
	Housing        Category = "HOUSING"
	Transportation Category = "TRANSPORTATION"
	SocialSecurity Category = "SOCIAL_SECURITY"
	Technology     Category = "TECHNOLOGY"
	Other          Category = "OTHER"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CivilStatus, Employment, Business, Education, Health,
	Housing, Transportation, SocialSecurity, Technology, Other,
}

// IsValid checks if the category is one of the known values.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps a free-form category value onto the enum.
// Matching is case-insensitive and tolerates dashes and spaces ("civil-status").
// Unknown values return ok=false.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	s = strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToUpper(s))
	c := Category(s)
	if !c.IsValid() {
		return "", false
	}
	return c, true
}
