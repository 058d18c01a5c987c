package service

import (
	"errors"
	"strings"
	"time"
)

// Record is one government-service catalog entry.
// Records are read-only on the search path and soft-disabled via IsActive.
type Record struct {
	ID string

	Name   string
	NameEn string
	NameFr string

	Description   string
	DescriptionEn string
	DescriptionFr string

	Category      Category
	Subcategory   string
	SubcategoryEn string

	Requirements   []string
	RequirementsEn []string
	Process        []string
	ProcessEn      []string

	Fee            string
	Duration       string
	ProcessingTime string
	Office         string
	ContactInfo    string

	IsOnline  bool
	OnlineURL string
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the record invariants enforced at the store boundary.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("id is required")
	}
	if r.Name == "" && r.NameEn == "" && r.NameFr == "" {
		return errors.New("at least one name is required")
	}
	if !r.Category.IsValid() {
		return errors.New("unknown category " + string(r.Category))
	}
	return nil
}

// Text returns the value of a searchable text field.
func (r *Record) Text(key string) (string, bool) {
	switch key {
	case FieldID:
		return r.ID, true
	case FieldName:
		return r.Name, true
	case FieldNameEn:
		return r.NameEn, true
	case FieldNameFr:
		return r.NameFr, true
	case FieldDescription:
		return r.Description, true
	case FieldDescriptionEn:
		return r.DescriptionEn, true
	case FieldDescriptionFr:
		return r.DescriptionFr, true
	case FieldSubcategory:
		return r.Subcategory, true
	case FieldSubcategoryEn:
		return r.SubcategoryEn, true
	case FieldCategory:
		return string(r.Category), true
	default:
		return "", false
	}
}

// Flag returns the value of a boolean field.
func (r *Record) Flag(key string) (bool, bool) {
	switch key {
	case FieldIsActive:
		return r.IsActive, true
	case FieldIsOnline:
		return r.IsOnline, true
	default:
		return false, false
	}
}
