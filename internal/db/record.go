package db

import (
	"time"

	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
)

// Column names shared by every record store. Filter keys use the same names.
const (
	ColID            = "id"
	ColName          = "name"
	ColNameEn        = "name_en"
	ColNameFr        = "name_fr"
	ColDescription   = "description"
	ColDescriptionEn = "description_en"
	ColDescriptionFr = "description_fr"
	ColCategory      = "category"
	ColSubcategory   = "subcategory"
	ColSubcategoryEn = "subcategory_en"
	ColIsActive      = "is_active"
	ColIsOnline      = "is_online"
)

// TextColumns are the text columns a filter may reference.
var TextColumns = []string{
	ColID, ColName, ColNameEn, ColNameFr,
	ColDescription, ColDescriptionEn, ColDescriptionFr,
	ColCategory, ColSubcategory, ColSubcategoryEn,
}

// FlagColumns are the boolean columns a filter may reference.
var FlagColumns = []string{ColIsActive, ColIsOnline}

// RecordQuery is the input for a filtered record lookup.
type RecordQuery struct {
	Filters filter.Expression
	Limit   int
	Order   order.Order
}

// RecordRow is a catalog row as stored. Rows are validated into domain
// records by the repository layer.
type RecordRow struct {
	ID             string
	Name           string
	NameEn         string
	NameFr         string
	Description    string
	DescriptionEn  string
	DescriptionFr  string
	Category       string
	Subcategory    string
	SubcategoryEn  string
	Requirements   []string
	RequirementsEn []string
	Process        []string
	ProcessEn      []string
	Fee            string
	Duration       string
	ProcessingTime string
	Office         string
	ContactInfo    string
	IsOnline       bool
	OnlineURL      string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Text returns a filterable text column value.
func (r *RecordRow) Text(col string) (string, bool) {
	switch col {
	case ColID:
		return r.ID, true
	case ColName:
		return r.Name, true
	case ColNameEn:
		return r.NameEn, true
	case ColNameFr:
		return r.NameFr, true
	case ColDescription:
		return r.Description, true
	case ColDescriptionEn:
		return r.DescriptionEn, true
	case ColDescriptionFr:
		return r.DescriptionFr, true
	case ColCategory:
		return r.Category, true
	case ColSubcategory:
		return r.Subcategory, true
	case ColSubcategoryEn:
		return r.SubcategoryEn, true
	default:
		return "", false
	}
}

// Flag returns a boolean column value.
func (r *RecordRow) Flag(col string) (bool, bool) {
	switch col {
	case ColIsActive:
		return r.IsActive, true
	case ColIsOnline:
		return r.IsOnline, true
	default:
		return false, false
	}
}

// Stats are catalog counters. Category counts cover active records only.
type Stats struct {
	Total      int
	Active     int
	Online     int
	ByCategory map[string]int
}

// FoldColumn returns the shadow column holding the normalized copy of a
// searchable text column. Substring conditions run against the shadow column
// so every store matches with the same Unicode folding.
func FoldColumn(col string) (string, bool) {
	switch col {
	case ColName, ColNameEn, ColNameFr,
		ColDescription, ColDescriptionEn, ColDescriptionFr,
		ColSubcategory, ColSubcategoryEn:
		return col + "_fold", true
	default:
		return "", false
	}
}

// IsTextColumn reports whether col is a filterable text column.
func IsTextColumn(col string) bool {
	for _, c := range TextColumns {
		if c == col {
			return true
		}
	}
	return false
}

// IsFlagColumn reports whether col is a filterable boolean column.
func IsFlagColumn(col string) bool {
	return col == ColIsActive || col == ColIsOnline
}
