package service

// Field names shared by filters, SQL columns and the in-memory store.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldNameEn        = "name_en"
	FieldNameFr        = "name_fr"
	FieldDescription   = "description"
	FieldDescriptionEn = "description_en"
	FieldDescriptionFr = "description_fr"
	FieldSubcategory   = "subcategory"
	FieldSubcategoryEn = "subcategory_en"
	FieldCategory      = "category"
	FieldIsActive      = "is_active"
	FieldIsOnline      = "is_online"
)

// SearchableFields are the text fields a query term is matched against.
// Both halves of every bilingual pair are listed so either language can match.
var SearchableFields = []string{
	FieldName, FieldNameEn, FieldNameFr,
	FieldDescription, FieldDescriptionEn, FieldDescriptionFr,
	FieldSubcategory, FieldSubcategoryEn,
}

// IsTextField reports whether key names a searchable text field.
func IsTextField(key string) bool {
	for _, f := range SearchableFields {
		if f == key {
			return true
		}
	}
	return false
}

// IsFlagField reports whether key names a boolean field.
func IsFlagField(key string) bool {
	return key == FieldIsActive || key == FieldIsOnline
}
