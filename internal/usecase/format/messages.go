package format

import (
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// messages is one language's template set.
type messages struct {
	header       string // count, query
	notFound     string // query
	tryThese     string
	statsHint    string
	followUp     string
	notSpecified string
	available    string

	category     string
	description  string
	requirements string
	fee          string
	duration     string
	office       string
	link         string

	searchFailed string

	statsTitle    string
	statsTotal    string
	statsActive   string
	statsOnline   string
	statsCategory string

	categories map[service.Category]string
}

var catalog = map[lang.Language]*messages{
	lang.Arabic: {
		header:       "تم العثور على %d خدمة متعلقة بـ \"%s\":",
		notFound:     "لم يتم العثور على خدمات تطابق \"%s\".",
		tryThese:     "جرّب إحدى عمليات البحث التالية:",
		statsHint:    "يمكنك أيضًا طلب \"إحصائيات\" لمعرفة الخدمات المتوفرة.",
		followUp:     "هل تريد المزيد من التفاصيل؟ اسأل عن خدمة محددة.",
		notSpecified: "غير محدد",
		available:    "✓ متاحة عبر الإنترنت",
		category:     "الفئة",
		description:  "الوصف",
		requirements: "الوثائق المطلوبة",
		fee:          "الرسوم",
		duration:     "المدة",
		office:       "المكتب",
		link:         "الرابط",
		searchFailed: "تعذر إجراء البحث، يرجى المحاولة مرة أخرى.",

		statsTitle:    "إحصائيات دليل الخدمات:",
		statsTotal:    "إجمالي الخدمات",
		statsActive:   "الخدمات النشطة",
		statsOnline:   "متاحة عبر الإنترنت",
		statsCategory: "حسب الفئة:",

		categories: map[service.Category]string{
			service.CivilStatus:    "الحالة المدنية",
			service.Employment:     "التشغيل",
			service.Business:       "الأعمال",
			service.Education:      "التعليم",
			service.Health:         "الصحة",
			service.Housing:        "السكن",
			service.Transportation: "النقل",
			service.SocialSecurity: "الضمان الاجتماعي",
			service.Technology:     "الخدمات الرقمية",
			service.Other:          "أخرى",
		},
	},
	lang.English: {
		header:       "Found %d services related to \"%s\":",
		notFound:     "No services found for \"%s\".",
		tryThese:     "Try one of these searches:",
		statsHint:    "You can also ask for \"statistics\" to see what the catalog covers.",
		followUp:     "Want more detail? Ask about a specific service.",
		notSpecified: "Not specified",
		available:    "✓ Available online",
		category:     "Category",
		description:  "Description",
		requirements: "Requirements",
		fee:          "Fee",
		duration:     "Duration",
		office:       "Office",
		link:         "Link",
		searchFailed: "Search failed, please try again.",

		statsTitle:    "Service catalog statistics:",
		statsTotal:    "Total services",
		statsActive:   "Active services",
		statsOnline:   "Available online",
		statsCategory: "By category:",

		categories: map[service.Category]string{
			service.CivilStatus:    "Civil status",
			service.Employment:     "Employment",
			service.Business:       "Business",
			service.Education:      "Education",
			service.Health:         "Health",
			service.Housing:        "Housing",
			service.Transportation: "Transportation",
			service.SocialSecurity: "Social security",
			service.Technology:     "Digital services",
			service.Other:          "Other",
		},
	},
	lang.French: {
		header:       "%d services trouvés pour « %s » :",
		notFound:     "Aucun service trouvé pour « %s ».",
		tryThese:     "Essayez l'une de ces recherches :",
		statsHint:    "Vous pouvez aussi demander les « statistiques » du catalogue.",
		followUp:     "Besoin de plus de détails ? Posez une question sur un service précis.",
		notSpecified: "Non spécifié",
		available:    "✓ Disponible en ligne",
		category:     "Catégorie",
		description:  "Description",
		requirements: "Pièces requises",
		fee:          "Frais",
		duration:     "Délai",
		office:       "Bureau",
		link:         "Lien",
		searchFailed: "La recherche a échoué, veuillez réessayer.",

		statsTitle:    "Statistiques du catalogue :",
		statsTotal:    "Total des services",
		statsActive:   "Services actifs",
		statsOnline:   "Disponibles en ligne",
		statsCategory: "Par catégorie :",

		categories: map[service.Category]string{
			service.CivilStatus:    "État civil",
			service.Employment:     "Emploi",
			service.Business:       "Entreprises",
			service.Education:      "Éducation",
			service.Health:         "Santé",
			service.Housing:        "Logement",
			service.Transportation: "Transport",
			service.SocialSecurity: "Sécurité sociale",
			service.Technology:     "Services numériques",
			service.Other:          "Autre",
		},
	},
}

// notSpecifiedFees are fee values that mean "no information".
var notSpecifiedFees = []string{
	"not specified", "unspecified", "n/a", "-",
	"غير محدد", "غير محددة",
	"non spécifié", "non specifie", "non précisé",
}

// templateLanguage maps a detected language onto a template set.
// Mixed text uses the Arabic templates; unknown values use English.
func templateLanguage(l lang.Language) lang.Language {
	switch l {
	case lang.Arabic, lang.Mixed:
		return lang.Arabic
	case lang.French:
		return lang.French
	default:
		return lang.English
	}
}

func messagesFor(l lang.Language) *messages {
	return catalog[templateLanguage(l)]
}

// SearchFailed returns the localized message shown when the record store is unavailable.
func SearchFailed(l lang.Language) string {
	return messagesFor(l).searchFailed
}

// CategoryName returns the localized display name of a category.
func CategoryName(c service.Category, l lang.Language) string {
	m := messagesFor(l)
	if name, ok := m.categories[c]; ok {
		return name
	}
	return m.categories[service.Other]
}
