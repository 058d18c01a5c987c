package classify

import (
	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// Keywords groups keyword phrases by language.
type Keywords map[lang.Language][]string

// IntentRule maps keywords onto an intent.
type IntentRule struct {
	Intent   intent.Intent
	Keywords Keywords
}

// CategoryRule maps keywords onto a category.
type CategoryRule struct {
	Category service.Category
	Keywords Keywords
}

// Rules is the keyword configuration of the rule classifier.
// Intents are evaluated in slice order and the first hit wins.
// Categories must match unambiguously: hits in two categories yield none.
type Rules struct {
	Intents    []IntentRule
	Categories []CategoryRule
	Urgent     Keywords
	Statistics Keywords
}

// DefaultRules returns the built-in Arabic, English and French rules.
func DefaultRules() Rules {
	return Rules{
		Intents: []IntentRule{
			{Intent: intent.Procedure, Keywords: Keywords{
				lang.Arabic:  {"كيف", "كيفية", "طريقة", "خطوات", "إجراءات", "اجراءات"},
				lang.English: {"how to", "how do", "how can", "steps", "procedure", "apply for"},
				lang.French:  {"comment", "étapes", "procédure", "démarche", "démarches"},
			}},
			{Intent: intent.Requirements, Keywords: Keywords{
				lang.Arabic:  {"الوثائق", "وثائق", "المطلوبة", "مستندات", "شروط", "الأوراق"},
				lang.English: {"documents", "requirements", "required", "papers", "what do i need"},
				lang.French:  {"documents", "pièces", "conditions", "dossier"},
			}},
			{Intent: intent.Cost, Keywords: Keywords{
				lang.Arabic:  {"تكلفة", "تكلفه", "رسوم", "سعر", "ثمن", "بكم"},
				lang.English: {"cost", "fee", "fees", "price", "how much"},
				lang.French:  {"coût", "prix", "frais", "tarif", "combien coûte"},
			}},
			{Intent: intent.Timeline, Keywords: Keywords{
				lang.Arabic:  {"مدة", "المدة", "متى", "كم يوم", "كم من الوقت", "وقت"},
				lang.English: {"how long", "duration", "when", "days", "time"},
				lang.French:  {"délai", "durée", "combien de temps", "quand"},
			}},
			{Intent: intent.Location, Keywords: Keywords{
				lang.Arabic:  {"أين", "اين", "فين", "مكان", "عنوان", "مكتب"},
				lang.English: {"where", "office", "address", "location"},
				lang.French:  {"où", "adresse", "bureau", "lieu"},
			}},
			{Intent: intent.Status, Keywords: Keywords{
				lang.Arabic:  {"حالة الطلب", "متابعة", "تتبع"},
				lang.English: {"application status", "status of", "track", "follow up"},
				lang.French:  {"suivi", "statut", "état de ma demande"},
			}},
			{Intent: intent.Help, Keywords: Keywords{
				lang.Arabic:  {"مساعدة", "مساعده", "ساعدني"},
				lang.English: {"help", "assist", "support"},
				lang.French:  {"aide", "aider"},
			}},
		},
		Categories: []CategoryRule{
			{Category: service.CivilStatus, Keywords: Keywords{
				lang.Arabic: {
					"جواز", "هوية", "هويه", "بطاقة التعريف", "ميلاد", "الازدياد", "زواج",
					"الحالة المدنية", "السوابق",
				},
				lang.English: {"passport", "identity", "national id", "birth", "marriage", "civil status", "criminal record"},
				lang.French:  {"passeport", "identité", "naissance", "mariage", "état civil", "casier"},
			}},
			{Category: service.SocialSecurity, Keywords: Keywords{
				lang.Arabic:  {"الضمان الاجتماعي", "تقاعد", "التقاعد", "معاش"},
				lang.English: {"social security", "pension", "retirement", "benefits"},
				lang.French:  {"sécurité sociale", "retraite", "allocation"},
			}},
			{Category: service.Employment, Keywords: Keywords{
				lang.Arabic:  {"عمل", "وظيفة", "وظيفه", "توظيف", "شغل"},
				lang.English: {"employment", "job", "work permit", "unemployment"},
				lang.French:  {"emploi", "travail", "chômage"},
			}},
			{Category: service.Business, Keywords: Keywords{
				lang.Arabic:  {"تجارة", "تجاري", "التجاري", "شركة", "شركه", "مقاولة"},
				lang.English: {"company", "business", "commercial", "trade"},
				lang.French:  {"entreprise", "société", "commerce", "commercial"},
			}},
			{Category: service.Education, Keywords: Keywords{
				lang.Arabic:  {"تعليم", "جامعة", "جامعه", "منحة", "منحه", "دراسة", "معادلة"},
				lang.English: {"education", "university", "school", "scholarship", "diploma"},
				lang.French:  {"éducation", "université", "école", "bourse", "diplôme"},
			}},
			{Category: service.Health, Keywords: Keywords{
				lang.Arabic:  {"صحة", "صحه", "الصحي", "مستشفى", "طبي"},
				lang.English: {"health", "hospital", "medical"},
				lang.French:  {"santé", "hôpital", "médical", "maladie"},
			}},
			{Category: service.Housing, Keywords: Keywords{
				lang.Arabic:  {"سكن", "إسكان", "اسكان", "منزل", "رخصة البناء"},
				lang.English: {"housing", "house", "building permit", "rental"},
				lang.French:  {"logement", "habitation", "permis de construire"},
			}},
			{Category: service.Transportation, Keywords: Keywords{
				lang.Arabic:  {"رخصة السياقة", "رخصة القيادة", "سيارة", "مركبة", "نقل"},
				lang.English: {"driving", "driver", "vehicle", "car", "transport"},
				lang.French:  {"permis de conduire", "voiture", "véhicule", "carte grise", "transport"},
			}},
			{Category: service.Technology, Keywords: Keywords{
				lang.Arabic:  {"إلكتروني", "الكتروني", "الإلكتروني", "رقمي", "توقيع"},
				lang.English: {"electronic", "digital", "e-signature"},
				lang.French:  {"électronique", "numérique", "signature"},
			}},
		},
		Urgent: Keywords{
			lang.Arabic:  {"مستعجل", "عاجل", "ضروري", "بسرعة"},
			lang.English: {"urgent", "asap", "emergency"},
			lang.French:  {"urgent", "urgente", "rapidement"},
		},
		Statistics: Keywords{
			lang.Arabic:  {"إحصائيات", "احصائيات", "إحصاءات"},
			lang.English: {"statistics", "stats"},
			lang.French:  {"statistiques"},
		},
	}
}
