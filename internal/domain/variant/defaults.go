package variant

// DefaultTable returns the built-in table covering the common service names
// in Arabic, English and French, with the misspellings users actually type.
func DefaultTable() *Table {
	return New(defaultEntries)
}

var defaultEntries = []Entry{
	// Identity documents.
	{Pattern: "بطاقه الهويه", Alternatives: []string{"بطاقة التعريف", "هوية", "بطاقة الهوية", "national id"}},
	{Pattern: "بطاقة الهوية", Alternatives: []string{"بطاقة التعريف", "هوية", "national id", "identity card"}},
	{Pattern: "بطاقة التعريف", Alternatives: []string{"بطاقة الهوية", "هوية", "national id"}},
	{Pattern: "national id", Alternatives: []string{"identity card", "بطاقة الهوية", "بطاقة التعريف", "carte d'identité"}},
	{Pattern: "identity card", Alternatives: []string{"national id", "بطاقة الهوية"}},
	{Pattern: "carte d'identité", Alternatives: []string{"carte nationale", "national id", "بطاقة الهوية"}},

	// Passports.
	{Pattern: "جواز السفر", Alternatives: []string{"جواز", "passport", "passeport"}},
	{Pattern: "جواز سفر", Alternatives: []string{"جواز السفر", "passport"}},
	{Pattern: "جوار السفر", Alternatives: []string{"جواز السفر", "passport"}},
	{Pattern: "passport", Alternatives: []string{"جواز السفر", "passeport"}},
	{Pattern: "pasport", Alternatives: []string{"passport", "جواز السفر"}},
	{Pattern: "passeport", Alternatives: []string{"passport", "جواز السفر"}},

	// Civil status certificates.
	{Pattern: "شهادة الميلاد", Alternatives: []string{"عقد الازدياد", "birth certificate", "acte de naissance"}},
	{Pattern: "شهاده الميلاد", Alternatives: []string{"شهادة الميلاد", "birth certificate"}},
	{Pattern: "birth certificate", Alternatives: []string{"شهادة الميلاد", "acte de naissance"}},
	{Pattern: "acte de naissance", Alternatives: []string{"birth certificate", "شهادة الميلاد"}},
	{Pattern: "عقد الزواج", Alternatives: []string{"marriage certificate", "acte de mariage"}},
	{Pattern: "marriage certificate", Alternatives: []string{"عقد الزواج", "acte de mariage"}},
	{Pattern: "صحيفه السوابق", Alternatives: []string{"صحيفة السوابق العدلية", "criminal record"}},
	{Pattern: "criminal record", Alternatives: []string{"casier judiciaire", "صحيفة السوابق العدلية"}},
	{Pattern: "casier judiciaire", Alternatives: []string{"criminal record", "صحيفة السوابق العدلية"}},

	// Driving and vehicles.
	{Pattern: "رخصة السياقة", Alternatives: []string{"رخصة القيادة", "driving license", "permis de conduire"}},
	{Pattern: "رخصه القياده", Alternatives: []string{"رخصة القيادة", "driving license"}},
	{Pattern: "driving licence", Alternatives: []string{"driving license", "رخصة القيادة"}},
	{Pattern: "driver license", Alternatives: []string{"driving license", "رخصة القيادة"}},
	{Pattern: "permis de conduire", Alternatives: []string{"driving license", "رخصة القيادة"}},
	{Pattern: "carte grise", Alternatives: []string{"vehicle registration", "البطاقة الرمادية"}},
	{Pattern: "vehicle registration", Alternatives: []string{"carte grise", "البطاقة الرمادية"}},

	// Business and employment.
	{Pattern: "السجل التجاري", Alternatives: []string{"commercial register", "registre de commerce", "تسجيل شركة"}},
	{Pattern: "تسجيل شركه", Alternatives: []string{"تسجيل شركة", "company registration"}},
	{Pattern: "company registration", Alternatives: []string{"commercial register", "السجل التجاري"}},
	{Pattern: "رخصة عمل", Alternatives: []string{"work permit", "permis de travail"}},
	{Pattern: "work permit", Alternatives: []string{"رخصة عمل", "permis de travail"}},
	{Pattern: "البحث عن عمل", Alternatives: []string{"job seeker", "طالب عمل", "demandeur d'emploi"}},

	// Education.
	{Pattern: "منحة دراسية", Alternatives: []string{"scholarship", "bourse d'études"}},
	{Pattern: "منحه دراسيه", Alternatives: []string{"منحة دراسية", "scholarship"}},
	{Pattern: "scholarship", Alternatives: []string{"منحة دراسية", "bourse d'études"}},
	{Pattern: "معادلة الشهادة", Alternatives: []string{"diploma equivalence", "équivalence de diplôme"}},
	{Pattern: "diploma equivalence", Alternatives: []string{"معادلة الشهادة", "équivalence de diplôme"}},

	// Health, social security and housing.
	{Pattern: "التأمين الصحي", Alternatives: []string{"health insurance", "assurance maladie"}},
	{Pattern: "health insurance", Alternatives: []string{"التأمين الصحي", "assurance maladie"}},
	{Pattern: "الضمان الاجتماعي", Alternatives: []string{"social security", "sécurité sociale"}},
	{Pattern: "social security", Alternatives: []string{"الضمان الاجتماعي", "sécurité sociale"}},
	{Pattern: "سكن اجتماعي", Alternatives: []string{"social housing", "logement social"}},
	{Pattern: "social housing", Alternatives: []string{"سكن اجتماعي", "logement social"}},

	// Digital services.
	{Pattern: "التوقيع الالكتروني", Alternatives: []string{"التوقيع الإلكتروني", "electronic signature"}},
	{Pattern: "e-signature", Alternatives: []string{"electronic signature", "التوقيع الإلكتروني"}},
}
