package chat

import (
	"fmt"

	"github.com/kailas-cloud/khadamat/internal/domain/lang"
)

const systemPrompt = `You are a government services assistant.
Answer the citizen's question using only the services listed in the context.
Mention required documents, fees and where to apply when they are listed.
If the context lists no services, say so and suggest rephrasing the question.
Keep the answer short and reply in %s.`

var languageNames = map[lang.Language]string{
	lang.Arabic:  "Arabic",
	lang.English: "English",
	lang.French:  "French",
	lang.Mixed:   "Arabic",
}

func narrativePrompt(language lang.Language) string {
	name, ok := languageNames[language]
	if !ok {
		name = languageNames[lang.English]
	}
	return fmt.Sprintf(systemPrompt, name)
}
