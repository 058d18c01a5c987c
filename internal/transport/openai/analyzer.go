package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// Analyzer asks a completion model for a structured query analysis.
type Analyzer struct {
	completer domain.Completer
	selection domain.Selection
	prompt    string
}

// NewAnalyzer creates an analyzer. An empty selection uses the completer's defaults.
func NewAnalyzer(completer domain.Completer, sel domain.Selection) *Analyzer {
	return &Analyzer{completer: completer, selection: sel, prompt: analyzerPrompt()}
}

type analysisJSON struct {
	Intent   string `json:"intent"`
	Category string `json:"category"`
	Urgency  string `json:"urgency"`
}

// Analyze returns the model's analysis. Values outside the known enums are left
// for the caller to sanitize.
func (a *Analyzer) Analyze(ctx context.Context, query string, language lang.Language) (intent.Analysis, error) {
	res, err := a.completer.Complete(ctx, domain.CompletionRequest{
		Selection:    a.selection,
		SystemPrompt: a.prompt,
		UserPrompt:   fmt.Sprintf("language: %s\nquery: %s", language, query),
		JSON:         true,
	})
	if err != nil {
		return intent.Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	var out analysisJSON
	if err := json.Unmarshal([]byte(res.Text), &out); err != nil {
		return intent.Analysis{}, fmt.Errorf("decode analysis: %w: %w", domain.ErrCompletionProviderError, err)
	}

	an := intent.Analysis{
		Intent:  intent.Intent(strings.ToLower(strings.TrimSpace(out.Intent))),
		Urgency: intent.Urgency(strings.ToLower(strings.TrimSpace(out.Urgency))),
		Source:  intent.SourceProvider,
	}
	if cat, ok := service.ParseCategory(out.Category); ok {
		an.Category = cat
	}
	return an, nil
}

func analyzerPrompt() string {
	intents := make([]string, len(intent.All))
	for i, v := range intent.All {
		intents[i] = string(v)
	}
	categories := make([]string, len(service.Categories))
	for i, c := range service.Categories {
		categories[i] = string(c)
	}

	return "Classify a citizen's question about government services.\n" +
		"Reply with a JSON object with the keys intent, category and urgency.\n" +
		"intent is one of: " + strings.Join(intents, ", ") + ".\n" +
		"category is one of: " + strings.Join(categories, ", ") + ", or empty when unclear.\n" +
		"urgency is high or normal."
}
