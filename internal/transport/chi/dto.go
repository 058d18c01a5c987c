package chi

import (
	"time"

	"github.com/kailas-cloud/khadamat/internal/domain/exchange"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
	domusage "github.com/kailas-cloud/khadamat/internal/domain/usage"
	"github.com/kailas-cloud/khadamat/internal/usecase/chat"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeSearchUnavailable  ErrorCode = "search_unavailable"
	ErrorCodeQuotaExceeded      ErrorCode = "completion_quota_exceeded"
	ErrorCodeProviderError      ErrorCode = "completion_provider_error"
	ErrorCodeUnknownProvider    ErrorCode = "unknown_provider"
	ErrorCodeCompletionDisabled ErrorCode = "completion_disabled"
	ErrorCodeHistoryDisabled    ErrorCode = "history_disabled"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
	Limit     *int   `json:"limit,omitempty"`
	// Narrative defaults to true.
	Narrative *bool  `json:"narrative,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
}

// ServiceItem is one matched record.
type ServiceItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	NameEn         string   `json:"name_en,omitempty"`
	NameFr         string   `json:"name_fr,omitempty"`
	Description    string   `json:"description,omitempty"`
	DescriptionEn  string   `json:"description_en,omitempty"`
	Category       string   `json:"category"`
	Requirements   []string `json:"requirements,omitempty"`
	RequirementsEn []string `json:"requirements_en,omitempty"`
	Fee            string   `json:"fee,omitempty"`
	Duration       string   `json:"duration,omitempty"`
	Office         string   `json:"office,omitempty"`
	IsOnline       bool     `json:"is_online"`
	OnlineURL      string   `json:"online_url,omitempty"`
}

// QueryAnalysis describes how the query was understood.
type QueryAnalysis struct {
	Normalized string   `json:"normalized"`
	Terms      []string `json:"terms"`
	Intent     string   `json:"intent"`
	Category   string   `json:"category,omitempty"`
	Urgency    string   `json:"urgency"`
}

// SearchResponse is the body of a successful POST /v1/search.
type SearchResponse struct {
	Language  string        `json:"language"`
	Direction string        `json:"direction"`
	Analysis  QueryAnalysis `json:"analysis"`
	Count     int           `json:"count"`
	Items     []ServiceItem `json:"items"`
	Text      string        `json:"text"`
}

// ChatResponse is the body of a successful POST /v1/chat.
type ChatResponse struct {
	Answer     string   `json:"answer"`
	Language   string   `json:"language"`
	Direction  string   `json:"direction"`
	Narrative  bool     `json:"narrative"`
	Count      int      `json:"count"`
	ServiceIDs []string `json:"service_ids"`
	ExchangeID string   `json:"exchange_id,omitempty"`
}

// StatsResponse is the body of GET /v1/stats.
type StatsResponse struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Online     int            `json:"online"`
	ByCategory map[string]int `json:"by_category"`
	// ExchangesToday counts chat exchanges recorded on the current UTC day.
	ExchangesToday *int64 `json:"exchanges_today,omitempty"`
}

// ExchangeResponse is the body of GET /v1/exchanges/{id}.
type ExchangeResponse struct {
	ID         string   `json:"id"`
	SessionID  string   `json:"session_id,omitempty"`
	Query      string   `json:"query"`
	Language   string   `json:"language"`
	Intent     string   `json:"intent"`
	Category   string   `json:"category,omitempty"`
	ServiceIDs []string `json:"service_ids"`
	Answer     string   `json:"answer"`
	Provider   string   `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
	CreatedAt  string   `json:"created_at"`
}

// ProviderUsage is one provider's token usage for the requested period.
type ProviderUsage struct {
	Provider        string `json:"provider"`
	TokensUsed      int64  `json:"tokens_used"`
	TokensLimit     int64  `json:"tokens_limit"`
	TokensRemaining int64  `json:"tokens_remaining"`
	Unlimited       bool   `json:"unlimited"`
	Exhausted       bool   `json:"exhausted"`
	ResetsAt        string `json:"resets_at"`
}

// UsageResponse is the body of GET /v1/usage.
type UsageResponse struct {
	Period      string          `json:"period"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Providers   []ProviderUsage `json:"providers"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchResponseFrom(resp *chat.Response) SearchResponse {
	q := resp.Query
	records := resp.Result.Records()
	items := make([]ServiceItem, len(records))
	for i := range records {
		items[i] = serviceItemFrom(&records[i])
	}
	return SearchResponse{
		Language:  string(resp.Language),
		Direction: string(resp.Direction),
		Analysis: QueryAnalysis{
			Normalized: q.Normalized(),
			Terms:      q.Terms(),
			Intent:     string(q.Intent()),
			Category:   string(q.Category()),
			Urgency:    string(q.Urgency()),
		},
		Count: resp.Result.Count(),
		Items: items,
		Text:  resp.Text,
	}
}

func serviceItemFrom(r *service.Record) ServiceItem {
	return ServiceItem{
		ID:             r.ID,
		Name:           r.Name,
		NameEn:         r.NameEn,
		NameFr:         r.NameFr,
		Description:    r.Description,
		DescriptionEn:  r.DescriptionEn,
		Category:       string(r.Category),
		Requirements:   r.Requirements,
		RequirementsEn: r.RequirementsEn,
		Fee:            r.Fee,
		Duration:       r.Duration,
		Office:         r.Office,
		IsOnline:       r.IsOnline,
		OnlineURL:      r.OnlineURL,
	}
}

func chatResponseFrom(resp *chat.Response) ChatResponse {
	ids := resp.Result.IDs()
	return ChatResponse{
		Answer:     resp.Text,
		Language:   string(resp.Language),
		Direction:  string(resp.Direction),
		Narrative:  resp.Narrative,
		Count:      resp.Result.Count(),
		ServiceIDs: ids,
		ExchangeID: resp.ExchangeID,
	}
}

func statsResponseFrom(st *service.Stats) StatsResponse {
	by := make(map[string]int, len(st.ByCategory))
	for c, n := range st.ByCategory {
		by[string(c)] = n
	}
	return StatsResponse{Total: st.Total, Active: st.Active, Online: st.Online, ByCategory: by}
}

func exchangeResponseFrom(ex *exchange.Exchange) ExchangeResponse {
	ids := ex.ResultIDs
	if ids == nil {
		ids = []string{}
	}
	return ExchangeResponse{
		ID:         ex.ID,
		SessionID:  ex.SessionID,
		Query:      ex.Query,
		Language:   ex.Language,
		Intent:     ex.Intent,
		Category:   ex.Category,
		ServiceIDs: ids,
		Answer:     ex.Answer,
		Provider:   ex.Provider,
		Model:      ex.Model,
		CreatedAt:  ex.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func usageResponseFrom(period domusage.Period, reports []domusage.Report) UsageResponse {
	resp := UsageResponse{Period: string(period), Providers: make([]ProviderUsage, 0, len(reports))}
	for i := range reports {
		r := &reports[i]
		if i == 0 {
			resp.PeriodStart = millisToRFC3339(r.PeriodStart())
			resp.PeriodEnd = millisToRFC3339(r.PeriodEnd())
		}
		b := r.Budget()
		resp.Providers = append(resp.Providers, ProviderUsage{
			Provider:        r.Provider(),
			TokensUsed:      r.TokensUsed(),
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			Unlimited:       b.IsUnlimited(),
			Exhausted:       b.IsExhausted(),
			ResetsAt:        millisToRFC3339(b.ResetsAt()),
		})
	}
	return resp
}

func millisToRFC3339(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
