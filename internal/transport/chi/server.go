package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/search/query"
	domusage "github.com/kailas-cloud/khadamat/internal/domain/usage"
	logpkg "github.com/kailas-cloud/khadamat/internal/logger"
	"github.com/kailas-cloud/khadamat/internal/metrics"
	chatuc "github.com/kailas-cloud/khadamat/internal/usecase/chat"
	"github.com/kailas-cloud/khadamat/internal/usecase/format"
	healthuc "github.com/kailas-cloud/khadamat/internal/usecase/health"
	historyuc "github.com/kailas-cloud/khadamat/internal/usecase/history"
	usageuc "github.com/kailas-cloud/khadamat/internal/usecase/usage"
)

const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
// language is the detected language of the failed query.
type errorHandler func(w http.ResponseWriter, err error, language lang.Language) bool

// Server serves the lookup API.
type Server struct {
	chat          *chatuc.Service
	stats         chatuc.StatsReader
	usage         *usageuc.Service
	history       *historyuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. history is nil when exchanges are not recorded.
func NewServer(
	chat *chatuc.Service,
	stats chatuc.StatsReader,
	usage *usageuc.Service,
	history *historyuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{chat: chat, stats: stats, usage: usage, history: history, health: health, logger: logger}
	s.errorHandlers = []errorHandler{
		storeUnavailableHandler,
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrCompletionQuotaExceeded, http.StatusPaymentRequired, ErrorCodeQuotaExceeded),
		sentinelHandler(domain.ErrUnknownProvider, http.StatusBadRequest, ErrorCodeUnknownProvider),
		sentinelHandler(domain.ErrCompletionDisabled, http.StatusNotImplemented, ErrorCodeCompletionDisabled),
		sentinelHandler(domain.ErrCompletionProviderError, http.StatusBadGateway, ErrorCodeProviderError),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Post("/v1/search", s.Search)
	r.Post("/v1/chat", s.Chat)
	r.Get("/v1/stats", s.Stats)
	r.Get("/v1/usage", s.Usage)
	r.Get("/v1/exchanges/{id}", s.GetExchange)
	r.Delete("/v1/exchanges/{id}", s.DeleteExchange)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// Search handles POST /v1/search. It returns the matched records and the
// formatted text; the completion provider is never called.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateLimit(req.Limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	resp, err := s.chat.Search(r.Context(), req.Query, chatuc.Options{Limit: derefInt(req.Limit)})
	if err != nil {
		s.handleDomainError(w, err, lang.DetectLanguage(req.Query))
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFrom(&resp))
}

// Chat handles POST /v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateLimit(req.Limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	narrative := true
	if req.Narrative != nil {
		narrative = *req.Narrative
	}

	ctx, usage := domain.NewContextWithCompletionUsage(r.Context())
	if req.SessionID != "" {
		ctx = logpkg.With(ctx, zap.String("session_id", req.SessionID))
	}
	resp, err := s.chat.Search(ctx, req.Query, chatuc.Options{
		Limit:     derefInt(req.Limit),
		SessionID: req.SessionID,
		Narrative: narrative,
		Selection: domain.Selection{Provider: req.Provider, Model: req.Model},
	})
	if err != nil {
		s.handleDomainError(w, err, lang.DetectLanguage(req.Query))
		return
	}

	setCompletionHeaders(w, usage)
	writeJSON(w, http.StatusOK, chatResponseFrom(&resp))
}

// Stats handles GET /v1/stats. exchanges_today is omitted when history is off
// or its counter cannot be read.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err), lang.English)
		return
	}

	resp := statsResponseFrom(&st)
	if s.history != nil {
		if n, err := s.history.Today(r.Context()); err == nil {
			resp.ExchangesToday = &n
		} else {
			s.logger.Warn("Failed to count today's exchanges", zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetExchange handles GET /v1/exchanges/{id}.
func (s *Server) GetExchange(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotImplemented, ErrorCodeHistoryDisabled, "exchange history is not recorded")
		return
	}
	ex, err := s.history.Get(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err, lang.English)
		return
	}
	writeJSON(w, http.StatusOK, exchangeResponseFrom(&ex))
}

// DeleteExchange handles DELETE /v1/exchanges/{id}.
func (s *Server) DeleteExchange(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotImplemented, ErrorCodeHistoryDisabled, "exchange history is not recorded")
		return
	}
	if err := s.history.Delete(r.Context(), gochi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err, lang.English)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Usage handles GET /v1/usage?period=day|month.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period, ok := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "period must be day or month")
		return
	}

	reports := s.usage.GetReports(r.Context(), period)
	writeJSON(w, http.StatusOK, usageResponseFrom(period, reports))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func validateLimit(limit *int) error {
	if limit != nil && (*limit < 1 || *limit > query.MaxLimit) {
		return fmt.Errorf("limit must be between 1 and %d", query.MaxLimit)
	}
	return nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func setCompletionHeaders(w http.ResponseWriter, usage *domain.CompletionUsage) {
	if usage.Used() {
		w.Header().Set(metrics.CompletionTokensHeader, strconv.Itoa(usage.TotalTokens()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrNotFound,
		domain.ErrCompletionQuotaExceeded,
		domain.ErrUnknownProvider,
		domain.ErrCompletionDisabled,
		domain.ErrCompletionProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, _ lang.Language) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

// storeUnavailableHandler answers in the language the user wrote in.
func storeUnavailableHandler(w http.ResponseWriter, err error, language lang.Language) bool {
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		return false
	}
	writeError(w, http.StatusServiceUnavailable, ErrorCodeSearchUnavailable, format.SearchFailed(language))
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error, language lang.Language) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err, language) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
