package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/exchange"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/search/query"
	"github.com/kailas-cloud/khadamat/internal/domain/search/result"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

func TestSearch_ArabicTypoMatchesViaVariants(t *testing.T) {
	svc := newFixture(t, nationalID).service()

	resp, err := svc.Search(context.Background(), "بطاقه الهويه", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Contains(resp.Query.Terms(), "بطاقة التعريف") {
		t.Errorf("terms %v missing بطاقة التعريف", resp.Query.Terms())
	}
	if resp.Result.Count() != 1 {
		t.Fatalf("count = %d, want 1", resp.Result.Count())
	}
	header := strings.SplitN(resp.Text, "\n", 2)[0]
	if !strings.Contains(header, "1") {
		t.Errorf("header %q does not carry the count", header)
	}
	if !strings.Contains(resp.Text, nationalID.Name) {
		t.Errorf("response does not name the record:\n%s", resp.Text)
	}
	if resp.Direction != lang.RTL || resp.Language != lang.Arabic {
		t.Errorf("language/direction = %s/%s", resp.Language, resp.Direction)
	}
}

func TestSearch_NonsenseIsNotFoundNotError(t *testing.T) {
	svc := newFixture(t, nationalID).service()

	resp, err := svc.Search(context.Background(), "xyzzy nonsense", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result.Count() != 0 {
		t.Fatalf("count = %d, want 0", resp.Result.Count())
	}
	if !strings.HasPrefix(resp.Text, `No services found for "xyzzy nonsense".`) {
		t.Errorf("expected not-found template, got:\n%s", resp.Text)
	}
}

func TestSearch_EnglishQueryMatchesEnglishField(t *testing.T) {
	svc := newFixture(t, nationalID).service()

	resp, err := svc.Search(context.Background(), "National ID", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result.Count() != 1 {
		t.Fatalf("count = %d, want 1", resp.Result.Count())
	}
	if !strings.Contains(resp.Text, nationalID.NameEn) {
		t.Errorf("response does not name the record:\n%s", resp.Text)
	}
	if resp.Direction != lang.LTR {
		t.Errorf("direction = %s, want ltr", resp.Direction)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newFixture(t, nationalID).service()

	resp, err := svc.Search(context.Background(), "", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Query.Normalized() != "" {
		t.Errorf("normalized = %q", resp.Query.Normalized())
	}
	if terms := resp.Query.Terms(); len(terms) != 1 || terms[0] != "" {
		t.Errorf("terms = %q, want [\"\"]", terms)
	}
	if resp.Result.Count() != 0 {
		t.Errorf("count = %d, want 0", resp.Result.Count())
	}
	if !strings.HasPrefix(resp.Text, "No services found") {
		t.Errorf("expected not-found template, got:\n%s", resp.Text)
	}
}

func TestSearch_InactiveRecordExcluded(t *testing.T) {
	inactive := service.Record{
		ID:       "svc-retired",
		NameEn:   "Paper Passport Renewal",
		Category: service.CivilStatus,
		IsActive: false,
	}
	svc := newFixture(t, inactive).service()

	resp, err := svc.Search(context.Background(), "Paper Passport Renewal", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result.Count() != 0 {
		t.Errorf("inactive record returned: %v", resp.Result.IDs())
	}
}

func TestSearch_DirectionFollowsScript(t *testing.T) {
	svc := newFixture(t, nationalID).service()

	ar, err := svc.Search(context.Background(), "جواز السفر", Options{})
	if err != nil {
		t.Fatal(err)
	}
	en, err := svc.Search(context.Background(), "passport", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if ar.Direction != lang.RTL {
		t.Errorf("arabic direction = %s", ar.Direction)
	}
	if en.Direction != lang.LTR {
		t.Errorf("english direction = %s", en.Direction)
	}
}

func TestSearch_QueryTooLong(t *testing.T) {
	svc := newFixture(t).service()

	_, err := svc.Search(context.Background(), strings.Repeat("a", 1001), Options{})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_Statistics(t *testing.T) {
	online := service.Record{
		ID: "svc-2", NameEn: "Online Tax Filing", Category: service.Business,
		IsOnline: true, IsActive: true,
	}
	svc := newFixture(t, nationalID, online).service()

	resp, err := svc.Search(context.Background(), "إحصائيات", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Stats == nil {
		t.Fatal("expected statistics response")
	}
	if resp.Stats.Total != 2 || resp.Stats.Online != 1 {
		t.Errorf("stats = %+v", *resp.Stats)
	}
	if !strings.HasPrefix(resp.Text, "إحصائيات دليل الخدمات:") {
		t.Errorf("expected arabic stats template, got:\n%s", resp.Text)
	}
}

func TestSearch_Narrative(t *testing.T) {
	f := newFixture(t, nationalID)
	completer := &mockCompleter{
		completeFn: func(context.Context, domain.CompletionRequest) (domain.Completion, error) {
			return domain.Completion{Text: "Visit your civil registry office with your birth certificate."}, nil
		},
	}
	f.deps.Completer = completer
	svc := f.service()

	sel := domain.Selection{Provider: "openai", Model: "gpt-4o-mini"}
	resp, err := svc.Search(context.Background(), "National ID", Options{Narrative: true, Selection: sel})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Narrative || !strings.HasPrefix(resp.Text, "Visit your civil registry") {
		t.Errorf("narrative not used: %q", resp.Text)
	}
	if len(completer.requests) != 1 {
		t.Fatalf("completer called %d times", len(completer.requests))
	}
	req := completer.requests[0]
	if req.Selection != sel {
		t.Errorf("selection = %+v", req.Selection)
	}
	if !strings.Contains(req.Context, nationalID.NameEn) {
		t.Errorf("context lacks formatted results: %q", req.Context)
	}
	if !strings.Contains(req.SystemPrompt, "English") {
		t.Errorf("system prompt does not name the reply language: %q", req.SystemPrompt)
	}
}

func TestSearch_NarrativeFailureDegrades(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"provider error", domain.ErrCompletionProviderError},
		{"quota", domain.ErrCompletionQuotaExceeded},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nationalID)
			f.deps.Completer = &mockCompleter{
				completeFn: func(context.Context, domain.CompletionRequest) (domain.Completion, error) {
					return domain.Completion{}, tc.err
				},
			}

			resp, err := f.service().Search(context.Background(), "National ID", Options{Narrative: true})
			if err != nil {
				t.Fatalf("provider failure must not fail the search: %v", err)
			}
			if resp.Narrative {
				t.Error("narrative flag set on fallback")
			}
			if !strings.HasPrefix(resp.Text, "Found 1 services") {
				t.Errorf("expected formatted text, got:\n%s", resp.Text)
			}
		})
	}
}

func TestSearch_NarrativeNotRequested(t *testing.T) {
	f := newFixture(t, nationalID)
	completer := &mockCompleter{}
	f.deps.Completer = completer

	if _, err := f.service().Search(context.Background(), "National ID", Options{}); err != nil {
		t.Fatal(err)
	}
	if len(completer.requests) != 0 {
		t.Error("completer called without Narrative")
	}
}

func TestSearch_RecordsExchange(t *testing.T) {
	f := newFixture(t, nationalID)
	rec := &mockRecorder{}
	f.deps.Recorder = rec

	resp, err := f.service().Search(context.Background(), "National ID", Options{SessionID: "sess-9"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.recorded) != 1 {
		t.Fatalf("recorded %d exchanges", len(rec.recorded))
	}
	ex := rec.recorded[0]
	if ex.ID == "" || ex.ID != resp.ExchangeID {
		t.Errorf("exchange id = %q, response id = %q", ex.ID, resp.ExchangeID)
	}
	if ex.SessionID != "sess-9" || ex.Query != "National ID" || ex.Language != "en" {
		t.Errorf("exchange = %+v", ex)
	}
	if ex.Category != string(service.CivilStatus) {
		t.Errorf("category = %q", ex.Category)
	}
	if !slices.Equal(ex.ResultIDs, []string{nationalID.ID}) {
		t.Errorf("result ids = %v", ex.ResultIDs)
	}
	if ex.Answer != resp.Text {
		t.Error("answer differs from response text")
	}
}

func TestSearch_RecorderFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, nationalID)
	f.deps.Recorder = &mockRecorder{recordFn: func(context.Context, *exchange.Exchange) error {
		return errors.New("kv down")
	}}

	resp, err := f.service().Search(context.Background(), "National ID", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ExchangeID != "" {
		t.Errorf("exchange id = %q after failed record", resp.ExchangeID)
	}
	if resp.Result.Count() != 1 {
		t.Errorf("count = %d", resp.Result.Count())
	}
}

type mockMatcher struct {
	err error
}

func (m *mockMatcher) Match(context.Context, query.Query, int) (result.Result, error) {
	return result.Result{}, m.err
}

func TestSearch_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.deps.Matcher = &mockMatcher{err: fmt.Errorf("find records: %w: %w", domain.ErrStoreUnavailable, errors.New("conn refused"))}

	_, err := f.service().Search(context.Background(), "passport", Options{})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSearch_MultiCategoryQueryRunsUnfiltered(t *testing.T) {
	workPermit := service.Record{
		ID: "employment-work-permit", Name: "رخصة عمل للأجانب", NameEn: "Work Permit for Foreign Nationals",
		Category: service.Employment, IsActive: true,
	}
	passport := service.Record{
		ID: "civil-passport", Name: "جواز السفر", NameEn: "Passport Issuance",
		Category: service.CivilStatus, IsActive: true,
	}
	svc := newFixture(t, workPermit, passport).service()

	for _, raw := range []string{"work permit passport", "رخصة عمل جواز السفر"} {
		t.Run(raw, func(t *testing.T) {
			resp, err := svc.Search(context.Background(), raw, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cat := resp.Query.Category(); cat != "" {
				t.Errorf("category = %q, want none for an ambiguous query", cat)
			}
			ids := resp.Result.IDs()
			if !slices.Contains(ids, workPermit.ID) || !slices.Contains(ids, passport.ID) {
				t.Errorf("ids = %v, want both records", ids)
			}
		})
	}
}
