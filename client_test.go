package khadamat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

var idCard = Service{
	ID:          "svc-national-id",
	Name:        "استخراج بطاقة الهوية الوطنية",
	NameEn:      "National ID Card Issuance",
	Description: "إصدار بطاقة الهوية الوطنية لأول مرة",
	Category:    "civil_status",
	Fee:         "25 دينار",
	IsActive:    true,
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	if _, err := createStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_InvalidService(t *testing.T) {
	bad := idCard
	bad.Category = "SPACE_TRAVEL"
	if _, err := New(WithServices(bad)); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestNew_MissingCatalog(t *testing.T) {
	if _, err := New(WithCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, WithServices(idCard))
	ctx := context.Background()

	tests := []struct {
		name      string
		query     string
		wantLang  string
		wantDir   string
		wantFound bool
	}{
		{"arabic typo", "بطاقه الهويه", "ar", "rtl", true},
		{"english", "national id card", "en", "ltr", true},
		{"nonsense", "xyzzy qwerty", "en", "ltr", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := c.Search(ctx, tc.query, 0)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Language != tc.wantLang || res.Direction != tc.wantDir {
				t.Errorf("language/direction = %s/%s, want %s/%s", res.Language, res.Direction, tc.wantLang, tc.wantDir)
			}
			found := len(res.Services) == 1 && res.Services[0].ID == idCard.ID
			if found != tc.wantFound {
				t.Errorf("found = %v, want %v (services: %d)", found, tc.wantFound, len(res.Services))
			}
			if res.Text == "" {
				t.Error("expected rendered text")
			}
		})
	}
}

func TestClient_SearchCategoryNormalized(t *testing.T) {
	c := newTestClient(t, WithServices(idCard))

	res, err := c.Search(context.Background(), "national id card", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Services) != 1 {
		t.Fatalf("expected one service, got %d", len(res.Services))
	}
	if res.Services[0].Category != "CIVIL_STATUS" {
		t.Errorf("category = %q, want CIVIL_STATUS", res.Services[0].Category)
	}
}

func TestClient_SearchQueryTooLong(t *testing.T) {
	c := newTestClient(t)
	if _, err := c.Search(context.Background(), strings.Repeat("a", 1001), 0); err == nil {
		t.Fatal("expected error for overlong query")
	}
}

func TestClient_SetActive(t *testing.T) {
	c := newTestClient(t, WithServices(idCard))
	ctx := context.Background()

	if err := c.SetActive(ctx, idCard.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	res, err := c.Search(ctx, "national id card", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Services) != 0 {
		t.Errorf("disabled service matched: %+v", res.Services)
	}

	if err := c.SetActive(ctx, idCard.ID, true); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	res, err = c.Search(ctx, "national id card", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Services) != 1 {
		t.Errorf("re-enabled service not matched: %d services", len(res.Services))
	}

	if err := c.SetActive(ctx, "svc-missing", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestClient_Stats(t *testing.T) {
	inactive := idCard
	inactive.ID = "svc-old-id"
	inactive.IsActive = false
	online := idCard
	online.ID = "svc-online"
	online.IsOnline = true

	c := newTestClient(t, WithServices(idCard, inactive, online))

	st, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 3 || st.Active != 2 || st.Online != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.ByCategory["CIVIL_STATUS"] != 2 {
		t.Errorf("by category = %v", st.ByCategory)
	}
}

func TestClient_Seed(t *testing.T) {
	c := newTestClient(t, WithCatalogFile(filepath.Join("config", "catalog.yaml")))

	st, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total == 0 {
		t.Fatal("expected seeded services")
	}

	res, err := c.Search(context.Background(), "passport", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var ids []string
	for _, s := range res.Services {
		ids = append(ids, s.ID)
	}
	if !contains(ids, "civil-passport") {
		t.Errorf("passport search returned %v", ids)
	}
}

func TestClient_Expand(t *testing.T) {
	c := newTestClient(t)

	got := c.Expand("بطاقه الهويه")
	if len(got) == 0 || got[0] != "بطاقه الهويه" {
		t.Fatalf("expected original first, got %v", got)
	}
	if !contains(got, "بطاقة الهوية") {
		t.Errorf("expected corrected variant in %v", got)
	}
}

func TestClient_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "khadamat.db")
	c := newTestClient(t, WithSQLite(path), WithServices(idCard))

	res, err := c.Search(context.Background(), "national id card", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Services) != 1 {
		t.Fatalf("expected one service, got %d", len(res.Services))
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
