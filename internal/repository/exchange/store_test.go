package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/khadamat/internal/db/memory"
	"github.com/kailas-cloud/khadamat/internal/domain"
	domexchange "github.com/kailas-cloud/khadamat/internal/domain/exchange"
)

func TestRecordAndGet(t *testing.T) {
	s := New(memory.NewStore(), time.Hour, 48*time.Hour)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	ex := domexchange.New("sess-1", "passport", now)
	ex.Language = "en"
	ex.Intent = "procedure"
	ex.ResultIDs = []string{"svc-1", "svc-2"}
	ex.Answer = "Found 2 services"

	if err := s.Record(ctx, &ex); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.Get(ctx, ex.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Query != "passport" || got.SessionID != "sess-1" || len(got.ResultIDs) != 2 {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v", got.CreatedAt)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := New(memory.NewStore(), time.Hour, 48*time.Hour)

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDailyCount(t *testing.T) {
	s := New(memory.NewStore(), time.Hour, 48*time.Hour)
	ctx := context.Background()

	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ex := domexchange.New("", "q", day.Add(time.Duration(i)*time.Hour))
		if err := s.Record(ctx, &ex); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	next := domexchange.New("", "q", day.Add(24*time.Hour))
	if err := s.Record(ctx, &next); err != nil {
		t.Fatalf("Record: %v", err)
	}

	n, err := s.DailyCount(ctx, day)
	if err != nil {
		t.Fatalf("DailyCount: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	empty, err := s.DailyCount(ctx, day.Add(-24*time.Hour))
	if err != nil || empty != 0 {
		t.Errorf("empty day = (%d, %v)", empty, err)
	}
}

func TestKeys(t *testing.T) {
	if got := exchangeKey("abc"); got != "khadamat:exchange:abc" {
		t.Errorf("exchangeKey = %q", got)
	}
	d := time.Date(2026, 1, 2, 23, 0, 0, 0, time.FixedZone("X", -3*3600))
	if got := dailyKey(d); got != "khadamat:exchanges:daily:2026-01-03" {
		t.Errorf("dailyKey = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := New(memory.NewStore(), time.Hour, 48*time.Hour)
	ctx := context.Background()

	ex := domexchange.New("", "passport", time.Now())
	if err := s.Record(ctx, &ex); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Delete(ctx, ex.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, ex.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after Delete, got %v", err)
	}
	if err := s.Delete(ctx, ex.ID); err != nil {
		t.Errorf("deleting a missing exchange must succeed, got %v", err)
	}
}
