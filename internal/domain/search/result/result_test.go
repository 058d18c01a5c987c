package result

import (
	"slices"
	"testing"

	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/search/query"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

func TestNew(t *testing.T) {
	q, err := query.New("National ID", "national id", []string{"national"}, lang.English, intent.Analysis{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	records := []service.Record{{ID: "svc-1"}, {ID: "svc-2"}}

	r := New(q, records, q.Terms())

	if r.Count() != 2 {
		t.Errorf("Count() = %d", r.Count())
	}
	if r.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if !slices.Equal(r.IDs(), []string{"svc-1", "svc-2"}) {
		t.Errorf("IDs() = %v", r.IDs())
	}
	if !slices.Equal(r.Terms(), []string{"national id", "national"}) {
		t.Errorf("Terms() = %v", r.Terms())
	}
	got := r.Query()
	if got.Normalized() != "national id" {
		t.Errorf("Query().Normalized() = %q", got.Normalized())
	}
}

func TestNew_Empty(t *testing.T) {
	r := New(query.Query{}, nil, nil)
	if r.Count() != 0 || !r.IsEmpty() || len(r.IDs()) != 0 {
		t.Errorf("empty result = %+v", r)
	}
}
