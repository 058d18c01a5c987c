package intent

import (
	"testing"

	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   Intent
		wantOK bool
	}{
		{"procedure", Procedure, true},
		{" COST ", Cost, true},
		{"information", Information, true},
		{"gossip", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := Parse(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Parse(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestAll_InformationLast(t *testing.T) {
	if All[len(All)-1] != Information {
		t.Errorf("last intent = %q, want information", All[len(All)-1])
	}
}

func TestAnalysis_HasCategory(t *testing.T) {
	if (Analysis{}).HasCategory() {
		t.Error("empty category should not count")
	}
	if (Analysis{Category: "SPACE_TRAVEL"}).HasCategory() {
		t.Error("unknown category should not count")
	}
	if !(Analysis{Category: service.Health}).HasCategory() {
		t.Error("HEALTH should count")
	}
}
