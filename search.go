package khadamat

import (
	"github.com/kailas-cloud/khadamat/internal/domain/service"
	chatuc "github.com/kailas-cloud/khadamat/internal/usecase/chat"
)

// Service is one government service catalog entry.
type Service struct {
	ID             string
	Name           string
	NameEn         string
	NameFr         string
	Description    string
	DescriptionEn  string
	DescriptionFr  string
	Category       string
	Subcategory    string
	SubcategoryEn  string
	Requirements   []string
	RequirementsEn []string
	Process        []string
	ProcessEn      []string
	Fee            string
	Duration       string
	ProcessingTime string
	Office         string
	ContactInfo    string
	IsOnline       bool
	OnlineURL      string
	IsActive       bool
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	// Text is the answer rendered in the query language.
	Text      string
	Language  string
	Direction string
	Intent    string
	Category  string
	Terms     []string
	Services  []Service
}

// Stats are catalog counters. Active, Online and ByCategory count active services only.
type Stats struct {
	Total      int
	Active     int
	Online     int
	ByCategory map[string]int
}

func toRecord(s *Service) service.Record {
	category := service.Category(s.Category)
	if c, ok := service.ParseCategory(s.Category); ok {
		category = c
	}
	return service.Record{
		ID:             s.ID,
		Name:           s.Name,
		NameEn:         s.NameEn,
		NameFr:         s.NameFr,
		Description:    s.Description,
		DescriptionEn:  s.DescriptionEn,
		DescriptionFr:  s.DescriptionFr,
		Category:       category,
		Subcategory:    s.Subcategory,
		SubcategoryEn:  s.SubcategoryEn,
		Requirements:   s.Requirements,
		RequirementsEn: s.RequirementsEn,
		Process:        s.Process,
		ProcessEn:      s.ProcessEn,
		Fee:            s.Fee,
		Duration:       s.Duration,
		ProcessingTime: s.ProcessingTime,
		Office:         s.Office,
		ContactInfo:    s.ContactInfo,
		IsOnline:       s.IsOnline,
		OnlineURL:      s.OnlineURL,
		IsActive:       s.IsActive,
	}
}

func fromRecord(r *service.Record) Service {
	return Service{
		ID:             r.ID,
		Name:           r.Name,
		NameEn:         r.NameEn,
		NameFr:         r.NameFr,
		Description:    r.Description,
		DescriptionEn:  r.DescriptionEn,
		DescriptionFr:  r.DescriptionFr,
		Category:       string(r.Category),
		Subcategory:    r.Subcategory,
		SubcategoryEn:  r.SubcategoryEn,
		Requirements:   r.Requirements,
		RequirementsEn: r.RequirementsEn,
		Process:        r.Process,
		ProcessEn:      r.ProcessEn,
		Fee:            r.Fee,
		Duration:       r.Duration,
		ProcessingTime: r.ProcessingTime,
		Office:         r.Office,
		ContactInfo:    r.ContactInfo,
		IsOnline:       r.IsOnline,
		OnlineURL:      r.OnlineURL,
		IsActive:       r.IsActive,
	}
}

func fromResponse(resp *chatuc.Response) *SearchResult {
	q := resp.Query
	records := resp.Result.Records()
	services := make([]Service, len(records))
	for i := range records {
		services[i] = fromRecord(&records[i])
	}
	return &SearchResult{
		Text:      resp.Text,
		Language:  string(resp.Language),
		Direction: string(resp.Direction),
		Intent:    string(q.Intent()),
		Category:  string(q.Category()),
		Terms:     q.Terms(),
		Services:  services,
	}
}

func fromStats(st *service.Stats) Stats {
	by := make(map[string]int, len(st.ByCategory))
	for c, n := range st.ByCategory {
		by[string(c)] = n
	}
	return Stats{Total: st.Total, Active: st.Active, Online: st.Online, ByCategory: by}
}
