package record

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// store is the consumer interface for catalog records (ISP).
type store interface {
	FindRecords(ctx context.Context, q *db.RecordQuery) ([]db.RecordRow, error)
	UpsertRecords(ctx context.Context, rows []db.RecordRow) error
	SetActive(ctx context.Context, id string, active bool) error
	Stats(ctx context.Context) (*db.Stats, error)
}

// Repo converts store rows into validated service records.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates a record repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// Find returns up to limit records matching filters in order o.
// Rows that fail validation are logged and skipped.
func (r *Repo) Find(
	ctx context.Context, filters filter.Expression, limit int, o order.Order,
) ([]service.Record, error) {
	rows, err := r.store.FindRecords(ctx, &db.RecordQuery{Filters: filters, Limit: limit, Order: o})
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	out := make([]service.Record, 0, len(rows))
	for i := range rows {
		rec, err := r.toRecord(&rows[i])
		if err != nil {
			r.logger.Warn("Skipping invalid record", zap.String("id", rows[i].ID), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Upsert validates and stores records. Nothing is written if any record is invalid.
func (r *Repo) Upsert(ctx context.Context, records []service.Record) error {
	rows := make([]db.RecordRow, 0, len(records))
	for i := range records {
		rec := trimRecord(records[i])
		if err := rec.Validate(); err != nil {
			return domain.NewInvalidRecord(rec.ID, err.Error())
		}
		rows = append(rows, toRow(&rec))
	}
	if err := r.store.UpsertRecords(ctx, rows); err != nil {
		return fmt.Errorf("upsert %d records: %w", len(rows), err)
	}
	return nil
}

// SetActive enables or soft-disables a record.
func (r *Repo) SetActive(ctx context.Context, id string, active bool) error {
	if err := r.store.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("set active %s: %w", id, err)
	}
	return nil
}

// Stats returns catalog counters. Unknown stored categories count as OTHER.
func (r *Repo) Stats(ctx context.Context) (service.Stats, error) {
	st, err := r.store.Stats(ctx)
	if err != nil {
		return service.Stats{}, fmt.Errorf("stats: %w", err)
	}

	out := service.Stats{
		Total:      st.Total,
		Active:     st.Active,
		Online:     st.Online,
		ByCategory: make(map[service.Category]int, len(st.ByCategory)),
	}
	for raw, n := range st.ByCategory {
		cat, ok := service.ParseCategory(raw)
		if !ok {
			cat = service.Other
		}
		out.ByCategory[cat] += n
	}
	return out, nil
}

func (r *Repo) toRecord(row *db.RecordRow) (service.Record, error) {
	cat, ok := service.ParseCategory(row.Category)
	if !ok {
		r.logger.Warn("Unknown category, using OTHER",
			zap.String("id", row.ID), zap.String("category", row.Category))
		cat = service.Other
	}

	rec := trimRecord(service.Record{
		ID:             row.ID,
		Name:           row.Name,
		NameEn:         row.NameEn,
		NameFr:         row.NameFr,
		Description:    row.Description,
		DescriptionEn:  row.DescriptionEn,
		DescriptionFr:  row.DescriptionFr,
		Category:       cat,
		Subcategory:    row.Subcategory,
		SubcategoryEn:  row.SubcategoryEn,
		Requirements:   row.Requirements,
		RequirementsEn: row.RequirementsEn,
		Process:        row.Process,
		ProcessEn:      row.ProcessEn,
		Fee:            row.Fee,
		Duration:       row.Duration,
		ProcessingTime: row.ProcessingTime,
		Office:         row.Office,
		ContactInfo:    row.ContactInfo,
		IsOnline:       row.IsOnline,
		OnlineURL:      row.OnlineURL,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	})
	if err := rec.Validate(); err != nil {
		return service.Record{}, domain.NewInvalidRecord(row.ID, err.Error())
	}
	return rec, nil
}

func toRow(rec *service.Record) db.RecordRow {
	return db.RecordRow{
		ID:             rec.ID,
		Name:           rec.Name,
		NameEn:         rec.NameEn,
		NameFr:         rec.NameFr,
		Description:    rec.Description,
		DescriptionEn:  rec.DescriptionEn,
		DescriptionFr:  rec.DescriptionFr,
		Category:       string(rec.Category),
		Subcategory:    rec.Subcategory,
		SubcategoryEn:  rec.SubcategoryEn,
		Requirements:   rec.Requirements,
		RequirementsEn: rec.RequirementsEn,
		Process:        rec.Process,
		ProcessEn:      rec.ProcessEn,
		Fee:            rec.Fee,
		Duration:       rec.Duration,
		ProcessingTime: rec.ProcessingTime,
		Office:         rec.Office,
		ContactInfo:    rec.ContactInfo,
		IsOnline:       rec.IsOnline,
		OnlineURL:      rec.OnlineURL,
		IsActive:       rec.IsActive,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func trimRecord(rec service.Record) service.Record {
	for _, s := range []*string{
		&rec.ID, &rec.Name, &rec.NameEn, &rec.NameFr,
		&rec.Description, &rec.DescriptionEn, &rec.DescriptionFr,
		&rec.Subcategory, &rec.SubcategoryEn,
		&rec.Fee, &rec.Duration, &rec.ProcessingTime,
		&rec.Office, &rec.ContactInfo, &rec.OnlineURL,
	} {
		*s = strings.TrimSpace(*s)
	}
	rec.Requirements = trimList(rec.Requirements)
	rec.RequirementsEn = trimList(rec.RequirementsEn)
	rec.Process = trimList(rec.Process)
	rec.ProcessEn = trimList(rec.ProcessEn)
	return rec
}

func trimList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
