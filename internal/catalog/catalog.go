// Package catalog loads the service catalog seed file.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

type seedFile struct {
	Services []seedRecord `yaml:"services"`
}

type seedRecord struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	NameEn         string   `yaml:"name_en"`
	NameFr         string   `yaml:"name_fr"`
	Description    string   `yaml:"description"`
	DescriptionEn  string   `yaml:"description_en"`
	DescriptionFr  string   `yaml:"description_fr"`
	Category       string   `yaml:"category"`
	Subcategory    string   `yaml:"subcategory"`
	SubcategoryEn  string   `yaml:"subcategory_en"`
	Requirements   []string `yaml:"requirements"`
	RequirementsEn []string `yaml:"requirements_en"`
	Process        []string `yaml:"process"`
	ProcessEn      []string `yaml:"process_en"`
	Fee            string   `yaml:"fee"`
	Duration       string   `yaml:"duration"`
	ProcessingTime string   `yaml:"processing_time"`
	Office         string   `yaml:"office"`
	ContactInfo    string   `yaml:"contact_info"`
	IsOnline       bool     `yaml:"is_online"`
	OnlineURL      string   `yaml:"online_url"`
	Active         *bool    `yaml:"is_active"`
}

// upserter is the consumer interface for seeding (ISP).
type upserter interface {
	Upsert(ctx context.Context, records []service.Record) error
}

// LoadFile reads a catalog seed file.
func LoadFile(path string) ([]service.Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	recs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return recs, nil
}

// Parse decodes seed YAML. Records default to active; an unknown category becomes OTHER.
func Parse(data []byte) ([]service.Record, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Services))
	out := make([]service.Record, 0, len(f.Services))
	for i := range f.Services {
		s := &f.Services[i]
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", s.ID)
		}
		seen[s.ID] = struct{}{}

		cat, ok := service.ParseCategory(s.Category)
		if !ok {
			cat = service.Other
		}
		active := true
		if s.Active != nil {
			active = *s.Active
		}
		out = append(out, service.Record{
			ID:             s.ID,
			Name:           s.Name,
			NameEn:         s.NameEn,
			NameFr:         s.NameFr,
			Description:    s.Description,
			DescriptionEn:  s.DescriptionEn,
			DescriptionFr:  s.DescriptionFr,
			Category:       cat,
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
			IsActive:       active,
		})
	}
	return out, nil
}

// Seed loads the file at path and upserts every record. Returns the record count.
func Seed(ctx context.Context, repo upserter, path string, logger *zap.Logger) (int, error) {
	recs, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := repo.Upsert(ctx, recs); err != nil {
		return 0, fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("Catalog seeded", zap.String("path", path), zap.Int("records", len(recs)))
	return len(recs), nil
}
