// Package order defines how matched records are ranked.
//
// Online services always sort first. The secondary order is either recency
// (newest first) or name. Ties break on ID so the order is total.
package order

import (
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// Order is the secondary sort applied after online-first.
type Order string

// Order constants.
const (
	// Recent sorts newest records first.
	Recent Order = "recent"
	Name   Order = "name"
)

// Default is the secondary order used when none is configured.
const Default = Recent

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Recent || o == Name
}

// Parse maps a string onto Order. Unknown values return ok=false.
func Parse(s string) (Order, bool) {
	o := Order(strings.ToLower(strings.TrimSpace(s)))
	if !o.IsValid() {
		return "", false
	}
	return o, true
}

// Key holds the fields the order depends on, so stores can rank their own
// row types with the same comparator.
type Key struct {
	ID        string
	Name      string
	NameEn    string
	NameFr    string
	Online    bool
	CreatedAt time.Time
}

// KeyOf returns the ordering key of a record.
func KeyOf(r *service.Record) Key {
	return Key{
		ID: r.ID, Name: r.Name, NameEn: r.NameEn, NameFr: r.NameFr,
		Online: r.IsOnline, CreatedAt: r.CreatedAt,
	}
}

// SortName is the Arabic name, else English, else French.
func (k *Key) SortName() string {
	switch {
	case k.Name != "":
		return k.Name
	case k.NameEn != "":
		return k.NameEn
	default:
		return k.NameFr
	}
}

// SortName is the name a record sorts by.
func SortName(r *service.Record) string {
	k := KeyOf(r)
	return k.SortName()
}

// CompareKeys returns a negative number when a sorts before b.
func (o Order) CompareKeys(a, b *Key) int {
	if a.Online != b.Online {
		if a.Online {
			return -1
		}
		return 1
	}

	switch o {
	case Name:
		if c := strings.Compare(a.SortName(), b.SortName()); c != 0 {
			return c
		}
	default:
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
	}

	return strings.Compare(a.ID, b.ID)
}

// Compare returns a negative number when a sorts before b.
func (o Order) Compare(a, b *service.Record) int {
	ka, kb := KeyOf(a), KeyOf(b)
	return o.CompareKeys(&ka, &kb)
}

// Sort orders records in place.
func (o Order) Sort(records []service.Record) {
	slices.SortStableFunc(records, func(a, b service.Record) int {
		return o.Compare(&a, &b)
	})
}
