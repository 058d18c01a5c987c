// Package sqlfilter renders filter expressions as SQL for the relational stores.
package sqlfilter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
)

// Dialect captures the SQL differences between supported engines.
type Dialect struct {
	Name string
	// Like is the substring operator (LIKE or ILIKE).
	Like string
	// Collate is appended to text sort keys to force byte order.
	Collate     string
	placeholder func(n int) string
	flag        func(bool) any
}

// Placeholder returns the n-th (1-based) bind parameter marker.
func (d Dialect) Placeholder(n int) string { return d.placeholder(n) }

// FlagValue converts a boolean into the engine's bind value.
func (d Dialect) FlagValue(b bool) any { return d.flag(b) }

// SQLite binds with "?" and stores booleans as integers.
var SQLite = Dialect{
	Name:        "sqlite",
	Like:        "LIKE",
	placeholder: func(int) string { return "?" },
	flag: func(b bool) any {
		if b {
			return 1
		}
		return 0
	},
}

// Postgres binds with "$n" and has native booleans.
var Postgres = Dialect{
	Name:        "postgres",
	Like:        "ILIKE",
	Collate:     ` COLLATE "C"`,
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	flag:        func(b bool) any { return b },
}

// Builder accumulates bind arguments while rendering clauses.
type Builder struct {
	d    Dialect
	args []any
}

// NewBuilder creates a builder whose placeholders start at 1.
func NewBuilder(d Dialect) *Builder {
	return &Builder{d: d}
}

// Args returns the bind arguments collected so far.
func (b *Builder) Args() []any { return b.args }

// Bind adds an argument and returns its placeholder.
func (b *Builder) Bind(v any) string {
	b.args = append(b.args, v)
	return b.d.Placeholder(len(b.args))
}

// Where renders the expression as a WHERE clause. An empty expression
// renders as an empty string.
func (b *Builder) Where(e filter.Expression) (string, error) {
	if e.IsEmpty() {
		return "", nil
	}

	var parts []string

	for _, c := range e.Must() {
		s, err := b.condition(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	if len(e.Should()) > 0 {
		s, err := b.group(e.Should())
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	if len(e.MustNot()) > 0 {
		s, err := b.group(e.MustNot())
		if err != nil {
			return "", err
		}
		parts = append(parts, "NOT "+s)
	}

	return "WHERE " + strings.Join(parts, " AND "), nil
}

func (b *Builder) group(conds []filter.Condition) (string, error) {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		s, err := b.condition(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func (b *Builder) condition(c filter.Condition) (string, error) {
	switch c.Op() {
	case filter.OpContains:
		if !db.IsTextColumn(c.Key()) {
			return "", fmt.Errorf("%w: %q", db.ErrUnknownField, c.Key())
		}
		col := c.Key()
		value := c.Value()
		if fold, ok := db.FoldColumn(col); ok {
			col = fold
			value = normalize.Normalize(value)
		}
		return fmt.Sprintf(`%s %s %s ESCAPE '\'`, col, b.d.Like, b.Bind("%"+EscapeLike(value)+"%")), nil

	case filter.OpEquals:
		if !db.IsTextColumn(c.Key()) {
			return "", fmt.Errorf("%w: %q", db.ErrUnknownField, c.Key())
		}
		return c.Key() + " = " + b.Bind(c.Value()), nil

	case filter.OpFlag:
		if !db.IsFlagColumn(c.Key()) {
			return "", fmt.Errorf("%w: %q", db.ErrUnknownField, c.Key())
		}
		return c.Key() + " = " + b.Bind(b.d.FlagValue(c.Flag())), nil

	default:
		return "", fmt.Errorf("unsupported filter operator %s", c.Op())
	}
}

// OrderBy renders the ranking as an ORDER BY clause: online first, then the
// secondary order, then id.
func OrderBy(d Dialect, o order.Order) string {
	var secondary string
	switch o {
	case order.Name:
		secondary = "COALESCE(NULLIF(name, ''), NULLIF(name_en, ''), name_fr)" + d.Collate + " ASC"
	default:
		secondary = "created_at DESC"
	}
	return "ORDER BY is_online DESC, " + secondary + ", id" + d.Collate + " ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so the value matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
