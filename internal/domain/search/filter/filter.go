package filter

import "fmt"

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
// A query fans out to one condition per term and searchable field.
const MaxConditionsPerGroup = 512

// Expression is a structured filter with must/should/must_not boolean semantics.
// A record qualifies when every must holds, at least one should holds
// (if any are given) and no must_not holds.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// Op is the comparison a condition applies to its field.
type Op int

// Condition operators.
const (
	// OpContains is a case-insensitive substring test on a text field.
	OpContains Op = iota + 1
	// OpEquals is an exact match on a text field.
	OpEquals
	// OpFlag is an exact match on a boolean field.
	OpFlag
)

func (o Op) String() string {
	switch o {
	case OpContains:
		return "contains"
	case OpEquals:
		return "equals"
	case OpFlag:
		return "flag"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Condition is a single filter clause on one record field.
type Condition struct {
	key   string
	op    Op
	value string
	flag  bool
}

// NewContains creates a case-insensitive substring condition.
func NewContains(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("contains value is required for key %q", key)
	}
	return Condition{key: key, op: OpContains, value: value}, nil
}

// NewEquals creates an exact text match condition.
func NewEquals(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, op: OpEquals, value: value}, nil
}

// NewFlag creates a boolean field condition.
func NewFlag(key string, value bool) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, op: OpFlag, flag: value}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Op returns the condition operator.
func (c Condition) Op() Op { return c.op }

// Value returns the text operand of a contains or equals condition.
func (c Condition) Value() string { return c.value }

// Flag returns the operand of a flag condition.
func (c Condition) Flag() bool { return c.flag }

// IsContains reports whether this is a substring condition.
func (c Condition) IsContains() bool { return c.op == OpContains }

// IsEquals reports whether this is an exact text condition.
func (c Condition) IsEquals() bool { return c.op == OpEquals }

// IsFlag reports whether this is a boolean condition.
func (c Condition) IsFlag() bool { return c.op == OpFlag }
