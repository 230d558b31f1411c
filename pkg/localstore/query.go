package localstore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "taskdesk/pkg/errors"
)

// Op is a comparison operator in a query condition.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
)

// Condition compares one column against a value.
type Condition struct {
	Column string
	Op     Op
	Value  interface{}
}

func Eq(column string, value interface{}) Condition {
	return Condition{Column: column, Op: OpEq, Value: value}
}

func Neq(column string, value interface{}) Condition {
	return Condition{Column: column, Op: OpNeq, Value: value}
}

// Query is an explicit query specification executed in one terminal step.
// Regardless of how the value was assembled, evaluation always runs the
// same pipeline: conjunctive filters, then the Or condition, then
// ordering, then limit, then cardinality reduction.
type Query struct {
	Collection string
	Filters    []Condition
	// Or holds a raw disjunctive condition string such as
	// "and(sender_id.eq.A,receiver_id.eq.B),and(sender_id.eq.B,receiver_id.eq.A)".
	Or         string
	OrderBy    string
	Descending bool
	Limit      int
}

// Execute evaluates the query and returns all matching records.
func (s *Store) Execute(q Query) ([]Record, error) {
	records := s.GetAll(q.Collection)

	for _, cond := range q.Filters {
		records = filterRecords(records, cond)
	}

	if q.Or != "" {
		pred, err := ParseOrCondition(q.Or)
		if err != nil {
			return nil, err
		}
		var kept []Record
		for _, record := range records {
			if pred(record) {
				kept = append(kept, record)
			}
		}
		records = kept
	}

	if q.OrderBy != "" {
		column, desc := q.OrderBy, q.Descending
		sort.SliceStable(records, func(i, j int) bool {
			c := compareValues(records[i][column], records[j][column])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}

	return records, nil
}

// ExecuteSingle returns exactly one record, failing with ErrNotFound when
// the query matches nothing.
func (s *Store) ExecuteSingle(q Query) (Record, error) {
	records, err := s.Execute(q)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return records[0], nil
}

// ExecuteMaybeSingle returns the first match or nil without failing.
func (s *Store) ExecuteMaybeSingle(q Query) (Record, error) {
	records, err := s.Execute(q)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func filterRecords(records []Record, cond Condition) []Record {
	var out []Record
	for _, record := range records {
		if cond.matches(record) {
			out = append(out, record)
		}
	}
	return out
}

func (c Condition) matches(record Record) bool {
	equal := valuesEqual(record[c.Column], c.Value)
	if c.Op == OpNeq {
		return !equal
	}
	return equal
}

// ParseOrCondition parses a disjunctive condition string into a predicate.
// Grammar: comma-separated disjuncts, each either a leaf "column.op.value"
// or a conjunction "and(leaf,leaf,...)". Supported ops: eq, neq.
func ParseOrCondition(condition string) (Predicate, error) {
	disjuncts, err := splitTopLevel(condition)
	if err != nil {
		return nil, err
	}
	if len(disjuncts) == 0 {
		return nil, fmt.Errorf("empty or-condition")
	}

	var branches []Predicate
	for _, disjunct := range disjuncts {
		disjunct = strings.TrimSpace(disjunct)
		if strings.HasPrefix(disjunct, "and(") && strings.HasSuffix(disjunct, ")") {
			leaves, err := splitTopLevel(disjunct[4 : len(disjunct)-1])
			if err != nil {
				return nil, err
			}
			var conds []Condition
			for _, leaf := range leaves {
				cond, err := parseLeaf(leaf)
				if err != nil {
					return nil, err
				}
				conds = append(conds, cond)
			}
			branches = append(branches, func(record Record) bool {
				for _, cond := range conds {
					if !cond.matches(record) {
						return false
					}
				}
				return true
			})
			continue
		}
		cond, err := parseLeaf(disjunct)
		if err != nil {
			return nil, err
		}
		branches = append(branches, cond.matches)
	}

	return func(record Record) bool {
		for _, branch := range branches {
			if branch(record) {
				return true
			}
		}
		return false
	}, nil
}

func parseLeaf(leaf string) (Condition, error) {
	parts := strings.SplitN(strings.TrimSpace(leaf), ".", 3)
	if len(parts) != 3 {
		return Condition{}, fmt.Errorf("malformed condition %q", leaf)
	}
	switch Op(parts[1]) {
	case OpEq:
		return Eq(parts[0], parts[2]), nil
	case OpNeq:
		return Neq(parts[0], parts[2]), nil
	default:
		return Condition{}, fmt.Errorf("unsupported operator %q in condition %q", parts[1], leaf)
	}
}

// splitTopLevel splits on commas that are not inside parentheses.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts, nil
}

func valuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compareValues orders two column values: temporal strings compare as
// times, numbers as numbers, everything else lexically. Nil sorts first.
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		if at, err := time.Parse(time.RFC3339Nano, as); err == nil {
			if bt, err := time.Parse(time.RFC3339Nano, bs); err == nil {
				switch {
				case at.Before(bt):
					return -1
				case at.After(bt):
					return 1
				default:
					return 0
				}
			}
		}
	}

	af, aIsNum := toFloat(a)
	bf, bIsNum := toFloat(b)
	if aIsNum && bIsNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
