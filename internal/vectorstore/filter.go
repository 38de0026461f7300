package vectorstore

import "strings"

// Filter operators derived from key suffixes.
const (
	OpEqual    = "eq"
	OpContains = "contains"
	OpGTE      = "gte"
	OpLTE      = "lte"
)

// Condition is one parsed filter clause.
type Condition struct {
	Field string
	Op    string
	Value string
}

// ParseFilter turns suffix-operator keys into conditions. Contains keys may
// carry a numeric index ("person_contains_0") so several clauses on the
// same field can coexist in one map.
func ParseFilter(filter map[string]string) []Condition {
	if len(filter) == 0 {
		return nil
	}
	conds := make([]Condition, 0, len(filter))
	for key, value := range filter {
		switch {
		case strings.Contains(key, "_contains"):
			field := key[:strings.Index(key, "_contains")]
			conds = append(conds, Condition{Field: field, Op: OpContains, Value: value})
		case strings.HasSuffix(key, "_gte"):
			conds = append(conds, Condition{Field: strings.TrimSuffix(key, "_gte"), Op: OpGTE, Value: value})
		case strings.HasSuffix(key, "_lte"):
			conds = append(conds, Condition{Field: strings.TrimSuffix(key, "_lte"), Op: OpLTE, Value: value})
		default:
			conds = append(conds, Condition{Field: key, Op: OpEqual, Value: value})
		}
	}
	return conds
}

// MatchesFilter reports whether metadata satisfies every condition.
// Ordering comparisons are lexicographic, which is correct for the ISO
// dates the pipeline stores.
func MatchesFilter(metadata map[string]string, conds []Condition) bool {
	for _, c := range conds {
		v, ok := metadata[c.Field]
		if !ok {
			return false
		}
		switch c.Op {
		case OpContains:
			if !strings.Contains(v, c.Value) {
				return false
			}
		case OpGTE:
			if v < c.Value {
				return false
			}
		case OpLTE:
			if v > c.Value {
				return false
			}
		default:
			if v != c.Value {
				return false
			}
		}
	}
	return true
}
