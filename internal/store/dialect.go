package store

import (
	"math"
	"strconv"
	"strings"
)

type affinity int

const (
	affinityText affinity = iota
	affinityInteger
	affinityReal
)

type dialect struct {
	name  string
	quote byte
	types map[affinity]string
}

var (
	sqliteDialect = dialect{
		name:  driverSQLite,
		quote: '"',
		types: map[affinity]string{
			affinityText:    "TEXT",
			affinityInteger: "INTEGER",
			affinityReal:    "REAL",
		},
	}
	mysqlDialect = dialect{
		name:  driverMySQL,
		quote: '`',
		types: map[affinity]string{
			affinityText:    "LONGTEXT",
			affinityInteger: "BIGINT",
			affinityReal:    "DOUBLE",
		},
	}
)

// quoteIdent wraps an identifier in the dialect's quote character, doubling
// any embedded quotes.
func (d dialect) quoteIdent(name string) string {
	q := string(d.quote)
	return q + strings.ReplaceAll(name, q, q+q) + q
}

func (d dialect) columnType(a affinity) string {
	if t, ok := d.types[a]; ok {
		return t
	}
	return d.types[affinityText]
}

func parseInteger(value string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return n, err == nil
}

func parseReal(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// narrow folds the affinity of one more value into the column affinity
// observed so far.
func narrow(current affinity, seen bool, value string) affinity {
	switch {
	case seen && current == affinityText:
		return affinityText
	case (!seen || current == affinityInteger) && isInteger(value):
		return affinityInteger
	case isReal(value):
		return affinityReal
	default:
		return affinityText
	}
}

func isInteger(value string) bool {
	_, ok := parseInteger(value)
	return ok
}

func isReal(value string) bool {
	_, ok := parseReal(value)
	return ok
}
