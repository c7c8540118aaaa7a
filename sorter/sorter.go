// Package sorter parses client sort strings (e.g. "name:asc,created_at:desc") into
// sorting options restricted to an allow-list and applies them to bun select queries.
package sorter

import (
	"slices"
	"strings"

	"github.com/uptrace/bun"
)

type (
	SortOpts []Opt

	SortDirection string
)

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"

	expectedPartsCount = 2
)

// MakeFromStr parses a sorting string into options. Pairs naming a field outside
// allowedFields, carrying an unknown direction or repeating an earlier field are skipped.
func MakeFromStr(sortString string, allowedFields ...string) SortOpts {
	if sortString == "" {
		return nil
	}

	var options SortOpts
	for pair := range strings.SplitSeq(sortString, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) != expectedPartsCount {
			continue
		}

		key := strings.TrimSpace(parts[0])
		if !slices.Contains(allowedFields, key) || options.Has(key) {
			continue
		}

		direction := SortDirection(strings.ToLower(strings.TrimSpace(parts[1])))
		if direction != Asc && direction != Desc {
			continue
		}

		options = append(options, Opt{F: key, D: direction})
	}

	return options
}

// Make creates SortOpts from a variadic list of Opt.
func Make(sortOptions ...Opt) SortOpts {
	return sortOptions
}

// Has reports whether field is already sorted on.
func (s SortOpts) Has(field string) bool {
	return slices.ContainsFunc(s, func(o Opt) bool { return o.F == field })
}

// Apply appends ORDER BY expressions on the query's own table, in order.
func (s SortOpts) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	for _, o := range s {
		q = q.OrderExpr("?TableAlias.? "+o.D.sql(), bun.Ident(o.F))
	}
	return q
}

// Opt represents a single sorting option, consisting of a field and a direction.
type Opt struct {
	F string        // F is the field to sort by.
	D SortDirection // D is the sorting direction (asc or desc).
}

// ToSQL converts an Opt into an SQL-compatible clause (e.g., "name ASC").
func (o Opt) ToSQL() string {
	return o.F + " " + o.D.sql()
}

func (d SortDirection) sql() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}
