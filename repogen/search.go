package repogen

import (
	"strings"

	"github.com/uptrace/bun"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into an ILIKE pattern matching it as a literal substring.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// applySearch keeps rows where any search column contains term verbatim, ignoring case.
// Surrounding spaces are part of the term. An empty term matches everything.
func (r *PgReadOnlyRepo[E]) applySearch(q *bun.SelectQuery, term string) *bun.SelectQuery {
	if term == "" || len(r.spec.SearchColumns) == 0 {
		return q
	}

	pattern := likePattern(term)
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, column := range r.spec.SearchColumns {
			q = q.WhereOr(column+" ILIKE ?", pattern)
		}
		return q
	})
}
