package search

import (
	"strings"

	"github.com/kajiwara22/sf6chapter/models"
)

// utcParamLayout matches the dataset's timestamp encoding (ISO8601
// with a literal Z), which compares correctly as a string.
const utcParamLayout = "2006-01-02T15:04:05Z"

// CompiledQuery is the output of Compile: everything the executor
// needs, with every user literal carried as a bound parameter.
type CompiledQuery struct {
	Predicates []string
	Params     []any
	Order      string
	Limit      int
}

// WhereClause joins the predicates into a WHERE clause, or returns an
// empty string when no filter is active.
func (q CompiledQuery) WhereClause() string {
	if len(q.Predicates) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.Predicates, " AND ")
}

// Compile translates filters into predicates, parameters, an order
// clause and a limit. It never touches the engine and never mutates
// its input. Literal values are always bound parameters; interpolating
// them into the statement text is an injection defect, not a shortcut.
func Compile(filters models.SearchFilters) (CompiledQuery, error) {
	var q CompiledQuery

	switch {
	case filters.Character != "" && filters.Character2 != "" && filters.Character != filters.Character2:
		// Matchup search: the pair is unordered in the record, so the
		// predicate must accept both player assignments. A self-pair
		// (both fields the same value) falls through to the
		// single-character branch: "X vs X" means "X in either slot",
		// not "mirror matches only".
		q.Predicates = append(q.Predicates,
			"((player1.character = ? AND player2.character = ?) OR (player1.character = ? AND player2.character = ?))")
		q.Params = append(q.Params, filters.Character, filters.Character2, filters.Character2, filters.Character)
	case filters.Character != "":
		q.Predicates = append(q.Predicates, "(player1.character = ? OR player2.character = ?)")
		q.Params = append(q.Params, filters.Character, filters.Character)
	case filters.Character2 != "":
		q.Predicates = append(q.Predicates, "(player1.character = ? OR player2.character = ?)")
		q.Params = append(q.Params, filters.Character2, filters.Character2)
	}

	if filters.VideoTitle != "" {
		q.Predicates = append(q.Predicates, "videoTitle ILIKE ?")
		q.Params = append(q.Params, "%"+filters.VideoTitle+"%")
	}

	if filters.DateFrom != "" {
		from, err := StartOfDayUTC(filters.DateFrom)
		if err != nil {
			return CompiledQuery{}, err
		}
		q.Predicates = append(q.Predicates, "videoPublishedAt >= ?")
		q.Params = append(q.Params, from.Format(utcParamLayout))
	}

	if filters.DateTo != "" {
		to, err := EndOfDayUTC(filters.DateTo)
		if err != nil {
			return CompiledQuery{}, err
		}
		q.Predicates = append(q.Predicates, "videoPublishedAt <= ?")
		q.Params = append(q.Params, to.Format(utcParamLayout))
	}

	switch filters.SortBy {
	case models.SortPublishedAtAsc:
		q.Order = "ORDER BY videoPublishedAt ASC, startTime ASC"
	case models.SortConfidenceDesc:
		q.Order = "ORDER BY confidence DESC, videoPublishedAt DESC"
	default:
		q.Order = "ORDER BY videoPublishedAt DESC, startTime ASC"
	}

	q.Limit = filters.Limit
	if q.Limit <= 0 {
		q.Limit = models.DefaultLimit
	}
	if q.Limit > models.MaxLimit {
		q.Limit = models.MaxLimit
	}

	return q, nil
}
