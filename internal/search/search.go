// Package search translates user filters into parameterized queries
// against the loaded matches table and maps the tabular results back
// into domain values.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kajiwara22/sf6chapter/internal/duck"
	"github.com/kajiwara22/sf6chapter/models"
)

// Service runs compiled queries through a live engine session.
type Service struct {
	session *duck.Session
	log     *logrus.Logger
}

// NewService wires the service to an engine session. The session's
// lifecycle stays with the caller.
func NewService(session *duck.Session, log *logrus.Logger) *Service {
	return &Service{session: session, log: log}
}

// Ready reports whether the session is up and the dataset has been
// materialized, i.e. whether a search can be served at all.
func (s *Service) Ready() bool {
	return s.session.Loaded()
}

// matchProjection aliases the struct sub-fields flat so rows scan into
// plain columns.
const matchProjection = `
	id,
	videoId,
	videoTitle,
	videoPublishedAt,
	startTime,
	endTime,
	player1.character AS player1_character,
	player1.characterRaw AS player1_characterRaw,
	player1.side AS player1_side,
	player2.character AS player2_character,
	player2.characterRaw AS player2_characterRaw,
	player2.side AS player2_side,
	detectedAt,
	confidence`

// SearchMatches compiles filters, executes the query and returns the
// mapped matches. Result order follows the compiled clause and the
// result size never exceeds the compiled limit.
func (s *Service) SearchMatches(ctx context.Context, filters models.SearchFilters) ([]models.Match, error) {
	compiled, err := Compile(filters)
	if err != nil {
		return nil, &duck.QueryError{Err: err}
	}

	query := fmt.Sprintf("SELECT %s\nFROM %s\n%s\n%s\nLIMIT %d",
		matchProjection, duck.TableName, compiled.WhereClause(), compiled.Order, compiled.Limit)

	s.log.WithFields(logrus.Fields{
		"predicates": len(compiled.Predicates),
		"limit":      compiled.Limit,
	}).Debug("Executing match search")

	stmt, err := s.session.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, compiled.Params...)
	if err != nil {
		return nil, &duck.QueryError{Err: err}
	}
	defer rows.Close()

	matches := make([]models.Match, 0, compiled.Limit)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &duck.QueryError{Err: err}
	}
	return matches, nil
}

func scanMatch(rows *sql.Rows) (models.Match, error) {
	var (
		id, videoID, videoTitle         string
		publishedRaw, detectedRaw       any
		startRaw, endRaw, confidenceRaw any
		p1Char, p1Raw, p2Char, p2Raw    string
		p1Side, p2Side                  string
	)
	if err := rows.Scan(
		&id, &videoID, &videoTitle, &publishedRaw,
		&startRaw, &endRaw,
		&p1Char, &p1Raw, &p1Side,
		&p2Char, &p2Raw, &p2Side,
		&detectedRaw, &confidenceRaw,
	); err != nil {
		return models.Match{}, &duck.QueryError{Err: err}
	}

	published, err := asTime(publishedRaw)
	if err != nil {
		return models.Match{}, &MalformedRowError{Column: "videoPublishedAt", Value: publishedRaw}
	}
	detected, err := asTime(detectedRaw)
	if err != nil {
		return models.Match{}, &MalformedRowError{Column: "detectedAt", Value: detectedRaw}
	}

	startTime, err := asFloat(startRaw)
	if err != nil {
		return models.Match{}, &MalformedRowError{Column: "startTime", Value: startRaw}
	}
	confidence, err := asFloat(confidenceRaw)
	if err != nil {
		return models.Match{}, &MalformedRowError{Column: "confidence", Value: confidenceRaw}
	}

	var endTime *float64
	if endRaw != nil {
		v, err := asFloat(endRaw)
		if err != nil {
			return models.Match{}, &MalformedRowError{Column: "endTime", Value: endRaw}
		}
		endTime = &v
	}

	side1 := models.Side(p1Side)
	if !side1.Valid() {
		return models.Match{}, &MalformedRowError{Column: "player1.side", Value: p1Side}
	}
	side2 := models.Side(p2Side)
	if !side2.Valid() {
		return models.Match{}, &MalformedRowError{Column: "player2.side", Value: p2Side}
	}

	return models.Match{
		ID:               id,
		VideoID:          videoID,
		VideoTitle:       videoTitle,
		VideoPublishedAt: published,
		StartTime:        startTime,
		EndTime:          endTime,
		Player1:          models.Player{Character: p1Char, CharacterRaw: p1Raw, Side: side1},
		Player2:          models.Player{Character: p2Char, CharacterRaw: p2Raw, Side: side2},
		DetectedAt:       detected,
		Confidence:       confidence,
	}, nil
}

// asFloat normalizes the engine's numeric cells to one representation.
// DuckDB hands back machine integers, unsigned variants, doubles, or
// big.Int for values past 64 bits depending on the column and its
// magnitude; none of that ambiguity may escape the mapper.
func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

// asTime accepts the dataset's ISO8601 strings as well as native
// timestamps, should the offline pipeline ever switch the column type.
func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, err
		}
		return parsed.UTC(), nil
	case []byte:
		parsed, err := time.Parse(time.RFC3339, string(t))
		if err != nil {
			return time.Time{}, err
		}
		return parsed.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
