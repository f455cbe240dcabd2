package search

import (
	"context"
	"fmt"

	"github.com/kajiwara22/sf6chapter/internal/duck"
	"github.com/kajiwara22/sf6chapter/models"
)

// GetStats computes dataset totals and per-character appearance counts.
// Both player slots count, so one match contributes two appearances.
func (s *Service) GetStats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats

	totalsQuery := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_matches,
			COUNT(DISTINCT videoId) AS total_videos,
			MAX(detectedAt) AS latest_detected
		FROM %s`, duck.TableName)

	rows, err := s.session.QueryContext(ctx, totalsQuery)
	if err != nil {
		return models.Stats{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.Stats{}, &duck.QueryError{Err: err}
		}
		return models.Stats{}, &duck.QueryError{Err: fmt.Errorf("totals query returned no rows")}
	}

	var totalMatchesRaw, totalVideosRaw, latestRaw any
	if err := rows.Scan(&totalMatchesRaw, &totalVideosRaw, &latestRaw); err != nil {
		return models.Stats{}, &duck.QueryError{Err: err}
	}

	totalMatches, err := asFloat(totalMatchesRaw)
	if err != nil {
		return models.Stats{}, &MalformedRowError{Column: "total_matches", Value: totalMatchesRaw}
	}
	totalVideos, err := asFloat(totalVideosRaw)
	if err != nil {
		return models.Stats{}, &MalformedRowError{Column: "total_videos", Value: totalVideosRaw}
	}
	stats.TotalMatches = int(totalMatches)
	stats.TotalVideos = int(totalVideos)

	if latestRaw != nil {
		latest, err := asTime(latestRaw)
		if err != nil {
			return models.Stats{}, &MalformedRowError{Column: "latest_detected", Value: latestRaw}
		}
		stats.LatestDetectedAt = &latest
	}

	// Release the totals rows before the next query: the session pool
	// holds a single connection, which stays pinned until Close.
	rows.Close()

	counts, err := s.characterCounts(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	stats.CharacterCounts = counts
	return stats, nil
}

func (s *Service) characterCounts(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`
		WITH all_characters AS (
			SELECT player1.character AS character FROM %[1]s
			UNION ALL
			SELECT player2.character AS character FROM %[1]s
		)
		SELECT character, COUNT(*) AS count
		FROM all_characters
		GROUP BY character
		ORDER BY count DESC`, duck.TableName)

	rows, err := s.session.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var countRaw any
		if err := rows.Scan(&name, &countRaw); err != nil {
			return nil, &duck.QueryError{Err: err}
		}
		count, err := asFloat(countRaw)
		if err != nil {
			return nil, &MalformedRowError{Column: "count", Value: countRaw}
		}
		counts[name] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, &duck.QueryError{Err: err}
	}
	return counts, nil
}

// ListCharacters enumerates the distinct characters present in either
// player slot of the loaded dataset, ascending. Nothing comes from a
// static catalog; a character appears here only if a match does.
func (s *Service) ListCharacters(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		WITH all_characters AS (
			SELECT DISTINCT player1.character AS character FROM %[1]s
			UNION
			SELECT DISTINCT player2.character AS character FROM %[1]s
		)
		SELECT character FROM all_characters ORDER BY character`, duck.TableName)

	rows, err := s.session.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	characters := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &duck.QueryError{Err: err}
		}
		characters = append(characters, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &duck.QueryError{Err: err}
	}
	return characters, nil
}
