package leagues

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidScore = errors.New("scores must be whole numbers 0 or greater")

// GameRecord is a game as it arrives from an import or an external feed.
// Scores and dates are kept raw until NormalizeGameRecord runs.
type GameRecord struct {
	ID          int64           `json:"id"`
	HomeTeamID  int64           `json:"homeTeamId"`
	AwayTeamID  int64           `json:"awayTeamId"`
	IsCompleted *bool           `json:"isCompleted"`
	HomeScore   json.RawMessage `json:"homeScore"`
	AwayScore   json.RawMessage `json:"awayScore"`
	GameDate    string          `json:"gameDate"`
}

var gameDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizeGameRecord converts a loose record into a Game. Absent, malformed or
// negative scores become 0 so the game is never counted as decided.
func NormalizeGameRecord(record GameRecord) Game {
	completed := record.IsCompleted != nil && *record.IsCompleted
	return Game{
		ID:          record.ID,
		HomeTeamID:  record.HomeTeamID,
		AwayTeamID:  record.AwayTeamID,
		IsCompleted: completed,
		HomeScore:   parseLooseScore(record.HomeScore),
		AwayScore:   parseLooseScore(record.AwayScore),
		GameDate:    ParseGameDate(record.GameDate),
	}
}

func NormalizeGameRecords(records []GameRecord) []Game {
	games := make([]Game, 0, len(records))
	for _, record := range records {
		games = append(games, NormalizeGameRecord(record))
	}
	return games
}

// ParseGameDate accepts the layouts score keepers and imports use. Unparseable
// input yields the zero time.
func ParseGameDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range gameDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// ValidateScore is the strict check used by score entry.
func ValidateScore(home, away int64) error {
	if home < 0 || away < 0 {
		return ErrInvalidScore
	}
	if home > math.MaxInt32 || away > math.MaxInt32 {
		return ErrInvalidScore
	}
	return nil
}

func parseLooseScore(raw json.RawMessage) int {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	if value < 0 || value != math.Trunc(value) || value > math.MaxInt32 {
		return 0
	}
	return int(value)
}
