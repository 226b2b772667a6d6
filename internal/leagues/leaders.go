package leagues

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/codr1/leaguehub/internal/db/dbgen"
)

type StatCategory string

const (
	StatPoints   StatCategory = "points"
	StatRebounds StatCategory = "rebounds"
	StatAssists  StatCategory = "assists"
	StatSteals   StatCategory = "steals"
	StatBlocks   StatCategory = "blocks"
)

// maxStatValue bounds a single player's line in one game.
const maxStatValue = 500

var (
	ErrUnknownStat     = errors.New("unknown stat category")
	ErrInvalidStatLine = errors.New("invalid stat line")
)

// ParseStatCategory maps a query value to a category. Empty means points.
func ParseStatCategory(raw string) (StatCategory, error) {
	switch StatCategory(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatPoints:
		return StatPoints, nil
	case StatRebounds:
		return StatRebounds, nil
	case StatAssists:
		return StatAssists, nil
	case StatSteals:
		return StatSteals, nil
	case StatBlocks:
		return StatBlocks, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStat, raw)
	}
}

// StatLine is one player's box score for one game.
type StatLine struct {
	PlayerID int64 `json:"playerId"`
	Points   int64 `json:"points"`
	Rebounds int64 `json:"rebounds"`
	Assists  int64 `json:"assists"`
	Steals   int64 `json:"steals"`
	Blocks   int64 `json:"blocks"`
	Fouls    int64 `json:"fouls"`
}

func ValidateStatLine(line StatLine) error {
	if line.PlayerID <= 0 {
		return fmt.Errorf("%w: player ID is required", ErrInvalidStatLine)
	}
	values := map[string]int64{
		"points":   line.Points,
		"rebounds": line.Rebounds,
		"assists":  line.Assists,
		"steals":   line.Steals,
		"blocks":   line.Blocks,
		"fouls":    line.Fouls,
	}
	for name, value := range values {
		if value < 0 || value > maxStatValue {
			return fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidStatLine, name, maxStatValue)
		}
	}
	return nil
}

type PlayerTotals struct {
	PlayerID    int64  `json:"playerId"`
	PlayerName  string `json:"playerName"`
	TeamID      int64  `json:"teamId"`
	TeamName    string `json:"teamName"`
	GamesPlayed int64  `json:"gamesPlayed"`
	Points      int64  `json:"points"`
	Rebounds    int64  `json:"rebounds"`
	Assists     int64  `json:"assists"`
	Steals      int64  `json:"steals"`
	Blocks      int64  `json:"blocks"`
}

func (p PlayerTotals) total(stat StatCategory) int64 {
	switch stat {
	case StatRebounds:
		return p.Rebounds
	case StatAssists:
		return p.Assists
	case StatSteals:
		return p.Steals
	case StatBlocks:
		return p.Blocks
	default:
		return p.Points
	}
}

type StatLeader struct {
	Rank int `json:"rank"`
	PlayerTotals
	Stat    StatCategory `json:"stat"`
	Total   int64        `json:"total"`
	PerGame float64      `json:"perGame"`
}

// PlayerTotalsFromRow converts an aggregated season row.
func PlayerTotalsFromRow(row dbgen.ListSeasonPlayerTotalsRow) PlayerTotals {
	return PlayerTotals{
		PlayerID:    row.PlayerID,
		PlayerName:  strings.TrimSpace(row.FirstName + " " + row.LastName),
		TeamID:      row.TeamID,
		TeamName:    row.TeamName,
		GamesPlayed: row.GamesPlayed,
		Points:      row.Points,
		Rebounds:    row.Rebounds,
		Assists:     row.Assists,
		Steals:      row.Steals,
		Blocks:      row.Blocks,
	}
}

// RankLeaders orders players by season total for stat, then per-game average,
// then name. Equal totals and averages share a rank (1, 1, 3). Players with no
// games are left out. A limit of zero or less keeps everyone.
func RankLeaders(totals []PlayerTotals, stat StatCategory, limit int) []StatLeader {
	leaders := make([]StatLeader, 0, len(totals))
	for _, player := range totals {
		if player.GamesPlayed <= 0 {
			continue
		}
		total := player.total(stat)
		leaders = append(leaders, StatLeader{
			PlayerTotals: player,
			Stat:         stat,
			Total:        total,
			PerGame:      math.Round(float64(total)/float64(player.GamesPlayed)*10) / 10,
		})
	}

	sort.SliceStable(leaders, func(i, j int) bool {
		a, b := leaders[i], leaders[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.PerGame != b.PerGame {
			return a.PerGame > b.PerGame
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.PlayerID < b.PlayerID
	})

	for i := range leaders {
		if i > 0 && leaders[i].Total == leaders[i-1].Total && leaders[i].PerGame == leaders[i-1].PerGame {
			leaders[i].Rank = leaders[i-1].Rank
		} else {
			leaders[i].Rank = i + 1
		}
	}

	if limit > 0 && len(leaders) > limit {
		leaders = leaders[:limit]
	}
	return leaders
}
