package leagues

import (
	"fmt"
	"math"
	"sort"
	"time"
)

type StreakKind string

const (
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

const lastFiveWindow = 5

type Team struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

type Game struct {
	ID          int64     `json:"id"`
	HomeTeamID  int64     `json:"homeTeamId"`
	AwayTeamID  int64     `json:"awayTeamId"`
	IsCompleted bool      `json:"isCompleted"`
	HomeScore   int       `json:"homeScore"`
	AwayScore   int       `json:"awayScore"`
	GameDate    time.Time `json:"gameDate"`
}

// Decided reports whether the game counts toward standings. Completed games
// with a zero score on either side are treated as not yet decided.
func (g Game) Decided() bool {
	return g.IsCompleted && g.HomeScore > 0 && g.AwayScore > 0
}

type Streak struct {
	Kind   StreakKind `json:"kind"`
	Length int        `json:"length"`
}

func (s Streak) String() string {
	if s.Kind == StreakWin {
		return fmt.Sprintf("W%d", s.Length)
	}
	return fmt.Sprintf("L%d", s.Length)
}

type TeamStanding struct {
	TeamID        int64   `json:"id"`
	TeamName      string  `json:"name"`
	Logo          string  `json:"logo"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPercentage float64 `json:"winPercentage"`
	HomeWins      int     `json:"homeWins"`
	HomeLosses    int     `json:"homeLosses"`
	AwayWins      int     `json:"awayWins"`
	AwayLosses    int     `json:"awayLosses"`
	PointsScored  int     `json:"pointsScored"`
	PointsAllowed int     `json:"pointsAllowed"`
	Streak        Streak  `json:"streak"`
	LastFive      string  `json:"lastFive"`
}

func (s TeamStanding) PointDifferential() int {
	return s.PointsScored - s.PointsAllowed
}

func (s TeamStanding) GamesPlayed() int {
	return s.Wins + s.Losses
}

type teamStats struct {
	TeamStanding
	played bool
}

// ComputeStandings ranks every team in teams from the decided games in games.
// Inputs are not modified.
func ComputeStandings(teams []Team, games []Game) []TeamStanding {
	decided := make([]Game, 0, len(games))
	active := make(map[int64]struct{})
	for _, game := range games {
		// A team cannot play itself; counting such a game would book a win and a loss.
		if !game.Decided() || game.HomeTeamID == game.AwayTeamID {
			continue
		}
		decided = append(decided, game)
		active[game.HomeTeamID] = struct{}{}
		active[game.AwayTeamID] = struct{}{}
	}

	stats := make(map[int64]*teamStats, len(teams))
	ordered := make([]*teamStats, 0, len(teams))
	for _, team := range teams {
		if _, seen := stats[team.ID]; seen {
			continue
		}
		entry := &teamStats{
			TeamStanding: TeamStanding{
				TeamID:   team.ID,
				TeamName: team.Name,
				Logo:     team.LogoURL,
				Streak:   Streak{Kind: StreakLoss},
				LastFive: "0-0",
			},
		}
		if _, ok := active[team.ID]; ok {
			entry.played = true
			entry.Streak = Streak{Kind: StreakWin}
		}
		stats[team.ID] = entry
		ordered = append(ordered, entry)
	}

	sort.SliceStable(decided, func(i, j int) bool {
		return playedBefore(decided[i], decided[j])
	})

	for _, game := range decided {
		home := stats[game.HomeTeamID]
		away := stats[game.AwayTeamID]
		homeWon := game.HomeScore > game.AwayScore
		awayWon := game.AwayScore > game.HomeScore

		if home != nil {
			home.PointsScored += game.HomeScore
			home.PointsAllowed += game.AwayScore
			switch {
			case homeWon:
				home.Wins++
				home.HomeWins++
			case awayWon:
				home.Losses++
				home.HomeLosses++
			}
		}
		if away != nil {
			away.PointsScored += game.AwayScore
			away.PointsAllowed += game.HomeScore
			switch {
			case awayWon:
				away.Wins++
				away.AwayWins++
			case homeWon:
				away.Losses++
				away.AwayLosses++
			}
		}
	}

	for _, entry := range ordered {
		if !entry.played {
			continue
		}
		entry.Streak, entry.LastFive = recentForm(entry.TeamID, decided)
		entry.WinPercentage = winPercentage(entry.Wins, entry.Losses)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return standingLess(ordered[i], ordered[j])
	})

	standings := make([]TeamStanding, 0, len(ordered))
	for _, entry := range ordered {
		standings = append(standings, entry.TeamStanding)
	}
	return standings
}

// recentForm walks a team's decided games from most recent to oldest.
// chronological must already be sorted oldest first.
func recentForm(teamID int64, chronological []Game) (Streak, string) {
	recent := make([]Game, 0)
	for _, game := range chronological {
		if game.HomeTeamID == teamID || game.AwayTeamID == teamID {
			recent = append(recent, game)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return playedBefore(recent[j], recent[i])
	})

	var streak Streak
	for idx, game := range recent {
		kind := StreakLoss
		if wonBy(game, teamID) {
			kind = StreakWin
		}
		if idx == 0 {
			streak = Streak{Kind: kind, Length: 1}
			continue
		}
		if kind != streak.Kind {
			break
		}
		streak.Length++
	}

	window := recent
	if len(window) > lastFiveWindow {
		window = window[:lastFiveWindow]
	}
	wins := 0
	for _, game := range window {
		if wonBy(game, teamID) {
			wins++
		}
	}
	return streak, fmt.Sprintf("%d-%d", wins, len(window)-wins)
}

// playedBefore orders games by date, falling back to ID for same-time games.
func playedBefore(a, b Game) bool {
	if !a.GameDate.Equal(b.GameDate) {
		return a.GameDate.Before(b.GameDate)
	}
	return a.ID < b.ID
}

// wonBy is false for a tied game, so a tie reads as L in streak and last five
// even though it adds nothing to Losses.
func wonBy(game Game, teamID int64) bool {
	if game.HomeTeamID == teamID {
		return game.HomeScore > game.AwayScore
	}
	return game.AwayScore > game.HomeScore
}

func winPercentage(wins, losses int) float64 {
	played := wins + losses
	if played == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(played)*1000) / 1000
}

func standingLess(a, b *teamStats) bool {
	if a.played != b.played {
		return a.played
	}
	if a.WinPercentage != b.WinPercentage {
		return a.WinPercentage > b.WinPercentage
	}
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if diffA, diffB := a.PointDifferential(), b.PointDifferential(); diffA != diffB {
		return diffA > diffB
	}
	if a.TeamName != b.TeamName {
		return a.TeamName < b.TeamName
	}
	return a.TeamID < b.TeamID
}
