package email

import (
	"fmt"
	"strings"
	"time"
)

type Message struct {
	Subject string
	Body    string
}

type FinalScore struct {
	LeagueName string
	SeasonName string
	HomeTeam   string
	AwayTeam   string
	HomeScore  int64
	AwayScore  int64
	Venue      string
	PlayedAt   time.Time
	// StandingsURL is optional.
	StandingsURL string
}

func FormatGameTime(at time.Time) string {
	if at.IsZero() {
		return "TBD"
	}
	return at.Format("Monday, Jan 2, 2006 at 3:04 PM MST")
}

func BuildFinalScoreEmail(score FinalScore) Message {
	home := fallback(score.HomeTeam, "Home")
	away := fallback(score.AwayTeam, "Away")

	headline := fmt.Sprintf("%s %d, %s %d", home, score.HomeScore, away, score.AwayScore)
	switch {
	case score.HomeScore > score.AwayScore:
		headline = fmt.Sprintf("%s def. %s %d-%d", home, away, score.HomeScore, score.AwayScore)
	case score.AwayScore > score.HomeScore:
		headline = fmt.Sprintf("%s def. %s %d-%d", away, home, score.AwayScore, score.HomeScore)
	}

	subject := "Final: " + headline
	if league := strings.TrimSpace(score.LeagueName); league != "" {
		subject = fmt.Sprintf("%s - %s", subject, league)
	}

	lines := []string{
		"A final score has been recorded.",
		"",
		headline,
		"",
	}
	if season := strings.TrimSpace(score.SeasonName); season != "" {
		lines = append(lines, fmt.Sprintf("Season: %s", season))
	}
	lines = append(lines,
		fmt.Sprintf("Played: %s", FormatGameTime(score.PlayedAt)),
		fmt.Sprintf("Venue: %s", fallback(score.Venue, "TBD")),
	)
	if url := strings.TrimSpace(score.StandingsURL); url != "" {
		lines = append(lines, "", "Updated standings: "+url)
	}

	return Message{Subject: subject, Body: strings.Join(lines, "\n")}
}

func fallback(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}
