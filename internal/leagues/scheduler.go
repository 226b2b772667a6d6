package leagues

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type ScheduledGame struct {
	SeasonID  int64     `json:"seasonId"`
	Round     int       `json:"round"`
	HomeTeam  Team      `json:"homeTeam"`
	AwayTeam  Team      `json:"awayTeam"`
	Venue     string    `json:"venue"`
	StartTime time.Time `json:"startTime"`
}

type ScheduleOptions struct {
	StartDate    time.Time
	EndDate      time.Time
	GameDays     []time.Weekday
	FirstTipoff  string
	GameDuration time.Duration
	Venues       []string
	// DoubleRoundRobin adds a second pass with home and away swapped.
	DoubleRoundRobin bool
}

type gameSlot struct {
	Start time.Time
	Venue string
}

// GenerateRoundRobinSchedule pairs every team with every other team once per pass.
// Each round is played on its own game day.
func GenerateRoundRobinSchedule(seasonID int64, teams []Team, opts ScheduleOptions) ([]ScheduledGame, error) {
	if seasonID <= 0 {
		return nil, errors.New("season ID is required")
	}
	if len(teams) < 2 {
		return nil, errors.New("at least two teams are required")
	}
	venues := cleanVenues(opts.Venues)
	if len(venues) == 0 {
		return nil, errors.New("at least one venue is required")
	}
	if opts.GameDuration <= 0 {
		return nil, errors.New("game duration must be positive")
	}
	if len(opts.GameDays) == 0 {
		return nil, errors.New("at least one game day is required")
	}
	tipoff, err := parseTimeOfDay(opts.FirstTipoff)
	if err != nil {
		return nil, fmt.Errorf("invalid first tipoff: %w", err)
	}
	startDate := truncateDate(opts.StartDate)
	endDate := truncateDate(opts.EndDate)
	if endDate.Before(startDate) {
		return nil, errors.New("start date must be on or before end date")
	}

	pairs := buildRoundRobinPairs(teams)
	if opts.DoubleRoundRobin {
		pairs = append(pairs, mirrorPairs(pairs)...)
	}

	rounds := 0
	for _, pairing := range pairs {
		if pairing.Round > rounds {
			rounds = pairing.Round
		}
	}

	days := buildGameDays(startDate, endDate, opts.GameDays)
	if len(days) < rounds {
		return nil, fmt.Errorf("insufficient game days: need %d rounds but only %d days available", rounds, len(days))
	}

	perRound := len(teams) / 2
	schedule := make([]ScheduledGame, 0, len(pairs))
	for round := 1; round <= rounds; round++ {
		slots := buildDaySlots(days[round-1], tipoff, opts.GameDuration, venues, perRound)
		idx := 0
		for _, pairing := range pairs {
			if pairing.Round != round {
				continue
			}
			slot := slots[idx]
			idx++
			schedule = append(schedule, ScheduledGame{
				SeasonID:  seasonID,
				Round:     round,
				HomeTeam:  pairing.HomeTeam,
				AwayTeam:  pairing.AwayTeam,
				Venue:     slot.Venue,
				StartTime: slot.Start,
			})
		}
	}
	return schedule, nil
}

type roundPair struct {
	Round    int
	HomeTeam Team
	AwayTeam Team
}

func buildRoundRobinPairs(teams []Team) []roundPair {
	working := make([]*Team, 0, len(teams)+1)
	for i := range teams {
		working = append(working, &teams[i])
	}
	if len(working)%2 == 1 {
		working = append(working, nil)
	}

	rounds := len(working) - 1
	pairs := make([]roundPair, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			left := working[i]
			right := working[len(working)-1-i]
			if left == nil || right == nil {
				continue
			}
			home := *left
			away := *right
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, roundPair{
				Round:    round + 1,
				HomeTeam: home,
				AwayTeam: away,
			})
		}
		rotateTeams(working)
	}

	return pairs
}

func mirrorPairs(pairs []roundPair) []roundPair {
	offset := 0
	for _, pairing := range pairs {
		if pairing.Round > offset {
			offset = pairing.Round
		}
	}
	mirrored := make([]roundPair, 0, len(pairs))
	for _, pairing := range pairs {
		mirrored = append(mirrored, roundPair{
			Round:    pairing.Round + offset,
			HomeTeam: pairing.AwayTeam,
			AwayTeam: pairing.HomeTeam,
		})
	}
	return mirrored
}

func rotateTeams(teams []*Team) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}

func buildGameDays(startDate, endDate time.Time, weekdays []time.Weekday) []time.Time {
	allowed := make(map[time.Weekday]struct{}, len(weekdays))
	for _, day := range weekdays {
		allowed[day] = struct{}{}
	}
	var days []time.Time
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if _, ok := allowed[date.Weekday()]; ok {
			days = append(days, date)
		}
	}
	return days
}

// buildDaySlots fills venues first, then moves to the next tipoff time.
func buildDaySlots(day, tipoff time.Time, duration time.Duration, venues []string, games int) []gameSlot {
	slots := make([]gameSlot, 0, games)
	start := time.Date(day.Year(), day.Month(), day.Day(), tipoff.Hour(), tipoff.Minute(), 0, 0, day.Location())
	for len(slots) < games {
		for _, venue := range venues {
			if len(slots) == games {
				break
			}
			slots = append(slots, gameSlot{Start: start, Venue: venue})
		}
		start = start.Add(duration)
	}
	return slots
}

func cleanVenues(venues []string) []string {
	cleaned := make([]string, 0, len(venues))
	seen := make(map[string]struct{}, len(venues))
	for _, venue := range venues {
		venue = strings.TrimSpace(venue)
		if venue == "" {
			continue
		}
		if _, ok := seen[venue]; ok {
			continue
		}
		seen[venue] = struct{}{}
		cleaned = append(cleaned, venue)
	}
	return cleaned
}

func parseTimeOfDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("time is required")
	}
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		formats := []string{"3:04 PM", "03:04 PM", "3:04PM", "03:04PM"}
		for _, format := range formats {
			if parsed, err = time.Parse(format, strings.ToUpper(raw)); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, errors.New("time must be in HH:MM or H:MM AM/PM format")
	}
	return parsed, nil
}

func truncateDate(value time.Time) time.Time {
	loc := value.Location()
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, loc)
}
