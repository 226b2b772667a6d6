package standings

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/codr1/leaguehub/internal/leagues"
)

type TableData struct {
	SeasonID  int64
	Standings []leagues.TeamStanding
	// Movement holds places gained (positive) or lost since the last snapshot.
	Movement   map[int64]int
	SnapshotAt time.Time
}

type PageData struct {
	LeagueName string
	SeasonName string
	Table      TableData
}

func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		header := fmt.Sprintf(
			`<div class="space-y-6"><div><p class="text-sm text-gray-500">%s</p><h1 class="text-2xl font-semibold">%s standings</h1></div>`,
			html.EscapeString(data.LeagueName),
			html.EscapeString(data.SeasonName),
		)
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}
		if err := Table(data.Table).Render(ctx, w); err != nil {
			return err
		}
		links := fmt.Sprintf(
			`<div class="flex gap-4 text-sm"><a class="text-blue-600 hover:underline" href="/seasons/%d/schedule">Schedule</a><a class="text-blue-600 hover:underline" href="/seasons/%d/leaders">Leaders</a></div></div>`,
			data.Table.SeasonID, data.Table.SeasonID,
		)
		_, err := io.WriteString(w, links)
		return err
	})
}

// Table re-fetches itself when a score update fires standings-updated.
func Table(data TableData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildTableHTML(data))
		return err
	})
}

func buildTableHTML(data TableData) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(
		`<div id="standings-table" hx-get="/api/v1/seasons/%d/standings" hx-trigger="standings-updated from:body" hx-swap="outerHTML">`,
		data.SeasonID,
	))

	if len(data.Standings) == 0 {
		builder.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No teams in this season yet.</div></div>`)
		return builder.String()
	}

	builder.WriteString(`<table class="min-w-full divide-y divide-gray-200 rounded border bg-white text-sm"><thead class="bg-gray-50 text-left text-xs uppercase text-gray-500"><tr>`)
	for _, heading := range []string{"#", "Team", "W", "L", "Pct", "Home", "Away", "PF", "PA", "Diff", "Strk", "L5"} {
		builder.WriteString(`<th class="px-3 py-2">` + heading + `</th>`)
	}
	builder.WriteString(`</tr></thead><tbody class="divide-y divide-gray-100">`)

	for i, standing := range data.Standings {
		builder.WriteString(buildRowHTML(i+1, standing, data.Movement))
	}
	builder.WriteString(`</tbody></table>`)

	if !data.SnapshotAt.IsZero() {
		builder.WriteString(fmt.Sprintf(
			`<p class="mt-2 text-xs text-gray-500">Movement since %s</p>`,
			html.EscapeString(data.SnapshotAt.Format("Jan 2, 2006")),
		))
	}
	builder.WriteString(`</div>`)
	return builder.String()
}

func buildRowHTML(rank int, standing leagues.TeamStanding, movement map[int64]int) string {
	logo := ""
	if standing.Logo != "" {
		logo = fmt.Sprintf(`<img src="%s" alt="" class="h-6 w-6 rounded-full">`, html.EscapeString(standing.Logo))
	}

	return fmt.Sprintf(
		`<tr data-team-id="%d"><td class="px-3 py-2 text-gray-500">%d%s</td><td class="px-3 py-2"><div class="flex items-center gap-2">%s<span class="font-medium">%s</span></div></td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%d-%d</td><td class="px-3 py-2">%d-%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td></tr>`,
		standing.TeamID,
		rank,
		movementHTML(standing.TeamID, movement),
		logo,
		html.EscapeString(standing.TeamName),
		standing.Wins,
		standing.Losses,
		FormatWinPercentage(standing.WinPercentage),
		standing.HomeWins, standing.HomeLosses,
		standing.AwayWins, standing.AwayLosses,
		standing.PointsScored,
		standing.PointsAllowed,
		FormatDifferential(standing.PointDifferential()),
		html.EscapeString(streakLabel(standing)),
		html.EscapeString(standing.LastFive),
	)
}

func movementHTML(teamID int64, movement map[int64]int) string {
	delta, ok := movement[teamID]
	switch {
	case !ok || delta == 0:
		return ""
	case delta > 0:
		return fmt.Sprintf(` <span class="text-xs text-green-600" title="Up %d">&#9650;%d</span>`, delta, delta)
	default:
		return fmt.Sprintf(` <span class="text-xs text-red-600" title="Down %d">&#9660;%d</span>`, -delta, -delta)
	}
}

// FormatWinPercentage renders .750 style; a perfect record reads 1.000.
func FormatWinPercentage(pct float64) string {
	formatted := fmt.Sprintf("%.3f", pct)
	return strings.TrimPrefix(formatted, "0")
}

func FormatDifferential(diff int) string {
	if diff > 0 {
		return fmt.Sprintf("+%d", diff)
	}
	return fmt.Sprintf("%d", diff)
}

func streakLabel(standing leagues.TeamStanding) string {
	if standing.Streak.Length == 0 {
		return "-"
	}
	return standing.Streak.String()
}
