package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
)

type GameRow struct {
	ID          int64
	Round       int64
	GameDate    time.Time
	Venue       string
	HomeTeam    string
	AwayTeam    string
	HomeScore   sql.NullInt64
	AwayScore   sql.NullInt64
	IsCompleted bool
}

type ListData struct {
	SeasonID        int64
	Games           []GameRow
	CanRecordScores bool
}

type PageData struct {
	LeagueName string
	SeasonName string
	List       ListData
}

func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		header := fmt.Sprintf(
			`<div class="space-y-6"><div class="flex items-end justify-between"><div><p class="text-sm text-gray-500">%s</p><h1 class="text-2xl font-semibold">%s schedule</h1></div><a class="text-sm text-blue-600 hover:underline" href="/seasons/%d/standings">Standings</a></div>`,
			html.EscapeString(data.LeagueName),
			html.EscapeString(data.SeasonName),
			data.List.SeasonID,
		)
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}
		if err := GamesList(data.List).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func GamesList(data ListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildGamesListHTML(data))
		return err
	})
}

// Game renders a single row; score updates swap it in place.
func Game(game GameRow, canRecordScores bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildGameRowHTML(game, canRecordScores))
		return err
	})
}

func buildGamesListHTML(data ListData) string {
	if len(data.Games) == 0 {
		return `<div id="games-list" class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No games scheduled.</div>`
	}

	var builder strings.Builder
	builder.WriteString(`<table id="games-list" class="min-w-full divide-y divide-gray-200 rounded border bg-white text-sm"><thead class="bg-gray-50 text-left text-xs uppercase text-gray-500"><tr>`)
	builder.WriteString(`<th class="px-3 py-2">Rd</th><th class="px-3 py-2">Date</th><th class="px-3 py-2">Venue</th><th class="px-3 py-2">Home</th><th class="px-3 py-2">Away</th><th class="px-3 py-2">Result</th>`)
	builder.WriteString(`</tr></thead><tbody class="divide-y divide-gray-100">`)
	for _, game := range data.Games {
		builder.WriteString(buildGameRowHTML(game, data.CanRecordScores))
	}
	builder.WriteString(`</tbody></table>`)
	return builder.String()
}

func buildGameRowHTML(game GameRow, canRecordScores bool) string {
	round := ""
	if game.Round > 0 {
		round = fmt.Sprintf("%d", game.Round)
	}

	return fmt.Sprintf(
		`<tr id="game-%d"><td class="px-3 py-2 text-gray-500">%s</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td></tr>`,
		game.ID,
		round,
		html.EscapeString(FormatGameDate(game.GameDate)),
		html.EscapeString(game.Venue),
		html.EscapeString(game.HomeTeam),
		html.EscapeString(game.AwayTeam),
		buildResultHTML(game, canRecordScores),
	)
}

func buildResultHTML(game GameRow, canRecordScores bool) string {
	result := `<span class="text-gray-400">-</span>`
	if game.HomeScore.Valid && game.AwayScore.Valid {
		label := ""
		if game.IsCompleted {
			label = ` <span class="text-xs uppercase text-gray-500">Final</span>`
		}
		result = fmt.Sprintf(`<span class="font-medium">%d-%d</span>%s`, game.HomeScore.Int64, game.AwayScore.Int64, label)
	}
	if !canRecordScores {
		return result
	}

	return result + fmt.Sprintf(
		`<form hx-put="/api/v1/games/%d/score" hx-target="#game-%d" hx-swap="outerHTML" class="mt-1 flex items-center gap-1"><input type="number" min="0" name="home_score" value="%s" class="w-14 rounded border px-1" aria-label="Home score"><input type="number" min="0" name="away_score" value="%s" class="w-14 rounded border px-1" aria-label="Away score"><label class="text-xs"><input type="checkbox" name="final" value="true"%s> Final</label><button type="submit" class="rounded bg-blue-600 px-2 text-xs text-white">Save</button></form>`,
		game.ID,
		game.ID,
		scoreValue(game.HomeScore),
		scoreValue(game.AwayScore),
		checkedAttr(game.IsCompleted || !game.HomeScore.Valid),
	)
}

func scoreValue(score sql.NullInt64) string {
	if !score.Valid {
		return ""
	}
	return fmt.Sprintf("%d", score.Int64)
}

func checkedAttr(checked bool) string {
	if checked {
		return " checked"
	}
	return ""
}

func FormatGameDate(at time.Time) string {
	if at.IsZero() {
		return "TBD"
	}
	if at.Hour() == 0 && at.Minute() == 0 {
		return at.Format("Mon Jan 2")
	}
	return at.Format("Mon Jan 2, 3:04 PM")
}
