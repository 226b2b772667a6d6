package leaders

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/leaguehub/internal/leagues"
)

var categories = []leagues.StatCategory{
	leagues.StatPoints,
	leagues.StatRebounds,
	leagues.StatAssists,
	leagues.StatSteals,
	leagues.StatBlocks,
}

type TableData struct {
	SeasonID int64
	Stat     leagues.StatCategory
	Leaders  []leagues.StatLeader
}

type PageData struct {
	LeagueName string
	SeasonName string
	Table      TableData
}

func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var builder strings.Builder
		builder.WriteString(fmt.Sprintf(
			`<div class="space-y-6"><div class="flex items-end justify-between"><div><p class="text-sm text-gray-500">%s</p><h1 class="text-2xl font-semibold">%s leaders</h1></div><a class="text-sm text-blue-600 hover:underline" href="/seasons/%d/standings">Standings</a></div>`,
			html.EscapeString(data.LeagueName),
			html.EscapeString(data.SeasonName),
			data.Table.SeasonID,
		))
		builder.WriteString(`<nav class="flex gap-2 text-sm">`)
		for _, stat := range categories {
			builder.WriteString(fmt.Sprintf(
				`<button hx-get="/api/v1/seasons/%d/leaders?stat=%s" hx-target="#leaders-table" hx-swap="outerHTML" class="rounded border px-3 py-1 capitalize hover:bg-gray-50">%s</button>`,
				data.Table.SeasonID,
				stat,
				stat,
			))
		}
		builder.WriteString(`</nav>`)
		if _, err := io.WriteString(w, builder.String()); err != nil {
			return err
		}
		if err := Table(data.Table).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func Table(data TableData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildTableHTML(data))
		return err
	})
}

func buildTableHTML(data TableData) string {
	if len(data.Leaders) == 0 {
		return `<div id="leaders-table" class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No stats recorded yet.</div>`
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(
		`<table id="leaders-table" class="min-w-full divide-y divide-gray-200 rounded border bg-white text-sm"><thead class="bg-gray-50 text-left text-xs uppercase text-gray-500"><tr><th class="px-3 py-2">#</th><th class="px-3 py-2">Player</th><th class="px-3 py-2">Team</th><th class="px-3 py-2 text-right">GP</th><th class="px-3 py-2 text-right">%s</th><th class="px-3 py-2 text-right">Per game</th></tr></thead><tbody class="divide-y divide-gray-100">`,
		html.EscapeString(string(data.Stat)),
	))
	for _, leader := range data.Leaders {
		builder.WriteString(fmt.Sprintf(
			`<tr><td class="px-3 py-2 text-gray-500">%d</td><td class="px-3 py-2 font-medium">%s</td><td class="px-3 py-2"><a class="hover:underline" href="/teams/%d">%s</a></td><td class="px-3 py-2 text-right">%d</td><td class="px-3 py-2 text-right">%d</td><td class="px-3 py-2 text-right">%.1f</td></tr>`,
			leader.Rank,
			html.EscapeString(leader.PlayerName),
			leader.TeamID,
			html.EscapeString(leader.TeamName),
			leader.GamesPlayed,
			leader.Total,
			leader.PerGame,
		))
	}
	builder.WriteString(`</tbody></table>`)
	return builder.String()
}
