package rostertempl

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type PlayerRow struct {
	ID           int64
	Name         string
	JerseyNumber string
	Position     string
	Email        string
	Phone        string
}

type ListData struct {
	TeamID    int64
	Players   []PlayerRow
	CanManage bool
	Error     string
}

type PageData struct {
	SeasonID   int64
	SeasonName string
	TeamName   string
	LogoURL    string
	List       ListData
}

func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var builder strings.Builder
		builder.WriteString(`<div class="space-y-6"><div class="flex items-center gap-4">`)
		if data.LogoURL != "" {
			builder.WriteString(fmt.Sprintf(`<img src="%s" alt="" class="h-12 w-12 rounded-full object-cover">`, html.EscapeString(data.LogoURL)))
		}
		builder.WriteString(fmt.Sprintf(
			`<div><p class="text-sm text-gray-500"><a class="hover:underline" href="/seasons/%d/standings">%s</a></p><h1 class="text-2xl font-semibold">%s</h1></div></div>`,
			data.SeasonID,
			html.EscapeString(data.SeasonName),
			html.EscapeString(data.TeamName),
		))
		if _, err := io.WriteString(w, builder.String()); err != nil {
			return err
		}
		if err := PlayerList(data.List).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// PlayerList renders #roster-list; add and remove actions swap it whole.
func PlayerList(data ListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildPlayerListHTML(data))
		return err
	})
}

func buildPlayerListHTML(data ListData) string {
	var builder strings.Builder
	builder.WriteString(`<div id="roster-list" class="space-y-4">`)
	if data.Error != "" {
		builder.WriteString(fmt.Sprintf(`<div class="rounded bg-red-50 px-3 py-2 text-sm text-red-700" role="alert">%s</div>`, html.EscapeString(data.Error)))
	}

	if len(data.Players) == 0 {
		builder.WriteString(`<p class="text-sm text-gray-500">No players on this roster yet.</p>`)
	} else {
		builder.WriteString(`<ul class="divide-y divide-gray-100 rounded border bg-white">`)
		for _, player := range data.Players {
			builder.WriteString(buildPlayerRowHTML(data.TeamID, player, data.CanManage))
		}
		builder.WriteString(`</ul>`)
	}

	if data.CanManage {
		builder.WriteString(fmt.Sprintf(
			`<form hx-post="/api/v1/teams/%d/players" hx-target="#roster-list" hx-swap="outerHTML" class="grid grid-cols-2 gap-2 text-sm md:grid-cols-6">`+
				`<input name="first_name" required placeholder="First name" class="rounded border px-2 py-1">`+
				`<input name="last_name" required placeholder="Last name" class="rounded border px-2 py-1">`+
				`<input name="jersey_number" type="number" min="0" max="99" placeholder="#" class="rounded border px-2 py-1">`+
				`<input name="position" placeholder="Position" class="rounded border px-2 py-1">`+
				`<input name="phone" type="tel" placeholder="Phone" class="rounded border px-2 py-1">`+
				`<button type="submit" class="rounded bg-blue-600 px-3 py-1 text-white">Add player</button></form>`,
			data.TeamID,
		))
	}
	builder.WriteString(`</div>`)
	return builder.String()
}

func buildPlayerRowHTML(teamID int64, player PlayerRow, canManage bool) string {
	jersey := "&nbsp;"
	if player.JerseyNumber != "" {
		jersey = "#" + html.EscapeString(player.JerseyNumber)
	}

	var contact []string
	for _, value := range []string{player.Position, player.Phone, player.Email} {
		if value != "" {
			contact = append(contact, html.EscapeString(value))
		}
	}

	remove := ""
	if canManage {
		remove = fmt.Sprintf(
			`<button hx-delete="/api/v1/teams/%d/players/%d" hx-target="#roster-list" hx-swap="outerHTML" hx-confirm="Remove %s from the roster?" class="text-xs text-red-600 hover:underline">Remove</button>`,
			teamID,
			player.ID,
			html.EscapeString(player.Name),
		)
	}

	return fmt.Sprintf(
		`<li id="player-%d" class="flex items-center justify-between px-3 py-2"><div class="flex items-center gap-3"><span class="w-8 text-right font-mono text-gray-500">%s</span><div><p class="font-medium">%s</p><p class="text-xs text-gray-500">%s</p></div></div>%s</li>`,
		player.ID,
		jersey,
		html.EscapeString(player.Name),
		strings.Join(contact, " &middot; "),
		remove,
	)
}
