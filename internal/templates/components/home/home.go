package home

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type SeasonLink struct {
	ID         int64
	Name       string
	LeagueName string
	Sport      string
}

// Seasons lists the active seasons with links to their tables and schedules.
func Seasons(seasons []SeasonLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildSeasonsHTML(seasons))
		return err
	})
}

func buildSeasonsHTML(seasons []SeasonLink) string {
	var builder strings.Builder
	builder.WriteString(`<div class="space-y-6"><h1 class="text-2xl font-semibold">Active seasons</h1>`)
	if len(seasons) == 0 {
		builder.WriteString(`<p class="text-sm text-gray-500">No seasons are running right now.</p></div>`)
		return builder.String()
	}

	builder.WriteString(`<ul class="grid gap-4 md:grid-cols-2">`)
	for _, season := range seasons {
		builder.WriteString(fmt.Sprintf(
			`<li class="rounded border bg-white p-4"><p class="text-xs uppercase text-gray-500">%s &middot; %s</p><p class="text-lg font-medium">%s</p><div class="mt-2 flex gap-3 text-sm text-blue-600"><a class="hover:underline" href="/seasons/%d/standings">Standings</a><a class="hover:underline" href="/seasons/%d/schedule">Schedule</a><a class="hover:underline" href="/seasons/%d/leaders">Leaders</a></div></li>`,
			html.EscapeString(season.LeagueName),
			html.EscapeString(season.Sport),
			html.EscapeString(season.Name),
			season.ID,
			season.ID,
			season.ID,
		))
	}
	builder.WriteString(`</ul></div>`)
	return builder.String()
}
