package layouts

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/leaguehub/internal/api/authz"
)

const (
	htmxScript     = "https://unpkg.com/htmx.org@1.9.12"
	tailwindScript = "https://cdn.tailwindcss.com"
)

type Page struct {
	Title   string
	AppName string
	User    *authz.AuthUser
	// ClerkPublishableKey loads Clerk's browser SDK when set.
	ClerkPublishableKey string
}

// Base wraps body in the full HTML document with the navigation header.
func Base(page Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, buildHeadHTML(page)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="mx-auto max-w-5xl px-4 py-8">`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func buildHeadHTML(page Page) string {
	appName := strings.TrimSpace(page.AppName)
	if appName == "" {
		appName = "LeagueHub"
	}
	title := appName
	if t := strings.TrimSpace(page.Title); t != "" {
		title = t + " | " + appName
	}

	var builder strings.Builder
	builder.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	builder.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	builder.WriteString(fmt.Sprintf(`<title>%s</title>`, html.EscapeString(title)))
	builder.WriteString(fmt.Sprintf(`<script src="%s"></script><script src="%s"></script>`, htmxScript, tailwindScript))
	if key := strings.TrimSpace(page.ClerkPublishableKey); key != "" {
		builder.WriteString(fmt.Sprintf(
			`<script async crossorigin="anonymous" data-clerk-publishable-key="%s" src="https://cdn.jsdelivr.net/npm/@clerk/clerk-js@5/dist/clerk.browser.js"></script>`,
			html.EscapeString(key),
		))
	}
	builder.WriteString(`</head><body class="bg-gray-50 text-gray-900">`)
	builder.WriteString(`<header class="border-b bg-white"><nav class="mx-auto flex max-w-5xl items-center justify-between px-4 py-3">`)
	builder.WriteString(fmt.Sprintf(`<a href="/" class="text-lg font-semibold">%s</a>`, html.EscapeString(appName)))
	builder.WriteString(buildUserNavHTML(page.User))
	builder.WriteString(`</nav></header>`)
	return builder.String()
}

func buildUserNavHTML(user *authz.AuthUser) string {
	if user == nil {
		return `<a href="/login" class="text-sm text-blue-600 hover:underline">Sign in</a>`
	}
	name := user.DisplayName
	if strings.TrimSpace(name) == "" {
		name = user.Email
	}
	return fmt.Sprintf(
		`<div class="flex items-center gap-3 text-sm"><span>%s</span><span class="rounded bg-gray-100 px-2 py-0.5 text-xs uppercase text-gray-600">%s</span><button hx-post="/api/v1/auth/logout" class="text-blue-600 hover:underline">Sign out</button></div>`,
		html.EscapeString(name),
		html.EscapeString(user.Role),
	)
}
