package authtempl

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type LoginData struct {
	Email        string
	Error        string
	ClerkEnabled bool
}

// LoginForm is the staff password form, plus the Clerk sign-in mount point
// when Clerk is configured.
func LoginForm(data LoginData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildLoginFormHTML(data))
		return err
	})
}

// LoginError replaces the form's error slot after a failed htmx submit.
func LoginError(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildLoginErrorHTML(message))
		return err
	})
}

func buildLoginFormHTML(data LoginData) string {
	var builder strings.Builder
	builder.WriteString(`<div class="mx-auto max-w-sm space-y-6 rounded border bg-white p-6 shadow-sm">`)
	builder.WriteString(`<h1 class="text-xl font-semibold">Sign in</h1>`)
	builder.WriteString(`<form hx-post="/api/v1/auth/login" hx-target="#login-error" hx-swap="outerHTML" class="space-y-4">`)
	builder.WriteString(fmt.Sprintf(
		`<label class="block text-sm">Email<input type="email" name="email" value="%s" required autocomplete="username" class="mt-1 w-full rounded border px-2 py-1"></label>`,
		html.EscapeString(data.Email),
	))
	builder.WriteString(`<label class="block text-sm">Password<input type="password" name="password" required autocomplete="current-password" class="mt-1 w-full rounded border px-2 py-1"></label>`)
	builder.WriteString(buildLoginErrorHTML(data.Error))
	builder.WriteString(`<button type="submit" class="w-full rounded bg-blue-600 py-2 text-white">Sign in</button></form>`)
	if data.ClerkEnabled {
		builder.WriteString(`<div class="border-t pt-4"><div id="clerk-sign-in"></div></div>`)
		builder.WriteString(`<script>window.addEventListener("load", async function () {
  if (!window.Clerk) { return; }
  await window.Clerk.load();
  window.Clerk.mountSignIn(document.getElementById("clerk-sign-in"), { forceRedirectUrl: "/auth/clerk/callback" });
});</script>`)
	}
	builder.WriteString(`</div>`)
	return builder.String()
}

func buildLoginErrorHTML(message string) string {
	if strings.TrimSpace(message) == "" {
		return `<p id="login-error" class="hidden"></p>`
	}
	return fmt.Sprintf(`<p id="login-error" role="alert" class="text-sm text-red-600">%s</p>`, html.EscapeString(message))
}
