// Package templates holds the board's HTML components.
package templates

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/grid"
)

// HTMXScript is the script tag loaded by Layout.
const HTMXScript = "https://unpkg.com/htmx.org@1.9.12"

// NavItem is one link in the page navigation.
type NavItem struct {
	Title  string
	Href   string
	Active bool
}

// PageData is everything PageSection renders.
type PageData struct {
	Key         string
	Title       string
	Status      string
	Error       *core.UserMessage
	UpdatedAt   time.Time
	Grid        grid.Grid
	ActionPath  string
	RefetchPath string
}

var esc = templ.EscapeString[string]

func write(w io.Writer, parts ...string) error {
	_, err := io.WriteString(w, strings.Join(parts, ""))
	return err
}

// Layout wraps body in the full HTML document with navigation.
func Layout(title string, nav []NavItem, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>` + esc(title) + ` | Shift Board</title>`)
		b.WriteString(`<script src="` + HTMXScript + `"></script>`)
		b.WriteString(`</head><body class="bg-gray-100 min-h-screen">`)
		b.WriteString(`<nav class="bg-white shadow px-6 py-3 flex gap-4" data-testid="nav">`)
		for _, item := range nav {
			class := "text-gray-600 hover:text-gray-900"
			if item.Active {
				class = "font-semibold text-blue-700"
			}
			b.WriteString(`<a href="` + esc(item.Href) + `" class="` + class + `">` + esc(item.Title) + `</a>`)
		}
		b.WriteString(`</nav><main class="max-w-7xl mx-auto p-6">`)
		b.WriteString(`<div id="alerts" aria-live="polite"></div>`)
		if err := write(w, b.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</main></body></html>`)
	})
}

// PageSection renders a page's heading, status banner and grid. It is also
// the HTMX partial for the page.
func PageSection(p PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := "page-" + p.Key
		var b strings.Builder
		b.WriteString(`<section id="` + esc(id) + `" data-testid="` + esc(id) + `">`)
		b.WriteString(`<div class="flex items-center justify-between mb-4">`)
		b.WriteString(`<h2 class="text-xl font-bold">` + esc(p.Title) + `</h2>`)
		if p.RefetchPath != "" {
			b.WriteString(`<form method="post" action="` + esc(p.RefetchPath) + `" hx-post="` + esc(p.RefetchPath) +
				`" hx-target="#` + esc(id) + `" hx-swap="outerHTML">`)
			b.WriteString(`<button type="submit" data-testid="` + esc(p.Key) + `-refetch" class="px-3 py-1 rounded text-sm bg-gray-200">Refresh</button></form>`)
		}
		b.WriteString(`</div>`)
		if err := write(w, b.String()); err != nil {
			return err
		}
		if err := StatusBanner(p.Key, p.Status, p.Error, p.UpdatedAt).Render(ctx, w); err != nil {
			return err
		}
		if err := p.Grid.Component(p.ActionPath).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</section>`)
	})
}

// StatusBanner shows the fetch status of a page. Errors render an alert;
// rows shown alongside are the last ones fetched.
func StatusBanner(key, status string, msg *core.UserMessage, updated time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		testID := esc(key) + "-status"
		if msg != nil {
			if err := write(w, `<div data-testid="`+testID+`" data-status="`+esc(status)+`">`); err != nil {
				return err
			}
			if err := ErrorAlert(msg.Message, msg.Action, msg.Code).Render(ctx, w); err != nil {
				return err
			}
			return write(w, `</div>`)
		}

		text := status
		switch status {
		case "loading":
			text = "Loading..."
		case "success":
			text = "Up to date"
			if !updated.IsZero() {
				text = "Updated " + updated.Format("15:04:05")
			}
		}
		return write(w, `<p class="text-sm text-gray-500 mb-2" data-testid="`, testID, `" data-status="`, esc(status), `">`, esc(text), `</p>`)
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div role="alert" class="bg-red-50 border border-red-200 text-red-800 rounded p-4 mb-4" data-testid="error-alert">`)
		b.WriteString(`<p class="font-semibold">` + esc(message) + `</p>`)
		if action != "" {
			b.WriteString(`<p class="text-sm">` + esc(action) + `</p>`)
		}
		if code != "" {
			b.WriteString(`<p class="text-xs text-red-500">Code: ` + esc(code) + `</p>`)
		}
		b.WriteString(`</div>`)
		return write(w, b.String())
	})
}
