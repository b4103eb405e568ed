package grid

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// RowFormField is the form field that carries a control's RowID.
const RowFormField = "row"

var buttonClasses = map[Style]string{
	StylePrimary:   "bg-blue-600 hover:bg-blue-700 text-white",
	StyleSecondary: "bg-gray-500 hover:bg-gray-600 text-white",
	StyleSuccess:   "bg-green-600 hover:bg-green-700 text-white",
	StyleDanger:    "bg-red-600 hover:bg-red-700 text-white",
	StyleWarning:   "bg-yellow-500 hover:bg-yellow-600 text-black",
}

// Component renders the grid as an HTML table. Every header, cell and button
// carries a data-testid equal to its ID.
//
// When actionPath is non-empty each button is wrapped in a form posting to
// actionPath + "/" + control ID with the row's record ID in a hidden "row"
// field; HTMX attributes swap the table in place.
func (g Grid) Component(actionPath string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		g.writeHTML(&b, actionPath)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func (g Grid) writeHTML(b *strings.Builder, actionPath string) {
	esc := templ.EscapeString[string]

	b.WriteString(`<table id="` + esc(g.TestID) + `" data-testid="` + esc(g.TestID) + `" class="min-w-full divide-y divide-gray-200">`)
	b.WriteString(`<thead class="bg-gray-50"><tr>`)
	for _, h := range g.Headers {
		b.WriteString(`<th data-testid="` + esc(h.ID) + `" class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">`)
		b.WriteString(esc(h.Text))
		b.WriteString(`</th>`)
	}
	b.WriteString(`</tr></thead>`)

	b.WriteString(`<tbody class="bg-white divide-y divide-gray-200">`)
	for _, row := range g.Rows {
		b.WriteString(`<tr>`)
		for _, c := range row {
			b.WriteString(`<td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900" data-testid="` + esc(c.ID) + `">`)
			if c.Control != nil {
				writeControl(b, g.TestID, c.Control, actionPath)
			} else {
				b.WriteString(esc(c.Text))
			}
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

func writeControl(b *strings.Builder, tableID string, c *Control, actionPath string) {
	esc := templ.EscapeString[string]

	classes := buttonClasses[c.Style]
	if classes == "" {
		classes = buttonClasses[StylePrimary]
	}
	button := `<button data-testid="` + esc(c.ID) + `" class="px-3 py-1 rounded text-sm ` + classes + `"`

	if actionPath == "" {
		b.WriteString(button + ` type="button">` + esc(c.Label) + `</button>`)
		return
	}

	target := strings.TrimSuffix(actionPath, "/") + "/" + c.ID
	b.WriteString(`<form method="post" action="` + esc(target) + `" hx-post="` + esc(target) +
		`" hx-target="#` + esc(tableID) + `" hx-swap="outerHTML">`)
	b.WriteString(`<input type="hidden" name="` + RowFormField + `" value="` + esc(c.RowID) + `">`)
	b.WriteString(button + ` type="submit">` + esc(c.Label) + `</button>`)
	b.WriteString(`</form>`)
}
