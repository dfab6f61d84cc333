package summary

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// RenderReport renders the report component into an email body.
func RenderReport(ctx context.Context, title string, s Summary) (string, error) {
	var sb strings.Builder
	if err := Report(title, s).Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Report renders s as the HTML body of the summary email.
func Report(title string, s Summary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;color:#333">`)
		b.WriteString(`<h2>`)
		b.WriteString(templ.EscapeString(title))
		b.WriteString(`</h2>`)

		section(&b, "Active files", s.ActiveEntries, s.ActiveMB())
		section(&b, "Recycle bin", s.RecycleEntries, s.RecycleMB())

		if len(s.Skipped) > 0 {
			b.WriteString(`<p style="color:#a60">Entries skipped while measuring: `)
			b.WriteString(templ.EscapeString(strings.Join(s.Skipped, ", ")))
			b.WriteString(`</p>`)
		}
		if !s.GeneratedAt.IsZero() {
			b.WriteString(`<p style="color:#888;font-size:12px">Generated at `)
			b.WriteString(templ.EscapeString(s.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST")))
			b.WriteString(`</p>`)
		}
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func section(b *strings.Builder, heading string, names []string, mb string) {
	b.WriteString(`<h3>`)
	b.WriteString(templ.EscapeString(heading))
	b.WriteString(`</h3>`)
	if len(names) == 0 {
		b.WriteString(`<p><em>No files</em></p>`)
	} else {
		b.WriteString(`<ul>`)
		for _, n := range names {
			b.WriteString(`<li>`)
			b.WriteString(templ.EscapeString(n))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`<p><strong>Total:</strong> `)
	b.WriteString(mb)
	b.WriteString(` MB</p>`)
}
