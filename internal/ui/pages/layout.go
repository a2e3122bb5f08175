// Package pages holds the small HTML pages reached from email links.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const styles = `
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif;display:flex;align-items:center;justify-content:center;min-height:100vh;margin:0;padding:20px;box-sizing:border-box;background:#FAFAFA;color:#333}
.container{text-align:center;width:100%;max-width:480px;padding:48px 32px;background:#fff;border:1px solid #E5E4E2;border-radius:16px}
.icon{font-size:40px;margin-bottom:16px}
h1{font-size:26px;font-weight:600;margin:0 0 16px;color:#1F2937}
p{color:#6B7280;line-height:1.6;margin:0 0 16px}
.goal{background:#FAFAFA;border-left:3px solid #C0C0C0;padding:15px;margin:20px 0;font-style:italic;text-align:left}
a{color:#1F2937}
`

// page describes the single card every page renders.
type page struct {
	Title   string
	Icon    string
	Heading string
	Message string
	Quote   string
	AppName string
	AppURL  string
}

func layout(p page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := p.Title
		if p.AppName != "" {
			title += " - " + p.AppName
		}

		parts := []string{
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<meta name="robots" content="noindex">`,
			`<title>`, templ.EscapeString(title), `</title>`,
			`<style nonce="`, templ.EscapeString(templ.GetNonce(ctx)), `">`, styles, `</style>`,
			`</head><body><div class="container">`,
		}
		if p.Icon != "" {
			parts = append(parts, `<div class="icon">`, templ.EscapeString(p.Icon), `</div>`)
		}
		parts = append(parts, `<h1>`, templ.EscapeString(p.Heading), `</h1>`)
		if p.Message != "" {
			parts = append(parts, `<p>`, templ.EscapeString(p.Message), `</p>`)
		}
		if p.Quote != "" {
			parts = append(parts, `<div class="goal">&ldquo;`, templ.EscapeString(p.Quote), `&rdquo;</div>`)
		}
		if p.AppURL != "" {
			parts = append(parts, `<p><a href="`, templ.EscapeString(p.AppURL), `">Back to `, templ.EscapeString(p.AppName), `</a></p>`)
		}
		parts = append(parts, `</div></body></html>`)

		for _, part := range parts {
			_, err := io.WriteString(w, part)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
