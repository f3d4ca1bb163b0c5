package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Page wraps body in the site layout. Pages listen for server-sent events with
// the htmx sse extension.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s - Wordrush</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<script src="https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"></script>
</head>
<body>
<header><h1><a href="/">Wordrush</a></h1></header>
<main>
`, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}

// ErrorPage renders a full page with a single message
func ErrorPage(title, message string) templ.Component {
	return Page(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="error"><h2>%s</h2><p>%s</p></section>`,
			templ.EscapeString(title), templ.EscapeString(message))
		return err
	}))
}
