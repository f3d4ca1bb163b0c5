package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// HomePage renders the landing page with a form to open a match scoreboard
func HomePage(liveMatches int) templ.Component {
	return Page("Home", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="home">
<p class="live-count">%d live matches</p>
<form method="get" action="/">
<label for="match">Match ID</label>
<input id="match" name="match" type="text" required>
<button type="submit">Watch</button>
</form>
</section>`, liveMatches)
		return err
	}))
}
