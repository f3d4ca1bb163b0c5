package sse

import (
	"bytes"
	"context"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/web/view"
)

// Renderer converts match state to HTML fragments for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderStatePanel renders the state panel component as HTML
func (r *Renderer) RenderStatePanel(ctx context.Context, matchID model.MatchID, state model.GameState) (string, error) {
	var buf bytes.Buffer
	err := view.StatePanel(matchID, state).Render(ctx, &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
