package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/wordrush/internal/api/response"
	"github.com/mcoot/wordrush/internal/model"
)

// Event names for rendered fragments. JSON events use the model event type.
const (
	EventStatePanel = "state-panel"
)

// Broadcaster delivers match events to SSE clients. It implements
// match.Notifier.
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Notify broadcasts an event to the match's clients, if any are connected.
// State changes are also sent as a rendered state panel for the web page.
func (b *Broadcaster) Notify(event model.Event) {
	hub := b.hubManager.GetHub(event.MatchID)
	if hub == nil {
		return
	}

	msg, err := EncodeEvent(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("match_id", string(event.MatchID)),
			slog.Any("error", err))
		return
	}
	hub.Broadcast(msg)

	if event.Type == model.EventStateChanged && event.State != nil {
		html, err := b.renderer.RenderStatePanel(context.Background(), event.MatchID, event.State)
		if err != nil {
			b.logger.Error("sse failed to render state panel",
				slog.String("match_id", string(event.MatchID)),
				slog.Any("error", err))
		} else {
			hub.BroadcastEvent(EventStatePanel, html)
		}
	}

	if event.Type == model.EventMatchClosed {
		b.hubManager.RemoveHub(event.MatchID)
	}
}

// EncodeEvent formats a model event as an SSE message with a JSON payload
func EncodeEvent(event model.Event) ([]byte, error) {
	data, err := json.Marshal(response.EventFromModel(event))
	if err != nil {
		return nil, err
	}
	return formatSSEMessage(string(event.Type), string(data)), nil
}
