package events

import "context"

// Buzz entries are fanned out over this stream so the admin panel's
// live feed sees them as they are recorded.
const StreamBuzz = "events:buzz"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
