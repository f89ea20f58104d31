package service

import (
	"context"

	"github.com/labstack/gommon/log"

	"medstore/internal/broadcast"
)

// Broadcast event names.
const (
	EventMedicineLookup = "thuoc_tuong_ung"
	EventOrderCreated   = "don_thuoc_moi"
	EventOrderFetched   = "don_thuoc"
)

// Publisher fans a payload out to connected real-time clients.
type Publisher interface {
	Publish(ctx context.Context, payload interface{}) (int, error)
}

// publish pushes data under event. It is best-effort: failures are logged and
// never reach the caller, and the push is not cut short when the request that
// triggered it is cancelled.
func publish(ctx context.Context, pub Publisher, event string, data interface{}) {
	if pub == nil {
		return
	}
	if _, err := pub.Publish(context.WithoutCancel(ctx), broadcast.Event{Event: event, Data: data}); err != nil {
		log.Warnf("broadcast %s: %v", event, err)
	}
}
