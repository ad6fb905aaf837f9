package messaging

import "context"

// Broker publishes domain events to named channels. Consumers live in other
// systems; nothing in this module subscribes.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}
