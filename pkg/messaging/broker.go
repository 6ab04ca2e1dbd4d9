package messaging

import (
	"context"
)

// Broker defines the interface for message brokers. The service only
// publishes; consumers subscribe with their own redis clients.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Channels used for alert fan-out. Consumers that prefer push delivery
// over polling the aggregation endpoint subscribe here.
const (
	ChannelAlertCreated = "alerts.created"
)
