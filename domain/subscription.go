package domain

import (
	"context"
	"time"
)

// Subscription is an edge from a subscriber to a channel (both Users),
// unique per pair.
type Subscription struct {
	ID           int `json:"id"`
	SubscriberID int `json:"subscriber_id" gorm:"notNull;uniqueIndex:idx_subscription_pair;index:idx_subscription_subscriber"`
	ChannelID    int `json:"channel_id" gorm:"notNull;uniqueIndex:idx_subscription_pair;index:idx_subscription_channel"`

	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionService toggles and lists subscriptions.
type SubscriptionService interface {
	// ToggleSubscription subscribes the viewer to the channel, or
	// unsubscribes if a subscription already exists. It reports the
	// resulting state.
	ToggleSubscription(ctx context.Context, viewer *User, channelID int) (bool, error)
	// SubscribersOf lists the users subscribed to a channel, each with
	// their own subscriber count and the viewer's subscription state
	// toward them.
	SubscribersOf(ctx context.Context, viewer *User, channelID int) ([]Channel, error)
	// ChannelsOf lists the channels a user is subscribed to.
	ChannelsOf(ctx context.Context, viewer *User, userID int) ([]Channel, error)
}
