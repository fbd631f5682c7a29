// Package events publishes domain events to NATS so downstream consumers
// (notifications, analytics) can react without the API waiting on them.
// Publishing is best-effort: a nil Publisher or a failed publish never
// fails the request that triggered it.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"wtfTube/domain"
)

// Subjects events are published on.
const (
	SubjectReactionToggled     = "wtftube.reactions.toggled"
	SubjectSubscriptionToggled = "wtftube.subscriptions.toggled"
)

// Publisher wraps a NATS connection. All methods are safe to call on a
// nil receiver, which is how the app runs when no broker is configured.
type Publisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewPublisher returns a Publisher over an established NATS connection.
func NewPublisher(conn *nats.Conn, logger *zap.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

// ReactionToggledEvent is emitted after a reaction toggle commits.
type ReactionToggledEvent struct {
	SubjectType string    `json:"subject_type"`
	SubjectID   int       `json:"subject_id"`
	UserID      int       `json:"user_id"`
	Liked       bool      `json:"liked"`
	Disliked    bool      `json:"disliked"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// SubscriptionToggledEvent is emitted after a subscription toggle commits.
type SubscriptionToggledEvent struct {
	SubscriberID int       `json:"subscriber_id"`
	ChannelID    int       `json:"channel_id"`
	Subscribed   bool      `json:"subscribed"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ReactionToggled publishes the outcome of a committed reaction toggle.
func (p *Publisher) ReactionToggled(subjectType string, subjectID, userID int, state domain.ReactionState) {
	p.publish(SubjectReactionToggled, &ReactionToggledEvent{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		UserID:      userID,
		Liked:       state.Liked,
		Disliked:    state.Disliked,
		OccurredAt:  time.Now().UTC(),
	})
}

// SubscriptionToggled publishes the outcome of a committed subscription toggle.
func (p *Publisher) SubscriptionToggled(subscriberID, channelID int, subscribed bool) {
	p.publish(SubjectSubscriptionToggled, &SubscriptionToggledEvent{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		Subscribed:   subscribed,
		OccurredAt:   time.Now().UTC(),
	})
}

func (p *Publisher) publish(subject string, event interface{}) {
	if p == nil || p.conn == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn("publish event", zap.String("subject", subject), zap.Error(err))
	}
}
