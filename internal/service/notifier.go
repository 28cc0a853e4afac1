package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DecisionEvent describes one moderation decision for downstream consumers
// (notification senders, dashboards). Published fire-and-forget.
type DecisionEvent struct {
	YearID      string    `json:"year_id"`
	ItemID      uint      `json:"item_id"`
	ItemType    string    `json:"item_type"`
	Action      string    `json:"action"`
	Reason      string    `json:"reason,omitempty"`
	SubmitterID string    `json:"submitter_id"`
	ReviewedBy  string    `json:"reviewed_by"`
	DecidedAt   time.Time `json:"decided_at"`
}

// DecisionNotifier publishes moderation decision events.
type DecisionNotifier interface {
	Publish(ctx context.Context, event DecisionEvent)
}

type decisionNotifier struct {
	redis     *redis.Client
	channel   string
	nats      *nats.Conn
	subject   string
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewDecisionNotifier constructs a notifier over the optional redis and NATS
// connections. Either may be nil; publishing then skips that transport.
func NewDecisionNotifier(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) DecisionNotifier {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":decisions"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".decisions"
	}

	return &decisionNotifier{
		redis:     redisClient,
		channel:   channel,
		nats:      natsConn,
		subject:   subject,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "decision_notifier").Logger(),
	}
}

func (n *decisionNotifier) Publish(ctx context.Context, event DecisionEvent) {
	event.Reason = strings.TrimSpace(n.sanitizer.Sanitize(event.Reason))
	if event.DecidedAt.IsZero() {
		event.DecidedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn().Err(err).Msg("failed to encode decision event")
		return
	}

	if n.redis != nil && n.channel != "" {
		if err := n.redis.Publish(ctx, n.channel, payload).Err(); err != nil {
			n.logger.Warn().Err(err).Uint("item_id", event.ItemID).Msg("failed to publish decision event to redis")
		}
	}

	if n.nats != nil && n.subject != "" {
		if err := n.nats.Publish(n.subject, payload); err != nil {
			n.logger.Warn().Err(err).Uint("item_id", event.ItemID).Msg("failed to publish decision event to nats")
		}
	}
}
