package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skillearn/skillearn-backend/pkg/config"
	"github.com/skillearn/skillearn-backend/pkg/logger"
)

type channelPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Publisher fans wallet events out to the notification channel. Delivery is
// best-effort: a failed publish is logged and swallowed so it never sits on
// the critical path of a committed transaction.
type Publisher interface {
	Publish(ctx context.Context, event WalletEvent)
}

type publisher struct {
	redis   channelPublisher
	channel string
	logg    *logger.Logger
}

// NewPublisher wires a redis-backed event publisher.
func NewPublisher(redis channelPublisher, cfg config.NotificationsConfig, logg *logger.Logger) (Publisher, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis publisher required")
	}
	if cfg.Channel == "" {
		return nil, fmt.Errorf("notification channel required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &publisher{redis: redis, channel: cfg.Channel, logg: logg}, nil
}

func (p *publisher) Publish(ctx context.Context, event WalletEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logg.Error(ctx, fmt.Sprintf("marshaling wallet event %s", event.Type), err)
		return
	}
	if err := p.redis.Publish(ctx, p.channel, payload); err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "event_type", string(event.Type)), "wallet event publish failed, dropping")
	}
}
