package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// Notification mirrors the API's notification payload.
type Notification struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Poller fetches notifications on a fixed interval while running. There is no
// coalescing or backpressure; a slow fetch simply delays the next tick.
type Poller struct {
	client   *resty.Client
	store    Store
	interval time.Duration
}

const DefaultPollInterval = 30 * time.Second

func NewPoller(apiBaseURL string, store Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:   newClient(apiBaseURL),
		store:    store,
		interval: interval,
	}
}

type notificationsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Notifications []Notification `json:"notifications"`
	} `json:"data"`
}

// Run polls until ctx is done, invoking deliver with each successful fetch.
// Fetch failures are logged and the loop keeps going.
func (p *Poller) Run(ctx context.Context, deliver func([]Notification)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fetchOnce(ctx, deliver)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchOnce(ctx, deliver)
		}
	}
}

func (p *Poller) fetchOnce(ctx context.Context, deliver func([]Notification)) {
	pair, ok := p.store.Get()
	if !ok {
		return
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(pair.AccessToken).
		Get("/notifications")
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("notification poll failed: ", err)
		}
		return
	}
	if resp.StatusCode() != http.StatusOK {
		return
	}

	var body notificationsResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || !body.Success {
		return
	}

	deliver(body.Data.Notifications)
}
