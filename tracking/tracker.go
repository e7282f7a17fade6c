// Package tracking simulates delivery progress for a profile's latest order.
// Status advances one step per interval along Placed, Preparing,
// OutForDelivery, Delivered and stops at Delivered.
package tracking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"fusion6/models"
	"fusion6/order"
	"fusion6/store"
)

const (
	DefaultInterval  = 6 * time.Second
	DefaultETAOffset = 25 * time.Minute
)

// ErrOrderNotFound is returned by Open when the profile has no latest order.
var ErrOrderNotFound = order.ErrOrderNotFound

type Progress struct {
	OrderID string             `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
	Label   string             `json:"label"`
	Step    int                `json:"step"`
	Steps   int                `json:"steps"`
	ETA     time.Time          `json:"eta"`
	Done    bool               `json:"done"`
}

type Options struct {
	Interval  time.Duration
	ETAOffset time.Duration
	Scheduler Scheduler
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.ETAOffset <= 0 {
		o.ETAOffset = DefaultETAOffset
	}
	if o.Scheduler == nil {
		o.Scheduler = TickerScheduler{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

type Tracker struct {
	opts   Options
	latest models.LatestOrder
	eta    time.Time

	mu       sync.Mutex
	status   models.OrderStatus
	handle   Handle
	onChange func(Progress)
	stopped  bool
}

// Open loads the latest order of a profile. The ETA is fixed here and not
// revised as the status advances.
func Open(ctx context.Context, profile *store.Store, opts Options) (*Tracker, error) {
	latest, err := order.LoadLatest(ctx, profile)
	if err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	return &Tracker{
		opts:   opts,
		latest: latest,
		eta:    latest.Timestamp.Add(opts.ETAOffset),
		status: models.StatusPlaced,
	}, nil
}

func (t *Tracker) Order() models.LatestOrder {
	return t.latest
}

func (t *Tracker) ETA() time.Time {
	return t.eta
}

func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progressLocked()
}

func (t *Tracker) progressLocked() Progress {
	return Progress{
		OrderID: t.latest.OrderID,
		Status:  t.status,
		Label:   t.status.Label(),
		Step:    int(t.status) + 1,
		Steps:   len(models.OrderStatuses()),
		ETA:     t.eta,
		Done:    t.status.Terminal(),
	}
}

// Start begins advancing the status. onChange, if set, receives every new
// status. Calling Start on a running, finished or stopped tracker does nothing.
func (t *Tracker) Start(onChange func(Progress)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handle != nil || t.stopped || t.status.Terminal() {
		return
	}
	t.onChange = onChange
	t.handle = t.opts.Scheduler.Every(t.opts.Interval, t.advance)
}

func (t *Tracker) advance() {
	t.mu.Lock()
	if t.stopped || t.status.Terminal() {
		t.mu.Unlock()
		return
	}

	t.status++
	p := t.progressLocked()
	if p.Done {
		t.stopLocked()
	}
	onChange := t.onChange
	t.mu.Unlock()

	t.opts.Logger.Debug("tracking advanced",
		zap.String("order_id", p.OrderID),
		zap.Stringer("status", p.Status))

	if onChange != nil {
		onChange(p)
	}
}

// Stop cancels the timer. The tracker cannot be restarted afterwards.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.stopLocked()
}

func (t *Tracker) stopLocked() {
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
}

// Running reports whether the timer is still scheduled.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle != nil
}
