package slot

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/schedpolicy/internal/logging"
	"github.com/example/schedpolicy/interval"
)

// HostFilter narrows the hosts an Adapter returns.
type HostFilter struct {
	HostIDs     []string
	EventTypeID string
}

// BookingFilter narrows the bookings/blocks an Adapter returns.
type BookingFilter struct {
	HostIDs []string
	Range   Range
}

// Range is a half-open UTC query window, duplicated here (rather than
// aliased to interval.Interval) so adapter signatures read in domain terms.
type Range struct {
	Start time.Time
	End   time.Time
}

// Adapter is the caller-supplied collaborator an Engine wraps: everything
// needed to turn a bare event-type id and host filter into concrete
// schedules, bookings and busy time.
type Adapter interface {
	GetEventType(ctx context.Context, eventTypeID string) (EventType, error)
	GetHosts(ctx context.Context, filter HostFilter) ([]Host, error)
	GetBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
}

// BlockAdapter is implemented by adapters that also track opaque busy
// blocks. It is optional: an Engine whose Adapter doesn't implement it
// simply sees no blocks.
type BlockAdapter interface {
	GetBlocks(ctx context.Context, filter BookingFilter) ([]Block, error)
}

// BufferAdapter is implemented by adapters that maintain a buffer table
// keyed by event-type id. It is optional: when absent, a booking's
// EventTypeID equal to the queried event type borrows that event type's own
// buffers, and every other booking is treated as bufferless.
type BufferAdapter interface {
	GetEventTypeBuffers(ctx context.Context, eventTypeIDs []string) (map[string]Buffers, error)
}

// Engine wraps an Adapter so callers can ask for availability by id rather
// than assembling an AvailabilityInput by hand.
type Engine struct {
	adapter Adapter
	logger  *slog.Logger
	now     func() time.Time
}

// NewEngine builds an Engine that logs to slog.Default().
func NewEngine(adapter Adapter) *Engine {
	return NewEngineWithLogger(adapter, nil)
}

// NewEngineWithLogger builds an Engine that logs to logger (or
// slog.Default() if nil).
func NewEngineWithLogger(adapter Adapter, logger *slog.Logger) *Engine {
	return &Engine{adapter: adapter, logger: logging.Default(logger), now: time.Now}
}

// GetAvailableSlots resolves eventTypeID and filter through the adapter and
// runs the slot generator. A nil at uses the engine's clock (time.Now by
// default, overridable in tests).
func (e *Engine) GetAvailableSlots(ctx context.Context, eventTypeID string, filter HostFilter, rng Range, at *time.Time) ([]Slot, error) {
	logger := logging.Service(ctx, e.logger, "slot.Engine", "GetAvailableSlots", "event_type_id", eventTypeID)

	eventType, err := e.adapter.GetEventType(ctx, eventTypeID)
	if err != nil {
		logger.Error("load event type failed", "error", err)
		return nil, err
	}

	hosts, err := e.adapter.GetHosts(ctx, filter)
	if err != nil {
		logger.Error("load hosts failed", "error", err)
		return nil, err
	}

	hostIDs := make([]string, 0, len(hosts))
	for _, h := range hosts {
		hostIDs = append(hostIDs, h.ID)
	}
	bookingFilter := BookingFilter{HostIDs: hostIDs, Range: rng}

	bookings, err := e.adapter.GetBookings(ctx, bookingFilter)
	if err != nil {
		logger.Error("load bookings failed", "error", err)
		return nil, err
	}

	var blocks []Block
	if ba, ok := e.adapter.(BlockAdapter); ok {
		blocks, err = ba.GetBlocks(ctx, bookingFilter)
		if err != nil {
			logger.Error("load blocks failed", "error", err)
			return nil, err
		}
	}

	var buffers map[string]Buffers
	if ba, ok := e.adapter.(BufferAdapter); ok {
		eventTypeIDs := collectEventTypeIDs(bookings, eventTypeID)
		buffers, err = ba.GetEventTypeBuffers(ctx, eventTypeIDs)
		if err != nil {
			logger.Error("load event type buffers failed", "error", err)
			return nil, err
		}
	}

	now := e.now()
	if at != nil {
		now = *at
	}

	input := AvailabilityInput{
		EventType:  eventType,
		Hosts:      hosts,
		Bookings:   bookings,
		Blocks:     blocks,
		Range:      rangeToInterval(rng),
		EventTypes: buffers,
	}

	slots := GetAvailableSlots(input, now)
	logger.Info("slots computed", "count", len(slots))
	return slots, nil
}

func collectEventTypeIDs(bookings []Booking, eventTypeID string) []string {
	seen := map[string]struct{}{eventTypeID: {}}
	ids := []string{eventTypeID}
	for _, b := range bookings {
		if b.EventTypeID == "" {
			continue
		}
		if _, ok := seen[b.EventTypeID]; ok {
			continue
		}
		seen[b.EventTypeID] = struct{}{}
		ids = append(ids, b.EventTypeID)
	}
	return ids
}

func rangeToInterval(r Range) interval.Interval {
	return interval.Interval{Start: r.Start, End: r.End}
}
