// Command demo wires an in-memory adapter for each core and runs one
// availability query and one entitlement check, printing the results as
// structured log lines. It exists to exercise the wiring, not as a
// service: the cores themselves have no server loop, no config file, and
// no persisted state.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/example/schedpolicy/entitlement"
	"github.com/example/schedpolicy/interval"
	"github.com/example/schedpolicy/limit"
	"github.com/example/schedpolicy/slot"
	"github.com/example/schedpolicy/timewindow"
	"github.com/google/uuid"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	runSlotDemo(ctx, logger)
	runEntitlementDemo(ctx, logger)
}

func runSlotDemo(ctx context.Context, logger *slog.Logger) {
	requestID := uuid.NewString()
	logger = logger.With("request_id", requestID, "demo", "slot")

	adapter := &inMemoryAvailabilityAdapter{
		eventType: slot.EventType{ID: "consult-30m", Length: 30 * time.Minute},
		hosts: []slot.Host{
			{
				ID: "host-1",
				Schedules: map[string]slot.Schedule{
					"default": {
						Rules: []slot.ScheduleRule{
							{
								Days:      []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
								StartTime: timewindow.LocalTime{Hour: 9},
								EndTime:   timewindow.LocalTime{Hour: 17},
								Zone:      time.UTC,
							},
						},
					},
				},
			},
		},
	}

	engine := slot.NewEngineWithLogger(adapter, logger)
	rng := slot.Range{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	slots, err := engine.GetAvailableSlots(ctx, "consult-30m", slot.HostFilter{}, rng, &at)
	if err != nil {
		logger.Error("slot query failed", "error", err)
		return
	}
	logger.Info("slot query complete", "slot_count", len(slots))
}

func runEntitlementDemo(ctx context.Context, logger *slog.Logger) {
	requestID := uuid.NewString()
	logger = logger.With("request_id", requestID, "demo", "entitlement")

	window := timewindow.CalendarWindow(timewindow.UnitMonth, time.UTC)
	adapter := &inMemoryEntitlementAdapter{
		entitlements: map[string]entitlement.Entitlement{
			"post": {Limit: limit.LimitOf(100), Window: &window},
		},
		usage: map[string]int{"post": 50},
	}

	engine := entitlement.NewEngineWithLogger(adapter, logger)
	at := time.Date(2024, 1, 15, 12, 34, 0, 0, time.UTC)

	decision, err := engine.Check(ctx, "actor-1", "post", 1, &at)
	if err != nil {
		logger.Error("entitlement check failed", "error", err)
		return
	}
	logger.Info("entitlement check complete", "allowed", decision.Outcome.Allowed, "explanation", decision.Explanation)
}

type inMemoryAvailabilityAdapter struct {
	eventType slot.EventType
	hosts     []slot.Host
}

func (a *inMemoryAvailabilityAdapter) GetEventType(ctx context.Context, eventTypeID string) (slot.EventType, error) {
	return a.eventType, nil
}

func (a *inMemoryAvailabilityAdapter) GetHosts(ctx context.Context, filter slot.HostFilter) ([]slot.Host, error) {
	return a.hosts, nil
}

func (a *inMemoryAvailabilityAdapter) GetBookings(ctx context.Context, filter slot.BookingFilter) ([]slot.Booking, error) {
	return nil, nil
}

type inMemoryEntitlementAdapter struct {
	entitlements map[string]entitlement.Entitlement
	usage        map[string]int
}

func (a *inMemoryEntitlementAdapter) GetEntitlements(ctx context.Context, actorID string) (map[string]entitlement.Entitlement, error) {
	return a.entitlements, nil
}

func (a *inMemoryEntitlementAdapter) GetUsage(ctx context.Context, actorID, action string, counted interval.Interval) (int, error) {
	return a.usage[action], nil
}
