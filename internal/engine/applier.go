package engine

import (
	"context"
	"errors"
	"fmt"

	"skyops/copilot/internal/constants"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/models/entities"
)

// ErrNotFound is returned when an option references a flight or pilot absent
// from the store at apply time. The application fails without partial
// mutation; it never silently no-ops.
var ErrNotFound = errors.New("not found")

// FlightStore is the flight side of the record store, keyed by string id.
type FlightStore interface {
	GetFlight(ctx context.Context, id string) (*entities.Flight, error)
	UpdateFlightFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// PilotStore is the pilot side of the record store.
type PilotStore interface {
	GetPilot(ctx context.Context, id string) (*entities.Pilot, error)
	UpdatePilotFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// Store is the backing record store. Atomically runs fn against a
// transactional view; if fn errors every update inside it is rolled back.
// The two-flight swap depends on this.
type Store interface {
	FlightStore
	PilotStore
	Atomically(ctx context.Context, fn func(Store) error) error
}

// Notifier delivers passenger notifications. Delivery failure must never
// block a state mutation; the applier logs and continues.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Notification is the outbound passenger message.
type Notification struct {
	FlightID    string
	Origin      string
	Destination string
	StatusType  string
	Reason      string
	Detail      string
}

// Action is the typed form of an option payload. Converting before applying
// gives an exhaustive switch over the action variants instead of ad hoc
// field lookups.
type Action interface {
	isAction()
}

type CancelAction struct {
	FlightID string
}

type AssignAction struct {
	FlightID string
	PilotID  string
}

type DelayAction struct {
	FlightID string
	Minutes  int
	Reason   string
	Manual   bool
}

type SwapAction struct {
	FlightID       string
	TargetFlightID string
}

func (CancelAction) isAction() {}
func (AssignAction) isAction() {}
func (DelayAction) isAction()  {}
func (SwapAction) isAction()   {}

// Action decodes the option into its typed variant. A DELAY option missing a
// minutes value falls back to the documented 60-minute default so resolution
// stays robust against partial client input.
func (o *Option) Action() (Action, error) {
	if o.Payload.FlightID == "" {
		return nil, fmt.Errorf("option %s: payload missing flight id", o.ID)
	}
	switch o.ActionType {
	case ActionCancel:
		return CancelAction{FlightID: o.Payload.FlightID}, nil
	case ActionAssign:
		if o.Payload.PilotID == "" {
			return nil, fmt.Errorf("option %s: assign payload missing pilot id", o.ID)
		}
		return AssignAction{FlightID: o.Payload.FlightID, PilotID: o.Payload.PilotID}, nil
	case ActionDelayApply, ActionDelayManual:
		minutes := o.Payload.Minutes
		if minutes <= 0 {
			minutes = constants.DefaultDelayMinutes
		}
		reason := o.Title
		manual := o.ActionType == ActionDelayManual
		if manual {
			reason = constants.ReasonManualOverride
		}
		return DelayAction{FlightID: o.Payload.FlightID, Minutes: minutes, Reason: reason, Manual: manual}, nil
	case ActionSwapFlight:
		if o.Payload.TargetFlightID == "" {
			return nil, fmt.Errorf("option %s: swap payload missing target flight id", o.ID)
		}
		return SwapAction{FlightID: o.Payload.FlightID, TargetFlightID: o.Payload.TargetFlightID}, nil
	}
	return nil, fmt.Errorf("option %s: unknown action type %q", o.ID, o.ActionType)
}

// ApplyEffect reports what an approved option changed.
type ApplyEffect struct {
	Log []string `json:"log"`
}

// ApplyResolution mutates flight/pilot state for an approved option. Each
// branch queues a passenger notification afterwards; notification failure is
// logged and never rolls anything back.
func ApplyResolution(ctx context.Context, store Store, notifier Notifier, opt Option) (*ApplyEffect, error) {
	action, err := opt.Action()
	if err != nil {
		return nil, err
	}

	effect := &ApplyEffect{}
	switch a := action.(type) {
	case CancelAction:
		err = applyCancel(ctx, store, notifier, a, effect)
	case AssignAction:
		err = applyAssign(ctx, store, notifier, a, effect)
	case DelayAction:
		err = applyDelay(ctx, store, notifier, a, effect)
	case SwapAction:
		err = applySwap(ctx, store, notifier, a, effect)
	}
	if err != nil {
		return nil, err
	}
	return effect, nil
}

func applyCancel(ctx context.Context, store Store, notifier Notifier, a CancelAction, effect *ApplyEffect) error {
	flight, err := store.GetFlight(ctx, a.FlightID)
	if err != nil {
		return err
	}
	if err := store.UpdateFlightFields(ctx, a.FlightID, map[string]interface{}{
		"status": entities.FlightCancelled,
	}); err != nil {
		return err
	}
	effect.Log = append(effect.Log, fmt.Sprintf("Operator cancelled %s.", a.FlightID))

	notify(ctx, notifier, Notification{
		FlightID:    a.FlightID,
		Origin:      flight.Origin,
		Destination: flight.Destination,
		StatusType:  "CANCELLED",
		Reason:      "Operational decision due to safety risks",
		Detail:      "Please contact counter for refund/rebooking.",
	})
	return nil
}

func applyAssign(ctx context.Context, store Store, notifier Notifier, a AssignAction, effect *ApplyEffect) error {
	flight, err := store.GetFlight(ctx, a.FlightID)
	if err != nil {
		return err
	}
	pilot, err := store.GetPilot(ctx, a.PilotID)
	if err != nil {
		return err
	}
	if err := store.UpdateFlightFields(ctx, a.FlightID, map[string]interface{}{
		"status":                   entities.FlightScheduled,
		"assigned_pilot_id":        pilot.ID,
		"pilot_name":               pilot.Name,
		"predicted_failure":        false,
		"predicted_failure_reason": nil,
	}); err != nil {
		return err
	}
	effect.Log = append(effect.Log, fmt.Sprintf("Assigned %s to %s.", pilot.Name, a.FlightID))

	notify(ctx, notifier, Notification{
		FlightID:    a.FlightID,
		Origin:      flight.Origin,
		Destination: flight.Destination,
		StatusType:  "RESCHEDULED",
		Reason:      "Crew change",
		Detail:      "A fresh crew has been assigned to your flight.",
	})
	return nil
}

func applyDelay(ctx context.Context, store Store, notifier Notifier, a DelayAction, effect *ApplyEffect) error {
	flight, err := store.GetFlight(ctx, a.FlightID)
	if err != nil {
		return err
	}
	if err := store.UpdateFlightFields(ctx, a.FlightID, map[string]interface{}{
		"status":            entities.FlightDelayed,
		"delay_minutes":     a.Minutes,
		"delay_reason":      a.Reason,
		"predicted_failure": false,
	}); err != nil {
		return err
	}
	effect.Log = append(effect.Log, fmt.Sprintf("Applied %dm delay to %s (%s).", a.Minutes, a.FlightID, a.Reason))

	notify(ctx, notifier, Notification{
		FlightID:    a.FlightID,
		Origin:      flight.Origin,
		Destination: flight.Destination,
		StatusType:  "DELAYED",
		Reason:      a.Reason,
		Detail:      fmt.Sprintf("New estimated delay: %d mins.", a.Minutes),
	})
	return nil
}

// applySwap performs the symmetric exchange: the source flight adopts the
// target's schedule, pilot and flight number and becomes SWAPPED with its
// delay cleared; the target adopts the source's original schedule, pilot and
// flight number and inherits the source's former delay with a swap-prefixed
// reason. Both updates happen inside one transaction so a failed second
// update rolls back the first.
func applySwap(ctx context.Context, store Store, notifier Notifier, a SwapAction, effect *ApplyEffect) error {
	var source, target *entities.Flight

	err := store.Atomically(ctx, func(tx Store) error {
		var err error
		source, err = tx.GetFlight(ctx, a.FlightID)
		if err != nil {
			return err
		}
		target, err = tx.GetFlight(ctx, a.TargetFlightID)
		if err != nil {
			return err
		}

		inheritedReason := "Operational Swap"
		if source.DelayReason != nil {
			inheritedReason = *source.DelayReason
		}

		if err := tx.UpdateFlightFields(ctx, source.ID, map[string]interface{}{
			"status":              entities.FlightSwapped,
			"delay_minutes":       0,
			"delay_reason":        nil,
			"predicted_failure":   false,
			"assigned_pilot_id":   target.AssignedPilotID,
			"pilot_name":          target.PilotName,
			"scheduled_departure": target.ScheduledDeparture,
			"scheduled_arrival":   target.ScheduledArrival,
			"flight_number":       target.FlightNumber,
		}); err != nil {
			return err
		}

		return tx.UpdateFlightFields(ctx, target.ID, map[string]interface{}{
			"status":              entities.FlightSwapped,
			"delay_minutes":       source.DelayMinutes,
			"delay_reason":        fmt.Sprintf("Swapped w/ %s: %s", source.ID, inheritedReason),
			"predicted_failure":   false,
			"assigned_pilot_id":   source.AssignedPilotID,
			"pilot_name":          source.PilotName,
			"scheduled_departure": source.ScheduledDeparture,
			"scheduled_arrival":   source.ScheduledArrival,
			"flight_number":       source.FlightNumber,
		})
	})
	if err != nil {
		return err
	}
	effect.Log = append(effect.Log, fmt.Sprintf("Full swap (times & crew) %s <-> %s.", source.ID, target.ID))

	notify(ctx, notifier, Notification{
		FlightID:    source.ID,
		Origin:      source.Origin,
		Destination: source.Destination,
		StatusType:  "SWAPPED",
		Reason:      "Aircraft Change",
		Detail:      fmt.Sprintf("Your flight is now operating as %s (On Time).", target.FlightNumber),
	})
	notify(ctx, notifier, Notification{
		FlightID:    target.ID,
		Origin:      target.Origin,
		Destination: target.Destination,
		StatusType:  "RESCHEDULED",
		Reason:      fmt.Sprintf("Swapped w/ %s", source.FlightNumber),
		Detail:      fmt.Sprintf("New departure time: %s. Delay: %dm.", source.ScheduledDeparture.Format("15:04"), source.DelayMinutes),
	})
	return nil
}

func notify(ctx context.Context, notifier Notifier, n Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		logging.Warn("passenger notification failed",
			"flight_id", n.FlightID,
			"status_type", n.StatusType,
			"error", err.Error(),
		)
	}
}
