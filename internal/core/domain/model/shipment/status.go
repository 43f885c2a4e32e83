package shipment

import (
	"fmt"

	"logistics/internal/pkg/errs"
)

// Status represents the lifecycle state of a shipment moving through the
// delivery pipeline. Like order.Status it is backed by an explicit transition
// table evaluated before any write.
//
// State transitions:
//
//	Pending ──> PickedUp ──> Processing ──> InTransit ──> OutForDelivery ──> Delivered
//	   │            │             │              │               │
//	   │            │             │              │               └──> Failed
//	   └────────────┴─────────────┴──────────────┴──> Cancelled
//
// Delivered, Failed and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status: the shipment is registered but the
	// carrier has not collected it yet.
	Pending

	// PickedUp indicates the carrier collected the shipment.
	PickedUp

	// Processing indicates the shipment is at a sorting facility.
	Processing

	// InTransit indicates the shipment is moving between facilities.
	InTransit

	// OutForDelivery indicates the shipment is on the last leg.
	OutForDelivery

	// Delivered indicates a successful handover. Terminal.
	Delivered

	// Failed indicates the final delivery attempt failed. Terminal.
	Failed

	// Cancelled indicates the shipment was aborted. Terminal, reachable
	// from any non-terminal status.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		PickedUp:       "PICKED_UP",
		Processing:     "PROCESSING",
		InTransit:      "IN_TRANSIT",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Failed:         "FAILED",
		Cancelled:      "CANCELLED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "PENDING",
		PickedUp:       "PICKED_UP",
		Processing:     "PROCESSING",
		InTransit:      "IN_TRANSIT",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Failed:         "FAILED",
		Cancelled:      "CANCELLED",
	}
}

// transitions is the closed set of legal pipeline moves. Cancelled is handled
// separately in CanTransitionTo since it is reachable from every non-terminal
// status.
func transitions() map[Status]map[Status]struct{} {
	return map[Status]map[Status]struct{}{
		Pending:        {PickedUp: {}},
		PickedUp:       {Processing: {}},
		Processing:     {InTransit: {}},
		InTransit:      {OutForDelivery: {}},
		OutForDelivery: {Delivered: {}, Failed: {}},
	}
}

// StatusFromString parses the wire representation of a status.
// "CREATED" is accepted as a legacy alias for PENDING.
func StatusFromString(s string) (Status, error) {
	if s == "CREATED" {
		return Pending, nil
	}
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid shipment status", s))
}

// Validate checks that the Status value is one of the defined statuses.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed || s == Cancelled
}

// CanTransitionTo reports whether the pipeline allows moving to target.
// Cancellation is allowed from any non-terminal status.
func (s Status) CanTransitionTo(target Status) bool {
	if target == Cancelled {
		return !s.IsTerminal() && s.Validate() == nil
	}

	allowed, ok := transitions()[s]
	if !ok {
		return false
	}
	_, ok = allowed[target]
	return ok
}

// TransitionTo returns the target status when the change is legal.
// Returns an InvalidTransition error, leaving the receiver untouched, when the
// pipeline does not allow (current, target).
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewInvalidTransitionError("shipment", s.String(), target.String())
	}

	return target, nil
}
