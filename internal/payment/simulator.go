// Package payment contains the simulated payment gateway.  The real
// collaborator is out of scope; this one approves or declines based on
// the "status" metadata supplied with the charge, mirroring the
// simulated checkout form the service exposes.
package payment

import (
    "context"

    "github.com/google/uuid"

    "github.com/iliyamo/concert-ticket-reservation/internal/booking"
)

// Simulator implements booking.Gateway.  A charge is approved unless
// Metadata["status"] is "failed"; every approval gets a fresh UUID as
// the payment reference.
type Simulator struct{}

// NewSimulator returns a simulated gateway.
func NewSimulator() *Simulator { return &Simulator{} }

// Charge implements booking.Gateway.
func (s *Simulator) Charge(_ context.Context, req booking.ChargeRequest) (booking.ChargeResult, error) {
    if req.Metadata["status"] == "failed" {
        return booking.ChargeResult{Approved: false}, nil
    }
    return booking.ChargeResult{
        Approved:  true,
        Reference: uuid.NewString(),
    }, nil
}
