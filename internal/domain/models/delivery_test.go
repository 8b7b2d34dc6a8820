package models

import (
	"errors"
	"testing"
)

func TestCheckTransition(t *testing.T) {
	all := []PaymentStatus{StatusPending, StatusApproved, StatusRejected, StatusPaid}
	allowed := map[[2]PaymentStatus]bool{
		{StatusPending, StatusApproved}: true,
		{StatusPending, StatusRejected}: true,
		{StatusApproved, StatusPaid}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			from, to := from, to
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				err := CheckTransition(from, to)
				if allowed[[2]PaymentStatus{from, to}] {
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					return
				}
				var ite InvalidTransitionError
				if !errors.As(err, &ite) {
					t.Fatalf("err = %v, want InvalidTransitionError", err)
				}
				if ite.From != from || ite.To != to {
					t.Fatalf("error names %s -> %s, want %s -> %s", ite.From, ite.To, from, to)
				}
			})
		}
	}
}

func TestCheckTransitionUnknownStatus(t *testing.T) {
	err := CheckTransition("Shipped", StatusPaid)
	if !IsInvalidTransition(err) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}
	if got, want := err.Error(), "invalid status transition from Shipped to Paid"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}
