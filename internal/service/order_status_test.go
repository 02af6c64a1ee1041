package service

import (
	"testing"

	"github.com/purinorder/purinorder/internal/constants"
)

func TestPaymentStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{constants.PaymentStatusUnpaid, constants.PaymentStatusAwaitingConfirm},
		{constants.PaymentStatusUnpaid, constants.PaymentStatusDepositConfirming},
		{constants.PaymentStatusAwaitingConfirm, constants.PaymentStatusPaid},
		{constants.PaymentStatusAwaitingConfirm, constants.PaymentStatusUnpaid},
		{constants.PaymentStatusDepositConfirming, constants.PaymentStatusDeposited},
		{constants.PaymentStatusDepositConfirming, constants.PaymentStatusUnpaid},
		{constants.PaymentStatusDeposited, constants.PaymentStatusAwaitingConfirm},
		{constants.PaymentStatusDeposited, constants.PaymentStatusPaid},
		{constants.PaymentStatusDeposited, constants.PaymentStatusDepositRefunded},
	}
	for _, tc := range allowed {
		if !CanTransitionPaymentStatus(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{constants.PaymentStatusPaid, constants.PaymentStatusUnpaid},
		{constants.PaymentStatusUnpaid, constants.PaymentStatusPaid},
		{constants.PaymentStatusDepositRefunded, constants.PaymentStatusPaid},
		{constants.PaymentStatusPaid, constants.PaymentStatusPaid},
	}
	for _, tc := range denied {
		if CanTransitionPaymentStatus(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s denied", tc.from, tc.to)
		}
	}
}

func TestOrderProgressTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{constants.OrderProgressProcessing, constants.OrderProgressWaitingGood},
		{constants.OrderProgressProcessing, constants.OrderProgressReadyToShip},
		{constants.OrderProgressProcessing, constants.OrderProgressCancelled},
		{constants.OrderProgressWaitingGood, constants.OrderProgressReadyToShip},
		{constants.OrderProgressWaitingGood, constants.OrderProgressCancelled},
		{constants.OrderProgressReadyToShip, constants.OrderProgressShipping},
		{constants.OrderProgressReadyToShip, constants.OrderProgressCancelled},
		{constants.OrderProgressShipping, constants.OrderProgressCompleted},
	}
	for _, tc := range allowed {
		if !CanTransitionProgress(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{constants.OrderProgressCompleted, constants.OrderProgressShipping},
		{constants.OrderProgressCancelled, constants.OrderProgressProcessing},
		{constants.OrderProgressShipping, constants.OrderProgressCancelled},
		{constants.OrderProgressProcessing, constants.OrderProgressCompleted},
		{constants.OrderProgressProcessing, constants.OrderProgressProcessing},
	}
	for _, tc := range denied {
		if CanTransitionProgress(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s denied", tc.from, tc.to)
		}
	}
}
