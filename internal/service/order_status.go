package service

import "github.com/purinorder/purinorder/internal/constants"

// Transition tables for the two order status fields. Every status write in
// the admin surface goes through these; there is no ad hoc branching per
// handler.

var allowedPaymentTransitions = map[string]map[string]bool{
	constants.PaymentStatusUnpaid: {
		constants.PaymentStatusAwaitingConfirm:   true,
		constants.PaymentStatusDepositConfirming: true,
	},
	constants.PaymentStatusAwaitingConfirm: {
		constants.PaymentStatusPaid:   true,
		constants.PaymentStatusUnpaid: true,
	},
	constants.PaymentStatusDepositConfirming: {
		constants.PaymentStatusDeposited: true,
		constants.PaymentStatusUnpaid:    true,
	},
	constants.PaymentStatusDeposited: {
		constants.PaymentStatusAwaitingConfirm: true,
		constants.PaymentStatusPaid:            true,
		constants.PaymentStatusDepositRefunded: true,
	},
}

var allowedProgressTransitions = map[string]map[string]bool{
	constants.OrderProgressProcessing: {
		constants.OrderProgressWaitingGood: true,
		constants.OrderProgressReadyToShip: true,
		constants.OrderProgressCancelled:   true,
	},
	constants.OrderProgressWaitingGood: {
		constants.OrderProgressReadyToShip: true,
		constants.OrderProgressCancelled:   true,
	},
	constants.OrderProgressReadyToShip: {
		constants.OrderProgressShipping:  true,
		constants.OrderProgressCancelled: true,
	},
	constants.OrderProgressShipping: {
		constants.OrderProgressCompleted: true,
	},
}

// CanTransitionPaymentStatus reports whether a payment status change is
// allowed. Paid and refunded states are terminal.
func CanTransitionPaymentStatus(from, to string) bool {
	if from == to {
		return false
	}
	return allowedPaymentTransitions[from][to]
}

// CanTransitionProgress reports whether a progress change is allowed.
// Completed and cancelled are terminal.
func CanTransitionProgress(from, to string) bool {
	if from == to {
		return false
	}
	return allowedProgressTransitions[from][to]
}
