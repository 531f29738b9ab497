package orders

import (
	"fmt"

	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
)

// allowedTransitions is the forward-only order lifecycle. Terminal states
// have no outgoing edges.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusReady, enums.OrderStatusCancelled},
	enums.OrderStatusReady:      {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusDelivered:  nil,
	enums.OrderStatusCancelled:  nil,
}

// CanTransition reports whether from -> to is a legal order move.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a typed state-conflict error when the move is not
// allowed.
func CheckTransition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", to))
	}
	if !CanTransition(from, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", from, to)).
			WithDetails(map[string]any{"from": from, "to": to})
	}
	return nil
}

// reservesStock reports whether the move takes quantities out of the catalog.
// Reservation happens when an admin accepts the order for processing, not at
// creation, so a pending order never holds stock.
func reservesStock(from, to enums.OrderStatus) bool {
	return from == enums.OrderStatusPending && to == enums.OrderStatusProcessing
}

// releasesStock reports whether the move returns reserved quantities to the
// catalog. Only cancellation from an in-flight state does; cancelling a
// pending order has nothing to give back.
func releasesStock(from, to enums.OrderStatus) bool {
	return to == enums.OrderStatusCancelled && from.IsInFlight()
}
