package main

import (
	"log"

	"prodscan/internal/models"
)

// Actor recorded on state transitions this service performs itself.
const systemActor = "scanner"

// checkOrderCompletion re-evaluates an order after unit approvals and
// advances it to Ready once every trackable element is approved.
// Best-effort: the approval already committed, so failures here are
// logged and the next scan of the order retries the transition.
func checkOrderCompletion(orderID int) {
	totals, err := getOrderTotals(orderID)
	if err != nil {
		log.Printf("completion check for order %d: %v", orderID, err)
		return
	}
	if totals.Total == 0 || totals.Approved < totals.Total {
		return
	}

	order, err := getOrder(orderID)
	if err != nil || order == nil {
		log.Printf("completion check for order %d: order lookup failed: %v", orderID, err)
		return
	}
	// Never move an order backwards: Ready stays Ready, Shipped stays Shipped.
	if order.StateID >= models.StateReady {
		return
	}

	pos, err := nextLogPosition(orderID)
	if err != nil {
		log.Printf("completion check for order %d: %v", orderID, err)
		return
	}
	if err := insertStateLog(orderID, models.StateReady, pos, systemActor, "All elements approved"); err != nil {
		log.Printf("completion check for order %d: state log insert: %v", orderID, err)
		return
	}
	if err := setOrderState(orderID, models.StateReady); err != nil {
		log.Printf("completion check for order %d: state update: %v", orderID, err)
		return
	}
	log.Printf("order %s (%d) fully approved, moved to Ready", order.OrderNo, orderID)
}
