package main

import (
	"fmt"
	"strconv"

	"prodscan/internal/models"
)

// orderResolver handles shipment scans (ORD- or legacy prefix-less order
// codes). The only transition it may take is Ready -> Shipped; anything
// else is refused with the order's current state in the message.
type orderResolver struct{}

func (orderResolver) resolve(value, username string) ScanResponse {
	orderID, err := strconv.Atoi(value)
	if err != nil {
		return failResponse("Invalid order barcode", "Error. Invalid order barcode")
	}

	order, err := getOrder(orderID)
	if err != nil {
		return dbFailResponse("order lookup", err)
	}
	if order == nil {
		return failResponse(
			fmt.Sprintf("Order with ID %d not found", orderID),
			"Order not found")
	}

	if order.StateID != models.StateReady {
		return failResponse(
			fmt.Sprintf("Order %s is not ready for shipment (current state: %s)", order.OrderNo, order.StateName),
			"Order is not ready for shipment")
	}

	pos, err := nextLogPosition(orderID)
	if err != nil {
		return dbFailResponse("state log position", err)
	}
	if err := insertStateLog(orderID, models.StateShipped, pos, username, "Shipment scan"); err != nil {
		return dbFailResponse("state log insert", err)
	}
	if err := setOrderState(orderID, models.StateShipped); err != nil {
		return dbFailResponse("order state update", err)
	}

	return ScanResponse{
		Success:      true,
		Message:      fmt.Sprintf("Order %s shipped", order.OrderNo),
		VoiceMessage: fmt.Sprintf("Order %s shipped", order.OrderNo),
	}
}
