package main

import (
	"fmt"
	"strconv"
	"strings"
)

// unitResolver handles unit-item barcodes: 2 digits of item number
// followed by the 7-digit id of the glass panel order item whose name
// cross-references the construction ("19686 / 01 / C-1 [G 2 665]").
type unitResolver struct{}

func (unitResolver) resolve(value, username string) ScanResponse {
	if !isDigits(value) {
		return failResponse("Invalid barcode format", "Error. Invalid barcode format")
	}
	if len(value) != 9 {
		return failResponse(
			fmt.Sprintf("Barcode must contain 9 digits (got %d)", len(value)),
			"Error. Invalid barcode length")
	}

	itemNumber, _ := strconv.Atoi(value[:2])
	glassID, _ := strconv.Atoi(value[2:])

	glass, err := getGlassItem(glassID)
	if err != nil {
		return dbFailResponse("glass item lookup", err)
	}
	if glass == nil {
		return failResponse(
			fmt.Sprintf("Glass panel with ID %d not found", glassID),
			"Glass panel not found")
	}

	// The panel name carries the parent construction:
	// "<order_no> / <construction> / <opening> [...]"
	name := strings.TrimSpace(glass.Name)
	parts := strings.Split(name, "/")
	if !strings.Contains(name, "/") || len(parts) < 2 {
		return failResponse(
			fmt.Sprintf("Unexpected glass panel name format: %s", name),
			"Error. Unexpected glass panel name format")
	}
	orderNo := strings.TrimSpace(parts[0])
	constructionNo := strings.TrimSpace(parts[1])

	c, err := findConstruction(orderNo, constructionNo)
	if err != nil {
		return dbFailResponse("construction lookup", err)
	}
	if c == nil {
		return failResponse(
			fmt.Sprintf("Construction %s of order %s not found", constructionNo, orderNo),
			fmt.Sprintf("Construction %s of order %s not found", constructionNo, orderNo))
	}

	if itemNumber > c.Qty {
		return failResponse(
			fmt.Sprintf("Item number %d exceeds quantity %d", itemNumber, c.Qty),
			fmt.Sprintf("Error. Item number %d exceeds quantity %d", itemNumber, c.Qty))
	}

	modelList, err := getModels(c.ID)
	if err != nil {
		return dbFailResponse("models lookup", err)
	}
	if len(modelList) == 0 {
		return failResponse(
			fmt.Sprintf("No models found for construction %s of order %s", constructionNo, orderNo),
			"No models found")
	}

	// A construction's N-th physical copy is replicated once per model,
	// so rows from every model are approved together.
	var details []WarehouseDetail
	for _, m := range modelList {
		ds, err := getModelItemDetails(m.ID, itemNumber)
		if err != nil {
			return dbFailResponse("warehouse lookup", err)
		}
		details = append(details, ds...)
	}
	if len(details) == 0 {
		return failResponse(
			fmt.Sprintf("Construction %s of order %s not found in warehouse", constructionNo, orderNo),
			fmt.Sprintf("Construction %s of order %s not found in warehouse", constructionNo, orderNo))
	}

	info := ProductInfo{
		OrderNumber:        c.OrderNo,
		ConstructionNumber: constructionNo,
		ItemNumber:         itemNumber,
		OrderItemID:        c.ID,
		OrderItemName:      constructionNo,
		Qty:                c.Qty,
		ElementName:        details[0].ElementName,
		Width:              details[0].Width,
		Height:             details[0].Height,
		GlassOrderItemID:   glassID,
		OrderID:            c.OrderID,
	}
	if order, err := getOrder(c.OrderID); err == nil && order != nil {
		info.ProductionDate = order.ProductionDate
	}

	if allApproved(details) {
		dateStr := ""
		if ts := latestApprovedAt(details); ts != "" {
			dateStr = fmt.Sprintf(" (approved %s)", formatApprovedAt(ts))
		}
		attachOrderTotals(&info, c.OrderID)
		return ScanResponse{
			Success:      false,
			Message:      "Item already marked as ready" + dateStr,
			VoiceMessage: "Item already marked as ready",
			ProductInfo:  &info,
		}
	}

	res, err := applyApprovals(details, username)
	if err == errUpdateFailed {
		return failResponse("Failed to update warehouse record", "Database update error")
	}
	if err != nil {
		return dbFailResponse("approval update", err)
	}

	checkOrderCompletion(c.OrderID)
	attachOrderTotals(&info, c.OrderID)

	message := fmt.Sprintf("Item successfully approved: %d of %d models", res.NewlyApproved, len(details))
	if res.AlreadyApproved > 0 {
		message += fmt.Sprintf(" (%d already approved)", res.AlreadyApproved)
	}
	return ScanResponse{
		Success:      true,
		Message:      message,
		VoiceMessage: fmt.Sprintf("Item %s of order %s is ready", constructionNo, c.OrderNo),
		ProductInfo:  &info,
	}
}
