package main

import (
	"fmt"
	"log"
	"strconv"
)

// materialResolver handles material barcodes (T-/ITM-). A material
// reference points at exactly one filler element with one warehouse row;
// materials are not part of order-completion accounting.
type materialResolver struct{}

func (materialResolver) resolve(value, username string) ScanResponse {
	materialID, err := strconv.Atoi(value)
	if err != nil {
		return failResponse("Invalid material barcode", "Error. Invalid material barcode")
	}

	el, err := getElementByMaterial(materialID)
	if err != nil {
		return dbFailResponse("material lookup", err)
	}
	if el == nil {
		return failResponse(
			fmt.Sprintf("Material %d not found", materialID),
			"Material not found")
	}

	details, err := getElementDetails(el.ID)
	if err != nil {
		return dbFailResponse("material warehouse lookup", err)
	}
	if len(details) == 0 {
		return failResponse(
			fmt.Sprintf("Material %d not found in warehouse", materialID),
			"Material not found in warehouse")
	}

	info := ProductInfo{
		ElementName: el.Name,
		Width:       el.Width,
		Height:      el.Height,
	}
	enrichFromElement(&info, el.ID)

	if allApproved(details) {
		dateStr := ""
		if ts := latestApprovedAt(details); ts != "" {
			dateStr = fmt.Sprintf(" (approved %s)", formatApprovedAt(ts))
		}
		return ScanResponse{
			Success:      false,
			Message:      "Material already marked as ready" + dateStr,
			VoiceMessage: "Material already marked as ready",
			ProductInfo:  &info,
		}
	}

	if _, err := applyApprovals(details, username); err == errUpdateFailed {
		return failResponse("Failed to update warehouse record", "Database update error")
	} else if err != nil {
		return dbFailResponse("material approval", err)
	}

	if info.OrderID != 0 {
		attachOrderTotals(&info, info.OrderID)
	}
	return ScanResponse{
		Success:      true,
		Message:      "Material successfully approved",
		VoiceMessage: "Material approved",
		ProductInfo:  &info,
	}
}

// enrichFromElement fills the owning order's context into the payload.
// Best effort: a broken hierarchy never fails the scan itself.
func enrichFromElement(info *ProductInfo, elementID int) {
	order, item, err := orderForElement(elementID)
	if err != nil {
		log.Printf("order context for element %d: %v", elementID, err)
		return
	}
	if order == nil {
		return
	}
	info.OrderNumber = order.OrderNo
	info.ProductionDate = order.ProductionDate
	info.OrderID = order.ID
	info.OrderItemID = item.ID
	info.OrderItemName = item.Name
	info.Qty = item.Qty
	attachOrderTotals(info, order.ID)
}
