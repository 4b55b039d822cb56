package main

import (
	"fmt"
	"strconv"
)

// setResolver handles set barcodes (S-/SET-). A set groups several
// physical elements; the scan approves the union of all their warehouse
// rows. Like materials, sets never drive order completion.
type setResolver struct{}

func (setResolver) resolve(value, username string) ScanResponse {
	setID, err := strconv.Atoi(value)
	if err != nil {
		return failResponse("Invalid set barcode", "Error. Invalid set barcode")
	}

	elements, err := getElementsBySet(setID)
	if err != nil {
		return dbFailResponse("set lookup", err)
	}
	if len(elements) == 0 {
		return failResponse(
			fmt.Sprintf("Set %d not found", setID),
			"Set not found")
	}

	var details []WarehouseDetail
	for _, el := range elements {
		ds, err := getElementDetails(el.ID)
		if err != nil {
			return dbFailResponse("set warehouse lookup", err)
		}
		details = append(details, ds...)
	}
	if len(details) == 0 {
		return failResponse(
			fmt.Sprintf("Set %d not found in warehouse", setID),
			"Set not found in warehouse")
	}

	info := ProductInfo{
		ElementName: elements[0].Name,
		Width:       elements[0].Width,
		Height:      elements[0].Height,
	}
	enrichFromElement(&info, elements[0].ID)

	if allApproved(details) {
		dateStr := ""
		if ts := latestApprovedAt(details); ts != "" {
			dateStr = fmt.Sprintf(" (approved %s)", formatApprovedAt(ts))
		}
		return ScanResponse{
			Success:      false,
			Message:      "Set already marked as ready" + dateStr,
			VoiceMessage: "Set already marked as ready",
			ProductInfo:  &info,
		}
	}

	res, err := applyApprovals(details, username)
	if err == errUpdateFailed {
		return failResponse("Failed to update warehouse record", "Database update error")
	}
	if err != nil {
		return dbFailResponse("set approval", err)
	}

	if info.OrderID != 0 {
		attachOrderTotals(&info, info.OrderID)
	}
	message := fmt.Sprintf("Set successfully approved: %d of %d elements", res.NewlyApproved, len(details))
	if res.AlreadyApproved > 0 {
		message += fmt.Sprintf(" (%d already approved)", res.AlreadyApproved)
	}
	return ScanResponse{
		Success:      true,
		Message:      message,
		VoiceMessage: "Set approved",
		ProductInfo:  &info,
	}
}
