package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// maxStatsRangeDays caps statistics queries; the dashboard never needs
// more than a year and unbounded ranges would scan the whole table.
const maxStatsRangeDays = 365

// parseDateRange validates start_date/end_date query params. The error
// string is user-facing and empty when the range is valid.
func parseDateRange(r *http.Request) (start, end string, errMsg string) {
	start = r.URL.Query().Get("start_date")
	end = r.URL.Query().Get("end_date")
	if start == "" || end == "" {
		return "", "", "start_date and end_date are required"
	}

	startT, err := time.Parse("2006-01-02", start)
	if err != nil {
		return "", "", fmt.Sprintf("invalid start_date: %s", start)
	}
	endT, err := time.Parse("2006-01-02", end)
	if err != nil {
		return "", "", fmt.Sprintf("invalid end_date: %s", end)
	}

	if startT.After(endT) {
		return "", "", "start date cannot exceed end date"
	}
	if endT.Sub(startT) > maxStatsRangeDays*24*time.Hour {
		return "", "", fmt.Sprintf("date range cannot exceed %d days", maxStatsRangeDays)
	}
	return start, end, ""
}

func writeStats(w http.ResponseWriter, resp StatsResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func handleDailyStatistics(w http.ResponseWriter, r *http.Request) {
	start, end, errMsg := parseDateRange(r)
	if errMsg != "" {
		writeStats(w, StatsResponse{Success: false, Message: errMsg, Data: []DailyStat{}})
		return
	}

	stats, err := getDailyStats(start, end)
	if err != nil {
		writeStats(w, StatsResponse{Success: false, Message: "Database error", Data: []DailyStat{}})
		return
	}
	if stats == nil {
		stats = []DailyStat{}
	}
	writeStats(w, StatsResponse{Success: true, Data: stats})
}

func handleOrderStatistics(w http.ResponseWriter, r *http.Request) {
	start, end, errMsg := parseDateRange(r)
	if errMsg != "" {
		writeStats(w, StatsResponse{Success: false, Message: errMsg, Data: []OrderStat{}})
		return
	}

	stats, err := getOrderStats(start, end)
	if err != nil {
		writeStats(w, StatsResponse{Success: false, Message: "Database error", Data: []OrderStat{}})
		return
	}
	if stats == nil {
		stats = []OrderStat{}
	}
	writeStats(w, StatsResponse{Success: true, Data: stats})
}

// handleExportStatistics writes the daily report as a spreadsheet for the
// production office. format=xlsx or csv (default).
func handleExportStatistics(w http.ResponseWriter, r *http.Request) {
	start, end, errMsg := parseDateRange(r)
	if errMsg != "" {
		jsonErr(w, errMsg, 400)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	stats, err := getDailyStats(start, end)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	headers := []string{"Production Date", "Planned PVH", "Planned Sliding", "Completed PVH", "Completed Sliding"}
	var data [][]string
	for _, s := range stats {
		data = append(data, []string{
			s.ProductionDate,
			strconv.Itoa(s.PlannedPVH), strconv.Itoa(s.PlannedSliding),
			strconv.Itoa(s.CompletedPVH), strconv.Itoa(s.CompletedSliding),
		})
	}

	if format == "xlsx" {
		exportExcel(w, "Production", headers, data)
	} else {
		exportCSV(w, "production.csv", headers, data)
	}
}

// exportCSV writes data to CSV format.
func exportCSV(w http.ResponseWriter, filename string, headers []string, data [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		http.Error(w, "Failed to write CSV headers", 500)
		return
	}
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			http.Error(w, "Failed to write CSV row", 500)
			return
		}
	}
}

// exportExcel writes data to Excel format.
func exportExcel(w http.ResponseWriter, sheetName string, headers []string, data [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		http.Error(w, "Failed to create Excel sheet", 500)
		return
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		http.Error(w, "Failed to create header style", 500)
		return
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	for i := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 18)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", strings.ToLower(sheetName)))

	if err := f.Write(w); err != nil {
		http.Error(w, "Failed to write Excel file", 500)
		return
	}
}
