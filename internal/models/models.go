package models

// Order workflow state codes. Ready and Shipped are the only states this
// service ever writes; the numeric values come from the upstream
// order-management schema and must not change.
const (
	StateDraft      = 1
	StateInProgress = 2
	StateReady      = 4
	StateShipped    = 5
)

// Order is a customer production order, the root of the hierarchy.
type Order struct {
	ID             int    `json:"id"`
	OrderNo        string `json:"order_no"`
	ProductionDate string `json:"production_date"`
	StateID        int    `json:"state_id"`
	StateName      string `json:"state_name"`
	Comment        string `json:"comment"`
}

// OrderItem is one construction within an order. Glass fill panels are
// order items too; their name cross-references the parent construction as
// "<order_no> / <construction> / <opening> [...]".
type OrderItem struct {
	ID         int    `json:"id"`
	OrderID    int    `json:"order_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	SystemType string `json:"system_type"`
}

// Model is one physical repetition of a construction.
type Model struct {
	ID          int `json:"id"`
	OrderItemID int `json:"order_item_id"`
	SeqNo       int `json:"seq_no"`
}

// WarehouseDetail is the approval record for one physical element
// instance, carried with the joined element columns the scan path needs.
type WarehouseDetail struct {
	ID          int     `json:"id"`
	ElementID   int     `json:"element_id"`
	ItemNo      int     `json:"item_no"`
	Qty         float64 `json:"qty"`
	IsApproved  bool    `json:"is_approved"`
	ApprovedAt  *string `json:"approved_at"`
	ApprovedBy  string  `json:"approved_by"`
	ElementName string  `json:"element_name"`
	Width       *int    `json:"width"`
	Height      *int    `json:"height"`
}

// OrderTotals holds the completion accounting for one order: quantity
// sums over trackable (type-2) elements across all its constructions.
type OrderTotals struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
}

// ProductInfo is the structured payload attached to scan responses.
// Resolvers populate what they can; enrichment fields stay nil when the
// owning order could not be located.
type ProductInfo struct {
	OrderNumber          string `json:"order_number,omitempty"`
	ProductionDate       string `json:"production_date,omitempty"`
	ConstructionNumber   string `json:"construction_number,omitempty"`
	ItemNumber           int    `json:"item_number,omitempty"`
	OrderItemID          int    `json:"order_item_id,omitempty"`
	OrderItemName        string `json:"order_item_name,omitempty"`
	Qty                  int    `json:"qty,omitempty"`
	ElementName          string `json:"element_name,omitempty"`
	Width                *int   `json:"width,omitempty"`
	Height               *int   `json:"height,omitempty"`
	GlassOrderItemID     int    `json:"glass_order_item_id,omitempty"`
	OrderID              int    `json:"order_id,omitempty"`
	TotalItemsInOrder    *int   `json:"total_items_in_order,omitempty"`
	ApprovedItemsInOrder *int   `json:"approved_items_in_order,omitempty"`
}

// ScanResponse is the wire envelope for POST /api/process-barcode.
// Failures are HTTP 200 with success=false; the voice message is what the
// scan station speaks aloud.
type ScanResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	VoiceMessage string       `json:"voice_message"`
	ProductInfo  *ProductInfo `json:"product_info"`
}

// HealthResponse reports service and database status.
type HealthResponse struct {
	Status            string `json:"status"`
	DatabaseConnected bool   `json:"database_connected"`
	APIVersion        string `json:"api_version"`
}

// DailyStat is one row of the daily production report, split by window
// system type.
type DailyStat struct {
	ProductionDate   string `json:"production_date"`
	PlannedPVH       int    `json:"planned_pvh"`
	PlannedSliding   int    `json:"planned_sliding"`
	CompletedPVH     int    `json:"completed_pvh"`
	CompletedSliding int    `json:"completed_sliding"`
}

// OrderStat is one row of the per-order production report.
type OrderStat struct {
	OrderNumber      string `json:"order_number"`
	ProductionDate   string `json:"production_date"`
	PlannedPVH       int    `json:"planned_pvh"`
	PlannedSliding   int    `json:"planned_sliding"`
	CompletedPVH     int    `json:"completed_pvh"`
	CompletedSliding int    `json:"completed_sliding"`
	Comment          string `json:"comment"`
}

// StatsResponse wraps the statistics endpoints: on validation failure
// Success is false, Message explains, and Data is an empty list.
type StatsResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ScanLogEntry is one audit row of a processed barcode.
type ScanLogEntry struct {
	ID        int    `json:"id"`
	Barcode   string `json:"barcode"`
	Kind      string `json:"kind"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}
