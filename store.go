package main

import (
	"database/sql"
)

// All SQL lives here. Every query is parameterized; handlers and
// resolvers never build SQL text themselves.

// glassItem is a glass-panel order item joined to its owning order.
type glassItem struct {
	ID      int
	Name    string
	OrderID int
	OrderNo string
}

// construction is a unit-producing order item joined to its owning order.
type construction struct {
	ID      int
	OrderID int
	OrderNo string
	Qty     int
}

func getGlassItem(id int) (*glassItem, error) {
	var g glassItem
	err := db.QueryRow(`SELECT oi.id, oi.name, oi.order_id, o.order_no
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE oi.id = ?`, id).Scan(&g.ID, &g.Name, &g.OrderID, &g.OrderNo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func findConstruction(orderNo, name string) (*construction, error) {
	var c construction
	err := db.QueryRow(`SELECT oi.id, oi.order_id, o.order_no, oi.qty
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.order_no = ? AND oi.name = ?`, orderNo, name).
		Scan(&c.ID, &c.OrderID, &c.OrderNo, &c.Qty)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func getModels(orderItemID int) ([]Model, error) {
	rows, err := db.Query(`SELECT id, order_item_id, seq_no FROM models
		WHERE order_item_id = ? ORDER BY seq_no`, orderItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Model
	for rows.Next() {
		var m Model
		if err := rows.Scan(&m.ID, &m.OrderItemID, &m.SeqNo); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// scanDetails reads warehouse-detail rows joined to their elements.
func scanDetails(rows *sql.Rows) ([]WarehouseDetail, error) {
	defer rows.Close()
	var out []WarehouseDetail
	for rows.Next() {
		var d WarehouseDetail
		var approved int
		var approvedAt sql.NullString
		if err := rows.Scan(&d.ID, &d.ElementID, &d.ItemNo, &d.Qty,
			&approved, &approvedAt, &d.ApprovedBy, &d.ElementName, &d.Width, &d.Height); err != nil {
			return nil, err
		}
		d.IsApproved = approved == 1
		if approvedAt.Valid {
			d.ApprovedAt = &approvedAt.String
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const detailColumns = `w.id, w.element_id, w.item_no, w.qty,
	w.is_approved, w.approved_at, w.approved_by, e.name, e.width, e.height`

// getModelItemDetails returns the trackable (type-2) warehouse rows of
// one model for the given physical item number.
func getModelItemDetails(modelID, itemNo int) ([]WarehouseDetail, error) {
	rows, err := db.Query(`SELECT `+detailColumns+`
		FROM warehouse_details w
		JOIN elements e ON w.element_id = e.id
		WHERE e.model_id = ? AND e.type_id = 2 AND w.item_no = ?`, modelID, itemNo)
	if err != nil {
		return nil, err
	}
	return scanDetails(rows)
}

// elementRow is an element looked up by its material or set reference.
type elementRow struct {
	ID      int
	ModelID int
	Name    string
	Width   *int
	Height  *int
}

func getElementByMaterial(materialID int) (*elementRow, error) {
	var e elementRow
	err := db.QueryRow(`SELECT id, model_id, name, width, height FROM elements
		WHERE material_id = ?`, materialID).
		Scan(&e.ID, &e.ModelID, &e.Name, &e.Width, &e.Height)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func getElementsBySet(setID int) ([]elementRow, error) {
	rows, err := db.Query(`SELECT id, model_id, name, width, height FROM elements
		WHERE set_id = ? ORDER BY id`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []elementRow
	for rows.Next() {
		var e elementRow
		if err := rows.Scan(&e.ID, &e.ModelID, &e.Name, &e.Width, &e.Height); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func getElementDetails(elementID int) ([]WarehouseDetail, error) {
	rows, err := db.Query(`SELECT `+detailColumns+`
		FROM warehouse_details w
		JOIN elements e ON w.element_id = e.id
		WHERE e.id = ?`, elementID)
	if err != nil {
		return nil, err
	}
	return scanDetails(rows)
}

func getOrder(id int) (*Order, error) {
	var o Order
	var prodDate, comment sql.NullString
	err := db.QueryRow(`SELECT o.id, o.order_no, strftime('%Y-%m-%d', o.production_date), o.state_id, s.name, o.comment
		FROM orders o
		JOIN order_states s ON o.state_id = s.id
		WHERE o.id = ?`, id).
		Scan(&o.ID, &o.OrderNo, &prodDate, &o.StateID, &o.StateName, &comment)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.ProductionDate = prodDate.String
	o.Comment = comment.String
	return &o, nil
}

// orderForElement walks element -> model -> order item -> order, for
// enriching material and set scan responses.
func orderForElement(elementID int) (*Order, *OrderItem, error) {
	var o Order
	var oi OrderItem
	var prodDate, comment sql.NullString
	err := db.QueryRow(`SELECT o.id, o.order_no, strftime('%Y-%m-%d', o.production_date), o.state_id, s.name, o.comment,
			oi.id, oi.order_id, oi.name, oi.qty, oi.system_type
		FROM elements e
		JOIN models m ON e.model_id = m.id
		JOIN order_items oi ON m.order_item_id = oi.id
		JOIN orders o ON oi.order_id = o.id
		JOIN order_states s ON o.state_id = s.id
		WHERE e.id = ?`, elementID).
		Scan(&o.ID, &o.OrderNo, &prodDate, &o.StateID, &o.StateName, &comment,
			&oi.ID, &oi.OrderID, &oi.Name, &oi.Qty, &oi.SystemType)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	o.ProductionDate = prodDate.String
	o.Comment = comment.String
	return &o, &oi, nil
}

// getOrderTotals sums warehouse quantities over the order's trackable
// (type-2) elements: planned total and how much of it is approved.
func getOrderTotals(orderID int) (OrderTotals, error) {
	var t OrderTotals
	var total, approved sql.NullFloat64
	err := db.QueryRow(`SELECT
			SUM(w.qty),
			SUM(CASE WHEN w.is_approved = 1 THEN w.qty ELSE 0 END)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN models m ON m.order_item_id = oi.id
		JOIN elements e ON e.model_id = m.id
		JOIN warehouse_details w ON w.element_id = e.id
		WHERE o.id = ? AND e.type_id = 2`, orderID).Scan(&total, &approved)
	if err != nil {
		return t, err
	}
	t.Total = int(total.Float64)
	t.Approved = int(approved.Float64)
	return t, nil
}

// approveDetail marks one warehouse row approved. The is_approved guard
// makes re-approval a no-op: rows affected is 0 for an approved row.
func approveDetail(id int, username string) (int64, error) {
	res, err := db.Exec(`UPDATE warehouse_details
		SET is_approved = 1, approved_at = CURRENT_TIMESTAMP, approved_by = ?
		WHERE id = ? AND is_approved = 0`, username, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nextLogPosition(orderID int) (int, error) {
	var maxPos sql.NullInt64
	err := db.QueryRow(`SELECT MAX(position) FROM order_state_log WHERE order_id = ?`, orderID).Scan(&maxPos)
	if err != nil {
		return 0, err
	}
	return int(maxPos.Int64) + 1, nil
}

func insertStateLog(orderID, stateID, position int, actor, reason string) error {
	_, err := db.Exec(`INSERT INTO order_state_log (order_id, state_id, position, actor, reason)
		VALUES (?, ?, ?, ?, ?)`, orderID, stateID, position, actor, reason)
	return err
}

func setOrderState(orderID, stateID int) error {
	_, err := db.Exec(`UPDATE orders SET state_id = ? WHERE id = ?`, stateID, orderID)
	return err
}

// getDailyStats aggregates planned vs completed quantities per production
// day, split by window system type. Dates are inclusive "YYYY-MM-DD".
func getDailyStats(startDate, endDate string) ([]DailyStat, error) {
	rows, err := db.Query(`SELECT strftime('%Y-%m-%d', o.production_date),
			SUM(CASE WHEN oi.system_type = 'pvh' THEN w.qty ELSE 0 END),
			SUM(CASE WHEN oi.system_type = 'sliding' THEN w.qty ELSE 0 END),
			SUM(CASE WHEN oi.system_type = 'pvh' AND w.is_approved = 1 THEN w.qty ELSE 0 END),
			SUM(CASE WHEN oi.system_type = 'sliding' AND w.is_approved = 1 THEN w.qty ELSE 0 END)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN models m ON m.order_item_id = oi.id
		JOIN elements e ON e.model_id = m.id
		JOIN warehouse_details w ON w.element_id = e.id
		WHERE e.type_id = 2 AND o.production_date BETWEEN ? AND ?
		GROUP BY o.production_date
		ORDER BY o.production_date`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyStat
	for rows.Next() {
		var s DailyStat
		var pp, ps, cp, cs float64
		if err := rows.Scan(&s.ProductionDate, &pp, &ps, &cp, &cs); err != nil {
			return nil, err
		}
		s.PlannedPVH = int(pp)
		s.PlannedSliding = int(ps)
		s.CompletedPVH = int(cp)
		s.CompletedSliding = int(cs)
		out = append(out, s)
	}
	return out, rows.Err()
}

// getOrderStats is the per-order breakdown of the same report.
func getOrderStats(startDate, endDate string) ([]OrderStat, error) {
	rows, err := db.Query(`SELECT o.order_no, strftime('%Y-%m-%d', o.production_date), COALESCE(o.comment, ''),
			SUM(CASE WHEN oi.system_type = 'pvh' THEN w.qty ELSE 0 END),
			SUM(CASE WHEN oi.system_type = 'sliding' THEN w.qty ELSE 0 END),
			SUM(CASE WHEN oi.system_type = 'pvh' AND w.is_approved = 1 THEN w.qty ELSE 0 END),
			SUM(CASE WHEN oi.system_type = 'sliding' AND w.is_approved = 1 THEN w.qty ELSE 0 END)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN models m ON m.order_item_id = oi.id
		JOIN elements e ON e.model_id = m.id
		JOIN warehouse_details w ON w.element_id = e.id
		WHERE e.type_id = 2 AND o.production_date BETWEEN ? AND ?
		GROUP BY o.id
		ORDER BY o.production_date, o.order_no`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderStat
	for rows.Next() {
		var s OrderStat
		var pp, ps, cp, cs float64
		if err := rows.Scan(&s.OrderNumber, &s.ProductionDate, &s.Comment, &pp, &ps, &cp, &cs); err != nil {
			return nil, err
		}
		s.PlannedPVH = int(pp)
		s.PlannedSliding = int(ps)
		s.CompletedPVH = int(cp)
		s.CompletedSliding = int(cs)
		out = append(out, s)
	}
	return out, rows.Err()
}
