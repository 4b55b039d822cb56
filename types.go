package main

import "prodscan/internal/models"

// Type aliases so handler code and tests can use the unqualified names
// while the definitions live in internal/models.

type Order = models.Order
type OrderItem = models.OrderItem
type Model = models.Model
type WarehouseDetail = models.WarehouseDetail
type OrderTotals = models.OrderTotals
type ProductInfo = models.ProductInfo
type ScanResponse = models.ScanResponse
type HealthResponse = models.HealthResponse
type DailyStat = models.DailyStat
type OrderStat = models.OrderStat
type StatsResponse = models.StatsResponse
type ScanLogEntry = models.ScanLogEntry
