package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest body para POST /api/ledger/transfers.
type TransferRequest struct {
	ProductID    string          `json:"product_id"`
	FromCategory string          `json:"from_category"`
	ToCategory   string          `json:"to_category"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason,omitempty"`
}

// TransferResponse identificadores del traslado ejecutado.
type TransferResponse struct {
	GroupID    string `json:"group_id"`
	OutEntryID string `json:"out_entry_id"`
	InEntryID  string `json:"in_entry_id"`
}

// AdjustmentRequest body para POST /api/ledger/adjustments.
// Quantity con signo: positivo suma, negativo resta.
type AdjustmentRequest struct {
	ProductID string          `json:"product_id"`
	Category  string          `json:"category"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason,omitempty"`
}

// SaleDeductionRequest body para POST /api/ledger/sale-deductions.
type SaleDeductionRequest struct {
	ProductID string          `json:"product_id"`
	Category  string          `json:"category"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference,omitempty"` // factura u orden de venta
}

// StockProjectionResponse stock actual de un producto por categoría.
type StockProjectionResponse struct {
	ProductID  string                     `json:"product_id"`
	SKU        string                     `json:"sku"`
	Categories map[string]decimal.Decimal `json:"categories"`
	Total      decimal.Decimal            `json:"total"`
}

// LowStockItemResponse producto bajo su umbral de stock seguro.
type LowStockItemResponse struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	TotalStock  decimal.Decimal `json:"total_stock"`
	SafeStock   decimal.Decimal `json:"safe_stock"`
	Deficit     decimal.Decimal `json:"deficit"`
}

// HistoryFilter filtros para GET /api/ledger/entries.
// ProductID o Category: al menos uno es obligatorio.
type HistoryFilter struct {
	ProductID string     `query:"product_id"`
	Category  string     `query:"category"`
	From      *time.Time `query:"from"`
	To        *time.Time `query:"to"`
	PageRequest
}

// LedgerEntryResponse asiento del libro para respuestas HTTP.
type LedgerEntryResponse struct {
	ID             string          `json:"id"`
	GroupID        string          `json:"group_id,omitempty"`
	ProductID      string          `json:"product_id"`
	Kind           string          `json:"kind"`
	SourceCategory *string         `json:"source_category"`
	DestCategory   *string         `json:"dest_category"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by,omitempty"`
}
