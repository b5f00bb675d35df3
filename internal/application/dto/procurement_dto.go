package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest body para POST /api/purchase-requests.
// ProductID es opcional: los ítems sin catalogar viajan con nombre/código libre.
type CreatePurchaseRequest struct {
	ProductID       *string         `json:"product_id,omitempty"`
	ItemName        string          `json:"item_name,omitempty"`
	ItemCode        string          `json:"item_code,omitempty"`
	OrderedQuantity decimal.Decimal `json:"ordered_quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Notes           string          `json:"notes,omitempty"`
}

// ClosePurchaseRequest body para POST /api/purchase-requests/:id/close
// y /force-close.
type ClosePurchaseRequest struct {
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
	DamagedQuantity  decimal.Decimal `json:"damaged_quantity"`
	TargetCategory   string          `json:"target_category"`
	Notes            string          `json:"notes,omitempty"`
}

// PurchaseRequestResponse representación HTTP de una solicitud de compra.
type PurchaseRequestResponse struct {
	ID               string          `json:"id"`
	ProductID        *string         `json:"product_id"`
	ItemName         string          `json:"item_name,omitempty"`
	ItemCode         string          `json:"item_code,omitempty"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Status           string          `json:"status"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
	DamagedQuantity  decimal.Decimal `json:"damaged_quantity"`
	TargetCategory   *string         `json:"target_category"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
}
