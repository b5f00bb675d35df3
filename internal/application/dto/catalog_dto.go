package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	Price       decimal.Decimal `json:"price"`
	SafeStock   decimal.Decimal `json:"safe_stock"`
	SupplierRef string          `json:"supplier_ref,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	UnitMeasure *string          `json:"unit_measure,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	SafeStock   *decimal.Decimal `json:"safe_stock,omitempty"`
	SupplierRef *string          `json:"supplier_ref,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	Price       decimal.Decimal `json:"price"`
	SafeStock   decimal.Decimal `json:"safe_stock"`
	SupplierRef string          `json:"supplier_ref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CategoryResponse representación HTTP de una categoría de bodega.
type CategoryResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCompanyRequest body para POST /api/companies.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CompanyResponse representación HTTP de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit,omitempty"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
