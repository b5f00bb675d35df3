// Package catalog casos de uso CRUD para el catálogo: productos, categorías
// de bodega y empresas. El stock nunca se edita aquí; se mueve exclusivamente
// a través del libro.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-ledger/internal/application/dto"
	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
)

// ProductUseCase CRUD de productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. El SKU es único por empresa.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Cost.IsNegative() || in.Price.IsNegative() || in.SafeStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCompanyAndSKU(ctx, companyID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         sku,
		Name:        in.Name,
		UnitMeasure: in.UnitMeasure,
		Cost:        in.Cost,
		Price:       in.Price,
		SafeStock:   in.SafeStock,
		SupplierRef: in.SupplierRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.fetch(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza campos editables del producto. El stock no se toca aquí.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.fetch(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Cost = *in.Cost
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.SafeStock != nil {
		if in.SafeStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SafeStock = *in.SafeStock
	}
	if in.SupplierRef != nil {
		product.SupplierRef = *in.SupplierRef
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista los productos de la empresa.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

func (uc *ProductUseCase) fetch(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		UnitMeasure: p.UnitMeasure,
		Cost:        p.Cost,
		Price:       p.Price,
		SafeStock:   p.SafeStock,
		SupplierRef: p.SupplierRef,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CategoryUseCase administra el conjunto cerrado de categorías de bodega.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create agrega una categoría al conjunto de la empresa. El código es
// inmutable una vez creado: los asientos del libro lo referencian.
func (uc *CategoryUseCase) Create(ctx context.Context, companyID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.Get(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	name := in.Name
	if name == "" {
		name = code
	}
	category := &entity.WarehouseCategory{
		Code:      code,
		CompanyID: companyID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// List lista las categorías de la empresa.
func (uc *CategoryUseCase) List(ctx context.Context, companyID string) ([]*dto.CategoryResponse, error) {
	categories, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

func toCategoryResponse(c *entity.WarehouseCategory) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		Code:      c.Code,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

// CompanyUseCase administra las empresas (tenants).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create registra una empresa nueva en estado active.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		NIT:       in.NIT,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIT:       c.NIT,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}
