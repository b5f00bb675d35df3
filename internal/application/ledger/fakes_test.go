package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
)

// Fakes en memoria para los casos de uso. El fakeTxRunner toma una foto del
// estado antes de ejecutar fn y la restaura si fn falla, imitando el rollback
// de una transacción real.

func recordKey(productID, categoryCode string) string {
	return productID + "|" + categoryCode
}

type fakeRecordRepo struct {
	records map[string]*entity.InventoryRecord
	// upsertErrAfter falla el Upsert número n (1-based); 0 desactiva.
	upsertErrAfter int
	upsertCalls    int
	lowStock       []repository.LowStockItem
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]*entity.InventoryRecord)}
}

func (f *fakeRecordRepo) set(productID, categoryCode string, qty decimal.Decimal) {
	f.records[recordKey(productID, categoryCode)] = &entity.InventoryRecord{
		ProductID:    productID,
		CategoryCode: categoryCode,
		Quantity:     qty,
		UpdatedAt:    time.Now(),
	}
}

func (f *fakeRecordRepo) quantity(productID, categoryCode string) decimal.Decimal {
	if r, ok := f.records[recordKey(productID, categoryCode)]; ok {
		return r.Quantity
	}
	return decimal.Zero
}

func (f *fakeRecordRepo) Get(_ context.Context, productID, categoryCode string) (*entity.InventoryRecord, error) {
	if r, ok := f.records[recordKey(productID, categoryCode)]; ok {
		cp := *r
		return &cp, nil
	}
	return &entity.InventoryRecord{ProductID: productID, CategoryCode: categoryCode, Quantity: decimal.Zero}, nil
}

func (f *fakeRecordRepo) GetForUpdate(ctx context.Context, productID, categoryCode string) (*entity.InventoryRecord, error) {
	return f.Get(ctx, productID, categoryCode)
}

func (f *fakeRecordRepo) Upsert(_ context.Context, record *entity.InventoryRecord) error {
	f.upsertCalls++
	if f.upsertErrAfter > 0 && f.upsertCalls >= f.upsertErrAfter {
		return errors.New("upsert forzado a fallar")
	}
	cp := *record
	f.records[recordKey(record.ProductID, record.CategoryCode)] = &cp
	return nil
}

func (f *fakeRecordRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, r := range f.records {
		if r.ProductID == productID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) ListLowStock(_ context.Context, _ string) ([]repository.LowStockItem, error) {
	return f.lowStock, nil
}

func (f *fakeRecordRepo) snapshot() map[string]*entity.InventoryRecord {
	snap := make(map[string]*entity.InventoryRecord, len(f.records))
	for k, v := range f.records {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

type fakeLedgerRepo struct {
	entries   []*entity.LedgerEntry
	appendErr error
}

func (f *fakeLedgerRepo) Append(_ context.Context, entry *entity.LedgerEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	cp := *entry
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeLedgerRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range f.entries {
		if e.ProductID != productID {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return paginate(out, limit, offset), nil
}

func (f *fakeLedgerRepo) ListByCategory(_ context.Context, companyID, categoryCode string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range f.entries {
		if e.CompanyID != companyID {
			continue
		}
		match := (e.SourceCategory != nil && *e.SourceCategory == categoryCode) ||
			(e.DestCategory != nil && *e.DestCategory == categoryCode)
		if !match {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return paginate(out, limit, offset), nil
}

func paginate(entries []*entity.LedgerEntry, limit, offset int) []*entity.LedgerEntry {
	if offset >= len(entries) {
		return nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func (f *fakeLedgerRepo) byKind(kind string) []*entity.LedgerEntry {
	var out []*entity.LedgerEntry
	for _, e := range f.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type fakePurchaseRepo struct {
	requests  map[string]*entity.PurchaseRequest
	updateErr error
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{requests: make(map[string]*entity.PurchaseRequest)}
}

func (f *fakePurchaseRepo) put(r *entity.PurchaseRequest) {
	cp := *r
	f.requests[r.ID] = &cp
}

func (f *fakePurchaseRepo) Create(_ context.Context, request *entity.PurchaseRequest) error {
	cp := *request
	f.requests[request.ID] = &cp
	return nil
}

func (f *fakePurchaseRepo) GetByID(_ context.Context, id string) (*entity.PurchaseRequest, error) {
	if r, ok := f.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePurchaseRepo) Update(_ context.Context, request *entity.PurchaseRequest) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *request
	f.requests[request.ID] = &cp
	return nil
}

func (f *fakePurchaseRepo) ListByCompany(_ context.Context, companyID, status string, limit, offset int) ([]*entity.PurchaseRequest, error) {
	var out []*entity.PurchaseRequest
	for _, r := range f.requests {
		if r.CompanyID != companyID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePurchaseRepo) snapshot() map[string]*entity.PurchaseRequest {
	snap := make(map[string]*entity.PurchaseRequest, len(f.requests))
	for k, v := range f.requests {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

// fakeTxRunner ejecuta fn sobre los fakes compartidos. Si fn falla, restaura
// el estado previo de registros, asientos y solicitudes (rollback simulado).
type fakeTxRunner struct {
	recordRepo   *fakeRecordRepo
	ledgerRepo   *fakeLedgerRepo
	purchaseRepo *fakePurchaseRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	ledgerRepo repository.LedgerRepository,
	purchaseRepo repository.PurchaseRequestRepository,
) error) error {
	recordSnap := f.recordRepo.snapshot()
	ledgerSnap := len(f.ledgerRepo.entries)
	purchaseSnap := f.purchaseRepo.snapshot()

	if err := fn(f.recordRepo, f.ledgerRepo, f.purchaseRepo); err != nil {
		f.recordRepo.records = recordSnap
		f.ledgerRepo.entries = f.ledgerRepo.entries[:ledgerSnap]
		f.purchaseRepo.requests = purchaseSnap
		return err
	}
	return nil
}

type fakeCache struct {
	stock        map[string]map[string]decimal.Decimal
	invalidated  []string
	setCalls     int
	getHits      int
	getMisses    int
	disabledSets bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{stock: make(map[string]map[string]decimal.Decimal)}
}

func (f *fakeCache) GetStock(_ context.Context, productID string) (map[string]decimal.Decimal, bool) {
	if s, ok := f.stock[productID]; ok {
		f.getHits++
		return s, true
	}
	f.getMisses++
	return nil, false
}

func (f *fakeCache) SetStock(_ context.Context, productID string, stock map[string]decimal.Decimal) {
	f.setCalls++
	if f.disabledSets {
		return
	}
	f.stock[productID] = stock
}

func (f *fakeCache) InvalidateProduct(_ context.Context, productID string) {
	delete(f.stock, productID)
	f.invalidated = append(f.invalidated, productID)
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories []*entity.WarehouseCategory
}

func newFakeCategoryRepo(companyID string, codes ...string) *fakeCategoryRepo {
	f := &fakeCategoryRepo{}
	for _, code := range codes {
		f.categories = append(f.categories, &entity.WarehouseCategory{
			Code:      code,
			CompanyID: companyID,
			Name:      code,
		})
	}
	return f
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *entity.WarehouseCategory) error {
	f.categories = append(f.categories, category)
	return nil
}

func (f *fakeCategoryRepo) Get(_ context.Context, companyID, code string) (*entity.WarehouseCategory, error) {
	for _, c := range f.categories {
		if c.CompanyID == companyID && c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.WarehouseCategory, error) {
	var out []*entity.WarehouseCategory
	for _, c := range f.categories {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}
