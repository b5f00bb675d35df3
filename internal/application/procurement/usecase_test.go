package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-ledger/internal/application/dto"
	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

const (
	testCompanyID = "00000000-0000-0000-0000-0000000000c1"
	testUserID    = "00000000-0000-0000-0000-0000000000u1"
	testProductID = "00000000-0000-0000-0000-0000000000p1"
)

type fakePurchaseRepo struct {
	requests map[string]*entity.PurchaseRequest
}

func (f *fakePurchaseRepo) Create(_ context.Context, r *entity.PurchaseRequest) error {
	cp := *r
	f.requests[r.ID] = &cp
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

func (f *fakePurchaseRepo) Update(_ context.Context, r *entity.PurchaseRequest) error {
	cp := *r
	f.requests[r.ID] = &cp
	return nil
}

func (f *fakePurchaseRepo) ListByCompany(_ context.Context, companyID, status string, _, _ int) ([]*entity.PurchaseRequest, error) {
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

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	f.products[p.ID] = p
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

func newFixture() (*UseCase, *fakePurchaseRepo) {
	purchaseRepo := &fakePurchaseRepo{requests: make(map[string]*entity.PurchaseRequest)}
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		testProductID: {ID: testProductID, CompanyID: testCompanyID, SKU: "SKU-001", Name: "Tornillo 3/8"},
	}}
	return NewUseCase(purchaseRepo, productRepo, logger.Nop()), purchaseRepo
}

// Crear con producto catalogado hereda el nombre del producto.
func TestCreate_ConProductoCatalogado(t *testing.T) {
	uc, _ := newFixture()
	productID := testProductID

	request, err := uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		ProductID:       &productID,
		OrderedQuantity: decimal.NewFromInt(50),
		UnitCost:        decimal.NewFromInt(1200),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseStatusPending, request.Status)
	assert.Equal(t, "Tornillo 3/8", request.ItemName)
	require.NotNil(t, request.ProductID)
	assert.Equal(t, testProductID, *request.ProductID)
	assert.NotEmpty(t, request.ID)
}

// Crear sin producto exige nombre libre del ítem.
func TestCreate_ItemSinCatalogar(t *testing.T) {
	uc, _ := newFixture()

	request, err := uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		ItemName:        "Llave inglesa 12\"",
		OrderedQuantity: decimal.NewFromInt(5),
		UnitCost:        decimal.NewFromInt(30000),
	})
	require.NoError(t, err)
	assert.Nil(t, request.ProductID)

	_, err = uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		OrderedQuantity: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin producto ni nombre")
}

// Cantidad ordenada no positiva o costo negativo se rechazan.
func TestCreate_EntradasInvalidas(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		ItemName:        "x",
		OrderedQuantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		ItemName:        "x",
		OrderedQuantity: decimal.NewFromInt(1),
		UnitCost:        decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El flujo feliz recorre PENDING -> APPROVED -> WAITING_FOR_RECEIVED.
func TestIntake_FlujoNormal(t *testing.T) {
	uc, _ := newFixture()
	request, err := uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		ItemName:        "x",
		OrderedQuantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	request, err = uc.Approve(context.Background(), testCompanyID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusApproved, request.Status)

	request, err = uc.MarkWaiting(context.Background(), testCompanyID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusWaitingForReceived, request.Status)
}

// Transiciones fuera de la máquina de estados se rechazan con el estado origen.
func TestIntake_TransicionesInvalidas(t *testing.T) {
	uc, _ := newFixture()
	request, err := uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		ItemName:        "x",
		OrderedQuantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// PENDING no puede saltar a WAITING_FOR_RECEIVED.
	_, err = uc.MarkWaiting(context.Background(), testCompanyID, request.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	var stErr *domain.InvalidStateTransitionError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, entity.PurchaseStatusPending, stErr.From)

	// Un rechazo es terminal.
	_, err = uc.Reject(context.Background(), testCompanyID, request.ID)
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), testCompanyID, request.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

// ResolveProduct asocia un producto a una solicitud de ítem libre.
func TestResolveProduct(t *testing.T) {
	uc, repo := newFixture()
	request, err := uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		ItemName:        "Llave inglesa",
		OrderedQuantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	request, err = uc.ResolveProduct(context.Background(), testCompanyID, request.ID, testProductID)
	require.NoError(t, err)
	require.NotNil(t, request.ProductID)
	assert.Equal(t, testProductID, *request.ProductID)

	// En estado terminal ya no se puede resolver.
	stored := repo.requests[request.ID]
	stored.Status = entity.PurchaseStatusClosed
	now := time.Now()
	stored.ClosedAt = &now

	_, err = uc.ResolveProduct(context.Background(), testCompanyID, request.ID, testProductID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

// Las solicitudes de otra empresa no son visibles ni operables.
func TestIntake_AislamientoPorEmpresa(t *testing.T) {
	uc, _ := newFixture()
	request, err := uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
		ItemName:        "x",
		OrderedQuantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = uc.Get(context.Background(), "otra-empresa", request.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Approve(context.Background(), "otra-empresa", request.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// List filtra por estado y valida estados desconocidos.
func TestList_FiltraPorEstado(t *testing.T) {
	uc, _ := newFixture()
	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), testCompanyID, testUserID, dto.CreatePurchaseRequest{
			ItemName:        "x",
			OrderedQuantity: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
	}

	all, err := uc.List(context.Background(), testCompanyID, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := uc.List(context.Background(), testCompanyID, entity.PurchaseStatusPending, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	closed, err := uc.List(context.Background(), testCompanyID, entity.PurchaseStatusClosed, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, closed)

	_, err = uc.List(context.Background(), testCompanyID, "ESTADO_FALSO", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
