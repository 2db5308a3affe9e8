package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/application/inventory"
	"github.com/jhoicas/retail-inventory/internal/application/usecase"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/internal/domain/tax"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/retail-inventory/pkg/barcode"
)

func newProductUseCase(t *testing.T) (*memory.Store, *usecase.ProductUseCase) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Locations().Create(ctx, &entity.Location{ID: "loc-1", Name: "Centro"}))
	require.NoError(t, s.Suppliers().Create(ctx, &entity.Supplier{ID: "sup-1", Name: "Acme"}))
	refs := inventory.NewReferenceValidator(s.Locations(), s.Suppliers())
	uc := usecase.NewProductUseCase(s.Products(), s, refs, barcode.NewGenerator(7), tax.DefaultTable(), nil)
	return s, uc
}

func validRequest() dto.CreateProductRequest {
	sup := "sup-1"
	return dto.CreateProductRequest{
		Name:          "Cafetera",
		Price:         decimal.NewFromInt(80),
		CostPrice:     decimal.NewFromInt(50),
		Quantity:      12,
		MinStockLevel: 4,
		Category:      "electronics",
		LocationID:    "loc-1",
		SupplierID:    &sup,
	}
}

func TestCreateProduct_GeneraBarcodeYAuditoriaInicial(t *testing.T) {
	s, uc := newProductUseCase(t)
	ctx := context.Background()

	res, err := uc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)

	assert.Len(t, res.Barcode, 13)
	assert.True(t, barcode.Validate(res.Barcode))
	assert.Equal(t, "healthy", res.StockStatus)
	assert.True(t, decimal.NewFromInt(18).Equal(res.TaxRate))

	history, err := s.Transactions().ListByProduct(ctx, res.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.TransactionInitial, history[0].Type)
	assert.Equal(t, 12, history[0].QuantityChange)
	assert.Equal(t, "u1", history[0].UserID)
}

func TestCreateProduct_SinCantidadNoAudita(t *testing.T) {
	s, uc := newProductUseCase(t)
	in := validRequest()
	in.Quantity = 0

	res, err := uc.Create(context.Background(), "u1", in)
	require.NoError(t, err)
	history, err := s.Transactions().ListByProduct(context.Background(), res.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateProduct_ReferenciasInvalidas(t *testing.T) {
	s, uc := newProductUseCase(t)
	in := validRequest()
	in.LocationID = "999"
	bad := "sup-x"
	in.SupplierID = &bad

	_, err := uc.Create(context.Background(), "u1", in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.Equal(t, []string{"location_id", "supplier_id"}, domain.DetailsOf(err))

	list, err := s.Products().List(context.Background(), repository.ProductFilter{Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateProduct_Barcode(t *testing.T) {
	_, uc := newProductUseCase(t)
	ctx := context.Background()

	in := validRequest()
	in.Barcode = "4006381333931"
	res, err := uc.Create(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "4006381333931", res.Barcode)

	_, err = uc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	in.Barcode = "4006381333932"
	_, err = uc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, domain.ErrValidation, "dígito verificador incorrecto")

	in.Barcode = ""
	in.BarcodeType = barcode.TypeInternal
	res, err = uc.Create(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "INT", res.Barcode[:3])
}

func TestUpdateProduct(t *testing.T) {
	_, uc := newProductUseCase(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)

	price := decimal.NewFromInt(95)
	minLevel := 20
	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Price: &price, MinStockLevel: &minLevel})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, 12, updated.Quantity, "la cantidad no cambia por Update")
	assert.Equal(t, "low", updated.StockStatus)

	bad := "999"
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{LocationID: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = uc.Update(ctx, "missing", dto.UpdateProductRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetDeleteYBusquedaPorBarcode(t *testing.T) {
	_, uc := newProductUseCase(t)
	ctx := context.Background()
	req := validRequest()
	req.Quantity = 0
	created, err := uc.Create(ctx, "u1", req)
	require.NoError(t, err)

	byCode, err := uc.GetByBarcode(ctx, created.Barcode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestDeleteProduct_ConHistorialConservaAuditoria(t *testing.T) {
	s, uc := newProductUseCase(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)
	require.NoError(t, s.Sales().Create(ctx, &entity.Sale{ID: "s1", ProductID: created.ID, QuantitySold: 1}))

	err = uc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	history, err := s.Transactions().ListByProduct(ctx, created.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestListProducts_Filtros(t *testing.T) {
	_, uc := newProductUseCase(t)
	ctx := context.Background()
	a := validRequest()
	_, err := uc.Create(ctx, "u1", a)
	require.NoError(t, err)
	b := validRequest()
	b.Category = "books"
	_, err = uc.Create(ctx, "u1", b)
	require.NoError(t, err)

	res, err := uc.List(ctx, dto.ProductFilterRequest{Category: "books"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "books", res.Items[0].Category)
	assert.Equal(t, 20, res.Page.Limit)
}

func TestGenerateBarcode(t *testing.T) {
	_, uc := newProductUseCase(t)

	res, err := uc.GenerateBarcode("upc")
	require.NoError(t, err)
	assert.Len(t, res.Code, 12)
	assert.True(t, res.Valid)

	_, err = uc.GenerateBarcode("qr")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
