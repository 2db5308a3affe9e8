package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/inventory"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/internal/domain/tax"
	"github.com/jhoicas/retail-inventory/pkg/barcode"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

// ReferenceChecker valida ubicación y proveedor de un producto.
type ReferenceChecker interface {
	ValidateReferences(ctx context.Context, locationID string, supplierID *string) error
}

// ProductUseCase casos de uso CRUD para productos. Quantity y CostPrice se manejan vía libro de stock.
type ProductUseCase struct {
	repo     repository.ProductRepository
	tx       repository.TxRunner
	refs     ReferenceChecker
	barcodes *barcode.Generator
	table    tax.Table
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso. barcodes nil usa el generador por defecto.
func NewProductUseCase(
	repo repository.ProductRepository,
	tx repository.TxRunner,
	refs ReferenceChecker,
	barcodes *barcode.Generator,
	table tax.Table,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, tx: tx, refs: refs, barcodes: barcodes, table: table, log: log.Component("catalog")}
}

// Create crea un producto. Si trae cantidad inicial, el registro de auditoría "initial"
// se escribe en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Validation("name es obligatorio", "name")
	}
	if in.Price.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.Validation("precio y costo no pueden ser negativos", "price")
	}
	if in.Quantity < 0 || in.MinStockLevel < 0 {
		return nil, domain.Validation("quantity y min_stock_level deben ser >= 0", "quantity")
	}
	if err := uc.refs.ValidateReferences(ctx, in.LocationID, in.SupplierID); err != nil {
		return nil, err
	}

	code, err := uc.resolveBarcode(in.Barcode, in.BarcodeType)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Duplicate("barcode", code)
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Barcode:       code,
		Price:         in.Price,
		CostPrice:     in.CostPrice,
		Quantity:      in.Quantity,
		MinStockLevel: in.MinStockLevel,
		Category:      in.Category,
		LocationID:    in.LocationID,
		SupplierID:    nonEmpty(in.SupplierID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if product.Quantity == 0 {
			return nil
		}
		return repos.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:             uuid.New().String(),
			ProductID:      product.ID,
			QuantityChange: product.Quantity,
			Type:           entity.TransactionInitial,
			UserID:         userID,
			Reason:         "stock inicial",
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, domain.Wrap("create product", err)
	}

	uc.log.Info().Str("product_id", product.ID).Str("barcode", code).Int("quantity", product.Quantity).Msg("producto creado")
	return uc.ToResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	return uc.ToResponse(product), nil
}

// GetByBarcode busca un producto por su código de barras.
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto con código", code)
	}
	return uc.ToResponse(product), nil
}

// Update actualiza un producto. No permite modificar Quantity ni CostPrice.
// Si cambia la ubicación o el proveedor, las referencias se validan de nuevo.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.Validation("name no puede estar vacío", "name")
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Barcode != nil && *in.Barcode != product.Barcode {
		if !barcode.Validate(*in.Barcode) {
			return nil, domain.Validation("código de barras inválido", "barcode")
		}
		product.Barcode = *in.Barcode
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Validation("price no puede ser negativo", "price")
		}
		product.Price = *in.Price
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.Validation("min_stock_level debe ser >= 0", "min_stock_level")
		}
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.Category != nil {
		product.Category = *in.Category
	}

	refsChanged := false
	if in.LocationID != nil && *in.LocationID != product.LocationID {
		product.LocationID = *in.LocationID
		refsChanged = true
	}
	if in.SupplierID != nil {
		product.SupplierID = nonEmpty(in.SupplierID)
		refsChanged = true
	}
	if refsChanged {
		if err := uc.refs.ValidateReferences(ctx, product.LocationID, product.SupplierID); err != nil {
			return nil, err
		}
	}

	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.ToResponse(product), nil
}

// List lista productos con filtros opcionales y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	page := in.PageRequest
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Category:   in.Category,
		LocationID: in.LocationID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *uc.ToResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("producto", id)
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// GenerateBarcode devuelve un código nuevo del tipo indicado (EAN13 por defecto).
func (uc *ProductUseCase) GenerateBarcode(kind string) (*dto.BarcodeResponse, error) {
	if kind == "" {
		kind = barcode.TypeEAN13
	}
	code, err := uc.generate(kind)
	if err != nil {
		return nil, domain.Validation(err.Error(), "type")
	}
	return &dto.BarcodeResponse{Code: code, Type: strings.ToUpper(kind), Valid: true}, nil
}

func (uc *ProductUseCase) resolveBarcode(code, kind string) (string, error) {
	if code != "" {
		if !barcode.Validate(code) {
			return "", domain.Validation("código de barras inválido", "barcode")
		}
		return code, nil
	}
	generated, err := uc.generate(kind)
	if err != nil {
		return "", domain.Validation(err.Error(), "barcode_type")
	}
	return generated, nil
}

func (uc *ProductUseCase) generate(kind string) (string, error) {
	if uc.barcodes != nil {
		return uc.barcodes.Generate(kind)
	}
	return barcode.Generate(kind)
}

// ToResponse proyecta la entidad a su DTO con estado de stock y tarifa de IVA.
func (uc *ProductUseCase) ToResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		Quantity:      p.Quantity,
		MinStockLevel: p.MinStockLevel,
		StockStatus:   inventory.StockStatus(p.Quantity, p.MinStockLevel),
		Category:      p.Category,
		TaxRate:       uc.table.LineRate(p.Category).Mul(decimal.NewFromInt(100)),
		LocationID:    p.LocationID,
		SupplierID:    p.SupplierID,
		LastAlertAt:   p.LastAlertAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
