package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para el catálogo de productos y variantes.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto con sus variantes iniciales.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Reference: in.Reference,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	for _, vin := range in.Variants {
		variant := &entity.Variant{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Reference: vin.Reference,
			Name:      vin.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.repo.CreateVariant(variant); err != nil {
			return nil, err
		}
		out.Variants = append(out.Variants, dto.ToVariantResponse(variant))
	}
	return &out, nil
}

// GetByID obtiene un producto con sus variantes, o nil si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	out := dto.ToProductResponse(product)
	variants, err := uc.repo.ListVariantsByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		out.Variants = append(out.Variants, dto.ToVariantResponse(v))
	}
	return &out, nil
}

// List lista productos con paginación (sin variantes).
func (uc *ProductUseCase) List(limit, offset int) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return items, nil
}
