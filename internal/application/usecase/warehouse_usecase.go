package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas y sus ubicaciones.
type WarehouseUseCase struct {
	repo      repository.WarehouseRepository
	locations repository.LocationRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, locations repository.LocationRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, locations: locations}
}

// Create crea una nueva bodega.
func (uc *WarehouseUseCase) Create(in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	out := dto.ToWarehouseResponse(warehouse)
	return &out, nil
}

// GetByID obtiene una bodega por ID, o nil si no existe.
func (uc *WarehouseUseCase) GetByID(id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	out := dto.ToWarehouseResponse(warehouse)
	return &out, nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(limit, offset int) ([]dto.WarehouseResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, dto.ToWarehouseResponse(w))
	}
	return items, nil
}

// ListLocations lista las ubicaciones de una bodega.
func (uc *WarehouseUseCase) ListLocations(warehouseID string) ([]dto.LocationResponse, error) {
	list, err := uc.locations.ListByWarehouse(warehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.ToLocationResponse(l))
	}
	return items, nil
}
