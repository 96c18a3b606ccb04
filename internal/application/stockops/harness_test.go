package stockops_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria: implementa todos los puertos del motor sobre maps. El
// TxRunner falso ejecuta la función directamente (sin rollback); los tests que
// esperan error no inspeccionan estado después del fallo.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	operations map[string]*entity.StockOperation
	lines      map[string]*entity.OperationLine
	comments   []*entity.OperationComment
	items      map[string]*entity.PhysicalItem
	itemOrder  []string
	varSnaps   map[string]*entity.QuantitySnapshot
	prodSnaps  map[string]*entity.QuantitySnapshot
	locations  map[string]*entity.Location
	movements  []*entity.StockMovement
	products   map[string]*entity.Product
	variants   map[string]*entity.Variant
	warehouses map[string]*entity.Warehouse
	orders     map[string]*entity.Order

	opSeq, itemSeq, locSeq int
}

func newMemStore() *memStore {
	return &memStore{
		operations: map[string]*entity.StockOperation{},
		lines:      map[string]*entity.OperationLine{},
		items:      map[string]*entity.PhysicalItem{},
		varSnaps:   map[string]*entity.QuantitySnapshot{},
		prodSnaps:  map[string]*entity.QuantitySnapshot{},
		locations:  map[string]*entity.Location{},
		products:   map[string]*entity.Product{},
		variants:   map[string]*entity.Variant{},
		warehouses: map[string]*entity.Warehouse{},
		orders:     map[string]*entity.Order{},
	}
}

func (s *memStore) repos() stockops.TxRepos {
	return stockops.TxRepos{
		Operations: &memOps{s},
		Items:      &memItems{s},
		Snapshots:  &memSnaps{s},
		Locations:  &memLocs{s},
		Movements:  &memMovs{s},
		Products:   &memProducts{s},
		Warehouses: &memWarehouses{s},
		Orders:     &memOrders{s},
		Refs:       &memRefs{s},
	}
}

// memTx ejecuta la unidad de trabajo directamente sobre el almacén.
type memTx struct{ s *memStore }

func (t *memTx) Run(_ context.Context, fn func(r stockops.TxRepos) error) error {
	return fn(t.s.repos())
}

// ── Operaciones ───────────────────────────────────────────────────────────────

type memOps struct{ s *memStore }

var _ repository.OperationRepository = (*memOps)(nil)

func (r *memOps) Create(op *entity.StockOperation) error {
	r.s.operations[op.ID] = op
	return nil
}

func (r *memOps) GetByID(id string) (*entity.StockOperation, error) {
	return r.s.operations[id], nil
}

func (r *memOps) GetByIDForUpdate(id string) (*entity.StockOperation, error) {
	return r.s.operations[id], nil
}

func (r *memOps) GetPendingPurchaseForTransfer(transferID string) (*entity.StockOperation, error) {
	for _, op := range r.s.operations {
		if op.Kind == entity.OperationPurchase && op.Status == entity.StatusPending &&
			op.TransferID != nil && *op.TransferID == transferID {
			return op, nil
		}
	}
	return nil, nil
}

func (r *memOps) Update(op *entity.StockOperation) error {
	r.s.operations[op.ID] = op
	return nil
}

func (r *memOps) List(filter repository.OperationFilter, limit, offset int) ([]*entity.StockOperation, error) {
	var out []*entity.StockOperation
	for _, op := range r.s.operations {
		if filter.Kind != "" && op.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && op.Status != filter.Status {
			continue
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

func (r *memOps) CreateLine(line *entity.OperationLine) error {
	r.s.lines[line.ID] = line
	return nil
}

func (r *memOps) GetLines(operationID string) ([]*entity.OperationLine, error) {
	var out []*entity.OperationLine
	for _, l := range r.s.lines {
		if l.OperationID == operationID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memOps) UpdateLine(line *entity.OperationLine) error {
	r.s.lines[line.ID] = line
	return nil
}

func (r *memOps) LatestSupplierCost(variantID string) (*repository.SupplierCost, error) {
	var latest *entity.OperationLine
	for _, l := range r.s.lines {
		op := r.s.operations[l.OperationID]
		if op == nil || op.Kind != entity.OperationPurchase || op.Status == entity.StatusCanceled {
			continue
		}
		if l.VariantID != variantID {
			continue
		}
		if latest == nil || l.CreatedAt.After(latest.CreatedAt) {
			latest = l
		}
	}
	if latest == nil {
		return nil, nil
	}
	return &repository.SupplierCost{SupplierID: latest.SupplierID, UnitCost: latest.UnitCost}, nil
}

func (r *memOps) CreateComment(comment *entity.OperationComment) error {
	r.s.comments = append(r.s.comments, comment)
	return nil
}

func (r *memOps) ListComments(operationID string) ([]*entity.OperationComment, error) {
	var out []*entity.OperationComment
	for _, c := range r.s.comments {
		if c.OperationID == operationID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ── Ítems ─────────────────────────────────────────────────────────────────────

type memItems struct{ s *memStore }

var _ repository.ItemRepository = (*memItems)(nil)

func (r *memItems) Create(item *entity.PhysicalItem) error {
	r.s.items[item.ID] = item
	r.s.itemOrder = append(r.s.itemOrder, item.ID)
	return nil
}

func (r *memItems) GetByID(id string) (*entity.PhysicalItem, error) {
	return r.s.items[id], nil
}

func (r *memItems) Update(item *entity.PhysicalItem) error {
	r.s.items[item.ID] = item
	return nil
}

func (r *memItems) ListByOperation(operationID string) ([]*entity.PhysicalItem, error) {
	var out []*entity.PhysicalItem
	for _, id := range r.s.itemOrder {
		if it := r.s.items[id]; it.OperationID == operationID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memItems) ListByOperationVariantState(operationID, variantID, state string, limit int) ([]*entity.PhysicalItem, error) {
	var out []*entity.PhysicalItem
	for _, id := range r.s.itemOrder {
		it := r.s.items[id]
		if it.OperationID == operationID && it.VariantID == variantID && it.State == state {
			out = append(out, it)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memItems) PickAvailableForUpdate(variantID, warehouseID string, limit int) ([]*entity.PhysicalItem, error) {
	var out []*entity.PhysicalItem
	for _, id := range r.s.itemOrder {
		it := r.s.items[id]
		if it.VariantID != variantID || it.State != entity.StateAvailable || it.LocationID == nil {
			continue
		}
		loc := r.s.locations[*it.LocationID]
		if loc == nil || loc.WarehouseID != warehouseID {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ── Snapshots ─────────────────────────────────────────────────────────────────

type memSnaps struct{ s *memStore }

var _ repository.SnapshotRepository = (*memSnaps)(nil)

func (r *memSnaps) GetVariant(variantID string) (*entity.QuantitySnapshot, error) {
	return r.s.varSnaps[variantID], nil
}

func (r *memSnaps) GetVariantForUpdate(variantID string) (*entity.QuantitySnapshot, error) {
	return r.s.varSnaps[variantID], nil
}

func (r *memSnaps) UpsertVariant(snapshot *entity.QuantitySnapshot) error {
	r.s.varSnaps[snapshot.VariantID] = snapshot
	return nil
}

func (r *memSnaps) GetProduct(productID string) (*entity.QuantitySnapshot, error) {
	return r.s.prodSnaps[productID], nil
}

func (r *memSnaps) GetProductForUpdate(productID string) (*entity.QuantitySnapshot, error) {
	return r.s.prodSnaps[productID], nil
}

func (r *memSnaps) UpsertProduct(snapshot *entity.QuantitySnapshot) error {
	r.s.prodSnaps[snapshot.ProductID] = snapshot
	return nil
}

// ── Ubicaciones ───────────────────────────────────────────────────────────────

type memLocs struct{ s *memStore }

var _ repository.LocationRepository = (*memLocs)(nil)

func (r *memLocs) Create(location *entity.Location) error {
	r.s.locations[location.ID] = location
	return nil
}

func (r *memLocs) GetByID(id string) (*entity.Location, error) {
	return r.s.locations[id], nil
}

func (r *memLocs) GetDefault(warehouseID, defaultType string) (*entity.Location, error) {
	for _, loc := range r.s.locations {
		if loc.WarehouseID == warehouseID && loc.DefaultType == defaultType {
			return loc, nil
		}
	}
	return nil, nil
}

func (r *memLocs) ListByWarehouse(warehouseID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, loc := range r.s.locations {
		if loc.WarehouseID == warehouseID {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (r *memLocs) AdjustTotal(id string, delta int) error {
	loc := r.s.locations[id]
	if loc == nil {
		return fmt.Errorf("ubicación %s no existe", id)
	}
	loc.TotalItems += delta
	return nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

type memMovs struct{ s *memStore }

var _ repository.MovementRepository = (*memMovs)(nil)

func (r *memMovs) Create(movement *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, movement)
	return nil
}

func (r *memMovs) ListByItem(itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return page(out, limit, offset), nil
}

func (r *memMovs) ListByOperation(operationID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.OperationID != nil && *m.OperationID == operationID {
			out = append(out, m)
		}
	}
	return page(out, limit, offset), nil
}

func page(movs []*entity.StockMovement, limit, offset int) []*entity.StockMovement {
	if offset >= len(movs) {
		return nil
	}
	movs = movs[offset:]
	if limit > 0 && len(movs) > limit {
		movs = movs[:limit]
	}
	return movs
}

// ── Catálogo, bodegas y órdenes ───────────────────────────────────────────────

type memProducts struct{ s *memStore }

var _ repository.ProductRepository = (*memProducts)(nil)

func (r *memProducts) Create(product *entity.Product) error {
	r.s.products[product.ID] = product
	return nil
}

func (r *memProducts) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *memProducts) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProducts) CreateVariant(variant *entity.Variant) error {
	r.s.variants[variant.ID] = variant
	return nil
}

func (r *memProducts) GetVariantByID(id string) (*entity.Variant, error) {
	return r.s.variants[id], nil
}

func (r *memProducts) ListVariantsByProduct(productID string) ([]*entity.Variant, error) {
	var out []*entity.Variant
	for _, v := range r.s.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

type memWarehouses struct{ s *memStore }

var _ repository.WarehouseRepository = (*memWarehouses)(nil)

func (r *memWarehouses) Create(warehouse *entity.Warehouse) error {
	r.s.warehouses[warehouse.ID] = warehouse
	return nil
}

func (r *memWarehouses) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}

func (r *memWarehouses) List(limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		out = append(out, w)
	}
	return out, nil
}

type memOrders struct{ s *memStore }

var _ repository.OrderRepository = (*memOrders)(nil)

func (r *memOrders) Create(order *entity.Order) error {
	r.s.orders[order.ID] = order
	return nil
}

func (r *memOrders) GetByID(id string) (*entity.Order, error) {
	return r.s.orders[id], nil
}

func (r *memOrders) UpdateStatusStep(id, status, step string) error {
	if o := r.s.orders[id]; o != nil {
		o.Status = status
		o.Step = step
	}
	return nil
}

// ── Referencias ───────────────────────────────────────────────────────────────

type memRefs struct{ s *memStore }

var _ stockops.ReferenceProvider = (*memRefs)(nil)

func (r *memRefs) NextOperationReference(kind string) (string, error) {
	r.s.opSeq++
	prefix := map[string]string{
		entity.OperationReception: "REC",
		entity.OperationTransfer:  "TRA",
		entity.OperationPurchase:  "PUR",
	}[kind]
	return fmt.Sprintf("%s-%06d", prefix, r.s.opSeq), nil
}

func (r *memRefs) NextItemReference() (string, int64, error) {
	r.s.itemSeq++
	return fmt.Sprintf("ITM-%08d", r.s.itemSeq), 2_000_000_000 + int64(r.s.itemSeq), nil
}

func (r *memRefs) NextLocationReference(defaultType string) (string, int64, error) {
	r.s.locSeq++
	return fmt.Sprintf("UBI-%05d", r.s.locSeq), 1_000_000_000 + int64(r.s.locSeq), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Mundo de prueba: casos de uso armados sobre el almacén en memoria, con un
// notificador que captura las notas en vez de enviarlas.
// ──────────────────────────────────────────────────────────────────────────────

type captureNotifier struct {
	notes []stockops.TransferDispatchedNote
}

func (n *captureNotifier) TransferDispatched(note stockops.TransferDispatchedNote) {
	n.notes = append(n.notes, note)
}

type world struct {
	store     *memStore
	notifier  *captureNotifier
	create    *stockops.CreateUseCase
	lifecycle *stockops.LifecycleUseCase
	query     *stockops.QueryUseCase
	adjust    *stockops.AdjustmentUseCase
}

func newWorld() *world {
	store := newMemStore()
	tx := &memTx{s: store}
	notifier := &captureNotifier{}
	repos := store.repos()
	return &world{
		store:     store,
		notifier:  notifier,
		create:    stockops.NewCreateUseCase(tx),
		lifecycle: stockops.NewLifecycleUseCase(tx, notifier),
		query:     stockops.NewQueryUseCase(repos.Operations, repos.Snapshots, repos.Movements, repos.Items),
		adjust:    stockops.NewAdjustmentUseCase(tx),
	}
}

func (w *world) addWarehouse(name string) string {
	id := uuid.New().String()
	w.store.warehouses[id] = &entity.Warehouse{ID: id, Name: name}
	return id
}

// addVariant registra un producto con una única variante y devuelve ambos IDs.
func (w *world) addVariant(sku string) (productID, variantID string) {
	productID = uuid.New().String()
	variantID = uuid.New().String()
	w.store.products[productID] = &entity.Product{ID: productID, Reference: sku, Name: "Producto " + sku}
	w.store.variants[variantID] = &entity.Variant{
		ID: variantID, ProductID: productID, Reference: sku, Name: "Variante " + sku,
	}
	return productID, variantID
}

// seedAvailable deja qty unidades disponibles de la variante en la bodega,
// con su ubicación RECEPTION, sus snapshots y su contador consistentes.
func (w *world) seedAvailable(variantID, warehouseID string, qty int) {
	loc, _ := (&memLocs{w.store}).GetDefault(warehouseID, entity.LocationTypeReception)
	if loc == nil {
		loc = &entity.Location{
			ID:          uuid.New().String(),
			WarehouseID: warehouseID,
			Reference:   "UBI-SEED",
			DefaultType: entity.LocationTypeReception,
		}
		w.store.locations[loc.ID] = loc
	}
	variant := w.store.variants[variantID]
	now := time.Now()
	for i := 0; i < qty; i++ {
		locID := loc.ID
		item := &entity.PhysicalItem{
			ID:         uuid.New().String(),
			Reference:  fmt.Sprintf("ITM-SEED-%d", len(w.store.itemOrder)+1),
			VariantID:  variantID,
			Status:     entity.ItemToStore,
			State:      entity.StateAvailable,
			LocationID: &locID,
			UnitCost:   decimal.NewFromInt(10),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		w.store.items[item.ID] = item
		w.store.itemOrder = append(w.store.itemOrder, item.ID)
		loc.TotalItems++
	}
	snap := w.store.varSnaps[variantID]
	if snap == nil {
		snap = &entity.QuantitySnapshot{VariantID: variantID, ProductID: variant.ProductID}
		w.store.varSnaps[variantID] = snap
	}
	snap.Available += qty
	prod := w.store.prodSnaps[variant.ProductID]
	if prod == nil {
		prod = &entity.QuantitySnapshot{ProductID: variant.ProductID}
		w.store.prodSnaps[variant.ProductID] = prod
	}
	prod.Available += qty
}

// itemsInState cuenta los ítems de la variante en un estado dado.
func (w *world) itemsInState(variantID, state string) int {
	n := 0
	for _, it := range w.store.items {
		if it.VariantID == variantID && it.State == state {
			n++
		}
	}
	return n
}

// findOperation devuelve la primera operación que cumpla el predicado.
func (w *world) findOperation(pred func(*entity.StockOperation) bool) *entity.StockOperation {
	for _, op := range w.store.operations {
		if pred(op) {
			return op
		}
	}
	return nil
}
