// seed puebla la base con datos de demostración: usuarios, bodegas, catálogo,
// proveedores y una orden de cliente abierta. Pensado para ambientes locales.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	warehouses := postgres.NewWarehouseRepository(pool)
	products := postgres.NewProductRepository(pool)
	suppliers := postgres.NewSupplierRepository(pool)
	orders := postgres.NewOrderRepository(pool)

	now := time.Now()

	// Usuarios de demo (password: almacen123)
	hash, err := bcrypt.GenerateFromPassword([]byte("almacen123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de password")
	}
	for _, u := range []struct{ email, name, role string }{
		{"admin@almacen.local", "Administrador", entity.RoleAdmin},
		{"bodega@almacen.local", "Bodeguero", entity.RoleBodeguero},
		{"ventas@almacen.local", "Vendedor", entity.RoleVendedor},
	} {
		existing, err := users.GetByEmail(u.email)
		if err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("consultar usuario")
		}
		if existing != nil {
			continue
		}
		if err := users.Create(&entity.User{
			ID:           uuid.New().String(),
			Email:        u.email,
			PasswordHash: string(hash),
			Name:         u.name,
			Role:         u.role,
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("crear usuario")
		}
		log.Info().Str("email", u.email).Str("role", u.role).Msg("usuario creado")
	}

	// Bodegas
	var warehouseIDs []string
	for _, name := range []string{"Bodega Central", "Bodega Norte"} {
		wh := &entity.Warehouse{
			ID:        uuid.New().String(),
			Name:      name,
			Address:   "Calle demo 123",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := warehouses.Create(wh); err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("crear bodega")
		}
		warehouseIDs = append(warehouseIDs, wh.ID)
		log.Info().Str("id", wh.ID).Str("name", name).Msg("bodega creada")
	}

	// Proveedores
	for _, s := range []struct{ name, email string }{
		{"Textiles del Sur", "ventas@textilesdelsur.co"},
		{"Importadora Andina", "pedidos@andina.co"},
	} {
		if err := suppliers.Create(&entity.Supplier{
			ID:        uuid.New().String(),
			Name:      s.name,
			Email:     s.email,
			CreatedAt: now,
		}); err != nil {
			log.Fatal().Err(err).Str("name", s.name).Msg("crear proveedor")
		}
		log.Info().Str("name", s.name).Msg("proveedor creado")
	}

	// Catálogo: producto con variantes por talla
	product := &entity.Product{
		ID:        uuid.New().String(),
		Reference: "CAM-001",
		Name:      "Camiseta básica",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := products.Create(product); err != nil {
		log.Fatal().Err(err).Msg("crear producto")
	}
	for _, talla := range []string{"S", "M", "L"} {
		if err := products.CreateVariant(&entity.Variant{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Reference: "CAM-001-" + talla,
			Name:      "Camiseta básica talla " + talla,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			log.Fatal().Err(err).Str("talla", talla).Msg("crear variante")
		}
	}
	log.Info().Str("id", product.ID).Msg("producto creado con 3 variantes")

	// Orden de cliente abierta, lista para vincular a una recepción ORDER
	order := &entity.Order{
		ID:          uuid.New().String(),
		Reference:   "ORD-DEMO-001",
		WarehouseID: warehouseIDs[0],
		Status:      entity.OrderStatusOpen,
		Step:        entity.OrderStepToPrepare,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := orders.Create(order); err != nil {
		log.Fatal().Err(err).Msg("crear orden")
	}
	log.Info().Str("id", order.ID).Str("reference", order.Reference).Msg("orden creada")

	log.Info().Msg("seed completado")
}
