package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/config"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/logx"
	"shipment-tracker/internal/ports/directory"
	"shipment-tracker/internal/repository"
	"shipment-tracker/internal/repository/memstore"
	"shipment-tracker/internal/service/auth"
	"shipment-tracker/internal/service/shipment"
)

type dbConnectFunc func(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error)

// stores is the persistence behind the services, whichever driver backs it.
type stores struct {
	Tx         shipment.TxRunner
	Users      directory.Users
	Warehouses directory.Warehouses
	pool       *pgxpool.Pool
}

// Close releases the database pool, if any.
func (s *stores) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func newStoresProvider(connect dbConnectFunc) func(context.Context, *config.Config, logx.Logger) (*stores, error) {
	return func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*stores, error) {
		var st *stores
		var target demoTarget

		switch cfg.Store {
		case config.StoreMemory:
			s := memstore.New()
			st = &stores{Tx: s, Users: s, Warehouses: s}
			target = memDemoTarget{s}
		case config.StorePostgres, "":
			pool, err := connect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
			if err != nil {
				return nil, err
			}
			if err := repository.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			users := repository.NewUserRepo(pool)
			warehouses := repository.NewWarehouseRepo(pool)
			st = &stores{
				Tx:         repository.NewShipmentRepo(pool),
				Users:      users,
				Warehouses: warehouses,
				pool:       pool,
			}
			target = pgDemoTarget{users: users, warehouses: warehouses}
		default:
			return nil, fmt.Errorf("unknown store driver %q", cfg.Store)
		}

		if cfg.DemoPassword != "" {
			seeded, err := seedDemo(ctx, target, cfg.DemoPassword)
			if err != nil {
				st.Close()
				return nil, fmt.Errorf("seed demo data: %w", err)
			}
			if seeded {
				logger.Info("store seeded with demo data", logx.String("driver", cfg.Store))
			} else {
				logger.Info("store already has warehouses, demo seed skipped", logx.String("driver", cfg.Store))
			}
		}
		return st, nil
	}
}

// demoTarget is what seedDemo writes through.
type demoTarget interface {
	List(ctx context.Context) ([]domain.Warehouse, error)
	CreateWarehouse(ctx context.Context, w *domain.Warehouse) (int64, error)
	CreateUser(ctx context.Context, u *domain.User) (int64, error)
}

type memDemoTarget struct{ *memstore.Store }

func (m memDemoTarget) CreateWarehouse(_ context.Context, w *domain.Warehouse) (int64, error) {
	return m.AddWarehouse(*w), nil
}

func (m memDemoTarget) CreateUser(_ context.Context, u *domain.User) (int64, error) {
	return m.AddUser(*u), nil
}

type pgDemoTarget struct {
	users      *repository.UserRepo
	warehouses *repository.WarehouseRepo
}

func (p pgDemoTarget) List(ctx context.Context) ([]domain.Warehouse, error) {
	return p.warehouses.List(ctx)
}

func (p pgDemoTarget) CreateWarehouse(ctx context.Context, w *domain.Warehouse) (int64, error) {
	return p.warehouses.Create(ctx, w)
}

func (p pgDemoTarget) CreateUser(ctx context.Context, u *domain.User) (int64, error) {
	return p.users.Create(ctx, u)
}

// seedDemo loads a small fixed world: three warehouses and one account per
// role. A store that already has warehouses is left alone; an account whose
// username is taken is skipped.
func seedDemo(ctx context.Context, t demoTarget, password string) (bool, error) {
	existing, err := t.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	var ids []int64
	for _, w := range []domain.Warehouse{
		{Name: "New York DC", PostalCode: "10001"},
		{Name: "Los Angeles DC", PostalCode: "90210"},
		{Name: "Boston DC", PostalCode: "02134"},
	} {
		id, err := t.CreateWarehouse(ctx, &w)
		if err != nil {
			return false, err
		}
		ids = append(ids, id)
	}
	nyc, la := ids[0], ids[1]

	for _, u := range []domain.User{
		{Username: "admin", Role: domain.RoleGlobalManager},
		{Username: "nyc-manager", Role: domain.RoleStoreManager, WarehouseID: &nyc},
		{Username: "nyc-staff", Role: domain.RoleWarehouseStaff, WarehouseID: &nyc},
		{Username: "la-staff", Role: domain.RoleWarehouseStaff, WarehouseID: &la},
		{Username: "carrier-1", Role: domain.RoleCarrier},
		{Username: "carrier-2", Role: domain.RoleCarrier},
	} {
		u.PasswordHash = hash
		if _, err := t.CreateUser(ctx, &u); err != nil && !errors.Is(err, apperr.ErrConflict) {
			return false, err
		}
	}
	return true, nil
}
