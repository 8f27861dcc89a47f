package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/granempresa/erp-portal/modules/compras/domain/aggregates/proveedor"
	"github.com/granempresa/erp-portal/pkg/batch"
	"github.com/granempresa/erp-portal/pkg/listing"
)

var ProveedorFields = listing.Fields[proveedor.Proveedor]{
	Text: func(p proveedor.Proveedor) []string {
		return []string{p.Nombre, p.RUT, p.Email}
	},
	Filters: map[string]func(proveedor.Proveedor, string) bool{
		"activo": listing.Bool(func(p proveedor.Proveedor) bool { return p.Activo }),
	},
	Sort: map[string]func(a, b proveedor.Proveedor) int{
		"nombre": listing.ByString(func(p proveedor.Proveedor) string { return p.Nombre }),
	},
	DefaultSort: "nombre",
}

type catalogEntry struct {
	productos []proveedor.Producto
	loadedAt  time.Time
}

// ProveedorService serves suppliers and keeps their catalogs for ttl, so the
// order form does not refetch a catalog on every supplier switch.
type ProveedorService struct {
	repo  proveedor.Repository
	ttl   time.Duration
	limit int
	now   func() time.Time

	mu      sync.RWMutex
	catalog map[string]catalogEntry
	loads   singleflight.Group
}

func NewProveedorService(repo proveedor.Repository, ttl time.Duration, fanOutLimit int) *ProveedorService {
	return &ProveedorService{
		repo:    repo,
		ttl:     ttl,
		limit:   fanOutLimit,
		now:     time.Now,
		catalog: map[string]catalogEntry{},
	}
}

func (s *ProveedorService) List(ctx context.Context, q listing.Query) (listing.Page[proveedor.Proveedor], error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return listing.Page[proveedor.Proveedor]{}, err
	}
	return listing.Apply(all, q, ProveedorFields), nil
}

// Productos returns the supplier's catalog, from cache while it is fresh.
// Concurrent misses for one supplier share a single backend call.
func (s *ProveedorService) Productos(ctx context.Context, proveedorID string) ([]proveedor.Producto, error) {
	if items, ok := s.cached(proveedorID); ok {
		return items, nil
	}
	v, err, _ := s.loads.Do(proveedorID, func() (any, error) {
		items, err := s.repo.Productos(ctx, proveedorID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.catalog[proveedorID] = catalogEntry{productos: items, loadedAt: s.now()}
		s.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]proveedor.Producto), nil
}

// Precargar warms the cache for several suppliers at once. The result value
// is the number of products loaded per supplier.
func (s *ProveedorService) Precargar(ctx context.Context, ids []string) batch.Summary[int] {
	return batch.FanOut(ctx, ids, s.limit, func(id string) string { return id },
		func(ctx context.Context, id string) (int, error) {
			items, err := s.Productos(ctx, id)
			return len(items), err
		})
}

// Invalidate drops a supplier's cached catalog.
func (s *ProveedorService) Invalidate(proveedorID string) {
	s.mu.Lock()
	delete(s.catalog, proveedorID)
	s.mu.Unlock()
}

func (s *ProveedorService) cached(proveedorID string) ([]proveedor.Producto, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.catalog[proveedorID]
	if !ok || s.now().Sub(entry.loadedAt) >= s.ttl {
		return nil, false
	}
	return entry.productos, true
}
