package backend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/granempresa/erp-portal/pkg/configuration"
)

// Backend names.
const (
	Compras    = "compras"
	Inventario = "inventario"
	Logistica  = "logistica"
	RRHH       = "rrhh"
	Ventas     = "ventas"
)

// Registry holds one client per configured backend.
type Registry struct {
	clients map[string]*Client
}

func NewRegistry(clients ...*Client) *Registry {
	r := &Registry{clients: make(map[string]*Client, len(clients))}
	for _, c := range clients {
		r.clients[c.Name()] = c
	}
	return r
}

// RegistryFromConfig builds a client for every backend URL in opts.
func RegistryFromConfig(opts configuration.BackendOptions, logger *logrus.Logger) (*Registry, error) {
	clients := make([]*Client, 0, 5)
	for name, baseURL := range opts.ByName() {
		c, err := New(Options{
			Name:       name,
			BaseURL:    baseURL,
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
			MaxBackoff: opts.MaxBackoff,
			Logger:     logger,
			// Some backends wrap every payload in {"data": ...}.
			DataEnvelope: true,
		})
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return NewRegistry(clients...), nil
}

func (r *Registry) Get(name string) (*Client, bool) {
	c, ok := r.clients[name]
	return c, ok
}

func (r *Registry) MustGet(name string) *Client {
	c, ok := r.clients[name]
	if !ok {
		panic(fmt.Sprintf("backend %q is not configured", name))
	}
	return c
}

// Names returns the backend names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Status struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	OK      bool   `json:"ok"`
	Latency int64  `json:"latency_ms"`
	Error   string `json:"error,omitempty"`
}

// PingAll pings every backend concurrently. Statuses are sorted by name.
func (r *Registry) PingAll(ctx context.Context) []Status {
	names := r.Names()
	out := make([]Status, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, c := i, r.clients[name]
		g.Go(func() error {
			start := time.Now()
			err := c.Ping(gctx)
			out[i] = Status{
				Name:    c.Name(),
				URL:     c.BaseURL(),
				OK:      err == nil,
				Latency: time.Since(start).Milliseconds(),
			}
			if err != nil {
				out[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
