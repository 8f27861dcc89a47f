package itf

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/session"
)

// Users with one role each, matching config/access/policy.csv.
var (
	Admin     = session.User{ID: "1", Nombre: "Admin", Email: "admin@granempresa.cl", Roles: []string{"admin"}}
	Comprador = session.User{ID: "2", Nombre: "Compras", Email: "compras@granempresa.cl", Roles: []string{"compras"}}
	Bodeguero = session.User{ID: "3", Nombre: "Bodega", Email: "bodega@granempresa.cl", Roles: []string{"bodega"}}
	Vendedor  = session.User{ID: "4", Nombre: "Ventas", Email: "ventas@granempresa.cl", Roles: []string{"ventas"}}
	Operador  = session.User{ID: "5", Nombre: "Logistica", Email: "logistica@granempresa.cl", Roles: []string{"logistica"}}
	Analista  = session.User{ID: "6", Nombre: "RRHH", Email: "rrhh@granempresa.cl", Roles: []string{"rrhh"}}
	Gerente   = session.User{ID: "7", Nombre: "Gerencia", Email: "gerencia@granempresa.cl", Roles: []string{"gerencia"}}
)

// RepoPath joins elem onto the directory holding go.mod.
func RepoPath(tb testing.TB, elem ...string) string {
	tb.Helper()
	dir, err := os.Getwd()
	if err != nil {
		tb.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(append([]string{dir}, elem...)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			tb.Fatal("itf: go.mod not found")
		}
		dir = parent
	}
}

// Do sends a request through the application router. body is JSON encoded
// unless it is already a []byte or an io.Reader.
func (env *TestEnvironment) Do(tb testing.TB, method, path string, body any) *httptest.ResponseRecorder {
	tb.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			tb.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// DoRequest sends a prepared request, for multipart uploads.
func (env *TestEnvironment) DoRequest(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals a recorded JSON response.
func Decode[T any](tb testing.TB, rec *httptest.ResponseRecorder) T {
	tb.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		tb.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

// JSON writes v as a backend response.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ReadJSON decodes a request body received by a fake backend.
func ReadJSON[T any](r *http.Request) T {
	var out T
	_ = json.NewDecoder(r.Body).Decode(&out)
	return out
}

// EventRecorder collects published domain events.
type EventRecorder struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *EventRecorder) Record(e eventbus.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *EventRecorder) All() []eventbus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]eventbus.Event(nil), r.events...)
}

// Types returns the event types in publish order.
func (r *EventRecorder) Types() []string {
	var out []string
	for _, e := range r.All() {
		out = append(out, e.EventType())
	}
	return out
}
