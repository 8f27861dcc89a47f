package authz

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, mode Mode) *Service {
	t.Helper()
	root := filepath.Join("testdata")
	svc, err := NewService(Config{
		ModelPath:    filepath.Join(root, "model.conf"),
		PolicyPath:   filepath.Join(root, "policy.csv"),
		FlagProvider: StaticFlagProvider(mode),
	})
	require.NoError(t, err)
	return svc
}

func TestServiceAuthorize(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	ctx := context.Background()

	cases := []struct {
		name    string
		req     Request
		allowed bool
	}{
		{"admin wildcard", NewRequest("user:1", []string{"ADMIN"}, "ventas.clientes", "create"), true},
		{"module wildcard", NewRequest("user:2", []string{"compras"}, "compras.ordenes", "delete"), true},
		{"inherited role", NewRequest("user:3", []string{"jefe_compras"}, "compras.proveedores", "list"), true},
		{"exact action", NewRequest("user:4", []string{"bodega"}, "inventario.productos", "update"), true},
		{"action denied", NewRequest("user:4", []string{"bodega"}, "inventario.productos", "import"), false},
		{"any role wins", NewRequest("user:5", []string{"bodega", "gerencia"}, "ventas.resumen", "list"), true},
		{"user policy", NewRequest(SubjectForUser("77"), nil, "logistica.guias", "list"), true},
		{"no roles", NewRequest("user:6", nil, "compras.ordenes", "list"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(ctx, tc.req)
			if tc.allowed {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsForbidden(err))
		})
	}
}

func TestServiceShadowAndDisabledModes(t *testing.T) {
	req := NewRequest("user:9", []string{"bodega"}, "compras.ordenes", "delete")

	require.NoError(t, newTestService(t, ModeShadow).Authorize(context.Background(), req))
	require.NoError(t, newTestService(t, ModeDisabled).Authorize(context.Background(), req))

	allowed, err := newTestService(t, ModeShadow).Check(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestServiceRoles(t *testing.T) {
	roles, err := newTestService(t, ModeEnforce).Roles()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "bodega", "compras", "gerencia"}, roles)
}

func TestServiceInspect(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	res, err := svc.Inspect(context.Background(), NewRequest("user:1", []string{"gerencia"}, "ventas.ventas", "list"))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, "role:gerencia", res.MatchedBy)
	assert.Equal(t, []string{"role:gerencia", "ventas.*", "list"}, res.Trace)
}

func TestViewState(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	state := svc.NewViewState(context.Background(), "user:1", []string{"bodega"}, []Capability{
		{Object: "inventario.productos", Action: "update"},
		{Object: "inventario.productos", Action: "import"},
	})
	assert.True(t, state.Capability("inventario.productos", "update"))
	assert.False(t, state.Capability("inventario.productos", "import"))
	assert.False(t, state.Capability("compras.ordenes", "list"))
}

func TestFileFlagProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	provider := NewFileFlagProvider(path, ModeShadow)
	assert.Equal(t, ModeShadow, provider.Mode(), "fallback before the file exists")

	base := time.Now().Add(-time.Hour)
	write := func(content string, offset time.Duration) {
		t.Helper()
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		stamp := base.Add(offset)
		require.NoError(t, os.Chtimes(path, stamp, stamp))
	}

	write("mode: disabled\n", 0)
	assert.Equal(t, ModeDisabled, provider.Mode())

	write("mode: [broken\n", time.Second)
	assert.Equal(t, ModeDisabled, provider.Mode(), "unparsable file keeps the last mode")

	write("mode: ENFORCE\n", 2*time.Second)
	assert.Equal(t, ModeEnforce, provider.Mode())

	write("mode: shadow\n", 2*time.Second)
	assert.Equal(t, ModeEnforce, provider.Mode(), "same modification time is not read again")

	require.NoError(t, os.Remove(path))
	assert.Equal(t, ModeEnforce, provider.Mode(), "missing file keeps the last mode")
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"disabled":  ModeDisabled,
		" Shadow ":  ModeShadow,
		"enforce":   ModeEnforce,
		"":          ModeEnforce,
		"permisivo": ModeEnforce,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseMode(in), in)
	}
	assert.Equal(t, ModeShadow, StaticFlagProvider("SHADOW").Mode())
}

func TestNewServiceValidatesConfig(t *testing.T) {
	_, err := NewService(Config{PolicyPath: "x", FlagPath: "y"})
	require.Error(t, err)
}
