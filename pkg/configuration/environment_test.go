package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "ERP_PORTAL_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "modules", "compras")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("ERP_PORTAL_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("ERP_PORTAL_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestParse_Defaults(t *testing.T) {
	conf, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "enforce", conf.Authz.Mode)
	assert.Equal(t, "0.19", conf.Business.IVA().String())
	assert.Equal(t, "CLP", conf.Business.Currency)
	assert.Len(t, conf.Backends.ByName(), 5)
	assert.NotNil(t, conf.Logger())
	assert.Equal(t, "localhost:3200", conf.SocketAddress)
}

func TestParse_InvalidValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad backend url", env: map[string]string{"COMPRAS_BACKEND_URL": "not a url"}},
		{name: "bad iva", env: map[string]string{"IVA_RATE": "1.5"}},
		{name: "bad authz mode", env: map[string]string{"AUTHZ_MODE": "sometimes"}},
		{name: "bad session store", env: map[string]string{"SESSION_STORE": "disk"}},
		{name: "redis rate limit without url", env: map[string]string{"RATE_LIMIT_STORAGE": "redis"}},
		{name: "page size above max", env: map[string]string{"PAGE_SIZE": "200"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			require.Error(t, err)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	c := &Configuration{CorsOrigins: "http://a.cl, http://b.cl\nhttp://c.cl"}
	assert.Equal(t, []string{"http://a.cl", "http://b.cl", "http://c.cl"}, c.AllowedOrigins())
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
