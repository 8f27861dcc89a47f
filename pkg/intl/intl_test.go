package intl

import (
	"context"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGetSupportedLanguages(t *testing.T) {
	assert.Len(t, GetSupportedLanguages(nil), 2)

	only := GetSupportedLanguages([]string{"en", "fr"})
	require.Len(t, only, 1)
	assert.Equal(t, "en", only[0].Code)
}

func TestT(t *testing.T) {
	bundle := i18n.NewBundle(language.Spanish)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	_, err := bundle.ParseMessageFileBytes([]byte(`
[Errors.NotFound]
other = "{{.entity}} {{.id}} no existe"
`), "es.toml")
	require.NoError(t, err)

	ctx := WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "es"))
	assert.Equal(t, "producto 9 no existe", T(ctx, "Errors.NotFound", "", map[string]string{"entity": "producto", "id": "9"}))
	assert.Equal(t, "fallback", T(ctx, "Errors.Missing", "fallback", nil))
	assert.Equal(t, "Errors.Missing", T(context.Background(), "Errors.Missing", "", nil))
}

func TestUseLocaleDefaultsToSpanish(t *testing.T) {
	assert.Equal(t, language.Spanish, UseLocale(context.Background()))
	assert.Equal(t, language.English, UseLocale(WithLocale(context.Background(), language.English)))
}
