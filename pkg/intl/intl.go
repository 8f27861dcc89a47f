package intl

import (
	"context"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/granempresa/erp-portal/pkg/constants"
)

type SupportedLanguage struct {
	Code        string
	VerboseName string
	Tag         language.Tag
}

var (
	// allSupportedLanguages is the master list of all languages the portal ships locale files for.
	allSupportedLanguages = []SupportedLanguage{
		{
			Code:        "es",
			VerboseName: "Español",
			Tag:         language.Spanish,
		},
		{
			Code:        "en",
			VerboseName: "English",
			Tag:         language.English,
		},
	}

	DefaultLanguage = language.Spanish
)

// GetSupportedLanguages returns a filtered list of supported languages based on the whitelist.
// If whitelist is nil or empty, returns all supported languages.
func GetSupportedLanguages(whitelist []string) []SupportedLanguage {
	if len(whitelist) == 0 {
		return allSupportedLanguages
	}

	whitelistMap := make(map[string]bool, len(whitelist))
	for _, code := range whitelist {
		whitelistMap[code] = true
	}

	filtered := make([]SupportedLanguage, 0, len(whitelist))
	for _, lang := range allSupportedLanguages {
		if whitelistMap[lang.Code] {
			filtered = append(filtered, lang)
		}
	}
	return filtered
}

func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, constants.LocalizerKey, l)
}

// UseLocalizer returns the localizer from the context, if any.
func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(constants.LocalizerKey).(*i18n.Localizer)
	return l, ok && l != nil
}

func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, constants.LocaleKey, tag)
}

func UseLocale(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(constants.LocaleKey).(language.Tag); ok {
		return tag
	}
	return DefaultLanguage
}

// T localizes messageID with the context localizer. Missing localizers or
// messages fall back to def, or to the message ID when def is empty.
func T(ctx context.Context, messageID, def string, data map[string]string) string {
	fallback := def
	if fallback == "" {
		fallback = messageID
	}
	l, ok := UseLocalizer(ctx)
	if !ok || messageID == "" {
		return fallback
	}
	var templateData any
	if len(data) > 0 {
		templateData = data
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}
