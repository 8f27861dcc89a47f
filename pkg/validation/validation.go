package validation

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"github.com/granempresa/erp-portal/pkg/intl"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

var (
	Validate   = validator.New(validator.WithRequiredStructEnabled())
	translator *ut.UniversalTranslator
)

func init() {
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	if err := Validate.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return ValidRUT(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	esLocale := es.New()
	translator = ut.New(esLocale, esLocale, en.New())
	esTrans, _ := translator.GetTranslator("es")
	enTrans, _ := translator.GetTranslator("en")
	if err := es_translations.RegisterDefaultTranslations(Validate, esTrans); err != nil {
		panic(err)
	}
	if err := en_translations.RegisterDefaultTranslations(Validate, enTrans); err != nil {
		panic(err)
	}
	registerTag(esTrans, "rut", "{0} no es un RUT válido")
	registerTag(enTrans, "rut", "{0} is not a valid RUT")
}

func registerTag(trans ut.Translator, tag, text string) {
	err := Validate.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	if err != nil {
		panic(err)
	}
}

// Struct validates v and returns a *serrors.ValidationError keyed by JSON
// field path, with messages in the request locale.
func Struct(ctx context.Context, v any) error {
	err := Validate.StructCtx(ctx, v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	trans, _ := translator.GetTranslator(intl.UseLocale(ctx).String())
	out := serrors.NewValidationError(nil)
	for _, fe := range verrs {
		out.Add(fieldPath(fe), fe.Translate(trans))
	}
	return out
}

// fieldPath drops the root struct name from the namespace:
// "CreateOrder.lineas[0].cantidad" -> "lineas[0].cantidad".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
