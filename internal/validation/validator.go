// Package validation runs the explicit constraint pass over entities before
// they are written. Messages are translated for the caller's locale.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/oskar87/swe2/internal/apperror"
)

// Group selects which constraints apply.
type Group int

const (
	// Default skips the ID constraint, for objects that are about to be created.
	Default Group = iota
	// Update also requires the ID.
	Update
)

var supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(supported)

type Validator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
}

func New() (*Validator, error) {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, de.New())

	enTrans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}
	deTrans, _ := uni.GetTranslator("de")
	if err := registerGerman(validate, deTrans); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, uni: uni}, nil
}

// Locale picks the best supported language from an Accept-Language header.
func Locale(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return language.English
	}
	_, idx, _ := matcher.Match(parseAccept(acceptLanguage)...)
	return supported[idx]
}

func parseAccept(header string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return []language.Tag{language.English}
	}
	return tags
}

// Check validates obj and returns a *apperror.ValidationError holding every
// violation, or nil.
func (v *Validator) Check(obj any, locale language.Tag, group Group) error {
	var err error
	if group == Update {
		err = v.validate.Struct(obj)
	} else {
		err = v.validate.StructExcept(obj, "ID")
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	trans := v.translator(locale)
	violations := make([]apperror.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, apperror.Violation{
			Field:   fieldPath(fe.Namespace()),
			Tag:     fe.Tag(),
			Message: fe.Translate(trans),
		})
	}
	return &apperror.ValidationError{Object: obj, Violations: violations}
}

func (v *Validator) translator(locale language.Tag) ut.Translator {
	base, _ := locale.Base()
	if trans, found := v.uni.GetTranslator(base.String()); found {
		return trans
	}
	trans, _ := v.uni.GetTranslator("en")
	return trans
}

// fieldPath drops the leading type name, "Bestellung.bestellpositionen[0].anzahl"
// becomes "bestellpositionen[0].anzahl".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
