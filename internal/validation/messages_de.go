package validation

import (
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// German messages for the tags the models use. Length tags read differently
// for strings, collections and numbers, so they get one text per kind.
var germanMessages = map[string]string{
	"required":     "{0} ist ein Pflichtfeld",
	"email":        "{0} muss eine gültige E-Mail-Adresse sein",
	"e164":         "{0} muss eine gültige Telefonnummer im E.164-Format sein",
	"numeric":      "{0} darf nur Ziffern enthalten",
	"oneof":        "{0} muss einer der folgenden Werte sein: [{1}]",
	"eq":           "{0} muss {1} sein",
	"gt":           "{0} muss größer als {1} sein",
	"gte":          "{0} muss größer oder gleich {1} sein",
	"lt":           "{0} muss kleiner als {1} sein",
	"lte":          "{0} muss kleiner oder gleich {1} sein",
	"len-string":   "{0} muss genau {1} Zeichen lang sein",
	"len-items":    "{0} muss genau {1} Einträge enthalten",
	"len-number":   "{0} muss gleich {1} sein",
	"min-string":   "{0} muss mindestens {1} Zeichen lang sein",
	"min-items":    "{0} muss mindestens {1} Einträge enthalten",
	"min-number":   "{0} muss {1} oder größer sein",
	"max-string":   "{0} darf maximal {1} Zeichen lang sein",
	"max-items":    "{0} darf maximal {1} Einträge enthalten",
	"max-number":   "{0} darf {1} oder kleiner sein",
	"fallback-tag": "{0} ist ungültig",
}

var kindedTags = []string{"len", "min", "max"}

func registerGerman(validate *validator.Validate, trans ut.Translator) error {
	for key, text := range germanMessages {
		if err := trans.Add(key, text, true); err != nil {
			return err
		}
	}

	for key := range germanMessages {
		if isKinded(key) || key == "fallback-tag" {
			continue
		}
		if err := validate.RegisterTranslation(key, trans, noopRegister, translate(key)); err != nil {
			return err
		}
	}
	for _, tag := range kindedTags {
		if err := validate.RegisterTranslation(tag, trans, noopRegister, translateKinded(tag)); err != nil {
			return err
		}
	}
	return nil
}

func isKinded(key string) bool {
	for _, tag := range kindedTags {
		if len(key) > len(tag) && key[:len(tag)+1] == tag+"-" {
			return true
		}
	}
	return false
}

// Texts are added up front, the validator only needs the translate side.
func noopRegister(ut.Translator) error { return nil }

func translate(key string) validator.TranslationFunc {
	return func(trans ut.Translator, fe validator.FieldError) string {
		msg, err := trans.T(key, fe.Field(), fe.Param())
		if err != nil {
			msg, _ = trans.T("fallback-tag", fe.Field())
		}
		return msg
	}
}

func translateKinded(tag string) validator.TranslationFunc {
	return func(trans ut.Translator, fe validator.FieldError) string {
		var suffix string
		switch fe.Kind() {
		case reflect.String:
			suffix = "-string"
		case reflect.Slice, reflect.Map, reflect.Array:
			suffix = "-items"
		default:
			suffix = "-number"
		}
		return translate(tag+suffix)(trans, fe)
	}
}
