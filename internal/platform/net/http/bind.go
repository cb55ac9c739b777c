package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "missionsync/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps request bodies read by Bind
const MaxBody = 1 << 20

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

var check = sync.OnceValue(func() checker {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = entrans.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterTranslation("max", trans,
		func(t ut.Translator) error { return t.Add("max", "{0} must be at most {1} characters", true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("max", fe.Field(), fe.Param())
			return msg
		})
	return checker{v: v, trans: trans}
})

// Bind decodes a JSON body into T and validates its `validate` tags. Unknown
// fields are rejected. Failures carry ErrorCodeJSON or ErrorCodeValidation
// with the offending json field attached.
func Bind[T any](r *http.Request) (T, error) {
	var in T
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return in, perr.JSONErrf("empty body")
		}
		return in, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return in, perr.JSONErrf("unexpected trailing data")
	}

	c := check()
	err := c.v.Struct(in)
	var fields validator.ValidationErrors
	switch {
	case err == nil:
		return in, nil
	case errors.As(err, &fields) && len(fields) > 0:
		fe := fields[0]
		return in, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", fe.Translate(c.trans)), fe.Field())
	default:
		return in, perr.JSONErrf("validation error: %v", err)
	}
}

// JSONHandler binds T then calls fn, wrapping its result in the envelope
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := Bind[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
