// Package forms binds, cleans and validates form drafts and guards
// submissions against being sent twice.
package forms

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

// formValidate is shared by every draft. Field names in errors are the
// form field names, so messages map straight onto the rendered inputs.
var formValidate *validator.Validate

func init() {
	formValidate = validator.New()
	formValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = formValidate.RegisterValidation("program_icon", oneOfList(content.ProgramIcons))
	_ = formValidate.RegisterValidation("service_category", oneOfList(content.ServiceCategories))
	_ = formValidate.RegisterValidation("image_category", oneOfList(content.ImageCategories))
	_ = formValidate.RegisterValidation("stat_value", validateStatValue)
	_ = formValidate.RegisterValidation("amount", validateAmount)
}

func oneOfList(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	}
}

// validateStatValue accepts non-negative integers, optionally suffixed with "+"
func validateStatValue(fl validator.FieldLevel) bool {
	n, ok := content.ParseStatValue(fl.Field().String())
	return ok && n >= 0
}

// validateAmount accepts a positive number
func validateAmount(fl validator.FieldLevel) bool {
	v, err := strconv.ParseFloat(strings.ReplaceAll(fl.Field().String(), ",", ""), 64)
	return err == nil && v > 0
}

// Errors maps form field names to a message for the user
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Get returns the message for field, or ""
func (e Errors) Get(field string) string { return e[field] }

// Has reports whether field failed
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Draft is a form's unsaved state. Messages maps "field.tag" to the text
// shown when that rule fails.
type Draft interface {
	Messages() map[string]string
}

// Check trims every string field of draft (a pointer) and validates it.
// It returns nil when the draft is valid.
func Check(draft Draft) Errors {
	TrimStrings(draft)

	err := formValidate.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": err.Error()}
	}

	messages := draft.Messages()
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		out[field] = defaultMessage(fe)
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please enter a valid email"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "Values do not match"
	}
	return "Please enter a valid value"
}

// TrimStrings trims surrounding whitespace from the string fields of the
// struct ptr points to. Fields tagged trim:"-" are left alone.
func TrimStrings(ptr any) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.String || !f.CanSet() {
			continue
		}
		if t.Field(i).Tag.Get("trim") == "-" {
			continue
		}
		f.SetString(strings.TrimSpace(f.String()))
	}
}
