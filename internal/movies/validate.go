package movies

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Таблица ограничений: одно поле — один набор правил.
// createRules используется для POST (все поля обязательны, кроме rate),
// patchRules — для PATCH (всё опционально, но присланное проверяется теми же правилами).
// Обе структуры конвертируются в MovieInput: теги при конвертации не учитываются.
type createRules struct {
	Title    *string  `json:"title" validate:"required,min=1"`
	Year     *int     `json:"year" validate:"required,gte=1900,lte=2024"`
	Director *string  `json:"director" validate:"required"`
	Duration *int     `json:"duration" validate:"required,gt=0"`
	Rate     *float64 `json:"rate" validate:"omitempty,gte=0,lte=10"`
	Poster   *string  `json:"poster" validate:"required,url"`
	Genre    []Genre  `json:"genre" validate:"required,min=1,dive,genre"`
}

type patchRules struct {
	Title    *string  `json:"title" validate:"omitempty,min=1"`
	Year     *int     `json:"year" validate:"omitempty,gte=1900,lte=2024"`
	Director *string  `json:"director" validate:"omitempty"`
	Duration *int     `json:"duration" validate:"omitempty,gt=0"`
	Rate     *float64 `json:"rate" validate:"omitempty,gte=0,lte=10"`
	Poster   *string  `json:"poster" validate:"omitempty,url"`
	Genre    []Genre  `json:"genre" validate:"omitempty,min=1,dive,genre"`
}

// fieldTypes — ожидаемый JSON-тип каждого поля, в порядке вывода ошибок.
var fieldTypes = []struct {
	name string
	kind string
}{
	{"title", "a string"},
	{"year", "an integer"},
	{"director", "a string"},
	{"duration", "an integer"},
	{"rate", "a number"},
	{"poster", "a string"},
	{"genre", "an array of strings"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// В ошибках используем имена из JSON, а не имена полей Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return isGenre(fl.Field().String())
	})
	return v
}

func isGenre(s string) bool {
	for _, g := range Genres {
		if string(g) == s {
			return true
		}
	}
	return false
}

// FieldViolation — одно нарушенное ограничение.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult — результат проверки: либо Data, либо непустой Errors.
type ValidationResult struct {
	Data   MovieInput
	Errors []FieldViolation
}

// OK сообщает, что нарушений нет и Data можно использовать.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// ValidateMovie проверяет тело запроса на создание фильма.
// Если rate не прислали, в Data подставляется DefaultRate.
func ValidateMovie(body []byte) ValidationResult {
	in, violations := decodeInput(body)
	if in == nil {
		return ValidationResult{Errors: violations}
	}

	rules := createRules(*in)
	violations = append(violations, check(&rules, violations)...)
	if len(violations) > 0 {
		return ValidationResult{Errors: violations}
	}

	if in.Rate == nil {
		rate := DefaultRate
		in.Rate = &rate
	}
	return ValidationResult{Data: *in}
}

// ValidatePartialMovie проверяет тело PATCH-запроса.
func ValidatePartialMovie(body []byte) ValidationResult {
	in, violations := decodeInput(body)
	if in == nil {
		return ValidationResult{Errors: violations}
	}

	rules := patchRules(*in)
	violations = append(violations, check(&rules, violations)...)
	if len(violations) > 0 {
		return ValidationResult{Errors: violations}
	}
	return ValidationResult{Data: *in}
}

// decodeInput разбирает тело по полям, чтобы ошибка типа в одном поле
// не скрывала ошибки в остальных. nil означает, что тело не JSON-объект.
func decodeInput(body []byte) (*MovieInput, []FieldViolation) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, []FieldViolation{{Field: "body", Message: "body must be a JSON object"}}
	}

	var in MovieInput
	targets := map[string]func(json.RawMessage) error{
		"title":    decodeInto(&in.Title),
		"year":     decodeInt(&in.Year),
		"director": decodeInto(&in.Director),
		"duration": decodeInt(&in.Duration),
		"rate":     decodeInto(&in.Rate),
		"poster":   decodeInto(&in.Poster),
		"genre":    decodeInto(&in.Genre),
	}

	var violations []FieldViolation
	for _, f := range fieldTypes {
		msg, ok := raw[f.name]
		if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		if err := targets[f.name](msg); err != nil {
			violations = append(violations, FieldViolation{
				Field:   f.name,
				Message: fmt.Sprintf("%s must be %s", f.name, f.kind),
			})
		}
	}
	return &in, violations
}

func decodeInto[T any](dst *T) func(json.RawMessage) error {
	return func(msg json.RawMessage) error {
		return json.Unmarshal(msg, dst)
	}
}

// maxSafeInt — 2^53: дальше float64 теряет целые числа.
const maxSafeInt = 1 << 53

var errNotInteger = errors.New("not an integer")

// decodeInt принимает любое целое JSON-число, в том числе записанное как 2000.0.
func decodeInt(dst **int) func(json.RawMessage) error {
	return func(msg json.RawMessage) error {
		var f float64
		if err := json.Unmarshal(msg, &f); err != nil {
			return err
		}
		if math.Trunc(f) != f || math.Abs(f) > maxSafeInt {
			return errNotInteger
		}
		n := int(f)
		*dst = &n
		return nil
	}
}

// check прогоняет validator по структуре правил. Поля, у которых уже есть
// ошибка типа, пропускаются: иначе к ним добавилось бы "is required".
func check(rules any, typeErrors []FieldViolation) []FieldViolation {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldViolation{{Field: "body", Message: err.Error()}}
	}

	skip := make(map[string]bool, len(typeErrors))
	for _, v := range typeErrors {
		skip[v.Field] = true
	}

	out := make([]FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		root := strings.SplitN(fe.Field(), "[", 2)[0]
		if skip[root] {
			continue
		}
		out = append(out, FieldViolation{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

// describe превращает ошибку validator в человекочитаемое сообщение.
func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if fe.Field() == "genre" {
			return "Must have at least one genre"
		}
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Must have at least one genre"
		}
		return fmt.Sprintf("%s must not be empty", field)
	case "gte":
		return fmt.Sprintf("%s must be equal or greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be equal or lower than %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be a positive number", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "genre":
		names := make([]string, len(Genres))
		for i, g := range Genres {
			names[i] = string(g)
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
