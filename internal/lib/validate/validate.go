package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// Struct проверяет теги validate и собирает ошибки в одно читаемое сообщение.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, message(e))
	}

	return errors.New(strings.Join(msgs, "; "))
}

func message(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("поле %s обязательно", field)
	case "gte", "min":
		return fmt.Sprintf("поле %s должно быть не меньше %s", field, e.Param())
	case "lte", "max":
		return fmt.Sprintf("поле %s должно быть не больше %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("поле %s должно быть одним из: %s", field, e.Param())
	case "gtfield":
		return fmt.Sprintf("поле %s должно быть больше %s", field, e.Param())
	default:
		return fmt.Sprintf("поле %s не прошло проверку %s", field, e.Tag())
	}
}
