// Package forms valida los formularios del tablero campo a campo, por paso en los
// formularios de varios pasos, y modela los borradores de pedido y venta.
package forms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nextmeal/backoffice/internal/domain"
)

// validate es seguro para uso concurrente y cachea las reglas.
var validate = validator.New()

// Field regla de un campo. Check devuelve el mensaje de error o "".
type Field[T any] struct {
	Name  string
	Step  int
	Check func(T) string
}

// Validator conjunto ordenado de reglas de un formulario.
type Validator[T any] struct {
	fields []Field[T]
	steps  int
}

// NewValidator crea el validador. Los pasos se numeran desde 1; Step 0 se trata como 1.
func NewValidator[T any](fields ...Field[T]) *Validator[T] {
	v := &Validator[T]{steps: 1}
	for _, f := range fields {
		if f.Step < 1 {
			f.Step = 1
		}
		if f.Step > v.steps {
			v.steps = f.Step
		}
		v.fields = append(v.fields, f)
	}
	return v
}

// Steps número de pasos del formulario.
func (v *Validator[T]) Steps() int {
	return v.steps
}

// ValidateStep valida solo los campos visibles en step.
func (v *Validator[T]) ValidateStep(in T, step int) error {
	if step < 1 || step > v.steps {
		return fmt.Errorf("%w: paso %d fuera de rango", domain.ErrInvalidInput, step)
	}
	return v.run(in, func(f Field[T]) bool { return f.Step == step })
}

// ValidateAll valida todos los campos; se usa antes del envío final.
func (v *Validator[T]) ValidateAll(in T) error {
	return v.run(in, func(Field[T]) bool { return true })
}

func (v *Validator[T]) run(in T, include func(Field[T]) bool) error {
	errs := make(map[string]string)
	for _, f := range v.fields {
		if !include(f) {
			continue
		}
		if _, done := errs[f.Name]; done {
			continue
		}
		if msg := f.Check(in); msg != "" {
			errs[f.Name] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// ValidationError errores por campo. El formulario conserva lo enviado.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidInput
}

// Reglas reutilizables.

// Tag aplica una regla de go-playground/validator al valor obtenido.
func Tag[T any](get func(T) any, tag, msg string) func(T) string {
	return func(in T) string {
		if err := validate.Var(get(in), tag); err != nil {
			return msg
		}
		return ""
	}
}

// Required el texto no puede estar vacío ni ser solo espacios.
func Required[T any](get func(T) string, msg string) func(T) string {
	return func(in T) string {
		if strings.TrimSpace(get(in)) == "" {
			return msg
		}
		return ""
	}
}

// Positive el id debe estar seleccionado.
func Positive[T any](get func(T) int64, msg string) func(T) string {
	return func(in T) string {
		if get(in) <= 0 {
			return msg
		}
		return ""
	}
}

// All encadena reglas y devuelve el primer error.
func All[T any](checks ...func(T) string) func(T) string {
	return func(in T) string {
		for _, c := range checks {
			if msg := c(in); msg != "" {
				return msg
			}
		}
		return ""
	}
}
