package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// nombres de campo según el tag json en los mensajes
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal.Decimal se valida como número (gte, gt...)
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate parsea el body JSON y aplica los tags validate.
// El error devuelto envuelve domain.ErrInvalidInput con el detalle por campo.
func bindAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fmt.Errorf("cuerpo inválido: %w", domain.ErrInvalidInput)
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+": "+fe.Tag())
		}
		return fmt.Errorf("%s: %w", strings.Join(fields, ", "), domain.ErrInvalidInput)
	}
	return nil
}

// page lee limit/offset con los límites del listado (20 por defecto, máximo 100).
func page(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// dateRange lee from/to en formato 2006-01-02 o RFC3339. to en formato fecha incluye el día completo.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseDate(c.Query("from"), false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate(c.Query("to"), true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("fecha %q: %w", raw, domain.ErrInvalidInput)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// decimalQuery lee un monto decimal obligatorio de la query.
func decimalQuery(c *fiber.Ctx, key string) (decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%s requerido: %w", key, domain.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s inválido: %w", key, domain.ErrInvalidInput)
	}
	return d, nil
}
