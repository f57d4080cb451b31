package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/session"
	"github.com/nextmeal/backoffice/internal/domain"
)

// validate revisa las etiquetas `validate` de los DTO de entrada.
var validate = validator.New()

type detailer interface {
	Details() []string
}

// writeError traduce un error de aplicación a la respuesta HTTP.
// Los campos enviados nunca se descartan: la validación devuelve el mapa de errores por campo.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}

	var ve *forms.ValidationError
	var se *session.SigninError
	var d detailer
	switch {
	case errors.As(err, &ve):
		resp.Message = "Revise los campos marcados"
		resp.Fields = ve.Fields
	case errors.As(err, &se):
		resp.Details = se.Messages
	case errors.As(err, &d):
		if details := d.Details(); len(details) > 1 {
			resp.Details = details
		}
	}

	switch status {
	case fiber.StatusInternalServerError:
		log.Error().Err(err).Str("ruta", c.Path()).Msg("error interno")
		resp.Message = "error interno"
	case fiber.StatusBadGateway:
		log.Warn().Err(err).Str("ruta", c.Path()).Msg("backend no disponible")
		resp.Message = domain.ErrTransport.Error()
	}
	return c.Status(status).JSON(resp)
}

func classify(err error) (int, string) {
	var se *session.SigninError
	switch {
	case errors.As(err, &se):
		if errors.Is(err, domain.ErrForbidden) {
			return fiber.StatusForbidden, "FORBIDDEN"
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return fiber.StatusUnauthorized, "UNAUTHORIZED"
		}
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrSessionNotFound):
		return fiber.StatusUnauthorized, "SESSION_EXPIRED"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrTerminalState):
		return fiber.StatusConflict, "TERMINAL_STATE"
	case errors.Is(err, domain.ErrOrderNotCompleted):
		return fiber.StatusConflict, "ORDER_NOT_COMPLETED"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrTransport):
		return fiber.StatusBadGateway, "BACKEND_UNAVAILABLE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// bind decodifica el JSON y revisa las etiquetas `validate`. Si devuelve false la
// respuesta de error ya está escrita.
func bind(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = badRequest(c, "INVALID_BODY", "cuerpo inválido")
		return false
	}
	return checkStruct(c, out)
}

func checkStruct(c *fiber.Ctx, in any) bool {
	err := validate.Struct(in)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		_ = badRequest(c, "VALIDATION", err.Error())
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = "valor inválido (" + fe.Tag() + ")"
	}
	_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Revise los campos marcados", Fields: fields})
	return false
}

// idParam lee :id como entero positivo. Si devuelve false la respuesta ya está escrita.
func idParam(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = badRequest(c, "MISSING_ID", "id inválido")
		return 0, false
	}
	return int64(id), true
}
