package web

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var val = validator.New(validator.WithRequiredStructEnabled())

type (
	BadField struct {
		Field string
		Tag   string
		Value interface{}
	}

	BadFields struct {
		Items []*BadField
	}
)

// VerifyArg parses query args into out and validates them.
func VerifyArg(c *fiber.Ctx, out interface{}) error {
	if err := c.QueryParser(out); err != nil {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: err.Error(),
		}
	}
	if err := Validate(out); err != nil {
		return err
	}
	return nil
}

func Validate(data interface{}) *BadFields {
	err := val.Struct(data)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return &BadFields{Items: []*BadField{{Field: "invalid", Tag: "invalid", Value: err.Error()}}}
	}
	fields := make([]*BadField, 0, len(valErrs))
	for _, fe := range valErrs {
		fields = append(fields, &BadField{Field: fe.Field(), Tag: fe.Tag(), Value: fe.Value()})
	}
	return &BadFields{Items: fields}
}

func (f *BadFields) Error() string {
	if f == nil {
		return ""
	}
	texts := make([]string, 0, len(f.Items))
	for _, it := range f.Items {
		texts = append(texts, fmt.Sprintf("[%s]: '%v', must %s", it.Field, it.Value, it.Tag))
	}
	return strings.Join(texts, ", ")
}

func ErrHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	errText := err.Error()

	var fieldErr *BadFields
	var fe *fiber.Error
	var banErr *errs.Error
	if errors.As(err, &fieldErr) {
		code = fiber.StatusBadRequest
	} else if errors.As(err, &fe) {
		code = fe.Code
	} else if errors.As(err, &banErr) {
		if banErr.Code == core.ErrBadConfig || banErr.Code == core.ErrParseAmbiguous {
			code = fiber.StatusBadRequest
		}
		errText = banErr.Short()
	}

	fields := []zap.Field{zap.String("m", c.Method()), zap.String("url", c.OriginalURL()), zap.Error(err)}
	if code == fiber.StatusInternalServerError {
		log.Warn("server error", fields...)
	} else {
		log.Info("req fail", fields...)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(errText)
}
