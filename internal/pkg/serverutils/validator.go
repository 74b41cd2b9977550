package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest checks struct tags and turns violations into a 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s failed on '%s=%s'", fe.Field(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
		}
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, "; "))
}
