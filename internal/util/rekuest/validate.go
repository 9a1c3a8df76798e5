package rekuest

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"exusiai.dev/sprintsummary/internal/core/pivot"
	"exusiai.dev/sprintsummary/internal/pkg/apperr"
	"exusiai.dev/sprintsummary/internal/util"
)

var (
	Validate   = util.NewValidator()
	translator ut.Translator
)

func init() {
	locale := en.New()
	translator, _ = ut.New(locale, locale).GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(Validate, translator); err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}

	err := Validate.RegisterTranslation("metric", translator, func(ut ut.Translator) error {
		return ut.Add("metric", "{0} must be one of ["+strings.Join(pivot.MetricNames(), " ")+"]", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("metric", fe.Field())
		return t
	})
	if err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation for function metric")
	}
}

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

func translate(ve validator.ValidationErrors) []*ErrorResponse {
	trans := make([]*ErrorResponse, 0, len(ve))
	for _, fe := range ve {
		trans = append(trans, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Translate(translator),
		})
	}
	return trans
}

func validateStruct(s any) []*ErrorResponse {
	err := Validate.Struct(s)
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			panic(err)
		}
		return translate(errs)
	}
	return nil
}

// ValidBody parses the request body into dest with fiber#BodyParser() and
// validates it. dest shall always be a pointer.
func ValidBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return apperr.ErrInvalidReq.Msg("invalid request: %s", err)
	}

	return ValidStruct(dest)
}

// ValidQuery is ValidBody for the query string.
func ValidQuery(c *fiber.Ctx, dest any) error {
	if err := c.QueryParser(dest); err != nil {
		return apperr.ErrInvalidReq.Msg("invalid query: %s", err)
	}

	return ValidStruct(dest)
}

func ValidStruct(dest any) error {
	if err := validateStruct(dest); err != nil {
		return apperr.NewInvalidViolations(err)
	}

	return nil
}
