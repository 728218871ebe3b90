package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the domain validation tags on gin's validator
// and makes errors report JSON field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}

	var err error
	registerOnce.Do(func() {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		tags := map[string]validator.Func{
			"certification": func(fl validator.FieldLevel) bool {
				return models.Certification(fl.Field().String()).IsValid()
			},
			"language": func(fl validator.FieldLevel) bool {
				return models.Language(fl.Field().String()).IsValid()
			},
			"level": func(fl validator.FieldLevel) bool {
				return models.Level(fl.Field().String()).IsValid()
			},
			"icon_key": func(fl validator.FieldLevel) bool {
				return models.IsValidIconKey(fl.Field().String())
			},
			"participants": func(fl validator.FieldLevel) bool {
				return models.IsValidParticipants(fl.Field().String())
			},
			"quote_status": func(fl validator.FieldLevel) bool {
				return models.QuoteStatus(fl.Field().String()).IsValid()
			},
			"contact_status": func(fl validator.FieldLevel) bool {
				return models.ContactStatus(fl.Field().String()).IsValid()
			},
			"phone": func(fl validator.FieldLevel) bool {
				return models.IsValidContactPhone(fl.Field().String())
			},
		}
		for tag, fn := range tags {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}

// ValidationErrors maps a JSON field name to its messages
type ValidationErrors map[string][]string

// ParseValidationErrors converts validator errors to user-friendly messages
func ParseValidationErrors(err error) ValidationErrors {
	out := ValidationErrors{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			field := fieldPath(fe)
			out[field] = append(out[field], getErrorMessage(fe))
		}
	}

	return out
}

// fieldPath drops the struct name prefix: "FormationInput.objectives[0]" becomes "objectives.0"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.NewReplacer("[", ".", "]", "").Replace(ns)
	return ns
}

func getErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	countable := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array

	switch fe.Tag() {
	case "required":
		return "Le champ " + field + " est obligatoire."
	case "email":
		return "Le champ " + field + " doit être une adresse e-mail valide."
	case "min":
		if countable {
			return "Le champ " + field + " doit contenir au moins " + fe.Param() + " élément(s)."
		}
		if isNumber(fe.Kind()) {
			return "Le champ " + field + " doit être supérieur ou égal à " + fe.Param() + "."
		}
		return "Le champ " + field + " doit contenir au moins " + fe.Param() + " caractères."
	case "max":
		if countable {
			return "Le champ " + field + " ne peut pas contenir plus de " + fe.Param() + " éléments."
		}
		return "Le champ " + field + " ne peut pas dépasser " + fe.Param() + " caractères."
	case "oneof":
		return "Le champ " + field + " doit être l'une des valeurs : " + fe.Param() + "."
	case "phone":
		return "Le numéro de téléphone est invalide."
	case "participants":
		return "Le champ " + field + " doit être une plage du type 8-15."
	default:
		return "La valeur du champ " + field + " est invalide."
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

type normalizer interface {
	Normalize()
}

// bindJSON decodes the body into dst, normalizes it when supported, then validates.
// It writes the error response itself and reports whether the handler may continue.
func bindJSON(c *gin.Context, dst any) bool {
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(c, http.StatusRequestEntityTooLarge, "Payload too large.", err)
			return false
		}
		respondError(c, http.StatusBadRequest, "Corps de requête JSON invalide.", err)
		return false
	}

	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}

	if err := binding.Validator.ValidateStruct(dst); err != nil {
		attachError(c, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Les données fournies sont invalides.",
			"errors":  ParseValidationErrors(err),
		})
		return false
	}

	return true
}
