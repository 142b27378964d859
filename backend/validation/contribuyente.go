package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// etiquetas names each contribuyente field the way messages refer to it
var etiquetas = map[string]string{
	"tipoDocumento":     "El tipo de documento",
	"numeroDocumento":   "El número de documento",
	"tipoContribuyente": "El tipo de contribuyente",
	"nombre":            "El nombre",
	"condicionEspecial": "La condición especial",
	"telefono":          "El teléfono",
	"email":             "El correo electrónico",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Contribuyente applies the struct tag rules and renders Spanish messages in
// field order.
func Contribuyente(c model.Contribuyente) Result {
	c.TipoDocumento = strings.TrimSpace(c.TipoDocumento)
	c.NumeroDocumento = strings.TrimSpace(c.NumeroDocumento)
	c.TipoContribuyente = strings.TrimSpace(c.TipoContribuyente)
	c.Nombre = strings.TrimSpace(c.Nombre)
	c.Email = strings.TrimSpace(c.Email)

	err := validate.Struct(c)
	if err == nil {
		return OK()
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return result([]string{err.Error()})
	}
	errs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, mensaje(fe))
	}
	return result(errs)
}

func mensaje(fe validator.FieldError) string {
	etiqueta, ok := etiquetas[fe.Field()]
	if !ok {
		etiqueta = "El campo " + fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return etiqueta + " es obligatorio"
	case "max":
		return fmt.Sprintf("%s no puede exceder %s caracteres", etiqueta, fe.Param())
	case "email":
		return etiqueta + " no tiene un formato válido"
	}
	return fmt.Sprintf("%s no es válido (%s)", etiqueta, fe.Tag())
}
