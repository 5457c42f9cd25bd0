package web

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("isbn", validateISBN)
}

func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")

	if len(isbn) == 10 {
		matched, _ := regexp.MatchString(`^\d{9}[\dX]$`, isbn)
		return matched
	}
	if len(isbn) == 13 {
		matched, _ := regexp.MatchString(`^\d{13}$`, isbn)
		return matched
	}
	return false
}
