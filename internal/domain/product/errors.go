package product

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrProductNotFound = errors.New("product not found")

const msgImageRequired = "The image file is required!"

// ValidationError carries per-field messages for re-rendering a form.
// Product is set on edit so the page header can show the stored record.
type ValidationError struct {
	Fields  map[string]string
	Product *Product
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

func newValidationError(fields map[string]string, p *Product) *ValidationError {
	return &ValidationError{Fields: fields, Product: p}
}
