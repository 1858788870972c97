package menu

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateMenuItem validates a menu item before creation or update.
func ValidateMenuItem(item *MenuItem) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(item.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if item.Price.IsNegative() {
		errors = append(errors, ValidationError{
			Field:   "price",
			Message: "price cannot be negative",
		})
	}

	if !item.Category.Valid() {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "category must be drink or food",
		})
	}

	for i, addOn := range item.AddOns {
		if strings.TrimSpace(addOn.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("addOns[%d].name", i),
				Message: "add-on name is required",
			})
		}
		if addOn.Price.IsNegative() {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("addOns[%d].price", i),
				Message: "add-on price cannot be negative",
			})
		}
	}

	return errors
}
