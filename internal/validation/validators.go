package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

// groupingCriteria are the accepted values of the group_criteria tag.
var groupingCriteria = map[string]struct{}{
	"label":  {},
	"member": {},
	"due":    {},
}

// sortOrders are the accepted values of the sort_order tag. Empty means
// the default ascending order.
var sortOrders = map[string]struct{}{
	"":     {},
	"asc":  {},
	"desc": {},
}

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("group_criteria", validateGroupCriteria); err != nil {
		panic(fmt.Sprintf("failed to register group_criteria validator: %v", err))
	}
	if err := Validate.RegisterValidation("sort_order", validateSortOrder); err != nil {
		panic(fmt.Sprintf("failed to register sort_order validator: %v", err))
	}
}

// validateGroupCriteria validates that a string is a valid grouping criteria
func validateGroupCriteria(fl validator.FieldLevel) bool {
	_, ok := groupingCriteria[fl.Field().String()]
	return ok
}

// validateSortOrder validates that a string is a valid sort order
func validateSortOrder(fl validator.FieldLevel) bool {
	_, ok := sortOrders[fl.Field().String()]
	return ok
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateGroupCriteria validates a grouping criteria string value
func ValidateGroupCriteria(value string) error {
	if _, ok := groupingCriteria[value]; !ok {
		return fmt.Errorf("invalid criteria: %s (must be 'label', 'member', or 'due')", value)
	}
	return nil
}
