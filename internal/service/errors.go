package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by every service. Wrap them with fmt.Errorf("...: %w")
// to add detail; callers test with errors.Is.
var (
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrAuthenticationRequired = errors.New("authentication credentials were not provided")
	ErrPermissionDenied       = errors.New("you do not have permission to perform this action")
)

// ValidationError reports which input rule was violated.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(rule, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// Validation rule names.
const (
	RuleNameRequired           = "name_required"
	RuleNameTooLong            = "name_too_long"
	RuleTextRequired           = "text_required"
	RuleCookingTimeNotPositive = "cooking_time_not_positive"
	RuleIngredientsEmpty       = "ingredients_empty"
	RuleIngredientsDuplicate   = "ingredients_duplicate"
	RuleAmountNotPositive      = "amount_not_positive"
	RuleIngredientUnknown      = "ingredient_unknown"
	RuleTagsEmpty              = "tags_empty"
	RuleTagsDuplicate          = "tags_duplicate"
	RuleTagUnknown             = "tag_unknown"
	RuleImageInvalid           = "image_invalid"
	RuleSelfFollow             = "self_follow"
	RuleEmailTaken             = "email_taken"
	RuleUsernameTaken          = "username_taken"
	RuleInvalidCredentials     = "invalid_credentials"
	RuleInvalidPassword        = "invalid_password"
	RuleInvalidFilter          = "invalid_filter"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password.
var ErrInvalidCredentials = invalid(RuleInvalidCredentials, "unable to log in with provided credentials")

func requireAuth(authenticated bool) error {
	if !authenticated {
		return ErrAuthenticationRequired
	}
	return nil
}
