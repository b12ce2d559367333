// Package validator holds the declarative request validation applied at
// the HTTP boundary. Rules run in field order and every violation is
// collected, so a response always carries the full list of problems.
package validator

import (
	"strings"
	"unicode/utf8"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BatchFieldError pins a violation to an element of a batch payload.
type BatchFieldError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type FieldErrors []FieldError

func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

func (e *FieldErrors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

var allowedTodoStatus = []string{"active", "inactive"}

// AllowedStatus reports whether s is a recognised todo status.
func AllowedStatus(s string) bool {
	for _, allowed := range allowedTodoStatus {
		if s == allowed {
			return true
		}
	}
	return false
}

// ValidateTodo checks a single todo payload: title 3-100 chars,
// description required and at most 500 chars, status restricted to the
// allowed set when present.
func ValidateTodo(title, description, status string) FieldErrors {
	var errs FieldErrors

	// Length bounds count characters, not bytes.
	if strings.TrimSpace(title) == "" {
		errs.Add("title", "Title is required!")
	} else if utf8.RuneCountInString(title) < 3 {
		errs.Add("title", "Title must be at least 3 characters")
	} else if utf8.RuneCountInString(title) > 100 {
		errs.Add("title", "Title cannot exceed 100 characters")
	}

	if strings.TrimSpace(description) == "" {
		errs.Add("description", "Description is required")
	} else if utf8.RuneCountInString(description) > 500 {
		errs.Add("description", "Description cannot exceed 500 characters")
	}

	if status != "" && !AllowedStatus(status) {
		errs.Add("status", "Invalid status value")
	}

	return errs
}

// ValidateSignup checks a signup payload: name and username required,
// password at least 6 characters.
func ValidateSignup(name, username, password string) FieldErrors {
	var errs FieldErrors

	if strings.TrimSpace(name) == "" {
		errs.Add("name", "Name is required")
	}
	if strings.TrimSpace(username) == "" {
		errs.Add("username", "Username is required")
	}
	if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}

	return errs
}
