// Package web defines common components for a web application.
package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// ErrorMsg wraps a message into json friendly struct.
func ErrorMsg(msg string) JSONError {
	return JSONError{Error: msg}
}

// GetErrorMsg returns human readable message for the first failed validation.
func GetErrorMsg(ve validator.ValidationErrors) string {
	if len(ve) == 0 {
		return ""
	}

	fe := ve[0]

	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}

	return fe.Field() + " is invalid"
}
