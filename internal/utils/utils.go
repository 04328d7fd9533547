// Package utils collects small helpers shared by the controllers and the shell.
//
// Functional Programming Utilities:
//   - Map, Filter: generic slice processing.
//
// Slices:
//   - Contains, IndexOf, Without
//
// Errors:
//   - ValidationError: client-side rejections rendered inline, never retried.
//
// Miscellaneous:
//   - GenerateRandomString: API key material.
//   - ParseDay: parses the date formats the backend emits.
package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"
)

/* some Functional Programming in Go */
// map
type mapFunc[E any, R any] func(E) R

// Map function definition of a functional programming "function"
func Map[S ~[]E, E any, R any](s S, f mapFunc[E, R]) []R {
	result := make([]R, len(s))
	for i, e := range s {
		result[i] = f(e)
	}

	return result
}

// filter
type keepFunc[E any] func(E) bool

// Filter function definition of a functional programming "function"
func Filter[S ~[]E, E any](s S, f keepFunc[E]) S {
	result := S{}
	for _, v := range s {
		if f(v) {
			result = append(result, v)
		}
	}

	return result
}

// Contains reports whether val is in slice.
func Contains[E comparable](slice []E, val E) bool {
	return IndexOf(slice, val) >= 0
}

// IndexOf returns the position of val in slice or -1.
func IndexOf[E comparable](slice []E, val E) int {
	for i, s := range slice {
		if s == val {
			return i
		}
	}

	return -1
}

// Without returns a copy of slice with every occurrence of val dropped.
func Without[E comparable](slice []E, val E) []E {
	return Filter(slice, func(e E) bool { return e != val })
}

// ValidationError is a client-side rejection, e.g. an unknown username or a duplicate add.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError with a formatted message.
func NewValidation(field, msg string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(msg, args...)}
}

// AsValidation unwraps err to a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}

	return nil, false
}

// DayFormat is the format of date inputs and of due dates on the wire.
const DayFormat = "2006-01-02"

// dayLayouts are the timestamp shapes the backend emits for dates.
var dayLayouts = []string{
	DayFormat,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDay accepts a plain date or a timestamp, with or without a zone, and
// keeps the calendar day as written.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	var err error
	for _, layout := range dayLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, err
}

// GenerateRandomString returns length characters drawn from [a-zA-Z0-9].
func GenerateRandomString(length int) (string, error) {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	bytes := make([]byte, length)
	random := make([]byte, length)
	_, err := rand.Read(random)
	if err != nil {
		return "", err
	}
	for i := 0; i < length; i++ {
		bytes[i] = chars[int(random[i])%len(chars)]
	}
	return string(bytes), nil
}
