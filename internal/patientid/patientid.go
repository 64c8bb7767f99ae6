// Package patientid implements the PATnnn identifier sequence used by the
// intake client.
package patientid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Prefix starts every generated identifier.
const Prefix = "PAT"

// First is the identifier handed out when no record exists yet.
const First = Prefix + "001"

// ErrMalformed is returned for identifiers outside the PATnnn convention.
var ErrMalformed = errors.New("patient id does not follow the PATnnn format")

// Parse returns the sequence number of id.
func Parse(id string) (int, error) {
	digits, ok := strings.CutPrefix(id, Prefix)
	if !ok || len(digits) < 3 {
		return 0, ErrMalformed
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, ErrMalformed
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return n, nil
}

// Valid reports whether id follows the PATnnn convention.
func Valid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Format renders sequence number n, zero-padded to at least three digits.
func Format(n int) string {
	return fmt.Sprintf("%s%03d", Prefix, n)
}

// Next returns the identifier that follows last. An empty last means the
// store is empty and the sequence starts at First.
func Next(last string) (string, error) {
	if last == "" {
		return First, nil
	}
	n, err := Parse(last)
	if err != nil {
		return "", err
	}
	return NextAfter(n)
}

// NextAfter returns the identifier following sequence number n. Zero yields
// First.
func NextAfter(n int) (string, error) {
	if n < 0 || n == math.MaxInt {
		return "", fmt.Errorf("%w: sequence %d has no successor", ErrMalformed, n)
	}
	return Format(n + 1), nil
}
