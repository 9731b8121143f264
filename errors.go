// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package t3awg

import (
	"errors"
	"fmt"
)

// ErrWriteOnly is returned when querying a property the instrument
// accepts set commands for but provides no query form.
var ErrWriteOnly = errors.New("t3awg: property has no query form")

// ValidationError reports a property value rejected by the driver
// before any command was sent to the instrument.
type ValidationError struct {
	Property string
	Value    any
	Allowed  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("t3awg: invalid %s value %v, allowed %s",
		e.Property, e.Value, e.Allowed)
}

// checkRange rejects values outside the closed interval [lo, hi].
func checkRange(prop string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return &ValidationError{
			Property: prop,
			Value:    v,
			Allowed:  fmt.Sprintf("[%g, %g]", lo, hi),
		}
	}
	return nil
}

// checkSet rejects values outside an enumerated discrete set.
func checkSet[T comparable](prop string, v T, allowed ...T) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return &ValidationError{
		Property: prop,
		Value:    v,
		Allowed:  fmt.Sprint(allowed),
	}
}
