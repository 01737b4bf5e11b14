// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "errors"

// ErrNotFound is returned by write operations that target a post which does
// not exist. Read paths return (nil, nil) instead — absence is not an error
// when looking something up.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected field on create or update. No write is
// performed when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
