// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// A ValidationError lists every configuration field which failed
// validation.
type ValidationError struct {
	Fields []FieldError
}

// A FieldError describes one invalid field.
type FieldError struct {
	// Field is the dotted struct path, for example "Server.BaseURL".
	Field string
	// Tag is the failed validation rule.
	Tag string
	// Value is the invalid value.
	Value interface{}
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s fails %q", f.Field, f.Tag)
	}
	return "httpsvc/config: invalid configuration: " + strings.Join(parts, "; ")
}

// Validate checks cfg against its validation rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			ve := &ValidationError{Fields: make([]FieldError, len(ves))}
			for i, fe := range ves {
				ve.Fields[i] = FieldError{
					Field: strings.TrimPrefix(fe.Namespace(), "Config."),
					Tag:   fe.Tag(),
					Value: fe.Value(),
				}
			}
			return ve
		}
		return err
	}
	return nil
}
