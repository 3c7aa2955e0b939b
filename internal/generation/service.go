// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package generation is the port to the external text-generation
// collaborator. The core never depends on it being present: every
// caller has a deterministic fallback, and failures surface as typed
// results rather than propagated exceptions.
package generation

import (
	"context"
	"errors"
	"fmt"
)

// Failure taxonomy for generation calls. Callers branch on these with
// errors.Is and degrade accordingly.
var (
	ErrProviderUnavailable = errors.New("generation provider unavailable")
	ErrTimeout             = errors.New("generation timed out")
	ErrSchemaViolation     = errors.New("generation output violates requested shape")
)

// OutputShape names the shape the caller expects back.
type OutputShape string

const (
	ShapeText       OutputShape = "text"
	ShapeJSONScores OutputShape = "json_scores"
)

// Request is one generation call: a named prompt template, the fields
// to render it with, and the expected output shape.
type Request struct {
	Template string
	Fields   map[string]string
	Shape    OutputShape
}

// Result is the explicit outcome of a generation call. Exactly one of
// Value/Err is meaningful.
type Result struct {
	Value string
	Err   error
}

// Ok reports whether the call produced a value.
func (r Result) Ok() bool { return r.Err == nil }

// Okv wraps a successful value.
func Okv(value string) Result { return Result{Value: value} }

// Errv wraps a failure.
func Errv(err error) Result { return Result{Err: err} }

// Service is the opaque generation capability. Implementations must
// respect ctx cancellation and must map their failures onto the
// package's error taxonomy.
type Service interface {
	Generate(ctx context.Context, req Request) Result
}

// Disabled is the no-backend implementation: every call reports the
// provider unavailable, which exercises the deterministic fallbacks.
type Disabled struct{}

// Generate implements Service.
func (Disabled) Generate(context.Context, Request) Result {
	return Errv(fmt.Errorf("%w: no backend configured", ErrProviderUnavailable))
}
