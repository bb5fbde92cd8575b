/*
 * Classgen - function-level code generation for a managed stack machine
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"runtime/debug"
	"strings"

	"golang.org/x/xerrors"
)

// InternalError is an implementation error, e.g an unreachable code path (UnreachableError).
// A program should never throw an InternalError in an ideal world.
//
// InternalError s must always be thrown and not be caught (recovered), i.e. be propagated up the call stack.
type InternalError interface {
	error
	IsInternalError()
}

// UserError is an error caused by the input handed to the code generator,
// e.g. a declaration that cannot be lowered.
type UserError interface {
	error
	IsUserError()
}

// ExternalError is an error that occurred externally, e.g. in a body generation strategy
// supplied by the caller. It contains the recovered value.
type ExternalError struct {
	Recovered any
}

func NewExternalError(recovered any) ExternalError {
	return ExternalError{
		Recovered: recovered,
	}
}

func (e ExternalError) Error() string {
	return fmt.Sprint(e.Recovered)
}

func (e ExternalError) Unwrap() error {
	err, _ := e.Recovered.(error)
	return err
}

// UnreachableError

// UnreachableError is an internal error in the code generator which should have never occurred
// due to a programming error in the code generator.
type UnreachableError struct {
	Stack []byte
}

var _ InternalError = UnreachableError{}

func (e UnreachableError) Error() string {
	return fmt.Sprintf("unreachable\n%s", e.Stack)
}

func (e UnreachableError) IsInternalError() {}

func NewUnreachableError() *UnreachableError {
	return &UnreachableError{Stack: debug.Stack()}
}

// SecondaryError is an interface for errors that provide a secondary error message
type SecondaryError interface {
	SecondaryError() string
}

// UnexpectedError is the default implementation of InternalError interface.
// It's a generic error that wraps an implementation error.
type UnexpectedError struct {
	Err error
}

var _ InternalError = UnexpectedError{}

func NewUnexpectedError(message string, arg ...any) UnexpectedError {
	return UnexpectedError{
		Err: fmt.Errorf(message, arg...),
	}
}

func NewUnexpectedErrorFromCause(err error) UnexpectedError {
	return UnexpectedError{
		Err: err,
	}
}

func (e UnexpectedError) Unwrap() error {
	return e.Err
}

func (e UnexpectedError) Error() string {
	return e.Err.Error()
}

func (e UnexpectedError) IsInternalError() {}

// DefaultUserError is the default implementation of UserError interface.
// It's a generic error that wraps a user error.
type DefaultUserError struct {
	Err error
}

var _ UserError = DefaultUserError{}

func NewDefaultUserError(message string, arg ...any) DefaultUserError {
	return DefaultUserError{
		Err: fmt.Errorf(message, arg...),
	}
}

func (e DefaultUserError) Unwrap() error {
	return e.Err
}

func (e DefaultUserError) Error() string {
	return e.Err.Error()
}

func (e DefaultUserError) IsUserError() {}

// NoOuterAccessorError is reported when a value of an outer scope was asserted
// to be reachable from a context, but the context has no outer instance.
// It indicates a bug in the construction of the context tree.
type NoOuterAccessorError struct {
	Context    string
	Descriptor string
}

var _ InternalError = &NoOuterAccessorError{}

func (e *NoOuterAccessorError) Error() string {
	if e.Descriptor == "" {
		return fmt.Sprintf("no outer instance available in context %s", e.Context)
	}
	return fmt.Sprintf(
		"don't know how to generate outer expression for %s in context %s",
		e.Descriptor,
		e.Context,
	)
}

func (e *NoOuterAccessorError) IsInternalError() {}

// CompilationError is a fatal error raised while emitting a method.
// It carries the partially emitted code, if it could be rendered.
type CompilationError struct {
	Description string
	Origin      string
	Bytecode    string
	Err         error
}

var _ InternalError = &CompilationError{}
var _ SecondaryError = &CompilationError{}

func NewCompilationError(description string, origin string, bytecode string, err error) *CompilationError {
	return &CompilationError{
		Description: description,
		Origin:      origin,
		Bytecode:    bytecode,
		Err:         err,
	}
}

func (e *CompilationError) Error() string {
	var builder strings.Builder
	builder.WriteString("wrong code generated")
	if e.Description != "" {
		builder.WriteString(" for ")
		builder.WriteString(e.Description)
	}
	if e.Origin != "" {
		builder.WriteString(" (")
		builder.WriteString(e.Origin)
		builder.WriteString(")")
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}
	return builder.String()
}

func (e *CompilationError) SecondaryError() string {
	if e.Bytecode == "" {
		return ""
	}
	return "bytecode:\n" + e.Bytecode
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *CompilationError) IsInternalError() {}

// IsInternalError Checks whether a given error was caused by an InternalError.
// An error in an internal error, if it has at-least one InternalError in the error chain.
func IsInternalError(err error) bool {
	switch err := err.(type) {
	case InternalError:
		return true
	case xerrors.Wrapper:
		return IsInternalError(err.Unwrap())
	default:
		return false
	}
}

// IsUserError Checks whether a given error was caused by an UserError.
// An error in a user error, if it has at-least one UserError in the error chain.
func IsUserError(err error) bool {
	switch err := err.(type) {
	case UserError:
		return true
	case xerrors.Wrapper:
		return IsUserError(err.Unwrap())
	default:
		return false
	}
}

// IsCancellation reports whether the error is a host-initiated abort.
// Cancellations are never wrapped.
func IsCancellation(err error) bool {
	return goerrors.Is(err, context.Canceled) ||
		goerrors.Is(err, context.DeadlineExceeded)
}

// GetExternalError returns the ExternalError in the error chain, if any
func GetExternalError(err error) (ExternalError, bool) {
	switch err := err.(type) {
	case ExternalError:
		return err, true
	case xerrors.Wrapper:
		return GetExternalError(err.Unwrap())
	default:
		return ExternalError{}, false
	}
}
