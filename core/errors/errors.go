/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package errors provides reusable error types for semrange's value types.
//
// This package defines the error types used across the version, comparator,
// and assembly packages when parsing, marshaling, and unmarshaling strongly
// typed values. Centralizing them here eliminates duplication and gives
// every parser in the module a consistent error story.
//
// # Error Types
//
//   - ParseError
//     Returned when parsing a string into a value type fails. Use this when
//     implementing ParseXxx / TryParseXxx helpers that accept textual input.
//
//   - MarshalError
//     Returned when marshaling an invalid value fails, typically because the
//     value was constructed directly (bypassing a parser) and never
//     validated.
//
//   - UnmarshalError
//     Returned when unmarshaling JSON or YAML into a value type fails,
//     whether due to malformed input or a parse failure on the decoded
//     string.
//
//   - ValidationError
//     Returned when Validate() finds a constraint violation, a missing
//     required field, or an out-of-range value.
//
// # Usage
//
//	import "github.com/semrange/semrange/core/errors"
//
//	func ParseBehavior(s string) (Behavior, error) {
//	    switch s {
//	    case "none":
//	        return BehaviorNone, nil
//	    default:
//	        return 0, &errors.ParseError{Type: "Behavior", Value: s}
//	    }
//	}
package errors

// ParseError is returned when parsing a string into a strongly typed value
// fails.
//
// Type identifies the logical type being parsed (for example, "Version",
// "VersionComparator", "AssemblyIdentity"), and Value contains the exact
// string that could not be interpreted. Reason, when non-empty, narrows down
// which part of the grammar rejected the input (for example, "leading zero
// in release identifier" or "empty input"); it is appended to Error()'s
// message but is not itself part of the stable prefix callers may match on.
type ParseError struct {
	// Type is the logical name of the type being parsed (for example, "Version").
	Type string

	// Value is the invalid textual representation that was provided.
	Value string

	// Reason is an optional, more specific explanation of the failure.
	Reason string
}

// Error implements the error interface for ParseError.
//
// The format is "semrange: invalid {Type} value: {Value}", with
// ": {Reason}" appended when Reason is non-empty. The {Type}/{Value} prefix
// is intentionally stable; Reason is diagnostic text only.
func (e *ParseError) Error() string {
	msg := "semrange: invalid " + e.Type + " value: " + e.Value
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// MarshalError is returned when marshaling a value fails because it is not
// well-formed.
//
// Type identifies the logical type being marshaled, and Reason explains why
// the value could not be serialized. MarshalError is primarily a guardrail
// against emitting invalid JSON/YAML for values built directly from a
// struct literal rather than through a parser.
type MarshalError struct {
	// Type is the logical name of the type being marshaled (for example, "Version").
	Type string

	// Reason is a short, human-readable explanation of why marshaling failed.
	Reason string
}

// Error implements the error interface for MarshalError.
//
// The format is "semrange: cannot marshal invalid {Type}: {Reason}".
func (e *MarshalError) Error() string {
	return "semrange: cannot marshal invalid " + e.Type + ": " + e.Reason
}

// UnmarshalError is returned when unmarshaling data into a typed value
// fails.
//
// Type identifies the logical type being populated, Data contains the raw
// payload that failed to unmarshal, and Reason gives a short human-readable
// explanation (typically the error returned by the underlying parser).
type UnmarshalError struct {
	// Type is the logical name of the type being unmarshaled into.
	Type string

	// Data is the raw input that failed to unmarshal.
	Data []byte

	// Reason is a short, human-readable explanation of the failure.
	Reason string
}

// Error implements the error interface for UnmarshalError.
//
// The format is "semrange: cannot unmarshal {Type}: {Reason}". Data is
// deliberately omitted from the message; callers that need it can read the
// field directly.
func (e *UnmarshalError) Error() string {
	return "semrange: cannot unmarshal " + e.Type + ": " + e.Reason
}

// ValidationError is returned when validation of a value type fails.
//
// Type identifies the logical name of the type being validated, Field
// optionally identifies which field failed, Reason explains why, and Value
// optionally carries the offending value for diagnostics.
type ValidationError struct {
	// Type is the logical name of the type being validated.
	Type string

	// Field is the name of the field that failed validation.
	// May be empty if the error applies to the entire value.
	Field string

	// Reason is a short, human-readable explanation of why validation failed.
	Reason string

	// Value optionally contains the invalid value.
	Value any
}

// Error implements the error interface for ValidationError.
//
// The format is "semrange: invalid {Type}.{Field}: {Reason}" when Field is
// set, or "semrange: invalid {Type}: {Reason}" otherwise.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "semrange: invalid " + e.Type + "." + e.Field + ": " + e.Reason
	}
	return "semrange: invalid " + e.Type + ": " + e.Reason
}
