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

package model

import (
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"
)

// ValidateAll validates a slice of models and returns all validation errors
// encountered during the batch validation process. This function provides a
// convenient way to validate multiple model instances in a single operation
// while collecting comprehensive error information about all validation
// failures rather than stopping at the first error.
//
// The function iterates through each model in the provided slice and invokes
// its Validate method. When a model fails validation, the error is wrapped
// with contextual information including the model's position in the slice
// (zero-indexed) and its type name obtained from TypeName. This allows callers
// to identify exactly which models failed validation and why.
//
// If one or more models fail validation, ValidateAll returns a single combined
// error built with go.uber.org/multierr, which aggregates all individual
// validation failures while letting callers still use errors.Is/errors.As
// against any one of them. If all models pass validation, the function
// returns nil. The function never panics and always processes the entire slice
// even when early elements fail validation, ensuring complete error reporting.
//
// Empty slices are considered valid and return nil. The function handles nil
// pointers within the slice according to the behavior of each model's Validate
// method, typically resulting in a validation error unless the model explicitly
// supports nil as a valid state.
//
// Example usage for batch validation of configuration models:
//
//	models := []Model{model1, model2, model3}
//	if err := ValidateAll(models); err != nil {
//	    log.Error("validation failed", "error", err)
//	}
func ValidateAll[T Model](models []T) error {
	var errs error

	for i, m := range models {
		if err := m.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("model[%d] (%s): %w", i, m.TypeName(), err))
		}
	}

	return errs
}

// MustValidate validates a model and panics if validation fails, providing a
// convenient way to assert model validity in contexts where invalid models
// represent programming errors rather than recoverable runtime errors. This
// function is designed for use in test code, initialization sequences, and
// other scenarios where panic-on-failure semantics are appropriate and desired.
//
// The function invokes the model's Validate method and examines the returned
// error. If validation succeeds (error is nil), MustValidate returns the model
// unchanged, allowing method chaining and inline initialization patterns. If
// validation fails, the function panics with a formatted message that includes
// the model's type name from TypeName and the validation error, providing clear
// diagnostics about what went wrong and which model type failed.
//
// Callers MUST only use MustValidate in contexts where panic is an acceptable
// control flow mechanism, such as test setup functions, package initialization
// code executed during program startup, or command-line tools where fatal
// errors should terminate execution. Callers MUST NOT use MustValidate in
// production server code, request handlers, background workers, or any context
// where panic would disrupt service availability or cause cascading failures.
//
// The panic behavior ensures that programming errors (such as hardcoded invalid
// test data or misconfigured initialization constants) are caught immediately
// and loudly rather than propagating through the system as subtle bugs.
//
// Example usage in test setup where invalid data indicates a test bug:
//
//	func TestSomething(t *testing.T) {
//	    m := MustValidate(MyModel{Field: "test"})
//	    // Use m knowing it's valid
//	}
func MustValidate[T Model](m T) T {
	if err := m.Validate(); err != nil {
		panic(fmt.Sprintf("model validation failed for %s: %v", m.TypeName(), err))
	}
	return m
}

// Clone creates a deep copy of a model by serializing it to JSON and then
// deserializing back into a new instance, ensuring complete independence
// between the original and the copy. This function provides a generic cloning
// implementation that works for any Model type without requiring type-specific
// copy logic, though at the cost of JSON round-trip overhead.
//
// The function first invokes json.Marshal on the source model to serialize it
// to JSON bytes. If marshaling fails (which typically indicates the model
// contains unserializable types or has a broken MarshalJSON implementation),
// Clone returns an error and a zero-value model. If marshaling succeeds, Clone
// invokes json.Unmarshal to deserialize the JSON bytes into a new model
// instance of the same type. If unmarshaling fails, Clone returns an error
// and a zero-value model.
//
// The JSON round-trip approach guarantees a deep copy because JSON
// serialization naturally handles nested structures, slices, maps, and
// pointer indirection by value rather than by reference. The cloned model is
// completely independent of the original, meaning modifications to either
// instance do not affect the other. This holds true even for nested models,
// slices of models, and maps containing models.
//
// The primary drawback of this implementation is performance overhead from
// JSON encoding and decoding. For performance-critical code paths that clone
// models frequently, implementations SHOULD provide a custom Clone method by
// implementing the Cloneable[T] interface with hand-written copy logic that
// avoids serialization overhead. For general-purpose code where cloning is
// infrequent, this generic Clone function provides simplicity and correctness.
//
// Callers MUST check the returned error before using the cloned model. If
// Clone returns an error, the model return value is a zero-value instance that
// MUST NOT be used.
//
// Example usage for creating an independent copy of a model:
//
//	copy, err := Clone(original)
//	if err != nil {
//	    return err
//	}
//	// Modify copy without affecting original
func Clone[T Model](m T) (T, error) {
	var zero T

	data, err := json.Marshal(m)
	if err != nil {
		return zero, fmt.Errorf("clone marshal failed: %w", err)
	}

	var clone T
	if err := json.Unmarshal(data, &clone); err != nil {
		return zero, fmt.Errorf("clone unmarshal failed: %w", err)
	}

	return clone, nil
}
