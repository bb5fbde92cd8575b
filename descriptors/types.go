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

package descriptors

import (
	"strings"
)

// Type is a source-level type: a classifier applied to type arguments.
type Type struct {
	Classifier Classifier
	Arguments  []*Type
	Nullable   bool
}

func NewType(classifier Classifier, arguments ...*Type) *Type {
	return &Type{
		Classifier: classifier,
		Arguments:  arguments,
	}
}

// MakeNullable returns a nullable copy of the type.
func (t *Type) MakeNullable() *Type {
	if t.Nullable {
		return t
	}
	result := *t
	result.Nullable = true
	return &result
}

// Class returns the class of the type, or nil if the type is a type parameter.
func (t *Type) Class() *Class {
	class, _ := t.Classifier.(*Class)
	return class
}

// TypeParameter returns the type parameter of the type, or nil if the type is a class type.
func (t *Type) TypeParameter() *TypeParameter {
	typeParameter, _ := t.Classifier.(*TypeParameter)
	return typeParameter
}

// IsNullable is true if values of the type may be null,
// either because the type is marked nullable or because
// it is a type parameter with a nullable upper bound.
func (t *Type) IsNullable() bool {
	if t.Nullable {
		return true
	}
	typeParameter := t.TypeParameter()
	if typeParameter == nil {
		return false
	}
	if len(typeParameter.UpperBounds) == 0 {
		return true
	}
	for _, bound := range typeParameter.UpperBounds {
		if !bound.IsNullable() {
			return false
		}
	}
	return true
}

func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Classifier != other.Classifier ||
		t.Nullable != other.Nullable ||
		len(t.Arguments) != len(other.Arguments) {

		return false
	}
	for i, argument := range t.Arguments {
		if !argument.Equal(other.Arguments[i]) {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var builder strings.Builder
	builder.WriteString(t.Classifier.Name())
	if len(t.Arguments) > 0 {
		builder.WriteByte('<')
		for i, argument := range t.Arguments {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(argument.String())
		}
		builder.WriteByte('>')
	}
	if t.Nullable {
		builder.WriteByte('?')
	}
	return builder.String()
}
