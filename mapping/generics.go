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

package mapping

import (
	"strings"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/target"
)

// genericSignature returns the generic signature of a method,
// or the empty string if the function does not involve type parameters.
func (m *TypeMapper) genericSignature(
	function *descriptors.Function,
	parameters []target.ParameterSignature,
) string {
	if !usesTypeParameters(function) {
		return ""
	}

	var builder strings.Builder

	if len(function.TypeParameters) > 0 {
		builder.WriteByte('<')
		for _, typeParameter := range function.TypeParameters {
			builder.WriteString(typeParameter.Identifier)
			builder.WriteByte(':')
			bound := target.ObjectType.Descriptor()
			if len(typeParameter.UpperBounds) > 0 {
				bound = m.typeSignature(typeParameter.UpperBounds[0], true)
			}
			builder.WriteString(bound)
		}
		builder.WriteByte('>')
	}

	builder.WriteByte('(')
	valueIndex := 0
	for _, parameter := range parameters {
		switch {
		case parameter.Kind.IsSkippedInGenericSignature():
			continue
		case parameter.Kind == target.ParameterKindValue:
			builder.WriteString(m.typeSignature(function.ValueParameters[valueIndex].Type, false))
			valueIndex++
		case parameter.Kind == target.ParameterKindReceiver:
			builder.WriteString(m.typeSignature(function.ExtensionReceiver.Type, false))
		default:
			builder.WriteString(parameter.Type.Descriptor())
		}
	}
	builder.WriteByte(')')

	returnType := m.MapReturnType(function)
	if returnType == target.VoidType || function.ReturnType == nil {
		builder.WriteString(returnType.Descriptor())
	} else {
		builder.WriteString(m.typeSignature(function.ReturnType, false))
	}

	return builder.String()
}

func usesTypeParameters(function *descriptors.Function) bool {
	if len(function.TypeParameters) > 0 {
		return true
	}
	if function.ReturnType != nil && hasTypeParameter(function.ReturnType) {
		return true
	}
	if function.ExtensionReceiver != nil && hasTypeParameter(function.ExtensionReceiver.Type) {
		return true
	}
	for _, parameter := range function.ValueParameters {
		if hasTypeParameter(parameter.Type) {
			return true
		}
	}
	return false
}

func hasTypeParameter(typ *descriptors.Type) bool {
	if typ.TypeParameter() != nil {
		return true
	}
	for _, argument := range typ.Arguments {
		if hasTypeParameter(argument) {
			return true
		}
	}
	return false
}

func (m *TypeMapper) typeSignature(typ *descriptors.Type, boxed bool) string {
	if typeParameter := typ.TypeParameter(); typeParameter != nil {
		return "T" + typeParameter.Identifier + ";"
	}

	mapped := m.MapType(typ)
	if boxed {
		mapped = target.BoxType(mapped)
	}
	if mapped.Sort() != target.SortObject || len(typ.Arguments) == 0 {
		return mapped.Descriptor()
	}

	var builder strings.Builder
	builder.WriteByte('L')
	builder.WriteString(mapped.InternalName())
	builder.WriteByte('<')
	for _, argument := range typ.Arguments {
		builder.WriteString(m.typeSignature(argument, true))
	}
	builder.WriteString(">;")
	return builder.String()
}
