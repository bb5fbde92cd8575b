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
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/onflow/classgen/descriptors"
)

var upperCaser = cases.Upper(language.Und)

// Capitalize upper-cases the first letter of a name and leaves the rest unchanged.
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	return upperCaser.String(string(first)) + name[size:]
}

func startsWithIsPrefix(name string) bool {
	if !strings.HasPrefix(name, "is") || len(name) == 2 {
		return false
	}
	next, _ := utf8.DecodeRuneInString(name[2:])
	return !unicode.IsLower(next)
}

// GetterName returns the name of the getter method of a property, e.g. `getFoo` or `isEmpty`.
func GetterName(propertyName string) string {
	if startsWithIsPrefix(propertyName) {
		return propertyName
	}
	return "get" + Capitalize(propertyName)
}

// SetterName returns the name of the setter method of a property, e.g. `setFoo` or `setEmpty` for `isEmpty`.
func SetterName(propertyName string) string {
	if startsWithIsPrefix(propertyName) {
		return "set" + propertyName[2:]
	}
	return "set" + Capitalize(propertyName)
}

// FunctionName returns the target name of a function.
func FunctionName(function *descriptors.Function) string {
	if function.PlatformName != "" {
		return function.PlatformName
	}
	if function.AccessorFor != nil {
		return function.Identifier
	}
	switch function.FunctionKind {
	case descriptors.FunctionKindConstructor:
		return descriptors.ConstructorName
	case descriptors.FunctionKindGetter:
		return GetterName(function.Property.Identifier)
	case descriptors.FunctionKindSetter:
		return SetterName(function.Property.Identifier)
	case descriptors.FunctionKindLiteral:
		return "invoke"
	default:
		return function.Identifier
	}
}
