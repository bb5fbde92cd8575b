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


package main

import (
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onflow/classgen/codegen"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/vm"
)

type traceFunc func(operation string, duration time.Duration, attrs []attribute.KeyValue)

// Run invokes a top-level function of the compiled unit.
// Omitted trailing arguments are filled in by the default overload.
func Run(output *Output, name string, arguments []string, onTrace traceFunc) (vm.Value, target.Type, error) {
	declared, err := output.Declarations.Lookup(name)
	if err != nil {
		return nil, target.Type{}, err
	}
	function := declared.Function
	parameters := function.ValueParameters

	if len(arguments) > len(parameters) {
		return nil, target.Type{}, fmt.Errorf(
			"%s takes %d arguments, got %d",
			name,
			len(parameters),
			len(arguments),
		)
	}

	config := vm.NewConfig()
	if onTrace != nil {
		config.OnRecordTrace = onTrace
		config.TracingEnabled = true
	}
	machine := vm.NewVM(config)
	for _, builder := range output.Builders {
		machine.DefineClass("", nil, builder)
	}

	signature := output.Mapper.MapSignature(function, mapping.OwnerKindPackage)
	method := signature.Method

	values := make([]vm.Value, 0, len(parameters))
	supplied := make([]*descriptors.ValueParameter, 0, len(arguments))
	for i, argument := range arguments {
		value, err := parseArgument(argument, method.ArgumentTypes[i])
		if err != nil {
			return nil, target.Type{}, fmt.Errorf("argument %s: %w", parameters[i].Identifier, err)
		}
		values = append(values, value)
		supplied = append(supplied, parameters[i])
	}

	owner := output.PartType.InternalName()

	if len(arguments) == len(parameters) {
		result, err := machine.InvokeStatic(owner, method, values...)
		return result, method.ReturnType, err
	}

	for _, parameter := range parameters[len(arguments):] {
		if !parameter.DeclaresDefault {
			return nil, target.Type{}, fmt.Errorf("missing argument for %s", parameter.Identifier)
		}
		values = append(values, vm.ZeroValue(method.ArgumentTypes[parameter.Index]))
	}
	for _, mask := range codegen.CallSiteMasks(function, supplied...) {
		values = append(values, mask)
	}
	values = append(values, nil)

	defaultMethod := output.Mapper.MapDefaultMethod(function, mapping.OwnerKindPackage)
	result, err := machine.InvokeStatic(owner, defaultMethod, values...)
	return result, method.ReturnType, err
}

func parseArgument(argument string, typ target.Type) (vm.Value, error) {
	if argument == "null" && typ.IsReference() {
		return nil, nil
	}

	boxed := false
	if unboxed, ok := target.UnboxType(typ); ok {
		typ = unboxed
		boxed = true
	}

	switch typ.Sort() {
	case target.SortBoolean:
		b, err := strconv.ParseBool(argument)
		if err != nil {
			return nil, err
		}
		if boxed {
			return b, nil
		}
		if b {
			return int32(1), nil
		}
		return int32(0), nil

	case target.SortInt:
		i, err := strconv.ParseInt(argument, 10, 32)
		if err != nil {
			return nil, err
		}
		return int32(i), nil

	case target.SortLong:
		return strconv.ParseInt(argument, 10, 64)

	case target.SortDouble:
		return strconv.ParseFloat(argument, 64)

	default:
		return argument, nil
	}
}

// FormatResult renders a value returned by a method with the given return type.
func FormatResult(value vm.Value, typ target.Type) string {
	switch {
	case typ.Sort() == target.SortVoid:
		return "()"
	case value == nil:
		return "null"
	case typ.Sort() == target.SortBoolean:
		return strconv.FormatBool(value.(int32) != 0)
	}

	switch value := value.(type) {
	case string:
		return strconv.Quote(value)
	case *vm.Object:
		return value.Class.Name
	default:
		return fmt.Sprint(value)
	}
}
