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
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/onflow/classgen/codegen"
	codegencontext "github.com/onflow/classgen/codegen/context"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
)

// Output is the result of compiling a unit.
type Output struct {
	Declarations *Declarations
	Mapper       *mapping.TypeMapper
	PartType     target.Type
	Builders     []*classbuilder.ClassBuilder
	Bindings     *classbuilder.SerializationBindings
}

// Compile emits the methods of all functions of the unit:
// the package part first, then one class per declared class.
func Compile(ctx context.Context, unit *Unit, config *codegen.Config) (*Output, error) {
	mode, err := unit.BuilderMode()
	if err != nil {
		return nil, err
	}

	declarations, err := unit.Declare()
	if err != nil {
		return nil, err
	}

	if config == nil {
		config = codegen.NewConfig()
	}
	if unit.NotNullAssertions != nil {
		config.GenerateNotNullAssertions = *unit.NotNullAssertions
	}

	mapper := mapping.NewTypeMapper()
	tree := codegencontext.NewTree(mapper, mode)

	output := &Output{
		Declarations: declarations,
		Mapper:       mapper,
		PartType:     mapper.MapOwner(declarations.Package),
		Bindings:     classbuilder.NewSerializationBindings(),
	}

	partContext := tree.Root().IntoPackagePart(declarations.Package, output.PartType)
	partBuilder := classbuilder.NewClassBuilder(output.PartType.InternalName(), mode)
	output.Builders = append(output.Builders, partBuilder)

	err = genFunctions(
		ctx,
		codegen.NewFunctionCodegen(partContext, partBuilder, config, nil, output.Bindings),
		mapper,
		declarations.Functions,
	)
	if err != nil {
		return nil, err
	}

	for _, declaredClass := range declarations.Classes {
		classContext := tree.Root().IntoClass(declaredClass.Class, mapping.OwnerKindImplementation)
		builder := classbuilder.NewClassBuilder(mapper.MapClass(declaredClass.Class).InternalName(), mode)
		output.Builders = append(output.Builders, builder)

		functionCodegen := codegen.NewFunctionCodegen(classContext, builder, config, nil, output.Bindings)
		err = genFunctions(ctx, functionCodegen, mapper, declaredClass.Functions)
		if err != nil {
			return nil, err
		}
		err = functionCodegen.GenerateSyntheticAccessors(ctx, classContext)
		if err != nil {
			return nil, err
		}
	}

	return output, nil
}

func genFunctions(
	ctx context.Context,
	functionCodegen *codegen.FunctionCodegen,
	mapper *mapping.TypeMapper,
	functions []*Declared,
) error {
	for _, declared := range functions {
		body, err := bodyGenerator(mapper, declared)
		if err != nil {
			return err
		}
		defaults, err := defaultValues(mapper, declared)
		if err != nil {
			return err
		}
		err = functionCodegen.Gen(ctx, declared.Function, body, defaults)
		if err != nil {
			return err
		}
	}
	return nil
}

func bodyGenerator(mapper *mapping.TypeMapper, declared *Declared) (codegen.BodyGenerator, error) {
	function := declared.Function
	body := declared.Fixture.Body

	switch {
	case body == nil:
		return nil, nil

	case body.Return != "":
		parameter, err := findParameter(function, body.Return)
		if err != nil {
			return nil, err
		}
		return func(c *codegen.ExpressionCodegen) {
			typ := c.Mapper().MapType(parameter.Type)
			c.ReturnValue(c.Parameter(parameter, typ))
		}, nil

	case body.Constant != nil:
		constant, err := constantValue(body.Constant, mapper.MapType(function.ReturnType))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", function.Identifier, err)
		}
		return func(c *codegen.ExpressionCodegen) {
			c.ReturnValue(constant)
		}, nil

	default:
		return func(c *codegen.ExpressionCodegen) {
			c.ReturnValue(codegen.NoneValue{})
		}, nil
	}
}

func findParameter(function *descriptors.Function, name string) (*descriptors.ValueParameter, error) {
	names := make([]string, 0, len(function.ValueParameters))
	for _, parameter := range function.ValueParameters {
		if parameter.Identifier == name {
			return parameter, nil
		}
		names = append(names, parameter.Identifier)
	}
	return nil, fmt.Errorf("%s: %w", function.Identifier, unknownNameError("parameter", name, names))
}

func defaultValues(mapper *mapping.TypeMapper, declared *Declared) (codegen.DefaultValues, error) {
	defaults := codegen.DefaultValues{}
	for i, parameter := range declared.Function.ValueParameters {
		value := declared.Fixture.Parameters[i].Default
		if value == nil {
			continue
		}
		constant, err := constantValue(value, mapper.MapType(parameter.Type))
		if err != nil {
			return nil, fmt.Errorf("default of %s: %w", parameter, err)
		}
		defaults[parameter] = constant
	}
	return defaults, nil
}

// constantValue converts a value decoded from YAML into a constant of the given type.
// Boxed types hold constants of their primitive type.
func constantValue(value any, typ target.Type) (codegen.ConstantValue, error) {
	valueType := typ
	if unboxed, ok := target.UnboxType(typ); ok {
		valueType = unboxed
	}

	switch valueType.Sort() {
	case target.SortBoolean:
		b, ok := value.(bool)
		if !ok {
			return codegen.ConstantValue{}, fmt.Errorf("expected boolean, got %v", value)
		}
		if b {
			return codegen.Constant(int32(1), valueType), nil
		}
		return codegen.Constant(int32(0), valueType), nil

	case target.SortInt:
		i, err := integerValue(value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return codegen.ConstantValue{}, err
		}
		return codegen.Constant(int32(i), valueType), nil

	case target.SortLong:
		i, err := integerValue(value, math.MinInt64, math.MaxInt64)
		if err != nil {
			return codegen.ConstantValue{}, err
		}
		return codegen.Constant(i, valueType), nil

	case target.SortDouble:
		switch value := value.(type) {
		case float64:
			return codegen.Constant(value, valueType), nil
		default:
			i, err := integerValue(value, math.MinInt64, math.MaxInt64)
			if err != nil {
				return codegen.ConstantValue{}, err
			}
			return codegen.Constant(float64(i), valueType), nil
		}

	case target.SortObject:
		s, ok := value.(string)
		if !ok {
			return codegen.ConstantValue{}, fmt.Errorf("expected string, got %v", value)
		}
		return codegen.Constant(s, target.StringType), nil
	}

	return codegen.ConstantValue{}, fmt.Errorf("constants of type %s are not supported", typ)
}

func integerValue(value any, min int64, max int64) (int64, error) {
	var i int64
	switch value := value.(type) {
	case int:
		i = int64(value)
	case int64:
		i = value
	case uint64:
		if value > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d out of range", value)
		}
		i = int64(value)
	case string:
		var err error
		i, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("expected integer, got %v", value)
	}
	if i < min || i > max {
		return 0, fmt.Errorf("integer %d out of range", i)
	}
	return i, nil
}
