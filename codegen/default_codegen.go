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


package codegen

import (
	"context"

	"github.com/bits-and-blooms/bitset"

	codegencontext "github.com/onflow/classgen/codegen/context"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
	"github.com/onflow/classgen/target/opcode"
)

// declaredDefaults returns the indices of the value parameters that declare a default value.
func declaredDefaults(function *descriptors.Function) *bitset.BitSet {
	result := bitset.New(uint(len(function.ValueParameters)))
	for index, parameter := range function.ValueParameters {
		if parameter.DeclaresDefault {
			result.Set(uint(index))
		}
	}
	return result
}

// maskBit returns the mask index and the bit of a value parameter that declares a default value.
// Bits are assigned to the parameters with default values, in declaration order.
func maskBit(declared *bitset.BitSet, index int) (int, int32) {
	ordinal := declared.Rank(uint(index)) - 1
	return int(ordinal / 32), int32(uint32(1) << (ordinal % 32))
}

// CallSiteMasks returns the mask arguments of a call of the default overload of a function,
// given the value parameters for which the caller supplies an argument.
// A set bit means the argument was supplied.
func CallSiteMasks(function *descriptors.Function, supplied ...*descriptors.ValueParameter) []int32 {
	declared := declaredDefaults(function)

	presence := bitset.New(declared.Count())
	for _, parameter := range supplied {
		index := uint(parameter.Index)
		if !declared.Test(index) {
			continue
		}
		presence.Set(declared.Rank(index) - 1)
	}

	masks := make([]int32, mapping.MaskCount(len(function.ValueParameters)))
	for ordinal, ok := presence.NextSet(0); ok; ordinal, ok = presence.NextSet(ordinal + 1) {
		masks[ordinal/32] |= int32(uint32(1) << (ordinal % 32))
	}
	return masks
}

func defaultMethodFlags(function *descriptors.Function) target.AccessFlags {
	flags := mapping.MemberAccessFlag(function) | target.AccSynthetic
	if isDeprecated(function) {
		flags |= target.AccDeprecated
	}
	if !function.IsConstructor() {
		flags |= target.AccStatic
	}
	return flags &^ target.AccPrivate
}

// GenerateDefaultIfNeeded emits the default overload of a function with default values:
// a method taking all parameters, the presence masks and a marker parameter,
// which computes the values of the omitted parameters and calls the function.
func (c *FunctionCodegen) GenerateDefaultIfNeeded(
	ctx context.Context,
	methodContext *codegencontext.Context,
	function *descriptors.Function,
	kind mapping.OwnerKind,
	loader DefaultValueLoader,
) (err error) {
	defer recoverError(&err)

	if err := ctx.Err(); err != nil {
		return err
	}

	if kind != mapping.OwnerKindDefaultImpls && descriptors.IsInterface(function.Owner) {
		return nil
	}

	if !descriptors.DeclaresDefaultValues(function) {
		return nil
	}

	method := c.mapper.MapDefaultMethod(function, kind)
	if c.builder.HasMethod(method.Key()) {
		return nil
	}

	trace := c.traceEmit(tracingDefaultEmit)

	writer := c.builder.NewMethod(
		classbuilder.SyntheticOrigin(function),
		defaultMethodFlags(function),
		method,
		"",
		c.exceptions(function),
	)

	if trace != nil {
		defer trace(writer)
	}

	description := "default method"
	if c.owner.Kind == codegencontext.KindFacade {
		description = "default method delegation"
	}

	return c.withinMethod(writer, description, function, func() error {
		c.generateMethodAnnotations(writer, function)

		if !c.builder.Mode().GenerateBodies() {
			return nil
		}

		writer.VisitCode()

		if c.owner.Kind == codegencontext.KindFacade {
			generateFacadeDelegateBody(NewInstructionAdapter(writer), method, c.owner.DelegateOwner)
			return nil
		}

		if loader == nil {
			panic(errors.NewUnexpectedError("no default value loader for %s", function))
		}

		c.generateDefaultImplBody(writer, methodContext, function, kind, loader)
		return nil
	})
}

func (c *FunctionCodegen) generateDefaultImplBody(
	writer *classbuilder.MethodWriter,
	methodContext *codegencontext.Context,
	function *descriptors.Function,
	kind mapping.OwnerKind,
	loader DefaultValueLoader,
) {
	signature := c.mapper.MapSignature(function, kind)
	isStatic := mapping.IsStaticMethod(kind, function)
	frameMap := CreateFrameMap(c.mapper, function, signature, isStatic)

	codegen := newExpressionCodegen(writer, frameMap, signature, methodContext, c)
	v := codegen.InstructionAdapter

	// `this` and the compiler-inserted parameters are passed through
	slot := 0
	if !isStatic {
		v.Load(0, target.ObjectType)
		slot++
	}
	for _, parameter := range signature.Parameters {
		switch parameter.Kind {
		case target.ParameterKindValue, target.ParameterKindConstructorMarker:
			continue
		}
		v.Load(slot, parameter.Type)
		slot += parameter.Type.Size()
	}
	valueParameters := signature.ParametersOfKind(target.ParameterKindValue)

	maskSlots := make([]int, mapping.MaskCount(len(function.ValueParameters)))
	for index := range maskSlots {
		maskSlots[index] = frameMap.EnterTemp(target.IntType)
	}

	declared := declaredDefaults(function)

	for index, parameter := range function.ValueParameters {
		parameterType := valueParameters[index].Type
		parameterSlot, ok := frameMap.Index(parameter)
		if !ok {
			panic(errors.NewUnexpectedError("%s has no slot", parameter))
		}

		if parameter.DeclaresDefault {
			maskIndex, bit := maskBit(declared, index)

			skip := v.NewLabel()
			v.Load(maskSlots[maskIndex], target.IntType)
			v.IConst(bit)
			v.And()
			v.IfNe(skip)

			Local(parameterSlot, parameterType).Store(loader.GenValue(parameter, codegen), v)

			v.Mark(skip)
		}

		v.Load(parameterSlot, parameterType)
	}

	if len(signature.ParametersOfKind(target.ParameterKindConstructorMarker)) > 0 {
		v.AConstNull()
	}

	callable := c.mapper.MapToCallableMethod(function, false)
	v.InvokeCallable(callable)
	v.Coerce(callable.Method().ReturnType, signature.ReturnType())
	v.Return(signature.ReturnType())
}

// GenerateOverloadsWithDefaultValues emits, for a function annotated with @Overloads,
// one overload per number of trailing omitted default values.
// Each overload calls the default overload with the omitted parameters marked absent.
func (c *FunctionCodegen) GenerateOverloadsWithDefaultValues(
	ctx context.Context,
	function *descriptors.Function,
) (err error) {
	defer recoverError(&err)

	if !function.Annotations.Has(descriptors.OverloadsAnnotation) ||
		!descriptors.DeclaresDefaultValues(function) {

		return nil
	}

	kind := c.owner.OwnerKind
	if kind == mapping.OwnerKindDefaultImpls || descriptors.IsInterface(function.Owner) {
		return nil
	}

	count := int(declaredDefaults(function).Count())

	for omitted := 1; omitted <= count; omitted++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.generateOverload(function, remainingParameters(function, count-omitted), kind)
		if err != nil {
			return err
		}
	}

	return nil
}

// remainingParameters returns the parameters without default values
// and the first given number of parameters with default values.
func remainingParameters(function *descriptors.Function, defaultCount int) []*descriptors.ValueParameter {
	var result []*descriptors.ValueParameter
	for _, parameter := range function.ValueParameters {
		if parameter.DeclaresDefault {
			if defaultCount == 0 {
				continue
			}
			defaultCount--
		}
		result = append(result, parameter)
	}
	return result
}

// substituteParameters returns a copy of the function with the given subset of its value parameters.
func substituteParameters(function *descriptors.Function, parameters []*descriptors.ValueParameter) *descriptors.Function {
	copied := *function
	copied.Original = nil
	substituted := make([]*descriptors.ValueParameter, 0, len(parameters))
	for _, parameter := range parameters {
		copiedParameter := *parameter
		copiedParameter.DeclaresDefault = false
		substituted = append(substituted, &copiedParameter)
	}
	copied.SetValueParameters(substituted...)
	return &copied
}

func (c *FunctionCodegen) generateOverload(
	function *descriptors.Function,
	remaining []*descriptors.ValueParameter,
	kind mapping.OwnerKind,
) error {
	overload := substituteParameters(function, remaining)
	signature := c.mapper.MapSignature(overload, kind)
	if c.builder.HasMethod(signature.Method.Key()) {
		return nil
	}

	isStatic := mapping.IsStaticMethod(kind, function)

	flags := mapping.MemberAccessFlag(function)
	if isStatic {
		flags |= target.AccStatic
	}
	if function.Modality == descriptors.ModalityFinal && !function.IsConstructor() {
		flags |= target.AccFinal
	}
	if isDeprecated(function) {
		flags |= target.AccDeprecated
	}

	writer := c.builder.NewMethod(
		classbuilder.OtherOrigin(function),
		flags,
		signature.Method,
		signature.GenericsSignature,
		c.exceptions(function),
	)

	methodContext := c.owner.IntoFunction(overload)

	return c.withinMethod(writer, "overload", function, func() error {
		c.generateMethodAnnotations(writer, function)
		c.generateParameterAnnotations(writer, overload, signature)

		if !c.builder.Mode().GenerateBodies() {
			c.generateLocalVariableTable(writer, overload, methodContext, signature, kind, writer.NewLabel(), writer.NewLabel())
			return nil
		}

		writer.VisitCode()

		v := NewInstructionAdapter(writer)
		methodBegin := v.NewLabel()
		v.Mark(methodBegin)

		frameMap := CreateFrameMap(c.mapper, overload, signature, isStatic)

		slot := 0
		if !isStatic {
			v.Load(0, target.ObjectType)
			slot++
		}
		for _, parameter := range signature.Parameters {
			if parameter.Kind == target.ParameterKindValue {
				continue
			}
			v.Load(slot, parameter.Type)
			slot += parameter.Type.Size()
		}

		// the substituted parameters are copies, in the order of the originals
		var supplied []*descriptors.ValueParameter
		next := 0
		for _, parameter := range function.ValueParameters {
			parameterType := c.mapper.MapType(parameter.Type)
			if next < len(remaining) && remaining[next] == parameter {
				slot, _ := frameMap.Index(overload.ValueParameters[next])
				v.Load(slot, parameterType)
				supplied = append(supplied, parameter)
				next++
			} else {
				v.PushDefault(parameterType)
			}
		}

		for _, mask := range CallSiteMasks(function, supplied...) {
			v.IConst(mask)
		}
		v.AConstNull()

		defaultMethod := c.mapper.MapDefaultMethod(function, kind)
		if function.IsConstructor() {
			v.Invoke(opcode.InvokeSpecial, c.builder.InternalName(), defaultMethod)
		} else {
			v.Invoke(opcode.InvokeStatic, c.builder.InternalName(), defaultMethod)
		}
		v.Return(signature.ReturnType())

		methodEnd := v.NewLabel()
		v.Mark(methodEnd)

		c.generateLocalVariableTable(writer, overload, methodContext, signature, kind, methodBegin, methodEnd)
		return nil
	})
}
