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

	codegencontext "github.com/onflow/classgen/codegen/context"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
)

// GenerateSyntheticAccessors emits the accessors registered in the context of a class,
// in creation order. Accessors that were already emitted are skipped.
func (c *FunctionCodegen) GenerateSyntheticAccessors(ctx context.Context, classContext *codegencontext.Context) (err error) {
	defer recoverError(&err)

	return classContext.ForeachAccessor(func(accessor codegencontext.SyntheticAccessor) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return c.generateSyntheticAccessor(ctx, classContext, accessor)
	})
}

func (c *FunctionCodegen) generateSyntheticAccessor(
	ctx context.Context,
	classContext *codegencontext.Context,
	accessor codegencontext.SyntheticAccessor,
) error {
	switch accessor := accessor.(type) {
	case *codegencontext.FunctionAccessor:
		return c.generateAccessorMethod(
			ctx,
			classContext,
			accessor.Function,
			accessor.Callee,
			functionAccessorStrategy{
				callee: accessor.Callee,
				super:  accessor.Super,
			},
		)

	case *codegencontext.ConstructorAccessor:
		return c.generateAccessorMethod(
			ctx,
			classContext,
			accessor.Constructor,
			accessor.Callee,
			constructorAccessorStrategy{
				callee: accessor.Callee,
			},
		)

	case *codegencontext.PropertyAccessor:
		return c.generatePropertyAccessors(
			ctx,
			classContext,
			accessor.Property,
			accessor.Callee,
			accessor.Super,
			accessor.HasSyntheticGetter(),
			accessor.HasSyntheticSetter(),
			false,
		)

	case *codegencontext.FieldAccessor:
		return c.generatePropertyAccessors(
			ctx,
			classContext,
			accessor.Property,
			accessor.Callee,
			nil,
			accessor.Property.Getter != nil,
			accessor.Property.Setter != nil,
			true,
		)

	default:
		panic(errors.NewUnreachableError())
	}
}

func (c *FunctionCodegen) generatePropertyAccessors(
	ctx context.Context,
	classContext *codegencontext.Context,
	property *descriptors.Property,
	callee *descriptors.Property,
	superCallTarget *descriptors.Class,
	getter bool,
	setter bool,
	fieldAccess bool,
) error {
	if getter {
		err := c.generateAccessorMethod(
			ctx,
			classContext,
			property.Getter,
			callee,
			propertyGetterStrategy{
				callee:      callee,
				super:       superCallTarget,
				fieldAccess: fieldAccess || readsFieldDirectly(callee),
			},
		)
		if err != nil {
			return err
		}
	}

	if setter {
		err := c.generateAccessorMethod(
			ctx,
			classContext,
			property.Setter,
			callee,
			propertySetterStrategy{
				callee:      callee,
				super:       superCallTarget,
				fieldAccess: fieldAccess || writesFieldDirectly(callee),
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// readsFieldDirectly is true if the property has no getter method to call:
// private properties with backing fields are read from the field.
func readsFieldDirectly(property *descriptors.Property) bool {
	return property.HasBackingField &&
		(property.Getter == nil || property.Visibility.IsPrivate())
}

func writesFieldDirectly(property *descriptors.Property) bool {
	return property.HasBackingField &&
		(property.Setter == nil || property.Visibility.IsPrivate())
}

func (c *FunctionCodegen) generateAccessorMethod(
	ctx context.Context,
	classContext *codegencontext.Context,
	accessor *descriptors.Function,
	callee descriptors.CallableMember,
	strategy FunctionGenerationStrategy,
) error {
	method := c.mapper.MapSignature(accessor, classContext.OwnerKind).Method
	if c.builder.HasMethod(method.Key()) {
		return nil
	}

	trace := c.traceEmit(tracingAccessorEmit)

	var methodContext *codegencontext.Context
	if accessor.IsConstructor() {
		methodContext = classContext.IntoConstructor(accessor)
	} else {
		methodContext = classContext.IntoFunction(accessor)
	}

	err := c.GenerateMethodInContext(
		ctx,
		classbuilder.SyntheticOrigin(callee),
		accessor,
		methodContext,
		strategy,
	)
	if err != nil {
		return err
	}

	if c.bindings != nil {
		if _, ok := c.bindings.Get(classbuilder.BindingKindSyntheticAccessor, accessor); !ok {
			c.bindings.Put(classbuilder.BindingKindSyntheticAccessor, accessor, method)
		}
	}

	if trace != nil {
		writer, _ := c.builder.Method(method.Key())
		trace(writer)
	}

	return nil
}

// loadAccessorArguments loads the parameters of the accessor, starting at the given slot,
// as the arguments of the callee. The marker parameter of constructor accessors is dropped.
func loadAccessorArguments(
	v *InstructionAdapter,
	signature target.MethodSignature,
	slot int,
	callable mapping.CallableMethod,
) {
	calleeArguments := callable.Method().ArgumentTypes
	next := 0

	for _, parameter := range signature.Parameters {
		switch {
		case parameter.Kind == target.ParameterKindConstructorMarker:
			// dropped

		case parameter.Kind == target.ParameterKindThis && !callable.IsStatic():
			v.Load(slot, parameter.Type)
			if !callable.DispatchReceiverType.IsZero() {
				v.Coerce(parameter.Type, callable.DispatchReceiverType)
			}

		default:
			if next >= len(calleeArguments) {
				panic(errors.NewUnexpectedError(
					"accessor %s has more parameters than %s.%s",
					signature.Method,
					callable.Owner,
					callable.Method(),
				))
			}
			v.Load(slot, parameter.Type)
			v.Coerce(parameter.Type, calleeArguments[next])
			next++
		}
		slot += parameter.Type.Size()
	}
}

// functionAccessorStrategy

type functionAccessorStrategy struct {
	callee *descriptors.Function
	super  *descriptors.Class
}

var _ FunctionGenerationStrategy = functionAccessorStrategy{}

func (s functionAccessorStrategy) GenerateBody(
	writer *classbuilder.MethodWriter,
	_ *FrameMap,
	signature target.MethodSignature,
	_ *codegencontext.Context,
	parent *FunctionCodegen,
) {
	callable := parent.mapper.MapToCallableMethod(s.callee, s.super != nil)

	v := NewInstructionAdapter(writer)
	loadAccessorArguments(v, signature, 0, callable)
	v.InvokeCallable(callable)
	v.Coerce(callable.Method().ReturnType, signature.ReturnType())
	v.Return(signature.ReturnType())
}

// constructorAccessorStrategy

type constructorAccessorStrategy struct {
	callee *descriptors.Function
}

var _ FunctionGenerationStrategy = constructorAccessorStrategy{}

func (s constructorAccessorStrategy) GenerateBody(
	writer *classbuilder.MethodWriter,
	_ *FrameMap,
	signature target.MethodSignature,
	_ *codegencontext.Context,
	parent *FunctionCodegen,
) {
	callable := parent.mapper.MapToCallableMethod(s.callee, false)

	v := NewInstructionAdapter(writer)
	v.Load(0, target.ObjectType)
	loadAccessorArguments(v, signature, 1, callable)
	v.InvokeCallable(callable)
	v.Return(target.VoidType)
}

// propertyGetterStrategy

type propertyGetterStrategy struct {
	callee      *descriptors.Property
	super       *descriptors.Class
	fieldAccess bool
}

var _ FunctionGenerationStrategy = propertyGetterStrategy{}

func (s propertyGetterStrategy) GenerateBody(
	writer *classbuilder.MethodWriter,
	_ *FrameMap,
	signature target.MethodSignature,
	_ *codegencontext.Context,
	parent *FunctionCodegen,
) {
	v := NewInstructionAdapter(writer)
	returnType := signature.ReturnType()

	if !s.fieldAccess {
		callable := parent.mapper.MapToCallableMethod(s.callee.Getter, s.super != nil)
		loadAccessorArguments(v, signature, 0, callable)
		v.InvokeCallable(callable)
		v.Coerce(callable.Method().ReturnType, returnType)
		v.Return(returnType)
		return
	}

	owner, static := parent.mapper.FieldOwner(s.callee)
	fieldType := parent.mapper.MapType(s.callee.Type)

	if !static {
		loadFieldReceiver(v, signature)
	}
	v.GetField(owner.InternalName(), s.callee.Identifier, fieldType, static)
	v.Coerce(fieldType, returnType)
	v.Return(returnType)
}

// propertySetterStrategy

type propertySetterStrategy struct {
	callee      *descriptors.Property
	super       *descriptors.Class
	fieldAccess bool
}

var _ FunctionGenerationStrategy = propertySetterStrategy{}

func (s propertySetterStrategy) GenerateBody(
	writer *classbuilder.MethodWriter,
	_ *FrameMap,
	signature target.MethodSignature,
	_ *codegencontext.Context,
	parent *FunctionCodegen,
) {
	v := NewInstructionAdapter(writer)

	if !s.fieldAccess {
		callable := parent.mapper.MapToCallableMethod(s.callee.Setter, s.super != nil)
		loadAccessorArguments(v, signature, 0, callable)
		v.InvokeCallable(callable)
		v.Coerce(callable.Method().ReturnType, target.VoidType)
		v.Return(target.VoidType)
		return
	}

	owner, static := parent.mapper.FieldOwner(s.callee)
	fieldType := parent.mapper.MapType(s.callee.Type)

	if !static {
		loadFieldReceiver(v, signature)
	}

	slot := 0
	for _, parameter := range signature.Parameters {
		if parameter.Kind == target.ParameterKindValue {
			v.Load(slot, parameter.Type)
			v.Coerce(parameter.Type, fieldType)
		}
		slot += parameter.Type.Size()
	}

	v.PutField(owner.InternalName(), s.callee.Identifier, fieldType, static)
	v.Return(target.VoidType)
}

// loadFieldReceiver loads the instance whose field a static accessor reads or writes.
func loadFieldReceiver(v *InstructionAdapter, signature target.MethodSignature) {
	for _, parameter := range signature.Parameters {
		if parameter.Kind == target.ParameterKindThis {
			v.Load(0, parameter.Type)
			return
		}
	}
	panic(errors.NewUnexpectedError("accessor %s has no receiver", signature.Method))
}
