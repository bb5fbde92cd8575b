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
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
	"github.com/onflow/classgen/target/opcode"
)

// DelegateStrategy forwards a call to the implementation of an interface member
// held in a field of the class.
type DelegateStrategy struct {
	DelegatedTo *descriptors.Function
	ToClass     *descriptors.Class
	Field       *codegencontext.Location
}

var _ FunctionGenerationStrategy = DelegateStrategy{}

// GenDelegate emits a method delegating to the member it overrides, on the object held in the field.
func (c *FunctionCodegen) GenDelegate(
	ctx context.Context,
	function *descriptors.Function,
	overridden *descriptors.Function,
	field *codegencontext.Location,
) error {
	toClass, ok := overridden.GetOriginal().Owner.(*descriptors.Class)
	if !ok {
		return errors.NewUnexpectedError("cannot delegate to %s, it is not a class member", overridden)
	}
	return c.GenDelegateTo(ctx, function, overridden, toClass, field)
}

// GenDelegateTo emits a method delegating to a member of the given class.
func (c *FunctionCodegen) GenDelegateTo(
	ctx context.Context,
	function *descriptors.Function,
	delegatedTo *descriptors.Function,
	toClass *descriptors.Class,
	field *codegencontext.Location,
) error {
	return c.GenerateMethod(
		ctx,
		classbuilder.DelegationOrigin(delegatedTo),
		function,
		DelegateStrategy{
			DelegatedTo: delegatedTo,
			ToClass:     toClass,
			Field:       field,
		},
	)
}

func (s DelegateStrategy) GenerateBody(
	writer *classbuilder.MethodWriter,
	_ *FrameMap,
	signature target.MethodSignature,
	methodContext *codegencontext.Context,
	parent *FunctionCodegen,
) {
	delegateToMethod := parent.mapper.MapToCallableMethod(s.DelegatedTo, false).Method()
	delegateMethod := signature.Method

	v := NewInstructionAdapter(writer)

	LocationValue{Location: s.Field}.Put(s.Field.Type, v)

	slot := 1
	for index, argumentType := range delegateMethod.ArgumentTypes {
		Local(slot, argumentType).Put(delegateToMethod.ArgumentTypes[index], v)
		slot += argumentType.Size()
	}

	owner := parent.mapper.MapClass(s.ToClass).InternalName()
	if descriptors.IsInterface(s.ToClass) {
		v.Invoke(opcode.InvokeInterface, owner, delegateToMethod)
	} else {
		v.Invoke(opcode.InvokeVirtual, owner, delegateToMethod)
	}

	function := methodContext.Function()

	if parent.config.GenerateNotNullAssertions &&
		delegateToMethod.ReturnType.IsReference() &&
		returnsNullable(s.DelegatedTo) &&
		function != nil && !returnsNullable(function) {

		v.Dup()
		v.AConst(s.DelegatedTo.Identifier + "(...)")
		v.Invoke(opcode.InvokeStatic, target.IntrinsicsInternalName, target.CheckNotNullExpressionValueMethod)
	}

	v.Coerce(delegateToMethod.ReturnType, delegateMethod.ReturnType)
	v.Return(delegateMethod.ReturnType)
}

func returnsNullable(function *descriptors.Function) bool {
	return function.ReturnType != nil && function.ReturnType.IsNullable()
}
