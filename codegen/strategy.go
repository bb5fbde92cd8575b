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
	codegencontext "github.com/onflow/classgen/codegen/context"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
)

// ExpressionCodegen is handed to the generators of function bodies and default values.
// It knows the slots of the method being emitted and its lexical context.
type ExpressionCodegen struct {
	*InstructionAdapter
	FrameMap   *FrameMap
	Signature  target.MethodSignature
	Context    *codegencontext.Context
	ReturnType target.Type
	Parent     *FunctionCodegen
}

func newExpressionCodegen(
	writer *classbuilder.MethodWriter,
	frameMap *FrameMap,
	signature target.MethodSignature,
	methodContext *codegencontext.Context,
	parent *FunctionCodegen,
) *ExpressionCodegen {
	return &ExpressionCodegen{
		InstructionAdapter: NewInstructionAdapter(writer),
		FrameMap:           frameMap,
		Signature:          signature,
		Context:            methodContext,
		ReturnType:         signature.ReturnType(),
		Parent:             parent,
	}
}

func (c *ExpressionCodegen) Mapper() mapping.SignatureMapper {
	return c.Parent.mapper
}

// Parameter returns the value of a parameter or extension receiver of the method.
func (c *ExpressionCodegen) Parameter(declaration descriptors.Declaration, typ target.Type) LocalValue {
	slot, ok := c.FrameMap.Index(declaration)
	if !ok {
		panic(errors.NewUnexpectedError("%s has no slot", declaration))
	}
	return Local(slot, typ)
}

// Lookup returns the value of a declaration of an enclosing scope.
func (c *ExpressionCodegen) Lookup(declaration descriptors.Declaration) StackValue {
	location, err := c.Context.LookupInContext(declaration, nil, false)
	if err != nil {
		panic(err)
	}
	if location == nil {
		panic(errors.NewUnexpectedError("%s is not visible in %s", declaration, c.Context))
	}
	return LocationValue{Location: location}
}

// Callable returns how to invoke the member from the method,
// going through a synthetic accessor if it is not accessible.
func (c *ExpressionCodegen) Callable(function *descriptors.Function, superCallTarget *descriptors.Class) mapping.CallableMethod {
	accessible := c.Context.AccessibleDescriptor(function, superCallTarget)
	accessibleFunction, ok := accessible.(*descriptors.Function)
	if !ok {
		panic(errors.NewUnexpectedError("accessor of %s is not a function", function))
	}
	superCall := superCallTarget != nil && accessibleFunction == function
	return c.Mapper().MapToCallableMethod(accessibleFunction, superCall)
}

// ReturnValue pushes the value, coerced to the return type of the method, and returns it.
func (c *ExpressionCodegen) ReturnValue(value StackValue) {
	value.Put(c.ReturnType, c.InstructionAdapter)
	c.Return(c.ReturnType)
}

// BodyGenerator lowers the body of a function.
type BodyGenerator func(codegen *ExpressionCodegen)

// DefaultValueLoader produces the default value of a parameter, evaluated in the default overload.
type DefaultValueLoader interface {
	GenValue(parameter *descriptors.ValueParameter, codegen *ExpressionCodegen) StackValue
}

// DefaultValueLoaderFunc

type DefaultValueLoaderFunc func(parameter *descriptors.ValueParameter, codegen *ExpressionCodegen) StackValue

var _ DefaultValueLoader = DefaultValueLoaderFunc(nil)

func (f DefaultValueLoaderFunc) GenValue(parameter *descriptors.ValueParameter, codegen *ExpressionCodegen) StackValue {
	return f(parameter, codegen)
}

// DefaultValues are default values known in advance, e.g. constants.
type DefaultValues map[*descriptors.ValueParameter]StackValue

var _ DefaultValueLoader = DefaultValues{}

func (d DefaultValues) GenValue(parameter *descriptors.ValueParameter, _ *ExpressionCodegen) StackValue {
	value, ok := d[parameter]
	if !ok {
		panic(errors.NewUnexpectedError("no default value for %s", parameter))
	}
	return value
}

// FunctionGenerationStrategy produces the code of a method.
// The writer has visited its code already, and is closed by the caller.
type FunctionGenerationStrategy interface {
	GenerateBody(
		writer *classbuilder.MethodWriter,
		frameMap *FrameMap,
		signature target.MethodSignature,
		methodContext *codegencontext.Context,
		parent *FunctionCodegen,
	)
}

// FunctionDefault

// FunctionDefault lowers the declared body of a function.
type FunctionDefault struct {
	Function *descriptors.Function
	Body     BodyGenerator
}

var _ FunctionGenerationStrategy = FunctionDefault{}

func NewFunctionDefault(function *descriptors.Function, body BodyGenerator) FunctionDefault {
	return FunctionDefault{
		Function: function,
		Body:     body,
	}
}

func (s FunctionDefault) GenerateBody(
	writer *classbuilder.MethodWriter,
	frameMap *FrameMap,
	signature target.MethodSignature,
	methodContext *codegencontext.Context,
	parent *FunctionCodegen,
) {
	if s.Body == nil {
		panic(errors.NewUnexpectedError("%s has no body", s.Function))
	}
	s.Body(newExpressionCodegen(writer, frameMap, signature, methodContext, parent))
}

// FunctionGenerationStrategyFunc

type FunctionGenerationStrategyFunc func(
	writer *classbuilder.MethodWriter,
	frameMap *FrameMap,
	signature target.MethodSignature,
	methodContext *codegencontext.Context,
	parent *FunctionCodegen,
)

var _ FunctionGenerationStrategy = FunctionGenerationStrategyFunc(nil)

func (f FunctionGenerationStrategyFunc) GenerateBody(
	writer *classbuilder.MethodWriter,
	frameMap *FrameMap,
	signature target.MethodSignature,
	methodContext *codegencontext.Context,
	parent *FunctionCodegen,
) {
	f(writer, frameMap, signature, methodContext, parent)
}
