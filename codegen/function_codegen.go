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
	"strconv"
	"strings"

	codegencontext "github.com/onflow/classgen/codegen/context"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
	"github.com/onflow/classgen/target/opcode"
)

// FunctionCodegen emits the methods of the functions declared in one class or package part.
//
// Emission is depth-first and single-threaded. Code generation helpers signal
// invariant violations by panicking with internal errors; the panics are recovered
// per method and returned as *errors.CompilationError.
type FunctionCodegen struct {
	owner          *codegencontext.Context
	builder        *classbuilder.ClassBuilder
	mapper         mapping.SignatureMapper
	config         *Config
	bindingContext BindingContext
	bindings       *classbuilder.SerializationBindings
}

func NewFunctionCodegen(
	owner *codegencontext.Context,
	builder *classbuilder.ClassBuilder,
	config *Config,
	bindingContext BindingContext,
	bindings *classbuilder.SerializationBindings,
) *FunctionCodegen {
	if config == nil {
		config = NewConfig()
	}
	return &FunctionCodegen{
		owner:          owner,
		builder:        builder,
		mapper:         owner.Tree().Mapper,
		config:         config,
		bindingContext: bindingContext,
		bindings:       bindings,
	}
}

func (c *FunctionCodegen) Owner() *codegencontext.Context {
	return c.owner
}

func (c *FunctionCodegen) Builder() *classbuilder.ClassBuilder {
	return c.builder
}

// Gen emits a declared function: its method, unless the owner holds interface bodies
// and the function has none, its default overload and its JVM-style overloads.
func (c *FunctionCodegen) Gen(
	ctx context.Context,
	function *descriptors.Function,
	body BodyGenerator,
	defaults DefaultValueLoader,
) error {
	if c.owner.OwnerKind != mapping.OwnerKindDefaultImpls || body != nil {
		err := c.GenerateMethod(
			ctx,
			classbuilder.OtherOrigin(function),
			function,
			NewFunctionDefault(function, body),
		)
		if err != nil {
			return err
		}
	}

	err := c.GenerateDefaultIfNeeded(
		ctx,
		c.owner.IntoFunction(function),
		function,
		c.owner.OwnerKind,
		defaults,
	)
	if err != nil {
		return err
	}

	return c.GenerateOverloadsWithDefaultValues(ctx, function)
}

// GenerateMethod emits the method of a function in a new context for the function.
func (c *FunctionCodegen) GenerateMethod(
	ctx context.Context,
	origin classbuilder.Origin,
	function *descriptors.Function,
	strategy FunctionGenerationStrategy,
) error {
	var methodContext *codegencontext.Context
	if function.IsConstructor() {
		methodContext = c.owner.IntoConstructor(function)
	} else {
		methodContext = c.owner.IntoFunction(function)
	}
	return c.GenerateMethodInContext(ctx, origin, function, methodContext, strategy)
}

// GenerateMethodInContext emits the method of a function: its header, annotations and bridges,
// and, unless abstract, external or in light classes mode, the body produced by the strategy.
func (c *FunctionCodegen) GenerateMethodInContext(
	ctx context.Context,
	origin classbuilder.Origin,
	function *descriptors.Function,
	methodContext *codegencontext.Context,
	strategy FunctionGenerationStrategy,
) (err error) {
	defer recoverError(&err)

	if err := ctx.Err(); err != nil {
		return err
	}

	kind := methodContext.OwnerKind

	// private members of interfaces only exist in the class holding the interface bodies
	if descriptors.IsInterface(function.Owner) &&
		function.Visibility.IsPrivate() &&
		kind != mapping.OwnerKindDefaultImpls {

		return nil
	}

	isFacade := c.owner.Kind == codegencontext.KindFacade
	if isFacade && function.External {
		return nil
	}

	signature := c.mapper.MapSignature(function, kind)

	flags := methodFlags(function, kind)
	if isFacade {
		flags &^= target.AccPrivate
	}

	trace := c.traceEmit(tracingMethodEmit)

	writer := c.builder.NewMethod(
		origin,
		flags,
		signature.Method,
		signature.GenericsSignature,
		c.exceptions(function),
	)

	if trace != nil {
		defer trace(writer)
	}

	c.recordBindings(function, signature.Method)

	err = c.withinMethod(writer, "method", function, func() error {
		c.generateMethodAnnotations(writer, function)
		c.generateParameterAnnotations(writer, function, signature)

		err := c.GenerateBridges(ctx, function)
		if err != nil {
			return err
		}

		if !c.builder.Mode().GenerateBodies() ||
			flags.Has(target.AccAbstract) ||
			function.External {

			c.generateLocalVariableTable(writer, function, methodContext, signature, kind, writer.NewLabel(), writer.NewLabel())
			return nil
		}

		writer.VisitCode()

		if isFacade {
			generateFacadeDelegateBody(NewInstructionAdapter(writer), signature.Method, c.owner.DelegateOwner)
			return nil
		}

		c.generateMethodBody(writer, function, methodContext, signature, kind, strategy)
		return nil
	})
	if err != nil {
		return err
	}

	if c.bindingContext != nil {
		methodContext.RecordSyntheticAccessorIfNeeded(function, c.bindingContext)
	}

	return nil
}

func (c *FunctionCodegen) generateMethodBody(
	writer *classbuilder.MethodWriter,
	function *descriptors.Function,
	methodContext *codegencontext.Context,
	signature target.MethodSignature,
	kind mapping.OwnerKind,
	strategy FunctionGenerationStrategy,
) {
	v := NewInstructionAdapter(writer)

	methodBegin := writer.NewLabel()
	v.Mark(methodBegin)

	frameMap := CreateFrameMap(c.mapper, function, signature, mapping.IsStaticMethod(kind, function))

	if c.config.GenerateNotNullAssertions && function.AccessorFor == nil {
		c.generateNotNullAssertionsForParameters(v, frameMap, function)
	}

	strategy.GenerateBody(writer, frameMap, signature, methodContext, c)

	methodEnd := writer.NewLabel()
	v.Mark(methodEnd)

	c.generateLocalVariableTable(writer, function, methodContext, signature, kind, methodBegin, methodEnd)
}

// methodFlags returns the access flags of the method of a function.
func methodFlags(function *descriptors.Function, kind mapping.OwnerKind) target.AccessFlags {
	flags := mapping.MemberAccessFlag(function)

	if isDeprecated(function) {
		flags |= target.AccDeprecated
	}

	if function.External {
		flags |= target.AccNative
	}

	isStatic := mapping.IsStaticMethod(kind, function)
	if isStatic {
		flags |= target.AccStatic
	}

	isInterface := descriptors.IsInterface(function.Owner)

	if (function.Modality == descriptors.ModalityAbstract || isInterface) && !isStatic {
		flags |= target.AccAbstract
	}

	if function.Modality == descriptors.ModalityFinal &&
		!function.IsConstructor() &&
		!isInterface {

		flags |= target.AccFinal
	}

	if function.AccessorFor != nil {
		flags |= target.AccSynthetic
	}

	return flags
}

func isDeprecated(function *descriptors.Function) bool {
	if function.Annotations.Has(descriptors.DeprecatedAnnotation) {
		return true
	}
	return function.Property != nil &&
		function.Property.Annotations.Has(descriptors.DeprecatedAnnotation)
}

func (c *FunctionCodegen) exceptions(function *descriptors.Function) []string {
	if len(function.Throws) == 0 {
		return nil
	}
	result := make([]string, 0, len(function.Throws))
	for _, class := range function.Throws {
		result = append(result, c.mapper.MapClass(class).InternalName())
	}
	return result
}

// recordBindings records where the code of the function ended up.
func (c *FunctionCodegen) recordBindings(function *descriptors.Function, method target.Method) {
	if c.bindings == nil || c.owner.Kind == codegencontext.KindFacade {
		return
	}

	if _, ok := c.bindings.Get(classbuilder.BindingKindMethodForFunction, function); !ok {
		c.bindings.Put(classbuilder.BindingKindMethodForFunction, function, method)
	}

	if c.owner.Kind == codegencontext.KindPackagePart {
		if _, ok := c.bindings.Get(classbuilder.BindingKindImplClassNameForCallable, function); !ok {
			c.bindings.Put(
				classbuilder.BindingKindImplClassNameForCallable,
				function,
				classbuilder.ClassName(shortClassName(c.builder.InternalName())),
			)
		}
	}
}

func shortClassName(internalName string) string {
	index := strings.LastIndexByte(internalName, '/')
	return internalName[index+1:]
}

// withinMethod runs the emission of an opened method and closes the writer.
// Panics are recovered and reported as compilation errors, except for cancellations.
func (c *FunctionCodegen) withinMethod(
	writer *classbuilder.MethodWriter,
	description string,
	origin descriptors.Declaration,
	emit func() error,
) (err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		if !writer.IsClosed() {
			// the code is incomplete, verification errors are irrelevant
			_ = writer.VisitEnd()
		}
		err = compilationError(writer, description, origin, recoveredError(recovered))
	}()

	if err := emit(); err != nil {
		if !writer.IsClosed() {
			_ = writer.VisitEnd()
		}
		return err
	}

	return endVisit(writer, description, origin)
}

// endVisit closes the writer and wraps verification failures.
func endVisit(writer *classbuilder.MethodWriter, description string, origin descriptors.Declaration) error {
	if err := writer.VisitEnd(); err != nil {
		return compilationError(writer, description, origin, err)
	}
	return nil
}

// recoverError turns a panic raised outside of a method window into an error.
func recoverError(err *error) {
	recovered := recover()
	if recovered == nil {
		return
	}
	*err = recoveredError(recovered)
}

func recoveredError(recovered any) error {
	err, ok := recovered.(error)
	if !ok {
		return errors.NewExternalError(recovered)
	}
	if errors.IsInternalError(err) ||
		errors.IsUserError(err) ||
		errors.IsCancellation(err) {

		return err
	}
	return errors.NewExternalError(err)
}

func compilationError(
	writer *classbuilder.MethodWriter,
	description string,
	origin descriptors.Declaration,
	err error,
) error {
	if errors.IsCancellation(err) {
		return err
	}
	var originName string
	if origin != nil {
		originName = origin.String()
	}
	return errors.NewCompilationError(
		description,
		originName,
		writer.Disassemble(),
		err,
	)
}

// generateFacadeDelegateBody forwards the arguments to the static method of the package part.
func generateFacadeDelegateBody(v *InstructionAdapter, method target.Method, delegateOwner target.Type) {
	label := v.NewLabel()
	v.Mark(label)
	v.LineNumber(1)

	slot := 0
	for _, argumentType := range method.ArgumentTypes {
		v.Load(slot, argumentType)
		slot += argumentType.Size()
	}
	v.Invoke(opcode.InvokeStatic, delegateOwner.InternalName(), method)
	v.Return(method.ReturnType)
}

func (c *FunctionCodegen) generateNotNullAssertionsForParameters(
	v *InstructionAdapter,
	frameMap *FrameMap,
	function *descriptors.Function,
) {
	if function.Visibility.IsPrivate() {
		return
	}

	if receiver := extensionReceiverOf(function); receiver != nil {
		c.generateParameterAssertion(v, frameMap, receiver, receiver.Type, "<this>")
	}

	for _, parameter := range function.ValueParameters {
		c.generateParameterAssertion(v, frameMap, parameter, parameter.Type, parameter.Identifier)
	}
}

func (c *FunctionCodegen) generateParameterAssertion(
	v *InstructionAdapter,
	frameMap *FrameMap,
	declaration descriptors.Declaration,
	typ *descriptors.Type,
	name string,
) {
	if typ.IsNullable() {
		return
	}
	mappedType := c.mapper.MapType(typ)
	if !mappedType.IsReference() {
		return
	}
	slot, ok := frameMap.Index(declaration)
	if !ok {
		return
	}
	v.Load(slot, mappedType)
	v.AConst(name)
	v.Invoke(opcode.InvokeStatic, target.IntrinsicsInternalName, target.CheckNotNullParameterMethod)
}

// generateLocalVariableTable declares `this` and all parameters of the method.
// Compiler-inserted parameters are named after their kind.
func (c *FunctionCodegen) generateLocalVariableTable(
	writer *classbuilder.MethodWriter,
	function *descriptors.Function,
	methodContext *codegencontext.Context,
	signature target.MethodSignature,
	kind mapping.OwnerKind,
	start *opcode.Label,
	end *opcode.Label,
) {
	shift := 0
	if !mapping.IsStaticMethod(kind, function) {
		writer.VisitLocalVariable("this", c.thisTypeForFunction(function, methodContext), "", start, end, 0)
		shift++
	}

	valueIndex := 0
	for index, parameter := range signature.Parameters {
		var name string
		if parameter.Kind == target.ParameterKindValue {
			name = function.ValueParameters[valueIndex].Identifier
			valueIndex++
		} else {
			name = "$" + strings.ToLower(parameter.Kind.String())
			if parameter.Kind.NeedsIndexInName() {
				name += "$" + strconv.Itoa(index)
			}
		}
		writer.VisitLocalVariable(name, parameter.Type, "", start, end, shift)
		shift += parameter.Type.Size()
	}
}

func (c *FunctionCodegen) thisTypeForFunction(
	function *descriptors.Function,
	methodContext *codegencontext.Context,
) target.Type {
	switch {
	case function.IsConstructor():
		return c.mapper.MapOwner(function.Owner)
	case function.DispatchReceiver != nil:
		return c.mapper.MapType(function.DispatchReceiver)
	case descriptors.IsFunctionLiteral(function) || descriptors.IsLocalFunction(function):
		if thisClass := methodContext.ThisDescriptor(); thisClass != nil {
			return c.mapper.MapClass(thisClass)
		}
	}
	return target.ObjectType
}
