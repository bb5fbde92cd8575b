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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
	"github.com/onflow/classgen/target/opcode"
	"github.com/onflow/classgen/target/vm"
	. "github.com/onflow/classgen/test_utils/common_utils"
)

func localVariableNames(writer *classbuilder.MethodWriter) []string {
	names := make([]string, 0, len(writer.LocalVariables))
	for _, variable := range writer.LocalVariables {
		names = append(names, variable.Name)
	}
	return names
}

func TestGenerateMethod(t *testing.T) {

	t.Parallel()

	pkg := descriptors.NewPackage("test")

	t.Run("method of class", func(t *testing.T) {
		t.Parallel()

		class := descriptors.NewClass(pkg, "C", descriptors.ClassKindClass)
		function := descriptors.NewFunction(
			class,
			"m",
			descriptors.StringType(),
			descriptors.NewParameter("a", descriptors.LongType()),
			descriptors.NewParameter("s", descriptors.StringType()),
		)

		codegen := newClassCodegen(class, mapping.OwnerKindImplementation, nil, nil)
		require.NoError(t, codegen.Gen(background, function, returnParameter(function, 1), nil))

		method := codegen.signature(function)
		assert.Equal(t, "m(JLrt/String;)Lrt/String;", method.String())

		writer := codegen.method(t, method)
		assert.Equal(t, target.AccPublic|target.AccFinal, writer.Flags)
		assert.Equal(t, classbuilder.OtherOrigin(function), writer.Origin)
		assert.True(t, writer.IsClosed())

		AssertEqualWithDiff(t, []string{"this", "a", "s"}, localVariableNames(writer))
		assert.Equal(t, target.ObjectTypeOf("test/C"), writer.LocalVariables[0].Type)
		assert.Equal(t, 3, writer.LocalVariables[2].Slot)

		binding, ok := codegen.bindings.Get(classbuilder.BindingKindMethodForFunction, function)
		require.True(t, ok)
		assert.Equal(t, method, binding)

		machine := newTestVM(t, codegen.Builder())
		object := machine.NewObject("test/C")

		result, err := machine.InvokeVirtual("test/C", method, object, int64(1), "s")
		require.NoError(t, err)
		assert.Equal(t, "s", result)

		_, err = machine.InvokeVirtual("test/C", method, object, int64(1), nil)
		var exception *vm.Exception
		require.ErrorAs(t, err, &exception)
		assert.Equal(t, vm.NullPointerExceptionClass, exception.ClassName)
		assert.Equal(t, "Parameter specified as non-null is null: parameter s", exception.Message)
	})

	t.Run("top-level function", func(t *testing.T) {
		t.Parallel()

		function := descriptors.NewFunction(
			pkg,
			"f",
			descriptors.IntType(),
			descriptors.NewParameter("a", descriptors.IntType()),
		)

		codegen := newPackagePartCodegen(pkg, classbuilder.ModeFull, nil)
		require.NoError(t, codegen.Gen(background, function, returnParameter(function, 0), nil))

		writer := codegen.method(t, codegen.signature(function))
		assert.Equal(t, target.AccPublic|target.AccStatic|target.AccFinal, writer.Flags)
		assert.Equal(t, []string{"a"}, localVariableNames(writer))

		className, ok := codegen.bindings.Get(classbuilder.BindingKindImplClassNameForCallable, function)
		require.True(t, ok)
		assert.Equal(t, "TestKt", className.String())
	})

	t.Run("extension receiver", func(t *testing.T) {
		t.Parallel()

		function := descriptors.NewFunction(pkg, "ext", descriptors.StringType())
		function.ExtensionReceiver = &descriptors.ReceiverParameter{Type: descriptors.StringType()}

		codegen := newPackagePartCodegen(pkg, classbuilder.ModeFull, nil)
		require.NoError(t, codegen.Gen(
			background,
			function,
			func(codegen *ExpressionCodegen) {
				codegen.ReturnValue(codegen.Parameter(function.ExtensionReceiver, target.StringType))
			},
			nil,
		))

		writer := codegen.method(t, codegen.signature(function))
		assert.Equal(t, []string{"$receiver"}, localVariableNames(writer))

		machine := newTestVM(t, codegen.Builder())
		_, err := machine.InvokeStatic("test/TestKt", writer.Method, nil)
		var exception *vm.Exception
		require.ErrorAs(t, err, &exception)
		assert.Equal(t, "Parameter specified as non-null is null: parameter <this>", exception.Message)
	})

	t.Run("inner class constructor", func(t *testing.T) {
		t.Parallel()

		outer := descriptors.NewClass(pkg, "Outer", descriptors.ClassKindClass)
		inner := descriptors.NewClass(outer, "Inner", descriptors.ClassKindClass)
		inner.IsInner = true
		constructor := descriptors.NewConstructor(inner, descriptors.NewParameter("a", descriptors.IntType()))

		codegen := newClassCodegen(inner, mapping.OwnerKindImplementation, nil, nil)
		require.NoError(t, codegen.Gen(
			background,
			constructor,
			func(codegen *ExpressionCodegen) {
				codegen.Return(target.VoidType)
			},
			nil,
		))

		writer := codegen.method(t, codegen.signature(constructor))
		AssertEqualWithDiff(t, []string{"this", "$outer_this", "a"}, localVariableNames(writer))
		assert.Equal(t, target.AccPublic, writer.Flags)

		// the outer instance is a synthetic parameter
		assert.Equal(t, 1, writer.AnnotableParameterCount)
		assert.Equal(t,
			[]classbuilder.AnnotationNode{{Descriptor: SyntheticParameterAnnotation}},
			writer.ParameterAnnotations[0],
		)
	})

	t.Run("flags", func(t *testing.T) {
		t.Parallel()

		class := descriptors.NewClass(pkg, "Flags", descriptors.ClassKindClass)
		class.Modality = descriptors.ModalityAbstract

		deprecated := descriptors.NewFunction(class, "deprecated", descriptors.UnitType())
		deprecated.Modality = descriptors.ModalityOpen
		deprecated.Annotations = descriptors.Annotations{{FqName: descriptors.DeprecatedAnnotation}}

		abstract := descriptors.NewFunction(class, "abstract", descriptors.UnitType())
		abstract.Modality = descriptors.ModalityAbstract
		abstract.Visibility = descriptors.VisibilityProtected

		external := descriptors.NewFunction(class, "external", descriptors.UnitType())
		external.External = true

		codegen := newClassCodegen(class, mapping.OwnerKindImplementation, nil, nil)
		unit := func(codegen *ExpressionCodegen) {
			codegen.Return(target.VoidType)
		}
		require.NoError(t, codegen.Gen(background, deprecated, unit, nil))
		require.NoError(t, codegen.Gen(background, abstract, nil, nil))
		require.NoError(t, codegen.Gen(background, external, nil, nil))

		writer := codegen.method(t, codegen.signature(deprecated))
		assert.Equal(t, target.AccPublic|target.AccDeprecated, writer.Flags)
		assert.Equal(t,
			[]classbuilder.AnnotationNode{{Descriptor: "Llang/Deprecated;", Visible: true}},
			writer.Annotations,
		)

		writer = codegen.method(t, codegen.signature(abstract))
		assert.Equal(t, target.AccProtected|target.AccAbstract, writer.Flags)
		assert.False(t, writer.HasCode())
		assert.Equal(t, []string{"this"}, localVariableNames(writer))

		writer = codegen.method(t, codegen.signature(external))
		assert.Equal(t, target.AccPublic|target.AccFinal|target.AccNative, writer.Flags)
		assert.False(t, writer.HasCode())
	})

	t.Run("private interface member", func(t *testing.T) {
		t.Parallel()

		inter := descriptors.NewClass(pkg, "I", descriptors.ClassKindInterface)
		function := descriptors.NewFunction(inter, "helper", descriptors.UnitType())
		function.Modality = descriptors.ModalityFinal
		function.Visibility = descriptors.VisibilityPrivate

		codegen := newClassCodegen(inter, mapping.OwnerKindImplementation, nil, nil)
		require.NoError(t, codegen.Gen(background, function, nil, nil))
		assert.Empty(t, codegen.Builder().Methods())

		defaultImpls := newClassCodegen(inter, mapping.OwnerKindDefaultImpls, nil, nil)
		require.NoError(t, defaultImpls.Gen(
			background,
			function,
			func(codegen *ExpressionCodegen) {
				codegen.Return(target.VoidType)
			},
			nil,
		))

		writer := defaultImpls.method(t, defaultImpls.signature(function))
		assert.True(t, writer.Flags.Has(target.AccStatic))
		assert.Equal(t, []string{"$this"}, localVariableNames(writer))
	})

	t.Run("light classes", func(t *testing.T) {
		t.Parallel()

		function := descriptors.NewFunction(
			pkg,
			"f",
			descriptors.IntType(),
			descriptors.NewParameter("a", descriptors.IntType()),
		)

		codegen := newPackagePartCodegen(pkg, classbuilder.ModeLightClasses, nil)
		require.NoError(t, codegen.Gen(
			background,
			function,
			func(*ExpressionCodegen) {
				t.Fatal("bodies are not generated for light classes")
			},
			nil,
		))

		writer := codegen.method(t, codegen.signature(function))
		assert.False(t, writer.HasCode())
		assert.Equal(t, []string{"a"}, localVariableNames(writer))
	})

	t.Run("without not-null assertions", func(t *testing.T) {
		t.Parallel()

		function := descriptors.NewFunction(
			pkg,
			"f",
			descriptors.StringType(),
			descriptors.NewParameter("s", descriptors.StringType()),
		)

		config := NewConfig()
		config.GenerateNotNullAssertions = false

		codegen := newPackagePartCodegen(pkg, classbuilder.ModeFull, config)
		require.NoError(t, codegen.Gen(background, function, returnParameter(function, 0), nil))

		writer := codegen.method(t, codegen.signature(function))
		for _, instruction := range writer.Instructions {
			assert.NotEqual(t, opcode.InvokeStatic, instruction.Opcode())
		}
	})
}

func TestGenerateMethodErrors(t *testing.T) {

	t.Parallel()

	pkg := descriptors.NewPackage("test")

	newFunction := func() *descriptors.Function {
		return descriptors.NewFunction(
			pkg,
			"f",
			descriptors.IntType(),
			descriptors.NewParameter("a", descriptors.IntType()),
		)
	}

	t.Run("wrong code", func(t *testing.T) {
		t.Parallel()

		function := newFunction()
		codegen := newPackagePartCodegen(pkg, classbuilder.ModeFull, nil)

		// the body does not return
		err := codegen.Gen(background, function, func(*ExpressionCodegen) {}, nil)

		compilationError := RequireCompilationError(t, err, "method")
		assert.Equal(t, function.String(), compilationError.Origin)
		assert.EqualError(t, compilationError.Err, "execution can fall off the end of the code")
		assert.NotEmpty(t, compilationError.Bytecode)

		writer := codegen.method(t, codegen.signature(function))
		assert.True(t, writer.IsClosed())
	})

	t.Run("panicking body", func(t *testing.T) {
		t.Parallel()

		function := newFunction()
		codegen := newPackagePartCodegen(pkg, classbuilder.ModeFull, nil)

		err := codegen.Gen(background, function, func(*ExpressionCodegen) {
			panic("boom")
		}, nil)

		RequireCompilationError(t, err, "method")

		externalError, ok := errors.GetExternalError(err)
		require.True(t, ok)
		assert.Equal(t, "boom", externalError.Recovered)

		writer := codegen.method(t, codegen.signature(function))
		assert.True(t, writer.IsClosed())
	})

	t.Run("cancelled before emission", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(background)
		cancel()

		codegen := newPackagePartCodegen(pkg, classbuilder.ModeFull, nil)
		err := codegen.Gen(ctx, newFunction(), returnParameter(newFunction(), 0), nil)
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, codegen.Builder().Methods())
	})

	t.Run("cancelled during emission", func(t *testing.T) {
		t.Parallel()

		function := newFunction()
		codegen := newPackagePartCodegen(pkg, classbuilder.ModeFull, nil)

		err := codegen.Gen(background, function, func(*ExpressionCodegen) {
			panic(context.Canceled)
		}, nil)

		// cancellations are not wrapped
		assert.Equal(t, context.Canceled, err)
	})
}

func TestMethodTracing(t *testing.T) {

	t.Parallel()

	pkg := descriptors.NewPackage("test")
	b := descriptors.NewParameterWithDefault("b", descriptors.IntType())
	function := descriptors.NewFunction(pkg, "f", descriptors.IntType(), b)

	var operations []string
	var attributes [][]attribute.KeyValue

	config := NewConfig()
	config.TracingEnabled = true
	config.OnRecordTrace = func(operation string, _ time.Duration, attrs []attribute.KeyValue) {
		operations = append(operations, operation)
		attributes = append(attributes, attrs)
	}

	codegen := newPackagePartCodegen(pkg, classbuilder.ModeFull, config)
	require.NoError(t, codegen.Gen(
		background,
		function,
		returnParameter(function, 0),
		DefaultValues{b: Constant(int32(1), target.IntType)},
	))

	assert.Equal(t, []string{"method.emit", "default.emit"}, operations)

	writer := codegen.method(t, codegen.signature(function))
	assert.Equal(t,
		[]attribute.KeyValue{
			attribute.String("Owner", "test/TestKt"),
			attribute.String("Method", "f(I)I"),
			attribute.String("Origin", classbuilder.OtherOrigin(function).String()),
			attribute.Int("Instruction count", len(writer.Instructions)),
		},
		attributes[0],
	)
}
