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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codegencontext "github.com/onflow/classgen/codegen/context"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
	"github.com/onflow/classgen/target/opcode"
)

func TestGenerateSyntheticAccessors(t *testing.T) {

	t.Parallel()

	pkg := descriptors.NewPackage("test")
	class := descriptors.NewClass(pkg, "C", descriptors.ClassKindClass)

	foo := descriptors.NewFunction(
		class,
		"foo",
		descriptors.IntType(),
		descriptors.NewParameter("a", descriptors.IntType()),
	)
	foo.Visibility = descriptors.VisibilityPrivate

	constructor := descriptors.NewConstructor(class, descriptors.NewParameter("a", descriptors.IntType()))
	constructor.Visibility = descriptors.VisibilityPrivate

	bar := descriptors.NewProperty(class, "bar", descriptors.StringType(), true)
	bar.SetVisibility(descriptors.VisibilityPrivate)

	codegen := newClassCodegen(
		class,
		mapping.OwnerKindImplementation,
		nil,
		NewAccessedMembers(foo, constructor),
	)
	classContext := codegen.Owner()

	require.NoError(t, codegen.Gen(background, foo, returnParameter(foo, 0), nil))
	require.NoError(t, codegen.Gen(
		background,
		constructor,
		func(codegen *ExpressionCodegen) {
			codegen.Load(0, target.ObjectType)
			codegen.Load(1, target.IntType)
			codegen.PutField("test/C", "a", target.IntType, false)
			codegen.Return(target.VoidType)
		},
		nil,
	))

	classContext.GetOrCreateAccessor(bar, nil, true, true)

	accessors := classContext.Accessors()
	require.Len(t, accessors, 3)

	require.NoError(t, codegen.GenerateSyntheticAccessors(background, classContext))

	// emitting again is a no-op
	count := len(codegen.Builder().Methods())
	require.NoError(t, codegen.GenerateSyntheticAccessors(background, classContext))
	assert.Len(t, codegen.Builder().Methods(), count)

	// the subtests share the machine, which is not safe for concurrent use
	machine := newTestVM(t, codegen.Builder())

	t.Run("function", func(t *testing.T) {
		accessor, ok := accessors[0].(*codegencontext.FunctionAccessor)
		require.True(t, ok)

		method := codegen.signature(accessor.Function)
		assert.Equal(t, "access$foo(Ltest/C;I)I", method.String())

		writer := codegen.method(t, method)
		assert.Equal(t,
			target.AccPublic|target.AccStatic|target.AccFinal|target.AccSynthetic,
			writer.Flags,
		)
		assert.Equal(t, classbuilder.SyntheticOrigin(foo), writer.Origin)

		binding, ok := codegen.bindings.Get(classbuilder.BindingKindSyntheticAccessor, accessor.Function)
		require.True(t, ok)
		assert.Equal(t, method, binding)

		result, err := machine.InvokeStatic("test/C", method, machine.NewObject("test/C"), int32(3))
		require.NoError(t, err)
		assert.Equal(t, int32(3), result)
	})

	t.Run("constructor", func(t *testing.T) {
		accessor, ok := accessors[1].(*codegencontext.ConstructorAccessor)
		require.True(t, ok)

		method := codegen.signature(accessor.Constructor)
		assert.Equal(t, "<init>(ILlang/internal/DefaultConstructorMarker;)V", method.String())

		object := machine.NewObject("test/C")
		_, err := machine.Invoke(opcode.InvokeSpecial, "test/C", method, object, int32(4), nil)
		require.NoError(t, err)
		assert.Equal(t, int32(4), object.GetField("a"))
	})

	t.Run("property", func(t *testing.T) {
		accessor, ok := accessors[2].(*codegencontext.PropertyAccessor)
		require.True(t, ok)
		require.True(t, accessor.HasSyntheticGetter())
		require.True(t, accessor.HasSyntheticSetter())

		getter := codegen.signature(accessor.Property.Getter)
		setter := codegen.signature(accessor.Property.Setter)
		assert.Equal(t, "access$getBar(Ltest/C;)Lrt/String;", getter.String())
		assert.Equal(t, "access$setBar(Ltest/C;Lrt/String;)V", setter.String())

		// private properties are accessed through their backing field
		assert.Contains(t,
			codegen.method(t, getter).Instructions,
			opcode.InstructionGetField{Owner: "test/C", Name: "bar", Type: target.StringType},
		)

		object := machine.NewObject("test/C")
		object.SetField("bar", "v")

		result, err := machine.InvokeStatic("test/C", getter, object)
		require.NoError(t, err)
		assert.Equal(t, "v", result)

		_, err = machine.InvokeStatic("test/C", setter, object, "w")
		require.NoError(t, err)
		assert.Equal(t, "w", object.GetField("bar"))
	})
}

func TestGenerateMethodRecordsAccessor(t *testing.T) {

	t.Parallel()

	pkg := descriptors.NewPackage("test")
	class := descriptors.NewClass(pkg, "C", descriptors.ClassKindClass)

	accessed := descriptors.NewFunction(class, "accessed", descriptors.UnitType())
	accessed.Visibility = descriptors.VisibilityPrivate

	notAccessed := descriptors.NewFunction(class, "notAccessed", descriptors.UnitType())
	notAccessed.Visibility = descriptors.VisibilityPrivate

	public := descriptors.NewFunction(class, "public", descriptors.UnitType())

	codegen := newClassCodegen(
		class,
		mapping.OwnerKindImplementation,
		nil,
		NewAccessedMembers(accessed, public),
	)

	unit := func(codegen *ExpressionCodegen) {
		codegen.Return(target.VoidType)
	}
	for _, function := range []*descriptors.Function{accessed, notAccessed, public} {
		require.NoError(t, codegen.Gen(background, function, unit, nil))
	}

	accessors := codegen.Owner().Accessors()
	require.Len(t, accessors, 1)
	assert.Same(t, accessed, accessors[0].CalleeDescriptor())
}
