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

package context

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
)

type testUnit struct {
	pkg       *descriptors.PackageFragment
	class     *descriptors.Class
	companion *descriptors.Class
	inner     *descriptors.Class

	privateFunction    *descriptors.Function
	privateConstructor *descriptors.Function
	privateProperty    *descriptors.Property
	companionFunction  *descriptors.Function
	method             *descriptors.Function
	innerMethod        *descriptors.Function
}

func newTestUnit() *testUnit {
	pkg := descriptors.NewPackage("test")

	class := descriptors.NewClass(pkg, "C", descriptors.ClassKindClass)
	companion := descriptors.NewCompanionObject(class)

	inner := descriptors.NewClass(class, "Inner", descriptors.ClassKindClass)
	inner.IsInner = true

	privateFunction := descriptors.NewFunction(
		class,
		"foo",
		descriptors.UnitType(),
		descriptors.NewParameter("a", descriptors.IntType()),
	)
	privateFunction.Visibility = descriptors.VisibilityPrivate

	privateConstructor := descriptors.NewConstructor(
		class,
		descriptors.NewParameter("a", descriptors.IntType()),
	)
	privateConstructor.Visibility = descriptors.VisibilityPrivate

	privateProperty := descriptors.NewProperty(class, "bar", descriptors.StringType(), true)
	privateProperty.SetVisibility(descriptors.VisibilityPrivate)

	companionFunction := descriptors.NewFunction(companion, "create", descriptors.UnitType())
	companionFunction.Visibility = descriptors.VisibilityPrivate

	return &testUnit{
		pkg:                pkg,
		class:              class,
		companion:          companion,
		inner:              inner,
		privateFunction:    privateFunction,
		privateConstructor: privateConstructor,
		privateProperty:    privateProperty,
		companionFunction:  companionFunction,
		method:             descriptors.NewFunction(class, "method", descriptors.UnitType()),
		innerMethod:        descriptors.NewFunction(inner, "innerMethod", descriptors.UnitType()),
	}
}

func newTestTree() *Tree {
	return NewTree(mapping.NewTypeMapper(), classbuilder.ModeFull)
}

func TestIntoClass(t *testing.T) {

	t.Parallel()

	t.Run("companion is created ahead of time", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		tree := newTestTree()

		packageContext := tree.Root().IntoPackagePart(unit.pkg, target.ObjectTypeOf("test/CKt"))
		classContext := packageContext.IntoClass(unit.class, mapping.OwnerKindImplementation)

		companionContext := classContext.CompanionObjectContext()
		require.NotNil(t, companionContext)
		assert.Same(t, unit.companion, companionContext.Descriptor)
		assert.Same(t, classContext, companionContext.Parent())

		// entering the companion again returns the registered context
		count := tree.Len()
		assert.Same(t,
			companionContext,
			classContext.IntoClass(unit.companion, mapping.OwnerKindImplementation),
		)
		assert.Equal(t, count, tree.Len())

		// other children are not registered
		methodContext := classContext.IntoFunction(unit.method)
		assert.Nil(t, classContext.FindChild(unit.method))
		assert.Same(t, classContext, methodContext.Parent())
	})

	t.Run("light classes", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		tree := NewTree(mapping.NewTypeMapper(), classbuilder.ModeLightClasses)

		classContext := tree.Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		assert.Nil(t, classContext.CompanionObjectContext())
	})

	t.Run("different owner kind", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		assert.Panics(t, func() {
			classContext.IntoClass(unit.companion, mapping.OwnerKindDefaultImpls)
		})
	})

	t.Run("parents", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		packageContext := newTestTree().Root().IntoPackagePart(unit.pkg, target.ObjectTypeOf("test/CKt"))
		classContext := packageContext.IntoClass(unit.class, mapping.OwnerKindImplementation)
		methodContext := classContext.IntoFunction(unit.method)
		closureClass := descriptors.NewClass(unit.method, "", descriptors.ClassKindClass)
		lambda := &descriptors.Function{
			Member: descriptors.Member{
				Identifier: "<anonymous>",
				Owner:      unit.method,
			},
			FunctionKind: descriptors.FunctionKindLiteral,
		}
		closureContext := methodContext.IntoClosure(lambda, closureClass)

		assert.Same(t, unit.class, methodContext.ThisDescriptor())
		assert.Same(t, closureClass, closureContext.ThisDescriptor())
		assert.Same(t, unit.class, closureContext.EnclosingClass())
		assert.Same(t, closureContext, closureContext.ClassOrPackageParent())
		assert.Same(t, classContext, methodContext.ClassOrPackageParent())
		assert.Same(t, classContext, closureContext.FindParentWithDescriptor(unit.class))
		assert.Nil(t, closureContext.FindParentWithDescriptor(unit.inner))
		assert.False(t, methodContext.IsStatic())
		assert.True(t, packageContext.IsStatic())
	})
}

func TestGetAccessor(t *testing.T) {

	t.Parallel()

	t.Run("function", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		tree := newTestTree()
		classContext := tree.Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		first := classContext.GetAccessor(unit.privateFunction, nil)
		second := classContext.GetAccessor(unit.privateFunction, nil)
		require.Same(t, first, second)

		accessor, ok := first.(*descriptors.Function)
		require.True(t, ok)
		assert.Equal(t, "access$foo", accessor.Identifier)
		assert.Same(t, unit.privateFunction, accessor.AccessorFor)
		assert.False(t, unit.privateFunction.ValueParameters[0] == accessor.ValueParameters[0])

		signature := tree.Mapper.MapSignature(accessor, mapping.OwnerKindImplementation)
		assert.Equal(t, "access$foo(Ltest/C;I)V", signature.Method.String())

		accessors := classContext.Accessors()
		require.Len(t, accessors, 1)
		assert.Same(t, unit.privateFunction, accessors[0].CalleeDescriptor())
	})

	t.Run("super call", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		base := descriptors.NewClass(unit.pkg, "Base", descriptors.ClassKindClass)
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		plain := classContext.GetAccessor(unit.privateFunction, nil)
		super := classContext.GetAccessor(unit.privateFunction, base)
		assert.NotSame(t, plain, super)
		assert.Equal(t, "access$foo$s2063089", super.Name())
		assert.Len(t, classContext.Accessors(), 2)
	})

	t.Run("constructor", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		tree := newTestTree()
		classContext := tree.Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		accessor := classContext.GetAccessor(unit.privateConstructor, nil).(*descriptors.Function)
		assert.True(t, accessor.IsConstructor())

		signature := tree.Mapper.MapSignature(accessor, mapping.OwnerKindImplementation)
		assert.Equal(t,
			"<init>(ILlang/internal/DefaultConstructorMarker;)V",
			signature.Method.String(),
		)
		assert.Equal(t,
			target.ParameterKindConstructorMarker,
			signature.Parameters[len(signature.Parameters)-1].Kind,
		)
	})

	t.Run("property capabilities are upgraded in place", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		getterOnly := classContext.GetOrCreateAccessor(unit.privateProperty, nil, true, false).(*descriptors.Property)
		assert.Equal(t, "access$getBar", getterOnly.Getter.Identifier)
		assert.Same(t, unit.privateProperty.Setter, getterOnly.Setter)

		setterOnly := classContext.GetOrCreateAccessor(unit.privateProperty, nil, false, true).(*descriptors.Property)
		require.Same(t, getterOnly, setterOnly)
		assert.Equal(t, "access$getBar", setterOnly.Getter.Identifier)
		assert.Equal(t, "access$setBar", setterOnly.Setter.Identifier)

		accessors := classContext.Accessors()
		require.Len(t, accessors, 1)
		propertyAccessor, ok := accessors[0].(*PropertyAccessor)
		require.True(t, ok)
		assert.True(t, propertyAccessor.HasSyntheticGetter())
		assert.True(t, propertyAccessor.HasSyntheticSetter())
	})

	t.Run("read-only property has no setter accessor", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		property := descriptors.NewProperty(unit.class, "isOpen", descriptors.BooleanType(), false)
		property.SetVisibility(descriptors.VisibilityPrivate)

		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		accessor := classContext.GetAccessor(property, nil).(*descriptors.Property)
		assert.Equal(t, "access$isOpen", accessor.Getter.Identifier)
		assert.Nil(t, accessor.Setter)
	})

	t.Run("backing field", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		field := classContext.GetFieldAccessor(unit.privateProperty, FieldAccessorInClassCompanion)
		assert.Equal(t, "access$getBar$cp", field.Getter.Identifier)
		assert.Equal(t, "access$setBar$cp", field.Setter.Identifier)

		// the accessor of the key is the field accessor
		assert.Same(t, field, classContext.GetAccessor(unit.privateProperty, nil))
		assert.Same(t, field, classContext.GetFieldAccessor(unit.privateProperty, FieldAccessorInClassCompanion))
	})

	t.Run("field accessor needs a backing field kind", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		assert.Panics(t, func() {
			classContext.GetFieldAccessor(unit.privateProperty, FieldAccessorNormal)
		})
		assert.Empty(t, classContext.Accessors())
	})

	t.Run("substituted members share the accessor of the original", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

		substituted := *unit.privateFunction
		substituted.Original = unit.privateFunction

		assert.Same(t,
			classContext.GetAccessor(unit.privateFunction, nil),
			classContext.GetAccessor(&substituted, nil),
		)
	})
}

func TestGetAccessorIdempotence(t *testing.T) {

	t.Parallel()

	properties := gopter.NewProperties(nil)

	properties.Property("equal keys return the same accessor", prop.ForAll(
		func(requests []uint8) bool {
			unit := newTestUnit()
			classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

			members := []descriptors.CallableMember{
				unit.privateFunction,
				unit.privateConstructor,
				unit.privateProperty,
			}

			seen := map[descriptors.CallableMember]descriptors.CallableMember{}
			for _, request := range requests {
				member := members[int(request)%len(members)]
				getter := request&4 != 0
				setter := request&8 != 0 || !getter

				accessor := classContext.GetOrCreateAccessor(member, nil, getter, setter)
				if previous, ok := seen[member]; ok && previous != accessor {
					return false
				}
				seen[member] = accessor
			}

			return len(classContext.Accessors()) == len(seen)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

func TestAccessibleDescriptor(t *testing.T) {

	t.Parallel()

	t.Run("same class", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		methodContext := classContext.IntoFunction(unit.method)

		assert.Same(t, unit.privateFunction, methodContext.AccessibleDescriptor(unit.privateFunction, nil))
		assert.Empty(t, classContext.Accessors())
	})

	t.Run("inner class", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		innerContext := classContext.IntoClass(unit.inner, mapping.OwnerKindImplementation)
		methodContext := innerContext.IntoFunction(unit.innerMethod)

		accessible := methodContext.AccessibleDescriptor(unit.privateFunction, nil)
		assert.Equal(t, "access$foo", accessible.Name())
		assert.Same(t, accessible, methodContext.AccessibleDescriptor(unit.privateFunction, nil))

		// the accessor belongs to the context of the class declaring the member
		require.Len(t, classContext.Accessors(), 1)
		assert.Empty(t, innerContext.Accessors())

		// public members need no accessor
		assert.Same(t, unit.method, methodContext.AccessibleDescriptor(unit.method, nil))
	})

	t.Run("companion object", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		methodContext := classContext.IntoFunction(unit.method)

		accessible := methodContext.AccessibleDescriptor(unit.companionFunction, nil)
		assert.Equal(t, "access$create", accessible.Name())
		assert.Len(t, classContext.CompanionObjectContext().Accessors(), 1)
	})

	t.Run("property getter only", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		property := descriptors.NewProperty(unit.class, "baz", descriptors.IntType(), true)
		property.Setter.Visibility = descriptors.VisibilityPrivate

		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		innerContext := classContext.IntoClass(unit.inner, mapping.OwnerKindImplementation)

		accessible := innerContext.AccessibleDescriptor(property, nil).(*descriptors.Property)
		assert.Same(t, property.Getter, accessible.Getter)
		assert.Equal(t, "access$setBaz", accessible.Setter.Identifier)
	})

	t.Run("static context", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		packageContext := newTestTree().Root().IntoPackagePart(unit.pkg, target.ObjectTypeOf("test/CKt"))

		assert.Same(t, unit.privateFunction, packageContext.AccessibleDescriptor(unit.privateFunction, nil))
	})

	t.Run("record needed accessors", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		innerContext := classContext.IntoClass(unit.inner, mapping.OwnerKindImplementation)

		needs := testAccessorNeeds{unit.privateFunction: true}
		innerContext.RecordSyntheticAccessorIfNeeded(unit.privateFunction, needs)
		innerContext.RecordSyntheticAccessorIfNeeded(unit.privateConstructor, needs)

		accessors := classContext.Accessors()
		require.Len(t, accessors, 1)
		assert.IsType(t, &FunctionAccessor{}, accessors[0])
	})
}

type testAccessorNeeds map[descriptors.CallableMember]bool

func (n testAccessorNeeds) NeedsSyntheticAccessor(member descriptors.CallableMember) bool {
	return n[member]
}

func TestIsAccessorRequired(t *testing.T) {

	t.Parallel()

	unit := newTestUnit()
	tree := newTestTree()
	classContext := tree.Root().IntoClass(unit.class, mapping.OwnerKindImplementation)

	other := descriptors.NewPackage("other")
	otherClass := descriptors.NewClass(other, "D", descriptors.ClassKindClass)
	otherContext := tree.Root().IntoClass(otherClass, mapping.OwnerKindImplementation)

	assert.True(t, IsAccessorRequired(target.AccPrivate, unit.privateFunction, classContext))
	assert.False(t, IsAccessorRequired(target.AccProtected, unit.method, classContext))
	assert.True(t, IsAccessorRequired(target.AccProtected, unit.method, otherContext))
	assert.False(t, IsAccessorRequired(target.AccPublic, unit.method, otherContext))
}

func TestLookupInContext(t *testing.T) {

	t.Parallel()

	t.Run("closure captures this", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		methodContext := classContext.IntoFunction(unit.method)

		closureClass := descriptors.NewClass(unit.method, "", descriptors.ClassKindClass)
		lambda := &descriptors.Function{
			Member: descriptors.Member{
				Identifier: "<anonymous>",
				Owner:      unit.method,
			},
			FunctionKind: descriptors.FunctionKindLiteral,
		}
		closureContext := methodContext.IntoClosure(lambda, closureClass)
		assert.False(t, closureContext.Closure.CapturesThis())

		location, err := closureContext.LookupInContext(unit.class, nil, false)
		require.NoError(t, err)
		require.NotNil(t, location)
		assert.Equal(t, "local0.this$0", location.String())
		assert.Equal(t, "Ltest/C;", location.Type.Descriptor())
		assert.True(t, closureContext.Closure.CapturesThis())

		// the flag is never cleared
		_, err = closureContext.LookupInContext(unit.inner, nil, true)
		require.NoError(t, err)
		assert.True(t, closureContext.Closure.CapturesThis())
	})

	t.Run("captured local", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		methodContext := classContext.IntoFunction(unit.method)

		local := &descriptors.LocalVariable{
			Identifier: "x",
			Owner:      unit.method,
			Type:       descriptors.IntType(),
		}

		closureClass := descriptors.NewClass(unit.method, "", descriptors.ClassKindClass)
		lambda := &descriptors.Function{
			Member: descriptors.Member{
				Identifier: "<anonymous>",
				Owner:      unit.method,
			},
			FunctionKind: descriptors.FunctionKindLiteral,
		}
		closureContext := methodContext.IntoClosure(lambda, closureClass)

		first, err := closureContext.LookupInContext(local, nil, false)
		require.NoError(t, err)
		assert.Equal(t, "local0.$x", first.String())
		assert.Equal(t, target.IntType, first.Type)

		second, err := closureContext.LookupInContext(local, nil, false)
		require.NoError(t, err)
		assert.Same(t, first, second)

		assert.Equal(t,
			[]descriptors.Declaration{local},
			closureContext.Closure.CapturedDeclarations(),
		)
		assert.False(t, closureContext.Closure.CapturesThis())
	})

	t.Run("inner class", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		innerContext := classContext.IntoClass(unit.inner, mapping.OwnerKindImplementation)
		methodContext := innerContext.IntoFunction(unit.innerMethod)

		location, err := methodContext.LookupInContext(unit.class, nil, false)
		require.NoError(t, err)
		assert.Equal(t, "local0.this$0", location.String())
		assert.Equal(t, "test/C$Inner", location.Owner)
		assert.True(t, innerContext.Closure.CapturesThis())

		constructorContext := innerContext.IntoConstructor(descriptors.NewConstructor(unit.inner))
		location, err = constructorContext.LookupInContext(unit.class, nil, false)
		require.NoError(t, err)
		assert.Equal(t, "local1", location.String())
	})

	t.Run("no outer", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		function := descriptors.NewFunction(unit.pkg, "top", descriptors.UnitType())
		packageContext := newTestTree().Root().IntoPackagePart(unit.pkg, target.ObjectTypeOf("test/CKt"))
		methodContext := packageContext.IntoFunction(function)

		closureClass := descriptors.NewClass(function, "", descriptors.ClassKindClass)
		lambda := &descriptors.Function{
			Member: descriptors.Member{
				Identifier: "<anonymous>",
				Owner:      function,
			},
			FunctionKind: descriptors.FunctionKindLiteral,
		}
		closureContext := methodContext.IntoClosure(lambda, closureClass)

		_, err := closureContext.LookupInContext(unit.class, nil, false)
		var noOuter *errors.NoOuterAccessorError
		require.ErrorAs(t, err, &noOuter)
		assert.True(t, errors.IsInternalError(err))

		location, err := closureContext.LookupInContext(unit.class, nil, true)
		require.NoError(t, err)
		assert.Nil(t, location)
		assert.False(t, closureContext.Closure.CapturesThis())
	})

	t.Run("object instance", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		registry := descriptors.NewClass(unit.pkg, "Registry", descriptors.ClassKindObject)

		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		methodContext := classContext.IntoFunction(unit.method)

		location, err := methodContext.LookupInContext(registry, nil, false)
		require.NoError(t, err)
		assert.True(t, location.IsStaticField())
		assert.Equal(t, "test/Registry.INSTANCE", location.String())
		assert.Equal(t, "Ltest/Registry;", location.Type.Descriptor())

		closureClass := descriptors.NewClass(unit.method, "", descriptors.ClassKindClass)
		lambda := &descriptors.Function{
			Member: descriptors.Member{
				Identifier: "<anonymous>",
				Owner:      unit.method,
			},
			FunctionKind: descriptors.FunctionKindLiteral,
		}
		closureContext := methodContext.IntoClosure(lambda, closureClass)

		location, err = closureContext.LookupInContext(registry, nil, false)
		require.NoError(t, err)
		assert.Equal(t, "test/Registry.INSTANCE", location.String())
		assert.False(t, closureContext.Closure.CapturesThis())
	})

	t.Run("companion object instance", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		function := descriptors.NewFunction(unit.pkg, "top", descriptors.UnitType())
		packageContext := newTestTree().Root().IntoPackagePart(unit.pkg, target.ObjectTypeOf("test/CKt"))
		methodContext := packageContext.IntoFunction(function)

		closureClass := descriptors.NewClass(function, "", descriptors.ClassKindClass)
		lambda := &descriptors.Function{
			Member: descriptors.Member{
				Identifier: "<anonymous>",
				Owner:      function,
			},
			FunctionKind: descriptors.FunctionKindLiteral,
		}
		closureContext := methodContext.IntoClosure(lambda, closureClass)

		// no outer instance is needed to reach a static field
		location, err := closureContext.LookupInContext(unit.companion, nil, false)
		require.NoError(t, err)
		assert.Equal(t, "test/C.Companion", location.String())
		assert.Equal(t, "Ltest/C$Companion;", location.Type.Descriptor())
		assert.False(t, closureContext.Closure.CapturesThis())
	})

	t.Run("outer expression with prefix", func(t *testing.T) {
		t.Parallel()

		unit := newTestUnit()
		classContext := newTestTree().Root().IntoClass(unit.class, mapping.OwnerKindImplementation)
		innerContext := classContext.IntoClass(unit.inner, mapping.OwnerKindImplementation)

		prefix := LocalLocation(3, target.ObjectTypeOf("test/C$Inner"))
		location, err := innerContext.OuterExpression(prefix, false, true)
		require.NoError(t, err)
		assert.Equal(t, "local3.this$0", location.String())
		assert.Len(t, location.LoadInstructions(), 2)
		assert.True(t, innerContext.Closure.CapturesThis())
	})
}

func TestLazyLocationRecursion(t *testing.T) {

	t.Parallel()

	var cell lazyLocation

	assert.Panics(t, func() {
		cell.get(func() *Location {
			return cell.get(func() *Location {
				return nil
			})
		})
	})

	var other lazyLocation
	calls := 0
	compute := func() *Location {
		calls++
		return LocalLocation(0, target.ObjectType)
	}
	first := other.get(compute)
	second := other.get(compute)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestJavaStringHash(t *testing.T) {

	t.Parallel()

	assert.Equal(t, int32(0), javaStringHash(""))
	assert.Equal(t, int32(2063089), javaStringHash("Base"))
	// overflow wraps around
	assert.Equal(t, int32(-2147483648), javaStringHash("polygenelubricants"))
}
