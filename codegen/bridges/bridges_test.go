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

package bridges

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
)

type testFunction struct {
	name        string
	signature   string
	declaration bool
	abstract    bool
	inInterface bool
	overridden  []*testFunction
}

func (f *testFunction) IsDeclaration() bool {
	return f.declaration
}

func (f *testFunction) IsAbstract() bool {
	return f.abstract || f.inInterface
}

func (f *testFunction) MayBeUsedAsSuperImplementation() bool {
	return !f.inInterface
}

func (f *testFunction) Overridden() []*testFunction {
	return f.overridden
}

func (f *testFunction) String() string {
	return f.name
}

func testSignature(f *testFunction) string {
	return f.signature
}

func TestGenerate(t *testing.T) {

	t.Parallel()

	t.Run("override with different signature", func(t *testing.T) {
		t.Parallel()

		a := &testFunction{name: "A.f", signature: "f(O)", declaration: true}
		b := &testFunction{name: "B.f", signature: "f(S)", declaration: true, overridden: []*testFunction{a}}

		assert.Equal(t,
			[]Bridge[string]{{From: "f(O)", To: "f(S)"}},
			Generate(b, testSignature),
		)
	})

	t.Run("same signature", func(t *testing.T) {
		t.Parallel()

		a := &testFunction{name: "A.f", signature: "f(S)", declaration: true}
		b := &testFunction{name: "B.f", signature: "f(S)", declaration: true, overridden: []*testFunction{a}}

		assert.Empty(t, Generate(b, testSignature))
	})

	t.Run("abstract", func(t *testing.T) {
		t.Parallel()

		a := &testFunction{name: "I.f", signature: "f(O)", declaration: true, inInterface: true}
		b := &testFunction{name: "B.f", signature: "f(S)", declaration: true, abstract: true, overridden: []*testFunction{a}}

		assert.Empty(t, Generate(b, testSignature))
	})

	t.Run("fake override inherits bridges", func(t *testing.T) {
		t.Parallel()

		a := &testFunction{name: "A.f", signature: "f(O)", declaration: true}
		b := &testFunction{name: "B.f", signature: "f(S)", declaration: true, overridden: []*testFunction{a}}
		c := &testFunction{name: "C.f", signature: "f(S)", overridden: []*testFunction{b}}

		assert.Empty(t, Generate(c, testSignature))
		assert.Same(t, b, FindConcreteSuperDeclaration(c))
	})

	t.Run("fake override implementing interface", func(t *testing.T) {
		t.Parallel()

		a := &testFunction{name: "A.f", signature: "f(S)", declaration: true}
		i := &testFunction{name: "I.f", signature: "f(O)", declaration: true, inInterface: true}
		c := &testFunction{name: "C.f", signature: "f(S)", overridden: []*testFunction{a, i}}

		assert.Equal(t,
			[]Bridge[string]{{From: "f(O)", To: "f(S)"}},
			Generate(c, testSignature),
		)
	})

	t.Run("diamond", func(t *testing.T) {
		t.Parallel()

		top := &testFunction{name: "I.f", signature: "f(O)", declaration: true, inInterface: true}
		left := &testFunction{name: "J.f", signature: "f(N)", declaration: true, inInterface: true, overridden: []*testFunction{top}}
		right := &testFunction{name: "K.f", signature: "f(O)", declaration: true, inInterface: true, overridden: []*testFunction{top}}
		impl := &testFunction{name: "C.f", signature: "f(I)", declaration: true, overridden: []*testFunction{left, right}}

		assert.Equal(t,
			[]*testFunction{top, left, right, impl},
			FindAllReachableDeclarations(impl),
		)
		assert.Equal(t,
			[]Bridge[string]{
				{From: "f(O)", To: "f(I)"},
				{From: "f(N)", To: "f(I)"},
			},
			Generate(impl, testSignature),
		)
	})

	t.Run("ambiguous implementation", func(t *testing.T) {
		t.Parallel()

		a := &testFunction{name: "A.f", signature: "f(S)", declaration: true}
		b := &testFunction{name: "B.f", signature: "f(O)", declaration: true}
		c := &testFunction{name: "C.f", signature: "f(S)", overridden: []*testFunction{a, b}}

		assert.Panics(t, func() {
			FindConcreteSuperDeclaration(c)
		})
	})
}

func TestGenerateCoverage(t *testing.T) {

	t.Parallel()

	signatures := []string{"f(O)", "f(S)", "f(N)", "f(I)"}

	properties := gopter.NewProperties(nil)

	properties.Property(
		"every reachable signature except the implementation's is bridged exactly once",
		prop.ForAll(
			func(chain []int, implementationSignature int) bool {
				var previous []*testFunction
				expected := map[string]struct{}{}
				for i, index := range chain {
					declaration := &testFunction{
						name:        fmt.Sprintf("I%d.f", i),
						signature:   signatures[index],
						declaration: true,
						inInterface: true,
						overridden:  previous,
					}
					expected[declaration.signature] = struct{}{}
					previous = []*testFunction{declaration}
				}

				implementation := &testFunction{
					name:        "C.f",
					signature:   signatures[implementationSignature],
					declaration: true,
					overridden:  previous,
				}
				delete(expected, implementation.signature)

				bridges := Generate(implementation, testSignature)
				if len(bridges) != len(expected) {
					return false
				}
				for _, bridge := range bridges {
					if bridge.To != implementation.signature {
						return false
					}
					if _, ok := expected[bridge.From]; !ok {
						return false
					}
					delete(expected, bridge.From)
				}
				return len(expected) == 0
			},
			gen.SliceOf(gen.IntRange(0, len(signatures)-1)),
			gen.IntRange(0, len(signatures)-1),
		),
	)

	properties.TestingRun(t)
}

func methodSignature(function *descriptors.Function) target.Method {
	mapper := mapping.NewTypeMapper()
	return mapper.MapSignature(function, mapping.ContextKindOf(function)).Method
}

func elementType(class *descriptors.Class) *descriptors.Type {
	return descriptors.NewType(class.TypeParameters[0])
}

func bridgeStrings(plan Plan) []string {
	result := make([]string, 0, len(plan.Bridges))
	for _, bridge := range plan.Bridges {
		prefix := ""
		switch {
		case bridge.Special:
			prefix = "special "
		case bridge.DelegateToSuper:
			prefix = "super "
		}
		result = append(result, prefix+bridge.From.String()+" -> "+bridge.To.String())
	}
	return result
}

func TestPlanBridges(t *testing.T) {

	t.Parallel()

	pkg := descriptors.NewPackage("test")

	listIndexOf := descriptors.NewFunction(
		descriptors.ListClass,
		"indexOf",
		descriptors.IntType(),
		descriptors.NewParameter("element", elementType(descriptors.ListClass)),
	)

	mutableListRemoveAt := descriptors.NewFunction(
		descriptors.MutableListClass,
		"removeAt",
		elementType(descriptors.MutableListClass),
		descriptors.NewParameter("index", descriptors.IntType()),
	)

	config := DefaultConfig()

	t.Run("plain override", func(t *testing.T) {
		t.Parallel()

		base := descriptors.NewClass(pkg, "Base", descriptors.ClassKindClass)
		baseFunction := descriptors.NewFunction(base, "f", descriptors.AnyType(), descriptors.NewParameter("a", descriptors.AnyType()))
		baseFunction.Modality = descriptors.ModalityOpen

		derived := descriptors.NewClass(pkg, "Derived", descriptors.ClassKindClass)
		derived.SuperClass = base
		function := descriptors.NewFunction(derived, "f", descriptors.StringType(), descriptors.NewParameter("a", descriptors.AnyType()))
		function.Overridden = []*descriptors.Function{baseFunction}

		plan := config.PlanBridges(function, methodSignature)

		assert.Equal(t,
			[]string{"f(Lrt/Object;)Lrt/Object; -> f(Lrt/Object;)Lrt/String;"},
			bridgeStrings(plan),
		)
		assert.Nil(t, plan.Special)
	})

	t.Run("erased parameter", func(t *testing.T) {
		t.Parallel()

		class := descriptors.NewClass(pkg, "Strings", descriptors.ClassKindClass)
		class.Interfaces = []*descriptors.Class{descriptors.ListClass}
		function := descriptors.NewFunction(
			class,
			"indexOf",
			descriptors.IntType(),
			descriptors.NewParameter("element", descriptors.StringType()),
		)
		function.Overridden = []*descriptors.Function{listIndexOf}

		plan := config.PlanBridges(function, methodSignature)

		assert.Equal(t,
			[]string{"special indexOf(Lrt/Object;)I -> indexOf(Lrt/String;)I"},
			bridgeStrings(plan),
		)
		require.NotNil(t, plan.Special)
		assert.True(t, plan.Special.HasErasedParameters())
		require.NotNil(t, plan.Special.Sentinel)
		assert.Equal(t, int32(-1), *plan.Special.Sentinel)
		assert.Same(t, listIndexOf, plan.Builtin)
	})

	t.Run("renamed", func(t *testing.T) {
		t.Parallel()

		class := descriptors.NewClass(pkg, "MutableStrings", descriptors.ClassKindClass)
		class.Interfaces = []*descriptors.Class{descriptors.MutableListClass}
		function := descriptors.NewFunction(
			class,
			"removeAt",
			descriptors.StringType(),
			descriptors.NewParameter("index", descriptors.IntType()),
		)
		function.Modality = descriptors.ModalityOpen
		function.Overridden = []*descriptors.Function{mutableListRemoveAt}

		plan := config.PlanBridges(function, methodSignature)

		assert.Equal(t,
			[]string{
				"special remove(I)Lrt/Object; -> removeAt(I)Lrt/String;",
				"removeAt(I)Lrt/Object; -> removeAt(I)Lrt/String;",
			},
			bridgeStrings(plan),
		)
		assert.False(t, plan.HasAbstractStub)

		t.Run("fake override", func(t *testing.T) {
			t.Parallel()

			subclass := descriptors.NewClass(pkg, "MoreStrings", descriptors.ClassKindClass)
			subclass.SuperClass = class
			fake := descriptors.NewFakeOverride(subclass, function)

			assert.Empty(t, config.PlanBridges(fake, methodSignature).Bridges)
		})
	})

	t.Run("renamed, inherited target shape", func(t *testing.T) {
		t.Parallel()

		// a superclass already implements `remove(I)`
		base := descriptors.NewClass(pkg, "RemovingBase", descriptors.ClassKindClass)
		baseRemove := descriptors.NewFunction(
			base,
			"remove",
			descriptors.AnyType(),
			descriptors.NewParameter("index", descriptors.IntType()),
		)
		baseRemove.Modality = descriptors.ModalityOpen

		class := descriptors.NewClass(pkg, "Removing", descriptors.ClassKindClass)
		class.SuperClass = base
		class.Interfaces = []*descriptors.Class{descriptors.MutableListClass}
		fake := descriptors.NewFakeOverride(class, baseRemove, mutableListRemoveAt)
		fake.Identifier = "removeAt"

		plan := config.PlanBridges(fake, methodSignature)

		assert.Equal(t,
			[]string{"super removeAt(I)Lrt/Object; -> remove(I)Lrt/Object;"},
			bridgeStrings(plan),
		)
	})

	t.Run("abstract fake override of renamed member", func(t *testing.T) {
		t.Parallel()

		class := descriptors.NewClass(pkg, "AbstractStrings", descriptors.ClassKindClass)
		class.Modality = descriptors.ModalityAbstract
		class.Interfaces = []*descriptors.Class{descriptors.MutableListClass}
		fake := descriptors.NewFakeOverride(class, mutableListRemoveAt)

		plan := config.PlanBridges(fake, methodSignature)

		assert.Empty(t, plan.Bridges)
		require.True(t, plan.HasAbstractStub)
		assert.Equal(t, "remove(I)Lrt/Object;", plan.AbstractStub.String())
	})

	t.Run("no bridges", func(t *testing.T) {
		t.Parallel()

		class := descriptors.NewClass(pkg, "Plain", descriptors.ClassKindClass)

		constructor := descriptors.NewConstructor(class)
		assert.False(t, NeedsBridges(constructor))

		toString := descriptors.NewFunction(class, "toString", descriptors.StringType())
		assert.False(t, NeedsBridges(toString))

		inter := descriptors.NewClass(pkg, "Iface", descriptors.ClassKindInterface)
		member := descriptors.NewFunction(inter, "f", descriptors.UnitType())
		assert.False(t, NeedsBridges(member))

		synthesized := descriptors.NewFunction(class, "component1", descriptors.IntType())
		synthesized.Kind = descriptors.CallableKindSynthesized
		assert.False(t, NeedsBridges(synthesized))
		assert.Empty(t, config.PlanBridges(synthesized, methodSignature).Bridges)
	})

	t.Run("interface implementation", func(t *testing.T) {
		t.Parallel()

		inter := descriptors.NewClass(pkg, "Greeter", descriptors.ClassKindInterface)
		greet := descriptors.NewFunction(inter, "greet", descriptors.StringType())
		greet.Modality = descriptors.ModalityOpen

		class := descriptors.NewClass(pkg, "Greeting", descriptors.ClassKindClass)
		class.Interfaces = []*descriptors.Class{inter}
		fake := descriptors.NewFakeOverride(class, greet)

		assert.Same(t, greet, FindInterfaceImplementation(fake))
		assert.True(t, HandleOf(fake).IsDeclaration())
		assert.Empty(t, config.PlanBridges(fake, methodSignature).Bridges)
	})
}

func TestParseSpecials(t *testing.T) {

	t.Parallel()

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		specials, err := ParseSpecials([]byte(defaultSpecials))
		require.NoError(t, err)
		require.NotEmpty(t, specials)

		config := NewConfig(specials, false)

		size := descriptors.NewProperty(descriptors.CollectionClass, "size", descriptors.IntType(), false)
		special, ok := config.LookupSpecial(size.Getter)
		require.True(t, ok)
		assert.True(t, special.IsRenamed())
		assert.Equal(t, "size", special.TargetName)

		other := descriptors.NewFunction(descriptors.ListClass, "subList", descriptors.AnyType())
		_, ok = config.LookupSpecial(other)
		assert.False(t, ok)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSpecials([]byte(`
specials:
  - owner: lang.collections.List
    name: get
    kind: boxed
`))
		require.Error(t, err)
	})

	t.Run("renamed without target", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSpecials([]byte(`
specials:
  - owner: lang.collections.List
    name: get
    kind: renamed
`))
		require.Error(t, err)
	})

	t.Run("empty allowlist", func(t *testing.T) {
		t.Parallel()

		config := &Config{}
		_, ok := config.LookupSpecial(
			descriptors.NewFunction(descriptors.ListClass, "indexOf", descriptors.IntType()),
		)
		assert.False(t, ok)
	})
}

func TestFilterRedundant(t *testing.T) {

	t.Parallel()

	method := target.NewMethod("f", target.VoidType, target.ObjectType)
	other := target.NewMethod("f", target.VoidType, target.StringType)

	bridges := func() []MethodBridge {
		return []MethodBridge{
			{From: method, To: method},
			{From: method, To: other},
		}
	}

	lenient := NewConfig(nil, false)
	assert.Equal(t,
		[]MethodBridge{{From: method, To: other}},
		lenient.filterRedundant(bridges()),
	)

	strict := NewConfig(nil, true)
	assert.Panics(t, func() {
		strict.filterRedundant(bridges())
	})
}
