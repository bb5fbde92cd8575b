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

package mapping

import (
	"strconv"
	"strings"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/opcode"
)

var builtinInternalNames = map[*descriptors.Class]string{
	descriptors.AnyClass:               target.ObjectInternalName,
	descriptors.StringClass:            target.StringInternalName,
	descriptors.NumberClass:            "rt/Number",
	descriptors.NothingClass:           "rt/Void",
	descriptors.CollectionClass:        "rt/util/Collection",
	descriptors.MutableCollectionClass: "rt/util/Collection",
	descriptors.ListClass:              "rt/util/List",
	descriptors.MutableListClass:       "rt/util/List",
	descriptors.ConstructorMarkerClass: target.ConstructorMarkerInternalName,
}

var primitiveTypes = map[*descriptors.Class]target.Type{
	descriptors.BooleanClass: target.BooleanType,
	descriptors.CharClass:    target.CharType,
	descriptors.ByteClass:    target.ByteType,
	descriptors.ShortClass:   target.ShortType,
	descriptors.IntClass:     target.IntType,
	descriptors.LongClass:    target.LongType,
	descriptors.FloatClass:   target.FloatType,
	descriptors.DoubleClass:  target.DoubleType,
}

// TypeMapper is the reference SignatureMapper.
//
// Primitive types map to primitive target types unless nullable, generics are erased
// to the first upper bound, and top-level declarations live in a facade class per package.
// A TypeMapper is not safe for concurrent use: names of anonymous classes are assigned lazily.
type TypeMapper struct {
	// FacadeClassName returns the internal name of the class holding the top-level
	// declarations of a package. Defaults to `<package path>/<Package>Kt`.
	FacadeClassName func(fragment *descriptors.PackageFragment) string

	anonymousNames  map[*descriptors.Class]string
	anonymousCounts map[string]int
}

var _ SignatureMapper = &TypeMapper{}

func NewTypeMapper() *TypeMapper {
	return &TypeMapper{
		anonymousNames:  map[*descriptors.Class]string{},
		anonymousCounts: map[string]int{},
	}
}

func packagePath(fragment *descriptors.PackageFragment) string {
	return strings.ReplaceAll(fragment.FqName, ".", "/")
}

func (m *TypeMapper) facadeClassName(fragment *descriptors.PackageFragment) string {
	if m.FacadeClassName != nil {
		return m.FacadeClassName(fragment)
	}
	name := fragment.Name()
	if name == "" {
		return "RootKt"
	}
	return packagePath(fragment) + "/" + Capitalize(name) + "Kt"
}

func (m *TypeMapper) classInternalName(class *descriptors.Class) string {
	if name, ok := builtinInternalNames[class]; ok {
		return name
	}
	if primitive, ok := primitiveTypes[class]; ok {
		return target.BoxType(primitive).InternalName()
	}

	if class.IsAnonymous() {
		return m.anonymousClassName(class)
	}

	switch parent := class.Parent.(type) {
	case *descriptors.Class:
		return m.classInternalName(parent) + "$" + class.Identifier
	case *descriptors.PackageFragment:
		if parent.FqName == "" {
			return class.Identifier
		}
		return packagePath(parent) + "/" + class.Identifier
	case nil:
		return class.Identifier
	default:
		// local classes are named after the enclosing class
		return m.MapOwner(outerClassOrPackage(parent)).InternalName() + "$" + class.Identifier
	}
}

func outerClassOrPackage(declaration descriptors.Declaration) descriptors.Declaration {
	for current := declaration; current != nil; current = current.Container() {
		switch current.(type) {
		case *descriptors.Class, *descriptors.PackageFragment:
			return current
		}
	}
	panic(errors.NewUnexpectedError("declaration has no enclosing class or package: %s", declaration))
}

func (m *TypeMapper) anonymousClassName(class *descriptors.Class) string {
	if name, ok := m.anonymousNames[class]; ok {
		return name
	}
	outer := m.MapOwner(outerClassOrPackage(class.Parent)).InternalName()
	m.anonymousCounts[outer]++
	name := outer + "$" + strconv.Itoa(m.anonymousCounts[outer])
	m.anonymousNames[class] = name
	return name
}

func (m *TypeMapper) MapClass(class *descriptors.Class) target.Type {
	return target.ObjectTypeOf(m.classInternalName(class))
}

func (m *TypeMapper) MapOwner(container descriptors.Declaration) target.Type {
	switch container := container.(type) {
	case *descriptors.Class:
		return m.MapClass(container)
	case *descriptors.PackageFragment:
		return target.ObjectTypeOf(m.facadeClassName(container))
	case *descriptors.Script:
		return m.MapClass(container.Class)
	default:
		panic(errors.NewUnexpectedError("cannot map owner %s", container))
	}
}

// DefaultImplsType returns the class holding the bodies of the members of an interface.
func (m *TypeMapper) DefaultImplsType(inter *descriptors.Class) target.Type {
	return target.ObjectTypeOf(m.classInternalName(inter) + DefaultImplsSuffix)
}

func (m *TypeMapper) MapType(typ *descriptors.Type) target.Type {
	if typeParameter := typ.TypeParameter(); typeParameter != nil {
		return m.mapUpperBound(typeParameter)
	}

	class := typ.Class()
	if primitive, ok := primitiveTypes[class]; ok {
		if typ.Nullable {
			return target.BoxType(primitive)
		}
		return primitive
	}

	if class == descriptors.ArrayClass && len(typ.Arguments) == 1 {
		element := target.BoxType(m.MapType(typ.Arguments[0]))
		return target.ArrayTypeOf(element)
	}

	return m.MapClass(class)
}

func (m *TypeMapper) mapUpperBound(typeParameter *descriptors.TypeParameter) target.Type {
	if len(typeParameter.UpperBounds) == 0 {
		return target.ObjectType
	}
	bound := typeParameter.UpperBounds[0]
	// erasure never yields a primitive
	return target.BoxType(m.MapType(bound))
}

// MapReturnType returns the return type of the method generated for a function.
// Unit maps to void unless the function overrides a function whose return type is not Unit.
func (m *TypeMapper) MapReturnType(function *descriptors.Function) target.Type {
	if function.IsConstructor() || function.ReturnType == nil {
		return target.VoidType
	}
	returnType := function.ReturnType
	class := returnType.Class()
	if class == descriptors.UnitClass && !returnType.Nullable {
		if forceBoxedReturnType(function) {
			return m.MapType(returnType)
		}
		return target.VoidType
	}
	if class == descriptors.NothingClass && !returnType.Nullable {
		return target.VoidType
	}
	return m.MapType(returnType)
}

func forceBoxedReturnType(function *descriptors.Function) bool {
	for _, overridden := range function.Overridden {
		returnType := overridden.GetOriginal().ReturnType
		if returnType == nil || returnType.Class() != descriptors.UnitClass {
			return true
		}
		if forceBoxedReturnType(overridden) {
			return true
		}
	}
	return false
}

func (m *TypeMapper) MapSignature(function *descriptors.Function, kind OwnerKind) target.MethodSignature {
	var parameters []target.ParameterSignature

	addParameter := func(parameterKind target.ParameterKind, typ target.Type) {
		parameters = append(parameters, target.ParameterSignature{
			Kind: parameterKind,
			Type: typ,
		})
	}

	switch {
	case IsStaticAccessor(function):
		if function.DispatchReceiver != nil {
			addParameter(target.ParameterKindThis, m.MapType(function.DispatchReceiver))
		}

	case kind == OwnerKindDefaultImpls && descriptors.IsInterface(function.Owner):
		addParameter(target.ParameterKindThis, m.MapClass(function.Owner.(*descriptors.Class)))

	case function.IsConstructor():
		class := function.Owner.(*descriptors.Class)
		if class.Kind == descriptors.ClassKindEnumClass {
			addParameter(target.ParameterKindEnumNameOrOrdinal, target.StringType)
			addParameter(target.ParameterKindEnumNameOrOrdinal, target.IntType)
		}
		if class.IsInner {
			outer := descriptors.ContainingClass(class)
			if outer != nil {
				addParameter(target.ParameterKindOuterThis, m.MapClass(outer))
			}
		}
	}

	if receiver := function.ExtensionReceiver; receiver != nil {
		addParameter(target.ParameterKindReceiver, m.MapType(receiver.Type))
	}

	for _, parameter := range function.ValueParameters {
		addParameter(target.ParameterKindValue, m.MapType(parameter.Type))
	}

	if function.IsConstructor() && function.AccessorFor != nil {
		addParameter(target.ParameterKindConstructorMarker, target.ConstructorMarkerType)
	}

	argumentTypes := make([]target.Type, 0, len(parameters))
	for _, parameter := range parameters {
		argumentTypes = append(argumentTypes, parameter.Type)
	}

	return target.MethodSignature{
		Method: target.Method{
			Name:          FunctionName(function),
			ArgumentTypes: argumentTypes,
			ReturnType:    m.MapReturnType(function),
		},
		Parameters:        parameters,
		GenericsSignature: m.genericSignature(function, parameters),
	}
}

// MapDefaultMethod returns the shape of the default overload:
// the method's parameters, preceded by the receiver unless static or a constructor,
// followed by one int mask per 32 value parameters and a marker parameter.
func (m *TypeMapper) MapDefaultMethod(function *descriptors.Function, kind OwnerKind) target.Method {
	signature := m.MapSignature(function, kind)
	method := signature.Method

	var argumentTypes []target.Type
	if !IsStaticMethod(kind, function) && !function.IsConstructor() {
		argumentTypes = append(argumentTypes, m.MapOwner(function.Owner))
	}
	argumentTypes = append(argumentTypes, method.ArgumentTypes...)

	for i := 0; i < MaskCount(len(function.ValueParameters)); i++ {
		argumentTypes = append(argumentTypes, target.IntType)
	}

	name := method.Name
	if function.IsConstructor() {
		argumentTypes = append(argumentTypes, target.ConstructorMarkerType)
	} else {
		name += DefaultMethodSuffix
		argumentTypes = append(argumentTypes, target.ObjectType)
	}

	return target.Method{
		Name:          name,
		ArgumentTypes: argumentTypes,
		ReturnType:    method.ReturnType,
	}
}

// MaskCount is the number of 32-bit mask parameters for the given number of value parameters.
func MaskCount(valueParameterCount int) int {
	return (valueParameterCount + 31) / 32
}

func (m *TypeMapper) MapToCallableMethod(function *descriptors.Function, superCall bool) CallableMethod {
	function = function.GetOriginal()

	owner := function.Owner
	ownerType := m.MapOwner(owner)

	inter := descriptors.IsInterface(owner)

	if superCall && inter && function.Modality != descriptors.ModalityAbstract {
		return CallableMethod{
			Owner:        m.DefaultImplsType(owner.(*descriptors.Class)).InternalName(),
			Signature:    m.MapSignature(function, OwnerKindDefaultImpls),
			InvokeOpcode: opcode.InvokeStatic,
		}
	}

	kind := ContextKindOf(function)
	signature := m.MapSignature(function, kind)

	var invokeOpcode opcode.Opcode
	switch {
	case IsStaticMethod(kind, function):
		invokeOpcode = opcode.InvokeStatic
	case function.IsConstructor(),
		superCall,
		function.Visibility.IsPrivate():
		invokeOpcode = opcode.InvokeSpecial
	case inter:
		invokeOpcode = opcode.InvokeInterface
	default:
		invokeOpcode = opcode.InvokeVirtual
	}

	var dispatchReceiverType target.Type
	if invokeOpcode != opcode.InvokeStatic {
		dispatchReceiverType = ownerType
	}

	return CallableMethod{
		Owner:                ownerType.InternalName(),
		Signature:            signature,
		InvokeOpcode:         invokeOpcode,
		DispatchReceiverType: dispatchReceiverType,
	}
}

// FieldOwner returns the class holding the backing field of a property, and whether the field is static.
// Backing fields of companion object properties live in the outer class.
func (m *TypeMapper) FieldOwner(property *descriptors.Property) (target.Type, bool) {
	switch owner := property.Owner.(type) {
	case *descriptors.Class:
		if owner.IsCompanion {
			if outer, ok := owner.Parent.(*descriptors.Class); ok && !descriptors.IsInterface(outer) {
				return m.MapClass(outer), true
			}
		}
		return m.MapClass(owner), owner.Kind.IsSingleton()
	default:
		return m.MapOwner(owner), true
	}
}
