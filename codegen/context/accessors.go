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
	"strconv"
	"unicode/utf16"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
)

// AccessorKey identifies a synthetic accessor in a context.
type AccessorKey struct {
	Member          descriptors.CallableMember
	SuperCallTarget *descriptors.Class
}

//go:generate go run golang.org/x/tools/cmd/stringer -type=FieldAccessorKind -trimprefix=FieldAccessor

// FieldAccessorKind tells how a property is accessed by its accessor.
type FieldAccessorKind uint8

const (
	// FieldAccessorNormal accessors go through the property accessors
	FieldAccessorNormal FieldAccessorKind = iota
	// FieldAccessorInClassCompanion accessors read the backing field of a companion property, stored in the outer class
	FieldAccessorInClassCompanion
	// FieldAccessorFromLocal accessors read the backing field from a local declaration
	FieldAccessorFromLocal
)

func (k FieldAccessorKind) suffix() string {
	switch k {
	case FieldAccessorNormal:
		return ""
	case FieldAccessorInClassCompanion:
		return "$cp"
	case FieldAccessorFromLocal:
		return "$lp"
	default:
		panic(errors.NewUnreachableError())
	}
}

const accessorPrefix = "access$"

// SyntheticAccessor is a generated member forwarding to a member the accessing code cannot see.
// The implementations are FunctionAccessor, ConstructorAccessor, PropertyAccessor and FieldAccessor.
type SyntheticAccessor interface {
	isSyntheticAccessor()
	AccessorDescriptor() descriptors.CallableMember
	CalleeDescriptor() descriptors.CallableMember
	SuperCallTarget() *descriptors.Class
}

// FunctionAccessor

type FunctionAccessor struct {
	Function *descriptors.Function
	Callee   *descriptors.Function
	Super    *descriptors.Class
}

var _ SyntheticAccessor = &FunctionAccessor{}

func (*FunctionAccessor) isSyntheticAccessor() {}

func (a *FunctionAccessor) AccessorDescriptor() descriptors.CallableMember {
	return a.Function
}

func (a *FunctionAccessor) CalleeDescriptor() descriptors.CallableMember {
	return a.Callee
}

func (a *FunctionAccessor) SuperCallTarget() *descriptors.Class {
	return a.Super
}

// ConstructorAccessor is a constructor taking an extra marker parameter.
type ConstructorAccessor struct {
	Constructor *descriptors.Function
	Callee      *descriptors.Function
	Super       *descriptors.Class
}

var _ SyntheticAccessor = &ConstructorAccessor{}

func (*ConstructorAccessor) isSyntheticAccessor() {}

func (a *ConstructorAccessor) AccessorDescriptor() descriptors.CallableMember {
	return a.Constructor
}

func (a *ConstructorAccessor) CalleeDescriptor() descriptors.CallableMember {
	return a.Callee
}

func (a *ConstructorAccessor) SuperCallTarget() *descriptors.Class {
	return a.Super
}

// PropertyAccessor exposes a property through a synthetic getter, setter, or both.
// Capabilities are added in place: the accessor property is the same instance for all requests.
type PropertyAccessor struct {
	Property *descriptors.Property
	Callee   *descriptors.Property
	Super    *descriptors.Class

	syntheticGetter bool
	syntheticSetter bool
	baseName        string
}

var _ SyntheticAccessor = &PropertyAccessor{}

func (*PropertyAccessor) isSyntheticAccessor() {}

func (a *PropertyAccessor) AccessorDescriptor() descriptors.CallableMember {
	return a.Property
}

func (a *PropertyAccessor) CalleeDescriptor() descriptors.CallableMember {
	return a.Callee
}

func (a *PropertyAccessor) SuperCallTarget() *descriptors.Class {
	return a.Super
}

func (a *PropertyAccessor) HasSyntheticGetter() bool {
	return a.syntheticGetter
}

func (a *PropertyAccessor) HasSyntheticSetter() bool {
	return a.syntheticSetter
}

// require adds the requested capabilities and returns the accessor property.
func (a *PropertyAccessor) require(getterRequired, setterRequired bool) *descriptors.Property {
	if getterRequired && !a.syntheticGetter {
		a.Property.Getter = newAccessorGetter(a.Property, a.Callee, mapping.GetterName(a.baseName))
		a.syntheticGetter = true
	}
	if setterRequired && a.Callee.IsVar && !a.syntheticSetter {
		a.Property.Setter = newAccessorSetter(a.Property, a.Callee, mapping.SetterName(a.baseName))
		a.syntheticSetter = true
	}
	return a.Property
}

// FieldAccessor reads and writes the backing field of a property directly.
type FieldAccessor struct {
	Property *descriptors.Property
	Callee   *descriptors.Property
	Kind     FieldAccessorKind
}

var _ SyntheticAccessor = &FieldAccessor{}

func (*FieldAccessor) isSyntheticAccessor() {}

func (a *FieldAccessor) AccessorDescriptor() descriptors.CallableMember {
	return a.Property
}

func (a *FieldAccessor) CalleeDescriptor() descriptors.CallableMember {
	return a.Callee
}

func (a *FieldAccessor) SuperCallTarget() *descriptors.Class {
	return nil
}

// javaStringHash is the 32-bit polynomial hash of the UTF-16 code units of a string.
func javaStringHash(s string) int32 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = 31*hash + int32(unit)
	}
	return hash
}

func superCallSuffix(superCallTarget *descriptors.Class) string {
	if superCallTarget == nil {
		return ""
	}
	return "$s" + strconv.FormatInt(int64(javaStringHash(superCallTarget.Identifier)), 10)
}

// AccessorName returns the name of the accessor of a function, e.g. `access$foo`.
func AccessorName(function *descriptors.Function, superCallTarget *descriptors.Class) string {
	return accessorPrefix + mapping.FunctionName(function) + superCallSuffix(superCallTarget)
}

// PropertyAccessorNames returns the names of the getter and setter accessors of a property,
// e.g. `access$getFoo` and `access$setFoo`.
func PropertyAccessorNames(
	property *descriptors.Property,
	kind FieldAccessorKind,
	superCallTarget *descriptors.Class,
) (getter string, setter string) {
	base := propertyAccessorBaseName(property, kind, superCallTarget)
	return mapping.GetterName(base), mapping.SetterName(base)
}

// propertyAccessorBaseName returns the name whose getter and setter names are the accessor names.
func propertyAccessorBaseName(
	property *descriptors.Property,
	kind FieldAccessorKind,
	superCallTarget *descriptors.Class,
) string {
	// getter names are built from the property name, the prefix is added after
	return property.Identifier + kind.suffix() + superCallSuffix(superCallTarget)
}

func (c *Context) accessorReceiver(member *descriptors.Member, superCallTarget *descriptors.Class) *descriptors.Type {
	if member.DispatchReceiver == nil {
		return nil
	}
	if superCallTarget != nil && c.thisDescriptor != nil {
		return c.thisDescriptor.DefaultType()
	}
	return member.DispatchReceiver
}

func copyParameters(parameters []*descriptors.ValueParameter) []*descriptors.ValueParameter {
	result := make([]*descriptors.ValueParameter, 0, len(parameters))
	for _, parameter := range parameters {
		copied := *parameter
		copied.DeclaresDefault = false
		result = append(result, &copied)
	}
	return result
}

func (c *Context) newFunctionAccessor(callee *descriptors.Function, superCallTarget *descriptors.Class) *FunctionAccessor {
	accessor := &descriptors.Function{
		Member: descriptors.Member{
			Identifier:        AccessorName(callee, superCallTarget),
			Owner:             c.Descriptor,
			Visibility:        descriptors.VisibilityPublic,
			Modality:          descriptors.ModalityFinal,
			Kind:              descriptors.CallableKindSynthesized,
			DispatchReceiver:  c.accessorReceiver(&callee.Member, superCallTarget),
			ExtensionReceiver: callee.ExtensionReceiver,
		},
		FunctionKind:   descriptors.FunctionKindSimple,
		TypeParameters: callee.TypeParameters,
		ReturnType:     callee.ReturnType,
		Throws:         callee.Throws,
		AccessorFor:    callee,
	}
	accessor.SetValueParameters(copyParameters(callee.ValueParameters)...)

	return &FunctionAccessor{
		Function: accessor,
		Callee:   callee,
		Super:    superCallTarget,
	}
}

func (c *Context) newConstructorAccessor(callee *descriptors.Function, superCallTarget *descriptors.Class) *ConstructorAccessor {
	accessor := &descriptors.Function{
		Member: descriptors.Member{
			Identifier: descriptors.ConstructorName,
			Owner:      callee.Owner,
			Visibility: descriptors.VisibilityPublic,
			Modality:   descriptors.ModalityFinal,
			Kind:       descriptors.CallableKindSynthesized,
		},
		FunctionKind: descriptors.FunctionKindConstructor,
		ReturnType:   callee.ReturnType,
		Throws:       callee.Throws,
		AccessorFor:  callee,
	}
	accessor.SetValueParameters(copyParameters(callee.ValueParameters)...)

	return &ConstructorAccessor{
		Constructor: accessor,
		Callee:      callee,
		Super:       superCallTarget,
	}
}

func (c *Context) newAccessorProperty(
	callee *descriptors.Property,
	name string,
	superCallTarget *descriptors.Class,
) *descriptors.Property {
	return &descriptors.Property{
		Member: descriptors.Member{
			Identifier:        accessorPrefix + name,
			Owner:             c.Descriptor,
			Visibility:        descriptors.VisibilityPublic,
			Modality:          descriptors.ModalityFinal,
			Kind:              descriptors.CallableKindSynthesized,
			DispatchReceiver:  c.accessorReceiver(&callee.Member, superCallTarget),
			ExtensionReceiver: callee.ExtensionReceiver,
		},
		Type:        callee.Type,
		IsVar:       callee.IsVar,
		Getter:      callee.Getter,
		Setter:      callee.Setter,
		AccessorFor: callee,
	}
}

func newAccessorGetter(property *descriptors.Property, callee *descriptors.Property, name string) *descriptors.Function {
	return &descriptors.Function{
		Member: descriptors.Member{
			Identifier:        accessorPrefix + name,
			Owner:             property.Owner,
			Visibility:        descriptors.VisibilityPublic,
			Modality:          descriptors.ModalityFinal,
			Kind:              descriptors.CallableKindSynthesized,
			DispatchReceiver:  property.DispatchReceiver,
			ExtensionReceiver: property.ExtensionReceiver,
		},
		FunctionKind: descriptors.FunctionKindGetter,
		ReturnType:   property.Type,
		Property:     property,
		AccessorFor:  callee,
	}
}

func newAccessorSetter(property *descriptors.Property, callee *descriptors.Property, name string) *descriptors.Function {
	setter := &descriptors.Function{
		Member: descriptors.Member{
			Identifier:        accessorPrefix + name,
			Owner:             property.Owner,
			Visibility:        descriptors.VisibilityPublic,
			Modality:          descriptors.ModalityFinal,
			Kind:              descriptors.CallableKindSynthesized,
			DispatchReceiver:  property.DispatchReceiver,
			ExtensionReceiver: property.ExtensionReceiver,
		},
		FunctionKind: descriptors.FunctionKindSetter,
		ReturnType:   descriptors.UnitType(),
		Property:     property,
		AccessorFor:  callee,
	}
	setter.SetValueParameters(descriptors.NewParameter("value", property.Type))
	return setter
}

func (c *Context) newPropertyAccessor(callee *descriptors.Property, superCallTarget *descriptors.Class) *PropertyAccessor {
	baseName := propertyAccessorBaseName(callee, FieldAccessorNormal, superCallTarget)
	return &PropertyAccessor{
		Property: c.newAccessorProperty(callee, baseName, superCallTarget),
		Callee:   callee,
		Super:    superCallTarget,
		baseName: baseName,
	}
}

func (c *Context) newFieldAccessor(callee *descriptors.Property, kind FieldAccessorKind) *FieldAccessor {
	baseName := propertyAccessorBaseName(callee, kind, nil)
	property := c.newAccessorProperty(callee, baseName, nil)
	property.Getter = newAccessorGetter(property, callee, mapping.GetterName(baseName))
	if callee.IsVar {
		property.Setter = newAccessorSetter(property, callee, mapping.SetterName(baseName))
	} else {
		property.Setter = nil
	}
	return &FieldAccessor{
		Property: property,
		Callee:   callee,
		Kind:     kind,
	}
}

// GetAccessor returns the accessor of a member in this context, creating it on first request.
// Property accessors are requested with both a synthetic getter and setter.
func (c *Context) GetAccessor(member descriptors.CallableMember, superCallTarget *descriptors.Class) descriptors.CallableMember {
	return c.getAccessor(member, FieldAccessorNormal, superCallTarget, true, true)
}

// GetFieldAccessor returns the accessor reading and writing the backing field of a property.
func (c *Context) GetFieldAccessor(property *descriptors.Property, kind FieldAccessorKind) *descriptors.Property {
	if kind == FieldAccessorNormal {
		panic(errors.NewUnexpectedError("field accessors need a backing field kind"))
	}
	return c.getAccessor(property, kind, nil, true, true).(*descriptors.Property)
}

// GetOrCreateAccessor returns the accessor of a member in this context.
// Two requests for the same member and super call target return the same accessor.
// For properties, the capabilities of an existing accessor are upgraded
// to include the requested getter and setter.
func (c *Context) GetOrCreateAccessor(
	member descriptors.CallableMember,
	superCallTarget *descriptors.Class,
	getterRequired bool,
	setterRequired bool,
) descriptors.CallableMember {
	return c.getAccessor(member, FieldAccessorNormal, superCallTarget, getterRequired, setterRequired)
}

func (c *Context) getAccessor(
	member descriptors.CallableMember,
	kind FieldAccessorKind,
	superCallTarget *descriptors.Class,
	getterRequired bool,
	setterRequired bool,
) descriptors.CallableMember {

	member = descriptors.Original(member)
	key := AccessorKey{
		Member:          member,
		SuperCallTarget: superCallTarget,
	}

	// the property accessor factory must be checked first
	if factory, ok := c.propertyAccessorFactories.Get(key); ok {
		return factory.require(getterRequired, setterRequired)
	}

	if accessor, ok := c.accessors.Get(key); ok {
		if kind != FieldAccessorNormal {
			if _, ok := accessor.(*FieldAccessor); !ok {
				panic(errors.NewUnexpectedError(
					"there already exists an accessor not for a backing field in this context: %s",
					member,
				))
			}
		}
		return accessor.AccessorDescriptor()
	}

	var accessor SyntheticAccessor

	switch member := member.(type) {
	case *descriptors.Function:
		if member.IsConstructor() {
			accessor = c.newConstructorAccessor(member, superCallTarget)
		} else {
			accessor = c.newFunctionAccessor(member, superCallTarget)
		}

	case *descriptors.Property:
		switch kind {
		case FieldAccessorNormal:
			factory := c.newPropertyAccessor(member, superCallTarget)
			c.propertyAccessorFactories.Set(key, factory)
			// the factory is also the accessor of the key
			c.accessors.Set(key, factory)
			return factory.require(getterRequired, setterRequired)

		case FieldAccessorInClassCompanion, FieldAccessorFromLocal:
			accessor = c.newFieldAccessor(member, kind)

		default:
			panic(errors.NewUnreachableError())
		}

	default:
		panic(errors.NewUnexpectedError("do not know how to create accessor for %s", member))
	}

	c.accessors.Set(key, accessor)

	return accessor.AccessorDescriptor()
}

// Accessors returns the accessors created in this context, in creation order.
func (c *Context) Accessors() []SyntheticAccessor {
	return c.accessors.Values()
}

// ForeachAccessor calls f for the accessors created so far, in creation order,
// and stops at the first error.
func (c *Context) ForeachAccessor(f func(accessor SyntheticAccessor) error) error {
	return c.accessors.ForeachWithError(func(_ AccessorKey, accessor SyntheticAccessor) error {
		return f(accessor)
	})
}
