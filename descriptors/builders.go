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

package descriptors

func NewPackage(fqName string) *PackageFragment {
	return &PackageFragment{FqName: fqName}
}

func NewClass(parent Declaration, name string, kind ClassKind) *Class {
	modality := ModalityFinal
	if kind == ClassKindInterface {
		modality = ModalityAbstract
	}
	return &Class{
		Identifier: name,
		Parent:     parent,
		Kind:       kind,
		Modality:   modality,
	}
}

// NewCompanionObject creates the companion object of the class and links it.
func NewCompanionObject(class *Class) *Class {
	companion := NewClass(class, "Companion", ClassKindObject)
	companion.IsCompanion = true
	class.Companion = companion
	return companion
}

func NewParameter(name string, typ *Type) *ValueParameter {
	return &ValueParameter{
		Identifier: name,
		Type:       typ,
	}
}

func NewParameterWithDefault(name string, typ *Type) *ValueParameter {
	parameter := NewParameter(name, typ)
	parameter.DeclaresDefault = true
	return parameter
}

func dispatchReceiverFor(owner Declaration) *Type {
	class, ok := owner.(*Class)
	if !ok {
		return nil
	}
	return class.DefaultType()
}

// NewFunction creates a public final function declared in the given owner.
// Functions declared in classes get the class as dispatch receiver.
func NewFunction(owner Declaration, name string, returnType *Type, parameters ...*ValueParameter) *Function {
	function := &Function{
		Member: Member{
			Identifier:       name,
			Owner:            owner,
			DispatchReceiver: dispatchReceiverFor(owner),
		},
		ReturnType: returnType,
	}
	if IsInterface(owner) {
		function.Modality = ModalityAbstract
	}
	function.SetValueParameters(parameters...)
	return function
}

func NewConstructor(class *Class, parameters ...*ValueParameter) *Function {
	constructor := &Function{
		Member: Member{
			Identifier: ConstructorName,
			Owner:      class,
		},
		FunctionKind: FunctionKindConstructor,
		ReturnType:   class.DefaultType(),
	}
	constructor.SetValueParameters(parameters...)
	return constructor
}

// SetValueParameters replaces the value parameters, re-indexing them.
func (f *Function) SetValueParameters(parameters ...*ValueParameter) {
	for index, parameter := range parameters {
		parameter.Owner = f
		parameter.Index = index
	}
	f.ValueParameters = parameters
}

// NewProperty creates a public final property with default accessors.
func NewProperty(owner Declaration, name string, typ *Type, isVar bool) *Property {
	property := &Property{
		Member: Member{
			Identifier:       name,
			Owner:            owner,
			DispatchReceiver: dispatchReceiverFor(owner),
		},
		Type:            typ,
		IsVar:           isVar,
		HasBackingField: true,
	}

	property.Getter = &Function{
		Member: Member{
			Identifier:       "<get-" + name + ">",
			Owner:            owner,
			DispatchReceiver: property.DispatchReceiver,
		},
		FunctionKind: FunctionKindGetter,
		ReturnType:   typ,
		Property:     property,
	}

	if isVar {
		setter := &Function{
			Member: Member{
				Identifier:       "<set-" + name + ">",
				Owner:            owner,
				DispatchReceiver: property.DispatchReceiver,
			},
			FunctionKind: FunctionKindSetter,
			ReturnType:   UnitType(),
			Property:     property,
		}
		setter.SetValueParameters(NewParameter("value", typ))
		property.Setter = setter
	}

	return property
}

// SetVisibility sets the visibility of the property and its accessors.
func (p *Property) SetVisibility(visibility Visibility) {
	p.Visibility = visibility
	if p.Getter != nil {
		p.Getter.Visibility = visibility
	}
	if p.Setter != nil {
		p.Setter.Visibility = visibility
	}
}

// NewFakeOverride creates the fake override of the given functions in a subclass.
func NewFakeOverride(owner *Class, overridden ...*Function) *Function {
	first := overridden[0]
	parameters := make([]*ValueParameter, 0, len(first.ValueParameters))
	for _, parameter := range first.ValueParameters {
		copied := *parameter
		parameters = append(parameters, &copied)
	}
	modality := first.Modality
	for _, function := range overridden {
		if function.Modality != ModalityAbstract && !IsInterface(function.Owner) {
			modality = function.Modality
		}
	}
	fake := NewFunction(owner, first.Identifier, first.ReturnType, parameters...)
	fake.Kind = CallableKindFakeOverride
	fake.Modality = modality
	fake.Visibility = first.Visibility
	fake.Overridden = overridden
	fake.PlatformName = first.PlatformName
	return fake
}
