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

var LangPackage = &PackageFragment{FqName: "lang"}
var CollectionsPackage = &PackageFragment{FqName: "lang.collections"}
var InternalPackage = &PackageFragment{FqName: "lang.internal"}

func newBuiltinClass(name string, parent *PackageFragment, kind ClassKind, modality Modality) *Class {
	return &Class{
		Identifier: name,
		Parent:     parent,
		Kind:       kind,
		Modality:   modality,
	}
}

// AnyClass is the root of the class hierarchy
var AnyClass = newBuiltinClass("Any", LangPackage, ClassKindClass, ModalityOpen)

var (
	NothingClass = newBuiltinClass("Nothing", LangPackage, ClassKindClass, ModalityFinal)
	UnitClass    = newBuiltinClass("Unit", LangPackage, ClassKindObject, ModalityFinal)
	BooleanClass = newBuiltinClass("Boolean", LangPackage, ClassKindClass, ModalityFinal)
	CharClass    = newBuiltinClass("Char", LangPackage, ClassKindClass, ModalityFinal)
	ByteClass    = newBuiltinClass("Byte", LangPackage, ClassKindClass, ModalityFinal)
	ShortClass   = newBuiltinClass("Short", LangPackage, ClassKindClass, ModalityFinal)
	IntClass     = newBuiltinClass("Int", LangPackage, ClassKindClass, ModalityFinal)
	LongClass    = newBuiltinClass("Long", LangPackage, ClassKindClass, ModalityFinal)
	FloatClass   = newBuiltinClass("Float", LangPackage, ClassKindClass, ModalityFinal)
	DoubleClass  = newBuiltinClass("Double", LangPackage, ClassKindClass, ModalityFinal)
	StringClass  = newBuiltinClass("String", LangPackage, ClassKindClass, ModalityFinal)
	NumberClass  = newBuiltinClass("Number", LangPackage, ClassKindClass, ModalityAbstract)
	ArrayClass   = newBuiltinClass("Array", LangPackage, ClassKindClass, ModalityFinal)

	CollectionClass        = newBuiltinClass("Collection", CollectionsPackage, ClassKindInterface, ModalityAbstract)
	ListClass              = newBuiltinClass("List", CollectionsPackage, ClassKindInterface, ModalityAbstract)
	MutableCollectionClass = newBuiltinClass("MutableCollection", CollectionsPackage, ClassKindInterface, ModalityAbstract)
	MutableListClass       = newBuiltinClass("MutableList", CollectionsPackage, ClassKindInterface, ModalityAbstract)

	// ConstructorMarkerClass is the type of the trailing marker parameter
	// of default overloads and constructor accessors.
	ConstructorMarkerClass = newBuiltinClass("DefaultConstructorMarker", InternalPackage, ClassKindClass, ModalityFinal)
)

var primitiveClasses = map[*Class]struct{}{
	BooleanClass: {},
	CharClass:    {},
	ByteClass:    {},
	ShortClass:   {},
	IntClass:     {},
	LongClass:    {},
	FloatClass:   {},
	DoubleClass:  {},
}

func init() {
	for _, class := range []*Class{
		NothingClass, UnitClass, BooleanClass, CharClass, ByteClass, ShortClass,
		IntClass, LongClass, FloatClass, DoubleClass, StringClass, NumberClass, ArrayClass,
	} {
		class.SuperClass = AnyClass
	}

	for _, class := range []*Class{ByteClass, ShortClass, IntClass, LongClass, FloatClass, DoubleClass} {
		class.SuperClass = NumberClass
	}

	ArrayClass.TypeParameters = []*TypeParameter{newTypeParameter(ArrayClass, "T", 0, false)}

	CollectionClass.TypeParameters = []*TypeParameter{newTypeParameter(CollectionClass, "E", 0, false)}
	ListClass.TypeParameters = []*TypeParameter{newTypeParameter(ListClass, "E", 0, false)}
	ListClass.Interfaces = []*Class{CollectionClass}
	MutableCollectionClass.TypeParameters = []*TypeParameter{newTypeParameter(MutableCollectionClass, "E", 0, false)}
	MutableCollectionClass.Interfaces = []*Class{CollectionClass}
	MutableListClass.TypeParameters = []*TypeParameter{newTypeParameter(MutableListClass, "E", 0, false)}
	MutableListClass.Interfaces = []*Class{ListClass, MutableCollectionClass}
}

func newTypeParameter(owner Declaration, name string, index int, reified bool) *TypeParameter {
	return &TypeParameter{
		Identifier:  name,
		Parent:      owner,
		Index:       index,
		UpperBounds: []*Type{NullableAnyType()},
		Reified:     reified,
	}
}

// IsPrimitiveClass is true for the builtin classes that map to primitive target types.
func IsPrimitiveClass(class *Class) bool {
	_, ok := primitiveClasses[class]
	return ok
}

func AnyType() *Type {
	return NewType(AnyClass)
}

func NullableAnyType() *Type {
	return NewType(AnyClass).MakeNullable()
}

func UnitType() *Type {
	return NewType(UnitClass)
}

func IntType() *Type {
	return NewType(IntClass)
}

func LongType() *Type {
	return NewType(LongClass)
}

func DoubleType() *Type {
	return NewType(DoubleClass)
}

func BooleanType() *Type {
	return NewType(BooleanClass)
}

func StringType() *Type {
	return NewType(StringClass)
}

func ArrayType(element *Type) *Type {
	return NewType(ArrayClass, element)
}
