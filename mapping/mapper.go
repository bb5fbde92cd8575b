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
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/opcode"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=OwnerKind -trimprefix=OwnerKind

// OwnerKind is the ABI variant of the class a member is generated into.
type OwnerKind uint8

const (
	// OwnerKindPackage is the class holding top-level declarations of a package part.
	OwnerKindPackage OwnerKind = iota
	// OwnerKindImplementation is the class itself.
	OwnerKindImplementation
	// OwnerKindDefaultImpls is the class holding the bodies of interface members,
	// as static methods taking the interface instance as first parameter.
	OwnerKindDefaultImpls
)

// DefaultImplsSuffix is appended to the name of an interface to get the name of its DefaultImpls class.
const DefaultImplsSuffix = "$DefaultImpls"

// DefaultMethodSuffix is appended to the name of a function to get the name of its default overload.
const DefaultMethodSuffix = "$default"

// SignatureMapper maps declarations to their target shapes.
// Implementations must be deterministic and total for resolved declarations.
type SignatureMapper interface {
	MapSignature(function *descriptors.Function, kind OwnerKind) target.MethodSignature
	MapDefaultMethod(function *descriptors.Function, kind OwnerKind) target.Method
	MapClass(class *descriptors.Class) target.Type
	MapType(typ *descriptors.Type) target.Type
	// MapOwner returns the class containing the code of members of the given container:
	// the class itself, or the facade class of a package.
	MapOwner(container descriptors.Declaration) target.Type
	MapToCallableMethod(function *descriptors.Function, superCall bool) CallableMethod
	// FieldOwner returns the class holding the backing field of a property, and whether the field is static
	FieldOwner(property *descriptors.Property) (target.Type, bool)
}

// CallableMethod describes how to invoke a function.
type CallableMethod struct {
	Owner        string
	Signature    target.MethodSignature
	InvokeOpcode opcode.Opcode
	// DispatchReceiverType is the zero type for static methods
	DispatchReceiverType target.Type
}

func (m CallableMethod) Method() target.Method {
	return m.Signature.Method
}

func (m CallableMethod) IsStatic() bool {
	return m.InvokeOpcode == opcode.InvokeStatic
}

// Instruction returns the invocation instruction.
func (m CallableMethod) Instruction() opcode.InstructionInvoke {
	return opcode.InstructionInvoke{
		Kind:   m.InvokeOpcode,
		Owner:  m.Owner,
		Method: m.Signature.Method,
	}
}

// IsStaticMethod reports whether the function is generated as a static method into a class of the given kind.
func IsStaticMethod(kind OwnerKind, function *descriptors.Function) bool {
	if function.IsConstructor() {
		return false
	}
	return kind == OwnerKindPackage ||
		kind == OwnerKindDefaultImpls ||
		function.IsStatic() ||
		IsStaticAccessor(function)
}

// IsStaticAccessor is true for synthetic accessors of members other than constructors.
func IsStaticAccessor(function *descriptors.Function) bool {
	return function.AccessorFor != nil && !function.IsConstructor()
}

// ContextKindOf returns the owner kind of the class that declares the function.
func ContextKindOf(function *descriptors.Function) OwnerKind {
	if _, ok := function.Owner.(*descriptors.PackageFragment); ok {
		return OwnerKindPackage
	}
	return OwnerKindImplementation
}
