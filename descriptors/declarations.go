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

import (
	"fmt"
	"strings"
)

// Declaration is a resolved program entity handed to the backend by the front end.
// Declarations are immutable once resolved and are referenced, never owned, by the backend.
type Declaration interface {
	fmt.Stringer
	Name() string
	Container() Declaration
	isDeclaration()
}

// Classifier is a declaration that can be the head of a type
type Classifier interface {
	Declaration
	isClassifier()
}

// CallableMember is a function, constructor or property.
// The set of implementations is closed.
type CallableMember interface {
	Declaration
	Common() *Member
	isCallableMember()
}

// PackageFragment

type PackageFragment struct {
	FqName string
}

var _ Declaration = &PackageFragment{}

func (p *PackageFragment) Name() string {
	index := strings.LastIndexByte(p.FqName, '.')
	return p.FqName[index+1:]
}

func (*PackageFragment) Container() Declaration {
	return nil
}

func (*PackageFragment) isDeclaration() {}

func (p *PackageFragment) String() string {
	return "package " + p.FqName
}

// Class

type Class struct {
	Identifier     string
	Parent         Declaration
	Kind           ClassKind
	Visibility     Visibility
	Modality       Modality
	IsCompanion    bool
	IsInner        bool
	SuperClass     *Class
	Interfaces     []*Class
	Companion      *Class
	TypeParameters []*TypeParameter
	Annotations    Annotations
}

var _ Classifier = &Class{}

func (c *Class) Name() string {
	return c.Identifier
}

func (c *Class) Container() Declaration {
	return c.Parent
}

func (*Class) isDeclaration() {}

func (*Class) isClassifier() {}

func (c *Class) String() string {
	return c.Kind.String() + " " + FqName(c)
}

// IsAnonymous is true for object literals.
func (c *Class) IsAnonymous() bool {
	return c.Identifier == ""
}

// DefaultType returns the type of the class with its own type parameters as arguments.
func (c *Class) DefaultType() *Type {
	arguments := make([]*Type, 0, len(c.TypeParameters))
	for _, typeParameter := range c.TypeParameters {
		arguments = append(arguments, NewType(typeParameter))
	}
	return NewType(c, arguments...)
}

// TypeParameter

type TypeParameter struct {
	Identifier  string
	Parent      Declaration
	Index       int
	UpperBounds []*Type
	Reified     bool
}

var _ Classifier = &TypeParameter{}

func (p *TypeParameter) Name() string {
	return p.Identifier
}

func (p *TypeParameter) Container() Declaration {
	return p.Parent
}

func (*TypeParameter) isDeclaration() {}

func (*TypeParameter) isClassifier() {}

func (p *TypeParameter) String() string {
	return "type parameter " + p.Identifier
}

// Member holds the attributes shared by all callable members.
type Member struct {
	Identifier  string
	Owner       Declaration
	Visibility  Visibility
	Modality    Modality
	Kind        CallableKind
	Annotations Annotations

	// DispatchReceiver is nil for static and top-level members.
	DispatchReceiver *Type
	// ExtensionReceiver is nil unless the member is an extension.
	ExtensionReceiver *ReceiverParameter
}

func (m *Member) Name() string {
	return m.Identifier
}

func (m *Member) Container() Declaration {
	return m.Owner
}

func (m *Member) Common() *Member {
	return m
}

func (*Member) isDeclaration() {}

func (*Member) isCallableMember() {}

//go:generate go run golang.org/x/tools/cmd/stringer -type=FunctionKind -trimprefix=FunctionKind

type FunctionKind uint8

const (
	FunctionKindSimple FunctionKind = iota
	FunctionKindConstructor
	FunctionKindGetter
	FunctionKindSetter
	// FunctionKindLiteral is a lambda or anonymous function expression.
	FunctionKindLiteral
)

const ConstructorName = "<init>"

// Function describes a function, constructor or property accessor.
type Function struct {
	Member
	FunctionKind    FunctionKind
	TypeParameters  []*TypeParameter
	ValueParameters []*ValueParameter
	ReturnType      *Type
	Overridden      []*Function
	// Original is the unsubstituted declaration, nil if this is the original.
	Original *Function
	// Property is set for getters and setters.
	Property *Property
	External bool
	Throws   []*Class
	// PlatformName overrides the target method name.
	PlatformName string
	IsPrimary    bool
	// AccessorFor is set when the function is a synthetic accessor of another member.
	AccessorFor CallableMember
}

var _ CallableMember = &Function{}

func (f *Function) String() string {
	var builder strings.Builder
	switch f.FunctionKind {
	case FunctionKindConstructor:
		builder.WriteString("constructor ")
	case FunctionKindGetter:
		builder.WriteString("getter ")
	case FunctionKindSetter:
		builder.WriteString("setter ")
	default:
		builder.WriteString("fun ")
	}
	if f.Owner != nil {
		builder.WriteString(FqName(f.Owner))
		builder.WriteByte('.')
	}
	builder.WriteString(f.Identifier)
	builder.WriteByte('(')
	for i, parameter := range f.ValueParameters {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(parameter.Identifier)
		builder.WriteString(": ")
		builder.WriteString(parameter.Type.String())
	}
	builder.WriteByte(')')
	if f.ReturnType != nil && f.FunctionKind != FunctionKindConstructor {
		builder.WriteString(": ")
		builder.WriteString(f.ReturnType.String())
	}
	return builder.String()
}

// GetOriginal returns the unsubstituted declaration.
func (f *Function) GetOriginal() *Function {
	if f.Original == nil {
		return f
	}
	return f.Original
}

func (f *Function) IsConstructor() bool {
	return f.FunctionKind == FunctionKindConstructor
}

func (f *Function) IsPropertyAccessor() bool {
	return f.FunctionKind == FunctionKindGetter ||
		f.FunctionKind == FunctionKindSetter
}

// IsStatic is true for functions without a dispatch receiver
// that are not constructors.
func (f *Function) IsStatic() bool {
	return f.DispatchReceiver == nil && !f.IsConstructor()
}

// Property

type Property struct {
	Member
	Type            *Type
	IsVar           bool
	IsConst         bool
	HasBackingField bool
	Getter          *Function
	Setter          *Function
	Overridden      []*Property
	Original        *Property
	AccessorFor     CallableMember
}

var _ CallableMember = &Property{}

func (p *Property) String() string {
	keyword := "val "
	if p.IsVar {
		keyword = "var "
	}
	owner := ""
	if p.Owner != nil {
		owner = FqName(p.Owner) + "."
	}
	return keyword + owner + p.Identifier + ": " + p.Type.String()
}

func (p *Property) GetOriginal() *Property {
	if p.Original == nil {
		return p
	}
	return p.Original
}

// ValueParameter

type ValueParameter struct {
	Identifier      string
	Owner           *Function
	Index           int
	Type            *Type
	DeclaresDefault bool
	Annotations     Annotations
}

var _ Declaration = &ValueParameter{}

func (p *ValueParameter) Name() string {
	return p.Identifier
}

func (p *ValueParameter) Container() Declaration {
	if p.Owner == nil {
		return nil
	}
	return p.Owner
}

func (*ValueParameter) isDeclaration() {}

func (p *ValueParameter) String() string {
	return "value parameter " + p.Identifier + ": " + p.Type.String()
}

// ReceiverParameter is the extension receiver of a callable member.
type ReceiverParameter struct {
	Type        *Type
	Annotations Annotations
}

var _ Declaration = &ReceiverParameter{}

func (*ReceiverParameter) Name() string {
	return "<this>"
}

func (*ReceiverParameter) Container() Declaration {
	return nil
}

func (*ReceiverParameter) isDeclaration() {}

func (p *ReceiverParameter) String() string {
	return "receiver " + p.Type.String()
}

// LocalVariable is a local variable of a function body,
// which may be captured by nested closures.
type LocalVariable struct {
	Identifier string
	Owner      Declaration
	Type       *Type
	IsVar      bool
}

var _ Declaration = &LocalVariable{}

func (v *LocalVariable) Name() string {
	return v.Identifier
}

func (v *LocalVariable) Container() Declaration {
	return v.Owner
}

func (*LocalVariable) isDeclaration() {}

func (v *LocalVariable) String() string {
	return "local " + v.Identifier + ": " + v.Type.String()
}

// Script

type Script struct {
	Identifier string
	Parent     *PackageFragment
	Class      *Class
}

var _ Declaration = &Script{}

func (s *Script) Name() string {
	return s.Identifier
}

func (s *Script) Container() Declaration {
	return s.Parent
}

func (*Script) isDeclaration() {}

func (s *Script) String() string {
	return "script " + s.Identifier
}

// FqName returns the dot-separated qualified name of a declaration.
func FqName(declaration Declaration) string {
	var parts []string
	for current := declaration; current != nil; current = current.Container() {
		switch current := current.(type) {
		case *PackageFragment:
			if current.FqName != "" {
				parts = append(parts, current.FqName)
			}
		case *Class:
			if current.IsAnonymous() {
				parts = append(parts, "<anonymous>")
			} else {
				parts = append(parts, current.Identifier)
			}
		default:
			parts = append(parts, current.Name())
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}
