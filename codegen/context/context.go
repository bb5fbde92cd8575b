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
	"fmt"

	"github.com/onflow/classgen/common/orderedmap"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Kind -trimprefix=Kind

// Kind is the kind of declaration a context was created for.
type Kind uint8

const (
	KindRoot Kind = iota
	KindPackagePart
	// KindFacade is a package facade whose members delegate to a package part
	KindFacade
	KindClass
	KindAnonymousClass
	KindMethod
	KindConstructor
	KindClosure
	KindScript
)

// ID identifies a context in its tree.
type ID int

const NoID ID = -1

// Tree is an arena of contexts. Contexts refer to their parents by ID.
type Tree struct {
	Mapper   mapping.SignatureMapper
	mode     classbuilder.Mode
	contexts []*Context
}

func NewTree(mapper mapping.SignatureMapper, mode classbuilder.Mode) *Tree {
	tree := &Tree{
		Mapper: mapper,
		mode:   mode,
	}
	tree.newContext(NoID, KindRoot, nil, mapping.OwnerKindPackage, nil, nil)
	return tree
}

// Root returns the static root context, which has no descriptor.
func (t *Tree) Root() *Context {
	return t.contexts[0]
}

func (t *Tree) Mode() classbuilder.Mode {
	return t.mode
}

func (t *Tree) Context(id ID) *Context {
	if id == NoID {
		return nil
	}
	return t.contexts[id]
}

// Len returns the number of contexts in the tree, including the root.
func (t *Tree) Len() int {
	return len(t.contexts)
}

func (t *Tree) newContext(
	parent ID,
	kind Kind,
	descriptor descriptors.Declaration,
	ownerKind mapping.OwnerKind,
	thisDescriptor *descriptors.Class,
	closure *ClosureRecord,
) *Context {
	context := &Context{
		tree:           t,
		id:             ID(len(t.contexts)),
		parent:         parent,
		Kind:           kind,
		Descriptor:     descriptor,
		OwnerKind:      ownerKind,
		thisDescriptor: thisDescriptor,
		Closure:        closure,
	}
	t.contexts = append(t.contexts, context)
	return context
}

// Context is a node of the lexical context tree.
type Context struct {
	tree   *Tree
	id     ID
	parent ID

	Kind       Kind
	Descriptor descriptors.Declaration
	OwnerKind  mapping.OwnerKind
	// Closure is set for contexts of classes and functions that can capture outer state
	Closure *ClosureRecord
	// DelegateOwner is the class that facade members delegate to
	DelegateOwner target.Type
	// OuterThisSlot is the slot of the outer instance parameter in constructor contexts
	OuterThisSlot int

	thisDescriptor *descriptors.Class

	// children are registered only when they must be found again, i.e. companion objects
	children map[descriptors.Declaration]ID

	outerExpression lazyLocation

	accessors                 orderedmap.OrderedMap[AccessorKey, SyntheticAccessor]
	propertyAccessorFactories orderedmap.OrderedMap[AccessorKey, *PropertyAccessor]
}

func (c *Context) ID() ID {
	return c.id
}

func (c *Context) Tree() *Tree {
	return c.tree
}

func (c *Context) Parent() *Context {
	return c.tree.Context(c.parent)
}

func (c *Context) String() string {
	if c.Descriptor == nil {
		return fmt.Sprintf("%s context", c.Kind)
	}
	return fmt.Sprintf("%s context <%s>: %s", c.Kind, c.OwnerKind, c.Descriptor)
}

// ThisDescriptor returns the class whose instance is `this` in the context, if any.
func (c *Context) ThisDescriptor() *descriptors.Class {
	return c.thisDescriptor
}

func (c *Context) HasThisDescriptor() bool {
	return c.thisDescriptor != nil
}

// IsStatic is true if code in the context has no `this`.
func (c *Context) IsStatic() bool {
	switch c.Kind {
	case KindRoot, KindPackagePart, KindFacade:
		return true
	case KindMethod:
		function := c.Descriptor.(*descriptors.Function)
		return mapping.IsStaticMethod(c.OwnerKind, function)
	default:
		return !c.HasThisDescriptor()
	}
}

func (c *Context) Function() *descriptors.Function {
	function, _ := c.Descriptor.(*descriptors.Function)
	return function
}

func (c *Context) newChild(
	kind Kind,
	descriptor descriptors.Declaration,
	ownerKind mapping.OwnerKind,
	thisDescriptor *descriptors.Class,
	closure *ClosureRecord,
) *Context {
	child := c.tree.newContext(c.id, kind, descriptor, ownerKind, thisDescriptor, closure)
	if descriptors.IsCompanionObject(descriptor) {
		if c.children == nil {
			c.children = map[descriptors.Declaration]ID{}
		}
		c.children[descriptor] = child.id
	}
	return child
}

// FindChild returns the registered child context for the declaration, if any.
func (c *Context) FindChild(declaration descriptors.Declaration) *Context {
	id, ok := c.children[declaration]
	if !ok {
		return nil
	}
	return c.tree.Context(id)
}

func (c *Context) IntoPackagePart(fragment *descriptors.PackageFragment, partType target.Type) *Context {
	child := c.newChild(KindPackagePart, fragment, mapping.OwnerKindPackage, nil, nil)
	child.DelegateOwner = partType
	return child
}

// IntoFacade returns the context of a facade class whose members delegate to the given package part.
func (c *Context) IntoFacade(fragment *descriptors.PackageFragment, partType target.Type) *Context {
	child := c.newChild(KindFacade, fragment, mapping.OwnerKindPackage, nil, nil)
	child.DelegateOwner = partType
	return child
}

// IntoClass returns the context of a class.
// The context of a companion object is created only once,
// and it is created ahead of time when entering the class that owns it.
func (c *Context) IntoClass(class *descriptors.Class, ownerKind mapping.OwnerKind) *Context {
	if class.IsCompanion {
		if companionContext := c.FindChild(class); companionContext != nil {
			if companionContext.OwnerKind != ownerKind {
				panic(errors.NewUnexpectedError(
					"kinds should be same, but: %s != %s",
					companionContext.OwnerKind,
					ownerKind,
				))
			}
			return companionContext
		}
	}

	var closure *ClosureRecord
	if class.IsInner {
		closure = NewClosureRecord(c.nearestClass())
	}

	classContext := c.newChild(KindClass, class, ownerKind, class, closure)

	// light classes must not trigger generation of the companion
	if c.tree.mode.GenerateBodies() && class.Companion != nil {
		classContext.IntoClass(class.Companion, mapping.OwnerKindImplementation)
	}

	return classContext
}

// CompanionObjectContext returns the context of the companion object of a class context.
func (c *Context) CompanionObjectContext() *Context {
	if c.Kind != KindClass {
		return nil
	}
	class := c.thisDescriptor
	if class.Companion == nil {
		return nil
	}
	return c.FindChild(class.Companion)
}

// IntoAnonymousClass returns the context of an object literal.
func (c *Context) IntoAnonymousClass(class *descriptors.Class, ownerKind mapping.OwnerKind) *Context {
	return c.newChild(
		KindAnonymousClass,
		class,
		ownerKind,
		class,
		NewClosureRecord(c.nearestClass()),
	)
}

func (c *Context) IntoFunction(function *descriptors.Function) *Context {
	return c.newChild(KindMethod, function, c.OwnerKind, c.thisDescriptor, nil)
}

// IntoConstructor returns the context of a constructor.
// Constructors share the closure of their class; the outer instance is a parameter.
func (c *Context) IntoConstructor(constructor *descriptors.Function) *Context {
	child := c.newChild(KindConstructor, constructor, c.OwnerKind, c.thisDescriptor, c.Closure)
	// slot 0 holds the instance under construction
	child.OuterThisSlot = 1
	return child
}

// IntoClosure returns the context of a function literal, compiled into the given class.
func (c *Context) IntoClosure(function *descriptors.Function, class *descriptors.Class) *Context {
	return c.newChild(
		KindClosure,
		function,
		mapping.OwnerKindImplementation,
		class,
		NewClosureRecord(c.nearestClass()),
	)
}

func (c *Context) IntoScript(script *descriptors.Script) *Context {
	return c.newChild(KindScript, script, mapping.OwnerKindImplementation, script.Class, c.Closure)
}

// nearestClass returns the class of the closest context with a `this`, including this context.
func (c *Context) nearestClass() *descriptors.Class {
	for current := c; current != nil; current = current.Parent() {
		if current.thisDescriptor != nil {
			return current.thisDescriptor
		}
	}
	return nil
}

// EnclosingClass returns the class of the closest ancestor context created for a class.
func (c *Context) EnclosingClass() *descriptors.Class {
	for current := c.Parent(); current != nil; current = current.Parent() {
		if class, ok := current.Descriptor.(*descriptors.Class); ok {
			return class
		}
	}
	return nil
}

// ClassOrPackageParent returns the closest context, including this one,
// which is created for a class or a package.
func (c *Context) ClassOrPackageParent() *Context {
	for current := c; current != nil; current = current.Parent() {
		switch current.Kind {
		case KindClass, KindAnonymousClass, KindClosure, KindPackagePart, KindFacade, KindScript:
			return current
		}
	}
	return nil
}

// FindParentWithDescriptor returns the closest context, including this one,
// which is created for the given declaration.
func (c *Context) FindParentWithDescriptor(declaration descriptors.Declaration) *Context {
	for current := c; current != nil; current = current.Parent() {
		if current.Descriptor != nil && current.Descriptor == declaration {
			return current
		}
	}
	return nil
}
