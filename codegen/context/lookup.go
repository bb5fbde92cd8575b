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
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
)

// LookupInContext returns the location of a declaration visible from this context:
// a value captured by an enclosing closure, or the instance of an enclosing class.
// The prefix is the location the lookup is relative to, nil for `this`.
//
// Contexts whose outer instance is traversed to reach a non-static value capture `this`.
// If no context can provide the declaration, the result is nil.
// If a context on the way has no outer instance, the lookup fails unless ignoreNoOuter is set.
func (c *Context) LookupInContext(
	declaration descriptors.Declaration,
	prefix *Location,
	ignoreNoOuter bool,
) (*Location, error) {

	result := prefix
	var myOuter *Location

	singleton := singletonClass(declaration)

	if c.Closure != nil {
		if location, ok := c.Closure.Captured(declaration); ok {
			return location.WithReceiver(result), nil
		}

		if location := c.captureLocal(declaration); location != nil {
			return location.WithReceiver(result), nil
		}

		var err error
		myOuter, err = c.outerExpressionWithPrefix(result, ignoreNoOuter || singleton != nil, false)
		if err != nil {
			return nil, err
		}
		result = myOuter
	}

	var resultLocation *Location
	if myOuter != nil && declarationIsClass(declaration, c.Closure.Enclosing) {
		resultLocation = result
	} else if singleton != nil {
		resultLocation = singletonLocation(c.tree.Mapper, singleton)
	} else if parent := c.Parent(); parent != nil {
		var err error
		resultLocation, err = parent.LookupInContext(declaration, result, ignoreNoOuter)
		if err != nil {
			return nil, err
		}
	}

	if myOuter != nil && resultLocation != nil && !resultLocation.IsStaticField() {
		c.Closure.SetCaptureThis()
	}

	return resultLocation, nil
}

func declarationIsClass(declaration descriptors.Declaration, class *descriptors.Class) bool {
	if class == nil {
		return false
	}
	other, ok := declaration.(*descriptors.Class)
	return ok && other == class
}

func singletonClass(declaration descriptors.Declaration) *descriptors.Class {
	class, ok := declaration.(*descriptors.Class)
	if !ok || !class.Kind.IsSingleton() {
		return nil
	}
	return class
}

// singletonLocation returns the static field holding the instance of an object:
// companion objects and enum entries are stored in their containing class.
func singletonLocation(mapper mapping.SignatureMapper, class *descriptors.Class) *Location {
	classType := mapper.MapClass(class)
	if class.IsCompanion || class.Kind == descriptors.ClassKindEnumEntry {
		if outer := descriptors.ContainingClass(class); outer != nil {
			return StaticFieldLocation(mapper.MapClass(outer).InternalName(), class.Identifier, classType)
		}
	}
	return StaticFieldLocation(classType.InternalName(), InstanceFieldName, classType)
}

// captureLocal captures a local variable or parameter of an enclosing function
// into a field of the closure class.
func (c *Context) captureLocal(declaration descriptors.Declaration) *Location {
	var owner descriptors.Declaration
	var typ *descriptors.Type

	switch declaration := declaration.(type) {
	case *descriptors.LocalVariable:
		owner = declaration.Owner
		typ = declaration.Type
	case *descriptors.ValueParameter:
		if declaration.Owner == nil {
			return nil
		}
		owner = declaration.Owner
		typ = declaration.Type
	default:
		return nil
	}

	if c.thisDescriptor == nil || c.Descriptor == owner {
		return nil
	}

	parent := c.Parent()
	if parent == nil || parent.FindParentWithDescriptor(owner) == nil {
		return nil
	}

	mapper := c.tree.Mapper
	closureType := mapper.MapClass(c.thisDescriptor)
	location := FieldLocation(
		ThisLocation(closureType),
		closureType.InternalName(),
		CapturedFieldName(declaration.Name()),
		mapper.MapType(typ),
	)
	return c.Closure.Capture(declaration, location)
}

// OuterExpression returns the location of the outer instance of this context.
// If captureThis is set, the closure of this context is marked as capturing `this`.
func (c *Context) OuterExpression(prefix *Location, ignoreNoOuter bool, captureThis bool) (*Location, error) {
	return c.outerExpressionWithPrefix(prefix, ignoreNoOuter, captureThis)
}

func (c *Context) outerExpressionWithPrefix(prefix *Location, ignoreNoOuter bool, captureThis bool) (*Location, error) {
	outer := c.outerExpression.get(c.computeOuterExpression)
	if outer == nil {
		if !ignoreNoOuter {
			return nil, &errors.NoOuterAccessorError{
				Context:    c.String(),
				Descriptor: describe(c.Descriptor),
			}
		}
		return nil, nil
	}

	if captureThis {
		if c.Closure == nil {
			panic(errors.NewUnexpectedError("can't capture this for context without closure: %s", c))
		}
		c.Closure.SetCaptureThis()
	}

	return outer.WithReceiver(prefix), nil
}

func describe(declaration descriptors.Declaration) string {
	if declaration == nil {
		return ""
	}
	return declaration.String()
}

func (c *Context) computeOuterExpression() *Location {
	if c.Closure == nil {
		return nil
	}

	enclosing := c.Closure.Enclosing
	if enclosing == nil || c.thisDescriptor == nil {
		return nil
	}

	mapper := c.tree.Mapper
	enclosingType := mapper.MapClass(enclosing)

	if c.Kind == KindConstructor {
		return LocalLocation(c.OuterThisSlot, enclosingType)
	}

	classType := mapper.MapClass(c.thisDescriptor)
	return FieldLocation(
		ThisLocation(classType),
		classType.InternalName(),
		CapturedThisField,
		enclosingType,
	)
}
