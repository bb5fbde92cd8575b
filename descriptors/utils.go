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

func IsInterface(declaration Declaration) bool {
	class, ok := declaration.(*Class)
	return ok && class.Kind == ClassKindInterface
}

func IsCompanionObject(declaration Declaration) bool {
	class, ok := declaration.(*Class)
	return ok && class.IsCompanion
}

// ContainingClass returns the closest class enclosing the declaration, excluding the declaration itself.
func ContainingClass(declaration Declaration) *Class {
	for current := declaration.Container(); current != nil; current = current.Container() {
		if class, ok := current.(*Class); ok {
			return class
		}
	}
	return nil
}

// ContainingPackage returns the package fragment the declaration belongs to.
func ContainingPackage(declaration Declaration) *PackageFragment {
	for current := declaration; current != nil; current = current.Container() {
		if fragment, ok := current.(*PackageFragment); ok {
			return fragment
		}
	}
	return nil
}

func InSamePackage(first, second Declaration) bool {
	firstPackage := ContainingPackage(first)
	secondPackage := ContainingPackage(second)
	return firstPackage != nil &&
		secondPackage != nil &&
		firstPackage.FqName == secondPackage.FqName
}

// SuperClassOf returns the superclass of a class, defaulting to the root class.
// Interfaces and the root class itself have no superclass.
func SuperClassOf(class *Class) *Class {
	if class == AnyClass || class.Kind == ClassKindInterface {
		return nil
	}
	if class.SuperClass != nil {
		return class.SuperClass
	}
	return AnyClass
}

// IsSubclassOf reports whether the class is the given class or one of its subtypes.
func IsSubclassOf(class *Class, super *Class) bool {
	if class == nil {
		return false
	}
	if class == super || super == AnyClass {
		return true
	}
	if IsSubclassOf(SuperClassOf(class), super) {
		return true
	}
	for _, inter := range class.Interfaces {
		if IsSubclassOf(inter, super) {
			return true
		}
	}
	return false
}

// Original returns the unsubstituted declaration of a callable member.
func Original(member CallableMember) CallableMember {
	switch member := member.(type) {
	case *Function:
		return member.GetOriginal()
	case *Property:
		return member.GetOriginal()
	default:
		return member
	}
}

// UnwrapFakeOverride follows fake overrides to the declaration they were inherited from.
func UnwrapFakeOverride(member CallableMember) CallableMember {
	for member.Common().Kind == CallableKindFakeOverride {
		switch current := member.(type) {
		case *Function:
			if len(current.Overridden) == 0 {
				return member
			}
			member = current.Overridden[0].GetOriginal()
		case *Property:
			if len(current.Overridden) == 0 {
				return member
			}
			member = current.Overridden[0].GetOriginal()
		default:
			return member
		}
	}
	return member
}

// IsOrOverridesSynthesized is true if the function is synthesized
// or only overrides synthesized functions, e.g. an adapter with no physical declaration.
func IsOrOverridesSynthesized(function *Function) bool {
	switch function.Kind {
	case CallableKindSynthesized:
		return true
	case CallableKindFakeOverride:
		for _, overridden := range function.Overridden {
			if !IsOrOverridesSynthesized(overridden) {
				return false
			}
		}
		return len(function.Overridden) > 0
	default:
		return false
	}
}

func IsLocalFunction(function *Function) bool {
	if function.FunctionKind == FunctionKindLiteral {
		return false
	}
	_, ok := function.Owner.(*Function)
	return ok
}

func IsFunctionLiteral(function *Function) bool {
	return function.FunctionKind == FunctionKindLiteral
}

// DeclaresDefaultValues is true if at least one value parameter declares a default value.
func DeclaresDefaultValues(function *Function) bool {
	for _, parameter := range function.ValueParameters {
		if parameter.DeclaresDefault {
			return true
		}
	}
	return false
}

// IsMethodOfAny is true for hashCode(), toString() and equals(Any?).
func IsMethodOfAny(function *Function) bool {
	parameters := function.ValueParameters
	switch len(parameters) {
	case 0:
		return function.Identifier == "hashCode" ||
			function.Identifier == "toString"
	case 1:
		if function.Identifier != "equals" {
			return false
		}
		parameterType := parameters[0].Type
		return parameterType.Class() == AnyClass && parameterType.Nullable
	default:
		return false
	}
}

// PropertyOf returns the property a callable member belongs to:
// the property itself, or the property of a getter or setter.
func PropertyOf(member CallableMember) *Property {
	switch member := member.(type) {
	case *Property:
		return member
	case *Function:
		return member.Property
	default:
		return nil
	}
}
