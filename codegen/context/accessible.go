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
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
)

// AccessorNeeds is the result of an earlier analysis:
// which members are accessed from code that cannot see them.
type AccessorNeeds interface {
	NeedsSyntheticAccessor(member descriptors.CallableMember) bool
}

// AccessibleDescriptor returns the declaration that code in this context must call to access the member:
// the member itself, or a synthetic accessor of it in the context that owns the member.
func (c *Context) AccessibleDescriptor(
	member descriptors.CallableMember,
	superCallTarget *descriptors.Class,
) descriptors.CallableMember {
	if !c.HasThisDescriptor() {
		return member
	}

	enclosing := member.Container()
	if enclosing == descriptors.Declaration(c.thisDescriptor) {
		return member
	}
	if parent := c.ClassOrPackageParent(); parent != nil && enclosing == parent.Descriptor {
		return member
	}

	return c.accessibleDescriptorIfNeeded(member, superCallTarget)
}

// RecordSyntheticAccessorIfNeeded creates the accessor of a member
// if the analysis found that it is accessed from code that cannot see it.
func (c *Context) RecordSyntheticAccessorIfNeeded(member descriptors.CallableMember, needs AccessorNeeds) {
	if c.HasThisDescriptor() && needs.NeedsSyntheticAccessor(member) {
		// neither constructors nor private members can be targets of super calls
		c.accessibleDescriptorIfNeeded(member, nil)
	}
}

func (c *Context) accessibleDescriptorIfNeeded(
	member descriptors.CallableMember,
	superCallTarget *descriptors.Class,
) descriptors.CallableMember {

	unwrapped := descriptors.UnwrapFakeOverride(member)

	enclosed := member.Container()
	descriptorContext := c.FindParentWithDescriptor(enclosed)
	if descriptorContext == nil && descriptors.IsCompanionObject(enclosed) {
		classContext := c.FindParentWithDescriptor(enclosed.Container())
		if classContext != nil {
			descriptorContext = classContext.CompanionObjectContext()
		}
	}

	if descriptorContext == nil {
		return member
	}

	switch member := member.(type) {
	case *descriptors.Property:
		propertyAccessFlag := mapping.MemberAccessFlag(member)

		getterAccessFlag := propertyAccessFlag
		if member.Getter != nil {
			getterAccessFlag |= mapping.MemberAccessFlag(member.Getter)
		}
		getterRequired := IsAccessorRequired(getterAccessFlag, unwrapped, descriptorContext)

		setterAccessFlag := propertyAccessFlag
		if member.Setter != nil {
			setterAccessFlag |= mapping.MemberAccessFlag(member.Setter)
		}
		setterRequired := IsAccessorRequired(setterAccessFlag, unwrapped, descriptorContext)

		if !getterRequired && !setterRequired {
			return member
		}
		return descriptorContext.GetOrCreateAccessor(member, superCallTarget, getterRequired, setterRequired)

	default:
		flag := mapping.MemberAccessFlag(unwrapped)
		if !IsAccessorRequired(flag, unwrapped, descriptorContext) {
			return member
		}
		return descriptorContext.GetAccessor(member, superCallTarget)
	}
}

// IsAccessorRequired is true if a member with the given access flags,
// declared in the given context, needs an accessor to be reached from a nested scope:
// the member is private, or it is protected and in another package.
func IsAccessorRequired(
	accessFlags target.AccessFlags,
	unwrapped descriptors.CallableMember,
	descriptorContext *Context,
) bool {
	if accessFlags.Has(target.AccPrivate) {
		return true
	}
	return accessFlags.Has(target.AccProtected) &&
		!inSamePackage(unwrapped, descriptorContext.Descriptor)
}

func inSamePackage(first descriptors.Declaration, second descriptors.Declaration) bool {
	if second == nil {
		return false
	}
	return descriptors.InSamePackage(first, second)
}
