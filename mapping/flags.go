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
)

// VisibilityAccessFlag returns the access flag for a visibility.
// Internal members are public in the target.
func VisibilityAccessFlag(visibility descriptors.Visibility) target.AccessFlags {
	switch visibility {
	case descriptors.VisibilityPrivate,
		descriptors.VisibilityPrivateToThis,
		descriptors.VisibilityLocal:
		return target.AccPrivate
	case descriptors.VisibilityProtected:
		return target.AccProtected
	default:
		return target.AccPublic
	}
}

// MemberAccessFlag returns the visibility access flag of a member.
// Members of interfaces are public unless private.
func MemberAccessFlag(member descriptors.CallableMember) target.AccessFlags {
	common := member.Common()
	if descriptors.IsInterface(common.Owner) && !common.Visibility.IsPrivate() {
		return target.AccPublic
	}
	return VisibilityAccessFlag(common.Visibility)
}
