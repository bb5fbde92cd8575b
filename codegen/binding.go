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


package codegen

import (
	codegencontext "github.com/onflow/classgen/codegen/context"
	"github.com/onflow/classgen/descriptors"
)

// BindingContext holds the results of the analysis the code generator relies on.
type BindingContext interface {
	codegencontext.AccessorNeeds
}

// AccessedMembers is a BindingContext listing the members
// that are accessed from code that cannot see them.
type AccessedMembers map[descriptors.CallableMember]struct{}

var _ BindingContext = AccessedMembers{}

func NewAccessedMembers(members ...descriptors.CallableMember) AccessedMembers {
	result := make(AccessedMembers, len(members))
	for _, member := range members {
		result[member] = struct{}{}
	}
	return result
}

func (a AccessedMembers) NeedsSyntheticAccessor(member descriptors.CallableMember) bool {
	_, ok := a[member]
	return ok
}
