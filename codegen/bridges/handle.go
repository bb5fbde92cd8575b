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

package bridges

import (
	"github.com/onflow/classgen/descriptors"
)

// DescriptorHandle adapts a function descriptor to the bridge algorithm.
// Handles of the same original function are equal.
type DescriptorHandle struct {
	function *descriptors.Function
}

func HandleOf(function *descriptors.Function) DescriptorHandle {
	return DescriptorHandle{
		function: function.GetOriginal(),
	}
}

func (h DescriptorHandle) Function() *descriptors.Function {
	return h.function
}

// IsDeclaration is true for real functions, and for fake overrides
// that inherit their body from an interface, because those get a delegate in the class.
func (h DescriptorHandle) IsDeclaration() bool {
	return h.function.Kind.IsReal() ||
		FindInterfaceImplementation(h.function) != nil
}

func (h DescriptorHandle) IsAbstract() bool {
	return h.function.Modality == descriptors.ModalityAbstract ||
		descriptors.IsInterface(h.function.Owner)
}

func (h DescriptorHandle) MayBeUsedAsSuperImplementation() bool {
	return !descriptors.IsInterface(h.function.Owner)
}

func (h DescriptorHandle) Overridden() []DescriptorHandle {
	overridden := h.function.Overridden
	result := make([]DescriptorHandle, 0, len(overridden))
	for _, function := range overridden {
		result = append(result, HandleOf(function))
	}
	return result
}

func (h DescriptorHandle) String() string {
	return h.function.String()
}

// FindInterfaceImplementation returns the interface function with a body
// a fake override in a class inherits, if no class in the hierarchy implements it.
func FindInterfaceImplementation(function *descriptors.Function) *descriptors.Function {
	if function.Kind != descriptors.CallableKindFakeOverride {
		return nil
	}
	if descriptors.IsInterface(function.Owner) {
		return nil
	}

	var implementation *descriptors.Function
	for _, overridden := range function.Overridden {
		overridden = overridden.GetOriginal()

		if !descriptors.IsInterface(overridden.Owner) {
			if overridden.Modality != descriptors.ModalityAbstract {
				return nil
			}
			continue
		}

		unwrapped, ok := descriptors.UnwrapFakeOverride(overridden).(*descriptors.Function)
		if !ok || unwrapped.Modality == descriptors.ModalityAbstract {
			continue
		}
		if implementation == nil {
			implementation = unwrapped
		}
	}

	return implementation
}
