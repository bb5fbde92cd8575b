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
	"fmt"
	"strings"

	"github.com/onflow/classgen/common/orderedmap"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
)

// FrameMap allocates the local slots of a method.
// Slots are handed out in increasing order and never reused.
type FrameMap struct {
	slots orderedmap.OrderedMap[descriptors.Declaration, int]
	size  int
}

func NewFrameMap() *FrameMap {
	return &FrameMap{}
}

// Enter allocates the next slot for the declaration.
func (m *FrameMap) Enter(declaration descriptors.Declaration, typ target.Type) int {
	if m.slots.Contains(declaration) {
		panic(errors.NewUnexpectedError("%s already has a slot", declaration))
	}
	index := m.size
	m.slots.Set(declaration, index)
	m.size += typ.Size()
	return index
}

// EnterTemp allocates the next slot for a value that is not a declaration.
func (m *FrameMap) EnterTemp(typ target.Type) int {
	index := m.size
	m.size += typ.Size()
	return index
}

// Index returns the slot of the declaration.
func (m *FrameMap) Index(declaration descriptors.Declaration) (int, bool) {
	return m.slots.Get(declaration)
}

// CurrentSize is the number of slots allocated so far.
func (m *FrameMap) CurrentSize() int {
	return m.size
}

func (m *FrameMap) String() string {
	var builder strings.Builder
	m.slots.Foreach(func(declaration descriptors.Declaration, index int) {
		_, _ = fmt.Fprintf(&builder, "%d: %s\n", index, declaration)
	})
	_, _ = fmt.Fprintf(&builder, "size: %d", m.size)
	return builder.String()
}

// CreateFrameMap allocates the slots of the parameters of a method:
// `this` unless static, then the parameters in signature order.
// Synthetic parameters, such as the outer instance or the marker of a constructor accessor,
// get temporary slots.
func CreateFrameMap(
	mapper mapping.SignatureMapper,
	function *descriptors.Function,
	signature target.MethodSignature,
	isStatic bool,
) *FrameMap {
	frameMap := NewFrameMap()
	if !isStatic {
		frameMap.EnterTemp(target.ObjectType)
	}

	valueIndex := 0
	enterValueParameter := func() {
		parameter := function.ValueParameters[valueIndex]
		frameMap.Enter(parameter, mapper.MapType(parameter.Type))
		valueIndex++
	}

	for _, parameter := range signature.Parameters {
		switch parameter.Kind {
		case target.ParameterKindValue:
			if valueIndex < len(function.ValueParameters) {
				enterValueParameter()
			} else {
				frameMap.EnterTemp(parameter.Type)
			}
		case target.ParameterKindReceiver:
			receiver := extensionReceiverOf(function)
			if receiver == nil {
				panic(errors.NewUnexpectedError("%s has no extension receiver", function))
			}
			frameMap.Enter(receiver, parameter.Type)
		default:
			frameMap.EnterTemp(parameter.Type)
		}
	}

	for valueIndex < len(function.ValueParameters) {
		enterValueParameter()
	}

	return frameMap
}

// extensionReceiverOf returns the extension receiver of the function,
// or of its property for accessors.
func extensionReceiverOf(function *descriptors.Function) *descriptors.ReceiverParameter {
	if function.ExtensionReceiver != nil {
		return function.ExtensionReceiver
	}
	if function.Property != nil {
		return function.Property.ExtensionReceiver
	}
	return nil
}
