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
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/opcode"
)

// StackValue is a value that can be pushed on the operand stack.
type StackValue interface {
	Type() target.Type
	// Put pushes the value, coerced to the given type
	Put(typ target.Type, v *InstructionAdapter)
}

// LocalValue

type LocalValue struct {
	Slot      int
	ValueType target.Type
}

var _ StackValue = LocalValue{}

func Local(slot int, typ target.Type) LocalValue {
	return LocalValue{
		Slot:      slot,
		ValueType: typ,
	}
}

func (l LocalValue) Type() target.Type {
	return l.ValueType
}

func (l LocalValue) Put(typ target.Type, v *InstructionAdapter) {
	v.Load(l.Slot, l.ValueType)
	v.Coerce(l.ValueType, typ)
}

// Store pops a value of the given type into the slot.
func (l LocalValue) Store(value StackValue, v *InstructionAdapter) {
	value.Put(l.ValueType, v)
	v.Store(l.Slot, l.ValueType)
}

// ConstantValue

// ConstantValue is a constant. Its Go type matches the value type,
// e.g. int32 for ints and booleans, string for strings.
type ConstantValue struct {
	Value     any
	ValueType target.Type
}

var _ StackValue = ConstantValue{}

func Constant(value any, typ target.Type) ConstantValue {
	return ConstantValue{
		Value:     value,
		ValueType: typ,
	}
}

func (c ConstantValue) Type() target.Type {
	return c.ValueType
}

func (c ConstantValue) Put(typ target.Type, v *InstructionAdapter) {
	if c.Value == nil {
		v.AConstNull()
		if !typ.IsReference() {
			v.Coerce(target.ObjectType, typ)
		}
		return
	}
	v.Emit(opcode.InstructionConst{Value: c.Value, Type: c.ValueType})
	v.Coerce(c.ValueType, typ)
}

// NoneValue

// NoneValue is the absence of a value. Putting it pushes the zero value of the requested type.
type NoneValue struct{}

var _ StackValue = NoneValue{}

func (NoneValue) Type() target.Type {
	return target.VoidType
}

func (NoneValue) Put(typ target.Type, v *InstructionAdapter) {
	v.PushDefault(typ)
}

// OnStackValue

// OnStackValue is a value that was already pushed.
type OnStackValue struct {
	ValueType target.Type
}

var _ StackValue = OnStackValue{}

func (s OnStackValue) Type() target.Type {
	return s.ValueType
}

func (s OnStackValue) Put(typ target.Type, v *InstructionAdapter) {
	v.Coerce(s.ValueType, typ)
}

// LocationValue

// LocationValue is a value found by a lookup in the context tree.
type LocationValue struct {
	Location *codegencontext.Location
}

var _ StackValue = LocationValue{}

func (l LocationValue) Type() target.Type {
	return l.Location.Type
}

func (l LocationValue) Put(typ target.Type, v *InstructionAdapter) {
	for _, instruction := range l.Location.LoadInstructions() {
		v.Emit(instruction)
	}
	v.Coerce(l.Location.Type, typ)
}
