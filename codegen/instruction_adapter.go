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
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
	"github.com/onflow/classgen/target/opcode"
)

// InstructionAdapter emits instructions into a method writer.
type InstructionAdapter struct {
	*classbuilder.MethodWriter
}

func NewInstructionAdapter(writer *classbuilder.MethodWriter) *InstructionAdapter {
	return &InstructionAdapter{
		MethodWriter: writer,
	}
}

func (v *InstructionAdapter) Load(slot int, typ target.Type) {
	v.Emit(opcode.InstructionLoad{Slot: slot, Type: typ})
}

func (v *InstructionAdapter) Store(slot int, typ target.Type) {
	v.Emit(opcode.InstructionStore{Slot: slot, Type: typ})
}

func (v *InstructionAdapter) IConst(value int32) {
	v.Emit(opcode.InstructionConst{Value: value, Type: target.IntType})
}

func (v *InstructionAdapter) AConst(value string) {
	v.Emit(opcode.InstructionConst{Value: value, Type: target.StringType})
}

func (v *InstructionAdapter) AConstNull() {
	v.Emit(opcode.InstructionConstNull{})
}

func (v *InstructionAdapter) Dup() {
	v.Emit(opcode.InstructionDup{})
}

func (v *InstructionAdapter) Pop(typ target.Type) {
	v.Emit(opcode.InstructionPop{Type: typ})
}

func (v *InstructionAdapter) And() {
	v.Emit(opcode.InstructionAnd{})
}

func (v *InstructionAdapter) InstanceOf(typ target.Type) {
	v.Emit(opcode.InstructionInstanceOf{Type: typ})
}

func (v *InstructionAdapter) CheckCast(typ target.Type) {
	v.Emit(opcode.InstructionCheckCast{Type: typ})
}

func (v *InstructionAdapter) IfNe(label *opcode.Label) {
	v.Emit(opcode.InstructionIfNe{Target: label})
}

func (v *InstructionAdapter) IfEq(label *opcode.Label) {
	v.Emit(opcode.InstructionIfEq{Target: label})
}

func (v *InstructionAdapter) IfNull(label *opcode.Label) {
	v.Emit(opcode.InstructionIfNull{Target: label})
}

func (v *InstructionAdapter) Goto(label *opcode.Label) {
	v.Emit(opcode.InstructionGoto{Target: label})
}

func (v *InstructionAdapter) LineNumber(line int) {
	v.Emit(opcode.InstructionLineNumber{Line: line})
}

func (v *InstructionAdapter) GetField(owner string, name string, typ target.Type, static bool) {
	v.Emit(opcode.InstructionGetField{
		Owner:  owner,
		Name:   name,
		Type:   typ,
		Static: static,
	})
}

func (v *InstructionAdapter) PutField(owner string, name string, typ target.Type, static bool) {
	v.Emit(opcode.InstructionPutField{
		Owner:  owner,
		Name:   name,
		Type:   typ,
		Static: static,
	})
}

func (v *InstructionAdapter) Invoke(kind opcode.Opcode, owner string, method target.Method) {
	v.Emit(opcode.InstructionInvoke{
		Kind:   kind,
		Owner:  owner,
		Method: method,
	})
}

func (v *InstructionAdapter) InvokeCallable(callable mapping.CallableMethod) {
	v.Emit(callable.Instruction())
}

func (v *InstructionAdapter) Return(typ target.Type) {
	v.Emit(opcode.ReturnInstruction(typ))
}

// PushDefault pushes the zero value of the type.
func (v *InstructionAdapter) PushDefault(typ target.Type) {
	switch typ.Sort() {
	case target.SortVoid:
		return
	case target.SortLong:
		v.Emit(opcode.InstructionConst{Value: int64(0), Type: typ})
	case target.SortFloat:
		v.Emit(opcode.InstructionConst{Value: float32(0), Type: typ})
	case target.SortDouble:
		v.Emit(opcode.InstructionConst{Value: float64(0), Type: typ})
	case target.SortObject, target.SortArray:
		v.AConstNull()
	default:
		v.Emit(opcode.InstructionConst{Value: int32(0), Type: typ})
	}
}

// Coerce converts the value on top of the stack from one type to another:
// it boxes, unboxes, converts primitives and casts references as needed.
func (v *InstructionAdapter) Coerce(from target.Type, to target.Type) {
	switch {
	case from == to:
		return

	case to == target.VoidType:
		v.Pop(from)

	case from == target.VoidType:
		v.PushDefault(to)

	case from.IsPrimitive() && to.IsPrimitive():
		v.Emit(opcode.InstructionConvert{From: from, To: to})

	case from.IsPrimitive():
		boxed := target.BoxType(from)
		v.Emit(opcode.InstructionBox{Type: from})
		if to != target.ObjectType && to != boxed {
			v.CheckCast(to)
		}

	case to.IsPrimitive():
		boxed := target.BoxType(to)
		if from != boxed {
			v.CheckCast(boxed)
		}
		v.Emit(opcode.InstructionUnbox{Type: to})

	case from.IsReference() && to.IsReference():
		if to != target.ObjectType {
			v.CheckCast(to)
		}

	default:
		panic(errors.NewUnexpectedError("cannot coerce %s to %s", from, to))
	}
}
