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
	"strconv"
	"strings"

	"github.com/onflow/classgen/common/orderedmap"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/opcode"
)

// CapturedThisField is the name of the field holding the outer instance of a closure or inner class.
const CapturedThisField = "this$0"

// CapturedFieldName returns the name of the field holding a captured local.
func CapturedFieldName(name string) string {
	return "$" + name
}

// ClosureRecord is the table of values a closure or a local class captures.
type ClosureRecord struct {
	// Enclosing is the class whose instance the closure may capture, nil in static contexts
	Enclosing   *descriptors.Class
	captured    orderedmap.OrderedMap[descriptors.Declaration, *Location]
	captureThis bool
}

func NewClosureRecord(enclosing *descriptors.Class) *ClosureRecord {
	return &ClosureRecord{
		Enclosing: enclosing,
	}
}

// SetCaptureThis marks the closure as capturing the enclosing instance.
// The flag is never cleared.
func (r *ClosureRecord) SetCaptureThis() {
	r.captureThis = true
}

func (r *ClosureRecord) CapturesThis() bool {
	return r.captureThis
}

// Capture records the location of a captured declaration inside the closure.
// Capturing a declaration twice returns the first location.
func (r *ClosureRecord) Capture(declaration descriptors.Declaration, location *Location) *Location {
	if existing, ok := r.captured.Get(declaration); ok {
		return existing
	}
	r.captured.Set(declaration, location)
	return location
}

func (r *ClosureRecord) Captured(declaration descriptors.Declaration) (*Location, bool) {
	return r.captured.Get(declaration)
}

// CapturedDeclarations returns the captured declarations in capture order.
func (r *ClosureRecord) CapturedDeclarations() []descriptors.Declaration {
	result := make([]descriptors.Declaration, 0, r.captured.Len())
	r.captured.Foreach(func(declaration descriptors.Declaration, _ *Location) {
		result = append(result, declaration)
	})
	return result
}

//go:generate go run golang.org/x/tools/cmd/stringer -type=LocationKind -trimprefix=Location

type LocationKind uint8

const (
	// LocationLocal is a local variable slot
	LocationLocal LocationKind = iota
	// LocationField is an instance field of a receiver location
	LocationField
	// LocationStaticField is a static field
	LocationStaticField
)

// Location describes where a value is stored: a local slot,
// or a chain of field reads starting at a local slot.
type Location struct {
	Kind     LocationKind
	Slot     int
	Owner    string
	Name     string
	Type     target.Type
	Receiver *Location
}

// ThisLocation returns the location of `this` in an instance method of the given class.
func ThisLocation(classType target.Type) *Location {
	return LocalLocation(0, classType)
}

func LocalLocation(slot int, typ target.Type) *Location {
	return &Location{
		Kind: LocationLocal,
		Slot: slot,
		Type: typ,
	}
}

// FieldLocation returns the location of an instance field of a receiver.
func FieldLocation(receiver *Location, owner string, name string, typ target.Type) *Location {
	return &Location{
		Kind:     LocationField,
		Owner:    owner,
		Name:     name,
		Type:     typ,
		Receiver: receiver,
	}
}

// InstanceFieldName is the name of the static field holding the instance of an object.
const InstanceFieldName = "INSTANCE"

// StaticFieldLocation returns the location of a static field.
func StaticFieldLocation(owner string, name string, typ target.Type) *Location {
	return &Location{
		Kind:  LocationStaticField,
		Owner: owner,
		Name:  name,
		Type:  typ,
	}
}

func (l *Location) IsStaticField() bool {
	return l.Kind == LocationStaticField
}

// WithReceiver returns a copy of the location whose innermost receiver is replaced by the prefix.
// Locals and static fields are not relative to a receiver and are returned unchanged.
func (l *Location) WithReceiver(prefix *Location) *Location {
	if prefix == nil || l.Kind != LocationField {
		return l
	}
	result := *l
	if l.Receiver == nil || l.Receiver.Kind != LocationField {
		result.Receiver = prefix
	} else {
		result.Receiver = l.Receiver.WithReceiver(prefix)
	}
	return &result
}

// LoadInstructions returns the instructions that push the value on the stack.
func (l *Location) LoadInstructions() []opcode.Instruction {
	switch l.Kind {
	case LocationLocal:
		return []opcode.Instruction{
			opcode.InstructionLoad{Slot: l.Slot, Type: l.Type},
		}

	case LocationField:
		var instructions []opcode.Instruction
		if l.Receiver != nil {
			instructions = l.Receiver.LoadInstructions()
		}
		return append(instructions, opcode.InstructionGetField{
			Owner: l.Owner,
			Name:  l.Name,
			Type:  l.Type,
		})

	case LocationStaticField:
		return []opcode.Instruction{
			opcode.InstructionGetField{
				Owner:  l.Owner,
				Name:   l.Name,
				Type:   l.Type,
				Static: true,
			},
		}

	default:
		panic(errors.NewUnreachableError())
	}
}

func (l *Location) String() string {
	switch l.Kind {
	case LocationLocal:
		return "local" + strconv.Itoa(l.Slot)
	case LocationStaticField:
		return l.Owner + "." + l.Name
	case LocationField:
		var builder strings.Builder
		if l.Receiver != nil {
			builder.WriteString(l.Receiver.String())
			builder.WriteByte('.')
		}
		builder.WriteString(l.Name)
		return builder.String()
	default:
		return l.Kind.String()
	}
}

type cellState uint8

const (
	cellUnset cellState = iota
	cellInProgress
	cellDone
)

// lazyLocation is a cache cell computed on first access.
// A recursive computation of the same cell is an internal error.
type lazyLocation struct {
	state cellState
	value *Location
}

func (c *lazyLocation) get(compute func() *Location) *Location {
	switch c.state {
	case cellDone:
		return c.value
	case cellInProgress:
		panic(errors.NewUnexpectedError("recursive computation of lazy value"))
	}
	c.state = cellInProgress
	c.value = compute()
	c.state = cellDone
	return c.value
}
