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
	"context"

	"github.com/onflow/classgen/codegen/bridges"
	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/mapping"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
	"github.com/onflow/classgen/target/opcode"
)

// GenerateBridges emits the bridges of a function, and the abstract stub
// of an allowlisted built-in member the function overrides without implementing it.
// Bridges that were already emitted into the class are skipped.
func (c *FunctionCodegen) GenerateBridges(ctx context.Context, function *descriptors.Function) (err error) {
	defer recoverError(&err)

	if function.IsConstructor() ||
		c.owner.OwnerKind == mapping.OwnerKindDefaultImpls {

		return nil
	}

	plan := c.config.bridges().PlanBridges(function, c.implementationMethod)

	for _, bridge := range plan.Bridges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.builder.HasMethod(bridge.From.Key()) {
			continue
		}
		err := c.generateBridge(function, bridge, plan.Special)
		if err != nil {
			return err
		}
	}

	if plan.HasAbstractStub && !c.builder.HasMethod(plan.AbstractStub.Key()) {
		flags := target.AccAbstract | mapping.VisibilityAccessFlag(function.Visibility)
		writer := c.builder.NewMethod(
			classbuilder.OtherOrigin(plan.Builtin),
			flags,
			plan.AbstractStub,
			"",
			nil,
		)
		if err := endVisit(writer, "abstract stub", plan.Builtin); err != nil {
			return err
		}
	}

	return nil
}

func (c *FunctionCodegen) implementationMethod(function *descriptors.Function) target.Method {
	return c.mapper.MapSignature(function, mapping.OwnerKindImplementation).Method
}

func bridgeFlags(bridge bridges.MethodBridge) target.AccessFlags {
	flags := target.AccPublic | target.AccBridge
	if !bridge.Special && !bridge.DelegateToSuper {
		flags |= target.AccSynthetic
	}
	if bridge.Special {
		flags |= target.AccFinal
	}
	return flags
}

func (c *FunctionCodegen) generateBridge(
	function *descriptors.Function,
	bridge bridges.MethodBridge,
	special *bridges.Special,
) error {
	trace := c.traceEmit(tracingBridgeEmit)

	writer := c.builder.NewMethod(
		classbuilder.BridgeOrigin(function),
		bridgeFlags(bridge),
		bridge.From,
		"",
		nil,
	)

	if trace != nil {
		defer trace(writer)
	}

	return c.withinMethod(writer, "bridge method", function, func() error {
		if !c.builder.Mode().GenerateBodies() {
			return nil
		}

		writer.VisitCode()

		v := NewInstructionAdapter(writer)

		label := v.NewLabel()
		v.Mark(label)
		v.LineNumber(1)

		from := bridge.From
		to := bridge.To

		if bridge.Special &&
			special != nil &&
			special.HasErasedParameters() &&
			len(from.ArgumentTypes) > 0 &&
			from.ArgumentTypes[0].Sort() == target.SortObject {

			c.generateTypeCheckBarrier(v, function, from, to, special)
		}

		v.Load(0, target.ObjectType)

		slot := 1
		for index, argumentType := range from.ArgumentTypes {
			v.Load(slot, argumentType)
			v.Coerce(argumentType, to.ArgumentTypes[index])
			slot += argumentType.Size()
		}

		if bridge.DelegateToSuper {
			v.Invoke(opcode.InvokeSpecial, c.superClassInternalName(function), to)
		} else {
			v.Invoke(opcode.InvokeVirtual, c.builder.InternalName(), to)
		}

		v.Coerce(to.ReturnType, from.ReturnType)
		v.Return(from.ReturnType)

		return nil
	})
}

func (c *FunctionCodegen) superClassInternalName(function *descriptors.Function) string {
	class, ok := function.Owner.(*descriptors.Class)
	if !ok {
		return target.ObjectInternalName
	}
	superClass := descriptors.SuperClassOf(class)
	if superClass == nil {
		return target.ObjectInternalName
	}
	return c.mapper.MapClass(superClass).InternalName()
}

// generateTypeCheckBarrier returns the sentinel of the special built-in member
// if the first argument is not an instance of the type the implementation expects.
// Null passes the check if the declared parameter type is nullable.
func (c *FunctionCodegen) generateTypeCheckBarrier(
	v *InstructionAdapter,
	function *descriptors.Function,
	from target.Method,
	to target.Method,
	special *bridges.Special,
) {
	typeToCheck := target.BoxType(to.ArgumentTypes[0])

	v.Load(1, target.ObjectType)

	if len(function.ValueParameters) > 0 && function.ValueParameters[0].Type.IsNullable() {
		nope := v.NewLabel()
		end := v.NewLabel()

		v.Dup()
		v.IfNull(nope)
		v.InstanceOf(typeToCheck)
		v.Goto(end)

		v.Mark(nope)
		v.Pop(target.ObjectType)
		v.IConst(1)

		v.Mark(end)
	} else {
		v.InstanceOf(typeToCheck)
	}

	afterBarrier := v.NewLabel()
	v.IfNe(afterBarrier)

	returnType := from.ReturnType
	if special.Sentinel != nil {
		v.IConst(*special.Sentinel)
		v.Coerce(target.IntType, returnType)
	} else {
		v.PushDefault(returnType)
	}
	v.Return(returnType)

	v.Mark(afterBarrier)
}
