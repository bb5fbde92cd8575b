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
	"github.com/onflow/classgen/errors"
	"github.com/onflow/classgen/target"
)

type Config struct {
	// Specials is the allowlist of built-in members that need special bridges
	Specials []Special
	// StrictRedundantProjection rejects planned bridges that forward a method to itself,
	// instead of dropping them
	StrictRedundantProjection bool

	table *specialsTable
}

func NewConfig(specials []Special, strictRedundantProjection bool) *Config {
	table := newSpecialsTable(specials)
	return &Config{
		Specials:                  specials,
		StrictRedundantProjection: strictRedundantProjection,
		table:                     &table,
	}
}

// DefaultConfig returns a configuration with the built-in allowlist.
func DefaultConfig() *Config {
	return NewConfig(mustParseDefaultSpecials(), false)
}

// specials returns the lookup table of the allowlist.
// The allowlist must not be changed after the first lookup.
func (c *Config) specials() *specialsTable {
	if c.table == nil {
		table := newSpecialsTable(c.Specials)
		c.table = &table
	}
	return c.table
}

// LookupSpecial returns the allowlist entry of a built-in member.
func (c *Config) LookupSpecial(function *descriptors.Function) (Special, bool) {
	return c.specials().lookup(specialKey(function.GetOriginal()))
}

// OverriddenSpecial returns the allowlisted built-in member the function overrides, if any.
func (c *Config) OverriddenSpecial(function *descriptors.Function) (*descriptors.Function, Special, bool) {
	for _, declaration := range FindAllReachableDeclarations(HandleOf(function)) {
		builtin := declaration.Function()
		if special, ok := c.LookupSpecial(builtin); ok {
			return builtin, special, true
		}
	}
	return nil, Special{}, false
}

// MethodBridge is a planned bridge method.
type MethodBridge struct {
	From target.Method
	To   target.Method
	// Special bridges override an allowlisted built-in member
	Special bool
	// DelegateToSuper bridges call the implementation in the superclass non-virtually
	DelegateToSuper bool
}

// Plan is the set of bridges of a function.
type Plan struct {
	Bridges []MethodBridge
	// Special is the allowlist entry of the built-in member the function overrides
	Special *Special
	// Builtin is the overridden allowlisted built-in member
	Builtin *descriptors.Function
	// AbstractStub is set if an abstract stub with the target shape of the built-in member
	// must be emitted, because the function is an abstract fake override
	AbstractStub target.Method
	HasAbstractStub bool
}

// NeedsBridges is false for functions that never get bridges:
// constructors, functions of interfaces, methods of Any and synthesized functions.
func NeedsBridges(function *descriptors.Function) bool {
	return !function.IsConstructor() &&
		!descriptors.IsInterface(function.Owner) &&
		!descriptors.IsMethodOfAny(function) &&
		!descriptors.IsOrOverridesSynthesized(function)
}

// PlanBridges computes the bridges of a function,
// using the given mapping from functions to target methods.
func (c *Config) PlanBridges(
	function *descriptors.Function,
	signature func(*descriptors.Function) target.Method,
) Plan {
	if !NeedsBridges(function) {
		return Plan{}
	}

	builtin, special, isSpecial := c.OverriddenSpecial(function)

	if isSpecial && special.IsRenamed() {
		plan := Plan{
			Special: &special,
			Builtin: builtin,
		}
		plan.Bridges = c.filterRedundant(c.builtinSpecialBridges(function, builtin, special, signature))

		if !function.Kind.IsReal() &&
			function.Modality == descriptors.ModalityAbstract {

			plan.AbstractStub = renamed(signature(builtin), special)
			plan.HasAbstractStub = true
		}
		return plan
	}

	key := func(handle DescriptorHandle) target.MethodKey {
		return signature(handle.Function()).Key()
	}

	bridges := Generate(HandleOf(function), key)

	methodBridges := make([]MethodBridge, 0, len(bridges))
	for _, bridge := range bridges {
		methodBridges = append(methodBridges, MethodBridge{
			From:    bridge.From.Method(),
			To:      bridge.To.Method(),
			Special: isSpecial,
		})
	}

	plan := Plan{
		Bridges: c.filterRedundant(methodBridges),
	}
	if isSpecial {
		plan.Special = &special
		plan.Builtin = builtin
	}
	return plan
}

// builtinSpecialBridges plans the bridges of a function overriding a renamed built-in member:
// a special bridge from the target shape of the built-in member to the function,
// plain bridges from all other reachable shapes, and a stub delegating to the superclass
// if the inherited implementation already has the target shape.
func (c *Config) builtinSpecialBridges(
	function *descriptors.Function,
	builtin *descriptors.Function,
	special Special,
	signature func(*descriptors.Function) target.Method,
) []MethodBridge {

	handle := HandleOf(function)
	if handle.IsAbstract() {
		return nil
	}

	methodItself := signature(function)
	specialShape := renamed(signature(builtin), special)

	fake := !handle.IsDeclaration()

	needSpecialBridge := methodItself.Key() != specialShape.Key()

	var superImplementation target.Method
	delegateToSuper := false

	if fake {
		implementation := FindConcreteSuperDeclaration(handle).Function()
		superImplementation = signature(implementation)

		switch superImplementation.Key() {
		case specialShape.Key():
			// the superclass implements the target shape directly
			needSpecialBridge = false
			delegateToSuper = methodItself.Key() != specialShape.Key()

		case methodItself.Key():
			// the superclass already has the special bridge
			needSpecialBridge = false
		}
	}

	common := newSignatureSet[target.MethodKey]()
	for _, declaration := range FindAllReachableDeclarations(handle) {
		common.add(signature(declaration.Function()).Key())
	}

	if fake {
		for _, overridden := range handle.Overridden() {
			if overridden.IsAbstract() {
				continue
			}
			for _, declaration := range FindAllReachableDeclarations(overridden) {
				common.remove(signature(declaration.Function()).Key())
			}
		}
	}

	common.remove(methodItself.Key())
	common.remove(specialShape.Key())

	var result []MethodBridge

	if needSpecialBridge {
		result = append(result, MethodBridge{
			From:    specialShape,
			To:      methodItself,
			Special: true,
		})
	}

	if delegateToSuper {
		result = append(result, MethodBridge{
			From:            methodItself,
			To:              superImplementation,
			DelegateToSuper: true,
		})
	}

	for _, from := range common.values() {
		result = append(result, MethodBridge{
			From: from.Method(),
			To:   methodItself,
		})
	}

	return result
}

func (c *Config) filterRedundant(bridges []MethodBridge) []MethodBridge {
	result := bridges[:0]
	for _, bridge := range bridges {
		if bridge.From.Key() == bridge.To.Key() {
			if c.StrictRedundantProjection {
				panic(errors.NewUnexpectedError("redundant bridge: %s", bridge.From))
			}
			continue
		}
		result = append(result, bridge)
	}
	return result
}

func renamed(method target.Method, special Special) target.Method {
	if special.IsRenamed() {
		method.Name = special.TargetName
	}
	return method
}
