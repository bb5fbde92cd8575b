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
	"fmt"

	"github.com/onflow/classgen/errors"
)

// FunctionHandle is a function in an override hierarchy.
type FunctionHandle[F any] interface {
	comparable
	// IsDeclaration is true if the function has code in its class
	IsDeclaration() bool
	IsAbstract() bool
	// MayBeUsedAsSuperImplementation is false for functions of interfaces
	MayBeUsedAsSuperImplementation() bool
	Overridden() []F
}

// Bridge forwards calls of one signature to another.
type Bridge[S comparable] struct {
	From S
	To   S
}

func (b Bridge[S]) String() string {
	return fmt.Sprintf("bridge %v -> %v", b.From, b.To)
}

// Generate returns the bridges a function needs, in a deterministic order:
// one bridge from the signature of every declaration the function overrides
// to the signature of its implementation, except for signatures equal to the implementation's.
//
// Abstract functions get no bridges, the implementing functions do.
// A fake override inherits the bridges of its concrete super-functions.
func Generate[F FunctionHandle[F], S comparable](function F, signature func(F) S) []Bridge[S] {
	if function.IsAbstract() {
		return nil
	}

	fake := !function.IsDeclaration()

	implementation := FindConcreteSuperDeclaration(function)

	bridgesToGenerate := newSignatureSet[S]()
	for _, declaration := range FindAllReachableDeclarations(function) {
		bridgesToGenerate.add(signature(declaration))
	}

	if fake {
		// bridges reachable from a concrete super-function are generated in its class,
		// and they delegate to the same implementation
		for _, overridden := range function.Overridden() {
			if overridden.IsAbstract() {
				continue
			}
			for _, declaration := range FindAllReachableDeclarations(overridden) {
				bridgesToGenerate.remove(signature(declaration))
			}
		}
	}

	method := signature(implementation)
	bridgesToGenerate.remove(method)

	signatures := bridgesToGenerate.values()
	bridges := make([]Bridge[S], 0, len(signatures))
	for _, from := range signatures {
		bridges = append(bridges, Bridge[S]{
			From: from,
			To:   method,
		})
	}
	return bridges
}

// FindAllReachableDeclarations returns the declarations among the function and all functions it overrides,
// in depth-first post-order.
func FindAllReachableDeclarations[F FunctionHandle[F]](function F) []F {
	var result []F
	visited := map[F]struct{}{}

	var visit func(current F)
	visit = func(current F) {
		if _, ok := visited[current]; ok {
			return
		}
		visited[current] = struct{}{}

		for _, overridden := range current.Overridden() {
			visit(overridden)
		}

		if current.IsDeclaration() {
			result = append(result, current)
		}
	}

	visit(function)

	return result
}

// FindConcreteSuperDeclaration returns the implementation of a concrete function:
// the function itself if it is a declaration, otherwise the only concrete declaration
// reachable from it that no other reachable declaration overrides.
func FindConcreteSuperDeclaration[F FunctionHandle[F]](function F) F {
	if function.IsAbstract() {
		panic(errors.NewUnexpectedError("only concrete functions have implementations: %v", function))
	}

	if function.IsDeclaration() {
		return function
	}

	var concrete []F
	for _, declaration := range FindAllReachableDeclarations(function) {
		if !declaration.IsAbstract() {
			concrete = append(concrete, declaration)
		}
	}

	overriddenByOthers := map[F]struct{}{}
	for _, declaration := range concrete {
		for _, reachable := range FindAllReachableDeclarations(declaration) {
			if reachable != declaration {
				overriddenByOthers[reachable] = struct{}{}
			}
		}
	}

	var relevant []F
	for _, declaration := range concrete {
		if _, ok := overriddenByOthers[declaration]; ok {
			continue
		}
		if !declaration.MayBeUsedAsSuperImplementation() {
			continue
		}
		relevant = append(relevant, declaration)
	}

	if len(relevant) != 1 {
		panic(errors.NewUnexpectedError(
			"concrete fake override %v should have exactly one concrete super-declaration: %v",
			function,
			relevant,
		))
	}

	return relevant[0]
}

// signatureSet is an insertion-ordered set supporting removal.
type signatureSet[S comparable] struct {
	order   []S
	present map[S]bool
}

func newSignatureSet[S comparable]() *signatureSet[S] {
	return &signatureSet[S]{
		present: map[S]bool{},
	}
}

func (s *signatureSet[S]) add(signature S) {
	if _, ok := s.present[signature]; ok {
		s.present[signature] = true
		return
	}
	s.order = append(s.order, signature)
	s.present[signature] = true
}

func (s *signatureSet[S]) remove(signature S) {
	if _, ok := s.present[signature]; ok {
		s.present[signature] = false
	}
}

func (s *signatureSet[S]) contains(signature S) bool {
	return s.present[signature]
}

func (s *signatureSet[S]) values() []S {
	result := make([]S, 0, len(s.order))
	for _, signature := range s.order {
		if s.present[signature] {
			result = append(result, signature)
		}
	}
	return result
}
