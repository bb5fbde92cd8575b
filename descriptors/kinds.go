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

package descriptors

//go:generate go run golang.org/x/tools/cmd/stringer -type=Visibility -trimprefix=Visibility
//go:generate go run golang.org/x/tools/cmd/stringer -type=Modality -trimprefix=Modality
//go:generate go run golang.org/x/tools/cmd/stringer -type=CallableKind -trimprefix=CallableKind
//go:generate go run golang.org/x/tools/cmd/stringer -type=ClassKind -trimprefix=ClassKind

type Visibility uint8

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityInternal
	VisibilityPrivate
	// VisibilityPrivateToThis is private to the receiver instance,
	// e.g. members using contravariant type parameters in invariant positions.
	VisibilityPrivateToThis
	VisibilityLocal
)

func (v Visibility) IsPrivate() bool {
	return v == VisibilityPrivate || v == VisibilityPrivateToThis
}

type Modality uint8

const (
	ModalityFinal Modality = iota
	ModalitySealed
	ModalityOpen
	ModalityAbstract
)

// CallableKind tells how a callable member came into existence.
type CallableKind uint8

const (
	CallableKindDeclaration CallableKind = iota
	CallableKindFakeOverride
	CallableKindDelegation
	CallableKindSynthesized
)

// IsReal is true for members that are backed by code in the owning class.
func (k CallableKind) IsReal() bool {
	return k != CallableKindFakeOverride
}

type ClassKind uint8

const (
	ClassKindClass ClassKind = iota
	ClassKindInterface
	ClassKindEnumClass
	ClassKindEnumEntry
	ClassKindAnnotationClass
	ClassKindObject
)

func (k ClassKind) IsSingleton() bool {
	return k == ClassKindObject || k == ClassKindEnumEntry
}
