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
	_ "embed"
	"fmt"

	"github.com/SaveTheRbtz/mph"
	"github.com/goccy/go-yaml"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/errors"
)

type SpecialKind string

const (
	// SpecialKindErasedParameters is a member whose target method
	// takes the erasure of a type parameter
	SpecialKindErasedParameters SpecialKind = "erased-parameters"
	// SpecialKindRenamed is a member whose target method has a different name
	SpecialKindRenamed SpecialKind = "renamed"
)

// Special is an entry of the allowlist of built-in members
// that need special bridges.
type Special struct {
	Owner      string      `yaml:"owner"`
	Name       string      `yaml:"name"`
	Kind       SpecialKind `yaml:"kind"`
	TargetName string      `yaml:"targetName"`
	// Sentinel is returned by the type check of erased-parameter bridges.
	// The zero value of the return type is returned if it is nil.
	Sentinel *int32 `yaml:"sentinel"`
}

func (s Special) Key() string {
	return s.Owner + "." + s.Name
}

func (s Special) HasErasedParameters() bool {
	return s.Kind == SpecialKindErasedParameters
}

func (s Special) IsRenamed() bool {
	return s.Kind == SpecialKindRenamed
}

type specialsFile struct {
	Specials []Special `yaml:"specials"`
}

//go:embed specials.yaml
var defaultSpecials string

// ParseSpecials parses an allowlist of special built-in members.
func ParseSpecials(data []byte) ([]Special, error) {
	var file specialsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for _, special := range file.Specials {
		switch special.Kind {
		case SpecialKindErasedParameters:
		case SpecialKindRenamed:
			if special.TargetName == "" {
				return nil, fmt.Errorf("renamed member %s has no target name", special.Key())
			}
		default:
			return nil, fmt.Errorf("unknown kind of special member %s: %q", special.Key(), special.Kind)
		}
	}

	return file.Specials, nil
}

// specialsTable looks up allowlist entries by the qualified name of the member.
type specialsTable struct {
	specials []Special
	table    *mph.Table
}

func newSpecialsTable(specials []Special) specialsTable {
	if len(specials) == 0 {
		return specialsTable{}
	}

	keys := make([]string, 0, len(specials))
	for _, special := range specials {
		keys = append(keys, special.Key())
	}

	return specialsTable{
		specials: specials,
		table:    mph.Build(keys),
	}
}

func (t specialsTable) lookup(key string) (Special, bool) {
	if t.table == nil {
		return Special{}, false
	}
	index, ok := t.table.Lookup(key)
	if !ok {
		return Special{}, false
	}
	return t.specials[index], true
}

func specialKey(function *descriptors.Function) string {
	name := function.Identifier
	if function.Property != nil {
		name = function.Property.Identifier
	}
	return descriptors.FqName(function.Owner) + "." + name
}

func mustParseDefaultSpecials() []Special {
	specials, err := ParseSpecials([]byte(defaultSpecials))
	if err != nil {
		panic(errors.NewUnexpectedErrorFromCause(err))
	}
	return specials
}
