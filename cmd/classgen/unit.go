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


package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/target/classbuilder"
)

// Unit is a compilation unit read from a YAML fixture:
// the top-level functions of one package and its classes.
type Unit struct {
	Package           string            `yaml:"package"`
	Mode              string            `yaml:"mode"`
	NotNullAssertions *bool             `yaml:"notNullAssertions"`
	Functions         []FunctionFixture `yaml:"functions"`
	Classes           []ClassFixture    `yaml:"classes"`
}

type ClassFixture struct {
	Name      string            `yaml:"name"`
	Open      bool              `yaml:"open"`
	Functions []FunctionFixture `yaml:"functions"`
}

type FunctionFixture struct {
	Name       string             `yaml:"name"`
	Visibility string             `yaml:"visibility"`
	Returns    string             `yaml:"returns"`
	Parameters []ParameterFixture `yaml:"parameters"`
	Overloads  bool               `yaml:"overloads"`
	Deprecated bool               `yaml:"deprecated"`
	Body       *BodyFixture       `yaml:"body"`
}

type ParameterFixture struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default any    `yaml:"default"`
}

// BodyFixture is the body of a function: it either returns one of the parameters,
// or a constant. A function without body is abstract.
type BodyFixture struct {
	Return   string `yaml:"return"`
	Constant any    `yaml:"constant"`
}

func ParseUnit(data []byte) (*Unit, error) {
	var unit Unit
	err := yaml.UnmarshalWithOptions(data, &unit, yaml.DisallowUnknownField())
	if err != nil {
		return nil, err
	}
	if unit.Package == "" {
		return nil, fmt.Errorf("missing package name")
	}
	return &unit, nil
}

func ReadUnit(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseUnit(data)
}

func (u *Unit) BuilderMode() (classbuilder.Mode, error) {
	switch u.Mode {
	case "", "full":
		return classbuilder.ModeFull, nil
	case "light":
		return classbuilder.ModeLightClasses, nil
	default:
		return 0, unknownNameError("mode", u.Mode, []string{"full", "light"})
	}
}

// UnknownNameError is reported for names in a fixture that do not resolve.
type UnknownNameError struct {
	Kind       string
	Name       string
	Suggestion string
}

func (e *UnknownNameError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown %s `%s`", e.Kind, e.Name)
	}
	return fmt.Sprintf("unknown %s `%s`. did you mean `%s`?", e.Kind, e.Name, e.Suggestion)
}

func unknownNameError(kind string, name string, candidates []string) *UnknownNameError {
	return &UnknownNameError{
		Kind:       kind,
		Name:       name,
		Suggestion: closestName(name, candidates),
	}
}

// closestName returns the candidate with the smallest edit distance to the name,
// unless reaching it requires replacing the whole candidate.
func closestName(name string, candidates []string) string {
	nameRunes := []rune(name)

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	closest := ""
	closestDistance := len(name)

	for _, candidate := range sorted {
		distance := levenshtein.DistanceForStrings(
			nameRunes,
			[]rune(candidate),
			levenshtein.DefaultOptions,
		)

		if distance < closestDistance && distance < len(candidate) {
			closest = candidate
			closestDistance = distance
		}
	}

	return closest
}

var builtinTypes = map[string]*descriptors.Class{
	"Any":     descriptors.AnyClass,
	"Unit":    descriptors.UnitClass,
	"Boolean": descriptors.BooleanClass,
	"Int":     descriptors.IntClass,
	"Long":    descriptors.LongClass,
	"Double":  descriptors.DoubleClass,
	"String":  descriptors.StringClass,
}

var visibilities = map[string]descriptors.Visibility{
	"":          descriptors.VisibilityPublic,
	"public":    descriptors.VisibilityPublic,
	"protected": descriptors.VisibilityProtected,
	"internal":  descriptors.VisibilityInternal,
	"private":   descriptors.VisibilityPrivate,
}

// Declarations are the descriptors built from a unit.
type Declarations struct {
	Package   *descriptors.PackageFragment
	Functions []*Declared
	Classes   []*DeclaredClass
}

type DeclaredClass struct {
	Class     *descriptors.Class
	Functions []*Declared
}

// Declared is a function together with the fixture it was built from.
type Declared struct {
	Function *descriptors.Function
	Fixture  FunctionFixture
}

type resolver struct {
	classes map[string]*descriptors.Class
}

func (r *resolver) resolveType(name string) (*descriptors.Type, error) {
	if name == "" {
		return descriptors.UnitType(), nil
	}

	nullable := strings.HasSuffix(name, "?")
	name = strings.TrimSuffix(name, "?")

	class, ok := builtinTypes[name]
	if !ok {
		class, ok = r.classes[name]
	}
	if !ok {
		candidates := make([]string, 0, len(builtinTypes)+len(r.classes))
		for candidate := range builtinTypes {
			candidates = append(candidates, candidate)
		}
		for candidate := range r.classes {
			candidates = append(candidates, candidate)
		}
		return nil, unknownNameError("type", name, candidates)
	}

	typ := class.DefaultType()
	if nullable {
		typ = typ.MakeNullable()
	}
	return typ, nil
}

func (r *resolver) function(owner descriptors.Declaration, fixture FunctionFixture) (*descriptors.Function, error) {
	if fixture.Name == "" {
		return nil, fmt.Errorf("function in %s has no name", owner)
	}

	returnType, err := r.resolveType(fixture.Returns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fixture.Name, err)
	}

	parameters := make([]*descriptors.ValueParameter, 0, len(fixture.Parameters))
	for _, parameterFixture := range fixture.Parameters {
		typ, err := r.resolveType(parameterFixture.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", fixture.Name, parameterFixture.Name, err)
		}
		if parameterFixture.Default != nil {
			parameters = append(parameters, descriptors.NewParameterWithDefault(parameterFixture.Name, typ))
		} else {
			parameters = append(parameters, descriptors.NewParameter(parameterFixture.Name, typ))
		}
	}

	function := descriptors.NewFunction(owner, fixture.Name, returnType, parameters...)

	visibility, ok := visibilities[fixture.Visibility]
	if !ok {
		return nil, unknownNameError("visibility", fixture.Visibility, []string{"public", "protected", "internal", "private"})
	}
	function.Visibility = visibility

	if fixture.Body == nil {
		function.Modality = descriptors.ModalityAbstract
	}
	if fixture.Overloads {
		function.Annotations = append(function.Annotations, descriptors.Annotation{FqName: descriptors.OverloadsAnnotation})
	}
	if fixture.Deprecated {
		function.Annotations = append(function.Annotations, descriptors.Annotation{FqName: descriptors.DeprecatedAnnotation})
	}

	return function, nil
}

// Declare builds the descriptors of the unit.
func (u *Unit) Declare() (*Declarations, error) {
	pkg := descriptors.NewPackage(u.Package)
	declarations := &Declarations{Package: pkg}

	r := &resolver{classes: map[string]*descriptors.Class{}}

	for _, classFixture := range u.Classes {
		class := descriptors.NewClass(pkg, classFixture.Name, descriptors.ClassKindClass)
		class.SuperClass = descriptors.AnyClass
		if classFixture.Open {
			class.Modality = descriptors.ModalityOpen
		}
		r.classes[classFixture.Name] = class
		declarations.Classes = append(declarations.Classes, &DeclaredClass{Class: class})
	}

	for i, classFixture := range u.Classes {
		declaredClass := declarations.Classes[i]
		for _, fixture := range classFixture.Functions {
			function, err := r.function(declaredClass.Class, fixture)
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", classFixture.Name, err)
			}
			if function.Modality == descriptors.ModalityAbstract {
				declaredClass.Class.Modality = descriptors.ModalityAbstract
			}
			declaredClass.Functions = append(declaredClass.Functions, &Declared{Function: function, Fixture: fixture})
		}
	}

	for _, fixture := range u.Functions {
		function, err := r.function(pkg, fixture)
		if err != nil {
			return nil, err
		}
		if fixture.Body == nil {
			return nil, fmt.Errorf("top-level function %s has no body", fixture.Name)
		}
		declarations.Functions = append(declarations.Functions, &Declared{Function: function, Fixture: fixture})
	}

	return declarations, nil
}

// Lookup finds a top-level function by name.
func (d *Declarations) Lookup(name string) (*Declared, error) {
	names := make([]string, 0, len(d.Functions))
	for _, declared := range d.Functions {
		if declared.Function.Identifier == name {
			return declared, nil
		}
		names = append(names, declared.Function.Identifier)
	}
	return nil, unknownNameError("function", name, names)
}
