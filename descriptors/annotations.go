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

// UseSiteTarget restricts an annotation to one of the elements
// generated for a declaration.
type UseSiteTarget uint8

const (
	UseSiteTargetNone UseSiteTarget = iota
	UseSiteTargetField
	UseSiteTargetProperty
	UseSiteTargetPropertyGetter
	UseSiteTargetPropertySetter
	UseSiteTargetReceiver
	UseSiteTargetConstructorParameter
	UseSiteTargetSetterParameter
)

const (
	DeprecatedAnnotation = "lang.Deprecated"
	OverloadsAnnotation  = "lang.Overloads"
)

type Annotation struct {
	FqName    string
	Target    UseSiteTarget
	Arguments map[string]any
	// Invisible annotations are kept in the output but not exposed at run time.
	Invisible bool
}

type Annotations []Annotation

// Has reports whether an annotation with the given name is present, regardless of its target.
func (a Annotations) Has(fqName string) bool {
	for _, annotation := range a {
		if annotation.FqName == fqName {
			return true
		}
	}
	return false
}

// ForTarget returns the annotations that apply to the given use-site target.
// Annotations without an explicit target apply to UseSiteTargetNone only.
func (a Annotations) ForTarget(target UseSiteTarget) Annotations {
	var result Annotations
	for _, annotation := range a {
		if annotation.Target == target {
			result = append(result, annotation)
		}
	}
	return result
}
