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
	"strings"

	"github.com/onflow/classgen/descriptors"
	"github.com/onflow/classgen/target"
	"github.com/onflow/classgen/target/classbuilder"
)

// SyntheticParameterAnnotation marks compiler-inserted parameters,
// so that reflection does not expose them.
const SyntheticParameterAnnotation = "Lrt/Synthetic;"

// annotationDescriptor returns the type descriptor of an annotation class.
func annotationDescriptor(fqName string) string {
	return target.ObjectTypeOf(strings.ReplaceAll(fqName, ".", "/")).Descriptor()
}

func visitAnnotations(writer *classbuilder.MethodWriter, annotations descriptors.Annotations) {
	for _, annotation := range annotations {
		writer.VisitAnnotation(annotationDescriptor(annotation.FqName), !annotation.Invisible)
	}
}

// generateMethodAnnotations writes the annotations of the function.
// Accessors also get the annotations of their property targeted at them.
func (c *FunctionCodegen) generateMethodAnnotations(writer *classbuilder.MethodWriter, function *descriptors.Function) {
	visitAnnotations(writer, function.Annotations.ForTarget(descriptors.UseSiteTargetNone))

	if property := function.Property; property != nil {
		switch function.FunctionKind {
		case descriptors.FunctionKindGetter:
			visitAnnotations(writer, property.Annotations.ForTarget(descriptors.UseSiteTargetPropertyGetter))
		case descriptors.FunctionKindSetter:
			visitAnnotations(writer, property.Annotations.ForTarget(descriptors.UseSiteTargetPropertySetter))
		}
	}
}

// generateParameterAnnotations writes the annotations of all parameters of the signature.
// Compiler-inserted parameters that have no counterpart in the declaration are marked synthetic.
func (c *FunctionCodegen) generateParameterAnnotations(
	writer *classbuilder.MethodWriter,
	function *descriptors.Function,
	signature target.MethodSignature,
) {
	annotable := 0
	for _, parameter := range signature.Parameters {
		if !parameter.Kind.IsSkippedInGenericSignature() {
			annotable++
		}
	}
	writer.VisitAnnotableParameterCount(annotable)

	valueIndex := 0
	for index, parameter := range signature.Parameters {
		switch parameter.Kind {
		case target.ParameterKindValue:
			valueParameter := function.ValueParameters[valueIndex]
			valueIndex++

			annotations := valueParameter.Annotations.ForTarget(descriptors.UseSiteTargetNone)
			switch {
			case function.IsConstructor():
				annotations = append(
					annotations,
					valueParameter.Annotations.ForTarget(descriptors.UseSiteTargetConstructorParameter)...,
				)
			case function.FunctionKind == descriptors.FunctionKindSetter && function.Property != nil:
				annotations = append(
					annotations,
					function.Property.Annotations.ForTarget(descriptors.UseSiteTargetSetterParameter)...,
				)
			}
			for _, annotation := range annotations {
				writer.VisitParameterAnnotation(index, annotationDescriptor(annotation.FqName), !annotation.Invisible)
			}

		case target.ParameterKindReceiver:
			receiver := extensionReceiverOf(function)
			if receiver == nil {
				continue
			}
			for _, annotation := range receiver.Annotations {
				writer.VisitParameterAnnotation(index, annotationDescriptor(annotation.FqName), !annotation.Invisible)
			}

		default:
			if parameter.Kind.IsSkippedInGenericSignature() && c.builder.Mode().GenerateBodies() {
				writer.VisitParameterAnnotation(index, SyntheticParameterAnnotation, false)
			}
		}
	}
}
