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


// A utility program that compiles the functions of a YAML fixture
// and prints the emitted methods.
//
// Usage: classgen [-json] [-bindings] [-trace] [-run <function>] <unit.yaml> [<argument>...]

package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/pretty"
	"go.opentelemetry.io/otel/attribute"

	"github.com/onflow/classgen/codegen"
	"github.com/onflow/classgen/target/classbuilder"
)

var jsonFlag = flag.Bool("json", false, "print the emitted methods as JSON")
var bindingsFlag = flag.Bool("bindings", false, "print the CBOR-encoded serialization bindings as hex")
var traceFlag = flag.Bool("trace", false, "print emission and invocation traces to stderr")
var runFlag = flag.String("run", "", "invoke the given top-level function with the remaining arguments")

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: classgen [-json] [-bindings] [-trace] [-run <function>] <unit.yaml> [<argument>...]")
		os.Exit(2)
	}

	err := run(args[0], args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, colorizeError(err.Error()))
		os.Exit(1)
	}
}

func printTrace(operation string, duration time.Duration, attrs []attribute.KeyValue) {
	var builder strings.Builder
	builder.WriteString(operation)
	for _, attr := range attrs {
		builder.WriteByte(' ')
		builder.WriteString(string(attr.Key))
		builder.WriteByte('=')
		builder.WriteString(attr.Value.Emit())
	}
	fmt.Fprintf(os.Stderr, "%s (%s)\n", builder.String(), duration)
}

func run(path string, arguments []string) error {
	unit, err := ReadUnit(path)
	if err != nil {
		return fmt.Errorf("failed to read unit: %w", err)
	}

	config := codegen.NewConfig()
	var onTrace traceFunc
	if *traceFlag {
		onTrace = printTrace
		config.OnRecordTrace = onTrace
		config.TracingEnabled = true
	}

	output, err := Compile(context.Background(), unit, config)
	if err != nil {
		return err
	}

	if *runFlag != "" {
		result, typ, err := Run(output, *runFlag, arguments, onTrace)
		if err != nil {
			return err
		}
		fmt.Println(colorizeResult(FormatResult(result, typ)))
		return nil
	}

	if *bindingsFlag {
		encoded, err := output.Bindings.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode bindings: %w", err)
		}
		fmt.Println(hex.EncodeToString(encoded))
		return nil
	}

	if *jsonFlag {
		encoded, err := json.Marshal(NewReport(output.Builders))
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		encoded = pretty.Pretty(encoded)
		if useColors {
			encoded = pretty.Color(encoded, nil)
		}
		_, err = os.Stdout.Write(encoded)
		return err
	}

	for _, builder := range output.Builders {
		for _, method := range builder.Methods() {
			fmt.Println(colorizeDisassembly(method.Disassemble()))
		}
	}
	return nil
}

// Report is the JSON form of the emitted classes.
type Report struct {
	Classes []ClassReport `json:"classes"`
}

type ClassReport struct {
	Name    string         `json:"name"`
	Methods []MethodReport `json:"methods"`
}

type MethodReport struct {
	Name             string   `json:"name"`
	Descriptor       string   `json:"descriptor"`
	Flags            string   `json:"flags"`
	Origin           string   `json:"origin,omitempty"`
	GenericSignature string   `json:"genericSignature,omitempty"`
	Exceptions       []string `json:"exceptions,omitempty"`
	Annotations      []string `json:"annotations,omitempty"`
	Code             []string `json:"code,omitempty"`
	Locals           []string `json:"locals,omitempty"`
	MaxStack         int      `json:"maxStack"`
	MaxLocals        int      `json:"maxLocals"`
}

func NewReport(builders []*classbuilder.ClassBuilder) Report {
	report := Report{
		Classes: make([]ClassReport, 0, len(builders)),
	}

	for _, builder := range builders {
		class := ClassReport{
			Name: builder.InternalName(),
		}

		for _, writer := range builder.Methods() {
			method := MethodReport{
				Name:             writer.Method.Name,
				Descriptor:       writer.Method.Descriptor(),
				Flags:            writer.Flags.String(),
				Origin:           writer.Origin.String(),
				GenericSignature: writer.GenericSignature,
				Exceptions:       writer.Exceptions,
				MaxStack:         writer.MaxStack,
				MaxLocals:        writer.MaxLocals,
			}

			for _, annotation := range writer.Annotations {
				method.Annotations = append(method.Annotations, annotation.Descriptor)
			}

			for _, instruction := range writer.Instructions {
				var builder strings.Builder
				builder.WriteString(instruction.Opcode().String())
				var operands strings.Builder
				instruction.OperandsString(&operands)
				if operands.Len() > 0 {
					builder.WriteByte(' ')
					builder.WriteString(operands.String())
				}
				method.Code = append(method.Code, builder.String())
			}

			for _, local := range writer.LocalVariables {
				method.Locals = append(
					method.Locals,
					fmt.Sprintf("%d %s %s", local.Slot, local.Name, local.Type.Descriptor()),
				)
			}

			class.Methods = append(class.Methods, method)
		}

		report.Classes = append(report.Classes, class)
	}

	return report
}
