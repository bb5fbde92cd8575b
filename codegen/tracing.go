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
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onflow/classgen/target/classbuilder"
)

const (
	tracingMethodEmit   = "method.emit"
	tracingBridgeEmit   = "bridge.emit"
	tracingDefaultEmit  = "default.emit"
	tracingAccessorEmit = "accessor.emit"
)

func (c *FunctionCodegen) reportEmitTrace(
	operation string,
	writer *classbuilder.MethodWriter,
	duration time.Duration,
) {
	config := c.config
	if config.OnRecordTrace == nil || writer == nil {
		return
	}
	config.OnRecordTrace(
		operation,
		duration,
		[]attribute.KeyValue{
			attribute.String("Owner", writer.Owner),
			attribute.String("Method", writer.Method.String()),
			attribute.String("Origin", writer.Origin.String()),
			attribute.Int("Instruction count", len(writer.Instructions)),
		},
	)
}

// traceEmit returns a function that reports the emission of the writer returned by the callback,
// or nil if tracing is disabled.
func (c *FunctionCodegen) traceEmit(operation string) func(writer *classbuilder.MethodWriter) {
	if !c.config.TracingEnabled {
		return nil
	}
	start := time.Now()
	return func(writer *classbuilder.MethodWriter) {
		c.reportEmitTrace(operation, writer, time.Since(start))
	}
}
