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

	"github.com/onflow/classgen/codegen/bridges"
)

// Config contains the code generator configuration that is safe to be re-used across classes.
type Config struct {
	// GenerateNotNullAssertions inserts run-time checks of non-null parameters
	// and of values returned by delegates that are declared non-null
	GenerateNotNullAssertions bool
	// Bridges configures the bridge planner, e.g. the list of special built-ins
	Bridges *bridges.Config
	// OnRecordTrace is called for every emitted method if TracingEnabled is set
	OnRecordTrace func(
		operation string,
		duration time.Duration,
		attrs []attribute.KeyValue,
	)
	TracingEnabled bool
}

func NewConfig() *Config {
	return &Config{
		GenerateNotNullAssertions: true,
		Bridges:                   bridges.DefaultConfig(),
	}
}

func (c *Config) bridges() *bridges.Config {
	if c.Bridges == nil {
		c.Bridges = bridges.DefaultConfig()
	}
	return c.Bridges
}
