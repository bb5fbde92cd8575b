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


// A utility program that decodes serialization bindings from their hex-encoded representation,
// as printed by `classgen -bindings`. Given two encodings, it reports the differences.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/onflow/classgen/target/classbuilder"
)

func decodeBindings(argument string) []classbuilder.BindingRecord {
	data, err := hex.DecodeString(argument)
	if err != nil {
		panic(fmt.Errorf("failed to parse data of bindings: %w", err))
	}

	records, err := classbuilder.DecodeBindings(data)
	if err != nil {
		panic(fmt.Errorf("failed to decode bindings: %w", err))
	}
	return records
}

func printBindings(records []classbuilder.BindingRecord) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	for _, record := range records {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", record.Kind, record.Declaration, record.Value)
		if err != nil {
			panic(err)
		}
	}
	err := w.Flush()
	if err != nil {
		panic(err)
	}
}

func main() {
	if len(os.Args) < 2 {
		panic("Usage: decode-bindings <data-hex> [<data-hex>]")
	}

	records1 := decodeBindings(os.Args[1])
	printBindings(records1)
	fmt.Println()

	if len(os.Args) > 2 {
		records2 := decodeBindings(os.Args[2])
		printBindings(records2)
		fmt.Println()

		if !compareBindings(records1, records2) {
			fmt.Printf("Bindings are different!\n")
			os.Exit(1)
		}
	}
}

func compareBindings(records1 []classbuilder.BindingRecord, records2 []classbuilder.BindingRecord) bool {
	if len(records1) != len(records2) {
		fmt.Printf("Different count: %d vs %d\n", len(records1), len(records2))
	}

	index := func(records []classbuilder.BindingRecord) map[string]string {
		result := make(map[string]string, len(records))
		for _, record := range records {
			result[record.Kind+" "+record.Declaration] = record.Value
		}
		return result
	}

	entries1 := index(records1)
	entries2 := index(records2)

	equal := len(records1) == len(records2)

	for key, value1 := range entries1 { //nolint:maprange
		value2, ok := entries2[key]
		if !ok {
			fmt.Printf("Only in 1: %s = %s\n", key, value1)
			equal = false
			continue
		}
		if value1 != value2 {
			fmt.Printf("Different value for %s: %s vs %s\n", key, value1, value2)
			equal = false
		}
	}

	for key, value2 := range entries2 { //nolint:maprange
		if _, ok := entries1[key]; !ok {
			fmt.Printf("Only in 2: %s = %s\n", key, value2)
			equal = false
		}
	}

	return equal
}
