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
	"os"
	"strings"

	"github.com/logrusorgru/aurora/v4"
	"github.com/mattn/go-isatty"
)

var useColors = isatty.IsTerminal(os.Stdout.Fd())

func colorize(str string, color aurora.Color) string {
	if !useColors {
		return str
	}
	return aurora.Colorize(str, color).String()
}

func colorizeResult(str string) string {
	return colorize(str, aurora.YellowFg|aurora.BrightFg)
}

func colorizeError(message string) string {
	return colorize(message, aurora.RedFg|aurora.BrightFg|aurora.BoldFm)
}

// colorizeDisassembly highlights method headers and annotations.
func colorizeDisassembly(disassembly string) string {
	if !useColors {
		return disassembly
	}

	lines := strings.Split(disassembly, "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = colorize(line, aurora.CyanFg|aurora.BoldFm)
		case strings.HasPrefix(line, "  @"):
			lines[i] = colorize(line, aurora.GreenFg)
		case strings.HasPrefix(line, "  local "):
			lines[i] = colorize(line, aurora.FaintFm)
		}
	}
	return strings.Join(lines, "\n")
}
