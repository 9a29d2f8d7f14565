// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// 開發用工作：go run ./scripts <task>
type task struct {
	desc string
	run  func() error
}

var tasks = map[string]task{
	"test":        {"quiet run, ok/FAIL lines only", func() error { return goTest(quiet, "-cover", "-count=1") }},
	"test-all":    {"all packages with coverage", func() error { return goTest(raw, "-cover") }},
	"test-detail": {"verbose run without [no test files]", func() error { return goTest(detail, "-v", "-count=1") }},
	"test-race":   {"race detector on lab and server", func() error { return goTestPkgs(quiet, []string{"./lab/...", "./server/..."}, "-race", "-count=1") }},
	"cover":       {"write build/cover.out and print totals", runCover},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	t, ok := tasks[name]
	if !ok {
		PrintYellow(fmt.Sprintf("Unknown task: %s", name))
		usage()
		os.Exit(1)
	}
	if err := t.run(); err != nil {
		PrintRed(fmt.Sprintf("\n%s finished with errors: %v", name, err))
		os.Exit(1)
	}
}

func usage() {
	names := make([]string, 0, len(tasks))
	for k := range tasks {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("Usage: go run ./scripts [task]\n")
	for _, k := range names {
		fmt.Fprintf(&b, "  %-12s %s\n", k, tasks[k].desc)
	}
	fmt.Print(b.String())
}
