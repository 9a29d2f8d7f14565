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
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// filter 決定 go test 的每一行輸出如何呈現；nil 代表直接轉印。
type filter func(line string)

var (
	raw filter = nil

	// 只留 ok / FAIL，以及編譯失敗的關鍵字
	quiet filter = func(line string) {
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"),
			strings.Contains(line, "build failed"),
			strings.Contains(line, "setup failed"):
			PrintRed(line)
		}
	}

	detail filter = func(line string) {
		switch {
		case strings.Contains(line, "[no test files]"):
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	}
)

func goTest(f filter, args ...string) error {
	return goTestPkgs(f, []string{"./..."}, args...)
}

// goTestPkgs 先清 test cache，再以 f 過濾 go test 的 stdout+stderr。
func goTestPkgs(f filter, pkgs []string, args ...string) error {
	PrintGreen(fmt.Sprintf("running go test %s", strings.Join(args, " ")))
	if err := run(exec.Command("go", "clean", "-testcache")); err != nil {
		return fmt.Errorf("go clean -testcache: %w", err)
	}
	cmd := exec.Command("go", append(append([]string{"test"}, pkgs...), args...)...)
	if f == nil {
		return run(cmd)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		f(sc.Text())
	}
	if err := sc.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	return cmd.Wait()
}

func runCover() error {
	if err := os.MkdirAll("build", 0o755); err != nil {
		return err
	}
	if err := goTest(quiet, "-count=1", "-coverprofile=build/cover.out"); err != nil {
		return err
	}
	return run(exec.Command("go", "tool", "cover", "-func=build/cover.out"))
}

func run(cmd *exec.Cmd) error {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
