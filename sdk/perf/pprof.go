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

package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/logitlab/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Modes 支援的 profiling 模式；空字串代表不做 profiling。
var Modes = []string{"", "cpu", "heap", "allocs"}

// RunPProf 依 mode 包住 exe 執行並把 profile 寫到 dir/<mode>.pprof。
//   - cpu    : exe 執行期間的 CPU profile（也可作為 PGO 的輸入）
//   - heap   : exe 結束後的 in-use heap 快照（先 GC）
//   - allocs : exe 結束後的累積配置
//
// exe 的錯誤優先回傳；profile 寫入失敗時回傳 Fatal。
func RunPProf(exe func() error, mode, dir string) error {
	if mode == "" {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case "cpu":
		f, err := create(dir, mode)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err, "failed to start cpu profile")
		}
		defer pprof.StopCPUProfile()
		return exe()
	case "heap", "allocs":
		runErr := exe()
		if mode == "heap" {
			runtime.GC()
		}
		f, err := create(dir, mode)
		if err != nil {
			return firstErr(runErr, err)
		}
		defer f.Close()
		if err := pprof.Lookup(mode).WriteTo(f, 0); err != nil {
			return firstErr(runErr, errs.Wrap(err, "failed to write "+mode+" profile"))
		}
		return runErr
	default:
		return errs.Kindf(errs.InvalidArgument, "unknown pprof mode %q (want cpu|heap|allocs)", mode)
	}
}

func create(dir, mode string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "failed to create profiling dir")
	}
	f, err := os.Create(filepath.Join(dir, mode+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create "+mode+".pprof")
	}
	return f, nil
}

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}
