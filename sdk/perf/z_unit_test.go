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

package perf_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/sdk/perf"
)

func TestRunPProfWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []string{"cpu", "heap", "allocs"} {
		ran := false
		err := perf.RunPProf(func() error { ran = true; return nil }, mode, dir)
		if err != nil || !ran {
			t.Fatalf("%s: ran=%v err=%v", mode, ran, err)
		}
		if st, err := os.Stat(filepath.Join(dir, mode+".pprof")); err != nil || st.Size() == 0 {
			t.Fatalf("%s profile missing: %v", mode, err)
		}
	}
}

func TestRunPProfPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	if err := perf.RunPProf(func() error { return boom }, "", ""); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if err := perf.RunPProf(func() error { return boom }, "heap", t.TempDir()); !errors.Is(err, boom) {
		t.Fatalf("heap got %v", err)
	}
	if err := perf.RunPProf(func() error { return nil }, "trace", t.TempDir()); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("unknown mode got %v", err)
	}
}
