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

package errs_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/zintix-labs/logitlab/errs"
)

func TestKindMatchesThroughWrap(t *testing.T) {
	base := errs.Kindf(errs.DimensionMismatch, "len %d != %d", 2, 3)
	wrapped := errs.Wrap(base, "score failed")
	stdWrapped := fmt.Errorf("outer: %w", wrapped)

	for _, err := range []error{base, wrapped, stdWrapped} {
		if !errors.Is(err, errs.ErrDimensionMismatch) {
			t.Fatalf("expected dimension mismatch match for %v", err)
		}
		if errors.Is(err, errs.ErrEmptyInput) {
			t.Fatalf("unexpected empty input match for %v", err)
		}
		if got := errs.KindOf(err); got != errs.DimensionMismatch {
			t.Fatalf("KindOf got %v want %v", got, errs.DimensionMismatch)
		}
	}
	if wrapped.ErrLv != errs.Warn {
		t.Fatalf("wrap should keep Warn level, got %s", errs.ErrLv(wrapped.ErrLv))
	}
}

func TestWrapForeignErrorIsFatal(t *testing.T) {
	e := errs.Wrap(errors.New("disk"), "load failed")
	if e.ErrLv != errs.Fatal {
		t.Fatalf("foreign cause should be fatal, got %s", errs.ErrLv(e.ErrLv))
	}
	if errs.KindOf(e) != errs.KindNone {
		t.Fatalf("foreign cause should carry no kind")
	}
	if !strings.Contains(e.Error(), "cause: disk") {
		t.Fatalf("cause missing from message: %s", e.Error())
	}
}

func TestPlainErrorsDoNotMatchSentinels(t *testing.T) {
	if errors.Is(errs.NewWarn("x"), errs.ErrInvalidArgument) {
		t.Fatalf("kindless error must not match a sentinel")
	}
	if errors.Is(errs.ErrNonConvergence, errs.NewWarn("")) {
		t.Fatalf("sentinel must not match a kindless target")
	}
	e := errs.Kindf(errs.NonConvergence, "budget exhausted")
	if !strings.Contains(e.Error(), "kind=non_convergence") {
		t.Fatalf("kind missing from message: %s", e.Error())
	}
}

func TestWrapWithExtraKeepsKind(t *testing.T) {
	base := errs.Kindf(errs.InvalidArgument, "max_steps must > 0")
	e := errs.WrapWithExtra(base, "load failed", "file=opt.yaml")
	if !errors.Is(e, errs.ErrInvalidArgument) || e.ErrLv != errs.Warn {
		t.Fatalf("got kind %v level %s", errs.KindOf(e), errs.ErrLv(e.ErrLv))
	}
	if !strings.Contains(e.Error(), "| extra: file=opt.yaml") {
		t.Fatalf("extra missing from message: %s", e.Error())
	}
	got, ok := errs.AsErr(fmt.Errorf("outer: %w", e))
	if !ok || got != e {
		t.Fatalf("AsErr got %v ok %v", got, ok)
	}
	if _, ok := errs.AsErr(errors.New("plain")); ok {
		t.Fatalf("AsErr must not match a foreign error")
	}
}
