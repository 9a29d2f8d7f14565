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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Kind : 錯誤類別，描述「哪一種」前置條件被違反。
// 與 ErrLevel 正交：ErrLevel 表示嚴重度，Kind 表示成因。
type Kind uint8

const (
	KindNone          Kind = iota
	TypeArgument           // 參數型別錯誤（nil / 非向量 / 非矩陣）
	DimensionMismatch      // 向量或矩陣維度不相容
	EmptyInput             // 需要資料卻給了零長度輸入
	InvalidArgument        // 超出定義域的純量
	NonConvergence         // 優化器用完步數預算仍未收斂
)

var kindMap = map[Kind]string{
	KindNone:          "",
	TypeArgument:      "type_argument",
	DimensionMismatch: "dimension_mismatch",
	EmptyInput:        "empty_input",
	InvalidArgument:   "invalid_argument",
	NonConvergence:    "non_convergence",
}

func (k Kind) String() string {
	if str, ok := kindMap[k]; ok {
		return str
	}
	return ""
}

// 各 Kind 的哨兵值，只用於 errors.Is 比對，不要直接回傳。
var (
	ErrTypeArgument      = &E{Kind: TypeArgument}
	ErrDimensionMismatch = &E{Kind: DimensionMismatch}
	ErrEmptyInput        = &E{Kind: EmptyInput}
	ErrInvalidArgument   = &E{Kind: InvalidArgument}
	ErrNonConvergence    = &E{Kind: NonConvergence}
)

// E 是統一的錯誤型別。
// Message 為經過樣板格式化後的主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；ErrLv 表示嚴重度；Kind 表示錯誤類別。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Kind    Kind
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s", ErrLv(e.ErrLv))
	if e.Kind != KindNone {
		base += " kind=" + e.Kind.String()
	}
	base += " " + e.Message
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// Is 讓 errors.Is(err, ErrDimensionMismatch) 這類「依 Kind 比對」成立。
// 只有 target 為哨兵（沒有 Message）時才比對 Kind，一般的 *E 仍以指標相等判斷。
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok || t.Kind == KindNone || t.Message != "" {
		return false
	}
	return e.Kind == t.Kind
}

// New 依錯誤碼與參數建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

// Kindf 建立帶有 Kind 的 Warn 級錯誤。
// 參數前置條件被違反屬於呼叫端問題，因此一律為 Warn。
func Kindf(kind Kind, format string, a ...any) *E {
	e := NewWarn(fmt.Sprintf(format, a...))
	e.Kind = kind
	return e
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// ErrLevel / Kind 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv 與 Kind（保持原本嚴重度與類別）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則 ErrLv 一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	kind := KindNone
	if errors.As(cause, &e) {
		errLv = e.ErrLv
		kind = e.Kind
	}
	r := New(errLv, msg)
	r.Kind = kind
	r.Cause = cause
	return r
}

// WrapWithExtra 與 Wrap 相同，另外附加上下文字串。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// KindOf 取出錯誤鏈上第一個帶有 Kind 的 *E 之類別；沒有則回傳 KindNone。
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*E); ok && e.Kind != KindNone {
			return e.Kind
		}
		err = errors.Unwrap(err)
	}
	return KindNone
}
