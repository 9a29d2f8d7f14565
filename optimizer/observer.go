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

package optimizer

import (
	"io"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
)

// Event 每一步發出一次的診斷事件。
type Event struct {
	Step      int     // 第幾步（從 1 開始）
	MaxChange float64 // 本步最大單一係數變化量（收斂判定用的誤差）
	Objective float64 // 本步結束時的目標函數值
}

// Summary 訓練結束（收斂或失敗）時發出一次。
type Summary struct {
	State     State
	Steps     int
	MaxChange float64
	Objective float64
	Elapsed   time.Duration
	Err       error
}

// Observer 接收優化過程的診斷事件。
// 優化器本身不輸出任何東西，要寫到哪裡（slog、進度條、指標）由呼叫端決定。
type Observer interface {
	OnStep(Event)
	OnDone(Summary)
}

// ObserverFunc 只關心每步事件時的簡便寫法。
type ObserverFunc func(Event)

func (f ObserverFunc) OnStep(ev Event) { f(ev) }
func (f ObserverFunc) OnDone(Summary)  {}

type multiObserver []Observer

// Observers 把多個 Observer 串成一個；nil 會被略過。
func Observers(obs ...Observer) Observer {
	m := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	default:
		return m
	}
}

func (m multiObserver) OnStep(ev Event) {
	for _, o := range m {
		o.OnStep(ev)
	}
}

func (m multiObserver) OnDone(s Summary) {
	for _, o := range m {
		o.OnDone(s)
	}
}

// SlogObserver 以 slog 輸出分級的結構化紀錄：
//   - 每 every 步一筆 Debug（every <= 0 時不輸出步驟紀錄）
//   - 收斂時一筆 Info，失敗時一筆 Warn
type SlogObserver struct {
	log   *slog.Logger
	every int
}

func NewSlogObserver(log *slog.Logger, every int) *SlogObserver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SlogObserver{log: log, every: every}
}

func (o *SlogObserver) OnStep(ev Event) {
	if o.every <= 0 || ev.Step%o.every != 0 {
		return
	}
	o.log.Debug("optimizer.step",
		slog.Int("step", ev.Step),
		slog.Float64("max_change", ev.MaxChange),
		slog.Float64("objective", ev.Objective),
	)
}

func (o *SlogObserver) OnDone(s Summary) {
	attrs := []any{
		slog.String("state", s.State.String()),
		slog.Int("steps", s.Steps),
		slog.Float64("max_change", s.MaxChange),
		slog.Float64("objective", s.Objective),
		slog.Duration("elapsed", s.Elapsed),
	}
	if s.State == Converged {
		o.log.Info("optimizer.converged", attrs...)
		return
	}
	o.log.Warn("optimizer.failed", append(attrs, slog.Any("err", s.Err))...)
}

// ProgressObserver 以進度條顯示步數預算的消耗。
type ProgressObserver struct {
	bar *pb.ProgressBar
}

// NewProgressObserver 建立總量為 maxSteps 的進度條；w 為 nil 時輸出到預設 stderr。
func NewProgressObserver(maxSteps int, w io.Writer) *ProgressObserver {
	bar := pb.New(maxSteps)
	if w != nil {
		bar.SetWriter(w)
	}
	bar.Start()
	return &ProgressObserver{bar: bar}
}

func (o *ProgressObserver) OnStep(ev Event) {
	o.bar.SetCurrent(int64(ev.Step))
}

func (o *ProgressObserver) OnDone(Summary) {
	o.bar.Finish()
}
