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

package svrcfg

import (
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/optimizer"
	"github.com/zintix-labs/logitlab/server/logger"
)

const (
	DefaultAddr       = ":5808"
	DefaultMaxRows    = 100_000
	DefaultFitTimeout = 30 * time.Second
)

// SvrCfg server 的所有依賴，由最外層組裝後注入。
type SvrCfg struct {
	Log        *slog.Logger
	Addr       string             // 監聽位址，例如 ":5808"
	Setting    *optimizer.Setting // 請求未指定時使用的優化器設定
	MaxRows    int                // 單一請求的樣本數上限
	MaxWorkers int                // 交叉驗證 worker 上限
	FitTimeout time.Duration      // 單一訓練請求的時間上限
}

// Valid 檢查並補齊預設值。
func (sc *SvrCfg) Valid() error {
	if sc == nil {
		return errs.NewFatal("server config is required")
	}
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if !strings.Contains(sc.Addr, ":") {
		return errs.Fatalf("invalid listen address %q", sc.Addr)
	}
	if sc.Setting == nil {
		sc.Setting = optimizer.DefaultSetting()
	}
	if err := sc.Setting.Valid(); err != nil {
		return errs.Wrap(err, "invalid default optimizer setting")
	}
	if sc.MaxRows <= 0 {
		sc.MaxRows = DefaultMaxRows
	}
	// 1 <= MaxWorkers <= NumCPU
	sc.MaxWorkers = max(1, sc.MaxWorkers)
	sc.MaxWorkers = min(runtime.NumCPU(), sc.MaxWorkers)
	if sc.FitTimeout <= 0 {
		sc.FitTimeout = DefaultFitTimeout
	}
	return nil
}
