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
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/zintix-labs/logitlab/configs"
	"github.com/zintix-labs/logitlab/optimizer"
	"github.com/zintix-labs/logitlab/sdk/perf"
	"github.com/zintix-labs/logitlab/server"
	"github.com/zintix-labs/logitlab/server/logger"
	"github.com/zintix-labs/logitlab/server/svrcfg"
)

// lab server：以 HTTP 提供訓練、推論與交叉驗證。
func main() {
	sCfg, cfg, closeLog, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	err = perf.RunPProf(func() error { return server.Run(sCfg) }, cfg.PProf, cfg.PProfDir)
	if err != nil {
		sCfg.Log.Error("server exited", "err", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

type config struct {
	LogMode  string
	Addr     string
	Setting  string
	MaxRows  int
	Workers  int
	Timeout  time.Duration
	LogQueue int
	PProf    string
	PProfDir string
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, *config, func(), error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.StringVar(&cfg.Setting, "setting", "", "optimizer setting file (.yaml/.yml/.json); empty uses the embedded default")
	flag.IntVar(&cfg.MaxRows, "max-rows", svrcfg.DefaultMaxRows, "max samples per request")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "max cross validation workers")
	flag.DurationVar(&cfg.Timeout, "timeout", svrcfg.DefaultFitTimeout, "max duration of a single fit request")
	flag.IntVar(&cfg.LogQueue, "log-queue", 4096, "async log buffer size")
	flag.StringVar(&cfg.PProf, "pprof", "", "profile the server run: cpu|heap|allocs (empty disables)")
	flag.StringVar(&cfg.PProfDir, "pprof-dir", perf.DefaultDir, "pprof output dir")
	flag.Parse()

	mode, err := logger.ParseLogMode(cfg.LogMode)
	if err != nil {
		return nil, nil, nil, err
	}
	setting, err := cfg.loadSetting()
	if err != nil {
		return nil, nil, nil, err
	}
	log, ah := logger.NewAsync(cfg.LogQueue, mode)

	sCfg := &svrcfg.SvrCfg{
		Log:        log,
		Addr:       cfg.Addr,
		Setting:    setting,
		MaxRows:    cfg.MaxRows,
		MaxWorkers: cfg.Workers,
		FitTimeout: cfg.Timeout,
	}
	return sCfg, cfg, ah.Close, nil
}

func (cfg *config) loadSetting() (*optimizer.Setting, error) {
	if cfg.Setting == "" {
		return optimizer.LoadSetting(configs.FS, configs.SettingFile)
	}
	dir, name := filepath.Split(cfg.Setting)
	if dir == "" {
		dir = "."
	}
	return optimizer.LoadSetting(os.DirFS(dir), name)
}
