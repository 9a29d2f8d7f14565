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

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/logitlab/server/api/v1"
	"github.com/zintix-labs/logitlab/server/netsvr"
	"github.com/zintix-labs/logitlab/server/netsvr/middleware"
	"github.com/zintix-labs/logitlab/server/svrcfg"
)

// RegisterRoutes 註冊 middleware 與所有路由；sCfg 必須已通過 Valid()。
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr)                // 2. 註冊主頁 / 健康檢查
	return registerV1API(svr, sCfg)   // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

var endpoints = []string{
	"POST /v1/fit?format=json|yaml|text",
	"POST /v1/crossval?format=json|yaml|text",
	"POST /v1/predict",
	"POST /v1/error",
	"GET  /v1/setting",
}

// 註冊主頁
func registerIndex(svr netsvr.NetRouter) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"service":   "logitlab",
			"endpoints": endpoints,
		})
	})
	svr.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewLabHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/setting", h.Setting)
		vOne.Post("/fit", h.Fit)
		vOne.Post("/crossval", h.CrossVal)
		vOne.Post("/predict", h.Predict)
		vOne.Post("/error", h.Error)
	})
	return nil
}
