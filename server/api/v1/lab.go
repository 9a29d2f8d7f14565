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

package v1

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/logitlab/dataset"
	"github.com/zintix-labs/logitlab/dto"
	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/lab"
	"github.com/zintix-labs/logitlab/linalg"
	"github.com/zintix-labs/logitlab/logit"
	"github.com/zintix-labs/logitlab/optimizer"
	"github.com/zintix-labs/logitlab/report"
	"github.com/zintix-labs/logitlab/sdk/core"
	"github.com/zintix-labs/logitlab/server/httperr"
	"github.com/zintix-labs/logitlab/server/netsvr/middleware"
	"github.com/zintix-labs/logitlab/server/svrcfg"
	"gonum.org/v1/gonum/mat"
)

// 每次訓練最多輸出幾筆 optimizer.step（Debug）
const stepLogs = 10

type LabHandler struct {
	cfg *svrcfg.SvrCfg
}

func NewLabHandler(sCfg *svrcfg.SvrCfg) (*LabHandler, error) {
	if sCfg == nil || sCfg.Log == nil || sCfg.Setting == nil {
		return nil, errs.NewFatal("validated server config is required")
	}
	return &LabHandler{cfg: sCfg}, nil
}

// Fit POST /v1/fit：訓練並回傳係數與訓練集報告。
// ?format=yaml|text 改以 YAML 或表格輸出報告，seed 放在 X-Seed header。
func (h *LabHandler) Fit(w http.ResponseWriter, r *http.Request) {
	format, err := formatOf(r)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	req, err := dto.Decode[dto.FitRequest](w, r, 0)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	ds, cfg, err := h.prepare(&req.Samples, req.Setting)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	seed := seedOf(req.Seed)

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.FitTimeout)
	defer cancel()
	log := h.cfg.Log.With(slog.String("request_id", middleware.GetReqId(r)), slog.Int64("seed", seed))
	obs := optimizer.NewSlogObserver(log, max(1, cfg.MaxSteps/stepLogs))

	_, rep, err := lab.Fit(ctx, ds, cfg, seed, obs)
	if err != nil {
		httperr.Log(h.cfg.Log, "v1.fit", err)
		httperr.Errs(w, r, errs.Wrap(err, "fit failed"))
		return
	}
	writeReport(w, format, seed, rep, dto.FitResponse{Seed: seed, Report: rep})
}

// CrossVal POST /v1/crossval：k-fold 交叉驗證。
func (h *LabHandler) CrossVal(w http.ResponseWriter, r *http.Request) {
	format, err := formatOf(r)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	req, err := dto.Decode[dto.CrossValRequest](w, r, 0)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	ds, cfg, err := h.prepare(&req.Samples, req.Setting)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	if req.Folds == 0 {
		req.Folds = 5
	}
	workers := min(max(1, req.Workers), h.cfg.MaxWorkers)
	seed := seedOf(req.Seed)

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.FitTimeout)
	defer cancel()
	rep, err := lab.CrossValidate(ctx, ds, req.Folds, cfg, workers, seed, false)
	if err != nil {
		httperr.Log(h.cfg.Log, "v1.crossval", err)
		httperr.Errs(w, r, errs.Wrap(err, "cross validation failed"))
		return
	}
	writeReport(w, format, seed, rep, dto.CrossValResponse{Seed: seed, Report: rep})
}

// Predict POST /v1/predict：以給定係數計算每列的機率與分類。
func (h *LabHandler) Predict(w http.ResponseWriter, r *http.Request) {
	req, err := dto.Decode[dto.ModelRequest](w, r, 0)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	c, x, err := h.model(req)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	n, _ := x.Dims()
	resp := dto.PredictResponse{
		Probabilities: make([]float64, n),
		Labels:        make([]int, n),
	}
	for i := range n {
		row := linalg.Row(x, i)
		if resp.Probabilities[i], err = c.PredictRow(row); err != nil {
			httperr.Errs(w, r, err)
			return
		}
		if resp.Labels[i], err = c.ClassifyRow(row); err != nil {
			httperr.Errs(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Error POST /v1/error：以給定係數計算誤判比例。
func (h *LabHandler) Error(w http.ResponseWriter, r *http.Request) {
	req, err := dto.Decode[dto.ModelRequest](w, r, 0)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	c, x, err := h.model(req)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	y, err := req.Labels()
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	ds, err := dataset.New(x, y)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	if ds, err = ds.Binary(); err != nil {
		httperr.Errs(w, r, err)
		return
	}
	e, err := c.Error(ds.X, ds.Y)
	if err != nil {
		httperr.Errs(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ErrorResponse{Rows: ds.Len(), Error: e})
}

// Setting GET /v1/setting：server 的預設優化器設定。
func (h *LabHandler) Setting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SettingResponse{Setting: h.cfg.Setting.Clone()})
}

func (h *LabHandler) prepare(s *dto.Samples, patch *dto.SettingPatch) (*dataset.Dataset, *optimizer.Setting, error) {
	if len(s.X) > h.cfg.MaxRows {
		return nil, nil, errs.Kindf(errs.InvalidArgument, "rows must be at most %d, got %d", h.cfg.MaxRows, len(s.X))
	}
	ds, err := s.Dataset()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := patch.Apply(h.cfg.Setting)
	if err != nil {
		return nil, nil, err
	}
	return ds, cfg, nil
}

func (h *LabHandler) model(req *dto.ModelRequest) (*logit.Classifier, *mat.Dense, error) {
	if len(req.X) > h.cfg.MaxRows {
		return nil, nil, errs.Kindf(errs.InvalidArgument, "rows must be at most %d, got %d", h.cfg.MaxRows, len(req.X))
	}
	wv, x, err := req.Model()
	if err != nil {
		return nil, nil, err
	}
	if err := linalg.CheckColumns(wv, x); err != nil {
		return nil, nil, err
	}
	c := logit.NewClassifier(logit.WithSetting(h.cfg.Setting))
	if err := c.SetCoefficients(wv); err != nil {
		return nil, nil, err
	}
	return c, x, nil
}

func seedOf(s *int64) int64 {
	if s != nil {
		return *s
	}
	return core.RandomSeed()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// reportWriter FitReport / CrossValReport 共同的輸出方式
type reportWriter interface {
	StdOut(w io.Writer)
	WriteWith(w io.Writer, rd report.Render) error
}

// formatOf 讀取 ?format=（json / yaml / yml / text），空字串視為 json。
func formatOf(r *http.Request) (string, error) {
	f := strings.ToLower(r.URL.Query().Get("format"))
	switch f {
	case "", "json":
		return "json", nil
	case "text":
		return f, nil
	}
	if _, err := report.RenderOf(f); err != nil {
		return "", err
	}
	return f, nil
}

func writeReport(w http.ResponseWriter, format string, seed int64, rep reportWriter, resp any) {
	if format == "json" {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	w.Header().Set("X-Seed", strconv.FormatInt(seed, 10))
	if format == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		rep.StdOut(w)
		return
	}
	rd, _ := report.RenderOf(format)
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_ = rep.WriteWith(w, rd)
}
