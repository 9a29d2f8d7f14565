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

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// StdOut 以表格輸出訓練摘要。
func (r *FitReport) StdOut(w io.Writer) {
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"State":      r.State,
		"Rows":       p.Sprintf("%d", r.Rows),
		"Steps":      p.Sprintf("%d", r.Steps),
		"Max Change": p.Sprintf("%.3g", r.MaxChange),
		"Objective":  p.Sprintf("%.6f", r.Objective),
		"Train Err":  p.Sprintf("%.2f %%", 100*r.TrainError),
		"Precision":  p.Sprintf("%.4f", r.Precision),
		"Recall":     p.Sprintf("%.4f", r.Recall),
		"F1":         p.Sprintf("%.4f", r.F1),
		"TP/FP/TN/FN": p.Sprintf("%d/%d/%d/%d",
			r.Confusion.TP, r.Confusion.FP, r.Confusion.TN, r.Confusion.FN),
	}
	keys := []string{"State", "Rows", "Steps", "Max Change", "Objective", "Train Err", "Precision", "Recall", "F1", "TP/FP/TN/FN"}
	for i, c := range r.Coefficients {
		k := fmt.Sprintf("w[%d]", i)
		if i < len(r.Features) {
			k = "w." + r.Features[i]
		}
		msg[k] = p.Sprintf("%.6f", c)
		keys = append(keys, k)
	}
	fmt.Fprint(w, formatDuration(r.Elapsed, r.Steps, "steps"))
	fmt.Fprintln(w, fmtTable("Fit Report", keys, msg))
}

// StdOut 以表格輸出交叉驗證摘要。
func (r *CrossValReport) StdOut(w io.Writer) {
	r.Done()
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Folds":     p.Sprintf("%d", r.K),
		"Rows":      p.Sprintf("%d", r.Rows),
		"Seed":      fmt.Sprintf("%d", r.Seed),
		"Converged": p.Sprintf("%d / %d", r.Converged, r.K),
		"Valid Err": p.Sprintf("%.2f %% ± %.2f %%", 100*r.MeanError, 100*r.StdError),
		"Train Err": p.Sprintf("%.2f %%", 100*r.MeanTrain),
	}
	keys := []string{"Folds", "Rows", "Seed", "Converged", "Valid Err", "Train Err"}
	for _, f := range r.Folds {
		k := fmt.Sprintf("fold %d", f.Fold)
		if f.Converged() {
			msg[k] = p.Sprintf("%.2f %% (%d steps)", 100*f.ValidError, f.Steps)
		} else {
			msg[k] = "failed"
		}
		keys = append(keys, k)
	}
	fmt.Fprint(w, formatDuration(r.Elapsed, r.K, "folds"))
	fmt.Fprintln(w, fmtTable("Cross Validation", keys, msg))
}

func formatDuration(d time.Duration, n int, unit string) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	rate := int(float64(n) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nrate: %d %s/sec\n", sec, rate, unit)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nrate: %d %s/sec\n", m, s, rate, unit)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nrate: %d %s/sec\n", h, m, s, rate, unit)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) +
			" | " + v + blank(maxValLen-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
