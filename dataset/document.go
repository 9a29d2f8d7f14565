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

package dataset

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"strings"

	"github.com/zintix-labs/logitlab/errs"
	"gopkg.in/yaml.v3"
)

// Document 資料集的文件格式（YAML / JSON 共用）。
//
//	features: [age, income]
//	intercept: true
//	rows:
//	  - [31, 1.2]
//	  - [45, 0.7]
//	labels: [0, 1]
type Document struct {
	Features  []string    `yaml:"features,omitempty"  json:"features,omitempty"`
	Intercept bool        `yaml:"intercept,omitempty" json:"intercept,omitempty"`
	Rows      [][]float64 `yaml:"rows"                json:"rows"`
	Labels    []float64   `yaml:"labels"              json:"labels"`
}

// Dataset 依文件建立 Dataset；Intercept 為真時補上常數欄。
func (doc *Document) Dataset() (*Dataset, error) {
	d, err := FromRows(doc.Rows, doc.Labels, doc.Features...)
	if err != nil {
		return nil, errs.Wrap(err, "invalid dataset document")
	}
	if doc.Intercept {
		d = d.WithIntercept()
	}
	return d, nil
}

// LoadDataset 由 fs 讀取資料集文件，副檔名 .json 以 JSON 解析，其餘視為 YAML。
func LoadDataset(fsys fs.FS, name string) (*Dataset, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read dataset "+name)
	}
	if strings.HasSuffix(name, ".json") {
		return GetDatasetByJSON(raw)
	}
	return GetDatasetByYAML(raw)
}

func GetDatasetByYAML(data []byte) (*Dataset, error) {
	doc := new(Document)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		return nil, errs.Kindf(errs.InvalidArgument, "failed to unmarshall yaml: %v", err)
	}
	return doc.Dataset()
}

func GetDatasetByJSON(data []byte) (*Dataset, error) {
	doc := new(Document)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, errs.Kindf(errs.InvalidArgument, "can not unmarshall json byte: %v", err)
	}
	return doc.Dataset()
}
