// Package report turns cucumber JSON results into the HTML, JUnit and
// console reports of a run. Everything here works on files already written;
// generating a report twice from the same input gives the same output, the
// run id and report time being derived from the result files.
package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Feature is one entry of a cucumber JSON report.
type Feature struct {
	URI         string    `json:"uri"`
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Line        int       `json:"line"`
	Tags        []Tag     `json:"tags"`
	Elements    []Element `json:"elements"`
}

type Tag struct {
	Name string `json:"name"`
}

// Element is a scenario or a background.
type Element struct {
	ID      string `json:"id"`
	Keyword string `json:"keyword"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Tags    []Tag  `json:"tags"`
	Steps   []Step `json:"steps"`
}

type Step struct {
	Keyword    string      `json:"keyword"`
	Name       string      `json:"name"`
	Line       int         `json:"line"`
	Hidden     bool        `json:"hidden"`
	Result     Result      `json:"result"`
	Embeddings []Embedding `json:"embeddings"`
}

type Result struct {
	Status       string `json:"status"`
	Duration     int64  `json:"duration"` // nanoseconds
	ErrorMessage string `json:"error_message"`
}

type Embedding struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mime_type"`
}

// UnmarshalJSON accepts base64 data as well as the raw text some runners
// write for text/* embeddings. Data that is not valid base64, or text that
// does not decode to UTF-8, is kept as is.
func (e *Embedding) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data     string `json:"data"`
		MimeType string `json:"mime_type"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.MimeType = raw.MimeType
	e.Data = []byte(raw.Data)
	decoded, err := base64.StdEncoding.DecodeString(raw.Data)
	if err != nil {
		return nil
	}
	if strings.HasPrefix(raw.MimeType, "text/") && !utf8.Valid(decoded) {
		return nil
	}
	e.Data = decoded
	return nil
}

// Load reads cucumber JSON from the given files, or from every *.json file
// in the given directories. Unreadable or malformed input is logged and
// skipped.
func Load(log *zap.Logger, paths ...string) []Feature {
	var features []Feature
	for _, path := range expand(log, paths) {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("could not read results, skipping", zap.String("path", path), zap.Error(err))
			continue
		}
		var fs []Feature
		if err := json.Unmarshal(data, &fs); err != nil {
			log.Warn("results are not cucumber json, skipping", zap.String("path", path), zap.Error(err))
			continue
		}
		log.Debug("loaded results", zap.String("path", path), zap.Int("features", len(fs)))
		features = append(features, fs...)
	}
	return features
}

func expand(log *zap.Logger, paths []string) []string {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			log.Warn("results not found", zap.String("path", path), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.json"))
		if err != nil {
			log.Warn("could not list results", zap.String("dir", path), zap.Error(err))
			continue
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0644)
}
