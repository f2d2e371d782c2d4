package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Trace is a recorded playwright trace archive.
type Trace struct {
	Index   int
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

func (t Trace) SizeText() string {
	switch {
	case t.Size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(t.Size)/(1<<20))
	case t.Size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(t.Size)/(1<<10))
	}
	return fmt.Sprintf("%d B", t.Size)
}

// ListTraces returns the trace archives in dir, newest first and numbered
// from 1. A missing directory holds no traces.
func ListTraces(dir string) ([]Trace, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list traces: %w", err)
	}

	var traces []Trace
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".zip" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		traces = append(traces, Trace{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(traces, func(i, j int) bool {
		if traces[i].ModTime.Equal(traces[j].ModTime) {
			return traces[i].Name < traces[j].Name
		}
		return traces[i].ModTime.After(traces[j].ModTime)
	})
	for i := range traces {
		traces[i].Index = i + 1
	}
	return traces, nil
}

// FindTrace picks a trace by its number in ListTraces or by file name.
func FindTrace(traces []Trace, ref string) (Trace, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(traces) {
			return Trace{}, fmt.Errorf("no trace #%d, there are %d", n, len(traces))
		}
		return traces[n-1], nil
	}
	for _, t := range traces {
		if t.Name == ref || t.Path == ref {
			return t, nil
		}
	}
	return Trace{}, fmt.Errorf("no trace named %q", ref)
}

// WriteTraceIndex writes an index.html next to the traces.
func WriteTraceIndex(dir string, traces []Trace) error {
	return render(filepath.Join(dir, "index.html"), "traces.html.tmpl", traces)
}
