package report

import (
	"strings"
	"time"

	"github.com/acarl005/stripansi"
)

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// Scenario is the outcome of one scenario element.
type Scenario struct {
	Feature  string
	URI      string
	Name     string
	Line     int
	Tags     []string
	Status   Status
	Duration time.Duration
	Error    string
	Steps    []Step
	Images   []Embedding
}

// FeatureSummary groups the scenarios of one feature.
type FeatureSummary struct {
	Name      string
	URI       string
	Scenarios []Scenario
	Passed    int
	Failed    int
	Pending   int
	Duration  time.Duration
}

func (f FeatureSummary) Status() Status {
	switch {
	case f.Failed > 0:
		return StatusFailed
	case f.Pending > 0:
		return StatusPending
	}
	return StatusPassed
}

type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Pending  int
	Duration time.Duration
	Features []FeatureSummary
}

// PassRate is the share of passed scenarios in percent.
func (s Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) * 100 / float64(s.Total)
}

func (s Summary) Failures() []Scenario {
	var failed []Scenario
	for _, f := range s.Features {
		for _, sc := range f.Scenarios {
			if sc.Status == StatusFailed {
				failed = append(failed, sc)
			}
		}
	}
	return failed
}

// Summarize counts scenarios. A scenario passed when all of its steps
// passed and failed when any step failed. Anything else, such as skipped or
// undefined steps, makes it pending. Runners that write the background as a
// separate element put it right before each scenario; its outcome counts
// for that scenario.
func Summarize(features []Feature) Summary {
	var s Summary
	for _, f := range features {
		fs := FeatureSummary{Name: f.Name, URI: f.URI}
		var background *Element
		for i, el := range f.Elements {
			if el.Type == "background" {
				background = &f.Elements[i]
				continue
			}
			sc := summarizeScenario(f, el, background)
			background = nil
			switch sc.Status {
			case StatusPassed:
				fs.Passed++
			case StatusFailed:
				fs.Failed++
			default:
				fs.Pending++
			}
			fs.Duration += sc.Duration
			fs.Scenarios = append(fs.Scenarios, sc)
		}
		s.Total += len(fs.Scenarios)
		s.Passed += fs.Passed
		s.Failed += fs.Failed
		s.Pending += fs.Pending
		s.Duration += fs.Duration
		s.Features = append(s.Features, fs)
	}
	return s
}

func summarizeScenario(f Feature, el Element, background *Element) Scenario {
	sc := Scenario{
		Feature: f.Name,
		URI:     f.URI,
		Name:    el.Name,
		Line:    el.Line,
		Status:  StatusPassed,
	}
	for _, t := range el.Tags {
		sc.Tags = append(sc.Tags, t.Name)
	}

	allPassed := true
	if background != nil {
		for _, step := range background.Steps {
			status := strings.ToLower(step.Result.Status)
			if status == string(StatusFailed) && sc.Status != StatusFailed {
				sc.Status = StatusFailed
				sc.Error = CleanMessage(step.Result.ErrorMessage)
			}
			if status != string(StatusPassed) {
				allPassed = false
			}
		}
	}
	for _, step := range el.Steps {
		sc.Duration += time.Duration(step.Result.Duration)
		for _, e := range step.Embeddings {
			if strings.HasPrefix(e.MimeType, "image/") {
				sc.Images = append(sc.Images, e)
			}
		}

		status := strings.ToLower(step.Result.Status)
		if status == string(StatusFailed) {
			sc.Status = StatusFailed
			if sc.Error == "" {
				sc.Error = CleanMessage(step.Result.ErrorMessage)
			}
		}
		if status != string(StatusPassed) {
			allPassed = false
		}
		if !step.Hidden {
			sc.Steps = append(sc.Steps, step)
		}
	}
	if sc.Status != StatusFailed && !allPassed {
		sc.Status = StatusPending
	}
	return sc
}

// CleanMessage strips terminal colors from an error message.
func CleanMessage(msg string) string {
	return strings.TrimSpace(stripansi.Strip(msg))
}
