package cucumber

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	messages "github.com/cucumber/cucumber-messages-go/v3"
	"github.com/google/uuid"
)

// The cucumber JSON layout understood by most report tooling. Hooks are
// written as hidden steps, the way cucumber-js does it.
type jsonFeature struct {
	URI         string        `json:"uri"`
	ID          string        `json:"id"`
	Keyword     string        `json:"keyword"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Line        int           `json:"line"`
	Tags        []jsonTag     `json:"tags"`
	Elements    []jsonElement `json:"elements"`
}

type jsonTag struct {
	Name string `json:"name"`
	Line int    `json:"line,omitempty"`
}

type jsonElement struct {
	ID          string     `json:"id"`
	Keyword     string     `json:"keyword"`
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Line        int        `json:"line"`
	Tags        []jsonTag  `json:"tags"`
	Steps       []jsonStep `json:"steps"`
}

type jsonStep struct {
	Keyword    string          `json:"keyword"`
	Name       string          `json:"name,omitempty"`
	Line       int             `json:"line,omitempty"`
	Hidden     bool            `json:"hidden,omitempty"`
	Result     jsonResult      `json:"result"`
	Embeddings []jsonEmbedding `json:"embeddings,omitempty"`
}

type jsonResult struct {
	Status       string `json:"status"`
	Duration     int64  `json:"duration,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type jsonEmbedding struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mime_type"`
}

type gherkinSource struct {
	name        string
	keyword     string
	description string
	line        int
	keywords    map[int]string // keyword by source line, for steps and scenarios
}

type caseResult struct {
	status  messages.TestResult_Status
	message string
}

type jsonFormatter struct {
	path  string
	runID string

	mu          sync.Mutex
	sources     map[string]*gherkinSource
	pickles     []*messages.Pickle
	stepStarted map[string]time.Time
	steps       map[string]map[int]jsonResult
	cases       map[string]caseResult
	attachments map[string][]Attachment
}

// NewJSONFormatter writes a cucumber JSON report to path once the run is
// complete. Scenario attachments end up as embeddings on the After hook.
func NewJSONFormatter(path string) *jsonFormatter {
	return &jsonFormatter{
		path:        path,
		runID:       uuid.NewString(),
		sources:     map[string]*gherkinSource{},
		stepStarted: map[string]time.Time{},
		steps:       map[string]map[int]jsonResult{},
		cases:       map[string]caseResult{},
		attachments: map[string][]Attachment{},
	}
}

// RunID identifies the run in generated reports.
func (jf *jsonFormatter) RunID() string {
	return jf.runID
}

func (jf *jsonFormatter) ProcessMessage(msg *messages.Envelope) {
	jf.mu.Lock()
	defer jf.mu.Unlock()

	switch m := msg.Message.(type) {
	case *messages.Envelope_GherkinDocument:
		jf.addSource(m.GherkinDocument)
	case *messages.Envelope_CommandInitializeTestCase:
		jf.pickles = append(jf.pickles, m.CommandInitializeTestCase.Pickle)
	case *messages.Envelope_CommandRunTestStep:
		jf.stepStarted[m.CommandRunTestStep.PickleId] = time.Now()
	case *messages.Envelope_TestStepFinished:
		pickleID := m.TestStepFinished.PickleId
		result := jsonResult{
			Status:       statusName(m.TestStepFinished.TestResult.Status),
			ErrorMessage: m.TestStepFinished.TestResult.Message,
		}
		if started, ok := jf.stepStarted[pickleID]; ok {
			result.Duration = time.Since(started).Nanoseconds()
			delete(jf.stepStarted, pickleID)
		}
		if jf.steps[pickleID] == nil {
			jf.steps[pickleID] = map[int]jsonResult{}
		}
		jf.steps[pickleID][int(m.TestStepFinished.Index)] = result
	case *messages.Envelope_TestCaseFinished:
		jf.cases[m.TestCaseFinished.PickleId] = caseResult{
			status:  m.TestCaseFinished.TestResult.Status,
			message: m.TestCaseFinished.TestResult.Message,
		}
	}
}

func (jf *jsonFormatter) addSource(doc *messages.GherkinDocument) {
	feature := doc.GetFeature()
	if feature == nil {
		return
	}

	src := &gherkinSource{
		name:        feature.GetName(),
		keyword:     feature.GetKeyword(),
		description: strings.TrimSpace(feature.GetDescription()),
		line:        int(feature.GetLocation().GetLine()),
		keywords:    map[int]string{},
	}

	for _, child := range feature.GetChildren() {
		if bg := child.GetBackground(); bg != nil {
			for _, step := range bg.GetSteps() {
				src.keywords[int(step.GetLocation().GetLine())] = step.GetKeyword()
			}
		}
		if sc := child.GetScenario(); sc != nil {
			src.keywords[int(sc.GetLocation().GetLine())] = sc.GetKeyword()
			for _, step := range sc.GetSteps() {
				src.keywords[int(step.GetLocation().GetLine())] = step.GetKeyword()
			}
		}
	}

	jf.sources[doc.GetUri()] = src
}

func (jf *jsonFormatter) Attach(pickleID string, a Attachment) {
	jf.mu.Lock()
	defer jf.mu.Unlock()

	jf.attachments[pickleID] = append(jf.attachments[pickleID], a)
}

func (jf *jsonFormatter) DisplaySummary(summary Summary) {
	if err := jf.write(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write cucumber json report: %v\n", err)
	}
}

func (jf *jsonFormatter) write() error {
	jf.mu.Lock()
	features := jf.build()
	jf.mu.Unlock()

	data, err := json.MarshalIndent(features, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(jf.path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	return os.WriteFile(jf.path, data, 0644)
}

func (jf *jsonFormatter) build() []jsonFeature {
	features := []jsonFeature{}
	index := map[string]int{}

	for _, pickle := range jf.pickles {
		i, ok := index[pickle.Uri]
		if !ok {
			features = append(features, jf.newFeature(pickle.Uri))
			i = len(features) - 1
			index[pickle.Uri] = i
		}
		features[i].Elements = append(features[i].Elements, jf.newElement(&features[i], pickle))
	}

	return features
}

func (jf *jsonFormatter) newFeature(uri string) jsonFeature {
	f := jsonFeature{
		URI:      uri,
		Keyword:  "Feature",
		Name:     strings.TrimSuffix(filepath.Base(uri), featureFileExtension),
		Tags:     []jsonTag{},
		Elements: []jsonElement{},
	}
	if src, ok := jf.sources[uri]; ok {
		f.Name = src.name
		f.Keyword = src.keyword
		f.Description = src.description
		f.Line = src.line
	}
	f.ID = slug(f.Name)
	return f
}

func (jf *jsonFormatter) newElement(feature *jsonFeature, pickle *messages.Pickle) jsonElement {
	src := jf.sources[pickle.Uri]

	el := jsonElement{
		ID:      feature.ID + ";" + slug(pickle.Name),
		Keyword: "Scenario",
		Type:    "scenario",
		Name:    pickle.Name,
		Tags:    []jsonTag{},
	}
	if len(pickle.Locations) > 0 {
		el.Line = int(pickle.Locations[len(pickle.Locations)-1].Line)
		if src != nil {
			if kw, ok := src.keywords[int(pickle.Locations[0].Line)]; ok {
				el.Keyword = kw
			}
		}
	}
	for _, tag := range pickle.Tags {
		el.Tags = append(el.Tags, jsonTag{Name: tag.Name})
	}

	results := jf.steps[pickle.Id]
	cr := jf.cases[pickle.Id]

	before := jsonStep{Keyword: "Before", Hidden: true, Result: jsonResult{Status: "passed"}}
	if cr.status == messages.TestResult_FAILED && cr.message != "" && !anyFailed(results) {
		before.Result = jsonResult{Status: "failed", ErrorMessage: cr.message}
	}
	el.Steps = append(el.Steps, before)

	for i, step := range pickle.Steps {
		s := jsonStep{
			Keyword: "* ",
			Name:    step.Text,
		}
		if len(step.Locations) > 0 {
			s.Line = int(step.Locations[len(step.Locations)-1].Line)
			if src != nil {
				if kw, ok := src.keywords[int(step.Locations[0].Line)]; ok {
					s.Keyword = kw
				}
			}
		}
		if r, ok := results[i]; ok {
			s.Result = r
		} else {
			s.Result = jsonResult{Status: "skipped"}
		}
		el.Steps = append(el.Steps, s)
	}

	if attachments := jf.attachments[pickle.Id]; len(attachments) > 0 {
		after := jsonStep{Keyword: "After", Hidden: true, Result: jsonResult{Status: "passed"}}
		for _, a := range attachments {
			after.Embeddings = append(after.Embeddings, jsonEmbedding{Data: a.Data, MimeType: a.MediaType})
		}
		el.Steps = append(el.Steps, after)
	}

	return el
}

func anyFailed(results map[int]jsonResult) bool {
	for _, r := range results {
		if r.Status == "failed" {
			return true
		}
	}
	return false
}

func statusName(status messages.TestResult_Status) string {
	return strings.ToLower(status.String())
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
