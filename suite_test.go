package cucumber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pranas/cucumber-e2e"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type concatWorld struct {
	state string
}

func TestRun(t *testing.T) {
	s, err := cucumber.NewSuite[*concatWorld](cucumber.Config{
		Formatter: cucumber.NewNopFormatter(),
		Paths:     []string{"testdata/features/concat.feature"},
	})
	require.NoError(t, err)

	summary := s.Run()
	assert.False(t, summary.Success)
	assert.Equal(t, 1, summary.ExitCode)
	assert.Equal(t, 2, summary.TestCasesTotal)
	assert.Equal(t, 0, summary.TestCasesPassed)
	assert.Equal(t, 4, summary.StepsTotal)
	assert.Equal(t, 0, summary.StepsPassed)

	s, err = cucumber.NewSuite[*concatWorld](cucumber.Config{
		Formatter: cucumber.NewNopFormatter(),
		Paths:     []string{"testdata/features/concat.feature"},
	})
	require.NoError(t, err)

	s.DefineBefore(func(*cucumber.Scenario) (*concatWorld, error) {
		return &concatWorld{}, nil
	})
	s.DefineStep(`^you concat "([^"]*)" and "([^"]*)"$`, concat)
	s.DefineStep(`^you should have "([^"]*)"$`, matchOutput)

	summary = s.Run()
	assert.True(t, summary.Success)
	assert.Equal(t, 0, summary.ExitCode)
	assert.Equal(t, 2, summary.TestCasesTotal)
	assert.Equal(t, 2, summary.TestCasesPassed)
	assert.Equal(t, 4, summary.StepsTotal)
	assert.Equal(t, 4, summary.StepsPassed)
}

func TestRunCreatesOneWorldPerScenario(t *testing.T) {
	s, err := cucumber.NewSuite[*concatWorld](cucumber.Config{
		Formatter:   cucumber.NewNopFormatter(),
		Paths:       []string{"testdata/features"},
		Concurrency: 4,
	})
	require.NoError(t, err)

	var created, destroyed int32
	var mu sync.Mutex
	seen := map[*concatWorld]int{}
	failedByName := map[string]bool{}

	s.DefineBefore(func(*cucumber.Scenario) (*concatWorld, error) {
		atomic.AddInt32(&created, 1)
		return &concatWorld{}, nil
	})
	s.DefineAfter(func(sc *cucumber.Scenario, w *concatWorld, failed bool) {
		atomic.AddInt32(&destroyed, 1)
		mu.Lock()
		seen[w]++
		failedByName[sc.Name] = failed
		mu.Unlock()
	})
	s.DefineStep(`^you concat "([^"]*)" and "([^"]*)"$`, concat)
	s.DefineStep(`^you should have "([^"]*)"$`, matchOutput)

	summary := s.Run()
	assert.Equal(t, 3, summary.TestCasesTotal)
	assert.Equal(t, 1, summary.TestCasesFailed)
	assert.EqualValues(t, 3, created)
	assert.EqualValues(t, 3, destroyed)
	for w, n := range seen {
		assert.Equal(t, 1, n, "world %p torn down more than once", w)
	}
	assert.True(t, failedByName["concat gives the wrong answer"])
	assert.False(t, failedByName["concat two words"])
}

func TestRunFailsScenarioWhenBeforeFails(t *testing.T) {
	s, err := cucumber.NewSuite[*concatWorld](cucumber.Config{
		Formatter: cucumber.NewNopFormatter(),
		Paths:     []string{"testdata/features/concat.feature"},
	})
	require.NoError(t, err)

	var afterCalls int32
	s.DefineBefore(func(*cucumber.Scenario) (*concatWorld, error) {
		return nil, errors.New("browser did not launch")
	})
	s.DefineAfter(func(*cucumber.Scenario, *concatWorld, bool) {
		atomic.AddInt32(&afterCalls, 1)
	})
	s.DefineStep(`^you concat "([^"]*)" and "([^"]*)"$`, concat)
	s.DefineStep(`^you should have "([^"]*)"$`, matchOutput)

	summary := s.Run()
	assert.False(t, summary.Success)
	assert.Equal(t, 0, summary.TestCasesPassed)
	assert.Zero(t, atomic.LoadInt32(&afterCalls))
}

func TestRunRecoversPanickingStep(t *testing.T) {
	s, err := cucumber.NewSuite[*concatWorld](cucumber.Config{
		Formatter: cucumber.NewNopFormatter(),
		Paths:     []string{"testdata/features/concat.feature"},
	})
	require.NoError(t, err)

	s.DefineBefore(func(*cucumber.Scenario) (*concatWorld, error) {
		return &concatWorld{}, nil
	})
	s.DefineStep(`^you concat "([^"]*)" and "([^"]*)"$`, func(*concatWorld, ...string) error {
		panic("boom")
	})
	s.DefineStep(`^you should have "([^"]*)"$`, matchOutput)

	summary := s.Run()
	assert.Equal(t, 2, summary.TestCasesFailed)
	assert.Equal(t, 2, summary.StepsFailed)
}

func TestRunReportsPanickingAfterHook(t *testing.T) {
	s, err := cucumber.NewSuite[*concatWorld](cucumber.Config{
		Formatter: cucumber.NewNopFormatter(),
		Paths:     []string{"testdata/features/concat.feature"},
	})
	require.NoError(t, err)

	s.DefineBefore(func(*cucumber.Scenario) (*concatWorld, error) {
		return &concatWorld{}, nil
	})
	s.DefineAfter(func(*cucumber.Scenario, *concatWorld, bool) {
		panic("browser already gone")
	})
	s.DefineStep(`^you concat "([^"]*)" and "([^"]*)"$`, concat)
	s.DefineStep(`^you should have "([^"]*)"$`, matchOutput)

	summary := s.Run()
	assert.Equal(t, 2, summary.TestCasesPassed)
	assert.False(t, summary.Success)
	assert.Equal(t, 1, summary.ExitCode)
	require.Len(t, summary.AfterHookErrors, 2)
	assert.Contains(t, summary.AfterHookErrors[0], "browser already gone")
	assert.Contains(t, summary.String(), "2 after hooks panicked")
}

func TestRunWritesJSONWithAttachments(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results", "cucumber.json")

	s, err := cucumber.NewSuite[*concatWorld](cucumber.Config{
		Formatter: cucumber.NewMultiFormatter(cucumber.NewNopFormatter(), cucumber.NewJSONFormatter(out)),
		Paths:     []string{"testdata/features"},
		Order:     cucumber.OrderDefinition,
	})
	require.NoError(t, err)

	s.DefineBefore(func(*cucumber.Scenario) (*concatWorld, error) {
		return &concatWorld{}, nil
	})
	s.DefineAfter(func(sc *cucumber.Scenario, _ *concatWorld, failed bool) {
		if failed {
			sc.Log("scenario failed: " + sc.Name)
		}
	})
	s.DefineStep(`^you concat "([^"]*)" and "([^"]*)"$`, concat)
	s.DefineStep(`^you should have "([^"]*)"$`, matchOutput)

	s.Run()

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var features []struct {
		Name     string `json:"name"`
		Elements []struct {
			Name  string `json:"name"`
			Tags  []struct{ Name string } `json:"tags"`
			Steps []struct {
				Keyword string `json:"keyword"`
				Hidden  bool   `json:"hidden"`
				Result  struct {
					Status string `json:"status"`
				} `json:"result"`
				Embeddings []struct {
					Data     []byte `json:"data"`
					MimeType string `json:"mime_type"`
				} `json:"embeddings"`
			} `json:"steps"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(data, &features))
	require.Len(t, features, 2)

	var failing bool
	for _, f := range features {
		for _, el := range f.Elements {
			if el.Name != "concat gives the wrong answer" {
				continue
			}
			failing = true
			last := el.Steps[len(el.Steps)-1]
			assert.Equal(t, "After", last.Keyword)
			assert.True(t, last.Hidden)
			require.Len(t, last.Embeddings, 1)
			assert.Equal(t, "text/plain", last.Embeddings[0].MimeType)
			assert.Equal(t, "scenario failed: concat gives the wrong answer", string(last.Embeddings[0].Data))
			require.Len(t, el.Tags, 1)
			assert.Equal(t, "@broken", el.Tags[0].Name)
		}
	}
	assert.True(t, failing)
}

func concat(w *concatWorld, matches ...string) error {
	w.state = matches[0] + matches[1]
	return nil
}

func matchOutput(w *concatWorld, expected ...string) error {
	if w.state != expected[0] {
		return fmt.Errorf("expected %s but got %s", expected[0], w.state)
	}

	return nil
}

func TestDotFormatterReportsFailures(t *testing.T) {
	var out bytes.Buffer
	s, err := cucumber.NewSuite[*concatWorld](cucumber.Config{
		Formatter: cucumber.NewDotFormatter(&out),
		Paths:     []string{"testdata/features/concat.feature"},
	})
	require.NoError(t, err)

	s.DefineBefore(func(*cucumber.Scenario) (*concatWorld, error) {
		return nil, errors.New("browser did not launch")
	})
	s.DefineStep(`^you concat "([^"]*)" and "([^"]*)"$`, concat)
	s.DefineStep(`^you should have "([^"]*)"$`, matchOutput)

	s.Run()

	assert.Contains(t, out.String(), "2 scenarios (2 failed)")
}
