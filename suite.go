package cucumber

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/cucumber-engine/src/runner"
	messages "github.com/cucumber/cucumber-messages-go/v3"
)

type OrderType uint8

const (
	OrderRandom OrderType = iota
	OrderDefinition
)

var (
	ErrPending = errors.New("implementation pending")
)

// StepHandler receives the scenario world and the regular expression captures.
type StepHandler[W any] func(W, ...string) error

// BeforeHook builds the world for a scenario. A returned error fails the
// scenario and the after hook is not called for it.
type BeforeHook[W any] func(*Scenario) (W, error)

// AfterHook runs once for every world a BeforeHook produced.
type AfterHook[W any] func(sc *Scenario, world W, failed bool)

type stepDefinition[W any] struct {
	Pattern string
	Handler StepHandler[W]
}

type testCase[W any] struct {
	scenario *Scenario
	world    W
}

// Suite drives cucumber-engine, answering its commands with the registered
// hooks and step definitions. W is the per-scenario world type.
type Suite[W any] struct {
	config          Config
	baseDirectory   string
	files           []string
	stepDefinitions []stepDefinition[W]
	testCases       sync.Map
	before          BeforeHook[W]
	after           AfterHook[W]
	afterHooks      sync.WaitGroup
	hookErrorsMu    sync.Mutex
	hookErrors      []string
	stderr          io.Writer
	incoming        chan *messages.Envelope
	outgoing        chan *messages.Envelope
}

func NewSuite[W any](config Config, args ...string) (*Suite[W], error) {
	if config.Name == "" {
		config.Name = "cucumber"
	}

	if config.Language == "" {
		config.Language = "en"
	}

	if config.Seed == 0 {
		config.Seed = uint64(time.Now().Unix())
	}

	if config.Formatter == nil {
		config.Formatter = NewDotFormatter(os.Stdout)
	}

	if len(config.Paths) == 0 {
		config.Paths = []string{"features/"}
	}

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVar(&config.Language, "lang", config.Language, "")
	fs.Uint64Var(&config.Seed, "seed", config.Seed, "")
	fs.Uint64Var(&config.Concurrency, "concurrency", config.Concurrency, "")
	fs.Uint64Var(&config.Concurrency, "c", config.Concurrency, "")
	fs.BoolVar(&config.FailFast, "fast", config.FailFast, "")
	fs.BoolVar(&config.DryRun, "dry", config.DryRun, "")
	fs.BoolVar(&config.Strict, "strict", config.Strict, "")
	fs.StringVar(&config.TagExpression, "tags", config.TagExpression, "")
	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}

	if len(fs.Args()) > 0 {
		config.Paths = fs.Args()
	}

	baseDirectory, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	var files []string

	for _, path := range config.Paths {
		filesForPath, err := findFeatures(path)
		if err != nil {
			return nil, fmt.Errorf("failed to find features in path %s: %w", path, err)
		}
		files = append(files, filesForPath...)
	}

	for i := range files {
		files[i], err = filepath.Abs(files[i])
		if err != nil {
			return nil, err
		}
	}

	e := runner.NewRunner()
	incoming, outgoing := e.GetCommandChannels()

	suite := &Suite[W]{
		config:        config,
		baseDirectory: baseDirectory,
		files:         files,
		before: func(*Scenario) (W, error) {
			var zero W
			return zero, nil
		},
		after:    func(*Scenario, W, bool) {},
		incoming: incoming,
		outgoing: outgoing,
		stderr:   os.Stderr,
	}

	return suite, nil
}

// Files lists the absolute feature file paths the suite will run.
func (s *Suite[W]) Files() []string {
	return s.files
}

func (s *Suite[W]) DefineBefore(fn BeforeHook[W]) {
	s.before = fn
}

func (s *Suite[W]) DefineAfter(fn AfterHook[W]) {
	s.after = fn
}

func (s *Suite[W]) DefineStep(pattern string, fn StepHandler[W]) {
	s.stepDefinitions = append(s.stepDefinitions, stepDefinition[W]{
		Pattern: pattern,
		Handler: fn,
	})
}

func (s *Suite[W]) Run() Summary {
	resultCh := make(chan Summary)
	go s.listen(resultCh)

	var stepDefinitionConfig []*messages.StepDefinitionConfig

	for i, sd := range s.stepDefinitions {
		stepDefinitionConfig = append(stepDefinitionConfig, &messages.StepDefinitionConfig{
			Id: strconv.Itoa(i),
			Pattern: &messages.StepDefinitionPattern{
				Source: sd.Pattern,
				Type:   messages.StepDefinitionPatternType_REGULAR_EXPRESSION,
			},
		})
	}

	supportCodeConfig := messages.SupportCodeConfig{
		StepDefinitionConfigs: stepDefinitionConfig,
	}

	order := messages.SourcesOrderType_RANDOM
	if s.config.Order == OrderDefinition {
		order = messages.SourcesOrderType_ORDER_OF_DEFINITION
	}

	s.respond(&messages.Envelope{
		Message: &messages.Envelope_CommandStart{
			CommandStart: &messages.CommandStart{
				BaseDirectory: s.baseDirectory,
				RuntimeConfig: &messages.RuntimeConfig{
					IsFailFast:  s.config.FailFast,
					IsDryRun:    s.config.DryRun,
					IsStrict:    s.config.Strict,
					MaxParallel: s.config.Concurrency,
				},
				SupportCodeConfig: &supportCodeConfig,
				SourcesConfig: &messages.SourcesConfig{
					Language:      s.config.Language,
					AbsolutePaths: s.files,
					Filters: &messages.SourcesFilterConfig{
						TagExpression: s.config.TagExpression,
					},
					Order: &messages.SourcesOrder{
						Type: order,
						Seed: s.config.Seed,
					},
				},
			},
		},
	})

	started := time.Now()
	result := <-resultCh

	// worlds are torn down after the engine reports the test case, wait for
	// them so that attachments reach the formatter before it writes output
	s.afterHooks.Wait()
	result.Duration = time.Since(started)

	// a panicking after hook may have left a browser behind
	s.hookErrorsMu.Lock()
	result.AfterHookErrors = append([]string(nil), s.hookErrors...)
	s.hookErrors = nil
	s.hookErrorsMu.Unlock()
	if len(result.AfterHookErrors) > 0 {
		result.Success = false
	}

	if !result.Success {
		result.ExitCode = 1
	}

	s.config.Formatter.DisplaySummary(result)

	return result
}

func (s *Suite[W]) listen(resultCh chan Summary) {
	summary := Summary{}

	for command := range s.outgoing {
		s.config.Formatter.ProcessMessage(command)

		switch x := command.Message.(type) {
		case *messages.Envelope_TestRunFinished:
			summary.Success = x.TestRunFinished.Success
		case *messages.Envelope_CommandRunBeforeTestRunHooks:
			s.complete(x.CommandRunBeforeTestRunHooks.ActionId, &messages.TestResult{
				Status: messages.TestResult_PASSED,
			})
		case *messages.Envelope_CommandRunAfterTestRunHooks:
			s.complete(x.CommandRunAfterTestRunHooks.ActionId, &messages.TestResult{
				Status: messages.TestResult_PASSED,
			})
		case *messages.Envelope_CommandGenerateSnippet:
			s.respond(&messages.Envelope{
				Message: &messages.Envelope_CommandActionComplete{
					CommandActionComplete: &messages.CommandActionComplete{
						CompletedId: x.CommandGenerateSnippet.ActionId,
						Result: &messages.CommandActionComplete_Snippet{
							Snippet: "",
						},
					},
				},
			})
		case *messages.Envelope_CommandInitializeTestCase:
			summary.TestCasesTotal += 1
			go s.initializeTestCase(x.CommandInitializeTestCase)
		case *messages.Envelope_TestCaseFinished:
			status := x.TestCaseFinished.TestResult.Status
			s.finishTestCase(x.TestCaseFinished.PickleId, status == messages.TestResult_FAILED)

			switch status {
			case messages.TestResult_PASSED:
				summary.TestCasesPassed += 1
			case messages.TestResult_FAILED:
				summary.TestCasesFailed += 1
			case messages.TestResult_PENDING:
				summary.TestCasesPending += 1
			case messages.TestResult_UNDEFINED:
				summary.TestCasesUndefined += 1
			}
		case *messages.Envelope_TestStepFinished:
			summary.StepsTotal += 1

			switch x.TestStepFinished.TestResult.Status {
			case messages.TestResult_PASSED:
				summary.StepsPassed += 1
			case messages.TestResult_FAILED:
				summary.StepsFailed += 1
			case messages.TestResult_PENDING:
				summary.StepsPending += 1
			case messages.TestResult_UNDEFINED:
				summary.StepsUndefined += 1
			case messages.TestResult_SKIPPED:
				summary.StepsSkipped += 1
			}
		case *messages.Envelope_CommandRunTestStep:
			go s.runTestStep(x.CommandRunTestStep)
		}
	}
	resultCh <- summary
}

func (s *Suite[W]) respond(m *messages.Envelope) {
	s.incoming <- m
}

func (s *Suite[W]) complete(actionID string, result *messages.TestResult) {
	s.respond(&messages.Envelope{
		Message: &messages.Envelope_CommandActionComplete{
			CommandActionComplete: &messages.CommandActionComplete{
				CompletedId: actionID,
				Result: &messages.CommandActionComplete_TestResult{
					TestResult: result,
				},
			},
		},
	})
}

func (s *Suite[W]) attachmentSink() AttachmentSink {
	sink, _ := s.config.Formatter.(AttachmentSink)
	return sink
}

func (s *Suite[W]) initializeTestCase(command *messages.CommandInitializeTestCase) {
	testResult := messages.TestResult{
		Status: messages.TestResult_PASSED,
	}

	sc := newScenario(command.Pickle, s.attachmentSink())

	world, err := s.runBefore(sc)
	if err != nil {
		testResult.Status = messages.TestResult_FAILED
		testResult.Message = err.Error()
	} else {
		s.testCases.Store(command.Pickle.Id, &testCase[W]{scenario: sc, world: world})
	}

	s.complete(command.ActionId, &testResult)
}

func (s *Suite[W]) runBefore(sc *Scenario) (world W, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("before hook panicked: %v", r)
		}
	}()
	return s.before(sc)
}

func (s *Suite[W]) finishTestCase(pickleID string, failed bool) {
	v, ok := s.testCases.LoadAndDelete(pickleID)
	if !ok {
		return
	}
	tc := v.(*testCase[W])

	s.afterHooks.Add(1)
	go func() {
		defer s.afterHooks.Done()
		defer func() {
			if r := recover(); r != nil {
				s.recordHookError(fmt.Sprintf("after hook for %q panicked: %v", tc.scenario.Name, r))
			}
		}()
		s.after(tc.scenario, tc.world, failed)
	}()
}

func (s *Suite[W]) recordHookError(msg string) {
	s.hookErrorsMu.Lock()
	defer s.hookErrorsMu.Unlock()
	s.hookErrors = append(s.hookErrors, msg)
	fmt.Fprintln(s.stderr, msg)
}

func (s *Suite[W]) runTestStep(command *messages.CommandRunTestStep) {
	testResult := messages.TestResult{
		Status: messages.TestResult_PASSED,
	}

	err := s.callStepHandler(command)
	if errors.Is(err, ErrPending) {
		testResult.Status = messages.TestResult_PENDING
	} else if err != nil {
		testResult.Status = messages.TestResult_FAILED
		testResult.Message = err.Error()
	}

	s.complete(command.ActionId, &testResult)
}

func (s *Suite[W]) callStepHandler(command *messages.CommandRunTestStep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step panicked: %v", r)
		}
	}()

	i, err := strconv.Atoi(command.StepDefinitionId)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(s.stepDefinitions) {
		return fmt.Errorf("unknown step definition %q", command.StepDefinitionId)
	}

	var captures []string

	for _, patternMatch := range command.PatternMatches {
		captures = append(captures, patternMatch.Captures...)
	}

	v, ok := s.testCases.Load(command.PickleId)
	if !ok {
		return fmt.Errorf("no world for pickle %s", command.PickleId)
	}
	return s.stepDefinitions[i].Handler(v.(*testCase[W]).world, captures...)
}
