package cucumber

import (
	"fmt"
	"time"
)

// Summary is what Run returns. ExitCode is 1 whenever the engine reports an
// unsuccessful run, which includes undefined steps in strict mode.
type Summary struct {
	Success  bool
	ExitCode int
	Duration time.Duration

	TestCasesTotal     int
	TestCasesPassed    int
	TestCasesFailed    int
	TestCasesPending   int
	TestCasesUndefined int

	StepsTotal     int
	StepsPassed    int
	StepsFailed    int
	StepsPending   int
	StepsUndefined int
	StepsSkipped   int

	// AfterHookErrors holds the panics of after hooks. They fail the run.
	AfterHookErrors []string
}

func (s Summary) String() string {
	out := fmt.Sprintf("%d/%d scenarios passed, %d failed, %d steps in %s",
		s.TestCasesPassed, s.TestCasesTotal, s.TestCasesFailed, s.StepsTotal, s.Duration.Round(time.Millisecond))
	if n := len(s.AfterHookErrors); n > 0 {
		out += fmt.Sprintf(", %d after hooks panicked", n)
	}
	return out
}
