package cucumber

import (
	"fmt"
	"io"

	messages "github.com/cucumber/cucumber-messages-go/v3"
	"github.com/fatih/color"
)

const (
	successColor   = color.FgGreen
	failureColor   = color.FgRed
	skippedColor   = color.FgCyan
	undefinedColor = color.FgYellow
	pendingColor   = color.FgYellow
	ambiguousColor = color.FgMagenta
)

type progressMark struct {
	symbol string
	color  color.Attribute
}

var stepMarks = map[messages.TestResult_Status]progressMark{
	messages.TestResult_PASSED:    {".", successColor},
	messages.TestResult_FAILED:    {"F", failureColor},
	messages.TestResult_SKIPPED:   {"-", skippedColor},
	messages.TestResult_UNDEFINED: {"U", undefinedColor},
	messages.TestResult_PENDING:   {"P", pendingColor},
	messages.TestResult_AMBIGUOUS: {"A", ambiguousColor},
}

// hookMark is printed for a scenario that failed outside its steps, which
// happens when the browser could not be started for it.
var hookMark = progressMark{"H", failureColor}

// dotFormatter prints one mark per step and the failure summary at the end.
type dotFormatter struct {
	out     io.Writer
	summary *summaryFormatter

	stepFailed map[string]bool
}

func NewDotFormatter(stdout io.Writer) *dotFormatter {
	return &dotFormatter{
		out:        stdout,
		summary:    NewSummaryFormatter(stdout),
		stepFailed: map[string]bool{},
	}
}

func (df *dotFormatter) ProcessMessage(msg *messages.Envelope) {
	switch m := msg.Message.(type) {
	case *messages.Envelope_TestStepFinished:
		status := m.TestStepFinished.TestResult.GetStatus()
		if status == messages.TestResult_FAILED {
			df.stepFailed[m.TestStepFinished.PickleId] = true
		}
		if mark, ok := stepMarks[status]; ok {
			df.print(mark)
		}
	case *messages.Envelope_TestHookFinished:
		if m.TestHookFinished.TestResult.GetStatus() == messages.TestResult_FAILED {
			df.print(hookMark)
		}
	case *messages.Envelope_TestCaseFinished:
		pickleID := m.TestCaseFinished.PickleId
		if m.TestCaseFinished.TestResult.GetStatus() == messages.TestResult_FAILED && !df.stepFailed[pickleID] {
			df.print(hookMark)
		}
		delete(df.stepFailed, pickleID)
	case *messages.Envelope_TestRunFinished:
		fmt.Fprint(df.out, "\n")
	}

	df.summary.ProcessMessage(msg)
}

func (df *dotFormatter) print(mark progressMark) {
	color.New(mark.color).Fprint(df.out, mark.symbol)
}

func (df *dotFormatter) DisplaySummary(summary Summary) {
	df.summary.DisplaySummary(summary)
}
