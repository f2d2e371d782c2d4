package cucumber

import (
	"fmt"

	messages "github.com/cucumber/cucumber-messages-go/v3"
)

type Formatter interface {
	ProcessMessage(msg *messages.Envelope)
	DisplaySummary(summary Summary)
}

type debugFormatter struct{}

func (df *debugFormatter) ProcessMessage(msg *messages.Envelope) {
	fmt.Printf("cucumber-engine OUT: %+v\n", msg)
}

func (df *debugFormatter) DisplaySummary(summary Summary) {
	fmt.Printf("summary: %+v\n", summary)
}

// NewDebugFormatter prints every engine message as is.
func NewDebugFormatter() Formatter {
	return &debugFormatter{}
}

type nopFormatter struct{}

func (nf *nopFormatter) ProcessMessage(msg *messages.Envelope) {
}
func (nf *nopFormatter) DisplaySummary(summary Summary) {
}

// NewNopFormatter discards all output.
func NewNopFormatter() Formatter {
	return &nopFormatter{}
}

type multiFormatter []Formatter

// NewMultiFormatter fans messages, summaries and attachments out to every
// formatter in order.
func NewMultiFormatter(formatters ...Formatter) Formatter {
	return multiFormatter(formatters)
}

func (mf multiFormatter) ProcessMessage(msg *messages.Envelope) {
	for _, f := range mf {
		f.ProcessMessage(msg)
	}
}

func (mf multiFormatter) DisplaySummary(summary Summary) {
	for _, f := range mf {
		f.DisplaySummary(summary)
	}
}

func (mf multiFormatter) Attach(pickleID string, a Attachment) {
	for _, f := range mf {
		if sink, ok := f.(AttachmentSink); ok {
			sink.Attach(pickleID, a)
		}
	}
}
