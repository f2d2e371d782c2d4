package cucumber

import (
	messages "github.com/cucumber/cucumber-messages-go/v3"
)

// Attachment is a blob attached to a running scenario, e.g. a failure
// screenshot or a trace archive.
type Attachment struct {
	Data      []byte
	MediaType string
}

// AttachmentSink is implemented by formatters that persist attachments.
type AttachmentSink interface {
	Attach(pickleID string, a Attachment)
}

// Scenario describes the pickle a world was created for.
type Scenario struct {
	ID   string
	Name string
	URI  string
	Tags []string

	sink AttachmentSink
}

func newScenario(pickle *messages.Pickle, sink AttachmentSink) *Scenario {
	sc := &Scenario{
		ID:   pickle.Id,
		Name: pickle.Name,
		URI:  pickle.Uri,
		sink: sink,
	}
	for _, tag := range pickle.Tags {
		sc.Tags = append(sc.Tags, tag.Name)
	}
	return sc
}

// HasTag reports whether the scenario carries tag (with the leading @).
func (sc *Scenario) HasTag(tag string) bool {
	for _, t := range sc.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Attach hands data to the configured formatter. Without a sink
// attachments are dropped.
func (sc *Scenario) Attach(data []byte, mediaType string) {
	if sc.sink == nil {
		return
	}
	sc.sink.Attach(sc.ID, Attachment{Data: data, MediaType: mediaType})
}

// Log attaches a plain text note.
func (sc *Scenario) Log(text string) {
	sc.Attach([]byte(text), "text/plain")
}
