package config

import (
	"fmt"
	"strings"
)

// Artifacts says which artifacts a scenario records and whether they are
// kept for passing scenarios. It is computed once and never changed.
type Artifacts struct {
	Screenshots   bool
	Videos        bool
	Traces        bool
	OnlyOnFailure bool
}

// Retention is the per-type keep decision for one finished scenario.
type Retention struct {
	Screenshot bool
	Video      bool
	Trace      bool
}

// Any reports whether at least one artifact type is kept.
func (r Retention) Any() bool {
	return r.Screenshot || r.Video || r.Trace
}

// DefaultArtifacts records everything and keeps it only for failures.
func DefaultArtifacts() Artifacts {
	return Artifacts{
		Screenshots:   true,
		Videos:        true,
		Traces:        true,
		OnlyOnFailure: true,
	}
}

// ArtifactsFromLookup resolves the artifact settings from environment
// variables. Precedence, highest first: NO_ARTIFACTS, FORCE_<TYPE>, the
// per-type switch, ARTIFACTS_ON_SUCCESS.
func ArtifactsFromLookup(lookup LookupFunc) Artifacts {
	a := DefaultArtifacts()

	if on, ok := boolVar(lookup, "ARTIFACTS_ON_SUCCESS"); ok {
		a.OnlyOnFailure = !on
	}

	a.Screenshots = resolveCapture(lookup, a.Screenshots, "SCREENSHOTS", "SCREENSHOT")
	a.Videos = resolveCapture(lookup, a.Videos, "VIDEOS", "VIDEO")
	a.Traces = resolveCapture(lookup, a.Traces, "TRACES", "TRACE")

	if off, _ := boolVar(lookup, "NO_ARTIFACTS"); off {
		a.Screenshots = false
		a.Videos = false
		a.Traces = false
	}

	return a
}

// resolveCapture applies the per-type switch (either spelling) and then the
// FORCE_ override.
func resolveCapture(lookup LookupFunc, def bool, name, alias string) bool {
	enabled := def
	if v, ok := boolVar(lookup, alias); ok {
		enabled = v
	}
	if v, ok := boolVar(lookup, name); ok {
		enabled = v
	}
	if force, _ := boolVar(lookup, "FORCE_"+name); force {
		enabled = true
	}
	return enabled
}

// Retain decides what to keep for a scenario that did or did not fail.
func (a Artifacts) Retain(failed bool) Retention {
	keep := failed || !a.OnlyOnFailure
	return Retention{
		Screenshot: a.Screenshots && keep,
		Video:      a.Videos && keep,
		Trace:      a.Traces && keep,
	}
}

// Any reports whether anything is recorded at all.
func (a Artifacts) Any() bool {
	return a.Screenshots || a.Videos || a.Traces
}

func (a Artifacts) Describe() string {
	if !a.Any() {
		return "off"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "screenshots=%s videos=%s traces=%s", onOff(a.Screenshots), onOff(a.Videos), onOff(a.Traces))
	if a.OnlyOnFailure {
		b.WriteString(" (kept on failure only)")
	} else {
		b.WriteString(" (kept for every scenario)")
	}
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
