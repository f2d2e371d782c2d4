package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactsDefaults(t *testing.T) {
	a := ArtifactsFromLookup(MapLookup(nil))
	assert.Equal(t, DefaultArtifacts(), a)
}

func TestArtifactsPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Artifacts
	}{
		{
			name: "no artifacts beats everything",
			env: map[string]string{
				"NO_ARTIFACTS":      "true",
				"FORCE_SCREENSHOTS": "true",
				"FORCE_VIDEOS":      "true",
				"FORCE_TRACES":      "true",
				"VIDEO":             "true",
			},
			want: Artifacts{OnlyOnFailure: true},
		},
		{
			name: "force beats per type disable",
			env:  map[string]string{"FORCE_VIDEOS": "true", "VIDEOS": "false"},
			want: Artifacts{Screenshots: true, Videos: true, Traces: true, OnlyOnFailure: true},
		},
		{
			name: "per type disable",
			env:  map[string]string{"TRACE": "false", "SCREENSHOTS": "0"},
			want: Artifacts{Videos: true, OnlyOnFailure: true},
		},
		{
			name: "plural spelling wins over singular",
			env:  map[string]string{"VIDEO": "false", "VIDEOS": "true"},
			want: Artifacts{Screenshots: true, Videos: true, Traces: true, OnlyOnFailure: true},
		},
		{
			name: "keep on success",
			env:  map[string]string{"ARTIFACTS_ON_SUCCESS": "true"},
			want: Artifacts{Screenshots: true, Videos: true, Traces: true},
		},
		{
			name: "garbage values fall back to defaults",
			env:  map[string]string{"VIDEOS": "maybe", "NO_ARTIFACTS": "sometimes"},
			want: DefaultArtifacts(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArtifactsFromLookup(MapLookup(tt.env)))
		})
	}
}

func TestNoArtifactsAlwaysDisablesCapture(t *testing.T) {
	others := []string{"SCREENSHOT", "SCREENSHOTS", "VIDEO", "VIDEOS", "TRACE", "TRACES",
		"FORCE_SCREENSHOTS", "FORCE_VIDEOS", "FORCE_TRACES", "ARTIFACTS_ON_SUCCESS"}

	// every subset of the other switches set to true
	for mask := 0; mask < 1<<len(others); mask++ {
		env := map[string]string{"NO_ARTIFACTS": "true"}
		for i, key := range others {
			if mask&(1<<i) != 0 {
				env[key] = "true"
			}
		}
		a := ArtifactsFromLookup(MapLookup(env))
		assert.False(t, a.Screenshots || a.Videos || a.Traces, "env %v", env)
	}
}

func TestRetain(t *testing.T) {
	a := DefaultArtifacts()
	assert.Equal(t, Retention{Screenshot: true, Video: true, Trace: true}, a.Retain(true))
	assert.Equal(t, Retention{}, a.Retain(false))
	assert.False(t, a.Retain(false).Any())

	a.OnlyOnFailure = false
	assert.Equal(t, Retention{Screenshot: true, Video: true, Trace: true}, a.Retain(false))

	a.Videos = false
	assert.Equal(t, Retention{Screenshot: true, Trace: true}, a.Retain(true))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "screenshots=on videos=on traces=on (kept on failure only)", DefaultArtifacts().Describe())
	assert.Equal(t, "off", Artifacts{}.Describe())
	assert.Equal(t, "screenshots=off videos=off traces=on (kept for every scenario)", Artifacts{Traces: true}.Describe())
}
