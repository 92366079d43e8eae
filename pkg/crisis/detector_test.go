package crisis

import (
	"reflect"
	"testing"
)

func TestDetect(t *testing.T) {
	d := NewDefaultDetector()

	tests := []struct {
		name        string
		text        string
		wantFound   bool
		wantPhrases []string
	}{
		{
			name:        "exact phrase",
			text:        "I want to die.",
			wantFound:   true,
			wantPhrases: []string{"want to die"},
		},
		{
			name:        "mixed case",
			text:        "I feel HOPELESS today",
			wantFound:   true,
			wantPhrases: []string{"hopeless"},
		},
		{
			name:        "substring without word boundaries",
			text:        "iwanttodietoday",
			wantFound:   true,
			wantPhrases: []string{"want to die"},
		},
		{
			name:        "phrase inside larger compound",
			text:        "I read about the suicide-prevention-rally downtown",
			wantFound:   true,
			wantPhrases: []string{"suicide"},
		},
		{
			name:      "no risk phrases",
			text:      "I had a lovely walk in the park",
			wantFound: false,
		},
		{
			name:      "empty input",
			text:      "",
			wantFound: false,
		},
		{
			name:        "multiple matches in list order",
			text:        "Everything feels hopeless and I want to die",
			wantFound:   true,
			wantPhrases: []string{"want to die", "hopeless"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text)

			if got.Found != tt.wantFound {
				t.Errorf("Found = %v, want %v", got.Found, tt.wantFound)
			}
			if tt.wantPhrases != nil && !reflect.DeepEqual(got.Phrases, tt.wantPhrases) {
				t.Errorf("Phrases = %v, want %v", got.Phrases, tt.wantPhrases)
			}
			if !tt.wantFound && len(got.Phrases) != 0 {
				t.Errorf("Phrases = %v, want empty", got.Phrases)
			}
		})
	}
}

func TestDetectOrderFollowsPhraseList(t *testing.T) {
	// Match order must be phrase-list insertion order, not input order.
	d := NewDetector([]string{"alpha", "beta"}, "fixture-v1")

	got := d.Detect("beta comes before alpha in this sentence")
	want := []string{"alpha", "beta"}
	if !reflect.DeepEqual(got.Phrases, want) {
		t.Errorf("Phrases = %v, want %v", got.Phrases, want)
	}
}

func TestDetectInjectedFixtureList(t *testing.T) {
	d := NewDetector([]string{"red flag"}, "fixture-v1")

	if !d.Detect("this is a RED FLAG for sure").Found {
		t.Error("fixture phrase should match case-insensitively")
	}
	if d.Detect("I want to die").Found {
		t.Error("default phrases must not leak into an injected list")
	}
	if d.Version() != "fixture-v1" {
		t.Errorf("Version = %q, want %q", d.Version(), "fixture-v1")
	}
}
