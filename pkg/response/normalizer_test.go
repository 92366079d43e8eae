package response

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips citation markers and source line",
			in:   "Hello [1] world (2). Source: xyz",
			want: "Hello world.",
		},
		{
			name: "strips reference lines",
			in:   "Take a slow breath.\nReferences: Journal of Calm, 2019",
			want: "Take a slow breath.",
		},
		{
			name: "strips according-to lead-in",
			in:   "According to recent studies, sleep helps recovery",
			want: "sleep helps recovery.",
		},
		{
			name: "collapses whitespace",
			in:   "You   are\n\nnot  alone",
			want: "You are not alone.",
		},
		{
			name: "appends missing terminal punctuation",
			in:   "That sounds really hard",
			want: "That sounds really hard.",
		},
		{
			name: "already terminated stays unchanged",
			in:   "already ends!",
			want: "already ends!",
		},
		{
			name: "truncates to three sentences",
			in:   "One. Two! Three? Four. Five.",
			want: "One. Two! Three?",
		},
		{
			name: "three sentences survive intact",
			in:   "First thought. Second thought. Third thought.",
			want: "First thought. Second thought. Third thought.",
		},
		{
			name: "empty input stays empty",
			in:   "",
			want: "",
		},
		{
			name: "whitespace-only input stays empty",
			in:   "   \n\t ",
			want: "",
		},
		{
			name: "decimal numbers are not sentence boundaries",
			in:   "Try breathing for 4.5 seconds on each exhale",
			want: "Try breathing for 4.5 seconds on each exhale.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello [1] world (2). Source: xyz",
		"One. Two! Three? Four. Five.",
		"plain text without punctuation",
		"already ends!",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
