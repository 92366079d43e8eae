package crisis

import "strings"

// Match is the result of scanning a single message. It lives for the
// duration of the request only; callers embed it into analytics metadata
// but never persist it as an authoritative flag.
type Match struct {
	Found   bool
	Phrases []string
}

// Detector scans free text for risk phrases from an injected, versioned
// list. Matching is case-insensitive substring containment and deliberately
// NOT word-boundary aware: "suicide" matches inside
// "suicide-prevention-rally". Recall is preferred over precision here.
type Detector struct {
	phrases []string
	lowered []string
	version string
}

// NewDetector builds a detector over the given phrase list. Phrase order is
// preserved; matches are reported in list order, not input order.
func NewDetector(phrases []string, version string) *Detector {
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &Detector{
		phrases: phrases,
		lowered: lowered,
		version: version,
	}
}

// NewDefaultDetector builds a detector over the curated built-in list.
func NewDefaultDetector() *Detector {
	return NewDetector(DefaultPhrases(), DefaultPhraseListVersion)
}

// Detect scans text and returns every phrase contained in it. Deterministic,
// no side effects, linear in len(text) x phrase count.
func (d *Detector) Detect(text string) Match {
	lowerText := strings.ToLower(text)

	var matches []string
	for i, phrase := range d.lowered {
		if strings.Contains(lowerText, phrase) {
			matches = append(matches, d.phrases[i])
		}
	}

	return Match{
		Found:   len(matches) > 0,
		Phrases: matches,
	}
}

// Version returns the identifier of the phrase list in use.
func (d *Detector) Version() string {
	return d.version
}

// PhraseCount returns the size of the injected list.
func (d *Detector) PhraseCount() int {
	return len(d.phrases)
}
