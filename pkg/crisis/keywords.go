package crisis

// DefaultPhraseListVersion identifies the curated list shipped with the
// binary. Deployments that load a list from file should bump the version in
// config so analytics can tell which list produced a match.
const DefaultPhraseListVersion = "2024-06-curated-v1"

// DefaultPhrases is the curated risk phrase list. Matching is substring
// based, so multi-word phrases stay lowercase and punctuation-free.
func DefaultPhrases() []string {
	return []string{
		// Suicidal thoughts
		"suicide",
		"suicidal",
		"kill myself",
		"end my life",
		"want to die",
		"better off dead",
		"no reason to live",
		"take my life",
		"end it all",
		"not worth living",

		// Self-harm
		"self harm",
		"cut myself",
		"hurt myself",
		"harm myself",
		"self-harm",

		// Hopelessness
		"hopeless",
		"no hope",
		"give up",
		"can't go on",
		"nothing matters",
		"no point",
		"meaningless",
		"worthless",
		"burden",
		"everyone would be better without me",

		// Depression indicators
		"nobody cares",
		"alone forever",
		"can't take it anymore",
		"done with life",
		"tired of living",
		"wish I wasn't here",
		"disappear",
		"end the pain",
	}
}
