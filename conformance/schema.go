package conformance

// TestSuite is one YAML fixture file: a named group of related cases,
// a file-is-a-suite shape keyed to monty scripts.
type TestSuite struct {
	Name  string     `yaml:"name"`
	Tests []TestCase `yaml:"tests"`
}

// TestCase is a single script run through to completion (or through one or
// more suspend/resume round-trips) and checked against an Expectation.
type TestCase struct {
	Name     string                 `yaml:"name"`
	Code     string                 `yaml:"code"`
	Inputs   map[string]interface{} `yaml:"inputs,omitempty"`
	External []string               `yaml:"external,omitempty"`
	Resumes  []ResumeStep           `yaml:"resumes,omitempty"`
	Expect   Expectation            `yaml:"expect"`
}

// ResumeStep answers one suspension in sequence: exactly one of Return or
// Raise must be set, matching Snapshot.Resume's own XOR rule.
type ResumeStep struct {
	Return interface{} `yaml:"return,omitempty"`
	Raise  string      `yaml:"raise,omitempty"`
}

// Expectation is checked against the outcome left once Resumes is
// exhausted. Exactly one of Output, Error or Suspended should be set.
// PrintTokens, when present, is checked independently of those three: the
// exact, ordered sequence of (stream, text) pairs the print callback must
// have received, one entry per argument, per separator, and for the
// trailing end string.
type Expectation struct {
	Output      interface{}  `yaml:"output,omitempty"`
	Error       string       `yaml:"error,omitempty"`
	Suspended   string       `yaml:"suspended,omitempty"`
	PrintTokens []PrintToken `yaml:"print_tokens,omitempty"`
}

// PrintToken is one observed invocation of the print callback.
type PrintToken struct {
	Stream string `yaml:"stream"`
	Text   string `yaml:"text"`
}
