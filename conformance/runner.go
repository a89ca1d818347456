package conformance

import (
	"fmt"
	"sort"

	"github.com/kustomzone/monty/monty"
	"github.com/kustomzone/monty/types"
)

// TestResult is the outcome of running a single LoadedTest.
type TestResult struct {
	Test   LoadedTest
	Passed bool
	Error  error
}

// Runner drives monty.Session instances for a batch of loaded tests. It
// holds no state between runs — every case gets its own Session, matching
// monty.Session's own "fresh evaluator per Start" guarantee.
type Runner struct{}

func NewRunner() *Runner { return &Runner{} }

// RunAll executes every test and returns one TestResult per case.
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, t := range tests {
		results[i] = r.Run(t)
	}
	return results
}

// Run executes one test case: parses and starts its script, replays any
// declared Resumes against successive suspensions, then checks the final
// outcome against the case's Expectation.
func (r *Runner) Run(test LoadedTest) TestResult {
	tc := test.Test

	inputNames := make([]string, 0, len(tc.Inputs))
	for name := range tc.Inputs {
		inputNames = append(inputNames, name)
	}
	sort.Strings(inputNames)

	sess, err := monty.NewSession(tc.Code,
		monty.WithScriptName(test.File+"/"+tc.Name),
		monty.WithInputs(inputNames...),
		monty.WithExternalFunctions(tc.External...),
	)
	if err != nil {
		return r.checkError(test, err)
	}

	inputs := make(map[string]types.Value, len(tc.Inputs))
	for name, v := range tc.Inputs {
		inputs[name] = fromYAML(v)
	}

	var printed []PrintToken
	capture := func(stream, text string) {
		printed = append(printed, PrintToken{Stream: stream, Text: text})
	}

	out, err := sess.Start(inputs, monty.ResourceLimits{}, capture)
	if err != nil {
		return r.checkError(test, err)
	}

	for _, step := range tc.Resumes {
		snap, ok := out.(*monty.Snapshot)
		if !ok {
			return TestResult{Test: test, Passed: false,
				Error: fmt.Errorf("resume step given but script already completed")}
		}
		var returnValue types.Value
		var exc *types.ExceptionInstance
		if step.Raise != "" {
			exc = types.NewException(types.ErrorClass(step.Raise), types.NewStr(step.Raise))
		} else {
			returnValue = fromYAML(step.Return)
		}
		out, err = snap.Resume(returnValue, exc)
		if err != nil {
			return r.checkError(test, err)
		}
	}

	result := r.checkOutcome(test, out)
	if !result.Passed || tc.Expect.PrintTokens == nil {
		return result
	}
	if err := checkPrintTokens(tc.Expect.PrintTokens, printed); err != nil {
		return TestResult{Test: test, Passed: false, Error: err}
	}
	return result
}

// checkPrintTokens compares the print callback's observed call sequence
// against the fixture's expected tokens exactly, in order.
func checkPrintTokens(want, got []PrintToken) error {
	if len(want) != len(got) {
		return fmt.Errorf("print callback received %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("print callback token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	return nil
}

func (r *Runner) checkError(test LoadedTest, err error) TestResult {
	expect := test.Test.Expect
	if expect.Error == "" {
		return TestResult{Test: test, Passed: false, Error: err}
	}
	if rte, ok := err.(*monty.MontyRuntimeError); ok {
		if string(rte.Exception().Class) == expect.Error {
			return TestResult{Test: test, Passed: true}
		}
		return TestResult{Test: test, Passed: false,
			Error: fmt.Errorf("expected error %s, got %s", expect.Error, rte.Exception().Class)}
	}
	if he, ok := err.(*monty.HostError); ok {
		if string(he.Class) == expect.Error {
			return TestResult{Test: test, Passed: true}
		}
	}
	return TestResult{Test: test, Passed: false, Error: err}
}

func (r *Runner) checkOutcome(test LoadedTest, out monty.Outcome) TestResult {
	expect := test.Test.Expect

	switch v := out.(type) {
	case *monty.Snapshot:
		if expect.Suspended == "" {
			return TestResult{Test: test, Passed: false,
				Error: fmt.Errorf("script suspended on %s but no suspension was expected", v.FunctionName())}
		}
		if v.FunctionName() != expect.Suspended {
			return TestResult{Test: test, Passed: false,
				Error: fmt.Errorf("expected suspension on %s, got %s", expect.Suspended, v.FunctionName())}
		}
		return TestResult{Test: test, Passed: true}
	case *monty.Complete:
		if expect.Suspended != "" {
			return TestResult{Test: test, Passed: false,
				Error: fmt.Errorf("expected suspension on %s, script completed instead", expect.Suspended)}
		}
		if expect.Output == nil {
			return TestResult{Test: test, Passed: true}
		}
		want := fromYAML(expect.Output)
		// YAML has no tuple syntax, so a sequence stands for a tuple output too.
		if l, ok := want.(*types.ListValue); ok {
			if _, isTuple := v.Output.(types.TupleValue); isTuple {
				want = types.NewTuple(*l.Elems)
			}
		}
		if !v.Output.Equal(want) {
			return TestResult{Test: test, Passed: false,
				Error: fmt.Errorf("expected output %s, got %s", want.String(), v.Output.String())}
		}
		return TestResult{Test: test, Passed: true}
	}
	return TestResult{Test: test, Passed: false, Error: fmt.Errorf("unrecognized outcome %T", out)}
}

// fromYAML converts a decoded YAML scalar/sequence/mapping into the
// corresponding script value, mirroring the subset yaml.v3 produces for
// plain (non-tagged) nodes.
func fromYAML(v interface{}) types.Value {
	switch x := v.(type) {
	case nil:
		return types.NewNone()
	case bool:
		return types.NewBool(x)
	case int:
		return types.NewInt(int64(x))
	case int64:
		return types.NewInt(x)
	case float64:
		return types.NewFloat(x)
	case string:
		return types.NewStr(x)
	case []interface{}:
		elems := make([]types.Value, len(x))
		for i, e := range x {
			elems[i] = fromYAML(e)
		}
		return types.NewList(elems)
	case map[string]interface{}:
		d := types.NewDict()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d.Set(types.NewStr(k), fromYAML(x[k]))
		}
		return d
	default:
		return types.NewNone()
	}
}

// SummaryStats tallies a batch of TestResults.
type SummaryStats struct {
	Total  int
	Passed int
	Failed int
}

func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed (%d total)", stats.Passed, stats.Failed, stats.Total)
}
