package conformance

import "testing"

func TestConformance(t *testing.T) {
	tests, err := LoadAllTests()
	if err != nil {
		t.Fatalf("failed to load fixtures: %v", err)
	}
	if len(tests) == 0 {
		t.Fatal("no fixtures loaded")
	}

	runner := NewRunner()
	results := runner.RunAll(tests)
	stats := ComputeStats(results)

	byFile := make(map[string][]TestResult)
	for _, r := range results {
		byFile[r.Test.File] = append(byFile[r.Test.File], r)
	}

	for file, fileResults := range byFile {
		t.Run(file, func(t *testing.T) {
			for _, r := range fileResults {
				t.Run(r.Test.Test.Name, func(t *testing.T) {
					if !r.Passed {
						t.Errorf("%v", r.Error)
					}
				})
			}
		})
	}

	t.Logf("%s", FormatStats(stats))
}
