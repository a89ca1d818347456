// Command montyrun is a thin CLI front end for the monty embedding API: a
// single binary that either loads a script file or evaluates an inline
// snippet, and treats an unresumed suspension as something worth reporting
// rather than resolving automatically (only the embedding host knows how).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kustomzone/monty/monty"
)

func main() {
	scriptPath := flag.String("script", "", "path to a script file to run")
	evalExpr := flag.String("eval", "", "run an inline script snippet instead of -script")
	scriptName := flag.String("name", "main.py", "script name recorded in tracebacks/snapshots")
	maxAllocs := flag.Int64("max-allocations", 0, "allocation ceiling (0 = unlimited)")
	maxSteps := flag.Int64("max-steps", 0, "evaluation step ceiling (0 = unlimited)")
	maxDepth := flag.Int64("max-depth", 0, "call-depth ceiling (0 = unlimited)")
	flag.Parse()

	source, err := sourceFrom(*scriptPath, *evalExpr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "montyrun: %v\n", err)
		os.Exit(1)
	}

	sess, err := monty.NewSession(source, monty.WithScriptName(*scriptName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "montyrun: %v\n", err)
		os.Exit(1)
	}

	limits := monty.ResourceLimits{}
	if *maxAllocs > 0 {
		limits.MaxAllocations = maxAllocs
	}
	if *maxSteps > 0 {
		limits.MaxSteps = maxSteps
	}
	if *maxDepth > 0 {
		limits.MaxDepth = maxDepth
	}

	print := func(stream, text string) {
		if stream == "stderr" {
			fmt.Fprint(os.Stderr, text)
			return
		}
		fmt.Fprint(os.Stdout, text)
	}

	out, err := sess.Start(nil, limits, print)
	if err != nil {
		fmt.Fprintf(os.Stderr, "montyrun: %v\n", err)
		os.Exit(1)
	}
	switch v := out.(type) {
	case *monty.Complete:
		fmt.Println(v.String())
	case *monty.Snapshot:
		fmt.Println(v.String())
		fmt.Fprintln(os.Stderr, "montyrun: script suspended on an external call; the CLI does not resume it")
		os.Exit(2)
	}
}

func sourceFrom(scriptPath, evalExpr string) (string, error) {
	if scriptPath != "" && evalExpr != "" {
		return "", fmt.Errorf("specify only one of -script or -eval")
	}
	if evalExpr != "" {
		return evalExpr, nil
	}
	if scriptPath == "" {
		return "", fmt.Errorf("one of -script or -eval is required")
	}
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
