package cli

import (
	"fmt"
	"time"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type BuildError struct {
	Source  string
	Message string
	Details []string
}

type BuildReport struct {
	colors      Colors
	steps       []BuildStep
	errors      []BuildError
	startTime   time.Time
	fileCount   int
	classCount  int
	outputDir   string
	hasFailures bool
}

func NewBuildReport(colors Colors, outputDir string) *BuildReport {
	return &BuildReport{
		colors:    colors,
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *BuildReport) SetCounts(files, classes int) {
	r.fileCount = files
	r.classCount = classes
}

func (r *BuildReport) StartStep(name string) *BuildStep {
	r.steps = append(r.steps, BuildStep{Name: name, StartTime: time.Now()})
	return &r.steps[len(r.steps)-1]
}

func (r *BuildReport) EndStep(step *BuildStep, success bool, err string) {
	step.EndTime = time.Now()
	step.Success = success
	step.Error = err
	if !success {
		r.hasFailures = true
	}
}

func (r *BuildReport) AddError(source, message string, details []string) {
	r.errors = append(r.errors, BuildError{Source: source, Message: message, Details: details})
	r.hasFailures = true
}

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func (r *BuildReport) Render() {
	out := r.colors.Out()
	duration := time.Since(r.startTime)

	fmt.Fprintf(out, "  "+r.colors.Green("✓ ")+"%d content files, %d class candidates\n", r.fileCount, r.classCount)

	for _, step := range r.steps {
		if !step.Success {
			fmt.Fprintf(out, "  %s %s\n", r.colors.Red("✗"), step.Name)
		}
	}

	if len(r.errors) > 0 {
		errOut := r.colors.Err()
		fmt.Fprintln(errOut)
		fmt.Fprintf(errOut, "  "+r.colors.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		for _, e := range r.errors {
			fmt.Fprintf(errOut, "  %s %s\n", r.colors.Red("✗"), e.Source)
			fmt.Fprintf(errOut, "    %s\n", e.Message)
			for _, detail := range deduplicateStrings(e.Details) {
				fmt.Fprintf(errOut, "      • %s\n", detail)
			}
		}
		fmt.Fprintf(errOut, "\n  %s\n", r.colors.Red("Build failed after "+formatDuration(duration)))
		return
	}

	fmt.Fprintf(out, "  "+r.colors.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	if r.outputDir != "" {
		fmt.Fprintf(out, "\n  %s\n", r.colors.Gray("Output: "+r.outputDir))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}
	return result
}
