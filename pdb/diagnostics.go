// ===========================================================================
//
// File Name:  diagnostics.go
//
// ==========================================================================

package pdb

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/gedex/inflector"
	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// Stats accumulates the counters printed by the build summary banner.
type Stats struct {
	Articles  int
	Languages int
	Warnings  int
	Start     time.Time
}

// NewStats starts the build timer.
func NewStats() *Stats {
	return &Stats{Start: time.Now()}
}

var (
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
)

// Warnf prints a colorized warning to stderr. The link resolver uses it for
// unresolved marks and Build for its -verbose progress lines; empty
// translations are dropped without a warning.
func Warnf(format string, args ...any) {
	warnColor.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// Fatalf prints a colorized error line to stderr. It does not exit; callers
// decide whether the failure is fatal for the current build.
func Fatalf(format string, args ...any) {
	failColor.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

// PrintSummary prints the build-complete banner. Build prints it, after
// PrintBanner's CPU/memory topology lines, only when Options.Stats is set.
func (s *Stats) PrintSummary() {
	elapsed := time.Since(s.Start)

	articles := inflector.Pluralize("article")
	if s.Articles == 1 {
		articles = inflector.Singularize(articles)
	}
	languages := inflector.Pluralize("language")
	if s.Languages == 1 {
		languages = inflector.Singularize(languages)
	}

	okColor.Fprintf(os.Stderr,
		"compiled %d %s across %d %s in %s\n",
		s.Articles, articles, s.Languages, languages, elapsed.Round(time.Millisecond))

	if s.Warnings > 0 {
		warnColor.Fprintf(os.Stderr, "%d unresolved reference(s)\n", s.Warnings)
	}
}

// PrintBanner prints the CPU/memory topology line shown under -stats,
// mirroring the teacher's PrintMemory/PrintStats pair.
func PrintBanner() {
	cores := cpuid.CPU.PhysicalCores
	threads := cpuid.CPU.LogicalCores
	fmt.Fprintf(os.Stderr, "cpu: %s, %d physical core(s), %d logical\n",
		cpuid.CPU.BrandName, cores, threads)

	total := memory.TotalMemory()
	free := memory.FreeMemory()
	fmt.Fprintf(os.Stderr, "mem: %.1f MiB total, %.1f MiB free\n",
		float64(total)/(1<<20), float64(free)/(1<<20))
}
