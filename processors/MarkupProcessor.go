package processors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/gobwas/glob"
	"github.com/reaandrew/a11ygrade/analyzers"
	"github.com/reaandrew/a11ygrade/core"
	log "github.com/sirupsen/logrus"
)

// MarkupProcessor audits every file that matches an include glob and no
// exclude glob. Vendored and generated files are skipped. Paths are
// expected relative to the scanned root.
type MarkupProcessor struct {
	Include []glob.Glob
	Exclude []glob.Glob
}

func NewMarkupProcessor(include, exclude []string) (*MarkupProcessor, error) {
	processor := &MarkupProcessor{}
	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern '%s': %w", pattern, err)
		}
		processor.Include = append(processor.Include, g)
	}
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		processor.Exclude = append(processor.Exclude, g)
	}
	return processor, nil
}

// globPath gives every path a leading slash so "**/x" also matches at the
// top level.
func globPath(path string) string {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return slashed
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func (m *MarkupProcessor) Supports(path string) bool {
	slashed := globPath(path)
	if matchAny(m.Exclude, slashed) || enry.IsVendor(slashed) {
		return false
	}
	return matchAny(m.Include, slashed)
}

// Process returns nothing for generated files and for source files that
// carry no markup at all.
func (m *MarkupProcessor) Process(path string, repoName string, content string) ([]core.FileAudit, error) {
	if enry.IsGenerated(path, []byte(content)) {
		log.Debugf("Skipping generated file %s", path)
		return nil, nil
	}

	analysis, err := analyzers.AnalyzeFile(path, content)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", path, err)
	}
	if analysis.Mode == analyzers.ModeSource && onlyNoMarkup(analysis.Findings) {
		return nil, nil
	}

	return []core.FileAudit{{
		Path:     path,
		RepoName: repoName,
		Language: analysis.Language,
		Mode:     analysis.Mode,
		Findings: analysis.Findings,
	}}, nil
}

func onlyNoMarkup(findings []core.Finding) bool {
	for _, finding := range findings {
		if finding.RuleID != core.NoHtmlFoundRuleID {
			return false
		}
	}
	return true
}
