package analyzers

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/reaandrew/a11ygrade/core"
)

const (
	ModeComponent = "component"
	ModeDocument  = "document"
	ModeSource    = "source"
)

// Analysis is the outcome of auditing one file.
type Analysis struct {
	Language string
	Mode     string
	Findings []core.Finding
}

// AnalyzeFile picks the entry point from the file name: HTML files are
// documents, .jsx/.tsx are components and everything else goes through
// language detection and markup extraction.
func AnalyzeFile(path string, content string) (Analysis, error) {
	analysis := Analysis{Mode: ModeForPath(path)}
	if analysis.Mode == ModeDocument {
		analysis.Language = "HTML"
	} else {
		analysis.Language = enry.GetLanguage(filepath.Base(path), []byte(content))
		if analysis.Language == "HTML" {
			analysis.Mode = ModeDocument
		}
	}

	findings, err := SafeAnalyze(func() []core.Finding {
		switch analysis.Mode {
		case ModeDocument:
			return AnalyzeDocument(content)
		case ModeComponent:
			return AnalyzeMarkupComponent(content)
		default:
			return AnalyzeSource(analysis.Language, content)
		}
	})
	analysis.Findings = findings
	return analysis, err
}

// ModeForPath maps a file extension to the analysis mode AnalyzeFile uses.
func ModeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return ModeDocument
	case ".jsx", ".tsx":
		return ModeComponent
	default:
		return ModeSource
	}
}

// AnalyzeByFileType follows the plain CLI and HTTP default: "html" and
// "htm" are documents, anything else is a component.
func AnalyzeByFileType(fileType string, code string) []core.Finding {
	if IsDocumentType(fileType) {
		return AnalyzeDocument(code)
	}
	return AnalyzeMarkupComponent(code)
}

func IsDocumentType(fileType string) bool {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fileType), ".")) {
	case "html", "htm":
		return true
	}
	return false
}
