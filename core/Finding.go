package core

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule ids emitted outside the rule registry.
const (
	ParseErrorRuleID  = "parse-error"
	NoHtmlFoundRuleID = "no-html-found"
	// AnalysisErrorRuleID marks a file whose analysis failed during a scan.
	AnalysisErrorRuleID = "analysis-error"
)

// Location is 1-based.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Finding struct {
	RuleID   string    `json:"ruleId"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Location *Location `json:"loc,omitempty"`
}

func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

// FileAudit holds the findings produced for a single source file.
type FileAudit struct {
	Path     string    `json:"path,omitempty"`
	RepoName string    `json:"repo_name,omitempty"`
	Language string    `json:"language,omitempty"`
	Mode     string    `json:"mode,omitempty"`
	Findings []Finding `json:"findings"`
}

func (a FileAudit) Errors() int {
	count := 0
	for _, finding := range a.Findings {
		if finding.Severity == SeverityError {
			count++
		}
	}
	return count
}

func (a FileAudit) Warnings() int {
	count := 0
	for _, finding := range a.Findings {
		if finding.Severity == SeverityWarning {
			count++
		}
	}
	return count
}
