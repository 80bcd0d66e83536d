package reporters

import (
	"fmt"
	"io"

	"github.com/reaandrew/a11ygrade/config"
	"github.com/reaandrew/a11ygrade/core"
)

func CreateReporter(cfg config.Config, out io.Writer) (core.Reporter, error) {
	switch cfg.Report.Format {
	case "text", "":
		return TextReporter{Writer: out}, nil
	case "json":
		return JsonReporter{
			Queries:        cfg.Summary,
			ArtifactPrefix: cfg.Report.Prefix,
			OutputDir:      cfg.Report.OutputDir,
		}, nil
	case "xlsx":
		return XlsxReporter{
			Queries:        cfg.Summary,
			ArtifactPrefix: cfg.Report.Prefix,
			OutputDir:      cfg.Report.OutputDir,
		}, nil
	case "http":
		if cfg.Report.BaseURL == "" {
			return nil, fmt.Errorf("http report format requires a base url")
		}
		return NewDefaultHttpReporter(cfg.Report.BaseURL), nil
	}
	return nil, fmt.Errorf("unknown report format: %s", cfg.Report.Format)
}
