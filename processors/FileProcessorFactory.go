package processors

import (
	"github.com/reaandrew/a11ygrade/config"
	"github.com/reaandrew/a11ygrade/core"
)

func InitializeProcessors(cfg config.Config) ([]core.FileProcessor, error) {
	var processors []core.FileProcessor

	markupProcessor, err := NewMarkupProcessor(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	processors = append(processors, markupProcessor)

	return processors, nil
}
