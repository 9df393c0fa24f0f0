package runner

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/processor"
)

// Runner manages the record processor pipeline
type Runner struct {
	cfg              *config.Config
	format           string
	disableExternals bool
	builtins         map[string]processor.Processor
}

// NewRunner creates a new processor runner. The builtins (exclusions,
// readstatus) are constructed by the caller because they need the ruleset
// and marker options.
func NewRunner(cfg *config.Config, format string, builtins []processor.Processor) *Runner {
	m := make(map[string]processor.Processor, len(builtins))
	for _, b := range builtins {
		m[b.Name()] = b
	}
	return &Runner{
		cfg:      cfg,
		format:   format,
		builtins: m,
	}
}

// SetDisableExternals disables external processor execution
func (r *Runner) SetDisableExternals(disable bool) {
	r.disableExternals = disable
}

// Run executes the processor pipeline on the record set
func (r *Runner) Run(books []*models.Book) ([]*models.Book, error) {
	configured := r.cfg.GetProcessorConfigs()

	orderedNames, err := r.executionOrder(configured)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve processor order: %w", err)
	}

	log.Debugf("processor execution order: %v", orderedNames)

	for _, name := range orderedNames {
		if isBuiltinProcessor(name) {
			p, ok := r.builtins[name]
			if !ok {
				continue
			}
			log.Debugf("running processor: %s (built-in)", name)
			if books, err = p.Process(books); err != nil {
				return nil, fmt.Errorf("processor '%s' failed: %w", name, err)
			}
			continue
		}

		// External processor
		if r.disableExternals {
			log.Debugf("skipping processor: %s (externals disabled)", name)
			continue
		}

		pCfg, ok := configured[name]
		if !ok {
			log.Warnf("processor '%s' not found in config", name)
			continue
		}

		if pCfg.Command != "" {
			log.Debugf("running processor: %s (external): %s", name, pCfg.Command)
		} else {
			log.Debugf("running processor: %s (external): bookcat-%s", name, name)
		}

		ep := &ExternalProcessor{
			Name:       name,
			Command:    pCfg.Command,
			Formats:    pCfg.Formats,
			Config:     r.cfg,
			Format:     r.format,
			ExtraProps: pCfg.Extra,
		}

		if books, err = ep.RunExternal(books); err != nil {
			return nil, fmt.Errorf("processor '%s' failed: %w", name, err)
		}
	}

	return books, nil
}

// GetExecutionOrder returns the processors that will be executed (for testing/inspection)
func (r *Runner) GetExecutionOrder() ([]string, error) {
	return r.executionOrder(r.cfg.GetProcessorConfigs())
}

func (r *Runner) executionOrder(configured config.ProcessorConfigs) ([]string, error) {
	custom := make(map[string]struct {
		Before []string
		After  []string
	})

	for name, pCfg := range configured {
		custom[name] = struct {
			Before []string
			After  []string
		}{
			Before: pCfg.Before,
			After:  pCfg.After,
		}
	}

	return ResolveProcessorOrder(GetBuiltinProcessors(), custom, true)
}
