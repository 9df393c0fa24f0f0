package config

// ProcessorConfig holds configuration for a single record processor
type ProcessorConfig struct {
	// Command is the executable to run for external processors (optional)
	// If not specified, resolves to "bookcat-<name>" on PATH
	Command string `toml:"command"`

	// Formats is a list of output format names this processor applies to
	// If empty, applies to all formats
	Formats []string `toml:"formats"`

	// Before is a list of processor names that should run after this one
	Before []string `toml:"before"`

	// After is a list of processor names that should run before this one
	After []string `toml:"after"`

	// Extra holds arbitrary extra configuration passed to the processor
	Extra map[string]interface{}
}

// ProcessorConfigs is a map of processor name -> config
type ProcessorConfigs map[string]*ProcessorConfig

// GetProcessorConfigs builds typed processor configs from the raw
// [processor.<name>] tables.
func (c *Config) GetProcessorConfigs() ProcessorConfigs {
	out := make(ProcessorConfigs)
	for name, v := range c.Processor {
		pc := &ProcessorConfig{Extra: make(map[string]interface{})}
		if table, ok := v.(map[string]interface{}); ok {
			for key, val := range table {
				switch key {
				case "command":
					if s, ok := val.(string); ok {
						pc.Command = s
					}
				case "formats":
					pc.Formats = toStringSlice(val)
				case "before":
					pc.Before = toStringSlice(val)
				case "after":
					pc.After = toStringSlice(val)
				default:
					pc.Extra[key] = val
				}
			}
		}
		out[name] = pc
	}
	return out
}

func toStringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
