package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/models"
)

// ExternalProcessor represents a record processor that runs as a separate command
type ExternalProcessor struct {
	Name       string
	Command    string
	Formats    []string
	Config     *config.Config
	Format     string
	ExtraProps map[string]interface{}
}

// RunExternal executes an external processor and returns the modified record set
func (ep *ExternalProcessor) RunExternal(books []*models.Book) ([]*models.Book, error) {
	// Resolve command if not specified
	command := ep.Command
	if command == "" {
		command = fmt.Sprintf("bookcat-%s", ep.Name)
	}

	// Check if the processor should run for this output format
	if len(ep.Formats) > 0 {
		found := false
		for _, f := range ep.Formats {
			if f == ep.Format {
				found = true
				break
			}
		}
		if !found {
			return books, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pCtx := NewProcessorContext(books, ep.Config, ep.Format)

	inputJSON, err := json.Marshal(pCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal processor context: %w", err)
	}

	// Parse command (handle shell commands like "node script.js")
	parts := strings.Fields(command)
	var cmd *exec.Cmd
	if len(parts) == 1 {
		cmd = exec.CommandContext(ctx, parts[0])
	} else {
		cmd = exec.CommandContext(ctx, parts[0], parts[1:]...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(inputJSON)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrMsg := stderr.String()
		if stderrMsg != "" {
			return nil, fmt.Errorf("processor '%s' failed: %w\nstderr: %s", ep.Name, err, stderrMsg)
		}
		return nil, fmt.Errorf("processor '%s' failed: %w", ep.Name, err)
	}

	var outputCtx ProcessorContext
	if err := json.Unmarshal(stdout.Bytes(), &outputCtx); err != nil {
		return nil, fmt.Errorf("processor '%s' returned invalid JSON: %w\noutput: %s", ep.Name, err, stdout.String())
	}

	modified, err := JsonToBooks(outputCtx.Books)
	if err != nil {
		return nil, fmt.Errorf("failed to apply processor mutations: %w", err)
	}

	return modified, nil
}

// ResolveCommand resolves the command for a processor
// If command is specified, uses it as-is (may contain spaces for shell commands)
// Otherwise, resolves to "bookcat-<name>" on PATH
func ResolveCommand(name, command string) (string, error) {
	if command != "" {
		return command, nil
	}

	defaultCommand := fmt.Sprintf("bookcat-%s", name)

	path, err := exec.LookPath(defaultCommand)
	if err == nil {
		return path, nil
	}

	// If not found, return it anyway (will fail at runtime with a clear error)
	return defaultCommand, nil
}

// ValidateCommandExists checks if a command can be resolved
func ValidateCommandExists(command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return fmt.Errorf("empty command")
	}

	_, err := exec.LookPath(parts[0])
	return err
}

// isBuiltinProcessor checks if a processor is built-in (runs in-process)
func isBuiltinProcessor(name string) bool {
	builtins := map[string]bool{
		"exclusions": true,
		"readstatus": true,
	}
	return builtins[name]
}

// GetBuiltinProcessors returns the built-in processor names in default order.
// Exclusions run first so later stages never see dropped books.
func GetBuiltinProcessors() []string {
	return []string{"exclusions", "readstatus"}
}
