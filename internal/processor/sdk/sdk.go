// Package sdk provides helpers for developing bookcat record processors in Go.
//
// Example usage:
//
//	package main
//
//	import (
//		"log"
//		"github.com/geocine/bookcat/internal/processor/sdk"
//	)
//
//	func main() {
//		ctx, err := sdk.ReadContext()
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Modify ctx.Books here
//		// For example, retag every record
//		for i := range ctx.Books {
//			ctx.Books[i].Tags = append(ctx.Books[i].Tags, "Cataloged")
//		}
//
//		if err := sdk.WriteContext(ctx); err != nil {
//			log.Fatal(err)
//		}
//	}
package sdk

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/geocine/bookcat/internal/processor/runner"
)

// ReadContext reads a processor context from stdin
// Returns the parsed ProcessorContext
func ReadContext() (*runner.ProcessorContext, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}

	ctx, err := runner.UnmarshalContext(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal context: %w", err)
	}

	return ctx, nil
}

// WriteContext writes a processor context to stdout
// This is what will be read by bookcat to apply mutations
func WriteContext(ctx *runner.ProcessorContext) error {
	data, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("failed to write stdout: %w", err)
	}

	return nil
}

// AddTag appends a tag to every record that does not carry it yet.
// This is a common operation for processors.
func AddTag(records []runner.JsonRecord, tag string) {
	for i := range records {
		found := false
		for _, t := range records[i].Tags {
			if t == tag {
				found = true
				break
			}
		}
		if !found {
			records[i].Tags = append(records[i].Tags, tag)
		}
	}
}

// DropTag removes a tag from every record carrying it.
func DropTag(records []runner.JsonRecord, tag string) {
	for i := range records {
		kept := records[i].Tags[:0]
		for _, t := range records[i].Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		records[i].Tags = kept
	}
}
