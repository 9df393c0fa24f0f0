package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// FillInitOptionsInteractive prompts the user to confirm or override defaults.
// If stdin is not interactive, it will keep the provided defaults.
func FillInitOptionsInteractive(opts *InitOptions) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("Directory name [%s]: ", opts.Dir)
	if s, _ := reader.ReadString('\n'); strings.TrimSpace(s) != "" {
		opts.Dir = strings.TrimSpace(s)
	}

	defTitle := opts.Title
	if defTitle == "" {
		defTitle = opts.Dir
	}
	fmt.Printf("Catalog title [%s]: ", defTitle)
	if s, _ := reader.ReadString('\n'); strings.TrimSpace(s) != "" {
		opts.Title = strings.TrimSpace(s)
	} else if opts.Title == "" {
		opts.Title = defTitle
	}

	fmt.Printf("Library directory [%s]: ", opts.Library)
	if s, _ := reader.ReadString('\n'); strings.TrimSpace(s) != "" {
		opts.Library = strings.TrimSpace(s)
	}
}
