package cli

import (
	"fmt"
	"path/filepath"

	"github.com/geocine/bookcat/internal/utils"
)

// InitOptions captures options for scaffolding a new catalog project
type InitOptions struct {
	Dir     string // project directory
	Title   string // catalog title; defaults to Dir
	Library string // path to the library directory
}

// Init scaffolds a catalog project: catalog.toml plus a starter rules.yaml
func Init(opts InitOptions) error {
	if opts.Dir == "" {
		opts.Dir = "my-catalog"
	}
	if opts.Title == "" {
		opts.Title = opts.Dir
	}

	if err := utils.CreateDirAll(opts.Dir); err != nil {
		return err
	}

	catalogToml := []byte(fmt.Sprintf(`[catalog]
title = "%s"
basename = "Catalog"
library = "%s"
rules = "rules.yaml"

[epub]
sections = ["authors", "titles", "series", "genres", "recently_added", "recently_read", "descriptions"]
read-book-marker = "tag:+"
wishlist-tag = "Wishlist"
thumb-width = 1.0
generate-for-kindle = false
cross-references = true
`, opts.Title, opts.Library))
	if err := utils.WriteFile(filepath.Join(opts.Dir, "catalog.toml"), catalogToml); err != nil {
		return err
	}

	rulesYaml := []byte(`exclusions:
  - name: catalog maintenance
    field: tags
    pattern: "Catalog"

prefixes:
  - name: read book
    field: read
    pattern: "true"
    prefix: "+"
  - name: wishlist item
    field: wishlist
    pattern: "true"
    prefix: "x"
`)
	if err := utils.WriteFile(filepath.Join(opts.Dir, "rules.yaml"), rulesYaml); err != nil {
		return err
	}

	gitignore := []byte("*.epub\n*.csv\n*.xml\n*.bib\nthumbs.zip\n")
	return utils.WriteFile(filepath.Join(opts.Dir, ".gitignore"), gitignore)
}
