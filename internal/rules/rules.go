package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/geocine/bookcat/internal/models"
)

// Rule matches a book field against a pattern. Exclusion rules drop the
// book from the catalog; prefix rules pick the glyph shown before its title.
type Rule struct {
	Name    string `yaml:"name"`
	Field   string `yaml:"field"`
	Pattern string `yaml:"pattern"`
	Prefix  string `yaml:"prefix,omitempty"`

	re *regexp.Regexp
}

// Ruleset holds the compiled exclusion and prefix rules for one catalog run.
type Ruleset struct {
	Exclusions []Rule `yaml:"exclusions"`
	Prefixes   []Rule `yaml:"prefixes"`
}

// Default returns the ruleset used when no rules file is configured:
// no exclusions, read books marked "+" and wishlist books marked "x".
func Default() *Ruleset {
	rs := &Ruleset{
		Prefixes: []Rule{
			{Name: "Read book", Field: "read", Pattern: "true", Prefix: "+"},
			{Name: "Wishlist item", Field: "wishlist", Pattern: "true", Prefix: "x"},
		},
	}
	// Defaults are static, compile cannot fail
	_ = rs.compile()
	return rs
}

// LoadFromFile reads and compiles a rules.yaml file.
func LoadFromFile(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return LoadFromString(string(data))
}

// LoadFromString parses and compiles a YAML ruleset.
func LoadFromString(content string) (*Ruleset, error) {
	rs := &Ruleset{}
	if err := yaml.Unmarshal([]byte(content), rs); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := rs.compile(); err != nil {
		return nil, err
	}
	return rs, nil
}

func (rs *Ruleset) compile() error {
	for i := range rs.Exclusions {
		r := &rs.Exclusions[i]
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("exclusion rule %q has invalid pattern: %w", r.Name, err)
		}
		r.re = re
	}
	for i := range rs.Prefixes {
		r := &rs.Prefixes[i]
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("prefix rule %q has invalid pattern: %w", r.Name, err)
		}
		r.re = re
	}
	return nil
}

// Excluded reports whether any exclusion rule matches the book.
func (rs *Ruleset) Excluded(book *models.Book) (bool, string) {
	for i := range rs.Exclusions {
		r := &rs.Exclusions[i]
		if matchField(r, book) {
			return true, r.Name
		}
	}
	return false, ""
}

// PrefixFor returns the prefix of the first matching prefix rule, or " "
// so listings stay column-aligned when nothing matches.
func (rs *Ruleset) PrefixFor(book *models.Book) string {
	for i := range rs.Prefixes {
		r := &rs.Prefixes[i]
		if matchField(r, book) {
			return r.Prefix
		}
	}
	return " "
}

func matchField(r *Rule, book *models.Book) bool {
	switch strings.ToLower(r.Field) {
	case "tags":
		for _, tag := range book.Tags {
			if r.re.MatchString(tag) {
				return true
			}
		}
		return false
	case "title":
		return r.re.MatchString(book.Title)
	case "authors":
		for _, a := range book.Authors {
			if r.re.MatchString(a) {
				return true
			}
		}
		return false
	case "publisher":
		return r.re.MatchString(book.Publisher)
	case "series":
		return r.re.MatchString(book.Series)
	case "read":
		return r.re.MatchString(fmt.Sprintf("%t", book.ReadStatus))
	case "wishlist":
		return r.re.MatchString(fmt.Sprintf("%t", book.Wishlist))
	}
	return false
}
