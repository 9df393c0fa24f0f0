package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// CatalogConfig contains settings shared by every output format
type CatalogConfig struct {
	Title    string   `toml:"title"`
	Basename string   `toml:"basename"` // output file basename, no extension
	Library  string   `toml:"library"`  // path to the library directory
	Search   string   `toml:"search"`   // search expression selecting the books
	Fields   []string `toml:"fields"`   // CSV/XML field list, or ["all"]
	SortBy   string   `toml:"sort-by"`  // CSV/XML sort field
	Rules    string   `toml:"rules"`    // path to rules.yaml, optional
}

// DefaultCatalogConfig returns a catalog config with defaults
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Title:    "My Books",
		Basename: "Catalog",
		Fields:   []string{"all"},
		SortBy:   "id",
	}
}

// EpubConfig contains settings for the EPUB/MOBI catalog builder
type EpubConfig struct {
	Sections          []string `toml:"sections"`
	ExcludeGenre      string   `toml:"exclude-genre"`
	ExcludeTags       []string `toml:"exclude-tags"`
	ReadBookMarker    string   `toml:"read-book-marker"` // "field:pattern"
	WishlistTag       string   `toml:"wishlist-tag"`
	MergeComments     string   `toml:"merge-comments"` // "column:position:separator"
	ThumbWidth        float64  `toml:"thumb-width"`    // inches
	GenerateForKindle bool     `toml:"generate-for-kindle"`
	OutputProfile     string   `toml:"output-profile"` // "default" or "kindle"
	CrossReferences   bool     `toml:"cross-references"`
	DescriptionClip   int      `toml:"description-clip"`
	AuthorClip        int      `toml:"author-clip"`
}

// DefaultEpubConfig returns an EPUB config with defaults
func DefaultEpubConfig() EpubConfig {
	return EpubConfig{
		Sections: []string{
			"authors", "titles", "series", "genres",
			"recently_added", "recently_read", "descriptions",
		},
		ExcludeGenre:    `\[.+\]|^\+$`,
		ExcludeTags:     []string{"~", "Catalog"},
		ReadBookMarker:  "tag:+",
		WishlistTag:     "Wishlist",
		ThumbWidth:      1.0,
		OutputProfile:   "default",
		CrossReferences: true,
	}
}

// BibtexConfig contains settings for the BibTeX writer
type BibtexConfig struct {
	EntryType        string `toml:"entry-type"` // "book", "misc" or "mixed"
	CitationTemplate string `toml:"citation-template"`
	ASCIIOutput      bool   `toml:"ascii"`
}

// DefaultBibtexConfig returns a BibTeX config with defaults
func DefaultBibtexConfig() BibtexConfig {
	return BibtexConfig{
		EntryType:        "mixed",
		CitationTemplate: "{authors}{id}",
		ASCIIOutput:      true,
	}
}

// Config is the top-level configuration
type Config struct {
	Catalog   CatalogConfig          `toml:"catalog"`
	Epub      EpubConfig             `toml:"epub"`
	Bibtex    BibtexConfig           `toml:"bibtex"`
	Output    map[string]interface{} `toml:"output"`
	Processor map[string]interface{} `toml:"processor"`
	raw       map[string]interface{} // Raw TOML values
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Catalog:   DefaultCatalogConfig(),
		Epub:      DefaultEpubConfig(),
		Bibtex:    DefaultBibtexConfig(),
		Output:    make(map[string]interface{}),
		Processor: make(map[string]interface{}),
		raw:       make(map[string]interface{}),
	}
}

// LoadFromFile loads configuration from a catalog.toml file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromString(string(data))
}

// LoadFromString loads configuration from a TOML string
func LoadFromString(content string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := toml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := toml.Unmarshal([]byte(content), &cfg.raw); err != nil {
		return nil, fmt.Errorf("failed to parse raw config: %w", err)
	}

	cfg.UpdateFromEnv()
	return cfg, nil
}

// UpdateFromEnv updates config from environment variables
// Variables starting with BOOKCAT_ are used
// BOOKCAT_FOO_BAR -> foo-bar
// BOOKCAT_FOO__BAR -> foo.bar
func (c *Config) UpdateFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "BOOKCAT_") {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "BOOKCAT_")
		value := parts[1]

		configKey := strings.ToLower(key)
		configKey = strings.ReplaceAll(configKey, "__", ".")
		configKey = strings.ReplaceAll(configKey, "_", "-")

		c.Set(configKey, value)
	}
}

// Set sets a configuration value using dot notation (e.g., "catalog.title", "epub.thumb-width")
func (c *Config) Set(key, value string) {
	parts := strings.Split(key, ".")

	switch parts[0] {
	case "catalog":
		if len(parts) >= 2 {
			c.setCatalogValue(parts[1:], value)
		}
	case "epub":
		if len(parts) >= 2 {
			c.setEpubValue(parts[1:], value)
		}
	case "bibtex":
		if len(parts) >= 2 {
			c.setBibtexValue(parts[1:], value)
		}
	default:
		// Store in raw map
		c.setRawValue(parts, value)
	}
}

func (c *Config) setCatalogValue(parts []string, value string) {
	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case "title":
		c.Catalog.Title = value
	case "basename":
		c.Catalog.Basename = value
	case "library":
		c.Catalog.Library = value
	case "search":
		c.Catalog.Search = value
	case "fields":
		c.Catalog.Fields = splitList(value)
	case "sort-by":
		c.Catalog.SortBy = value
	case "rules":
		c.Catalog.Rules = value
	}
}

func (c *Config) setEpubValue(parts []string, value string) {
	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case "sections":
		c.Epub.Sections = splitList(value)
	case "exclude-genre":
		c.Epub.ExcludeGenre = value
	case "exclude-tags":
		c.Epub.ExcludeTags = splitList(value)
	case "read-book-marker":
		c.Epub.ReadBookMarker = value
	case "wishlist-tag":
		c.Epub.WishlistTag = value
	case "merge-comments":
		c.Epub.MergeComments = value
	case "thumb-width":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			c.Epub.ThumbWidth = f
		}
	case "generate-for-kindle":
		c.Epub.GenerateForKindle = strings.ToLower(value) == "true"
	case "output-profile":
		c.Epub.OutputProfile = value
	case "cross-references":
		c.Epub.CrossReferences = strings.ToLower(value) == "true"
	}
}

func (c *Config) setBibtexValue(parts []string, value string) {
	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case "entry-type":
		c.Bibtex.EntryType = value
	case "citation-template":
		c.Bibtex.CitationTemplate = value
	case "ascii":
		c.Bibtex.ASCIIOutput = strings.ToLower(value) == "true"
	}
}

func (c *Config) setRawValue(parts []string, value string) {
	current := c.raw
	for i, part := range parts[:len(parts)-1] {
		if current[part] == nil {
			current[part] = make(map[string]interface{})
		}
		if m, ok := current[part].(map[string]interface{}); ok {
			current = m
		} else if i == len(parts)-2 {
			current[part] = map[string]interface{}{}
			if m, ok := current[part].(map[string]interface{}); ok {
				current = m
			}
		}
	}

	if len(parts) > 0 {
		current[parts[len(parts)-1]] = value
	}
}

// Get retrieves a value from the config using dot notation
func (c *Config) Get(key string) (interface{}, bool) {
	parts := strings.Split(key, ".")

	if parts[0] == "output" && len(parts) > 1 {
		val, ok := c.Output[parts[1]]
		return val, ok
	} else if parts[0] == "processor" && len(parts) > 1 {
		val, ok := c.Processor[parts[1]]
		return val, ok
	}

	// Check raw values
	current := c.raw
	for _, part := range parts {
		if v, ok := current[part]; ok {
			if m, isMap := v.(map[string]interface{}); isMap {
				current = m
			} else {
				return v, true
			}
		} else {
			return nil, false
		}
	}

	return current, true
}

// GetString retrieves a string value from config
func (c *Config) GetString(key string, defaultVal string) string {
	val, ok := c.Get(key)
	if !ok {
		return defaultVal
	}
	if s, isStr := val.(string); isStr {
		return s
	}
	return defaultVal
}

// GetBool retrieves a bool value from config
func (c *Config) GetBool(key string, defaultVal bool) bool {
	val, ok := c.Get(key)
	if !ok {
		return defaultVal
	}
	if b, isBool := val.(bool); isBool {
		return b
	}
	return defaultVal
}

// Normalize clamps option values to their supported ranges and fills in
// profile-dependent defaults. Returns the list of adjustments made so the
// caller can log them.
func (c *Config) Normalize() []string {
	var notes []string

	if c.Epub.ThumbWidth < 1.0 || c.Epub.ThumbWidth > 2.0 {
		notes = append(notes, fmt.Sprintf("coercing thumb-width %.2f to 1.0", c.Epub.ThumbWidth))
		c.Epub.ThumbWidth = 1.0
	}

	// Kindle output implies the kindle profile and vice versa
	if c.Epub.GenerateForKindle && c.Epub.OutputProfile == "default" {
		c.Epub.OutputProfile = "kindle"
	}

	if c.Epub.DescriptionClip == 0 {
		if c.Epub.OutputProfile == "kindle" {
			c.Epub.DescriptionClip = 380
		} else {
			c.Epub.DescriptionClip = 100
		}
	}
	if c.Epub.AuthorClip == 0 {
		if c.Epub.OutputProfile == "kindle" {
			c.Epub.AuthorClip = 100
		} else {
			c.Epub.AuthorClip = 60
		}
	}

	return notes
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
