package render

import (
	"embed"
	"fmt"

	"github.com/aymerick/raymond"
)

//go:embed templates
var templatesFS embed.FS

// Pages wraps the parsed Handlebars templates producing the XHTML documents
type Pages struct {
	page        *raymond.Template
	description *raymond.Template
	language    string
}

// NewPages parses the embedded templates
func NewPages(language string) (*Pages, error) {
	if language == "" {
		language = "en"
	}

	page, err := parseTemplate("templates/page.html.hbs")
	if err != nil {
		return nil, err
	}
	description, err := parseTemplate("templates/description.html.hbs")
	if err != nil {
		return nil, err
	}

	return &Pages{page: page, description: description, language: language}, nil
}

func parseTemplate(name string) (*raymond.Template, error) {
	data, err := templatesFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	tpl, err := raymond.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return tpl, nil
}

// RenderPage wraps a body fragment in the XHTML page shell
func (p *Pages) RenderPage(title, body string) (string, error) {
	result, err := p.page.Exec(map[string]interface{}{
		"language": p.language,
		"title":    title,
		"content":  raymond.SafeString(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render page %q: %w", title, err)
	}
	return result, nil
}

// RenderDescription renders the body of one book description page
func (p *Pages) RenderDescription(data map[string]interface{}) (string, error) {
	result, err := p.description.Exec(data)
	if err != nil {
		return "", fmt.Errorf("failed to render description: %w", err)
	}
	return result, nil
}
