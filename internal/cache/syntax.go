package cache

import "html/template"

// Chroma stylesheets by syntax theme name.
var syntaxStylesheets = NewCache[string, template.CSS]()

// SyntaxCSS returns the stylesheet of theme, calling generate on first use.
// A failed generation is not kept.
func SyntaxCSS(theme string, generate func() (template.CSS, error)) (template.CSS, error) {
	if css, ok := syntaxStylesheets.Get(theme); ok {
		return css, nil
	}

	css, err := generate()
	if err != nil {
		return "", err
	}
	syntaxStylesheets.Set(theme, css)
	return css, nil
}
