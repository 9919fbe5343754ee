// Package theme handles theme management, syntax highlighting, and CSS generation.
package theme

import (
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
)

func settings() config.ThemeConfig {
	if config.AppConfig == nil {
		return config.Default().Theme
	}
	return config.AppConfig.Theme
}

func IsTheme(name string) bool {
	return name == config.LightTheme || name == config.DarkTheme
}

func IsSyntaxTheme(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// GetThemeFromRequest returns the theme cookie when it names a known theme.
func GetThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil && IsTheme(cookie.Value) {
		return cookie.Value
	}
	return settings().Default
}

func GetDefaultSyntaxTheme(theme string) string {
	s := settings().SyntaxHighlighting
	return map[string]string{
		config.LightTheme: s.DefaultLight,
		config.DarkTheme:  s.DefaultDark,
	}[theme]
}

func GetSyntaxThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil && IsSyntaxTheme(cookie.Value) {
		return cookie.Value
	}
	return GetDefaultSyntaxTheme(GetThemeFromRequest(r))
}

func OppositeTheme(theme string) string {
	if theme == config.LightTheme {
		return config.DarkTheme
	}
	return config.LightTheme
}

func GetSyntaxThemes() []string {
	styleNames := styles.Names()
	slices.Sort(styleNames)
	return styleNames
}

func GetFormatter() *html.Formatter {
	formatter := html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WithLineNumbers(true),
		html.WrapLongLines(true),
	)
	return formatter
}

// GenerateSyntaxCSS returns the chroma stylesheet of a syntax theme. Unknown
// names get the fallback style.
func GenerateSyntaxCSS(theme string) template.CSS {
	css, err := cache.SyntaxCSS(theme, func() (template.CSS, error) {
		return syntaxCSS(theme)
	})
	if err != nil {
		return ""
	}
	return css
}

func syntaxCSS(theme string) (template.CSS, error) {
	var buf strings.Builder
	style := styles.Get(theme)

	// Styles without a text colour would leave code unreadable on light backgrounds.
	if bg := style.Get(chroma.Background); !bg.Colour.IsSet() && luminance(bg.Background) > 0.5 {
		buf.WriteString(".chroma { color: #181818; }\n")
	}

	if err := GetFormatter().WriteCSS(&buf, style); err != nil {
		return "", err
	}
	return template.CSS(buf.String()), nil
}

func luminance(c chroma.Colour) float64 {
	return (0.299*float64(c.Red()) + 0.587*float64(c.Green()) + 0.114*float64(c.Blue())) / 255
}

func GetThemeIcon(theme string) string {
	if theme == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}

// Cookie builds a long-lived, site-wide preference cookie.
func Cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	}
}
