package handler

import (
	"context"
	"fmt"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/DukeRupert/localguys/internal/csrf"
	"github.com/DukeRupert/localguys/internal/templ/icons"
	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateFuncs returns the functions available to every template set.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Components
		"cx":   mergeClasses,
		"icon": renderIcon,
		"dict": dict,

		// Values
		"str":   str,
		"lower": strings.ToLower,
		// Casers hold state, so each call gets its own
		"title": func(v any) string { return cases.Title(language.English).String(str(v)) },
		"year":  func() int { return time.Now().Year() },
		"has":   slices.Contains[[]string, string],
		"ternary": func(cond bool, yes, no any) any {
			if cond {
				return yes
			}
			return no
		},
		"default": func(fallback, v any) any {
			if v == nil || v == "" || v == 0 {
				return fallback
			}
			return v
		},

		// Forms
		"csrfField": func(token string) template.HTML {
			return template.HTML(fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`,
				csrf.FormFieldName, template.HTMLEscapeString(token)))
		},
	}
}

// mergeClasses joins Tailwind class lists; a later class wins over a
// conflicting earlier one, so components take overrides:
//
//	{{cx "px-4 py-2" .Class}}
func mergeClasses(classes ...string) string {
	return twmerge.Merge(classes...)
}

// renderIcon renders an icon component inline. Unknown names render nothing.
func renderIcon(name string, class ...string) (template.HTML, error) {
	return templ.ToGoHTML(context.Background(), icons.Icon(name, strings.Join(class, " ")))
}

// dict builds a map from key/value pairs so templates can pass several
// parameters to a component. Odd or non-string keys yield nil.
func dict(pairs ...any) map[string]any {
	if len(pairs)%2 != 0 {
		return nil
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil
		}
		m[key] = pairs[i+1]
	}
	return m
}

// str formats v for templates; nil is empty rather than "<nil>".
func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
