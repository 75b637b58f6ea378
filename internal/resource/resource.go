// Package resource resolves url templates like
// "https://tiles.example.com/{z}/{x}/{reverseY}.png?key=abc" into concrete urls.
package resource

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNoTemplate = errors.New("no url template given")

	placeholder = regexp.MustCompile(`\{([^{}]*)\}`)
)

// Resource is an url template with additional query parameters.
type Resource struct {
	template string
	query    url.Values
}

// New creates a resource for the template. The extra query parameters are
// appended to every derived url.
func New(template string, query map[string]string) (*Resource, error) {
	template = strings.TrimSpace(template)
	if template == "" {
		return nil, ErrNoTemplate
	}
	if _, err := url.Parse(placeholder.ReplaceAllString(template, "0")); err != nil {
		return nil, errors.Wrapf(err, "invalid url template %q", template)
	}
	qv := url.Values{}
	for k, v := range query {
		qv.Set(k, v)
	}
	return &Resource{
		template: template,
		query:    qv,
	}, nil
}

// Template returns the raw url template
func (r *Resource) Template() string {
	if r == nil {
		return ""
	}
	return r.template
}

// Derive replaces all known placeholders with the given values. Unknown
// placeholders are kept as they are. If preserveQuery is set, the query of
// the template is kept and the extra query parameters are appended,
// parameters already present in the template win.
// Derive returns false if the resource could not be resolved to an url.
func (r *Resource) Derive(values map[string]string, preserveQuery bool) (string, bool) {
	if r == nil {
		return "", false
	}
	raw := placeholder.ReplaceAllStringFunc(r.template, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := values[key]; ok {
			return url.PathEscape(v)
		}
		return m
	})

	base, query, _ := strings.Cut(raw, "?")
	if !preserveQuery {
		query = ""
	}
	extra := url.Values{}
	existing, _ := url.ParseQuery(query)
	for k, vs := range r.query {
		if _, ok := existing[k]; ok {
			continue
		}
		extra[k] = vs
	}
	if len(extra) > 0 {
		if query != "" {
			query += "&"
		}
		query += extra.Encode()
	}
	if query == "" {
		return base, true
	}
	return base + "?" + query, true
}
