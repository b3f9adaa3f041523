// Package identity resolves raw "evaluated" cells into canonical people.
package identity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/segmentation"
)

// Sentinels returned for blank input.
const (
	UnknownName  = "Sin nombre"
	UnknownEmail = "sin@email.com"

	defaultPlaceholderDomain = "empresa.com"
)

// Identity is a resolved person.
type Identity struct {
	Name  string
	Email string
	// Segmentation is set when the directory knew the person; its area takes
	// precedence over any area on the evaluation row.
	Segmentation *model.UserSegmentation
}

// Matched reports whether the directory supplied the identity.
func (i Identity) Matched() bool { return i.Segmentation != nil }

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithPlaceholderDomain sets the domain of synthesized e-mail addresses.
func WithPlaceholderDomain(domain string) Option {
	return func(r *Resolver) {
		if domain = strings.TrimPrefix(strings.TrimSpace(domain), "@"); domain != "" {
			r.domain = domain
		}
	}
}

// Resolver maps raw values to identities using a segmentation directory.
// It is pure: the same input always yields the same identity.
type Resolver struct {
	dir    *segmentation.Directory
	domain string
	title  cases.Caser
}

// New creates a Resolver over dir, which may be nil.
func New(dir *segmentation.Directory, opts ...Option) *Resolver {
	r := &Resolver{
		dir:    dir,
		domain: defaultPlaceholderDomain,
		title:  cases.Title(language.Spanish),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: every input yields some name.
func (r *Resolver) Resolve(raw string) Identity {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Identity{Name: UnknownName, Email: UnknownEmail}
	}

	if u, ok := r.dir.Lookup(value); ok {
		return fromSegmentation(u)
	}
	if u, ok := r.dir.FindByName(value); ok {
		return fromSegmentation(u)
	}

	if strings.Contains(value, "@") {
		return Identity{Name: r.NameFromEmail(value), Email: value}
	}
	return Identity{Name: value, Email: r.PlaceholderEmail(value)}
}

// NameFromEmail title-cases the tokens of the local part of addr.
func (r *Resolver) NameFromEmail(addr string) string {
	local, _, _ := strings.Cut(addr, "@")
	tokens := strings.FieldsFunc(local, func(c rune) bool {
		return c == '.' || c == '_' || c == '-'
	})
	for i, t := range tokens {
		tokens[i] = r.title.String(t)
	}
	name := strings.Join(tokens, " ")
	if name == "" {
		return UnknownName
	}
	return name
}

// PlaceholderEmail synthesizes an address for a person known only by name.
func (r *Resolver) PlaceholderEmail(name string) string {
	local := strings.Join(strings.Fields(strings.ToLower(name)), ".")
	return local + "@" + r.domain
}

func fromSegmentation(u model.UserSegmentation) Identity {
	seg := u
	return Identity{Name: u.Name, Email: u.ID, Segmentation: &seg}
}
