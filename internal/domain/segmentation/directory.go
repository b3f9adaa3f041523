// Package segmentation extracts the user directory from a segmentation
// workbook and answers lookups against it.
package segmentation

import (
	"sort"
	"strings"

	"github.com/okian/perfscope/internal/domain/model"
)

// Directory is an insertion-ordered map of users keyed by identifier.
// Setting an existing identifier replaces the entry in place.
type Directory struct {
	index map[string]int
	users []model.UserSegmentation
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{index: make(map[string]int)}
}

// Set stores u under u.ID, replacing any previous entry.
func (d *Directory) Set(u model.UserSegmentation) {
	if i, ok := d.index[u.ID]; ok {
		d.users[i] = u
		return
	}
	d.index[u.ID] = len(d.users)
	d.users = append(d.users, u)
}

// Lookup returns the entry with identifier id.
func (d *Directory) Lookup(id string) (model.UserSegmentation, bool) {
	if d == nil {
		return model.UserSegmentation{}, false
	}
	i, ok := d.index[id]
	if !ok {
		return model.UserSegmentation{}, false
	}
	return d.users[i], true
}

// FindByName returns the first entry whose display name equals name.
func (d *Directory) FindByName(name string) (model.UserSegmentation, bool) {
	if d == nil {
		return model.UserSegmentation{}, false
	}
	for _, u := range d.users {
		if u.Name == name {
			return u, true
		}
	}
	return model.UserSegmentation{}, false
}

// Len returns the number of users.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.users)
}

// Users returns a copy of all users in insertion order.
func (d *Directory) Users() []model.UserSegmentation {
	if d == nil {
		return nil
	}
	out := make([]model.UserSegmentation, len(d.users))
	copy(out, d.users)
	return out
}

// Values returns the sorted distinct non-blank values of a dimension.
func (d *Directory) Values(dim model.Dimension) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, u := range d.Users() {
		v := strings.TrimSpace(u.Value(dim))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Filter returns the users whose dimension equals value.
func (d *Directory) Filter(dim model.Dimension, value string) []model.UserSegmentation {
	var out []model.UserSegmentation
	for _, u := range d.Users() {
		if u.Value(dim) == value {
			out = append(out, u)
		}
	}
	return out
}
