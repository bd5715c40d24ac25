package manifest

import "strings"

// Filter applies all non-empty criteria and returns matching assets.
// An entirely zero Filter matches everything.
type Filter struct {
	Search string // substring match on name, case-insensitive
	Type   string // exact type match, case-insensitive
	Tag    string // tag membership, case-insensitive
	Group  string // exact group match, case-insensitive
}

// Apply returns the subset of assets matching all non-empty fields.
func (f Filter) Apply(assets []Asset) []Asset {
	var out []Asset
	for i := range assets {
		a := &assets[i]
		if f.Type != "" && !strings.EqualFold(string(a.Type), f.Type) {
			continue
		}
		if f.Tag != "" && !a.HasTag(f.Tag) {
			continue
		}
		if f.Group != "" && !strings.EqualFold(a.Group, f.Group) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *a)
	}
	return out
}
