// Package dedupe collapses destination records that describe the same
// real-world place into a single retained row. It is the one shared
// implementation behind the maintenance CLI, the admin endpoints and the
// list-view filtering, so all three always agree on what a duplicate is.
package dedupe

import (
	"sort"
	"strings"
)

// Entity is the minimal view of a record the resolver needs. Optional
// attributes are pointers; absence feeds the completeness score.
type Entity struct {
	ID          string
	Name        string
	Description *string
	ProvinceID  *string
	ImageURL    *string
	Latitude    *float64
	Longitude   *float64
}

// Group is one set of entities sharing a normalized identity key.
// Keeper is retained, Remove are slated for deletion in stable order.
type Group struct {
	Key    string
	Keeper Entity
	Remove []Entity
}

// Plan is the full removal plan for one resolution run. It carries no
// timestamp so that two runs over the same snapshot compare equal.
type Plan struct {
	Groups []Group
}

// Empty reports whether the plan contains no removals.
func (p Plan) Empty() bool {
	return len(p.Groups) == 0
}

// RemoveIDs returns every id slated for removal, in plan order.
func (p Plan) RemoveIDs() []string {
	var ids []string
	for _, g := range p.Groups {
		for _, e := range g.Remove {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Normalize folds a display name to its identity key: lower-cased with
// everything but ASCII letters and digits stripped. Nil-safe in spirit: an
// empty name yields the empty key and all such entities group together.
// This is a coarse fold; two genuinely distinct places whose names differ
// only in punctuation will collide.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Score rates attribute completeness. Range 0-6: +2 description, +1
// province link, +2 image, +1 coordinates.
func Score(e Entity) int {
	s := 0
	if e.Description != nil && strings.TrimSpace(*e.Description) != "" {
		s += 2
	}
	if e.ProvinceID != nil {
		s++
	}
	if e.ImageURL != nil && *e.ImageURL != "" {
		s += 2
	}
	if e.Latitude != nil || e.Longitude != nil {
		s++
	}
	return s
}

// Resolve partitions entities by normalized name and, for every group of
// two or more, picks the keeper: highest score first, then the lexically
// smallest id. Pure and deterministic; the same snapshot always produces
// the identical plan, so a dry-run preview is a faithful picture of a
// later apply. Groups are emitted in key order.
func Resolve(entities []Entity) Plan {
	groups := make(map[string][]Entity)
	for _, e := range entities {
		key := Normalize(e.Name)
		groups[key] = append(groups[key], e)
	}

	keys := make([]string, 0, len(groups))
	for key, members := range groups {
		if len(members) < 2 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var plan Plan
	for _, key := range keys {
		members := groups[key]
		sort.SliceStable(members, func(i, j int) bool {
			si, sj := Score(members[i]), Score(members[j])
			if si != sj {
				return si > sj
			}
			return members[i].ID < members[j].ID
		})
		plan.Groups = append(plan.Groups, Group{
			Key:    key,
			Keeper: members[0],
			Remove: members[1:],
		})
	}
	return plan
}
