// Package access models capability sets as tagged values instead of raw
// permission strings. The "*" wildcard remains the external wire form.
package access

import (
	"sort"

	"github.com/google/uuid"
)

// Wildcard is the wire representation of an all-permissions grant.
const Wildcard = "*"

// Permissions is either an all-grant or an explicit permission set.
type Permissions struct {
	all bool
	set map[string]struct{}
}

func AllPermissions() Permissions {
	return Permissions{all: true}
}

func NewPermissions(perms ...string) Permissions {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		if p == Wildcard {
			return AllPermissions()
		}
		set[p] = struct{}{}
	}
	return Permissions{set: set}
}

func (p Permissions) IsAll() bool { return p.all }

func (p Permissions) IsEmpty() bool { return !p.all && len(p.set) == 0 }

func (p Permissions) Has(perm string) bool {
	if p.all {
		return true
	}
	_, ok := p.set[perm]
	return ok
}

// Union returns the combined permission set.
func (p Permissions) Union(other Permissions) Permissions {
	if p.all || other.all {
		return AllPermissions()
	}
	merged := make(map[string]struct{}, len(p.set)+len(other.set))
	for perm := range p.set {
		merged[perm] = struct{}{}
	}
	for perm := range other.set {
		merged[perm] = struct{}{}
	}
	return Permissions{set: merged}
}

// Strings renders the set in wire form: ["*"] for an all-grant, sorted
// permission names otherwise.
func (p Permissions) Strings() []string {
	if p.all {
		return []string{Wildcard}
	}
	out := make([]string, 0, len(p.set))
	for perm := range p.set {
		out = append(out, perm)
	}
	sort.Strings(out)
	return out
}

// OrgScope is the set of organizations a staff member may see: either
// everything (platform admins) or an explicit id set.
type OrgScope struct {
	all  bool
	orgs map[uuid.UUID]struct{}
}

func AllOrgs() OrgScope {
	return OrgScope{all: true}
}

func Orgs(ids ...uuid.UUID) OrgScope {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return OrgScope{orgs: set}
}

func (s OrgScope) IsAll() bool { return s.all }

func (s OrgScope) IsEmpty() bool { return !s.all && len(s.orgs) == 0 }

func (s OrgScope) Contains(id uuid.UUID) bool {
	if s.all {
		return true
	}
	_, ok := s.orgs[id]
	return ok
}

// IDs returns the explicit org ids sorted for stable output; nil for an
// all-scope.
func (s OrgScope) IDs() []uuid.UUID {
	if s.all {
		return nil
	}
	out := make([]uuid.UUID, 0, len(s.orgs))
	for id := range s.orgs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
