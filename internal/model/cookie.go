// Package model holds the data types shared by the solver, the classifier
// pipeline, and the host-facing interfaces: cookie handles, request
// templates, replay outcomes, verdicts, and cookie descriptors.
package model

// Cookie is an opaque handle the Replayer can consume to build a modified
// request. Equality is identity of handle, never value: two cookies that
// share a name are still distinct within one analysis.
type Cookie struct {
	id    int
	Name  string
	Value string
	// Domain is the cookie's owning host, carried for the classifier's
	// per-domain cache key and domain filter; the solver never reads it.
	Domain string
}

// NewCookie constructs a Cookie whose identity is the caller-supplied id,
// so two cookies with the same Name stay distinct as long as their ids
// differ.
func NewCookie(id int, name, value, domain string) Cookie {
	return Cookie{id: id, Name: name, Value: value, Domain: domain}
}

// ID returns the handle's identity, used for set membership instead of Name
// so that two same-named cookies are never conflated.
func (c Cookie) ID() int { return c.id }

// CookieSet is an ordered, identity-unique collection of cookies. Order is
// preserved because several invariants (required-set ordering, prefix
// search) rely on input order being stable.
type CookieSet []Cookie

// Names returns the cookie names in set order (not deduplicated — callers
// that want unique names should dedupe explicitly).
func (s CookieSet) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Contains reports whether a cookie with the same identity is present.
func (s CookieSet) Contains(target Cookie) bool {
	for _, c := range s {
		if c.ID() == target.ID() {
			return true
		}
	}
	return false
}

// Without returns a new ordered set with the given cookie's identity
// removed, preserving the relative order of the remaining cookies.
func (s CookieSet) Without(target Cookie) CookieSet {
	out := make(CookieSet, 0, len(s))
	for _, c := range s {
		if c.ID() != target.ID() {
			out = append(out, c)
		}
	}
	return out
}

// With returns a new ordered set with the given cookie appended, unless a
// cookie with the same identity is already present.
func (s CookieSet) With(target Cookie) CookieSet {
	if s.Contains(target) {
		return s
	}
	out := make(CookieSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, target)
}

// Prefix returns the first n cookies of the set (n is clamped to [0, len(s)]).
func (s CookieSet) Prefix(n int) CookieSet {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	out := make(CookieSet, n)
	copy(out, s[:n])
	return out
}

// Union returns a new ordered set containing every cookie of s followed by
// every cookie of other not already present in s, by identity.
func (s CookieSet) Union(other CookieSet) CookieSet {
	out := make(CookieSet, len(s), len(s)+len(other))
	copy(out, s)
	for _, c := range other {
		if !out.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}
