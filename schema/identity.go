package schema

import "strings"

// Identity is a YANG identity. Bases are the names of the identities it is
// derived from; Derived is filled by Registry.Compile.
type Identity struct {
	Name    string
	Module  string
	Prefix  string
	Bases   []string
	Derived []*Identity
}

// QualifiedName returns "module:name".
func (id *Identity) QualifiedName() string { return id.Module + ":" + id.Name }

// Matches reports whether literal names this identity. The literal may be
// bare or qualified with the module name or prefix.
func (id *Identity) Matches(literal string) bool {
	qual, name, ok := strings.Cut(literal, ":")
	if !ok {
		return literal == id.Name
	}
	return name == id.Name && (qual == id.Module || (id.Prefix != "" && qual == id.Prefix))
}

// FindDerived searches the identities derived from id, directly or through
// further derivation, for one named by literal. id itself is not a candidate.
func (id *Identity) FindDerived(literal string) (*Identity, bool) {
	seen := map[*Identity]struct{}{id: {}}
	stack := append([]*Identity(nil), id.Derived...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		if cur.Matches(literal) {
			return cur, true
		}
		stack = append(stack, cur.Derived...)
	}
	return nil, false
}
