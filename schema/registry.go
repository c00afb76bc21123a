package schema

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Registry is an in-memory Oracle. Populate it with AddModule, Augment and
// AddIdentity, then call Compile once; after Compile it is read-only and safe
// for concurrent use.
type Registry struct {
	mu sync.RWMutex

	modules    []*Descriptor
	byName     map[string]*Descriptor
	prefixes   map[string]string // module -> prefix
	identities map[string]*Identity
	augments   []pendingAugment
	apps       map[string]string // schema path -> application id
	byPath     map[string]*Descriptor
	compiled   bool
}

type pendingAugment struct {
	module    string
	namespace string
	target    string
	nodes     []*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:     make(map[string]*Descriptor),
		prefixes:   make(map[string]string),
		identities: make(map[string]*Identity),
		apps:       make(map[string]string),
		byPath:     make(map[string]*Descriptor),
	}
}

// AddModule registers a module declared with NewModule.
func (r *Registry) AddModule(m *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.compiled {
		return errors.New("schema: registry already compiled")
	}
	if m == nil || m.Kind != KindModule || m.Name == "" {
		return errors.New("schema: AddModule requires a named module descriptor")
	}
	if _, exists := r.byName[m.Name]; exists {
		return fmt.Errorf("schema: module %q already registered", m.Name)
	}
	r.byName[m.Name] = m
	r.modules = append(r.modules, m)
	return nil
}

// SetPrefix records the prefix used by module in qualified names.
func (r *Registry) SetPrefix(module, prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefixes[module] = prefix
}

// Augment queues nodes contributed by module into the schema node at target.
// Augments are applied by Compile, so the target module may be added later.
func (r *Registry) Augment(module, namespace, target string, nodes ...*Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.compiled {
		return errors.New("schema: registry already compiled")
	}
	r.augments = append(r.augments, pendingAugment{module: module, namespace: namespace, target: target, nodes: nodes})
	return nil
}

// AddIdentity registers an identity defined by module.
func (r *Registry) AddIdentity(module, name string, bases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := module + ":" + name
	if _, exists := r.identities[key]; exists {
		return fmt.Errorf("schema: identity %q already registered", key)
	}
	r.identities[key] = &Identity{Name: name, Module: module, Bases: bases}
	return nil
}

// SetApp overrides the application identifier reported for schemaPath.
func (r *Registry) SetApp(schemaPath, app string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[schemaPath] = app
}

// Compile binds parents and paths, applies augments, links identities and
// compiles type facets. Every problem found is reported.
func (r *Registry) Compile() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.compiled {
		return nil
	}
	var errs []error
	for _, m := range r.modules {
		m.Module = m.Name
		m.Path = ""
		r.bindChildren(m, m.Name, m.Namespace, "")
	}
	errs = append(errs, r.applyAugments()...)
	errs = append(errs, r.linkIdentities()...)
	for _, m := range r.modules {
		errs = append(errs, r.compileTree(m)...)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	r.compiled = true
	return nil
}

func (r *Registry) bindChildren(parent *Descriptor, module, namespace, augmentTarget string) {
	for _, c := range parent.Children {
		r.bind(parent, c, module, namespace, augmentTarget)
	}
}

func (r *Registry) bind(parent, d *Descriptor, module, namespace, augmentTarget string) {
	d.Parent = parent
	d.Module = module
	if d.Namespace == "" {
		d.Namespace = namespace
	}
	d.AugmentTarget = augmentTarget
	seg := d.Name
	if parent.Kind == KindModule || parent.Module != module {
		seg = module + ":" + d.Name
	}
	d.Path = parent.Path + "/" + seg
	r.byPath[d.Path] = d
	r.bindChildren(d, module, d.Namespace, augmentTarget)
}

// applyAugments retries pending augments until no progress is made so that
// augments may target nodes contributed by other augments.
func (r *Registry) applyAugments() []error {
	pending := r.augments
	for len(pending) > 0 {
		var next []pendingAugment
		for _, a := range pending {
			target, ok := r.lookupPath(a.target)
			if !ok {
				next = append(next, a)
				continue
			}
			for _, n := range a.nodes {
				target.Children = append(target.Children, n)
				r.bind(target, n, a.module, a.namespace, a.target)
			}
		}
		if len(next) == len(pending) {
			errs := make([]error, 0, len(next))
			for _, a := range next {
				errs = append(errs, fmt.Errorf("schema: augment target %q of module %q not found", a.target, a.module))
			}
			return errs
		}
		pending = next
	}
	r.augments = nil
	return nil
}

// lookupPath walks a schema path such as "/food:food/sub". Qualifiers may be
// module names or prefixes.
func (r *Registry) lookupPath(path string) (*Descriptor, bool) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return nil, false
	}
	var cur *Descriptor
	module := ""
	for i, seg := range segs {
		if q, name, ok := strings.Cut(seg, ":"); ok {
			module = r.moduleFor(q)
			seg = name
		}
		if i == 0 {
			m, ok := r.byName[module]
			if !ok {
				return nil, false
			}
			cur = m
		}
		next := (*Descriptor)(nil)
		for _, c := range cur.Children {
			if c.Name == seg && (module == "" || c.Module == module) {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func (r *Registry) moduleFor(qualifier string) string {
	if _, ok := r.byName[qualifier]; ok {
		return qualifier
	}
	for m, p := range r.prefixes {
		if p == qualifier {
			return m
		}
	}
	return qualifier
}

func (r *Registry) linkIdentities() []error {
	var errs []error
	for _, id := range r.identities {
		id.Prefix = r.prefixes[id.Module]
		id.Derived = nil
	}
	for _, id := range r.identities {
		for _, b := range id.Bases {
			base, ok := r.findIdentity(id.Module, b)
			if !ok {
				errs = append(errs, fmt.Errorf("schema: base %q of identity %q not found", b, id.QualifiedName()))
				continue
			}
			base.Derived = append(base.Derived, id)
		}
	}
	return errs
}

func (r *Registry) findIdentity(module, ref string) (*Identity, bool) {
	if q, name, ok := strings.Cut(ref, ":"); ok {
		id, found := r.identities[r.moduleFor(q)+":"+name]
		return id, found
	}
	id, found := r.identities[module+":"+ref]
	return id, found
}

func (r *Registry) compileTree(d *Descriptor) []error {
	var errs []error
	switch d.Kind {
	case KindLeaf, KindLeafList:
		if err := r.compileType(d); err != nil {
			errs = append(errs, fmt.Errorf("schema: %s: %w", d.Path, err))
		}
	case KindList:
		for _, k := range d.Keys {
			kd, ok := d.Child(k, "")
			if !ok || kd.Kind != KindLeaf {
				errs = append(errs, fmt.Errorf("schema: %s: key %q is not a child leaf", d.Path, k))
			}
		}
	}
	for _, c := range d.Children {
		errs = append(errs, r.compileTree(c)...)
	}
	return errs
}

func (r *Registry) compileType(d *Descriptor) error {
	t := d.Type
	if t == nil {
		return errors.New("leaf has no type")
	}
	switch {
	case t.Base == TypeDecimal64:
		if t.FractionDigits < 1 || t.FractionDigits > 18 {
			return fmt.Errorf("fraction-digits %d outside 1..18", t.FractionDigits)
		}
	case t.Base == TypeEnumeration && len(t.Enums) == 0:
		return errors.New("enumeration declares no literals")
	case t.Base == TypeBits && len(t.Bits) == 0:
		return errors.New("bits declares no bit")
	case t.Base == TypeIdentityRef:
		base, ok := r.findIdentity(d.Module, t.IdentityBase)
		if !ok {
			return fmt.Errorf("identityref base %q not found", t.IdentityBase)
		}
		t.Identity = base
	}
	if t.Base.IsInteger() || t.Base == TypeDecimal64 || t.Base == TypeString {
		rng, err := ParseRange(t.RangeExpr, t.Base, t.FractionDigits)
		if err != nil {
			return err
		}
		t.Range = rng
	} else if t.RangeExpr != "" {
		return fmt.Errorf("type %s does not accept a range", t.Base)
	}
	return nil
}

// Resolve implements Oracle.
func (r *Registry) Resolve(parent *Descriptor, name, namespace string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if parent == nil {
		m, ok := r.byName[name]
		if !ok || (namespace != "" && m.Namespace != namespace) {
			return nil, fmt.Errorf("%w: module %q (namespace %q)", ErrNotFound, name, namespace)
		}
		return m, nil
	}
	if c, ok := parent.Child(name, namespace); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q (namespace %q) under %q", ErrNotFound, name, namespace, parent.Path)
}

// ResolveAugmentingApp implements Oracle. Without an explicit SetApp entry
// the owning module of the node is the application.
func (r *Registry) ResolveAugmentingApp(schemaPath string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if app, ok := r.apps[schemaPath]; ok {
		return app, nil
	}
	d, ok := r.byPath[schemaPath]
	if !ok {
		return "", fmt.Errorf("%w: schema path %q", ErrNotFound, schemaPath)
	}
	return d.Module, nil
}

// NamespaceOf implements NamespaceResolver.
func (r *Registry) NamespaceOf(module string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[r.moduleFor(module)]
	if !ok {
		return "", false
	}
	return m.Namespace, true
}

// Find returns the descriptor at a compiled schema path.
func (r *Registry) Find(schemaPath string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byPath[schemaPath]
	return d, ok
}

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Descriptor(nil), r.modules...)
}
