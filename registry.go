package wrangle

// Registry is an ordered set of tool specs keyed by name. Names are unique: upserting an existing name
// replaces the entry in place, new names are appended.
type Registry struct {
	specs []ToolSpec
	index map[string]int
}

func NewRegistry(specs ...ToolSpec) Registry {
	var r Registry
	for _, spec := range specs {
		r.upsert(spec)
	}
	return r
}

// Get returns the spec for the given tool name.
func (r Registry) Get(name string) (ToolSpec, bool) {
	idx, ok := r.index[name]
	if !ok {
		return ToolSpec{}, false
	}
	return r.specs[idx], true
}

func (r Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Specs returns a copy of all entries in registry order.
func (r Registry) Specs() []ToolSpec {
	return append([]ToolSpec(nil), r.specs...)
}

func (r Registry) Names() []string {
	names := make([]string, len(r.specs))
	for i, spec := range r.specs {
		names[i] = spec.Name
	}
	return names
}

func (r Registry) Len() int {
	return len(r.specs)
}

// With returns a copy of the registry with the given spec upserted. The receiver is not modified.
func (r Registry) With(spec ToolSpec) Registry {
	c := r.clone()
	c.upsert(spec)
	return c
}

func (r Registry) clone() Registry {
	c := Registry{
		specs: make([]ToolSpec, len(r.specs), len(r.specs)+1),
		index: make(map[string]int, len(r.index)),
	}
	copy(c.specs, r.specs)
	for name, idx := range r.index {
		c.index[name] = idx
	}
	return c
}

func (r *Registry) upsert(spec ToolSpec) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if idx, ok := r.index[spec.Name]; ok {
		r.specs[idx] = spec
		return
	}
	r.index[spec.Name] = len(r.specs)
	r.specs = append(r.specs, spec)
}
