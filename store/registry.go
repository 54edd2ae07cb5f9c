package store

// Relationship defines a parent-child level pair used for hydration.
type Relationship struct {
	// Parent is the parent kind (e.g., KindProvince).
	Parent Kind

	// Child is the child kind (e.g., KindCity).
	Child Kind

	// Include is the token a caller passes to request this level (e.g., "cities").
	Include string
}

// Registry holds the known parent-child relationships between levels.
type Registry struct {
	byParent map[Kind]Relationship
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byParent: make(map[Kind]Relationship),
	}
}

// DefaultRegistry returns the province → city → district → village chain.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Relationship{Parent: KindProvince, Child: KindCity, Include: "cities"})
	r.Register(Relationship{Parent: KindCity, Child: KindDistrict, Include: "districts"})
	r.Register(Relationship{Parent: KindDistrict, Child: KindVillage, Include: "villages"})
	return r
}

// Register adds a relationship to the registry.
// A parent has at most one child level; registering the same parent again
// replaces its child level.
func (r *Registry) Register(rel Relationship) {
	r.byParent[rel.Parent] = rel
}

// ChildOf returns the child relationship of the given parent kind.
func (r *Registry) ChildOf(parent Kind) (Relationship, bool) {
	rel, ok := r.byParent[parent]
	return rel, ok
}

// Chain returns the descendant relationships below kind, shallowest first.
// The walk stops at a leaf or when a kind repeats.
func (r *Registry) Chain(kind Kind) []Relationship {
	var chain []Relationship
	seen := map[Kind]bool{kind: true}
	for {
		rel, ok := r.ChildOf(kind)
		if !ok || seen[rel.Child] {
			return chain
		}
		chain = append(chain, rel)
		seen[rel.Child] = true
		kind = rel.Child
	}
}

// HasChildren returns true if the parent kind has a registered child level.
func (r *Registry) HasChildren(parent Kind) bool {
	_, ok := r.byParent[parent]
	return ok
}
