package comparison

import "fmt"

// Registry assigns unique provider names in registration order. A name
// that is already taken gets " (2)", " (3)", ... appended.
type Registry struct {
	names []string
	taken map[string]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{taken: make(map[string]struct{})}
}

// Register records a provider and returns its unique name
func (r *Registry) Register(candidate string) string {
	name := candidate
	for n := 2; ; n++ {
		if _, taken := r.taken[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s (%d)", candidate, n)
	}
	r.taken[name] = struct{}{}
	r.names = append(r.names, name)
	return name
}

// Names returns provider names in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
