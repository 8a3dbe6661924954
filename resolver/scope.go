package resolver

// One lexical scope, maps each declared name to whether its declaration has
// completed.
type scope map[string]bool

func newScope() scope {
	return make(scope, 4)
}

// Returns whether the name exists and if it is defined.
func (s scope) lookup(name string) (present, defined bool) {
	defined, present = s[name]
	return present, defined
}

// Reserves the name, it cannot be read until defined.
func (s scope) declare(name string) {
	s[name] = false
}

func (s scope) define(name string) {
	s[name] = true
}
