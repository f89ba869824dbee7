package rules

// DefaultRegistry returns a Registry pre-populated with every built-in AST
// rule, in the order a fresh run should register them.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(InvalidCardinalityRule)
	r.Register(InvalidBindingStrengthRule)
	r.Register(MissingDescriptionRule)
	return r
}
