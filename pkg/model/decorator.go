package model

// Decorator enriches a parsed schema after the descriptors have been
// normalised and before render functions are bound.
type Decorator interface {
	Decorate(*Schema) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Schema) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(schema *Schema) error {
	return fn(schema)
}
