package gritql

import (
	"fmt"
	"strings"
)

// Expr is one node of a compiled predicate expression tree: `and`/`or`/
// `not`, field-exists, equality, containment, regex and function
// application. Assignment (`$x = ...`) has no node and is not parsed.
type Expr interface {
	eval(ctx *evalContext) (bool, error)
	validate() error
}

type evalContext struct {
	node     *fieldReader
	bindings map[string]string
}

// And/Or/Not combine sub-expressions.
type And struct{ Left, Right Expr }
type Or struct{ Left, Right Expr }
type Not struct{ Inner Expr }

func (e And) eval(c *evalContext) (bool, error) {
	l, err := e.Left.eval(c)
	if err != nil || !l {
		return false, err
	}
	return e.Right.eval(c)
}
func (e And) validate() error { return firstErr(e.Left.validate(), e.Right.validate()) }

func (e Or) eval(c *evalContext) (bool, error) {
	l, err := e.Left.eval(c)
	if err != nil {
		return false, err
	}
	if l {
		return true, nil
	}
	return e.Right.eval(c)
}
func (e Or) validate() error { return firstErr(e.Left.validate(), e.Right.validate()) }

func (e Not) eval(c *evalContext) (bool, error) {
	v, err := e.Inner.eval(c)
	return !v, err
}
func (e Not) validate() error { return e.Inner.validate() }

// FieldExists checks whether a named clause/field is present on the
// matched entity, e.g. `description` alone as a predicate.
type FieldExists struct{ Field string }

func (e FieldExists) eval(c *evalContext) (bool, error) {
	_, ok := c.node.field(e.Field)
	return ok, nil
}
func (e FieldExists) validate() error { return nil }

// Equality is `field == "literal"`.
type Equality struct {
	Field string
	Value string
}

func (e Equality) eval(c *evalContext) (bool, error) {
	v, ok := c.node.field(e.Field)
	return ok && v == e.Value, nil
}
func (e Equality) validate() error { return nil }

// Contains is `$var contains "literal"`.
type Contains struct {
	Field string
	Value string
}

func (e Contains) eval(c *evalContext) (bool, error) {
	v, ok := c.node.fieldOrBinding(e.Field, c.bindings)
	if !ok {
		return false, nil
	}
	return strings.Contains(v, e.Value), nil
}
func (e Contains) validate() error { return nil }

// RegexMatch is `field <: r"pattern"`.
type RegexMatch struct {
	Field   string
	Pattern string
}

func (e RegexMatch) eval(c *evalContext) (bool, error) {
	v, ok := c.node.field(e.Field)
	if !ok {
		return false, nil
	}
	re, err := compileRegex(e.Pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(v), nil
}
func (e RegexMatch) validate() error {
	_, err := compileRegex(e.Pattern)
	return err
}

// FuncCall is `is_pascal_case($name)` style predicate/function application.
type FuncCall struct {
	Name string
	Args []string
}

func (e FuncCall) eval(c *evalContext) (bool, error) {
	fn, ok := lookupPredicate(e.Name)
	if !ok {
		return false, fmt.Errorf("unknown function %q", e.Name)
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		v, _ := c.node.fieldOrBinding(a, c.bindings)
		args[i] = v
	}
	return fn(args...), nil
}
func (e FuncCall) validate() error {
	if _, ok := lookupPredicate(e.Name); !ok {
		return fmt.Errorf("unknown function %q", e.Name)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
