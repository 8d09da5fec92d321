package eventful

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Args are the caller's parameter values for a table method, keyed by name.
type Args map[string]any

// Call invokes the named table method. Arguments are validated against the
// method before anything is sent.
func (c *Client) Call(ctx context.Context, name string, args Args) (*Node, error) {
	m, ok := LookupMethod(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}

	params, err := m.Params(args)
	if err != nil {
		return nil, err
	}

	return c.Invoke(ctx, m.Path, params, WithHTTPMethod(m.Verb()))
}

// Params builds the wire parameters for a call: required parameters first,
// in declared order, then the optional ones that carry a value.
func (m Method) Params(args Args) (*Params, error) {
	var unknown []string
	for name := range args {
		if !m.Accepts(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("%w for %s: %s", ErrUnknownParameter, m.Name(), strings.Join(unknown, ", "))
	}

	params := NewParams()
	for _, name := range m.Required {
		v := args[name]
		if isEmpty(v) {
			return nil, fmt.Errorf("%w for %s: %s", ErrMissingParameter, m.Name(), name)
		}
		params.Add(name, v)
	}

	for _, group := range m.OneOf {
		if !slices.ContainsFunc(group, func(name string) bool { return !isEmpty(args[name]) }) {
			return nil, fmt.Errorf("%w for %s: one of %s", ErrMissingParameter, m.Name(), strings.Join(group, ", "))
		}
	}

	for _, name := range m.Optional {
		if v := args[name]; !isEmpty(v) {
			params.Add(name, v)
		}
	}

	return params, nil
}

// isEmpty reports whether an argument value counts as not supplied: nil,
// false, the empty string and empty slices or maps.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
