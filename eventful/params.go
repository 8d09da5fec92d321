package eventful

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// param is a single name/value pair, already stringified.
type param struct {
	name  string
	value string
}

// Params is an ordered set of query parameters. Unlike url.Values it keeps
// insertion order, which is the order the parameters appear on the wire.
type Params struct {
	list []param
}

// NewParams creates an empty parameter list
func NewParams() *Params {
	return &Params{}
}

// Add appends a parameter. A nil value is ignored: omit a parameter by not
// adding it rather than by sending it empty.
func (p *Params) Add(name string, value any) *Params {
	if value == nil {
		return p
	}
	p.list = append(p.list, param{name: name, value: formatValue(value)})
	return p
}

// Prepend inserts a parameter ahead of every existing one.
func (p *Params) Prepend(name string, value any) *Params {
	if value == nil {
		return p
	}
	p.list = append([]param{{name: name, value: formatValue(value)}}, p.list...)
	return p
}

// Len returns the number of parameters
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.list)
}

// Get returns the first value stored under name
func (p *Params) Get(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, kv := range p.list {
		if kv.name == name {
			return kv.value, true
		}
	}
	return "", false
}

// Names returns parameter names in wire order, duplicates included
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.list))
	for i, kv := range p.list {
		names[i] = kv.name
	}
	return names
}

// Clone returns an independent copy. Cloning a nil list yields an empty one.
func (p *Params) Clone() *Params {
	c := &Params{}
	if p != nil {
		c.list = append(make([]param, 0, len(p.list)), p.list...)
	}
	return c
}

// Encode renders the parameters as a query string, name=value pairs joined
// with '&' in insertion order.
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return ""
	}

	var sb strings.Builder
	for i, kv := range p.list {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.value))
	}
	return sb.String()
}

// redacted renders the query string with secret values masked, for logs.
func (p *Params) redacted() string {
	if p.Len() == 0 {
		return ""
	}
	masked := p.Clone()
	for i, kv := range masked.list {
		if secretParams[kv.name] {
			masked.list[i].value = "REDACTED"
		}
	}
	return masked.Encode()
}

var secretParams = map[string]bool{
	"app_key":  true,
	"user_key": true,
	"password": true,
	"response": true,
}

// formatValue stringifies a parameter value. Named string types render as
// their text, numbers in decimal and string lists space separated.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case []string:
		return strings.Join(t, " ")
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
