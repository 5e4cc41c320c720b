package domain

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// ArrayEncoding selects how an array-valued filter is written to the query string.
type ArrayEncoding int

const (
	// ArrayDefault defers to the deployment default.
	ArrayDefault ArrayEncoding = iota
	// ArrayRepeat writes one entry per element: tags=a&tags=b.
	ArrayRepeat
	// ArrayComma writes a single comma-joined entry: tags=a%2Cb.
	ArrayComma
)

// String implements fmt.Stringer.
func (e ArrayEncoding) String() string {
	switch e {
	case ArrayRepeat:
		return "repeat"
	case ArrayComma:
		return "comma"
	default:
		return "default"
	}
}

// UnmarshalText accepts "repeat" or "comma" (used by envconfig and yaml).
func (e *ArrayEncoding) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "default":
		*e = ArrayDefault
	case "repeat", "repeated", "multi":
		*e = ArrayRepeat
	case "comma", "csv":
		*e = ArrayComma
	default:
		return fmt.Errorf("unknown array encoding %q", string(text))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e ArrayEncoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// ArrayEncodings is the deployment policy for array-valued query filters.
// Tools maps tool name -> filter name -> encoding.
type ArrayEncodings struct {
	Default ArrayEncoding                       `yaml:"default"`
	Tools   map[string]map[string]ArrayEncoding `yaml:"tools,omitempty"`
}

// Override returns the deployment override for a tool's filter, or ArrayDefault.
func (a ArrayEncodings) Override(tool, name string) ArrayEncoding {
	return a.Tools[tool][name]
}

// QueryParam is a single key/value query entry.
type QueryParam struct {
	Key   string
	Value string
}

// Query is an ordered multi-map of query parameters.
type Query []QueryParam

// Add appends a key/value entry.
func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// Get returns the first value for key.
func (q Query) Get(key string) string {
	for _, p := range q {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Values returns all values for key in insertion order.
func (q Query) Values(key string) []string {
	var out []string
	for _, p := range q {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// Has reports whether key is present.
func (q Query) Has(key string) bool {
	for _, p := range q {
		if p.Key == key {
			return true
		}
	}
	return false
}

// Encode renders the query in insertion order, form-url-encoded.
// Unlike url.Values.Encode the keys are not sorted.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Filter is one named filter value. Value may be nil, a (possibly nil) pointer,
// a string, number or bool, or a slice of those.
type Filter struct {
	Name     string
	Value    any
	Encoding ArrayEncoding
}

// Filters is an ordered filter mapping. Order is preserved in the serialized query.
type Filters []Filter

// Add appends a filter using the deployment array encoding.
func (f Filters) Add(name string, value any) Filters {
	return append(f, Filter{Name: name, Value: value})
}

// AddArray appends an array filter pinned to a specific encoding.
func (f Filters) AddArray(name string, value any, enc ArrayEncoding) Filters {
	return append(f, Filter{Name: name, Value: value, Encoding: enc})
}

// Query serializes the filters. resolve returns the encoding to use for an
// array-valued filter when the filter itself does not pin one; it may be nil.
//
// nil values, nil pointers and empty arrays are omitted. Booleans become
// "true"/"false", other scalars their string form.
func (f Filters) Query(resolve func(name string) ArrayEncoding) Query {
	q := Query{}
	for _, filter := range f {
		v, ok := deref(filter.Value)
		if !ok {
			continue
		}

		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			if v.Len() == 0 {
				continue
			}
			items := make([]string, 0, v.Len())
			for i := 0; i < v.Len(); i++ {
				item, ok := deref(v.Index(i).Interface())
				if !ok {
					continue
				}
				items = append(items, scalarString(item))
			}
			if len(items) == 0 {
				continue
			}

			enc := filter.Encoding
			if resolve != nil {
				if r := resolve(filter.Name); r != ArrayDefault {
					enc = r
				}
			}
			if enc == ArrayComma {
				q = q.Add(filter.Name, strings.Join(items, ","))
				continue
			}
			for _, item := range items {
				q = q.Add(filter.Name, item)
			}
			continue
		}

		q = q.Add(filter.Name, scalarString(v))
	}
	return q
}

// Encode serializes the filters with the default (repeat) array encoding.
func (f Filters) Encode() string {
	return f.Query(nil).Encode()
}

// Resolver builds the resolve function for Filters.Query: a per-tool
// deployment override wins, then the filter's own flag, then the default.
// The filter's own flag is applied by Query when the resolver returns ArrayDefault,
// so the default is only returned for filters that did not pin an encoding.
func (a ArrayEncodings) Resolver(tool string, filters Filters) func(name string) ArrayEncoding {
	pinned := make(map[string]bool, len(filters))
	for _, f := range filters {
		if f.Encoding != ArrayDefault {
			pinned[f.Name] = true
		}
	}
	return func(name string) ArrayEncoding {
		if enc := a.Override(tool, name); enc != ArrayDefault {
			return enc
		}
		if pinned[name] {
			return ArrayDefault
		}
		return a.Default
	}
}

func deref(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.IsNil() {
		return reflect.Value{}, false
	}
	return v, true
}

func scalarString(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
