package repository

import (
	"fmt"
	"math"
	"strconv"
)

// InstanceProperties holds primitive, array and map property values keyed by property name.
// Values read back from a JSON store arrive as float64, []any and map[string]any, so the
// getters accept both the native and the decoded forms.
type InstanceProperties map[string]any

// Clone returns a deep copy.
func (p InstanceProperties) Clone() InstanceProperties {
	if p == nil {
		return nil
	}
	c := make(InstanceProperties, len(p))
	for k, v := range p {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		c := make(map[string]any, len(t))
		for k, e := range t {
			c[k] = cloneValue(e)
		}
		return c
	case map[string]string:
		c := make(map[string]string, len(t))
		for k, e := range t {
			c[k] = e
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = cloneValue(e)
		}
		return c
	case []string:
		return append([]string(nil), t...)
	case InstanceProperties:
		return t.Clone()
	default:
		return v
	}
}

// Set stores a value, ignoring nil values and empty strings so optional bean fields do
// not create empty properties.
func (p InstanceProperties) Set(name string, value any) InstanceProperties {
	switch v := value.(type) {
	case nil:
		return p
	case string:
		if v == "" {
			return p
		}
	case []string:
		if len(v) == 0 {
			return p
		}
	case map[string]string:
		if len(v) == 0 {
			return p
		}
	case map[string]any:
		if len(v) == 0 {
			return p
		}
	}
	p[name] = value
	return p
}

// Merge copies every property of other over p.
func (p InstanceProperties) Merge(other InstanceProperties) InstanceProperties {
	for k, v := range other {
		p[k] = cloneValue(v)
	}
	return p
}

// GetString returns the named string property or "".
func (p InstanceProperties) GetString(name string) string {
	switch v := p[name].(type) {
	case string:
		return v
	case nil:
		return ""
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// GetInt returns the named integer property or 0.
func (p InstanceProperties) GetInt(name string) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(math.Round(v))
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// GetBool returns the named boolean property or false.
func (p InstanceProperties) GetBool(name string) bool {
	switch v := p[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// GetStringArray returns the named array property as strings.
func (p InstanceProperties) GetStringArray(name string) []string {
	switch v := p[name].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			} else if e != nil {
				out = append(out, fmt.Sprint(e))
			}
		}
		return out
	default:
		return nil
	}
}

// GetStringMap returns the named map property with string values.
func (p InstanceProperties) GetStringMap(name string) map[string]string {
	switch v := p[name].(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, e := range v {
			out[k] = e
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, e := range v {
			if s, ok := e.(string); ok {
				out[k] = s
			} else if e != nil {
				out[k] = fmt.Sprint(e)
			}
		}
		return out
	default:
		return nil
	}
}

// GetMap returns the named map property with values of any type.
func (p InstanceProperties) GetMap(name string) map[string]any {
	switch v := p[name].(type) {
	case map[string]any:
		return cloneValue(v).(map[string]any)
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = e
		}
		return out
	case InstanceProperties:
		return map[string]any(v.Clone())
	default:
		return nil
	}
}

// RemoveString reads and deletes a string property.
func (p InstanceProperties) RemoveString(name string) string {
	v := p.GetString(name)
	delete(p, name)
	return v
}

// RemoveInt reads and deletes an integer property.
func (p InstanceProperties) RemoveInt(name string) int {
	v := p.GetInt(name)
	delete(p, name)
	return v
}

// RemoveBool reads and deletes a boolean property.
func (p InstanceProperties) RemoveBool(name string) bool {
	v := p.GetBool(name)
	delete(p, name)
	return v
}

// RemoveStringArray reads and deletes an array property.
func (p InstanceProperties) RemoveStringArray(name string) []string {
	v := p.GetStringArray(name)
	delete(p, name)
	return v
}

// RemoveStringMap reads and deletes a string map property.
func (p InstanceProperties) RemoveStringMap(name string) map[string]string {
	v := p.GetStringMap(name)
	delete(p, name)
	return v
}

// RemoveMap reads and deletes a map property.
func (p InstanceProperties) RemoveMap(name string) map[string]any {
	v := p.GetMap(name)
	delete(p, name)
	return v
}
