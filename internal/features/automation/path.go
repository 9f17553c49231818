package automation

import (
	"reflect"
	"strconv"
	"strings"
)

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// resolvePath walks maps (any string-keyed map) and slices (numeric segments).
// A missing segment yields (nil, false), never an error.
func resolvePath(root map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}

	var current interface{} = root
	for _, segment := range strings.Split(path, ".") {
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func step(current interface{}, segment string) (interface{}, bool) {
	switch node := current.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		v, ok := node[segment]
		return v, ok
	case map[string]string:
		v, ok := node[segment]
		return v, ok
	case []interface{}:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, false
		}
		return node[idx], true
	}

	rv := reflect.ValueOf(current)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, false
		}
		return step(rv.Elem().Interface(), segment)
	}
	return nil, false
}
