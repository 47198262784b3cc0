package restclient

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// AddQuery adds name=v to values. Only absent values are skipped: nil
// pointers, nil slices and maps, and nil interfaces. Pointers are
// dereferenced, so an explicit false, 0 or "" is still sent. Slices add one
// pair per element; times are formatted as RFC 3339.
func AddQuery(values url.Values, name string, v any) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Interface:
		if rv.IsNil() {
			return
		}
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		for i := 0; i < rv.Len(); i++ {
			AddQuery(values, name, rv.Index(i).Interface())
		}
		return
	}
	values.Add(name, format(rv.Interface()))
}

// EncodeQuery appends the encoded values to path.
func EncodeQuery(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + values.Encode()
}

// PathParam formats v for substitution into a path template.
func PathParam(v any) string {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return url.PathEscape(format(rv.Interface()))
}

// SetHeader sets a header parameter on msg. Absent values are skipped as
// in AddQuery.
func (m *Message) SetHeader(name string, v any) {
	values := url.Values{}
	AddQuery(values, name, v)
	if len(values[name]) == 0 {
		return
	}
	if m.Header == nil {
		m.Header = make(http.Header)
	}
	m.Header.Set(name, strings.Join(values[name], ","))
}

func format(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
