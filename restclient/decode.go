package restclient

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Decode converts a response body into T. A string T receives the body as
// text and a []byte T the raw bytes; everything else is decoded as JSON. An
// empty body yields the zero value.
func Decode[T any](resp *Response) (T, error) {
	var v T
	if resp == nil || len(resp.Body) == 0 {
		return v, nil
	}
	switch target := any(&v).(type) {
	case *string:
		*target = string(resp.Body)
		return v, nil
	case *[]byte:
		*target = append([]byte(nil), resp.Body...)
		return v, nil
	}
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return v, fmt.Errorf("restclient: decode response: %w", err)
	}
	return v, nil
}

// DecodeField decodes the JSON property at path (gjson syntax) into T. A
// missing or null property yields the zero value. Single-page methods use it
// to unwrap the collection of a pagination envelope; build path with
// pagination.FieldPath when property names may contain path syntax.
func DecodeField[T any](resp *Response, path string) (T, error) {
	var v T
	if resp == nil || len(resp.Body) == 0 {
		return v, nil
	}
	field := gjson.GetBytes(resp.Body, path)
	if !field.Exists() || field.Type == gjson.Null {
		return v, nil
	}
	if err := json.Unmarshal([]byte(field.Raw), &v); err != nil {
		return v, fmt.Errorf("restclient: decode response field %q: %w", path, err)
	}
	return v, nil
}
