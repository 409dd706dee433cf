package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxExactInt is the largest integer a JSON number holds without rounding.
const maxExactInt = 1 << 53

var errNotCoercible = errors.New("value cannot be coerced")

// decodeScalar decodes b keeping numbers as json.Number.
func decodeScalar(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("error decoding value: %w", err)
	}

	return v, nil
}

// looseString is a string field that also accepts JSON numbers and booleans.
// null decodes to the empty string.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	v, err := decodeScalar(b)
	if err != nil {
		return err
	}

	switch v := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = looseString(v)
	case bool:
		*s = looseString(strconv.FormatBool(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fmt.Errorf("%w: number %s", errNotCoercible, v)
		}
		*s = looseString(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return fmt.Errorf("%w: %s to string", errNotCoercible, b)
	}

	return nil
}

func looseStrings(in []looseString) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}

	return out
}

// looseInt is an integer field that also accepts numeric strings, integral floats and booleans.
// null and the empty string decode to 0.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	v, err := decodeScalar(b)
	if err != nil {
		return err
	}

	switch v := v.(type) {
	case nil:
		*n = 0
	case bool:
		*n = 0
		if v {
			*n = 1
		}
	case json.Number:
		return n.parse(v.String())
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			*n = 0

			return nil
		}

		return n.parse(s)
	default:
		return fmt.Errorf("%w: %s to integer", errNotCoercible, b)
	}

	return nil
}

func (n *looseInt) parse(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.Trunc(f) != f || math.Abs(f) > maxExactInt {
		return fmt.Errorf("%w: %q to integer", errNotCoercible, s)
	}
	*n = looseInt(f)

	return nil
}
