package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrSyntax is wrapped by Parse for any malformed document text.
var ErrSyntax = errors.New("malformed document text")

// Parse turns raw JSON text into a structured document tree. The root
// value must be an object record. Record key order is preserved, and
// whole numbers are parsed as int rather than float64 so that node
// indices survive a round trip unchanged.
func Parse(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	root, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: root is %T, expected object", ErrSyntax, value)
	}
	// Anything after the root value is garbage.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing content after document", ErrSyntax)
	}
	return root, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return t, nil
	case bool:
		return t, nil
	case json.Number:
		if n, err := strconv.Atoi(t.String()); err == nil {
			return n, nil
		}
		return t.Float64()
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// parseObject consumes key/value pairs up to and including the closing
// brace. The opening brace has already been consumed.
func parseObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, expected string", keyTok)
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Put(key, value)
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) (*Array, error) {
	arr := NewArray()
	for dec.More() {
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Append(value)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, err
	}
	return arr, nil
}
