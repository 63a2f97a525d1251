package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Marshal renders the tree as single-line JSON with record keys in
// insertion order. The output round-trips through Parse.
func Marshal(root *Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		s, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(s)
	case int:
		buf.WriteString(strconv.Itoa(v))
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case float64:
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case *Object:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := encodeValue(buf, v.fields[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case *Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("cannot encode value of type %T", value)
	}
	return nil
}
