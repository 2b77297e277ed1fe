package loader

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/schema"
)

func loadJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSON(dec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse json")
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "parse json: trailing data after document")
	}
	return v, nil
}

// readJSON reads one value from the token stream, keeping object key order.
func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		m := schema.NewMap()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := kt.(string)
			v, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}
		_, err := dec.Token()
		return m, err
	case '[':
		out := []any{}
		for dec.More() {
			v, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		_, err := dec.Token()
		return out, err
	}
	return nil, stderrors.New("unexpected delimiter " + delim.String())
}
