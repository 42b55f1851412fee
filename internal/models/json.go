package models

import (
	"encoding/json"
	"fmt"
)

// field is a typed attribute written back by marshalRecord. It is emitted
// when set, or when the decoded input carried the key.
type field struct {
	key   string
	value any
	set   bool
}

// splitRecord separates the keys of a JSON object into the typed keys found
// and everything else.
func splitRecord(data []byte, known ...string) (map[string]json.RawMessage, map[string]bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	present := make(map[string]bool, len(known))
	for _, key := range known {
		if _, ok := raw[key]; ok {
			present[key] = true
			delete(raw, key)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}
	return raw, present, nil
}

func marshalRecord(extra map[string]json.RawMessage, present map[string]bool, fields ...field) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(extra)+len(fields))
	for key, value := range extra {
		out[key] = value
	}
	for _, f := range fields {
		if !f.set && !present[f.key] {
			continue
		}
		b, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("error encoding %s: %w", f.key, err)
		}
		out[f.key] = b
	}
	return json.Marshal(out)
}

var (
	sourceMapKeys = []string{"version", "file", "sourceRoot", "sources", "names", "mappings"}
	fileKeys      = []string{"cwd", "base", "path", "sourceMap"}
)

func (m *SourceMap) UnmarshalJSON(data []byte) error {
	type plain SourceMap
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, present, err := splitRecord(data, sourceMapKeys...)
	if err != nil {
		return err
	}
	*m = SourceMap(p)
	m.Extra, m.present = extra, present
	return nil
}

func (m SourceMap) MarshalJSON() ([]byte, error) {
	return marshalRecord(m.Extra, m.present,
		field{"version", m.Version, m.Version != 0},
		field{"file", m.File, m.File != ""},
		field{"sourceRoot", m.SourceRoot, m.SourceRoot != ""},
		field{"sources", m.Sources, m.Sources != nil},
		field{"names", m.Names, m.Names != nil},
		field{"mappings", m.Mappings, m.Mappings != ""},
	)
}

func (f *File) UnmarshalJSON(data []byte) error {
	type plain File
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, present, err := splitRecord(data, fileKeys...)
	if err != nil {
		return err
	}
	id := f.ID
	*f = File(p)
	f.ID = id
	f.Extra, f.present = extra, present
	return nil
}

func (f File) MarshalJSON() ([]byte, error) {
	return marshalRecord(f.Extra, f.present,
		field{"cwd", f.Cwd, f.Cwd != ""},
		field{"base", f.Base, f.Base != ""},
		field{"path", f.Path, f.Path != ""},
		field{"sourceMap", f.SourceMap, f.SourceMap != nil},
	)
}
