package export

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the canonical export shape. Key order is fixed by struct
// declaration order so serialization is deterministic and matches the
// persisted-artifact contract exactly.
type Document struct {
	UnitTag        *string        `json:"Unit Tag"`
	UnitProperties UnitProperties `json:"Unit Properties"`
}

// UnitProperties carries unit-level metadata plus the section list.
type UnitProperties struct {
	IndoorOutdoor *string  `json:"Indoor/Outdoor"`
	UnitSize      UnitSize `json:"Unit size"`
}

// UnitSize nests the physical dimensions and the per-section blocks.
type UnitSize struct {
	UnitLength      *float64       `json:"Unit Length"`
	WidthWithBase   *float64       `json:"Width (with base)"`
	BaseHeight      *float64       `json:"Height (base only)"`
	CabinetHeight   *float64       `json:"Cabinet height"`
	CabinetWidth    *float64       `json:"Cabinet width"`
	SectionQuantity int            `json:"Section quantity"`
	SectionLength   []SectionEntry `json:"Section length"`
}

// SectionEntry is one section block. Name and Components are emitted only
// when present.
type SectionEntry struct {
	SectionNumber int              `json:"Section Number"`
	Length        *int             `json:"Length"`
	Name          string           `json:"Name,omitempty"`
	Components    []ComponentEntry `json:"Components,omitempty"`
}

// ComponentEntry serializes as {"Label": ..., "<type key>": {field label:
// value, ...}}. A well-formed entry has exactly one type block, but foreign
// documents may carry extras; they are kept so validation can pick the
// block whose key the registry knows.
type ComponentEntry struct {
	Label  string
	Blocks []TypeBlock
}

// TypeBlock pairs an export type key with its field mapping.
type TypeBlock struct {
	Key    string
	Fields FieldBlock
}

// MarshalJSON writes the Label first, then every type block in order.
func (c ComponentEntry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"Label":`)
	label, err := json.Marshal(c.Label)
	if err != nil {
		return nil, err
	}
	buf.Write(label)
	for _, b := range c.Blocks {
		buf.WriteByte(',')
		key, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fields, err := json.Marshal(b.Fields)
		if err != nil {
			return nil, err
		}
		buf.Write(fields)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads "Label" plus every object-valued key as a type block,
// preserving document order. Non-object extra keys are ignored.
func (c *ComponentEntry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("component entry: expected object, got %v", tok)
	}
	c.Label = ""
	c.Blocks = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		if key == "Label" {
			var label string
			if err := dec.Decode(&label); err != nil {
				return err
			}
			c.Label = label
			continue
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var fields FieldBlock
		if err := json.Unmarshal(raw, &fields); err != nil {
			return err
		}
		c.Blocks = append(c.Blocks, TypeBlock{Key: key, Fields: fields})
	}
	return nil
}

// FieldBlock is an insertion-ordered field-label -> value mapping. Values
// are nil, string, int or float64.
type FieldBlock struct {
	labels []string
	values map[string]any
}

// Set appends the label on first write and overwrites on repeats.
func (b *FieldBlock) Set(label string, value any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	if _, ok := b.values[label]; !ok {
		b.labels = append(b.labels, label)
	}
	b.values[label] = value
}

// Get returns the value for a label and whether the label is present.
func (b FieldBlock) Get(label string) (any, bool) {
	v, ok := b.values[label]
	return v, ok
}

// Labels returns the labels in insertion order.
func (b FieldBlock) Labels() []string {
	return append([]string(nil), b.labels...)
}

// Len returns the number of fields in the block.
func (b FieldBlock) Len() int {
	return len(b.labels)
}

// MarshalJSON emits the fields in insertion order.
func (b FieldBlock) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range b.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(b.values[label])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the fields preserving document order; integral JSON
// numbers become int, the rest float64.
func (b *FieldBlock) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("field block: expected object, got %v", tok)
	}
	b.labels = nil
	b.values = make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		b.Set(keyTok.(string), normalizeJSONValue(raw))
	}
	return nil
}

func normalizeJSONValue(v any) any {
	if num, ok := v.(json.Number); ok {
		if iv, err := num.Int64(); err == nil {
			return int(iv)
		}
		if fv, err := num.Float64(); err == nil {
			return fv
		}
		return num.String()
	}
	return v
}
