package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
)

var (
	// ErrMalformedGUID is returned when the Guid field is not a valid UUID.
	ErrMalformedGUID = errors.New("malformed GUID")
	ErrInvalidJSON   = errors.New("invalid JSON")
)

// UnknownVersionError is returned for a Version value this codec does not know.
// Version holds the integer as written, which may not fit in an int64.
type UnknownVersionError struct {
	Version string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown manifest version %s", e.Version)
}

// FieldError reports a required field that is missing or has the wrong JSON type.
type FieldError struct {
	Field   string // Dotted path, e.g. "Options[1].SubOptions[0].Include"
	Want    string // Expected JSON type
	Missing bool
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("field %q is missing (expected %s)", e.Field, e.Want)
	}
	return fmt.Sprintf("field %q: expected %s", e.Field, e.Want)
}

// Decode parses a manifest in either the legacy or the current schema.
// The schema is chosen by the top-level Version field: absent (or null) selects
// legacy, 1 selects the current schema, anything else is an error.
func Decode(data []byte) (*Manifest, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	root, err := asObject(json.RawMessage(data), "$")
	if err != nil {
		return nil, err
	}

	raw, ok := root["Version"]
	if !ok || isNull(raw) {
		return decodeLegacy(root)
	}

	version, err := asBigInt(raw, "Version")
	if err != nil {
		return nil, err
	}
	if !version.IsInt64() || version.Int64() != CurrentVersion {
		return nil, &UnknownVersionError{Version: version.String()}
	}
	return decodeV1(root)
}

func decodeLegacy(root object) (*Manifest, error) {
	var d legacySchema
	var err error

	if d.guid, err = root.guid(); err != nil {
		return nil, err
	}
	if d.name, err = root.requiredString("Name", ""); err != nil {
		return nil, err
	}
	if d.description, err = root.requiredString("Description", ""); err != nil {
		return nil, err
	}
	if d.iconPath, err = root.optionalString("IconPath", ""); err != nil {
		return nil, err
	}

	if raw, ok := root["Options"]; ok && !isNull(raw) {
		if d.options, err = asStrings(raw, "Options"); err != nil {
			return nil, err
		}
		d.hasOptions = true
	}

	return &Manifest{data: d}, nil
}

func decodeV1(root object) (*Manifest, error) {
	var d v1Schema
	var err error

	if d.guid, err = root.guid(); err != nil {
		return nil, err
	}
	if d.name, err = root.requiredString("Name", ""); err != nil {
		return nil, err
	}
	if d.description, err = root.requiredString("Description", ""); err != nil {
		return nil, err
	}
	if d.iconPath, err = root.optionalString("IconPath", ""); err != nil {
		return nil, err
	}

	if raw, ok := root["Options"]; ok && !isNull(raw) {
		items, err := asArray(raw, "Options", "array of objects")
		if err != nil {
			return nil, err
		}
		d.options = make([]Option, 0, len(items))
		for i, item := range items {
			opt, err := decodeOption(item, fmt.Sprintf("Options[%d]", i))
			if err != nil {
				return nil, err
			}
			d.options = append(d.options, opt)
		}
	}

	if raw, ok := root["NexusData"]; ok && !isNull(raw) {
		nexus, err := decodeNexus(raw)
		if err != nil {
			return nil, err
		}
		d.nexus = nexus
	}

	d.options = compactOptions(d.options)
	return &Manifest{data: d}, nil
}

func decodeOption(raw json.RawMessage, path string) (Option, error) {
	var opt Option
	obj, err := asObject(raw, path)
	if err != nil {
		return opt, err
	}
	if opt.Name, err = obj.requiredString("Name", path); err != nil {
		return opt, err
	}
	if opt.Description, err = obj.requiredString("Description", path); err != nil {
		return opt, err
	}
	if inc, ok := obj["Include"]; ok && !isNull(inc) {
		if opt.Include, err = asStrings(inc, join(path, "Include")); err != nil {
			return opt, err
		}
	}
	if subs, ok := obj["SubOptions"]; ok && !isNull(subs) {
		items, err := asArray(subs, join(path, "SubOptions"), "array of objects")
		if err != nil {
			return opt, err
		}
		opt.SubOptions = make([]SubOption, 0, len(items))
		for i, item := range items {
			sub, err := decodeSubOption(item, fmt.Sprintf("%s[%d]", join(path, "SubOptions"), i))
			if err != nil {
				return opt, err
			}
			opt.SubOptions = append(opt.SubOptions, sub)
		}
	}
	return opt, nil
}

func decodeSubOption(raw json.RawMessage, path string) (SubOption, error) {
	var sub SubOption
	obj, err := asObject(raw, path)
	if err != nil {
		return sub, err
	}
	if sub.Name, err = obj.requiredString("Name", path); err != nil {
		return sub, err
	}
	if sub.Description, err = obj.requiredString("Description", path); err != nil {
		return sub, err
	}
	inc, ok := obj["Include"]
	if !ok {
		return sub, &FieldError{Field: join(path, "Include"), Want: "array of strings", Missing: true}
	}
	if sub.Include, err = asStrings(inc, join(path, "Include")); err != nil {
		return sub, err
	}
	if len(sub.Include) == 0 {
		return sub, &FieldError{Field: join(path, "Include"), Want: "non-empty array of strings"}
	}
	return sub, nil
}

func decodeNexus(raw json.RawMessage) (*NexusData, error) {
	obj, err := asObject(raw, "NexusData")
	if err != nil {
		return nil, err
	}
	idRaw, ok := obj["Id"]
	if !ok {
		return nil, &FieldError{Field: "NexusData.Id", Want: "integer", Missing: true}
	}
	id, err := asInt(idRaw, "NexusData.Id")
	if err != nil {
		return nil, err
	}
	if id < 0 || id > math.MaxUint32 {
		return nil, &FieldError{Field: "NexusData.Id", Want: "unsigned 32-bit integer"}
	}
	version, err := obj.requiredString("Version", "NexusData")
	if err != nil {
		return nil, err
	}
	return &NexusData{ID: uint32(id), Version: version}, nil
}

// wire types mirror the current schema for encoding.
type wireSubOption struct {
	Name        string   `json:"Name"`
	Description string   `json:"Description"`
	Include     []string `json:"Include"`
}

type wireOption struct {
	Name        string          `json:"Name"`
	Description string          `json:"Description"`
	Include     []string        `json:"Include,omitempty"`
	SubOptions  []wireSubOption `json:"SubOptions,omitempty"`
}

type wireNexus struct {
	ID      uint32 `json:"Id"`
	Version string `json:"Version"`
}

type wireManifest struct {
	Version     int          `json:"Version"`
	GUID        uuid.UUID    `json:"Guid"`
	Name        string       `json:"Name"`
	Description string       `json:"Description"`
	IconPath    string       `json:"IconPath,omitempty"`
	Options     []wireOption `json:"Options,omitempty"`
	NexusData   *wireNexus   `json:"NexusData,omitempty"`
}

// Encode serializes m in the current schema. Legacy manifests are upgraded:
// their translated option tree is written out.
func Encode(m *Manifest) ([]byte, error) {
	w := wireManifest{
		Version:     CurrentVersion,
		GUID:        m.GUID(),
		Name:        m.Name(),
		Description: m.Description(),
		IconPath:    m.IconPath(),
	}
	for _, opt := range m.Options() {
		wo := wireOption{
			Name:        opt.Name,
			Description: opt.Description,
			Include:     opt.Include,
		}
		for _, sub := range opt.SubOptions {
			wo.SubOptions = append(wo.SubOptions, wireSubOption(sub))
		}
		w.Options = append(w.Options, wo)
	}
	if n := m.Nexus(); n != nil {
		w.NexusData = &wireNexus{ID: n.ID, Version: n.Version}
	}

	data, err := json.MarshalIndent(w, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return data, nil
}

type object map[string]json.RawMessage

func (o object) guid() (uuid.UUID, error) {
	s, err := o.requiredString("Guid", "")
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w %q: %v", ErrMalformedGUID, s, err)
	}
	return id, nil
}

func (o object) requiredString(field, parent string) (string, error) {
	path := join(parent, field)
	raw, ok := o[field]
	if !ok {
		return "", &FieldError{Field: path, Want: "string", Missing: true}
	}
	return asString(raw, path)
}

func (o object) optionalString(field, parent string) (string, error) {
	raw, ok := o[field]
	if !ok || isNull(raw) {
		return "", nil
	}
	return asString(raw, join(parent, field))
}

func join(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func asObject(raw json.RawMessage, path string) (object, error) {
	var obj object
	if isNull(raw) || json.Unmarshal(raw, &obj) != nil {
		return nil, &FieldError{Field: path, Want: "object"}
	}
	return obj, nil
}

func asArray(raw json.RawMessage, path, want string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return nil, &FieldError{Field: path, Want: want}
	}
	return items, nil
}

func asString(raw json.RawMessage, path string) (string, error) {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", &FieldError{Field: path, Want: "string"}
	}
	return s, nil
}

func asStrings(raw json.RawMessage, path string) ([]string, error) {
	items, err := asArray(raw, path, "array of strings")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := asString(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func asInt(raw json.RawMessage, path string) (int64, error) {
	n, err := asBigInt(raw, path)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, &FieldError{Field: path, Want: "64-bit integer"}
	}
	return n.Int64(), nil
}

// asBigInt accepts any JSON number written without a fraction or exponent
func asBigInt(raw json.RawMessage, path string) (*big.Int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &FieldError{Field: path, Want: "integer"}
	}
	num, ok := v.(json.Number)
	if !ok {
		return nil, &FieldError{Field: path, Want: "integer"}
	}
	n, ok := new(big.Int).SetString(num.String(), 10)
	if !ok {
		return nil, &FieldError{Field: path, Want: "integer"}
	}
	return n, nil
}
