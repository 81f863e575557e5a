package wcmp

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML description of a component class. It carries the
// declarative parts of a Definition; transitions and views are bound in
// Go with Apply.
//
//	tag: counter-x
//	mode: shadow
//	state: {countX: 0}
//	fields:
//	  - {attr: count-x, prop: countX}
//	  - {attr: onfoo, prop: onfoo, event: Foo}
//	methods: [increment]
type Manifest struct {
	Tag            string         `yaml:"tag"`
	Mode           string         `yaml:"mode,omitempty"`
	Extends        string         `yaml:"extends,omitempty"`
	InlineHandlers bool           `yaml:"inlineHandlers,omitempty"`
	State          map[string]any `yaml:"state,omitempty"`
	FieldSpecs     []FieldSpec    `yaml:"fields,omitempty"`
	Methods        []string       `yaml:"methods,omitempty"`

	// Package and Type name the generated wrapper. Type defaults to the
	// tag in CamelCase.
	Package string `yaml:"package,omitempty"`
	Type    string `yaml:"type,omitempty"`
}

// FieldSpec is the YAML form of a Field.
type FieldSpec struct {
	Attr  string `yaml:"attr,omitempty"`
	Prop  string `yaml:"prop,omitempty"`
	Event string `yaml:"event,omitempty"`
}

// LoadManifest parses a manifest. Unknown keys are rejected.
func LoadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty manifest", ErrConfig)
		}
		return nil, fmt.Errorf("%w: manifest: %w", ErrConfig, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadManifest loads the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := LoadManifest(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest the way Define would check the
// definition built from it.
func (m *Manifest) Validate() error {
	if err := ValidateTag(m.Tag); err != nil {
		return err
	}
	if _, err := m.mode(); err != nil {
		return err
	}

	methods := make(map[string]Action, len(m.Methods))
	for _, name := range m.Methods {
		if _, dup := methods[name]; dup {
			return fmt.Errorf("%w: <%s>: duplicate method %q", ErrConfig, m.Tag, name)
		}
		methods[name] = mergeSetter
	}
	_, err := define(m.Tag, Definition{
		Fields:         m.Fields(),
		Methods:        methods,
		Extends:        m.Extends,
		InlineHandlers: m.InlineHandlers,
	}, nil, nil)
	return err
}

// Fields converts the field specs into Fields with default accessors.
func (m *Manifest) Fields() []Field {
	out := make([]Field, len(m.FieldSpecs))
	for i, fs := range m.FieldSpecs {
		out[i] = Field{Attr: fs.Attr, Prop: fs.Prop, Event: fs.Event}
	}
	return out
}

func (m *Manifest) mode() (Mode, error) {
	switch m.Mode {
	case "", "shadow":
		return Shadow, nil
	case "inline":
		return Inline, nil
	}
	return Shadow, fmt.Errorf("%w: <%s>: unknown mode %q", ErrConfig, m.Tag, m.Mode)
}

// Apply merges the manifest into def. Manifest fields come before any
// fields already in def, and the manifest state becomes Init when def
// has none. Every method the manifest lists must already be bound in
// def.Methods.
func (m *Manifest) Apply(def *Definition) error {
	mode, err := m.mode()
	if err != nil {
		return err
	}
	for _, name := range m.Methods {
		if def.Methods[name] == nil {
			return fmt.Errorf("%w: <%s>: method %q is not bound", ErrConfig, m.Tag, name)
		}
	}

	def.Fields = append(m.Fields(), def.Fields...)
	if def.Init.IsZero() && m.State != nil {
		def.Init = OK(State(m.State).Merge(nil))
	}
	if m.Mode != "" {
		def.Mode = mode
	}
	if m.Extends != "" {
		def.Extends = m.Extends
	}
	def.InlineHandlers = def.InlineHandlers || m.InlineHandlers
	return nil
}
