package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
	"unicode"

	"github.com/pthm/wcmp"
)

// Wrapper is the template data for one generated file.
type Wrapper struct {
	Package    string
	Type       string
	Tag        string
	Observed   []string
	Properties []Property
	Methods    []Method
}

// Property is one generated getter/setter pair.
type Property struct {
	Name   string // property name, e.g. "countX"
	GoName string // e.g. "CountX"
	Event  string
}

// Method is one generated method call.
type Method struct {
	Name   string
	GoName string
}

// Describe builds the wrapper data for a manifest. It defines the class
// so the tables match what Define would build at runtime.
func Describe(m *wcmp.Manifest, pkg string) (*Wrapper, error) {
	methods := make(map[string]wcmp.Action, len(m.Methods))
	for _, name := range m.Methods {
		methods[name] = func(_ wcmp.Context, s wcmp.State, _ any) wcmp.Result { return wcmp.OK(s) }
	}
	def := wcmp.Definition{Methods: methods}
	if err := m.Apply(&def); err != nil {
		return nil, err
	}
	class, err := wcmp.Define(m.Tag, def)
	if err != nil {
		return nil, err
	}

	typ := m.Type
	if typ == "" {
		typ = goName(m.Tag)
	}
	w := &Wrapper{
		Package:  pkg,
		Type:     typ,
		Tag:      class.Tag(),
		Observed: class.ObservedAttributes(),
	}

	used := map[string]string{"Get": "", "Set": "", "Call": ""}
	claim := func(id, owner string) error {
		if prev, taken := used[id]; taken {
			if prev == "" {
				return fmt.Errorf("%w: %q would shadow %s", wcmp.ErrConfig, owner, id)
			}
			return fmt.Errorf("%w: %q and %q both generate %s", wcmp.ErrConfig, prev, owner, id)
		}
		used[id] = owner
		return nil
	}

	for _, name := range class.Properties() {
		f, _ := class.Field(name)
		p := Property{Name: name, GoName: goName(name), Event: f.Event}
		if err := claim(p.GoName, name); err != nil {
			return nil, err
		}
		if err := claim("Set"+p.GoName, name); err != nil {
			return nil, err
		}
		w.Properties = append(w.Properties, p)
	}
	for _, name := range class.Methods() {
		mt := Method{Name: name, GoName: goName(name)}
		if err := claim(mt.GoName, name); err != nil {
			return nil, err
		}
		w.Methods = append(w.Methods, mt)
	}
	return w, nil
}

// Render generates the formatted wrapper source for a manifest.
func Render(m *wcmp.Manifest, pkg string) ([]byte, error) {
	w, err := Describe(m, pkg)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("wc").Funcs(template.FuncMap{
		"quote":   func(s string) string { return fmt.Sprintf("%q", s) },
		"strings": quoteList,
	}).Parse(wcTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, w); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format source: %w", err)
	}
	return formatted, nil
}

// goName converts "count-x", "countX" or "on_foo" to an exported
// identifier.
func goName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		default:
			upper = true
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

func quoteList(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

const wcTemplate = `// Code generated by wcmp generate. DO NOT EDIT.

package {{.Package}}

import "github.com/pthm/wcmp"

// {{.Type}}Tag is the tag name of {{.Type}}.
const {{.Type}}Tag = {{quote .Tag}}

// {{.Type}}ObservedAttributes lists the attributes {{.Type}} reflects.
var {{.Type}}ObservedAttributes = []string{ {{- strings .Observed -}} }

// {{.Type}} is a typed view of a <{{.Tag}}> instance.
type {{.Type}} struct {
	*wcmp.Instance
}

// New{{.Type}} wraps in. It returns nil when in is not a <{{.Tag}}>.
func New{{.Type}}(in *wcmp.Instance) *{{.Type}} {
	if in == nil || in.Tag() != {{.Type}}Tag {
		return nil
	}
	return &{{.Type}}{Instance: in}
}
{{range .Properties}}
// {{.GoName}} returns the {{.Name}} property.
func (c *{{$.Type}}) {{.GoName}}() (any, error) {
	return c.Get({{quote .Name}})
}

// Set{{.GoName}} sets the {{.Name}} property.{{if .Event}} It accepts a
// listener for {{.Event}} events.{{end}}
func (c *{{$.Type}}) Set{{.GoName}}(v any) error {
	return c.Set({{quote .Name}}, v)
}
{{end}}{{range .Methods}}
// {{.GoName}} calls the {{.Name}} method.
func (c *{{$.Type}}) {{.GoName}}() error {
	return c.Call({{quote .Name}})
}
{{end}}`
