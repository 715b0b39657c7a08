package prompt

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// MissingInputError reports template fields absent from the supplied inputs.
type MissingInputError struct {
	Template string
	Fields   []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("template %q: missing input fields: %s", e.Template, strings.Join(e.Fields, ", "))
}

// Template is a prompt with named {field} placeholders. The set of required
// fields equals the set of placeholders referenced by the text.
type Template struct {
	name     string
	text     string
	required []string
}

// New validates that text references exactly the declared fields.
func New(name, text string, required ...string) (*Template, error) {
	declared := make(map[string]struct{}, len(required))
	for _, f := range required {
		declared[f] = struct{}{}
	}
	referenced := make(map[string]struct{})
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		referenced[m[1]] = struct{}{}
	}
	var undeclared, unused []string
	for f := range referenced {
		if _, ok := declared[f]; !ok {
			undeclared = append(undeclared, f)
		}
	}
	for f := range declared {
		if _, ok := referenced[f]; !ok {
			unused = append(unused, f)
		}
	}
	if len(undeclared) > 0 {
		sort.Strings(undeclared)
		return nil, fmt.Errorf("template %q references undeclared fields: %s", name, strings.Join(undeclared, ", "))
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return nil, fmt.Errorf("template %q declares unused fields: %s", name, strings.Join(unused, ", "))
	}
	fields := make([]string, 0, len(declared))
	for f := range declared {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return &Template{name: name, text: text, required: fields}, nil
}

// MustNew is like New but panics on an invalid template.
func MustNew(name, text string, required ...string) *Template {
	t, err := New(name, text, required...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the template identifier.
func (t *Template) Name() string { return t.name }

// Required returns the sorted input field names.
func (t *Template) Required() []string {
	out := make([]string, len(t.required))
	copy(out, t.required)
	return out
}

// Render substitutes every placeholder. Values are inserted verbatim.
func (t *Template) Render(inputs map[string]string) (string, error) {
	var missing []string
	for _, f := range t.required {
		if _, ok := inputs[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return "", &MissingInputError{Template: t.name, Fields: missing}
	}
	return placeholderRe.ReplaceAllStringFunc(t.text, func(m string) string {
		return inputs[m[1:len(m)-1]]
	}), nil
}
