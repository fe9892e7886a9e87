// Package directive parses textual annotation lines such as
//
//	@GET /users/{id}
//	@summary "Fetch a user"
//	@param id path description="user id" type=integer
//	@response 200 User "the user"
//
// and applies them to an annotate.Member. Lines can come from string
// constants or from the doc comments of Go functions (see ScanFile).
package directive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrSyntax is returned for lines that do not follow the directive grammar.
var ErrSyntax = errors.New("directive syntax error")

// Directive is one parsed annotation line.
type Directive struct {
	Pos  lexer.Position
	Name string `parser:"'@' @Ident"`
	Args []*Arg `parser:"@@*"`
}

// Arg is a positional or named (key=value) argument.
type Arg struct {
	Key   string `parser:"@Key?"`
	Value *Value `parser:"@@"`
}

// Value is a quoted string, a number, a bracketed list or a bare token
// (identifier, path or slice type such as []User).
type Value struct {
	Str    *string  `parser:"  @String"`
	Number *float64 `parser:"| @Number"`
	List   *List    `parser:"| @@"`
	Token  *string  `parser:"| @(SliceType | Path | Ident)"`
}

// List is a bracketed, comma separated list of values.
type List struct {
	Items []*Value `parser:"'[' ( @@ ( ',' @@ )* )? ']'"`
}

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Key", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*=`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "SliceType", Pattern: `\[\][a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Path", Pattern: `/[^\s]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_./+-]*`},
	{Name: "Punct", Pattern: `[@\[\],]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[Directive](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.Map(func(t lexer.Token) (lexer.Token, error) {
		t.Value = strings.TrimSuffix(t.Value, "=")
		return t, nil
	}, "Key"),
	participle.UseLookahead(2),
)

// Parse parses a single directive line. A leading "//" comment marker is
// ignored.
func Parse(line string) (*Directive, error) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimPrefix(line, "//"))

	d, err := parser.ParseString("", line)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrSyntax, line, err)
	}
	d.Name = strings.ToLower(d.Name)
	return d, nil
}

// ParseText parses every directive line of text. Lines that do not start
// with "@" (after an optional "//" marker) are skipped, so free-form doc
// comment prose can surround the directives.
func ParseText(text string) ([]*Directive, error) {
	var (
		out  []*Directive
		errs []error
	)
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//"))
		if !strings.HasPrefix(trimmed, "@") {
			continue
		}
		d, err := Parse(trimmed)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}
		d.Pos.Line = i + 1
		out = append(out, d)
	}
	return out, errors.Join(errs...)
}

// Positional returns the arguments without a key, in order.
func (d *Directive) Positional() []*Value {
	var out []*Value
	for _, a := range d.Args {
		if a.Key == "" {
			out = append(out, a.Value)
		}
	}
	return out
}

// Named returns the value of the last argument called key, or nil.
func (d *Directive) Named(key string) *Value {
	var v *Value
	for _, a := range d.Args {
		if strings.EqualFold(a.Key, key) {
			v = a.Value
		}
	}
	return v
}

func (d *Directive) String() string {
	var sb strings.Builder
	sb.WriteString("@" + d.Name)
	for _, a := range d.Args {
		sb.WriteByte(' ')
		if a.Key != "" {
			sb.WriteString(a.Key + "=")
		}
		sb.WriteString(a.Value.String())
	}
	return sb.String()
}

// String renders the value back in directive syntax.
func (v *Value) String() string {
	switch {
	case v == nil:
		return ""
	case v.Str != nil:
		return strconv.Quote(*v.Str)
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case v.List != nil:
		items := make([]string, len(v.List.Items))
		for i, it := range v.List.Items {
			items[i] = it.String()
		}
		return "[" + strings.Join(items, ",") + "]"
	case v.Token != nil:
		return *v.Token
	}
	return ""
}

// Text returns the value as plain text: strings unquoted, numbers
// formatted, tokens verbatim.
func (v *Value) Text() string {
	if v != nil && v.Str != nil {
		return *v.Str
	}
	return v.String()
}

// Int returns the value as an integer.
func (v *Value) Int() (int, error) {
	if v == nil || v.Number == nil || *v.Number != float64(int(*v.Number)) {
		return 0, fmt.Errorf("%w: expected an integer, got %q", ErrSyntax, v.String())
	}
	return int(*v.Number), nil
}

// Any returns the value as a Go value: string, int, float64 or []any.
func (v *Value) Any() any {
	switch {
	case v == nil:
		return nil
	case v.Number != nil:
		if n, err := v.Int(); err == nil {
			return n
		}
		return *v.Number
	case v.List != nil:
		items := make([]any, len(v.List.Items))
		for i, it := range v.List.Items {
			items[i] = it.Any()
		}
		return items
	}
	return v.Text()
}
