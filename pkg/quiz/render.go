package quiz

import (
	"strconv"
	"strings"
)

// The output block is assembled as an ordered list of fields and written by
// render. Lists and objects put commas between elements, never after the last.

type value interface {
	render(b *strings.Builder, indent string)
}

type field struct {
	Key   string
	Value value
}

type fields []field

// quoted renders a single-quoted string literal.
type quoted string

// boolean renders true or false.
type boolean bool

// pairs renders an object with double-quoted keys and values.
type pairs []pair

type pair struct {
	Key, Value string
}

// objects renders an array of objects.
type objects []fields

var singleQuoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

func (q quoted) render(b *strings.Builder, _ string) {
	b.WriteByte('\'')
	b.WriteString(singleQuoteEscaper.Replace(string(q)))
	b.WriteByte('\'')
}

func (v boolean) render(b *strings.Builder, _ string) {
	b.WriteString(strconv.FormatBool(bool(v)))
}

func (p pairs) render(b *strings.Builder, indent string) {
	b.WriteString("{\n")
	for i, kv := range p {
		b.WriteString(indent + "  ")
		b.WriteString(strconv.Quote(kv.Key))
		b.WriteString(": ")
		b.WriteString(strconv.Quote(kv.Value))
		if i < len(p)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(indent + "}")
}

func (o objects) render(b *strings.Builder, indent string) {
	b.WriteString("[\n")
	for i, obj := range o {
		b.WriteString(indent + "  {\n")
		obj.write(b, indent+"    ")
		b.WriteString(indent + "  }")
		if i < len(o)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(indent + "]")
}

func (fs fields) write(b *strings.Builder, indent string) {
	for i, f := range fs {
		b.WriteString(indent)
		b.WriteString(f.Key)
		b.WriteString(": ")
		f.Value.render(b, indent)
		if i < len(fs)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
}

// render serializes the top-level fields. The block has no trailing newline.
func render(fs fields) string {
	var b strings.Builder
	fs.write(&b, "")
	return strings.TrimSuffix(b.String(), "\n")
}
