package htmlclean

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

// filterStyle reduces a style attribute to the declarations whose
// property is in allowed. Declarations are re-serialized compactly as
// "property:value" joined by ";". Unparseable input yields "".
func filterStyle(val string, allowed map[string]bool) string {
	val = strings.TrimSpace(val)
	if val != "" && !strings.HasSuffix(val, ";") {
		val += ";"
	}
	decls, err := parser.ParseDeclarations(val)
	if err != nil {
		return ""
	}

	var b strings.Builder
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		if !allowed[prop] {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(prop)
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(d.Value))
		if d.Important {
			b.WriteString(" !important")
		}
	}
	return b.String()
}
