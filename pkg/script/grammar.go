package script

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.:-]*`},
		{Name: "Symbol", Pattern: `[][,=;]`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// Script is the root of a parsed scene script.
type Script struct {
	Statements []*Statement `parser:"( Newline | ';' )* ( @@ ( Newline | ';' )* )*"`
}

// Statement declares one node.
type Statement struct {
	Pos      lexer.Position `parser:""`
	Relation *RelationDecl  `parser:"  @@"`
	Shape    *ShapeDecl     `parser:"| @@"`
}

// ShapeDecl declares a leaf shape.
type ShapeDecl struct {
	Kind  string  `parser:"@( 'rect' | 'ellipse' | 'line' | 'arrow' | 'text' | 'other' )"`
	ID    string  `parser:"@Ident"`
	Attrs []*Attr `parser:"@@*"`
}

// RelationDecl declares a relation over earlier nodes.
type RelationDecl struct {
	Kind     string   `parser:"@( 'align' | 'distribute' | 'stack' | 'background' | 'group' )"`
	ID       string   `parser:"@Ident"`
	Attrs    []*Attr  `parser:"@@*"`
	Children []string `parser:"'[' ( @Ident ( ',' @Ident )* ','? )? ']'"`
}

// Attr is a bare mode word or a key=number pair.
type Attr struct {
	Pos   lexer.Position `parser:""`
	Key   string         `parser:"@Ident"`
	Value *string        `parser:"( '=' @Number )?"`
}

// Parse parses a script from r.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}
