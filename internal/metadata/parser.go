package metadata

import (
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/toyz/rtgen/internal/errors"
)

// SupportedFormatMajor is the snapshot format major version this build understands
const SupportedFormatMajor = "v1"

type fileAST struct {
	Pos        lexer.Position
	Format     string         `parser:"'format' @String"`
	Assemblies []*assemblyAST `parser:"@@*"`
}

type assemblyAST struct {
	Pos        lexer.Position
	Name       string          `parser:"'assembly' @Ident ( @'.' @Ident )* '{'"`
	Namespaces []*namespaceAST `parser:"@@* '}'"`
}

type namespaceAST struct {
	Pos   lexer.Position
	Name  string         `parser:"'namespace' @Ident ( @'.' @Ident )* '{'"`
	Types []*typeDeclAST `parser:"@@* '}'"`
}

type typeDeclAST struct {
	Pos        lexer.Position
	Attributes []*attributeAST `parser:"@@*"`
	Kind       string          `parser:"@( 'interface' | 'delegate' | 'class' | 'enum' | 'struct' | 'attribute' )"`
	Name       string          `parser:"@Ident"`
	Generics   []string        `parser:"( '<' @Ident ( ',' @Ident )* '>' )?"`
	Underlying string          `parser:"( ':' @Ident )?"`
	Default    *typeRefAST     `parser:"( 'default' @@ )?"`
	Requires   []*typeRefAST   `parser:"( 'requires' @@ ( ',' @@ )* )?"`
	Members    []*memberAST    `parser:"( '{' @@* '}' | ';' )"`
}

type attributeAST struct {
	Pos  lexer.Position
	Name string        `parser:"'[' @Ident"`
	Args []*attrArgAST `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )? ']'"`
}

type attrArgAST struct {
	Value string `parser:"@String | @Number | @Ident ( @'.' @Ident )*"`
}

type memberAST struct {
	Pos        lexer.Position
	Attributes []*attributeAST `parser:"@@*"`
	Name       string          `parser:"@Ident"`
	Method     *methodAST      `parser:"( @@"`
	Field      *typeRefAST     `parser:"| ':' @@"`
	Value      *string         `parser:"| '=' @Number ) ( ',' | ';' )?"`
}

type methodAST struct {
	Params []*paramAST `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
	Return *typeRefAST `parser:"':' @@"`
}

type paramAST struct {
	Pos        lexer.Position
	Attributes []*attributeAST `parser:"@@*"`
	Name       string          `parser:"@Ident ':'"`
	Type       *typeRefAST     `parser:"@@"`
}

type typeRefAST struct {
	ByRef  bool          `parser:"@'&'?"`
	Name   string        `parser:"@Ident ( @'.' @Ident )*"`
	Args   []*typeRefAST `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Arrays []string      `parser:"@ArraySuffix*"`
}

var snapshotLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Number", Pattern: `-?(0[xX][0-9a-fA-F]+|[0-9]+)`},
	{Name: "ArraySuffix", Pattern: `\[\]`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[{}()\[\]<>:,.&=;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var snapshotParser = participle.MustBuild[fileAST](
	participle.Lexer(snapshotLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(3),
)

// LoadFiles parses every snapshot file and merges the result into one Snapshot
func LoadFiles(paths ...string) (*Snapshot, error) {
	var assemblies []*Assembly
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", path, err)
		}
		parsed, err := Parse(path, src)
		if err != nil {
			return nil, err
		}
		assemblies = append(assemblies, parsed...)
	}
	return NewSnapshot(assemblies...)
}

// Parse parses one snapshot file into its assemblies
func Parse(filename string, src []byte) ([]*Assembly, error) {
	file, err := snapshotParser.ParseBytes(filename, src)
	if err != nil {
		var perr participle.Error
		if stderrors.As(err, &perr) {
			return nil, errors.NewSyntaxError(perr.Message(), location(perr.Position()))
		}
		return nil, errors.WrapParseError(filename, err)
	}

	if err := checkFormat(file); err != nil {
		return nil, err
	}

	var out []*Assembly
	for _, a := range file.Assemblies {
		asm := &Assembly{Name: a.Name}
		for _, ns := range a.Namespaces {
			for _, decl := range ns.Types {
				t, err := convertType(decl, ns.Name)
				if err != nil {
					return nil, err
				}
				t.Assembly = asm.Name
				asm.Types = append(asm.Types, t)
			}
		}
		out = append(out, asm)
	}
	return out, nil
}

func checkFormat(file *fileAST) error {
	v := file.Format
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return errors.New(errors.FormatVersionErrorCode, fmt.Sprintf("invalid snapshot format version %q", file.Format)).
			WithLocation(location(file.Pos))
	}
	if semver.Major(v) != SupportedFormatMajor {
		return errors.New(errors.FormatVersionErrorCode,
			fmt.Sprintf("unsupported snapshot format %s (supported: %s.x)", v, SupportedFormatMajor)).
			WithLocation(location(file.Pos)).
			WithSuggestion("Re-export the snapshot with a matching exporter version")
	}
	return nil
}

func location(pos lexer.Position) errors.SourceLocation {
	return errors.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}

var kinds = map[string]Kind{
	"interface": KindInterface,
	"class":     KindClass,
	"enum":      KindEnum,
	"struct":    KindStruct,
	"delegate":  KindDelegate,
	"attribute": KindAttribute,
}

func convertType(decl *typeDeclAST, namespace string) (*TypeDefinition, error) {
	loc := location(decl.Pos)
	t := &TypeDefinition{
		Name:          decl.Name,
		Namespace:     namespace,
		Kind:          kinds[decl.Kind],
		GenericParams: decl.Generics,
		Attributes:    convertAttributes(decl.Attributes),
		Location:      loc,
	}
	if len(decl.Generics) > 0 {
		t.Name = fmt.Sprintf("%s`%d", decl.Name, len(decl.Generics))
	}
	scope := refScope{namespace: namespace, generics: decl.Generics}

	if g, ok := t.Attributes.Find("guid"); ok {
		id, err := uuid.Parse(g.Arg(0))
		if err != nil {
			return nil, errors.NewSyntaxError(fmt.Sprintf("invalid guid %q on %s: %v", g.Arg(0), t.FullName(), err), loc)
		}
		t.Guid = id
		t.HasGuid = true
	}

	if decl.Underlying != "" {
		if t.Kind != KindEnum {
			return nil, errors.NewSyntaxError(fmt.Sprintf("%s %s cannot declare an underlying type", decl.Kind, t.FullName()), loc)
		}
		p, ok := LookupPrimitive(decl.Underlying)
		if !ok || (p != PrimInt32 && p != PrimUInt32) {
			return nil, errors.NewSyntaxError(fmt.Sprintf("enum %s must use Int32 or UInt32, got %s", t.FullName(), decl.Underlying), loc)
		}
		t.Underlying = p
	} else if t.Kind == KindEnum {
		t.Underlying = PrimInt32
		if t.IsFlags() {
			t.Underlying = PrimUInt32
		}
	}

	if decl.Default != nil {
		t.DefaultInterface = scope.resolve(decl.Default)
	}
	for _, r := range decl.Requires {
		t.Requires = append(t.Requires, scope.resolve(r))
	}

	for _, m := range decl.Members {
		mloc := location(m.Pos)
		switch {
		case m.Method != nil:
			if t.Kind != KindInterface && t.Kind != KindDelegate && t.Kind != KindClass {
				return nil, errors.NewSyntaxError(fmt.Sprintf("%s %s cannot declare method %s", decl.Kind, t.FullName(), m.Name), mloc)
			}
			method := &Method{
				Name:       m.Name,
				Return:     scope.resolve(m.Method.Return),
				Attributes: convertAttributes(m.Attributes),
				Location:   mloc,
			}
			for _, p := range m.Method.Params {
				method.Params = append(method.Params, &Param{
					Name:       p.Name,
					Type:       scope.resolve(p.Type),
					Attributes: convertAttributes(p.Attributes),
				})
			}
			t.Methods = append(t.Methods, method)
		case m.Field != nil:
			if t.Kind != KindStruct {
				return nil, errors.NewSyntaxError(fmt.Sprintf("%s %s cannot declare field %s", decl.Kind, t.FullName(), m.Name), mloc)
			}
			t.Fields = append(t.Fields, &Field{Name: m.Name, Type: scope.resolve(m.Field)})
		case m.Value != nil:
			if t.Kind != KindEnum {
				return nil, errors.NewSyntaxError(fmt.Sprintf("%s %s cannot declare value %s", decl.Kind, t.FullName(), m.Name), mloc)
			}
			v, err := strconv.ParseInt(*m.Value, 0, 64)
			if err != nil {
				return nil, errors.NewSyntaxError(fmt.Sprintf("invalid enum value %q: %v", *m.Value, err), mloc)
			}
			t.Fields = append(t.Fields, &Field{Name: m.Name, Value: v})
		}
	}

	return t, nil
}

func convertAttributes(in []*attributeAST) Attributes {
	out := make(Attributes, 0, len(in))
	for _, a := range in {
		attr := &Attribute{Name: a.Name}
		for _, arg := range a.Args {
			attr.Args = append(attr.Args, arg.Value)
		}
		out = append(out, attr)
	}
	return out
}

// refScope resolves unqualified names against the declaring namespace and generic parameters
type refScope struct {
	namespace string
	generics  []string
}

func (s refScope) resolve(ast *typeRefAST) *TypeRef {
	var ref *TypeRef
	switch {
	case len(ast.Args) == 0 && s.genericIndex(ast.Name) >= 0:
		ref = GenericParamRef(ast.Name, s.genericIndex(ast.Name))
	case len(ast.Args) == 0 && isPrimitiveName(ast.Name):
		p, _ := LookupPrimitive(ast.Name)
		ref = PrimitiveRef(p)
	default:
		name := ast.Name
		if !strings.Contains(name, ".") && s.namespace != "" {
			name = s.namespace + "." + name
		}
		var args []*TypeRef
		if len(ast.Args) > 0 {
			name = fmt.Sprintf("%s`%d", name, len(ast.Args))
			for _, a := range ast.Args {
				args = append(args, s.resolve(a))
			}
		}
		ref = NamedRef(name, args...)
	}

	for range ast.Arrays {
		ref = ArrayOf(ref)
	}
	if ast.ByRef {
		ref = ByRef(ref)
	}
	return ref
}

func (s refScope) genericIndex(name string) int {
	for i, g := range s.generics {
		if g == name {
			return i
		}
	}
	return -1
}

func isPrimitiveName(name string) bool {
	_, ok := LookupPrimitive(name)
	return ok
}
