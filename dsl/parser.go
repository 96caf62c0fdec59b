package dsl

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	templateLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:px|pt|mm|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][{},;:=]`},
	})

	templateParser = participle.MustBuild[Document](
		participle.Lexer(templateLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document 是模板文件的根节点：`template <Name> <Version> { ... }`。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'template' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是顶层段落，meta、resources、canvas 三者之一。
type Section struct {
	Meta      *PropertyBlock `parser:"  'meta' @@"`
	Resources *Resources     `parser:"| 'resources' @@"`
	Canvas    *Canvas        `parser:"| @@"`
}

// Kind 返回段落名称。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Canvas != nil:
		return "canvas"
	default:
		return "unknown"
	}
}

// PropertyBlock 是 `{ key: value ... }`，属性之间用换行或分号分隔，也可以写在同一行。
type PropertyBlock struct {
	Properties []*Property `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Map 将属性展开为 key 到文本值的映射，后出现的同名属性覆盖先前的。
func (b *PropertyBlock) Map() map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	for _, p := range b.Properties {
		out[p.Key] = p.Value.Text()
	}
	return out
}

// Property 是 `key: value`。
type Property struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':' Newline*"`
	Value *Value         `parser:"@@"`
}

// Value 是单个属性值。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
	List   *List          `parser:"| @@"`
}

// Text 返回值的文本形式；列表以 ", " 连接。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	case v.List != nil:
		parts := make([]string, 0, len(v.List.Values))
		for _, item := range v.List.Values {
			parts = append(parts, item.Text())
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// List 是 `[a, b]` 或逐行书写的列表。
type List struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( ',' | Newline )* )* ']'"`
}

// Resources 收集字体、图片、颜色与样式声明。
type Resources struct {
	Decls []*Decl `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Decl 是 resources 段落中的一条声明。
type Decl struct {
	Font  *FontDecl  `parser:"  @@"`
	Image *ImageDecl `parser:"| @@"`
	Color *ColorDecl `parser:"| @@"`
	Style *StyleDecl `parser:"| @@"`
}

// FontDecl: `font <Name> { src: "..." family: "..." style: bold fallback: "..." }`。
type FontDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'font' @Ident"`
	Props *PropertyBlock `parser:"@@"`
}

// ImageDecl: `image <Name> { src: "..." }`。
type ImageDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'image' @Ident"`
	Props *PropertyBlock `parser:"@@"`
}

// ColorDecl: `color <Name> = #rrggbb`，等号可省略。
type ColorDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'color' @Ident '='?"`
	Value string         `parser:"@Color"`
}

// StyleDecl: `style <Name> [extends <Parent>] { ... }`。
type StyleDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'style' @Ident"`
	Extends string         `parser:"( 'extends' @Ident )?"`
	Props   *PropertyBlock `parser:"@@"`
}

// Canvas: `canvas width 800 height 1131 background Base export 2x { field ... }`。
type Canvas struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Params []*Param       `parser:"'canvas' @@*"`
	Fields []*Field       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Param 是 canvas 头部的 `name value` 对。
type Param struct {
	Name  string `parser:"@Ident"`
	Value *Value `parser:"@@"`
}

// Field: `field <key> [Style] name value ... [{ "默认文本" | key: value ... }]`。
// 参数个数为奇数时第一个参数是样式名。
type Field struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Key  string         `parser:"'field' @Ident"`
	Args []*Value       `parser:"@@*"`
	Body *FieldBody     `parser:"@@?"`
}

// FieldBody 是字段块：字符串字面量作为默认文本，属性覆盖参数。
type FieldBody struct {
	Stmts []*FieldStmt `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// FieldStmt 是字段块中的一行。
type FieldStmt struct {
	Text     *StringLiteral `parser:"  @String"`
	Property *Property      `parser:"| @@"`
}

// Text 返回字段块中的字符串字面量，多个时以换行连接。
func (f *Field) Text() string {
	if f.Body == nil {
		return ""
	}
	var lines []string
	for _, st := range f.Body.Stmts {
		if st.Text != nil {
			lines = append(lines, string(*st.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// StringLiteral 在捕获时去掉引号并处理转义。
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量缺少内容")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 r 解析模板。
func Parse(r io.Reader) (*Document, error) {
	return templateParser.Parse("", r)
}

// ParseString 解析字符串形式的模板。
func ParseString(input string) (*Document, error) {
	return templateParser.ParseString("", input)
}

// ParseFile 解析模板文件，错误信息中带有文件名与行号。
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return templateParser.Parse(path, f)
}
