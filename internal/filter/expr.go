package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/value"
)

// ExpressionPrefix marks a filter value as a boolean expression.
const ExpressionPrefix = "@="

// Expression variables and functions.
const (
	varRepository = "repository"
	varProperty   = "property"
	funcMatch     = "match"
)

// SyntaxError reports an expression that could not be parsed.
type SyntaxError struct {
	Source string
	Pos    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf(messages.FilterSyntaxErrorFmt, e.Source, e.Pos, e.Msg)
}

// Expression is a parsed filter expression. It is safe for concurrent use.
type Expression struct {
	source string
	root   node
}

// ParseExpression parses src (without the "@=" prefix).
func ParseExpression(src string) (*Expression, error) {
	p := &parser{lex: newLexer(src), src: src}
	p.next()
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF || p.lex.err != nil {
		return nil, p.errorf(messages.FilterUnexpectedTokenFmt, p.tok.text)
	}
	return &Expression{source: src, root: root}, nil
}

// String returns the expression source.
func (e *Expression) String() string { return e.source }

// Properties returns every repository property the expression reads through
// member access, in source order.
func (e *Expression) Properties() []string {
	var out []string
	walk(e.root, func(n node) {
		if m, ok := n.(memberNode); ok {
			out = append(out, m.property)
		}
	})
	return out
}

// Eval evaluates the expression for one repository and the property under test.
func (e *Expression) Eval(repo *repository.Repository, property string) (bool, error) {
	env := &evalEnv{repo: repo, property: property}
	result, err := e.root.eval(env)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf(messages.FilterNonBoolResultFmt, e.source, value.TypeName(result))
	}
	return b, nil
}

type evalEnv struct {
	repo     *repository.Repository
	property string
}

// --- lexer ---

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src []rune
	pos int
	err *SyntaxError
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src)}
}

func (l *lexer) next() token {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}
	}
	r := l.src[l.pos]
	switch {
	case unicode.IsLetter(r) || r == '_':
		for l.pos < len(l.src) && (unicode.IsLetter(l.src[l.pos]) || unicode.IsDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
		return token{kind: tokIdent, text: string(l.src[start:l.pos]), pos: start}
	case unicode.IsDigit(r) || (r == '-' && l.pos+1 < len(l.src) && unicode.IsDigit(l.src[l.pos+1])):
		l.pos++
		for l.pos < len(l.src) && (unicode.IsDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		return token{kind: tokNumber, text: string(l.src[start:l.pos]), pos: start}
	case r == '"' || r == '\'':
		return l.lexString(r)
	}
	for _, op := range []string{"==", "!=", "&&", "||"} {
		if strings.HasPrefix(string(l.src[l.pos:]), op) {
			l.pos += 2
			return token{kind: tokOp, text: op, pos: start}
		}
	}
	switch r {
	case '!', '(', ')', ',', '.':
		l.pos++
		return token{kind: tokOp, text: string(r), pos: start}
	}
	l.err = &SyntaxError{Pos: start, Msg: fmt.Sprintf(messages.FilterUnexpectedCharFmt, r)}
	return token{kind: tokEOF, pos: start}
}

func (l *lexer) lexString(quote rune) token {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case r == '\\' && l.pos+1 < len(l.src):
			b.WriteRune(l.src[l.pos+1])
			l.pos += 2
		case r == quote:
			l.pos++
			return token{kind: tokString, text: b.String(), pos: start}
		default:
			b.WriteRune(r)
			l.pos++
		}
	}
	l.err = &SyntaxError{Pos: start, Msg: messages.FilterUnterminatedString}
	return token{kind: tokEOF, pos: start}
}

// --- parser ---

type parser struct {
	lex *lexer
	src string
	tok token
}

func (p *parser) next() {
	p.tok = p.lex.next()
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	if p.lex.err != nil {
		p.lex.err.Source = p.src
		return p.lex.err
	}
	return &SyntaxError{Source: p.src, Pos: p.tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) isOp(text string) bool {
	return p.tok.kind == tokOp && p.tok.text == text
}

func (p *parser) isKeyword(word string) bool {
	return p.tok.kind == tokIdent && p.tok.text == word
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isOp("||") || p.isKeyword("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = logicalNode{or: true, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isOp("&&") || p.isKeyword("and") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = logicalNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.isOp("!") || p.isKeyword("not") {
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return notNode{operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.isOp("==") || p.isOp("!=") {
		negate := p.tok.text == "!="
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return equalNode{negate: negate, left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.tok
	switch tok.kind {
	case tokString:
		p.next()
		return literalNode{value: tok.text}, nil
	case tokNumber:
		p.next()
		if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
			return literalNode{value: i}, nil
		}
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf(messages.FilterInvalidNumberFmt, tok.text)
		}
		return literalNode{value: f}, nil
	case tokOp:
		if tok.text == "(" {
			p.next()
			inner, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if !p.isOp(")") {
				return nil, p.errorf(messages.FilterExpectedFmt, ")")
			}
			p.next()
			return inner, nil
		}
	case tokIdent:
		return p.parseIdent()
	}
	if tok.kind == tokEOF {
		return nil, p.errorf(messages.FilterUnexpectedEnd)
	}
	return nil, p.errorf(messages.FilterUnexpectedTokenFmt, tok.text)
}

func (p *parser) parseIdent() (node, error) {
	name := p.tok.text
	p.next()
	switch name {
	case "true":
		return literalNode{value: true}, nil
	case "false":
		return literalNode{value: false}, nil
	case "null":
		return literalNode{value: nil}, nil
	case varProperty:
		return propertyNode{}, nil
	case varRepository:
		if !p.isOp(".") {
			return nil, p.errorf(messages.FilterExpectedFmt, ".")
		}
		p.next()
		if p.tok.kind != tokIdent {
			return nil, p.errorf(messages.FilterExpectedFmt, "property name")
		}
		member := memberNode{property: p.tok.text}
		p.next()
		return member, nil
	case funcMatch:
		return p.parseMatchCall()
	}
	return nil, p.errorf(messages.FilterUnknownIdentFmt, name)
}

func (p *parser) parseMatchCall() (node, error) {
	if !p.isOp("(") {
		return nil, p.errorf(messages.FilterExpectedFmt, "(")
	}
	p.next()
	var args []node
	for !p.isOp(")") {
		if len(args) > 0 {
			if !p.isOp(",") {
				return nil, p.errorf(messages.FilterExpectedFmt, ",")
			}
			p.next()
		}
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.next()
	if len(args) < 1 || len(args) > 2 {
		return nil, p.errorf(messages.FilterMatchArityFmt, len(args))
	}
	call := matchNode{pattern: args[0]}
	if len(args) == 2 {
		call.value = args[1]
	}
	return call, nil
}

// --- AST ---

type node interface {
	eval(env *evalEnv) (any, error)
}

type literalNode struct{ value any }

func (n literalNode) eval(*evalEnv) (any, error) { return n.value, nil }

type propertyNode struct{}

func (propertyNode) eval(env *evalEnv) (any, error) { return env.property, nil }

type memberNode struct{ property string }

func (n memberNode) eval(env *evalEnv) (any, error) {
	return env.repo.Property(n.property)
}

type equalNode struct {
	negate      bool
	left, right node
}

func (n equalNode) eval(env *evalEnv) (any, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}
	return value.Equal(left, right) != n.negate, nil
}

type logicalNode struct {
	or          bool
	left, right node
}

func (n logicalNode) eval(env *evalEnv) (any, error) {
	left, err := evalBool(n.left, env)
	if err != nil {
		return nil, err
	}
	if left == n.or {
		return left, nil
	}
	return evalBool(n.right, env)
}

type notNode struct{ operand node }

func (n notNode) eval(env *evalEnv) (any, error) {
	b, err := evalBool(n.operand, env)
	if err != nil {
		return nil, err
	}
	return !b, nil
}

type matchNode struct {
	pattern node
	value   node
}

func (n matchNode) eval(env *evalEnv) (any, error) {
	rawPattern, err := n.pattern.eval(env)
	if err != nil {
		return nil, err
	}
	pattern, ok := rawPattern.(string)
	if !ok {
		return nil, fmt.Errorf(messages.FilterMatchPatternTypeFmt, value.TypeName(rawPattern))
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf(messages.FilterMatchPatternInvalidFmt, pattern, err)
	}

	var subject any
	if n.value != nil {
		subject, err = n.value.eval(env)
	} else {
		subject, err = env.repo.Property(env.property)
	}
	if err != nil {
		return nil, err
	}
	return matchSubject(re, subject), nil
}

func matchSubject(re *regexp.Regexp, subject any) bool {
	subject = value.Normalize(subject)
	if list, ok := subject.([]any); ok {
		for _, item := range list {
			if matchSubject(re, item) {
				return true
			}
		}
		return false
	}
	switch s := subject.(type) {
	case nil:
		return false
	case string:
		return re.MatchString(s)
	default:
		return re.MatchString(fmt.Sprint(s))
	}
}

func evalBool(n node, env *evalEnv) (bool, error) {
	v, err := n.eval(env)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf(messages.FilterNonBoolOperandFmt, value.TypeName(v))
	}
	return b, nil
}

func walk(n node, visit func(node)) {
	visit(n)
	switch t := n.(type) {
	case equalNode:
		walk(t.left, visit)
		walk(t.right, visit)
	case logicalNode:
		walk(t.left, visit)
		walk(t.right, visit)
	case notNode:
		walk(t.operand, visit)
	case matchNode:
		walk(t.pattern, visit)
		if t.value != nil {
			walk(t.value, visit)
		}
	}
}
