// Package expr is the default visibility rule evaluator.
//
// Rules are small boolean expressions over form values:
//
//	hasPolicies
//	hasPolicies == true && type != "hostel"
//	!(availability == "maintenance") || extras.admin
//
// Identifiers read from visibility.Context.Values; the `extras.` prefix reads
// from Context.Extras. An empty rule is always visible.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-propdash/pkg/visibility"
)

// Evaluator parses rules once and caches the resulting trees.
type Evaluator struct {
	mu    sync.Mutex
	cache map[string]node
}

var _ visibility.Evaluator = (*Evaluator)(nil)

func New() *Evaluator { return &Evaluator{cache: make(map[string]node)} }

// Eval implements visibility.Evaluator.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return true, nil
	}
	tree, err := e.compile(rule)
	if err != nil {
		return false, err
	}
	return tree.eval(ctx), nil
}

// Check parses rule without evaluating it, for load-time validation.
func (e *Evaluator) Check(rule string) error {
	if strings.TrimSpace(rule) == "" {
		return nil
	}
	_, err := e.compile(strings.TrimSpace(rule))
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache == nil {
		e.cache = make(map[string]node)
	}
	if tree, ok := e.cache[rule]; ok {
		return tree, nil
	}

	toks, err := lex(rule)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	tree, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("visibility/expr: unexpected %q", p.peek().text)
	}
	e.cache[rule] = tree
	return tree, nil
}

type tokKind int

const (
	tokIdent tokKind = iota
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type tok struct {
	kind tokKind
	text string
}

var symbols = []struct {
	text string
	kind tokKind
}{
	{"==", tokEq}, {"!=", tokNeq}, {"&&", tokAnd}, {"||", tokOr},
	{"!", tokNot}, {"(", tokLParen}, {")", tokRParen},
}

func lex(input string) ([]tok, error) {
	var out []tok
	for i := 0; i < len(input); {
		ch := input[i]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++
			continue
		}

		if ch == '"' || ch == '\'' {
			end := i + 1
			for end < len(input) && input[end] != ch {
				if input[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(input) {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			quoted := input[i : end+1]
			if ch == '\'' {
				body := strings.ReplaceAll(input[i+1:end], `\'`, `'`)
				quoted = `"` + strings.ReplaceAll(body, `"`, `\"`) + `"`
			}
			value, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			out = append(out, tok{kind: tokString, text: value})
			i = end + 1
			continue
		}

		matched := false
		for _, sym := range symbols {
			if strings.HasPrefix(input[i:], sym.text) {
				out = append(out, tok{kind: sym.kind, text: sym.text})
				i += len(sym.text)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if ch == '=' || ch == '&' || ch == '|' {
			return nil, fmt.Errorf("visibility/expr: unexpected %q", string(ch))
		}

		start := i
		for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|\"'", rune(input[i])) {
			i++
		}
		out = append(out, classify(input[start:i]))
	}
	return out, nil
}

func classify(word string) tok {
	switch strings.ToLower(word) {
	case "true", "false":
		return tok{kind: tokBool, text: strings.ToLower(word)}
	case "null", "nil":
		return tok{kind: tokNull, text: "null"}
	}
	if first := word[0]; (first >= '0' && first <= '9') || first == '-' || first == '+' || first == '.' {
		if _, err := strconv.ParseFloat(word, 64); err == nil {
			return tok{kind: tokNumber, text: word}
		}
	}
	return tok{kind: tokIdent, text: word}
}

type parser struct {
	toks []tok
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() tok {
	if p.done() {
		return tok{}
	}
	return p.toks[p.pos]
}

func (p *parser) accept(kind tokKind) bool {
	if !p.done() && p.toks[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(tokOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept(tokAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.accept(tokNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.accept(tokLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	if p.done() {
		return nil, errors.New("visibility/expr: empty expression")
	}
	ident := p.peek()
	if ident.kind != tokIdent {
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", ident.text)
	}
	p.pos++

	for _, op := range []tokKind{tokEq, tokNeq} {
		if !p.accept(op) {
			continue
		}
		if p.done() {
			return nil, errors.New("visibility/expr: missing literal")
		}
		lit := p.peek()
		p.pos++
		switch lit.kind {
		case tokString, tokNumber, tokBool, tokNull, tokIdent:
		default:
			return nil, fmt.Errorf("visibility/expr: expected literal, got %q", lit.text)
		}
		return compareNode{ident: ident.text, negate: op == tokNeq, lit: lit}, nil
	}
	return truthyNode{ident.text}, nil
}

type node interface {
	eval(ctx visibility.Context) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) bool { return n.left.eval(ctx) || n.right.eval(ctx) }

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) bool { return n.left.eval(ctx) && n.right.eval(ctx) }

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) bool { return !n.inner.eval(ctx) }

type truthyNode struct{ ident string }

func (n truthyNode) eval(ctx visibility.Context) bool {
	value, ok := lookup(ctx, n.ident)
	return ok && truthy(value)
}

type compareNode struct {
	ident  string
	negate bool
	lit    tok
}

func (n compareNode) eval(ctx visibility.Context) bool {
	value, ok := lookup(ctx, n.ident)
	if !ok {
		value = nil
	}

	var equal bool
	switch n.lit.kind {
	case tokNull:
		equal = value == nil
	case tokBool:
		got, _ := asBool(value)
		equal = got == (n.lit.text == "true")
	case tokNumber:
		want, _ := strconv.ParseFloat(n.lit.text, 64)
		got, _ := asNumber(value)
		equal = got == want
	default:
		equal = asString(value) == n.lit.text
	}
	return equal != n.negate
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	if rest, ok := strings.CutPrefix(key, "extras."); ok {
		v, found := ctx.Extras[rest]
		return v, found
	}
	v, found := ctx.Values[key]
	return v, found
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		b, ok := asBool(v)
		if ok {
			return b
		}
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	default:
		return false, false
	}
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
