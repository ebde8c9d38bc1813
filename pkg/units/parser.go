/*
Copyright 2026 The Climate Action Tool Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// term is one symbol raised to an integer power.
type term struct {
	symbol string
	power  int
}

// product is a parsed expression: a numeric scale times an ordered list of terms.
// Terms keep first-appearance order so formatted output follows the input.
type product struct {
	scale float64
	terms []term
}

func one() product { return product{scale: 1} }

func (p product) times(q product, sign int) product {
	out := product{scale: p.scale, terms: append([]term(nil), p.terms...)}
	if sign > 0 {
		out.scale *= q.scale
	} else {
		out.scale /= q.scale
	}
	for _, t := range q.terms {
		out.add(t.symbol, sign*t.power)
	}
	return out
}

func (p *product) add(symbol string, power int) {
	for i := range p.terms {
		if p.terms[i].symbol == symbol {
			p.terms[i].power += power
			if p.terms[i].power == 0 {
				p.terms = append(p.terms[:i], p.terms[i+1:]...)
			}
			return
		}
	}
	if power != 0 {
		p.terms = append(p.terms, term{symbol: symbol, power: power})
	}
}

func (p product) pow(n int) product {
	if n == 0 {
		return one()
	}
	out := product{scale: math.Pow(p.scale, float64(n)), terms: make([]term, len(p.terms))}
	for i, t := range p.terms {
		out.terms[i] = term{symbol: t.symbol, power: t.power * n}
	}
	return out
}

// String formats the product canonically: kg/s, J/(kg*K), 1/s, m**3.
func (p product) String() string {
	var num, den []string
	for _, t := range p.terms {
		switch {
		case t.power == 1:
			num = append(num, t.symbol)
		case t.power > 1:
			num = append(num, fmt.Sprintf("%s**%d", t.symbol, t.power))
		case t.power == -1:
			den = append(den, t.symbol)
		default:
			den = append(den, fmt.Sprintf("%s**%d", t.symbol, -t.power))
		}
	}
	head := strings.Join(num, "*")
	if p.scale != 1 {
		s := strconv.FormatFloat(p.scale, 'f', -1, 64)
		if head == "" {
			head = s
		} else {
			head = s + "*" + head
		}
	}
	switch len(den) {
	case 0:
		if head == "" {
			return Dimensionless
		}
		return head
	case 1:
		if head == "" {
			head = "1"
		}
		return head + "/" + den[0]
	default:
		if head == "" {
			head = "1"
		}
		return head + "/(" + strings.Join(den, "*") + ")"
	}
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokMul
	tokDiv
	tokPow
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var superscripts = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9', '⁻': '-',
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '°' || r == '%' || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || r == '°' || r == '_'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func lex(expr string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(expr) {
		r, w := utf8.DecodeRuneInString(expr[i:])
		start := i
		switch {
		case unicode.IsSpace(r):
			i += w
		case r == '*':
			if strings.HasPrefix(expr[i:], "**") {
				toks = append(toks, token{kind: tokPow, text: "**", pos: start})
				i += 2
			} else {
				toks = append(toks, token{kind: tokMul, text: "*", pos: start})
				i += w
			}
		case r == '·' || r == '⋅' || r == '×':
			toks = append(toks, token{kind: tokMul, text: string(r), pos: start})
			i += w
		case r == '/':
			toks = append(toks, token{kind: tokDiv, text: "/", pos: start})
			i += w
		case r == '^':
			toks = append(toks, token{kind: tokPow, text: "^", pos: start})
			i += w
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: start})
			i += w
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: start})
			i += w
		case isDigit(r) || r == '.' || ((r == '-' || r == '+') && len(toks) > 0 && toks[len(toks)-1].kind == tokPow):
			i += w
			for i < len(expr) {
				c, cw := utf8.DecodeRuneInString(expr[i:])
				if !isDigit(c) && c != '.' {
					break
				}
				i += cw
			}
			toks = append(toks, token{kind: tokNumber, text: expr[start:i], pos: start})
		case superscripts[r] != 0:
			var b strings.Builder
			for i < len(expr) {
				c, cw := utf8.DecodeRuneInString(expr[i:])
				d, ok := superscripts[c]
				if !ok {
					break
				}
				b.WriteRune(d)
				i += cw
			}
			toks = append(toks,
				token{kind: tokPow, text: "^", pos: start},
				token{kind: tokNumber, text: b.String(), pos: start})
		case isIdentStart(r):
			i += w
			if r != '%' {
				for i < len(expr) {
					c, cw := utf8.DecodeRuneInString(expr[i:])
					if !isIdentPart(c) {
						break
					}
					i += cw
				}
			}
			toks = append(toks, token{kind: tokIdent, text: expr[start:i], pos: start})
			// m2 reads as m**2
			if i < len(expr) && isDigit(rune(expr[i])) {
				ds := i
				for i < len(expr) && isDigit(rune(expr[i])) {
					i++
				}
				toks = append(toks,
					token{kind: tokPow, text: "^", pos: ds},
					token{kind: tokNumber, text: expr[ds:i], pos: ds})
			}
		default:
			return nil, &SyntaxError{Expr: expr, Pos: start, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(expr)}), nil
}

type parser struct {
	expr string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) fail(t token, format string, args ...any) error {
	return &SyntaxError{Expr: p.expr, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

// expr := term ((('*' | '/')? term)*)
func (p *parser) parseExpr() (product, error) {
	left, err := p.parseTerm()
	if err != nil {
		return product{}, err
	}
	for {
		sign := 1
		switch p.peek().kind {
		case tokMul:
			p.next()
		case tokDiv:
			p.next()
			sign = -1
		case tokIdent, tokNumber, tokLParen:
			// juxtaposition multiplies: "kg m"
		default:
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return product{}, err
		}
		left = left.times(right, sign)
	}
}

// term := factor (('**' | '^') integer)?
func (p *parser) parseTerm() (product, error) {
	base, err := p.parseFactor()
	if err != nil {
		return product{}, err
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	p.next()
	t := p.next()
	if t.kind != tokNumber {
		return product{}, p.fail(t, "expected exponent")
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return product{}, p.fail(t, "exponent %q is not an integer", t.text)
	}
	return base.pow(n), nil
}

// factor := symbol | number | '(' expr ')'
func (p *parser) parseFactor() (product, error) {
	t := p.next()
	switch t.kind {
	case tokIdent:
		return product{scale: 1, terms: []term{{symbol: t.text, power: 1}}}, nil
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil || v <= 0 {
			return product{}, p.fail(t, "invalid factor %q", t.text)
		}
		return product{scale: v}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return product{}, err
		}
		if r := p.next(); r.kind != tokRParen {
			return product{}, p.fail(r, "expected ')'")
		}
		return inner, nil
	case tokEOF:
		return product{}, p.fail(t, "unexpected end of expression")
	default:
		return product{}, p.fail(t, "unexpected %q", t.text)
	}
}

// dimensionlessTokens parse to the empty product without lexing.
var dimensionlessTokens = map[string]bool{
	"":            true,
	"-":           true,
	"0-1":         true,
	"1":           true,
	Dimensionless: true,
}

func parse(expr string) (product, error) {
	trimmed := strings.TrimSpace(expr)
	if dimensionlessTokens[trimmed] {
		return one(), nil
	}
	toks, err := lex(trimmed)
	if err != nil {
		return product{}, err
	}
	p := &parser{expr: trimmed, toks: toks}
	out, err := p.parseExpr()
	if err != nil {
		return product{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return product{}, p.fail(t, "unexpected %q", t.text)
	}
	return out, nil
}
