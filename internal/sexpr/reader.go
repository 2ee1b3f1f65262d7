// Package sexpr implements the s-expression reader: the front door that
// turns Clojure-dialect source text into the internal/form.Form universe the
// analyzer walks (spec §1, §3). The byte-scanning style here — a hand-rolled
// state machine tracking string/char boundaries, nesting depth, and line
// numbers rune by rune — is grounded directly on rugo/preprocess.go's
// StripComments, generalized from "strip comments, bail on unterminated
// strings" to "build a Form tree, bail on any malformed production." Raw
// rune iteration is delegated to a thin modernc.org/scanner wrapper
// (lex.go) instead of range-over-string, so position tracking lives in one
// place.
package sexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/internal/errs"
)

// Reader consumes source text and produces a sequence of top-level Forms.
type Reader struct {
	rs   *runeSource
	file string
	line int
}

// New returns a Reader over src, tagging any reported errors with file.
func New(src []byte, file string) *Reader {
	return &Reader{rs: newRuneSource(src), file: file, line: 1}
}

// ReadAll reads every top-level form in the source, in order.
func (r *Reader) ReadAll() ([]form.Form, error) {
	var out []form.Form
	for {
		f, ok, err := r.readTopLevel()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, f)
	}
}

func (r *Reader) pos() errs.Pos { return errs.Pos{File: r.file, Line: r.line} }

func (r *Reader) errf(format string, args ...any) error {
	return &errs.ReadError{Pos: r.pos(), Msg: fmt.Sprintf(format, args...)}
}

func (r *Reader) next() (rune, bool) {
	ch, ok := r.rs.Next()
	if ok && ch == '\n' {
		r.line++
	}
	return ch, ok
}

func (r *Reader) peek() (rune, bool) { return r.rs.Peek() }

// skipIgnorable consumes whitespace, commas (Clojure treats commas as
// whitespace), and ;-line-comments.
func (r *Reader) skipIgnorable() {
	for {
		ch, ok := r.peek()
		if !ok {
			return
		}
		switch {
		case ch == ';':
			for {
				ch, ok := r.next()
				if !ok || ch == '\n' {
					break
				}
			}
		case ch == ',' || ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			r.next()
		default:
			return
		}
	}
}

// readTopLevel reads one form, skipping leading whitespace/comments. Returns
// ok=false at end of input.
func (r *Reader) readTopLevel() (form.Form, bool, error) {
	r.skipIgnorable()
	if _, ok := r.peek(); !ok {
		return nil, false, nil
	}
	f, err := r.readForm()
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

func isDelimiter(ch rune) bool {
	switch ch {
	case '(', ')', '[', ']', '{', '}', '"', ';', '\'', '`', '~', '^', '@':
		return true
	}
	return false
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == ','
}

// readForm dispatches on the next rune to the right production. Called only
// when skipIgnorable has already run, i.e. the next rune is significant.
func (r *Reader) readForm() (form.Form, error) {
	ch, ok := r.peek()
	if !ok {
		return nil, r.errf("unexpected end of input")
	}

	switch ch {
	case '(':
		return r.readSeq('(', ')', func(items []form.Form) form.Form { return &form.List{Items: items} })
	case '[':
		return r.readSeq('[', ']', func(items []form.Form) form.Form { return &form.Vector{Items: items} })
	case '{':
		return r.readMap()
	case ')', ']', '}':
		return nil, r.errf("unexpected %q with no matching opener", ch)
	case '"':
		return r.readString()
	case ':':
		return r.readKeyword()
	case '\\':
		return r.readChar()
	case '\'':
		r.next()
		return r.wrapReaderMacro("quote")
	case '`':
		r.next()
		return r.wrapReaderMacro("syntax-quote")
	case '~':
		r.next()
		if next, ok := r.peek(); ok && next == '@' {
			r.next()
			return r.wrapReaderMacro("unquote-splicing")
		}
		return r.wrapReaderMacro("unquote")
	case '@':
		r.next()
		return r.wrapReaderMacro("deref")
	case '^':
		return r.readMetaPrefixed()
	case '#':
		return r.readDispatch()
	default:
		return r.readAtom()
	}
}

// wrapReaderMacro reads the next form and wraps it as (sym form), the
// desugared representation 'x, `x and ~x expand to in the analyzer.
func (r *Reader) wrapReaderMacro(sym string) (form.Form, error) {
	r.skipIgnorable()
	inner, err := r.readForm()
	if err != nil {
		return nil, err
	}
	return &form.List{Items: []form.Form{&form.Symbol{Name: sym}, inner}}, nil
}

// readMetaPrefixed reads ^meta form, attaching meta to form if form supports
// it (spec §3's metadata carriers: Symbol and the four collection kinds).
func (r *Reader) readMetaPrefixed() (form.Form, error) {
	r.next() // consume '^'
	r.skipIgnorable()
	metaForm, err := r.readForm()
	if err != nil {
		return nil, err
	}
	r.skipIgnorable()
	target, err := r.readForm()
	if err != nil {
		return nil, err
	}
	meta := metaFromForm(metaForm)
	attachMeta(target, meta)
	return target, nil
}

// metaFromForm normalizes the shorthand `^Keyword` / `^"tag"` forms to a
// {:key true}/{:tag "tag"} map, and passes an explicit map form through.
func metaFromForm(f form.Form) *form.Meta {
	switch v := f.(type) {
	case *form.Map:
		return form.NewMeta(v.Pairs...)
	case *form.Keyword:
		return form.NewMeta(form.Pair{Key: v, Value: form.Bool(true)})
	case form.String:
		return form.NewMeta(form.Pair{Key: form.InternKeyword("", "tag"), Value: v})
	case *form.Symbol:
		return form.NewMeta(form.Pair{Key: form.InternKeyword("", "tag"), Value: v})
	default:
		return form.NewMeta()
	}
}

func attachMeta(f form.Form, meta *form.Meta) {
	switch v := f.(type) {
	case *form.Symbol:
		v.Meta = meta
	case *form.List:
		v.Meta = meta
	case *form.Vector:
		v.Meta = meta
	case *form.Map:
		v.Meta = meta
	case *form.Set:
		v.Meta = meta
	}
}

// readDispatch handles the #-prefixed productions: #{...} sets, #_ discard,
// and #' var-quote. Anything else is an unsupported dispatch macro.
func (r *Reader) readDispatch() (form.Form, error) {
	r.next() // consume '#'
	ch, ok := r.peek()
	if !ok {
		return nil, r.errf("unexpected end of input after #")
	}
	switch ch {
	case '{':
		return r.readSeq('{', '}', func(items []form.Form) form.Form { return &form.Set{Items: items} })
	case '_':
		r.next()
		r.skipIgnorable()
		if _, err := r.readForm(); err != nil { // discard
			return nil, err
		}
		r.skipIgnorable()
		if _, ok := r.peek(); !ok {
			return nil, r.errf("#_ discard with nothing following")
		}
		return r.readForm()
	case '\'':
		r.next()
		return r.wrapReaderMacro("var-quote")
	default:
		return nil, r.errf("unsupported dispatch macro #%c", ch)
	}
}

// readSeq reads a delimited, comma/whitespace-separated sequence of forms
// between open and close, mirroring StripComments' nesting-depth tracking
// but building a Form slice instead of a byte buffer.
func (r *Reader) readSeq(open, close rune, build func([]form.Form) form.Form) (form.Form, error) {
	startLine := r.line
	r.next() // consume opener
	var items []form.Form
	for {
		r.skipIgnorable()
		ch, ok := r.peek()
		if !ok {
			return nil, r.errf("unexpected end of input: %q opened at line %d never closed", open, startLine)
		}
		if ch == close {
			r.next()
			return build(items), nil
		}
		f, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
}

// readMap is readSeq's { } variant with the extra even-element-count check
// maps require.
func (r *Reader) readMap() (form.Form, error) {
	startLine := r.line
	r.next() // consume '{'
	var items []form.Form
	for {
		r.skipIgnorable()
		ch, ok := r.peek()
		if !ok {
			return nil, r.errf("unexpected end of input: %q opened at line %d never closed", '{', startLine)
		}
		if ch == '}' {
			r.next()
			break
		}
		f, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if len(items)%2 != 0 {
		return nil, r.errf("map literal must have an even number of forms, got %d", len(items))
	}
	pairs := make([]form.Pair, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		pairs = append(pairs, form.Pair{Key: items[i], Value: items[i+1]})
	}
	return &form.Map{Pairs: pairs}, nil
}

// readString reads a "..." literal, honoring \n \t \r \\ \" \uXXXX escapes.
func (r *Reader) readString() (form.Form, error) {
	startLine := r.line
	r.next() // consume opening quote
	var sb strings.Builder
	for {
		ch, ok := r.next()
		if !ok {
			return nil, r.errf("unterminated string literal (opened at line %d)", startLine)
		}
		if ch == '"' {
			return form.String(sb.String()), nil
		}
		if ch != '\\' {
			sb.WriteRune(ch)
			continue
		}
		esc, ok := r.next()
		if !ok {
			return nil, r.errf("unterminated string literal (opened at line %d)", startLine)
		}
		switch esc {
		case 'n':
			sb.WriteRune('\n')
		case 't':
			sb.WriteRune('\t')
		case 'r':
			sb.WriteRune('\r')
		case '\\':
			sb.WriteRune('\\')
		case '"':
			sb.WriteRune('"')
		case '0':
			sb.WriteRune(0)
		case 'u':
			var hex strings.Builder
			for i := 0; i < 4; i++ {
				h, ok := r.next()
				if !ok {
					return nil, r.errf("unterminated string literal (opened at line %d)", startLine)
				}
				hex.WriteRune(h)
			}
			cp, err := strconv.ParseUint(hex.String(), 16, 32)
			if err != nil {
				return nil, r.errf("malformed unicode escape \\u%s", hex.String())
			}
			sb.WriteRune(rune(cp))
		default:
			sb.WriteRune(esc)
		}
	}
}

var namedChars = map[string]rune{
	"newline":   '\n',
	"space":     ' ',
	"tab":       '\t',
	"return":    '\r',
	"backspace": '\b',
	"formfeed":  '\f',
}

// readChar reads a \x, \newline, \space, ... character literal.
func (r *Reader) readChar() (form.Form, error) {
	r.next() // consume backslash
	first, ok := r.next()
	if !ok {
		return nil, r.errf("unterminated character literal")
	}
	if !isLetter(first) {
		return form.Char(first), nil
	}
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		ch, ok := r.peek()
		if !ok || isSpace(ch) || isDelimiter(ch) {
			break
		}
		r.next()
		sb.WriteRune(ch)
	}
	name := sb.String()
	if len([]rune(name)) == 1 {
		return form.Char([]rune(name)[0]), nil
	}
	if rn, ok := namedChars[name]; ok {
		return form.Char(rn), nil
	}
	return nil, r.errf("unknown character literal \\%s", name)
}

// readKeyword reads :name or :ns/name.
func (r *Reader) readKeyword() (form.Form, error) {
	r.next() // consume ':'
	tok, err := r.readToken()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, r.errf("empty keyword")
	}
	ns, name := splitNamespaced(tok)
	return form.InternKeyword(ns, name), nil
}

// readToken reads a contiguous run of non-whitespace, non-delimiter runes.
func (r *Reader) readToken() (string, error) {
	var sb strings.Builder
	for {
		ch, ok := r.peek()
		if !ok || isSpace(ch) || isDelimiter(ch) {
			break
		}
		r.next()
		sb.WriteRune(ch)
	}
	return sb.String(), nil
}

func splitNamespaced(tok string) (ns, name string) {
	if i := strings.IndexByte(tok, '/'); i > 0 && i < len(tok)-1 {
		return tok[:i], tok[i+1:]
	}
	return "", tok
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

// readAtom reads a symbol or a numeric literal: nil, true, false, integers,
// floats, decimals (trailing M), and namespaced/qualified symbols.
func (r *Reader) readAtom() (form.Form, error) {
	first, _ := r.peek()
	tok, err := r.readToken()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, r.errf("unexpected character %q", first)
	}
	switch tok {
	case "nil":
		return form.NilForm, nil
	case "true":
		return form.Bool(true), nil
	case "false":
		return form.Bool(false), nil
	}
	if isDigit(first) || (first == '-' && len(tok) > 1 && isDigit(rune(tok[1]))) {
		return parseNumber(tok, r.pos())
	}
	ns, name := splitNamespaced(tok)
	return &form.Symbol{NS: ns, Name: name}, nil
}

// parseNumber classifies and parses an integer, float, or decimal literal.
// Decimals (trailing M, e.g. 1.10M) keep their exact source text per
// form.Decimal's doc comment rather than round-tripping through float64.
func parseNumber(tok string, pos errs.Pos) (form.Form, error) {
	if strings.HasSuffix(tok, "M") {
		body := strings.TrimSuffix(tok, "M")
		if _, err := strconv.ParseFloat(body, 64); err != nil {
			return nil, &errs.ReadError{Pos: pos, Msg: fmt.Sprintf("malformed decimal literal %q", tok)}
		}
		return form.Decimal(body), nil
	}
	if strings.ContainsAny(tok, ".eE") && !strings.HasPrefix(tok, "0x") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &errs.ReadError{Pos: pos, Msg: fmt.Sprintf("malformed number literal %q", tok)}
		}
		return form.Float(f), nil
	}
	n, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return nil, &errs.ReadError{Pos: pos, Msg: fmt.Sprintf("malformed number literal %q", tok)}
	}
	return form.Int(n), nil
}
