// Package parser implements the parser/lowerer (C4): it drives the lexer
// over one chunk of source text and lowers it directly to IR, following the
// teacher's own single-pass recursive-descent parser shape
// (internal/parser/parser.go: cur/peek/expect over a pre-scanned token
// slice) rather than a separate parse-tree stage, since this language's
// surface grammar is simple enough to lower straight to IR in one pass.
package parser

import (
	"strconv"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/interp"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/lexer"
	"github.com/duskrun/dust/internal/token"
	"github.com/duskrun/dust/internal/value"
)

// Parser holds one chunk's pre-scanned token stream plus the ParseSession
// it lowers into. offset shifts every local (chunk-relative) token position
// into the accumulated source buffer's coordinate space (§9 "source spans
// that cross REPL inputs").
type Parser struct {
	ps     *interp.ParseSession
	toks   []token.Token
	idx    int
	offset int

	// curClassTypeID is non-nil while lowering a class's property
	// initializers or method bodies, giving every Expression built in that
	// window a private-access capability equal to the enclosing class
	// (§4.6, §9 "private-access capability").
	curClassTypeID *value.TypeID
}

// Parse lowers one chunk of source into top-level instructions, registering
// any function/class declarations it encounters into ps as a side effect
// (§2 "C4 ... registers any new functions/classes into C5").
func Parse(ps *interp.ParseSession, source string) ([]ir.Instruction, *errors.Error) {
	ps.AppendSource(source)
	p := &Parser{ps: ps, offset: ps.Offset}

	lx := lexer.New(source)
	for {
		t := lx.NextToken()
		p.toks = append(p.toks, t)
		if t.Kind == token.EOF {
			break
		}
	}

	var instrs []ir.Instruction
	for {
		p.skipTerminators()
		if p.cur().Kind == token.EOF {
			break
		}
		switch p.cur().Kind {
		case token.FN:
			if err := p.parseTopLevelFunction(); err != nil {
				return instrs, err
			}
		case token.CLASS:
			if err := p.parseClassDecl(); err != nil {
				return instrs, err
			}
		default:
			instr, err := p.parseStatement()
			if err != nil {
				return instrs, err
			}
			instrs = append(instrs, instr)
		}
	}
	return instrs, nil
}

func (p *Parser) cur() token.Token { return p.toks[p.idx] }

func (p *Parser) peek() token.Token {
	if p.idx+1 < len(p.toks) {
		return p.toks[p.idx+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) next() token.Token {
	t := p.toks[p.idx]
	if p.idx+1 < len(p.toks) {
		p.idx++
	}
	return t
}

func (p *Parser) isTerminator(k token.Kind) bool {
	return k == token.NEWLINE || k == token.SEMI
}

func (p *Parser) skipTerminators() {
	for p.isTerminator(p.cur().Kind) {
		p.next()
	}
}

// abs shifts a chunk-local byte offset into the accumulated buffer's
// coordinate space.
func (p *Parser) abs(localPos int) int { return localPos + p.offset }

// tokCtx builds a minimal single-token Context, used for parse errors that
// aren't anchored to a larger already-built Expression/Instruction span.
func (p *Parser) tokCtx(t token.Token) errors.Context {
	return errors.Context{Start: p.abs(t.Start), End: p.abs(t.End)}
}

func (p *Parser) tokErr(t token.Token, kind errors.Kind) *errors.Error {
	return errors.New(p.tokCtx(t), 0, kind)
}

// expect consumes the current token if it matches kind, else returns a
// SyntaxError anchored at it.
func (p *Parser) expect(kind token.Kind) (token.Token, *errors.Error) {
	if p.cur().Kind != kind {
		return token.Token{}, p.tokErr(p.cur(), errors.SyntaxError)
	}
	return p.next(), nil
}

// validateIdentifier consumes and validates a name being declared (let
// binding, parameter, function, class, property, for-alias): it must be a
// plain identifier, neither a reserved keyword nor a known type-name
// (§4.2 "Identifier validation").
func (p *Parser) validateIdentifier() (token.Token, *errors.Error) {
	tok := p.cur()
	if tok.Kind != token.IDENT {
		return tok, p.tokErr(tok, errors.IdentifierIsKeyword)
	}
	if _, isType := p.ps.TypeNames[tok.Literal]; isType {
		return tok, p.tokErr(tok, errors.IdentifierIsTypename)
	}
	p.next()
	return tok, nil
}

// parseType reads a type annotation token (after the caller has already
// consumed the leading ':'): `dyn` or a known type-name.
func (p *Parser) parseType() (value.TypeID, bool, *errors.Error) {
	tok := p.cur()
	if tok.Kind == token.DYN {
		p.next()
		return value.TypeDyn, true, nil
	}
	if tok.Kind != token.IDENT {
		return 0, false, p.tokErr(tok, errors.SyntaxError)
	}
	typeid, ok := p.ps.TypeNames[tok.Literal]
	if !ok {
		return 0, false, errors.With1(p.tokCtx(tok), 0, errors.UnknownType, tok.Literal)
	}
	p.next()
	return typeid, false, nil
}

// parseAnnotatedParam reads `name: T`, failing with MissingAnnotation if the
// ':' is absent (every fn/ctor parameter requires one, per §4.2).
func (p *Parser) parseAnnotatedParam() (value.AnnotatedIdentifier, *errors.Error) {
	nameTok, err := p.validateIdentifier()
	if err != nil {
		return value.AnnotatedIdentifier{}, err
	}
	if p.cur().Kind != token.COLON {
		return value.AnnotatedIdentifier{}, p.tokErr(p.cur(), errors.MissingAnnotation)
	}
	p.next()
	typeid, _, terr := p.parseType()
	if terr != nil {
		return value.AnnotatedIdentifier{}, terr
	}
	return value.AnnotatedIdentifier{Name: nameTok.Literal, TypeID: typeid}, nil
}

// parseIntLiteral/parseFloatLiteral convert already-validated lexer output;
// the lexer only emits INT/FLOAT tokens for text strconv can parse.
func parseIntLiteral(lit string) value.Int {
	n, _ := strconv.ParseInt(lit, 10, 64)
	return value.Int(n)
}

func parseFloatLiteral(lit string) value.Float {
	f, _ := strconv.ParseFloat(lit, 64)
	return value.Float(f)
}
