package parser

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/token"
	"github.com/duskrun/dust/internal/value"
)

// binOpFor maps an infix-position token to its Operator, per §4.1's table.
func binOpFor(k token.Kind) (ir.Operator, bool) {
	switch k {
	case token.PLUS:
		return ir.OpAdd, true
	case token.MINUS:
		return ir.OpSub, true
	case token.STAR:
		return ir.OpMul, true
	case token.SLASH:
		return ir.OpDiv, true
	case token.PERCENT:
		return ir.OpMod, true
	case token.CARET:
		return ir.OpPow, true
	case token.LT:
		return ir.OpLt, true
	case token.GT:
		return ir.OpGt, true
	case token.EQ:
		return ir.OpEq, true
	case token.NEQ:
		return ir.OpNeq, true
	case token.AND:
		return ir.OpAnd, true
	case token.OR:
		return ir.OpOr, true
	case token.DOT:
		return ir.OpDot, true
	}
	return 0, false
}

// shouldPop decides whether the shunting-yard operator stack's top entry
// pops to the output queue before op is pushed (§4.1, §4.2, §9 "shunting
// yard with unary operators"): ordinary operators pop on strictly-higher or
// equal-and-left-associative precedence, but a unary operator never
// displaces another unary already on the stack — this keeps a run of
// prefix unaries (`not not x`, `- - x`) in encounter order so the nearest
// one to the operand applies first.
func shouldPop(top, op ir.Operator) bool {
	if op.IsUnary() && top.IsUnary() {
		return false
	}
	if top.Precedence() > op.Precedence() {
		return true
	}
	return top.Precedence() == op.Precedence() && op.LeftAssociative()
}

// parseExpression lowers one expression via shunting-yard into postfix IR
// tokens (§4.2). Every token's Pos is tracked as an absolute buffer offset
// during construction and converted to Expression-relative only once, at
// the end, so that splicing a parenthesized sub-expression's already
// lowered tokens back in (re-absolutized first) stays correct regardless
// of nesting depth.
func (p *Parser) parseExpression() (ir.Expression, *errors.Error) {
	startTok := p.cur()
	spanStart := p.abs(startTok.Start)
	lastEnd := spanStart

	var output []ir.ExprToken
	var opStack []ir.Operator
	expectOperand := true

	for {
		tok := p.cur()

		if expectOperand {
			switch tok.Kind {
			case token.LPAREN:
				p.next()
				inner, err := p.parseExpression()
				if err != nil {
					return ir.Expression{}, err
				}
				if _, err := p.expect(token.RPAREN); err != nil {
					return ir.Expression{}, err
				}
				lastEnd = p.abs(p.toks[p.idx-1].End)
				for _, it := range inner.Tokens {
					it.Pos += inner.Span.Start
					output = append(output, it)
				}
				expectOperand = false
				continue

			case token.MINUS, token.NOT, token.TYPEOF:
				var uop ir.Operator
				switch tok.Kind {
				case token.MINUS:
					uop = ir.OpNeg
				case token.NOT:
					uop = ir.OpNot
				case token.TYPEOF:
					uop = ir.OpTypeof
				}
				p.next()
				for len(opStack) > 0 && shouldPop(opStack[len(opStack)-1], uop) {
					top := opStack[len(opStack)-1]
					opStack = opStack[:len(opStack)-1]
					output = append(output, ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokOperator, Op: top})
				}
				opStack = append(opStack, uop)
				lastEnd = p.abs(tok.End)
				continue

			default:
				if !isPrimaryStart(tok.Kind) {
					return ir.Expression{}, p.tokErr(tok, errors.SyntaxError)
				}
				primTok, err := p.parsePrimary()
				if err != nil {
					return ir.Expression{}, err
				}
				output = append(output, primTok)
				lastEnd = p.abs(p.toks[p.idx-1].End)
				expectOperand = false
			}
			continue
		}

		op, isOp := binOpFor(tok.Kind)
		if !isOp {
			break
		}
		opTok := tok
		p.next()
		for len(opStack) > 0 && shouldPop(opStack[len(opStack)-1], op) {
			top := opStack[len(opStack)-1]
			opStack = opStack[:len(opStack)-1]
			output = append(output, ir.ExprToken{Pos: p.abs(opTok.Start), Kind: ir.TokOperator, Op: top})
		}
		opStack = append(opStack, op)
		lastEnd = p.abs(opTok.End)
		expectOperand = true
	}

	if expectOperand {
		return ir.Expression{}, p.tokErr(p.cur(), errors.SyntaxError)
	}

	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		output = append(output, ir.ExprToken{Pos: lastEnd, Kind: ir.TokOperator, Op: top})
	}

	for i := range output {
		output[i].Pos -= spanStart
		if output[i].Kind == ir.TokCall {
			output[i].Call.Pos -= spanStart
			if output[i].Call.Assoc != nil {
				output[i].Call.Assoc.ScopeOpPos -= spanStart
			}
		}
	}

	expr := ir.Expression{
		Tokens: output,
		Span:   errors.Context{Start: spanStart, End: lastEnd},
	}
	if p.curClassTypeID != nil {
		t := *p.curClassTypeID
		expr.PrivateAccessType = &t
	}
	return expr, nil
}

func isPrimaryStart(k token.Kind) bool {
	switch k {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NONE, token.SELF, token.IDENT:
		return true
	}
	return false
}

func (p *Parser) parsePrimary() (ir.ExprToken, *errors.Error) {
	tok := p.cur()
	switch tok.Kind {
	case token.INT:
		p.next()
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokImmediate, Immediate: parseIntLiteral(tok.Literal)}, nil
	case token.FLOAT:
		p.next()
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokImmediate, Immediate: parseFloatLiteral(tok.Literal)}, nil
	case token.STRING:
		p.next()
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokImmediate, Immediate: value.NewStr(tok.Literal)}, nil
	case token.TRUE:
		p.next()
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokImmediate, Immediate: value.Bool(true)}, nil
	case token.FALSE:
		p.next()
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokImmediate, Immediate: value.Bool(false)}, nil
	case token.NONE:
		p.next()
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokImmediate, Immediate: value.None{}}, nil
	case token.SELF:
		p.next()
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokIdent, Ident: "self"}, nil
	case token.IDENT:
		return p.parseIdentOrCall(tok)
	}
	return ir.ExprToken{}, p.tokErr(tok, errors.SyntaxError)
}

// parseIdentOrCall disambiguates, from a single IDENT lookahead, a bare
// identifier, an unscoped call `name(args)`, or a scoped call
// `TypeName::name(args)` (§4.2 "Function-call lowering").
func (p *Parser) parseIdentOrCall(tok token.Token) (ir.ExprToken, *errors.Error) {
	p.next()

	if p.cur().Kind == token.SCOPE {
		scopeTok := p.next()
		typeid, ok := p.ps.TypeNames[tok.Literal]
		if !ok && tok.Literal == "Self" && p.curClassTypeID != nil {
			typeid, ok = *p.curClassTypeID, true
		}
		if !ok {
			return ir.ExprToken{}, errors.With1(p.tokCtx(tok), 0, errors.UnknownType, tok.Literal)
		}
		nameTok, err := p.expectCallName()
		if err != nil {
			return ir.ExprToken{}, err
		}
		if p.cur().Kind != token.LPAREN {
			return ir.ExprToken{}, p.tokErr(p.cur(), errors.SyntaxError)
		}
		args, endPos, err := p.parseCallArgs()
		if err != nil {
			return ir.ExprToken{}, err
		}
		call := &ir.Call{
			Name: nameTok.Literal,
			Args: args,
			Assoc: &ir.AssocType{
				TypeID:     typeid,
				ScopeOpPos: p.abs(scopeTok.Start),
			},
			Pos: p.abs(tok.Start),
		}
		_ = endPos
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokCall, Call: call}, nil
	}

	if p.cur().Kind == token.LPAREN {
		args, _, err := p.parseCallArgs()
		if err != nil {
			return ir.ExprToken{}, err
		}
		call := &ir.Call{Name: tok.Literal, Args: args, Pos: p.abs(tok.Start)}
		return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokCall, Call: call}, nil
	}

	return ir.ExprToken{Pos: p.abs(tok.Start), Kind: ir.TokIdent, Ident: tok.Literal}, nil
}

// expectCallName accepts an ordinary identifier or the literal keyword
// `new` — the one place a reserved keyword names a callee, since every
// class's synthetic constructor is invoked as `Type::new(...)`.
func (p *Parser) expectCallName() (token.Token, *errors.Error) {
	tok := p.cur()
	if tok.Kind != token.IDENT && tok.Kind != token.NEW {
		return tok, p.tokErr(tok, errors.SyntaxError)
	}
	p.next()
	return tok, nil
}

// parseCallArgs consumes `(args...)`, returning the lowered argument
// expressions and the absolute position just past the closing paren.
func (p *Parser) parseCallArgs() ([]ir.Expression, int, *errors.Error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, 0, err
	}
	var args []ir.Expression
	if p.cur().Kind != token.RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, 0, err
			}
			args = append(args, arg)
			if p.cur().Kind == token.COMMA {
				p.next()
				continue
			}
			break
		}
	}
	closeTok, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, 0, err
	}
	return args, p.abs(closeTok.End), nil
}
