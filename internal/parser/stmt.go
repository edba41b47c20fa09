package parser

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/token"
	"github.com/duskrun/dust/internal/value"
)

// parseBlock consumes `{ stmt* }`, skipping blank/terminator lines between
// statements (§4.2, §5 "within a block, statements run top to bottom").
func (p *Parser) parseBlock() ([]ir.Instruction, *errors.Error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var instrs []ir.Instruction
	for {
		p.skipTerminators()
		if p.cur().Kind == token.RBRACE {
			break
		}
		if p.cur().Kind == token.EOF {
			return nil, p.tokErr(p.cur(), errors.SyntaxError)
		}
		instr, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}
	p.next() // consume '}'
	return instrs, nil
}

// parseStatement dispatches on the current token to one of the statement
// productions (§4.2).
func (p *Parser) parseStatement() (ir.Instruction, *errors.Error) {
	switch p.cur().Kind {
	case token.LET:
		return p.parseVariableInit()
	case token.IF:
		return p.parseBranch()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		return p.parseBreakStmt()
	default:
		return p.parseExprOrAssignStatement()
	}
}

// parseVariableInit lowers `let id[:T][, id[:T]…] = expr` (§4.1, §4.2).
func (p *Parser) parseVariableInit() (ir.Instruction, *errors.Error) {
	startTok := p.next() // consume 'let'

	var ids []value.OptAnnotatedIdentifier
	for {
		nameTok, err := p.validateIdentifier()
		if err != nil {
			return ir.Instruction{}, err
		}
		id := value.OptAnnotatedIdentifier{Name: nameTok.Literal}
		if p.cur().Kind == token.COLON {
			p.next()
			typeid, _, terr := p.parseType()
			if terr != nil {
				return ir.Instruction{}, terr
			}
			id.HasAnnotation = true
			id.TypeID = typeid
		}
		ids = append(ids, id)
		if p.cur().Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}

	assignTok, err := p.expect(token.ASSIGN)
	if err != nil {
		return ir.Instruction{}, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return ir.Instruction{}, err
	}

	return ir.Instruction{
		Kind: ir.IVariableInit,
		VarInit: &ir.VariableInit{
			Ids:       ids,
			AssignPos: p.abs(assignTok.Start),
			Expr:      expr,
		},
		Span: errors.Context{Start: p.abs(startTok.Start), End: expr.Span.End},
	}, nil
}

// parseExprOrAssignStatement parses a single expression and then inspects
// its shape to decide whether it's actually an assignment target (§4.2
// "Statement-shape detection"): a bare identifier or a `x.y` member chain
// immediately followed by '=' lowers to VariableAssign instead of a plain
// expression-statement, without a separate backtracking grammar.
func (p *Parser) parseExprOrAssignStatement() (ir.Instruction, *errors.Error) {
	expr, err := p.parseExpression()
	if err != nil {
		return ir.Instruction{}, err
	}

	if p.cur().Kind != token.ASSIGN {
		return ir.Instruction{
			Kind:     ir.IExpression,
			ExprStmt: &expr,
			Span:     expr.Span,
		}, nil
	}
	assignTok := p.next()

	n := len(expr.Tokens)
	var va ir.VariableAssign
	switch {
	case n == 1 && expr.Tokens[0].Kind == ir.TokIdent:
		va.ID = expr.Tokens[0].Ident

	case n >= 2 &&
		expr.Tokens[n-1].Kind == ir.TokOperator && expr.Tokens[n-1].Op == ir.OpDot &&
		expr.Tokens[n-2].Kind == ir.TokIdent:
		source := ir.Expression{
			Tokens:            expr.Tokens[:n-2],
			PrivateAccessType: expr.PrivateAccessType,
			Span:              expr.Span,
		}
		va.Source = &source
		va.ID = expr.Tokens[n-2].Ident

	default:
		return ir.Instruction{}, p.tokErr(assignTok, errors.SyntaxError)
	}

	rhs, err := p.parseExpression()
	if err != nil {
		return ir.Instruction{}, err
	}
	va.Expr = rhs
	va.Pos = p.abs(assignTok.Start)

	return ir.Instruction{
		Kind:      ir.IVariableAssign,
		VarAssign: &va,
		Span:      errors.Context{Start: expr.Span.Start, End: rhs.Span.End},
	}, nil
}

// parseBranch lowers `if cond {…} (else if cond {…})* (else {…})?` (§4.2).
func (p *Parser) parseBranch() (ir.Instruction, *errors.Error) {
	startTok := p.next() // consume 'if'

	cond, err := p.parseExpression()
	if err != nil {
		return ir.Instruction{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ir.Instruction{}, err
	}

	branch := &ir.BranchInstr{Cond: cond, Body: body}
	endPos := p.abs(p.toks[p.idx-1].End)

	for p.atElseIf() {
		p.next() // 'else'
		p.next() // 'if'
		eiCond, err := p.parseExpression()
		if err != nil {
			return ir.Instruction{}, err
		}
		eiBody, err := p.parseBlock()
		if err != nil {
			return ir.Instruction{}, err
		}
		branch.ElseIfs = append(branch.ElseIfs, ir.ElseIf{Cond: eiCond, Body: eiBody})
		endPos = p.abs(p.toks[p.idx-1].End)
	}

	if p.cur().Kind == token.ELSE {
		p.next()
		elseBody, err := p.parseBlock()
		if err != nil {
			return ir.Instruction{}, err
		}
		branch.ElseBody = elseBody
		endPos = p.abs(p.toks[p.idx-1].End)
	}

	return ir.Instruction{
		Kind:   ir.IBranch,
		Branch: branch,
		Span:   errors.Context{Start: p.abs(startTok.Start), End: endPos},
	}, nil
}

// atElseIf reports whether the cursor sits at `else if`, without consuming
// anything (an `else` followed by `{` is a plain else clause instead).
func (p *Parser) atElseIf() bool {
	return p.cur().Kind == token.ELSE && p.peek().Kind == token.IF
}

// parseWhile lowers `while cond {…}` (§4.2).
func (p *Parser) parseWhile() (ir.Instruction, *errors.Error) {
	startTok := p.next() // consume 'while'
	cond, err := p.parseExpression()
	if err != nil {
		return ir.Instruction{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ir.Instruction{}, err
	}
	return ir.Instruction{
		Kind:  ir.IWhileLoop,
		While: &ir.WhileInstr{Cond: cond, Body: body},
		Span:  errors.Context{Start: p.abs(startTok.Start), End: p.abs(p.toks[p.idx-1].End)},
	}, nil
}

// parseFor lowers `for alias in operand {…}` (§4.2).
func (p *Parser) parseFor() (ir.Instruction, *errors.Error) {
	startTok := p.next() // consume 'for'
	aliasTok, err := p.validateIdentifier()
	if err != nil {
		return ir.Instruction{}, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return ir.Instruction{}, err
	}
	operand, err := p.parseExpression()
	if err != nil {
		return ir.Instruction{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ir.Instruction{}, err
	}
	return ir.Instruction{
		Kind: ir.IForLoop,
		For:  &ir.ForInstr{Alias: aliasTok.Literal, Operand: operand, Body: body},
		Span: errors.Context{Start: p.abs(startTok.Start), End: p.abs(p.toks[p.idx-1].End)},
	}, nil
}

// parseReturn lowers `return [expr]` (§4.2); a bare return is one whose next
// token starts a statement terminator rather than an expression.
func (p *Parser) parseReturn() (ir.Instruction, *errors.Error) {
	startTok := p.next() // consume 'return'
	if p.isTerminator(p.cur().Kind) || p.cur().Kind == token.RBRACE || p.cur().Kind == token.EOF {
		return ir.Instruction{
			Kind:   ir.IReturn,
			Return: &ir.ReturnInstr{Pos: p.abs(startTok.Start)},
			Span:   p.tokCtx(startTok),
		}, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return ir.Instruction{}, err
	}
	return ir.Instruction{
		Kind:   ir.IReturn,
		Return: &ir.ReturnInstr{Expr: &expr, Pos: p.abs(startTok.Start)},
		Span:   errors.Context{Start: p.abs(startTok.Start), End: expr.Span.End},
	}, nil
}

// parseBreakStmt lowers the bare `break` statement.
func (p *Parser) parseBreakStmt() (ir.Instruction, *errors.Error) {
	tok := p.next()
	return ir.Instruction{Kind: ir.IBreak, Span: p.tokCtx(tok)}, nil
}
