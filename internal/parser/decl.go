package parser

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/interp"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/token"
	"github.com/duskrun/dust/internal/value"
)

// parseTopLevelFunction lowers a free `fn` declaration and registers it into
// the ParseSession's function store (§4.2, §4.4).
func (p *Parser) parseTopLevelFunction() *errors.Error {
	def, err := p.parseFunctionDecl()
	if err != nil {
		return err
	}
	if _, exists := p.ps.FunctionStore[def.Name]; exists {
		return errors.With1(def.Span, 0, errors.FunctionAlreadyDefined, def.Name)
	}
	p.ps.FunctionStore[def.Name] = toInterpFunction(def)
	return nil
}

func toInterpFunction(def ir.FunctionDef) *interp.Function {
	return &interp.Function{
		Params:          def.Params,
		UsesSelf:        def.UsesSelf,
		ReturnAnnotated: def.ReturnAnnotated,
		ReturnIsDyn:     def.ReturnIsDyn,
		ReturnTypeID:    def.ReturnTypeID,
		IsPublic:        def.IsPublic,
		Body:            def.Body,
	}
}

// parseFunctionDecl lowers `fn name(params) [-> T] { body }`, shared by a
// free top-level function and a class method. A bare `self` as the first
// parameter (no type annotation) marks the function as a member; it is only
// legal while p.curClassTypeID is set (§4.2 "self parameter rules").
func (p *Parser) parseFunctionDecl() (ir.FunctionDef, *errors.Error) {
	startTok := p.next() // consume 'fn'
	nameTok, err := p.validateIdentifier()
	if err != nil {
		return ir.FunctionDef{}, err
	}

	if _, err := p.expect(token.LPAREN); err != nil {
		return ir.FunctionDef{}, err
	}

	var def ir.FunctionDef
	def.Name = nameTok.Literal

	if p.cur().Kind == token.SELF {
		if p.curClassTypeID == nil {
			return ir.FunctionDef{}, p.tokErr(p.cur(), errors.SelfOutsideMethod)
		}
		p.next()
		def.UsesSelf = true
		if p.cur().Kind == token.COMMA {
			p.next()
		}
	}

	if p.cur().Kind != token.RPAREN {
		for {
			param, perr := p.parseAnnotatedParam()
			if perr != nil {
				return ir.FunctionDef{}, perr
			}
			def.Params = append(def.Params, param)
			if p.cur().Kind == token.COMMA {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return ir.FunctionDef{}, err
	}

	if p.cur().Kind == token.ARROW {
		p.next()
		typeid, isDyn, terr := p.parseType()
		if terr != nil {
			return ir.FunctionDef{}, terr
		}
		def.ReturnAnnotated = true
		def.ReturnIsDyn = isDyn
		def.ReturnTypeID = typeid
	}

	// pub is a contextual marker, not a reserved keyword (absent from §4.2's
	// keyword list); parseClassDecl consumes it before `fn`, so it never
	// reaches this function.
	body, berr := p.parseBlock()
	if berr != nil {
		return ir.FunctionDef{}, berr
	}
	def.Body = body
	def.Span = errors.Context{Start: p.abs(startTok.Start), End: p.abs(p.toks[p.idx-1].End)}
	return def, nil
}

// parseClassDecl lowers `class Name [(ctor-params)] { members }` (§4.2, §4.6).
//
// The class's type-id is assigned and registered into TypeNames BEFORE its
// body is lowered, so a property or constructor-call expression inside the
// body that mentions the class's own name resolves to a real type-id instead
// of UnknownType — the only way a genuine self-reference can be told apart
// from a typo (§4.2 "Class declaration ordering").
func (p *Parser) parseClassDecl() *errors.Error {
	startTok := p.next() // consume 'class'
	nameTok, err := p.validateIdentifier()
	if err != nil {
		return err
	}

	typeid := p.ps.NextClassTypeID()
	p.ps.TypeNames[nameTok.Literal] = typeid
	p.curClassTypeID = &typeid
	defer func() { p.curClassTypeID = nil }()

	var ctorParams []value.AnnotatedIdentifier
	if p.cur().Kind == token.LPAREN {
		p.next()
		if p.cur().Kind != token.RPAREN {
			for {
				param, perr := p.parseAnnotatedParam()
				if perr != nil {
					return perr
				}
				ctorParams = append(ctorParams, param)
				if p.cur().Kind == token.COMMA {
					p.next()
					continue
				}
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return err
		}
	}

	cd := interp.NewClassDefinition(typeid, nameTok.Literal, ctorParams)

	if _, err := p.expect(token.LBRACE); err != nil {
		return err
	}
	for {
		p.skipTerminators()
		if p.cur().Kind == token.RBRACE {
			break
		}
		if p.cur().Kind == token.EOF {
			return p.tokErr(p.cur(), errors.SyntaxError)
		}

		isPublic := false
		if p.cur().Kind == token.IDENT && p.cur().Literal == "pub" {
			isPublic = true
			p.next()
		}

		switch p.cur().Kind {
		case token.FN:
			def, ferr := p.parseFunctionDecl()
			if ferr != nil {
				return ferr
			}
			if cd.HasMember(def.Name) {
				return errors.With1(def.Span, 0, errors.MemberAlreadyDefined, def.Name)
			}
			def.IsPublic = isPublic
			cd.AddMethod(def.Name, toInterpFunction(def), isPublic)

		default:
			prop, perr := p.parseClassProperty(isPublic, typeid)
			if perr != nil {
				return perr
			}
			if cd.HasMember(prop.Name) {
				return errors.With1(prop.Init.Span, 0, errors.MemberAlreadyDefined, prop.Name)
			}
			cd.Properties = append(cd.Properties, interp.PropertyDefinition{
				Name:     prop.Name,
				TypeID:   prop.TypeID,
				IsDyn:    prop.IsDyn,
				IsPublic: prop.IsPublic,
				Init:     prop.Init,
			})
		}
	}
	p.next() // consume '}'

	if !cd.AddMethod("new", &interp.Function{
		Params:   ctorParams,
		Native:   interp.ConstructorNative,
		IsPublic: true,
	}, true) {
		return errors.With1(p.tokCtx(startTok), 0, errors.MemberAlreadyDefined, "new")
	}

	p.ps.RegisterClass(cd)
	return nil
}

// parseClassProperty lowers `[pub] name[: T] = expr` (§4.2, §4.6). A
// property whose annotated type-id equals the enclosing class's own typeid,
// or whose initializer scope-calls `Self::new(...)`, is rejected as
// RecursiveType: an instance can never hold a same-typed property or build
// itself while constructing itself.
func (p *Parser) parseClassProperty(isPublic bool, ownTypeID value.TypeID) (ir.PropertyDef, *errors.Error) {
	nameTok, err := p.validateIdentifier()
	if err != nil {
		return ir.PropertyDef{}, err
	}

	var prop ir.PropertyDef
	prop.Name = nameTok.Literal
	prop.IsPublic = isPublic

	if p.cur().Kind == token.COLON {
		p.next()
		typeid, isDyn, terr := p.parseType()
		if terr != nil {
			return ir.PropertyDef{}, terr
		}
		if !isDyn && typeid == ownTypeID {
			return ir.PropertyDef{}, p.tokErr(p.cur(), errors.RecursiveType)
		}
		prop.TypeID = typeid
		prop.IsDyn = isDyn
	} else {
		prop.IsDyn = true
		prop.TypeID = value.TypeDyn
	}

	if _, err := p.expect(token.ASSIGN); err != nil {
		return ir.PropertyDef{}, err
	}
	expr, eerr := p.parseExpression()
	if eerr != nil {
		return ir.PropertyDef{}, eerr
	}
	if exprReferencesOwnConstructor(&expr, ownTypeID) {
		return ir.PropertyDef{}, errors.New(expr.Span, 0, errors.RecursiveType)
	}
	prop.Init = expr
	return prop, nil
}

// exprReferencesOwnConstructor reports whether expr's postfix tokens
// contain a scoped call to ownTypeID's `new` — the one way a property
// initializer could recursively construct its own class during
// construction (§4.2 "Class declaration ordering", recursion check).
func exprReferencesOwnConstructor(expr *ir.Expression, ownTypeID value.TypeID) bool {
	for _, tok := range expr.Tokens {
		if tok.Kind != ir.TokCall || tok.Call == nil {
			continue
		}
		if tok.Call.Assoc != nil && tok.Call.Assoc.TypeID == ownTypeID && tok.Call.Name == "new" {
			return true
		}
		for _, arg := range tok.Call.Args {
			if exprReferencesOwnConstructor(&arg, ownTypeID) {
				return true
			}
		}
	}
	return false
}
