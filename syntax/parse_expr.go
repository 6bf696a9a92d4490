package syntax

import "github.com/lqd-lang/liquid/ast"

// expr = if_expr | let | func | bool_expr
//
// Every expression is wrapped in an expression node.
func (p *Parser) parseExpr() (*ast.Node, error) {
	var inner *ast.Node
	var err error

	switch p.tok.Kind {
	case TOK_IF:
		inner, err = p.parseIf()
	case TOK_LET:
		inner, err = p.parseLet()
	case TOK_FN:
		inner, err = p.parseFunc(false)
	default:
		inner, err = p.parseBoolExpr()
	}

	if err != nil {
		return nil, err
	}

	return ast.NewNode(ast.Expr, inner), nil
}

// let = 'let' IDENT '=' expr
func (p *Parser) parseLet() (*ast.Node, error) {
	start := p.tok.Span.Start
	if err := p.next(); err != nil {
		return nil, err
	}

	name, err := p.leaf(TOK_IDENT, ast.Ident)
	if err != nil {
		return nil, err
	}

	if err := p.assertAndNext(TOK_ASSIGN); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Node{Kind: ast.Let, Start: start, End: value.End, Children: []*ast.Node{name, value}}, nil
}

// if_expr = 'if' bool_expr body
func (p *Parser) parseIf() (*ast.Node, error) {
	start := p.tok.Span.Start
	if err := p.next(); err != nil {
		return nil, err
	}

	cond, err := p.parseBoolExpr()
	if err != nil {
		return nil, err
	}

	body, end, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return &ast.Node{Kind: ast.If, Start: start, End: end, Children: append([]*ast.Node{cond}, body...)}, nil
}

// -----------------------------------------------------------------------------

var comparisonOps = map[int]ast.NodeKind{
	TOK_LT:   ast.LT,
	TOK_LTEQ: ast.LTE,
	TOK_GT:   ast.GT,
	TOK_GTEQ: ast.GTE,
	TOK_EQ:   ast.EQ,
}

var sumOps = map[int]ast.NodeKind{
	TOK_PLUS:  ast.Add,
	TOK_MINUS: ast.Sub,
}

var productOps = map[int]ast.NodeKind{
	TOK_STAR: ast.Mul,
	TOK_DIV:  ast.Div,
}

// bool_expr = sum [cmp_op sum]
//
// Comparisons do not associate: `a < b < c` is rejected.
func (p *Parser) parseBoolExpr() (*ast.Node, error) {
	lhs, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	opKind, ok := comparisonOps[p.tok.Kind]
	if !ok {
		return ast.NewNode(ast.BoolExpr, lhs), nil
	}

	op := ast.NewLeaf(opKind, p.tok.Span.Start, p.tok.Span.End)
	if err := p.next(); err != nil {
		return nil, err
	}

	rhs, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	if _, ok := comparisonOps[p.tok.Kind]; ok {
		return nil, p.rejectWithMsg("comparison operators cannot be chained")
	}

	return ast.NewNode(ast.BoolExpr, lhs, op, rhs), nil
}

// sum = product {('+' | '-') product}
func (p *Parser) parseSum() (*ast.Node, error) {
	return p.parseChain(ast.Sum, sumOps, p.parseProduct)
}

// product = value {('*' | '/') value}
func (p *Parser) parseProduct() (*ast.Node, error) {
	return p.parseChain(ast.Product, productOps, p.parseValue)
}

// parseChain parses a left-associative operator chain.  The resulting node's
// children alternate between operands and operators so it always has an odd
// number of children.
func (p *Parser) parseChain(kind ast.NodeKind, ops map[int]ast.NodeKind, parseOperand func() (*ast.Node, error)) (*ast.Node, error) {
	first, err := parseOperand()
	if err != nil {
		return nil, err
	}

	children := []*ast.Node{first}
	for {
		opKind, ok := ops[p.tok.Kind]
		if !ok {
			break
		}

		op := ast.NewLeaf(opKind, p.tok.Span.Start, p.tok.Span.End)
		if err := p.next(); err != nil {
			return nil, err
		}

		operand, err := parseOperand()
		if err != nil {
			return nil, err
		}

		children = append(children, op, operand)
	}

	return ast.NewNode(kind, children...), nil
}

// value = call | NUMBER | IDENT | '(' expr ')' | 'true' | 'false'
func (p *Parser) parseValue() (*ast.Node, error) {
	switch p.tok.Kind {
	case TOK_NUMLIT:
		return p.leaf(TOK_NUMLIT, ast.Number)
	case TOK_TRUE:
		return p.leaf(TOK_TRUE, ast.True)
	case TOK_FALSE:
		return p.leaf(TOK_FALSE, ast.False)
	case TOK_IDENT:
		id, err := p.leaf(TOK_IDENT, ast.Ident)
		if err != nil {
			return nil, err
		}

		if p.got(TOK_LPAREN) {
			return p.parseCall(id)
		}

		return id, nil
	case TOK_LPAREN:
		start := p.tok.Span.Start
		if err := p.next(); err != nil {
			return nil, err
		}

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		end := p.tok.Span.End
		if err := p.assertAndNext(TOK_RPAREN); err != nil {
			return nil, err
		}

		// the parenthesized expression covers its parentheses
		inner.Start, inner.End = start, end
		return inner, nil
	default:
		return nil, p.reject()
	}
}

// call = IDENT '(' [expr {',' expr}] ')'
//
// The argument set covers the parentheses so that even an empty argument list
// has a span.
func (p *Parser) parseCall(callee *ast.Node) (*ast.Node, error) {
	start := p.tok.Span.Start
	if err := p.next(); err != nil {
		return nil, err
	}

	var args []*ast.Node
	if !p.got(TOK_RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if !p.got(TOK_COMMA) {
				break
			}

			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}

	end := p.tok.Span.End
	if err := p.assertAndNext(TOK_RPAREN); err != nil {
		return nil, err
	}

	argSet := &ast.Node{Kind: ast.FnCallArgs, Start: start, End: end, Children: args}
	return ast.NewNode(ast.FnCall, callee, argSet), nil
}
