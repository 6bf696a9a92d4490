package syntax

import (
	"github.com/lqd-lang/liquid/ast"
	"github.com/lqd-lang/liquid/report"
)

// file = top_level {top_level} EOF
func (p *Parser) parseFile() (*ast.Node, error) {
	var tops []*ast.Node

	for {
		top, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}

		tops = append(tops, top)

		if p.got(TOK_EOF) {
			break
		}
	}

	return &ast.Node{Kind: ast.Root, Start: 0, End: len(p.src), Children: tops}, nil
}

// top_level = extern_block | func
func (p *Parser) parseTopLevel() (*ast.Node, error) {
	switch p.tok.Kind {
	case TOK_EXTERN:
		return p.parseExternBlock()
	case TOK_FN:
		return p.parseFunc(true)
	default:
		return nil, p.reject()
	}
}

// extern_block = 'extern' ('{' {top_level} '}' | top_level)
func (p *Parser) parseExternBlock() (*ast.Node, error) {
	start := p.tok.Span.Start
	if err := p.next(); err != nil {
		return nil, err
	}

	if !p.got(TOK_LBRACE) {
		top, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}

		return &ast.Node{Kind: ast.Extern, Start: start, End: top.End, Children: []*ast.Node{top}}, nil
	}

	if err := p.next(); err != nil {
		return nil, err
	}

	var tops []*ast.Node
	for !p.got(TOK_RBRACE) {
		top, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}

		tops = append(tops, top)
	}

	end := p.tok.Span.End
	if err := p.next(); err != nil {
		return nil, err
	}

	return &ast.Node{Kind: ast.Extern, Start: start, End: end, Children: tops}, nil
}

// func = 'fn' IDENT [def_args] '->' IDENT (';' | body)
//
// Bodiless declarations are only allowed if allowDecl is set.
func (p *Parser) parseFunc(allowDecl bool) (*ast.Node, error) {
	start := p.tok.Span.Start
	if err := p.next(); err != nil {
		return nil, err
	}

	name, err := p.leaf(TOK_IDENT, ast.Ident)
	if err != nil {
		return nil, err
	}

	// the argument set is optional: `fn main -> void {}`
	var args *ast.Node
	if p.got(TOK_LPAREN) {
		if args, err = p.parseDefArgs(); err != nil {
			return nil, err
		}
	} else {
		args = ast.NewLeaf(ast.FnDefArgs, name.End, name.End)
	}

	if err := p.assertAndNext(TOK_ARROW); err != nil {
		return nil, err
	}

	rtType, err := p.leaf(TOK_IDENT, ast.Ident)
	if err != nil {
		return nil, err
	}

	if p.got(TOK_SEMI) {
		end := p.tok.Span.End

		if !allowDecl {
			return nil, report.Raise(
				report.KindUsage,
				report.NewSpan(start, end),
				"function declaration not allowed in function body",
			)
		}

		if err := p.next(); err != nil {
			return nil, err
		}

		return &ast.Node{
			Kind:     ast.FnDecl,
			Start:    start,
			End:      end,
			Children: []*ast.Node{name, args, rtType},
		}, nil
	}

	body, end, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return &ast.Node{
		Kind:     ast.FnDef,
		Start:    start,
		End:      end,
		Children: append([]*ast.Node{name, args, rtType}, body...),
	}, nil
}

// def_args = '(' [param {',' param}] ')'
// param = IDENT ':' IDENT
func (p *Parser) parseDefArgs() (*ast.Node, error) {
	start := p.tok.Span.Start
	if err := p.next(); err != nil {
		return nil, err
	}

	var params []*ast.Node
	if !p.got(TOK_RPAREN) {
		for {
			name, err := p.leaf(TOK_IDENT, ast.Ident)
			if err != nil {
				return nil, err
			}

			if err := p.assertAndNext(TOK_COLON); err != nil {
				return nil, err
			}

			typ, err := p.leaf(TOK_IDENT, ast.Ident)
			if err != nil {
				return nil, err
			}

			params = append(params, name, typ)

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

	return &ast.Node{Kind: ast.FnDefArgs, Start: start, End: end, Children: params}, nil
}

// body = '{' expr_list '}'
//
// It returns the body's expressions and the end offset of the closing brace.
func (p *Parser) parseBody() ([]*ast.Node, int, error) {
	if err := p.assertAndNext(TOK_LBRACE); err != nil {
		return nil, 0, err
	}

	exprs, err := p.parseExprList()
	if err != nil {
		return nil, 0, err
	}

	end := p.tok.Span.End
	if err := p.assertAndNext(TOK_RBRACE); err != nil {
		return nil, 0, err
	}

	return exprs, end, nil
}

// expr_list = [expr {';' expr} [';']]
//
// A trailing semicolon produces an empty expression which discards the value
// of the expression before it.
func (p *Parser) parseExprList() ([]*ast.Node, error) {
	if p.got(TOK_RBRACE) {
		return nil, nil
	}

	var exprs []*ast.Node
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)

		if !p.got(TOK_SEMI) {
			return exprs, nil
		}

		semi := p.tok.Span
		if err := p.next(); err != nil {
			return nil, err
		}

		if p.got(TOK_RBRACE) {
			return append(exprs, ast.NewLeaf(ast.Expr, semi.Start, semi.End)), nil
		}
	}
}
