// Package mdtest extracts compiler test cases from Markdown documents.  A test
// case starts at a heading of the form `Test: <name>` and is made up of the
// fenced code blocks that follow it: exactly one `lqd` fence holding the
// program and one or more assertion fences describing the expected result.
package mdtest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputLang is the fence language of the program under test.
const InputLang = "lqd"

// AssertionKind is the fence language of an assertion.
type AssertionKind string

// Enumeration of the assertion kinds.
const (
	// AssertCST compares the S-expression dump of the syntax tree.
	AssertCST AssertionKind = "cst"

	// AssertIR requires every line of the fence to appear in the textual IR.
	AssertIR AssertionKind = "ir"

	// AssertLLVM requires every line of the fence to appear in the LLVM output.
	AssertLLVM AssertionKind = "llvm"

	// AssertCompileError compares the rendered compile error: either
	// `line:col: kind: message` or `kind: message` for unlocated errors.
	AssertCompileError AssertionKind = "compile-error"
)

var assertionKinds = map[string]AssertionKind{
	string(AssertCST):          AssertCST,
	string(AssertIR):           AssertIR,
	string(AssertLLVM):         AssertLLVM,
	string(AssertCompileError): AssertCompileError,
}

// Assertion is a single expectation of a test case.
type Assertion struct {
	Kind    AssertionKind
	Content string
	Line    int
}

// Lines returns the non-blank lines of the assertion with surrounding
// whitespace removed.
func (a Assertion) Lines() []string {
	var lines []string
	for _, line := range strings.Split(a.Content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// TestCase is a test case extracted from a Markdown document.
type TestCase struct {
	// Name is the test name: the heading text after `Test: `.
	Name string

	// Line is the line of the test heading.
	Line int

	// Input is the program under test.
	Input string

	Assertions []Assertion
}

// LoadFile extracts the test cases of a Markdown file.
func LoadFile(path string) ([]TestCase, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cases, err := ExtractTestCases(buff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cases, nil
}

// ExtractTestCases parses a Markdown document and extracts its test cases.
// Fences with no language are free-form text and are ignored; any other fence
// must belong to a test case.
func ExtractTestCases(source []byte) ([]TestCase, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var curr *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}

			if curr != nil {
				if err := validateTestCase(curr); err != nil {
					return ast.WalkStop, err
				}

				cases = append(cases, *curr)
			}

			curr = &TestCase{
				Name: strings.TrimSpace(strings.TrimPrefix(heading, "Test: ")),
				Line: lineOf(n, source),
			}
		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			if lang == "" {
				return ast.WalkContinue, nil
			}

			line := lineOf(n, source)
			kind, isAssertion := assertionKinds[lang]
			if lang != InputLang && !isAssertion {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language `%s`", line, lang)
			}

			if curr == nil {
				return ast.WalkStop, fmt.Errorf("line %d: `%s` fence outside of a test case", line, lang)
			}

			content := strings.TrimRight(fenceContent(n, source), "\n")
			if lang == InputLang {
				if curr.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences in test `%s`", line, curr.Name)
				}

				curr.Input = content
			} else {
				curr.Assertions = append(curr.Assertions, Assertion{Kind: kind, Content: content, Line: line})
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if curr != nil {
		if err := validateTestCase(curr); err != nil {
			return nil, err
		}

		cases = append(cases, *curr)
	}

	return cases, nil
}

// validateTestCase checks that a test case has an input and an assertion.
func validateTestCase(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("line %d: test `%s` has no input fence", tc.Line, tc.Name)
	}

	if len(tc.Assertions) == 0 {
		return fmt.Errorf("line %d: test `%s` has no assertion fences", tc.Line, tc.Name)
	}

	return nil
}

// -----------------------------------------------------------------------------

func headingText(n *ast.Heading, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := child.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}

		return ast.WalkContinue, nil
	})

	return buf.String()
}

func fenceContent(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}

	return buf.String()
}

// lineOf returns the 1-based line on which a block node starts.  Fences with
// no content are attributed to the start of the document.
func lineOf(n ast.Node, source []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}

	start := n.Lines().At(0).Start
	if start > len(source) {
		start = len(source)
	}

	return bytes.Count(source[:start], []byte("\n")) + 1
}
