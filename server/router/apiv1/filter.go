package apiv1

import (
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/ast"
	"github.com/pkg/errors"
)

// titleFilter is the result of parsing a chat list filter expression.
// Exactly one of the fields is set.
type titleFilter struct {
	Equals   string
	Contains string
}

// parseTitleFilter parses a CEL filter over the chat title.
// Supported forms: "title == 'value'" and "title.contains('value')".
// Returns nil for an empty filter.
func parseTitleFilter(filterStr string) (*titleFilter, error) {
	filterStr = strings.TrimSpace(filterStr)
	if filterStr == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("title", cel.StringType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CEL environment")
	}

	celAST, issues := env.Compile(filterStr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "invalid filter expression: %s", filterStr)
	}

	return titleFilterFromAST(celAST.NativeRep().Expr())
}

func titleFilterFromAST(expr ast.Expr) (*titleFilter, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	if expr.Kind() != ast.CallKind {
		return nil, errors.New("filter must be a comparison (e.g., title == 'value') or title.contains('value')")
	}

	call := expr.AsCall()
	switch call.FunctionName() {
	case "_==_":
		args := call.Args()
		if len(args) != 2 {
			return nil, errors.New("invalid comparison expression")
		}
		if value, ok := titleComparisonValue(args[0], args[1]); ok {
			return &titleFilter{Equals: value}, nil
		}
		if value, ok := titleComparisonValue(args[1], args[0]); ok {
			return &titleFilter{Equals: value}, nil
		}
		return nil, errors.New("filter must compare the 'title' field with a string constant")
	case "contains":
		target := call.Target()
		if target == nil || !isTitleIdent(target) {
			return nil, errors.New("contains() is only supported on the 'title' field")
		}
		args := call.Args()
		if len(args) != 1 {
			return nil, errors.New("contains() takes exactly one string argument")
		}
		value, ok := stringConstant(args[0])
		if !ok {
			return nil, errors.New("contains() argument must be a string constant")
		}
		return &titleFilter{Contains: value}, nil
	default:
		return nil, errors.Errorf("unsupported operator: %s (only '==' and contains() are supported)", call.FunctionName())
	}
}

// titleComparisonValue extracts the constant if left is the 'title'
// identifier and right is a string constant.
func titleComparisonValue(left, right ast.Expr) (string, bool) {
	if !isTitleIdent(left) {
		return "", false
	}
	return stringConstant(right)
}

func isTitleIdent(expr ast.Expr) bool {
	return expr.Kind() == ast.IdentKind && expr.AsIdent() == "title"
}

func stringConstant(expr ast.Expr) (string, bool) {
	if expr.Kind() != ast.LiteralKind {
		return "", false
	}
	value, ok := expr.AsLiteral().Value().(string)
	return value, ok
}
