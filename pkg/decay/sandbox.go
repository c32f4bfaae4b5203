package decay

import (
	"fmt"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// checkSandbox walks the checked AST and rejects every construct that
// is not a plain numeric expression. The environment already limits the
// resolvable identifiers and functions; this pass additionally forbids
// iteration and non-numeric values so a decay function can never do
// more than compute a number from its age input.
func checkSandbox(ast *cel.Ast) error {
	expr := ast.Expr() //nolint:staticcheck // Deprecated but no alternative for AST traversal yet
	return walkExpr(expr)
}

func walkExpr(e *exprpb.Expr) error {
	if e == nil {
		return nil
	}

	switch k := e.ExprKind.(type) {
	case *exprpb.Expr_ConstExpr:
		switch k.ConstExpr.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return fmt.Errorf("string literals are not allowed in decay expressions")
		case *exprpb.Constant_BytesValue:
			return fmt.Errorf("bytes literals are not allowed in decay expressions")
		}
		return nil

	case *exprpb.Expr_IdentExpr:
		return nil

	case *exprpb.Expr_CallExpr:
		call := k.CallExpr
		if call.Target != nil {
			if err := walkExpr(call.Target); err != nil {
				return err
			}
		}
		for _, arg := range call.Args {
			if err := walkExpr(arg); err != nil {
				return err
			}
		}
		return nil

	case *exprpb.Expr_ComprehensionExpr:
		return fmt.Errorf("iteration is not allowed in decay expressions")

	case *exprpb.Expr_ListExpr:
		return fmt.Errorf("list values are not allowed in decay expressions")

	case *exprpb.Expr_StructExpr:
		return fmt.Errorf("struct values are not allowed in decay expressions")

	case *exprpb.Expr_SelectExpr:
		return fmt.Errorf("field selection is not allowed in decay expressions")
	}

	return nil
}
