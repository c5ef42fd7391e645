package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. Children are skipped when f returns false.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	inspectExprs := func(exprs ...Expr) {
		for _, e := range exprs {
			if e != nil {
				Inspect(e, f)
			}
		}
	}

	switch n := node.(type) {
	case *ExpressionStmt:
		inspectExprs(n.Expr)
	case *DeclStmt:
		inspectExprs(n.Value)
	case *AssignStmt:
		inspectExprs(n.Target, n.Value)
	case *IfStmt:
		inspectExprs(n.Cond)
		Inspect(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *WhileStmt:
		inspectExprs(n.Cond)
		Inspect(n.Body, f)
	case *ForStmt:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
		inspectExprs(n.Cond, n.Update)
		Inspect(n.Body, f)
	case *ForEachStmt:
		inspectExprs(n.Iterable)
		Inspect(n.Body, f)
	case *RepeatStmt:
		inspectExprs(n.Count)
		Inspect(n.Body, f)
	case *BlockStmt:
		for _, s := range n.Statements {
			Inspect(s, f)
		}
	case *FunctionStmt:
		Inspect(n.Body, f)
	case *ReturnStmt:
		inspectExprs(n.Value)
	case *LogStmt:
		inspectExprs(n.Value)
	case *BreakStmt, *ContinueStmt, *PassStmt, *Literal, *Ident:
		// leaves

	case *Binary:
		inspectExprs(n.Left, n.Right)
	case *Logical:
		inspectExprs(n.Left, n.Right)
	case *Unary:
		inspectExprs(n.Operand)
	case *Update:
		inspectExprs(n.Target)
	case *Group:
		inspectExprs(n.Inner)
	case *Call:
		inspectExprs(n.Callee)
		inspectExprs(n.Args...)
	case *Member:
		inspectExprs(n.Object)
	case *Index:
		inspectExprs(n.Object, n.Index)
	case *List:
		inspectExprs(n.Elems...)
	case *Dict:
		for _, e := range n.Entries {
			inspectExprs(e.Key, e.Value)
		}
	case *Template:
		for _, p := range n.Parts {
			inspectExprs(p.Expr)
		}
	case *Assign:
		inspectExprs(n.Target, n.Value)
	case *New:
		inspectExprs(n.Args...)
	}
}

// InspectProgram runs Inspect over every top-level statement.
func InspectProgram(p *Program, f func(Node) bool) {
	for _, s := range p.Statements {
		Inspect(s, f)
	}
}
