package eval

import "github.com/kustomzone/monty/ast"
import "github.com/kustomzone/monty/types"

func (ev *Evaluator) evalExpr(e ast.Expr, env *Environment) types.Value {
	ev.step()
	switch n := e.(type) {
	case *ast.NoneLit:
		return types.NewNone()
	case *ast.BoolLit:
		return types.BoolValue{Val: n.Value}
	case *ast.IntLit:
		return types.NewBigInt(parseBigInt(n.Text))
	case *ast.FloatLit:
		return types.NewFloat(n.Value)
	case *ast.StringLit:
		return types.NewStr(n.Value)
	case *ast.BytesLit:
		return types.NewBytes(n.Value)
	case *ast.Name:
		return ev.lookupName(n.Id, env)
	case *ast.TupleExpr:
		return ev.evalTuple(n, env)
	case *ast.ListExpr:
		return ev.evalList(n, env)
	case *ast.SetExpr:
		return ev.evalSet(n, env)
	case *ast.DictExpr:
		return ev.evalDict(n, env)
	case *ast.Comprehension:
		return ev.evalComprehension(n, env)
	case *ast.UnaryExpr:
		return ev.evalUnary(n, env)
	case *ast.BinaryExpr:
		left := ev.evalExpr(n.Left, env)
		right := ev.evalExpr(n.Right, env)
		return ev.binOp(n.Op, left, right)
	case *ast.BoolOpExpr:
		return ev.evalBoolOp(n, env)
	case *ast.CompareExpr:
		return ev.evalCompare(n, env)
	case *ast.IfExpr:
		if ev.evalExpr(n.Cond, env).Truthy() {
			return ev.evalExpr(n.Then, env)
		}
		return ev.evalExpr(n.Else, env)
	case *ast.CallExpr:
		return ev.evalCall(n, env)
	case *ast.AttributeExpr:
		x := ev.evalExpr(n.X, env)
		v, ok := ev.getAttr(x, n.Attr)
		if !ok {
			raise(types.NewException(types.AttributeError, types.NewStr("'"+x.Type().String()+"' object has no attribute '"+n.Attr+"'")))
		}
		return v
	case *ast.SubscriptExpr:
		return ev.evalSubscript(n, env)
	case *ast.SliceExpr:
		return ev.evalSliceExpr(n, env)
	}
	raise(types.NewException(types.RuntimeError, types.NewStr("unsupported expression")))
	return nil
}

func (ev *Evaluator) lookupName(id string, env *Environment) types.Value {
	if v, ok := env.Lookup(id); ok {
		return v
	}
	if v, ok := ev.registry.Lookup(id); ok {
		return v
	}
	raise(types.NewException(types.NameError, types.NewStr("name '"+id+"' is not defined")))
	return nil
}

func (ev *Evaluator) evalTuple(n *ast.TupleExpr, env *Environment) types.Value {
	elems := make([]types.Value, len(n.Elts))
	for i, e := range n.Elts {
		elems[i] = ev.evalExpr(e, env)
	}
	return types.NewTuple(elems)
}

func (ev *Evaluator) evalList(n *ast.ListExpr, env *Environment) types.Value {
	elems := make([]types.Value, len(n.Elts))
	for i, e := range n.Elts {
		elems[i] = ev.evalExpr(e, env)
	}
	ev.alloc(int64(len(elems)) + 1)
	return types.NewList(elems)
}

func (ev *Evaluator) evalSet(n *ast.SetExpr, env *Environment) types.Value {
	elems := make([]types.Value, len(n.Elts))
	for i, e := range n.Elts {
		elems[i] = ev.evalExpr(e, env)
	}
	ev.alloc(int64(len(elems)) + 1)
	return types.NewSet(elems, false)
}

func (ev *Evaluator) evalDict(n *ast.DictExpr, env *Environment) types.Value {
	d := types.NewDict()
	ev.alloc(1)
	for i := range n.Keys {
		k := ev.evalExpr(n.Keys[i], env)
		v := ev.evalExpr(n.Values[i], env)
		ev.alloc(1)
		d.Set(k, v)
	}
	return d
}

func (ev *Evaluator) evalComprehension(n *ast.Comprehension, env *Environment) types.Value {
	iterVal := ev.evalExpr(n.Iter, env)
	it := ev.toIterator(iterVal)
	scope := env.NewChild(ComprehensionScope)

	switch n.Kind {
	case "list":
		var out []types.Value
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			ev.assign(n.Target, v, scope)
			if ev.comprehensionFiltersPass(n.Ifs, scope) {
				out = append(out, ev.evalExpr(n.Elt, scope))
			}
		}
		ev.alloc(int64(len(out)) + 1)
		return types.NewList(out)
	case "set":
		s := types.NewSet(nil, false)
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			ev.assign(n.Target, v, scope)
			if ev.comprehensionFiltersPass(n.Ifs, scope) {
				ev.alloc(1)
				s.Add(ev.evalExpr(n.Elt, scope))
			}
		}
		return s
	case "dict":
		d := types.NewDict()
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			ev.assign(n.Target, v, scope)
			if ev.comprehensionFiltersPass(n.Ifs, scope) {
				k := ev.evalExpr(n.Elt, scope)
				val := ev.evalExpr(n.Value, scope)
				ev.alloc(1)
				d.Set(k, val)
			}
		}
		return d
	}
	raise(types.NewException(types.RuntimeError, types.NewStr("unsupported comprehension kind")))
	return nil
}

func (ev *Evaluator) comprehensionFiltersPass(ifs []ast.Expr, scope *Environment) bool {
	for _, cond := range ifs {
		if !ev.evalExpr(cond, scope).Truthy() {
			return false
		}
	}
	return true
}

func (ev *Evaluator) evalUnary(n *ast.UnaryExpr, env *Environment) types.Value {
	x := ev.evalExpr(n.X, env)
	switch n.Op {
	case "not":
		return types.BoolValue{Val: !x.Truthy()}
	case "-":
		return ev.unaryNeg(x)
	case "+":
		return ev.unaryPos(x)
	case "~":
		return ev.unaryInvert(x)
	}
	raise(types.NewException(types.RuntimeError, types.NewStr("unsupported unary operator")))
	return nil
}

func (ev *Evaluator) evalBoolOp(n *ast.BoolOpExpr, env *Environment) types.Value {
	var last types.Value = types.NewNone()
	for _, sub := range n.Vals {
		last = ev.evalExpr(sub, env)
		if n.Op == "and" && !last.Truthy() {
			return last
		}
		if n.Op == "or" && last.Truthy() {
			return last
		}
	}
	return last
}

func (ev *Evaluator) evalCompare(n *ast.CompareExpr, env *Environment) types.Value {
	left := ev.evalExpr(n.Left, env)
	for i, op := range n.Ops {
		right := ev.evalExpr(n.Rest[i], env)
		if !ev.compareOp(op, left, right) {
			return types.BoolValue{Val: false}
		}
		left = right
	}
	return types.BoolValue{Val: true}
}

func (ev *Evaluator) evalSliceExpr(n *ast.SliceExpr, env *Environment) types.Value {
	var lower, upper, step types.Value
	if n.Lower != nil {
		lower = ev.evalExpr(n.Lower, env)
	}
	if n.Upper != nil {
		upper = ev.evalExpr(n.Upper, env)
	}
	if n.Step != nil {
		step = ev.evalExpr(n.Step, env)
	}
	return types.NewSlice(lower, upper, step)
}
