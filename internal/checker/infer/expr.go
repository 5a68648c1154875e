package infer

import (
	"strconv"

	"github.com/funvibe/funxy-typecheck/internal/ast"
	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/diagnostic"
	"github.com/funvibe/funxy-typecheck/internal/checker/instantiate"
	"github.com/funvibe/funxy-typecheck/internal/checker/member"
	"github.com/funvibe/funxy-typecheck/internal/checker/subst"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
	"github.com/funvibe/funxy-typecheck/internal/checker/unify"
)

var undefinedT types.Type = types.KeywordType{Keyword: types.Undefined}
var booleanT types.Type = types.KeywordType{Keyword: types.Boolean}
var numberT types.Type = types.KeywordType{Keyword: types.Number}

// InferExpr implements spec §4.8: it walks e, returning the
// substitution accumulated while checking it and its resolved type, and
// stamps e.InferredType as a final side effect (spec §3 "Lifecycle").
func InferExpr(ck *Checker, c *ctx.Context, e ast.Expression) (subst.Subst, types.Type, error) {
	s, t, err := inferExprInner(ck, c, e)
	if err != nil {
		return nil, nil, err
	}
	e.SetInferredType(t)
	return s, t, nil
}

func inferExprInner(ck *Checker, c *ctx.Context, e ast.Expression) (subst.Subst, types.Type, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return subst.Empty(), literalType(n), nil

	case *ast.Ident:
		return inferIdent(ck, c, n, nil)

	case *ast.Lambda:
		return inferLambda(ck, c, n)

	case *ast.Block:
		return inferBlock(ck, c, n)

	case *ast.Call:
		return inferCall(ck, c, n)

	case *ast.Spread:
		s, t, err := InferExpr(ck, c, n.Expr)
		if err != nil {
			return nil, nil, err
		}
		return s, types.Rest{Inner: t}, nil

	case *ast.If:
		return inferIf(ck, c, n)

	case *ast.BinaryOp:
		return inferBinaryOp(ck, c, n)

	case *ast.ObjectLiteral:
		return inferObjectLiteral(ck, c, n)

	case *ast.ArrayLiteral:
		return inferArrayLiteral(ck, c, n)

	case *ast.Await:
		return inferAwait(ck, c, n)

	case *ast.Member:
		return inferMember(ck, c, n)

	case *ast.Assign:
		return inferAssign(ck, c, n)

	case *ast.Match:
		return inferMatch(ck, c, n)

	case *ast.Fix:
		return inferFix(ck, c, n)

	case *ast.TypeAssertionExpr:
		return inferTypeAssertion(ck, c, n)
	}
	return nil, nil, &CheckError{Code: diagnostic.UnificationFailure, Msg: "unsupported expression form"}
}

func literalType(l *ast.Literal) types.Lit {
	switch l.Kind {
	case ast.LitNum:
		return types.Lit{Kind: types.LitNum, Num: l.Num}
	case ast.LitStr:
		return types.Lit{Kind: types.LitStr, Str: l.Str}
	default:
		return types.Lit{Kind: types.LitBool, Bool: l.Bool}
	}
}

// inferIdent looks up name as a scheme first (instantiating it — with
// explicit type args if the call site supplied any — fresh per
// reference, spec §4.2) and falls back to a plain monomorphic value
// binding.
func inferIdent(ck *Checker, c *ctx.Context, id *ast.Ident, explicitArgs []types.Type) (subst.Subst, types.Type, error) {
	if sch, ok := c.LookupScheme(id.Name); ok {
		if len(explicitArgs) > 0 {
			if len(explicitArgs) != len(sch.TypeParams) {
				return nil, nil, &CheckError{Code: diagnostic.AliasArityMismatch, Msg: "wrong number of explicit type arguments for " + id.Name}
			}
			s := subst.Empty()
			for i, tp := range sch.TypeParams {
				s[tp.Fresh.ID] = explicitArgs[i]
			}
			return subst.Empty(), subst.Apply(s, sch.Type), nil
		}
		return subst.Empty(), instantiate.Instantiate(c, sch), nil
	}
	if t, ok := c.Lookup(id.Name); ok {
		return subst.Empty(), t, nil
	}
	return nil, nil, &CheckError{Code: diagnostic.UnknownIdentifier, Msg: "undefined name: " + id.Name}
}

// inferLambda implements spec §4.8 "Lambda": push a scope, instantiate
// declared type parameters, infer each param pattern (binding into the
// new scope), infer the body, optionally wrap an async body in
// Promise<·>, optionally unify against a declared return annotation,
// and assemble a monomorphic Lam (generalization happens only at
// top-level let, spec §4.2/§9).
func inferLambda(ck *Checker, c *ctx.Context, l *ast.Lambda) (subst.Subst, types.Type, error) {
	child := c.NewChild()
	child.SetAsync(l.Async)

	tps, env, err := buildTypeParams(child, typeEnv{}, l.TypeParams)
	if err != nil {
		return nil, nil, err
	}

	params := make([]types.Param, len(l.Params))
	s := subst.Empty()
	for i, p := range l.Params {
		var pt types.Type
		if p.Type != nil {
			pt, err = BuildType(child, env, p.Type)
			if err != nil {
				return nil, nil, err
			}
		} else {
			pt = child.Fresh(nil)
		}
		s1, err := InferPattern(ck, child, p.Pattern, pt)
		if err != nil {
			return nil, nil, err
		}
		s = s.Compose(s1)
		params[i] = types.Param{
			Name:     patternDisplayName(p.Pattern),
			Type:     subst.Apply(s, pt),
			Optional: p.Optional,
			Mutable:  p.Mutable,
			Rest:     p.Rest,
		}
	}

	s2, bodyT, err := InferExpr(ck, child, l.Body)
	if err != nil {
		return nil, nil, err
	}
	s = s.Compose(s2)
	bodyT = subst.Apply(s, bodyT)

	if l.Async {
		if ref, ok := bodyT.(types.Ref); !ok || ref.Name != "Promise" {
			bodyT = types.Ref{Name: "Promise", Args: []types.Type{bodyT}}
		}
	}

	if l.ReturnType != nil {
		declared, err := BuildType(child, env, l.ReturnType)
		if err != nil {
			return nil, nil, err
		}
		s3, err := unify.Unify(bodyT, declared, ck.Aliases)
		if err != nil {
			return nil, nil, err
		}
		s = s.Compose(s3)
		bodyT = subst.Apply(s, declared)
	}

	for i := range params {
		params[i].Type = subst.Apply(s, params[i].Type)
	}
	return s, types.Lam{Params: params, Return: bodyT, TypeParams: tps}, nil
}

// inferBlock infers each statement of b (for effect / bindings visible
// to later statements and to Result), then infers Result; a Block with
// no Result has type undefined.
func inferBlock(ck *Checker, c *ctx.Context, b *ast.Block) (subst.Subst, types.Type, error) {
	child := c.NewChild()
	scratch := map[string]ctx.Scheme{}
	for _, stmt := range b.Stmts {
		if err := inferStmt(ck, child, stmt, scratch); err != nil {
			return nil, nil, err
		}
	}
	if b.Result == nil {
		return subst.Empty(), undefinedT, nil
	}
	return InferExpr(ck, child, b.Result)
}

// inferCall implements spec §4.3 rule 5 / §4.8 "Application": build an
// App with a fresh return variable from the inferred argument types
// (spreads are not flattened here: every spread argument becomes a Rest
// of its own type, and unify's flattenArgs splats the Tuple ones against
// the parameter list), then unify App <= calleeType.
func inferCall(ck *Checker, c *ctx.Context, call *ast.Call) (subst.Subst, types.Type, error) {
	var explicitArgs []types.Type
	if len(call.TypeArgs) > 0 {
		explicitArgs = make([]types.Type, len(call.TypeArgs))
		for i, ta := range call.TypeArgs {
			t, err := BuildType(c, nil, ta)
			if err != nil {
				return nil, nil, err
			}
			explicitArgs[i] = t
		}
	}

	var sCallee subst.Subst
	var calleeT types.Type
	var err error
	if id, ok := call.Callee.(*ast.Ident); ok {
		sCallee, calleeT, err = inferIdent(ck, c, id, explicitArgs)
		if err == nil {
			id.SetInferredType(calleeT)
		}
	} else {
		sCallee, calleeT, err = InferExpr(ck, c, call.Callee)
	}
	if err != nil {
		return nil, nil, err
	}

	s := sCallee
	args := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		if spread, ok := a.(*ast.Spread); ok {
			s1, inner, err := InferExpr(ck, c, spread.Expr)
			if err != nil {
				return nil, nil, err
			}
			s = s.Compose(s1)
			spread.SetInferredType(inner)
			args[i] = types.Rest{Inner: subst.Apply(s, inner)}
			continue
		}
		s1, t, err := InferExpr(ck, c, a)
		if err != nil {
			return nil, nil, err
		}
		s = s.Compose(s1)
		args[i] = subst.Apply(s, t)
	}

	ret := c.Fresh(nil)
	app := types.App{Args: args, Return: ret, TypeArgs: explicitArgs}
	s1, err := unify.Unify(app, subst.Apply(s, calleeT), ck.Aliases)
	if err != nil {
		return nil, nil, err
	}
	s = s.Compose(s1)
	return s, subst.Apply(s, ret), nil
}

// inferIf implements spec §4.8 "If/Else", including the `let pat =
// expr` guard form.
func inferIf(ck *Checker, c *ctx.Context, n *ast.If) (subst.Subst, types.Type, error) {
	if n.LetPattern != nil {
		child := c.NewChild()
		s0, initT, err := InferExpr(ck, child, n.LetInit)
		if err != nil {
			return nil, nil, err
		}
		s1, err := InferPattern(ck, child, n.LetPattern, subst.Apply(s0, initT))
		if err != nil {
			return nil, nil, err
		}
		s := s0.Compose(s1)
		s2, thenT, err := InferExpr(ck, child, n.Then)
		if err != nil {
			return nil, nil, err
		}
		s = s.Compose(s2)
		if n.Else == nil {
			return s, types.NormalizeUnion([]types.Type{subst.Apply(s, thenT), undefinedT}), nil
		}
		s3, elseT, err := InferExpr(ck, c, n.Else)
		if err != nil {
			return nil, nil, err
		}
		s = s.Compose(s3)
		return s, types.NormalizeUnion([]types.Type{subst.Apply(s, thenT), subst.Apply(s, elseT)}), nil
	}

	s0, condT, err := InferExpr(ck, c, n.Cond)
	if err != nil {
		return nil, nil, err
	}
	s1, err := unify.Unify(condT, booleanT, ck.Aliases)
	if err != nil {
		return nil, nil, err
	}
	s := s0.Compose(s1)
	s2, thenT, err := InferExpr(ck, c, n.Then)
	if err != nil {
		return nil, nil, err
	}
	s = s.Compose(s2)
	if n.Else == nil {
		return s, types.NormalizeUnion([]types.Type{subst.Apply(s, thenT), undefinedT}), nil
	}
	s3, elseT, err := InferExpr(ck, c, n.Else)
	if err != nil {
		return nil, nil, err
	}
	s = s.Compose(s3)
	return s, types.NormalizeUnion([]types.Type{subst.Apply(s, thenT), subst.Apply(s, elseT)}), nil
}

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var comparisonOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}

// inferBinaryOp implements spec §4.8 "Binary op": arithmetic/comparison
// operands unify against number, arithmetic yields number (or a folded
// Lit(num) when both operands are literal numbers), comparison yields
// boolean. Logical operators aren't named by spec.md's operator list
// but are a direct extension given the language already has booleans:
// both operands unify against boolean, result is boolean.
func inferBinaryOp(ck *Checker, c *ctx.Context, n *ast.BinaryOp) (subst.Subst, types.Type, error) {
	s0, leftT, err := InferExpr(ck, c, n.Left)
	if err != nil {
		return nil, nil, err
	}
	s1, rightT, err := InferExpr(ck, c, n.Right)
	if err != nil {
		return nil, nil, err
	}
	s := s0.Compose(s1)

	operand := numberT
	result := types.Type(numberT)
	if comparisonOps[n.Op] {
		result = booleanT
	} else if logicalOps[n.Op] {
		operand = booleanT
		result = booleanT
	}

	s2, err := unify.Unify(subst.Apply(s, leftT), operand, ck.Aliases)
	if err != nil {
		return nil, nil, err
	}
	s = s.Compose(s2)
	s3, err := unify.Unify(subst.Apply(s, rightT), operand, ck.Aliases)
	if err != nil {
		return nil, nil, err
	}
	s = s.Compose(s3)

	if arithmeticOps[n.Op] {
		if folded, ok := foldArithmetic(n); ok {
			return s, folded, nil
		}
	}
	return s, result, nil
}

// foldArithmetic performs the optional const-folding spec §4.8 allows
// ("permitted but not required for correctness") when both operands are
// literal number expressions.
func foldArithmetic(n *ast.BinaryOp) (types.Lit, bool) {
	l, ok := n.Left.(*ast.Literal)
	if !ok || l.Kind != ast.LitNum {
		return types.Lit{}, false
	}
	r, ok := n.Right.(*ast.Literal)
	if !ok || r.Kind != ast.LitNum {
		return types.Lit{}, false
	}
	lv, err1 := strconv.ParseFloat(l.Num, 64)
	rv, err2 := strconv.ParseFloat(r.Num, 64)
	if err1 != nil || err2 != nil {
		return types.Lit{}, false
	}
	var out float64
	switch n.Op {
	case "+":
		out = lv + rv
	case "-":
		out = lv - rv
	case "*":
		out = lv * rv
	case "/":
		if rv == 0 {
			return types.Lit{}, false
		}
		out = lv / rv
	default:
		return types.Lit{}, false
	}
	return types.Lit{Kind: types.LitNum, Num: strconv.FormatFloat(out, 'g', -1, 64)}, true
}

// inferObjectLiteral implements spec §4.8 "Object literal": each
// property's inferred type becomes a required, non-optional property;
// spreads contribute properties from their (structurally resolved)
// source object, later properties winning on name collision exactly as
// unify's intersection simplification does.
func inferObjectLiteral(ck *Checker, c *ctx.Context, n *ast.ObjectLiteral) (subst.Subst, types.Type, error) {
	s := subst.Empty()
	byName := map[string]types.ObjElem{}
	var order []string
	for _, prop := range n.Props {
		if prop.Spread {
			s1, t, err := InferExpr(ck, c, prop.Value)
			if err != nil {
				return nil, nil, err
			}
			s = s.Compose(s1)
			resolved := unify.ResolveToStructural(subst.Apply(s, t), ck.Aliases)
			obj, ok := resolved.(types.Object)
			if !ok {
				return nil, nil, &CheckError{Code: diagnostic.UnificationFailure, Msg: "spread source in object literal must be an object type"}
			}
			for _, e := range obj.Elems {
				if e.Kind != types.ElemProp {
					continue
				}
				if _, seen := byName[e.Name]; !seen {
					order = append(order, e.Name)
				}
				byName[e.Name] = e
			}
			continue
		}
		s1, t, err := InferExpr(ck, c, prop.Value)
		if err != nil {
			return nil, nil, err
		}
		s = s.Compose(s1)
		if _, seen := byName[prop.Name]; !seen {
			order = append(order, prop.Name)
		}
		byName[prop.Name] = types.ObjElem{Kind: types.ElemProp, Name: prop.Name, PropType: subst.Apply(s, t)}
	}
	elems := make([]types.ObjElem, len(order))
	for i, name := range order {
		elems[i] = byName[name]
	}
	return s, types.Object{Elems: elems}, nil
}

// inferArrayLiteral implements spec §4.8/§8 scenario 4: a literal array
// with no spreads of unknown-length Array type infers as a Tuple so
// positional access narrows (`tup[1] : string`); a literal containing a
// spread of Array<T> type loses that positional precision and infers as
// Array<union of every element's type>, since its final length isn't
// known structurally.
func inferArrayLiteral(ck *Checker, c *ctx.Context, n *ast.ArrayLiteral) (subst.Subst, types.Type, error) {
	s := subst.Empty()
	var elems []types.Type
	variableLength := false
	for _, el := range n.Elements {
		if spread, ok := el.(*ast.Spread); ok {
			s1, t, err := InferExpr(ck, c, spread.Expr)
			if err != nil {
				return nil, nil, err
			}
			s = s.Compose(s1)
			spread.SetInferredType(t)
			resolved := unify.ResolveToStructural(subst.Apply(s, t), ck.Aliases)
			switch r := resolved.(type) {
			case types.Tuple:
				elems = append(elems, r.Elements...)
			case types.Array:
				elems = append(elems, r.Elem)
				variableLength = true
			default:
				return nil, nil, &CheckError{Code: diagnostic.SpreadNotAllowed, Msg: "spread in array literal must be an array or tuple"}
			}
			continue
		}
		s1, t, err := InferExpr(ck, c, el)
		if err != nil {
			return nil, nil, err
		}
		s = s.Compose(s1)
		elems = append(elems, subst.Apply(s, t))
	}
	if variableLength {
		return s, types.Array{Elem: types.NormalizeUnion(elems)}, nil
	}
	return s, types.Tuple{Elements: elems}, nil
}

// inferAwait implements spec §4.8 "Await": only legal in async scope,
// unifies the awaited type with Promise<X> for fresh X.
func inferAwait(ck *Checker, c *ctx.Context, n *ast.Await) (subst.Subst, types.Type, error) {
	if !c.IsAsync() {
		return nil, nil, &CheckError{Code: diagnostic.AwaitOutsideAsync, Msg: "await used outside an async function"}
	}
	s0, t, err := InferExpr(ck, c, n.Expr)
	if err != nil {
		return nil, nil, err
	}
	x := c.Fresh(nil)
	s1, err := unify.Unify(subst.Apply(s0, t), types.Ref{Name: "Promise", Args: []types.Type{x}}, ck.Aliases)
	if err != nil {
		return nil, nil, err
	}
	s := s0.Compose(s1)
	return s, subst.Apply(s, x), nil
}

// inferMember implements spec §4.8 "Member": delegate to §4.7 with a
// distinguished l-value flag, enforcing the mutability rules when
// n.LValue is set.
func inferMember(ck *Checker, c *ctx.Context, n *ast.Member) (subst.Subst, types.Type, error) {
	s0, objT, err := InferExpr(ck, c, n.Object)
	if err != nil {
		return nil, nil, err
	}
	objT = subst.Apply(s0, objT)

	var key types.Type
	s := s0
	if n.Computed != nil {
		s1, kt, err := InferExpr(ck, c, n.Computed)
		if err != nil {
			return nil, nil, err
		}
		s = s.Compose(s1)
		key = subst.Apply(s, kt)
	} else {
		key = types.Lit{Kind: types.LitStr, Str: n.Name}
	}

	var resultT types.Type
	if n.Computed != nil {
		resultT, err = member.GetComputed(c, subst.Apply(s, objT), key, ck.Aliases)
	} else {
		resultT, err = member.Get(subst.Apply(s, objT), key, ck.Aliases)
	}
	if err != nil {
		return nil, nil, err
	}

	if n.LValue {
		if err := checkLValue(ck, subst.Apply(s, objT), key); err != nil {
			return nil, nil, err
		}
	}
	return s, resultT, nil
}

// checkLValue implements the property/index half of spec §4.7's l-value
// mutability rules: a Prop or indexer satisfies an l-value write iff its
// own Mutable flag is set. Whether the object itself is mutable is not
// checked, and getter/setter pairs are not modelled separately from a
// single Prop.
func checkLValue(ck *Checker, objT types.Type, key types.Type) error {
	resolved := unify.ResolveToStructural(objT, ck.Aliases)
	obj, ok := resolved.(types.Object)
	if !ok {
		return nil
	}
	lit, isLit := key.(types.Lit)
	for _, e := range obj.Elems {
		switch e.Kind {
		case types.ElemProp:
			if isLit && lit.Kind == types.LitStr && e.Name == lit.Str {
				if !e.Mutable {
					return &CheckError{Code: diagnostic.PropertyNotMutable, Msg: "property " + e.Name + " is not mutable"}
				}
				return nil
			}
		case types.ElemIndex:
			if _, err := unify.Unify(key, e.IndexKey.Type, ck.Aliases); err == nil {
				if !e.Mutable {
					return &CheckError{Code: diagnostic.PropertyNotMutable, Msg: "indexer is not mutable"}
				}
				return nil
			}
		}
	}
	return nil
}

// inferAssign checks `target = value`: target must be an Ident bound
// mutable, or a mutable l-value Member.
func inferAssign(ck *Checker, c *ctx.Context, n *ast.Assign) (subst.Subst, types.Type, error) {
	var s subst.Subst
	var targetT types.Type
	var err error
	switch tgt := n.Target.(type) {
	case *ast.Ident:
		if !c.IsMutableBinding(tgt.Name) {
			return nil, nil, &CheckError{Code: diagnostic.NonMutableBindingAssignment, Msg: "cannot assign to non-mutable binding " + tgt.Name}
		}
		s, targetT, err = InferExpr(ck, c, tgt)
	case *ast.Member:
		tgt.LValue = true
		s, targetT, err = InferExpr(ck, c, tgt)
	default:
		return nil, nil, &CheckError{Code: diagnostic.UnificationFailure, Msg: "invalid assignment target"}
	}
	if err != nil {
		return nil, nil, err
	}
	s1, valueT, err := InferExpr(ck, c, n.Value)
	if err != nil {
		return nil, nil, err
	}
	s = s.Compose(s1)
	s2, err := unify.Unify(subst.Apply(s, valueT), subst.Apply(s, targetT), ck.Aliases)
	if err != nil {
		return nil, nil, err
	}
	s = s.Compose(s2)
	return s, subst.Apply(s, targetT), nil
}

// inferMatch implements spec §4.8 "Match": infer the scrutinee once,
// then for each arm push a fresh scope, unify the arm's pattern against
// the scrutinee, infer an optional guard as boolean, infer the body,
// and pop the scope. The result is the union of arm bodies.
func inferMatch(ck *Checker, c *ctx.Context, n *ast.Match) (subst.Subst, types.Type, error) {
	s0, scrutT, err := InferExpr(ck, c, n.Scrutinee)
	if err != nil {
		return nil, nil, err
	}
	s := s0
	var armTypes []types.Type
	for _, arm := range n.Arms {
		child := c.NewChild()
		s1, err := InferPattern(ck, child, arm.Pattern, subst.Apply(s, scrutT))
		if err != nil {
			return nil, nil, err
		}
		armS := s.Compose(s1)
		if arm.Guard != nil {
			sg, guardT, err := InferExpr(ck, child, arm.Guard)
			if err != nil {
				return nil, nil, err
			}
			armS = armS.Compose(sg)
			if _, err := unify.Unify(subst.Apply(armS, guardT), booleanT, ck.Aliases); err != nil {
				return nil, nil, err
			}
		}
		sb, bodyT, err := InferExpr(ck, child, arm.Body)
		if err != nil {
			return nil, nil, err
		}
		armS = armS.Compose(sb)
		s = s.Compose(armS)
		armTypes = append(armTypes, subst.Apply(armS, bodyT))
	}
	return s, types.NormalizeUnion(armTypes), nil
}

// inferFix implements the §9 fixed-point wrapper for `let rec`: Target
// must infer as a Lam (InvalidFixTarget otherwise, §7).
func inferFix(ck *Checker, c *ctx.Context, n *ast.Fix) (subst.Subst, types.Type, error) {
	s, t, err := InferExpr(ck, c, n.Target)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := unify.ResolveToStructural(t, ck.Aliases).(types.Lam); !ok {
		return nil, nil, &CheckError{Code: diagnostic.InvalidFixTarget, Msg: "fix target must be a function"}
	}
	return s, t, nil
}

// inferTypeAssertion implements `expr as T`: expr is inferred and the
// result has type T; expr's type is not unified against T (a narrowing
// escape hatch, §4.9's sibling for `is` guards at the expression level
// rather than the pattern level).
func inferTypeAssertion(ck *Checker, c *ctx.Context, n *ast.TypeAssertionExpr) (subst.Subst, types.Type, error) {
	s0, t, err := InferExpr(ck, c, n.Expr)
	if err != nil {
		return nil, nil, err
	}
	target, err := BuildType(c, nil, n.Target)
	if err != nil {
		return nil, nil, err
	}
	_, _ = subst.Apply(s0, t), target // asserted, not unified both ways: no soundness proof (§1 Non-goals)
	return s0, target, nil
}
