package invariant

import (
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/cosim/model"
)

// Expr is a predicate written as a Starlark expression over probe names,
// for example
//
//	priv_stack & 0b110 != 0b100
//
// Every free identifier is read from the model's probes. mode is bound to
// priv_stack & MODE_MASK when the model exposes the privilege probe.
type Expr struct {
	Text  string // Message reported on failure.
	Src   string // Expression source.
	Names []string

	thread *starlark.Thread
}

var _ Predicate = (*Expr)(nil)

var exprOptions = syntax.FileOptions{}

// NewExpr compiles a predicate expression. If message is empty the source
// is used as the message.
func NewExpr(message string, src string) (ex *Expr, err error) {
	expr, err := exprOptions.ParseExpr("invariant", src, 0)
	if err != nil {
		return nil, &ErrExpr{Expr: src, Err: err}
	}

	if message == "" {
		message = src
	}

	ex = &Expr{
		Text:   message,
		Src:    src,
		thread: &starlark.Thread{Name: "invariant"},
	}

	syntax.Walk(expr, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			if _, builtin := starlark.Universe[id.Name]; !builtin && !slices.Contains(ex.Names, id.Name) {
				ex.Names = append(ex.Names, id.Name)
			}
		}
		return true
	})

	return
}

func (ex *Expr) Message() string {
	return ex.Text
}

func (ex *Expr) Holds(m model.Model) (ok bool, err error) {
	env := starlark.StringDict{}
	if priv, found := m.Probe(model.PROBE_PRIVILEGE); found {
		env["mode"] = starlark.MakeUint64(priv & MODE_MASK)
	}
	for _, name := range ex.Names {
		value, found := m.Probe(name)
		if !found {
			if _, bound := env[name]; bound {
				continue
			}
			err = &ErrExpr{Expr: ex.Src, Err: &ErrProbe{Probe: name, Err: ErrProbeMissing}}
			return
		}
		env[name] = starlark.MakeUint64(value)
	}

	rc, err := starlark.EvalOptions(&exprOptions, ex.thread, "invariant", ex.Src, env)
	if err != nil {
		err = &ErrExpr{Expr: ex.Src, Err: err}
		return
	}

	result, isBool := rc.(starlark.Bool)
	if !isBool {
		err = &ErrExpr{Expr: ex.Src, Err: ErrExprResult}
		return
	}

	ok = bool(result)
	return
}
