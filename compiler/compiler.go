package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/shadelang/shade/compiler/analyze"
	"github.com/shadelang/shade/compiler/ir"
	"github.com/shadelang/shade/compiler/parse"
)

func AnalyzeFile(ctx context.Context, name string, opts analyze.Options) ([]*analyze.Analysis, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	g, err := parse.Group(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse group")
	}

	return AnalyzeGroup(ctx, g, opts)
}

// AnalyzeGroup runs the analysis over each layer of the group, each
// with its own context. The first malformed layer aborts the group.
func AnalyzeGroup(ctx context.Context, g *ir.Group, opts analyze.Options) (res []*analyze.Analysis, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "analyze group", "name", g.Name, "layers", len(g.Layers))
	defer tr.Finish("err", &err)

	for _, n := range g.Layers {
		a, err := analyzeLayer(ctx, n, opts)
		if err != nil {
			return nil, errors.Wrap(err, "layer %v", n.Name)
		}

		res = append(res, a)
	}

	return res, nil
}

// analyzeLayer converts analysis precondition failures into an error
// carrying the layer name instead of taking the process down.
func analyzeLayer(ctx context.Context, n *ir.Inst, opts analyze.Options) (a *analyze.Analysis, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}

		tlog.SpanFromContext(ctx).Printw("analysis aborted", "layer", n.Name, "panic", p, "recovered_at", loc.Caller(1))

		err = errors.New("malformed layer ir: %v", p)
	}()

	return analyze.Layer(ctx, n, opts), nil
}
