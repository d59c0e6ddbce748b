package pongo

import (
	"io"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tektonik/pkg/render/template"
)

// scopeKey holds the renderer scope in the execution context so block tags
// can reach it.
const scopeKey = "_tektonik_scope"

func init() {
	mustRegisterTag("section", sectionTagParser("endsection", false))
	mustRegisterTag("push", sectionTagParser("endpush", true))
}

func mustRegisterTag(name string, parser pongo2.TagParser) {
	if err := pongo2.RegisterTag(name, parser); err != nil {
		panic(err)
	}
}

type sectionTagNode struct {
	position   *pongo2.Token
	name       pongo2.IEvaluator
	appendMode bool
	wrapper    *pongo2.NodeWrapper
}

func (node *sectionTagNode) Execute(ctx *pongo2.ExecutionContext, _ pongo2.TemplateWriter) *pongo2.Error {
	scope, ok := ctx.Public[scopeKey].(template.Scope)
	if !ok {
		return ctx.Error("section tags need a renderer scope", node.position)
	}
	name, perr := node.name.Evaluate(ctx)
	if perr != nil {
		return perr
	}

	var inner *pongo2.Error
	err := scope.Capture(name.String(), node.appendMode, func(w io.Writer) error {
		inner = node.wrapper.Execute(ctx, stringWriter{w})
		if inner != nil {
			return inner
		}
		return nil
	})
	if inner != nil {
		return inner
	}
	if err != nil {
		return ctx.OrigError(err, node.position)
	}
	return nil
}

func sectionTagParser(endTag string, appendMode bool) pongo2.TagParser {
	return func(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		node := &sectionTagNode{position: start, appendMode: appendMode}

		name, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		node.name = name
		if arguments.Remaining() > 0 {
			return nil, arguments.Error("Section tags take exactly one argument, the section name.", nil)
		}

		wrapper, endArgs, err := doc.WrapUntilTag(endTag)
		if err != nil {
			return nil, err
		}
		if endArgs.Remaining() > 0 {
			return nil, endArgs.Error("Arguments not allowed here.", nil)
		}
		node.wrapper = wrapper
		return node, nil
	}
}

type stringWriter struct {
	io.Writer
}

func (w stringWriter) WriteString(s string) (int, error) {
	return io.WriteString(w.Writer, s)
}
