package plates_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tektonik/pkg/plates"
	"github.com/goliatone/go-tektonik/pkg/testsupport"
)

func newEngine(t *testing.T, files map[string]string, options ...plates.Option) *plates.Engine {
	t.Helper()
	root := testsupport.TemplateTree(t, files)
	return plates.New(append([]plates.Option{plates.WithDirectory(root)}, options...)...)
}

func render(t *testing.T, engine *plates.Engine, name string, data map[string]any) string {
	t.Helper()
	out, err := engine.Render(name, data)
	if err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return out
}

func TestRender_Bindings(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl": "Hello {{ name }}",
	})

	if got := render(t, engine, "page", map[string]any{"name": "World"}); got != "Hello World" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRender_SharedAndScopedData(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl":  "{{ site }}/{{ title }}",
		"other.tpl": "{{ site }}/{{ title }}",
	})
	if err := engine.AddData(map[string]any{"site": "S", "title": "shared"}, nil); err != nil {
		t.Fatalf("add shared: %v", err)
	}
	if err := engine.AddData(map[string]any{"title": "scoped"}, "page"); err != nil {
		t.Fatalf("add scoped: %v", err)
	}

	if got := render(t, engine, "page", nil); got != "S/scoped" {
		t.Fatalf("expected scoped data to win, got %q", got)
	}
	if got := render(t, engine, "other", nil); got != "S/shared" {
		t.Fatalf("expected shared data only, got %q", got)
	}
	if got := render(t, engine, "page", map[string]any{"title": "call"}); got != "S/call" {
		t.Fatalf("expected render data to win, got %q", got)
	}
}

func TestRender_SectionReplaceAndPush(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"replace.tpl": `{{ start("s") }}A{{ stop() }}{{ start("s") }}B{{ stop() }}{{ section("s") }}`,
		"push.tpl":    `{{ push("s") }}A{{ stop() }}{{ push("s") }}B{{ end() }}{{ section("s") }}`,
		"default.tpl": `{{ section("missing", "fallback") }}`,
	})

	cases := map[string]string{
		"replace": "B",
		"push":    "AB",
		"default": "fallback",
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			if got := render(t, engine, name, nil); got != want {
				t.Fatalf("expected %q, got %q", want, got)
			}
		})
	}
}

func TestRender_SectionErrors(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"reserved.tpl":     `{{ start("content") }}x{{ stop() }}`,
		"nested.tpl":       `{{ start("a") }}{{ start("b") }}{{ stop() }}{{ stop() }}`,
		"stray.tpl":        `{{ stop() }}`,
		"unterminated.tpl": `{{ start("a") }}never closed`,
	})

	cases := map[string]error{
		"reserved":     plates.ErrReservedSectionName,
		"nested":       plates.ErrNestedSection,
		"stray":        plates.ErrNoActiveSection,
		"unterminated": plates.ErrUnterminatedSection,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := engine.Render(name, nil)
			if !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
			if out != "" {
				t.Fatalf("expected no output on failure, got %q", out)
			}
		})
	}
}

func TestRender_SectionTags(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"filtered.tpl": `{{ layout("layout") }}{% filter upper %}{% section "nav" %}n{% endsection %}body{% endfilter %}`,
		"macro.tpl": `{% macro link(label) %}{% push "nav" %}<{{ label }}>{% endpush %}{% endmacro %}` +
			`{{ layout("layout") }}{{ link("a") }}{{ link("b") }}x`,
		"layout.tpl": `[{{ section("nav") }}]{{ section("content") }}`,
	})

	cases := map[string]string{
		"filtered": "[n]BODY",
		"macro":    "[<a><b>]x",
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			if got := render(t, engine, name, nil); got != want {
				t.Fatalf("expected %q, got %q", want, got)
			}
		})
	}
}

func TestRender_SectionTagErrors(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"reserved.tpl":   `{% section "content" %}x{% endsection %}`,
		"start.tpl":      `{% section "a" %}{{ start("b") }}{% endsection %}`,
		"stop.tpl":       `{% section "a" %}{{ stop() }}{% endsection %}`,
		"inside.tpl":     `{{ start("a") }}{% section "b" %}x{% endsection %}{{ stop() }}`,
		"nested_tag.tpl": `{% section "a" %}{% push "b" %}x{% endpush %}{% endsection %}`,
	})

	cases := map[string]error{
		"reserved":   plates.ErrReservedSectionName,
		"start":      plates.ErrNestedSection,
		"stop":       plates.ErrNoActiveSection,
		"inside":     plates.ErrNestedSection,
		"nested_tag": plates.ErrNestedSection,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := engine.Render(name, nil)
			if !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
			if out != "" {
				t.Fatalf("expected no output on failure, got %q", out)
			}
		})
	}
}

func TestTemplate_SectionsOnlyWhileRendering(t *testing.T) {
	engine := newEngine(t, map[string]string{"page.tpl": "x"})

	tmpl := engine.Make("page")
	if err := tmpl.Start("s"); !errors.Is(err, plates.ErrNotRendering) {
		t.Fatalf("expected ErrNotRendering before render, got %v", err)
	}
	if tmpl.State() != plates.StateIdle {
		t.Fatalf("expected idle state, got %s", tmpl.State())
	}
	if got, err := tmpl.Render(nil); err != nil || got != "x" {
		t.Fatalf("expected x, got %q (%v)", got, err)
	}
	if err := tmpl.Push("s"); !errors.Is(err, plates.ErrNotRendering) {
		t.Fatalf("expected ErrNotRendering after render, got %v", err)
	}
}

func TestRender_Layout(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl":   `{{ layout("layout") }}{{ start("nav") }}N{{ stop() }}X`,
		"layout.tpl": `[{{ section("nav") }}]{{ section("content") }}`,
	})

	if got := render(t, engine, "page", nil); got != "[N]X" {
		t.Fatalf("expected [N]X, got %q", got)
	}
}

func TestRender_LayoutData(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl":   `{{ layout("layout", dict("title", "Home")) }}body`,
		"layout.tpl": `<{{ title }}|{{ user }}>{{ section("content") }}`,
	})

	got := render(t, engine, "page", map[string]any{"user": "ana", "title": "ignored"})
	if got != "<Home|ana>body" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRender_LayoutReplaced(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl":   `{{ layout("first") }}{{ layout("second") }}X`,
		"first.tpl":  `first:{{ section("content") }}`,
		"second.tpl": `second:{{ section("content") }}`,
	})

	if got := render(t, engine, "page", nil); got != "second:X" {
		t.Fatalf("expected the later layout to win, got %q", got)
	}
}

func TestRender_NestedLayouts(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl":  `{{ layout("inner") }}{{ start("title") }}T{{ stop() }}P`,
		"inner.tpl": `{{ layout("outer") }}<i>{{ section("content") }}</i>`,
		"outer.tpl": `{{ section("title") }}:{{ section("content") }}`,
	})

	if got := render(t, engine, "page", nil); got != "T:<i>P</i>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRender_FetchAndInsert(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl":    `A{{ insert("partial", dict("who", "W")) }}C{{ fetch("partial") }}`,
		"partial.tpl": `{{ who }}`,
	})

	if got := render(t, engine, "page", map[string]any{"who": "page"}); got != "AWCpage" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRender_FetchFailurePropagates(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl":   `{{ start("s") }}partial{{ fetch("broken") }}{{ stop() }}`,
		"broken.tpl": `{{ start("content") }}`,
	})

	_, err := engine.Render("page", nil)
	if !errors.Is(err, plates.ErrReservedSectionName) {
		t.Fatalf("expected fetched failure to propagate, got %v", err)
	}

	_, err = engine.Render("missing", nil)
	if !errors.Is(err, plates.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestRender_Once(t *testing.T) {
	engine := newEngine(t, map[string]string{"page.tpl": "x"})

	tmpl := engine.Make("page")
	if tmpl.State() != plates.StateIdle {
		t.Fatalf("expected idle state, got %s", tmpl.State())
	}
	if _, err := tmpl.Render(nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if tmpl.State() != plates.StateDone {
		t.Fatalf("expected done state, got %s", tmpl.State())
	}
	if _, err := tmpl.Render(nil); !errors.Is(err, plates.ErrTemplateRendered) {
		t.Fatalf("expected ErrTemplateRendered, got %v", err)
	}
}

func TestRender_ReplaceName(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"a.tpl": "a",
		"b.tpl": "b",
	})

	tmpl := engine.Make("a")
	tmpl.ReplaceName("b")
	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "b" {
		t.Fatalf("expected b, got %q", out)
	}
}

func TestRender_Autoescape(t *testing.T) {
	engine := newEngine(t, map[string]string{
		"page.tpl": `{{ value }}|{{ e(value) }}|{{ e(value, "upper") }}`,
	})

	got := render(t, engine, "page", map[string]any{"value": "<b>"})
	if want := "&lt;b&gt;|&lt;b&gt;|&lt;B&gt;"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRender_Observer(t *testing.T) {
	var seen []string
	observer := plates.ObserverFunc(func(identifier string, _ time.Duration, err error) {
		status := "ok"
		if err != nil {
			status = "error"
		}
		seen = append(seen, identifier+":"+status)
	})
	engine := newEngine(t, map[string]string{
		"page.tpl":   `{{ layout("layout") }}X`,
		"layout.tpl": `{{ section("content") }}`,
	}, plates.WithObserver(observer))

	render(t, engine, "page", nil)
	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatalf("expected missing template to fail")
	}

	want := []string{"layout:ok", "page:ok", "missing:error"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("observer calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SkipsBindingsThatAreNotIdentifiers(t *testing.T) {
	engine := newEngine(t, map[string]string{"page.tpl": "Hello {{ name }}"})

	tmpl := engine.Make("page")
	out, err := tmpl.Render(map[string]any{"name": "W", "data-id": 1})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello W" {
		t.Fatalf("unexpected output %q", out)
	}
	if got := tmpl.Data()["data-id"]; got != 1 {
		t.Fatalf("expected data-id to stay in the template data, got %v", got)
	}
}

func TestTemplate_DataIsCopied(t *testing.T) {
	engine := newEngine(t, map[string]string{"page.tpl": "{{ name }}"})

	tmpl := engine.Make("page")
	tmpl.Assign(map[string]any{"name": "a"})
	data := tmpl.Data()
	data["name"] = "b"

	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "a" {
		t.Fatalf("expected template data to be isolated, got %q", out)
	}
}
