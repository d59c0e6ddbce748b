package plates_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-tektonik/pkg/plates"
	"github.com/goliatone/go-tektonik/pkg/testsupport"
)

func TestPath_RootPrecedence(t *testing.T) {
	first := testsupport.TemplateTree(t, map[string]string{
		"shared.tpl": "first",
	})
	second := testsupport.TemplateTree(t, map[string]string{
		"shared.tpl": "second",
		"only.tpl":   "second only",
	})
	engine := plates.New(plates.WithDirectory(first, second))

	cases := []struct {
		name string
		want string
	}{
		{name: "shared", want: filepath.Join(first, "shared.tpl")},
		{name: "only", want: filepath.Join(second, "only.tpl")},
		{name: "missing", want: filepath.Join(first, "missing.tpl")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Path(tc.name)
			if err != nil {
				t.Fatalf("path: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	if engine.Exists("missing") {
		t.Fatalf("expected missing template to not exist")
	}
	if !engine.Exists("only") {
		t.Fatalf("expected only template to exist")
	}
}

func TestPath_Deterministic(t *testing.T) {
	root := testsupport.TemplateTree(t, map[string]string{"page.tpl": "x"})
	engine := plates.New(plates.WithDirectory(root))

	first, err := engine.Path("page")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := engine.Path("page")
		if err != nil {
			t.Fatalf("path: %v", err)
		}
		if again != first {
			t.Fatalf("expected stable path %q, got %q", first, again)
		}
	}
}

func TestPath_FolderFallback(t *testing.T) {
	root := testsupport.TemplateTree(t, map[string]string{"welcome.tpl": "root"})
	folder := t.TempDir()

	cases := []struct {
		name     string
		fallback bool
		want     string
	}{
		{name: "fallback", fallback: true, want: filepath.Join(root, "welcome.tpl")},
		{name: "no fallback", fallback: false, want: filepath.Join(folder, "welcome.tpl")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := plates.New(plates.WithDirectory(root))
			if err := engine.AddFolder("emails", folder, tc.fallback); err != nil {
				t.Fatalf("add folder: %v", err)
			}
			got, err := engine.Path("emails::welcome")
			if err != nil {
				t.Fatalf("path: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPath_FolderFileWinsOverFallback(t *testing.T) {
	root := testsupport.TemplateTree(t, map[string]string{"welcome.tpl": "root"})
	folder := testsupport.TemplateTree(t, map[string]string{"welcome.tpl": "folder"})

	engine := plates.New(plates.WithDirectory(root))
	if err := engine.AddFolder("emails", folder, true); err != nil {
		t.Fatalf("add folder: %v", err)
	}
	got, err := engine.Path("emails::welcome")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if want := filepath.Join(folder, "welcome.tpl"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPath_PluginOverride(t *testing.T) {
	first := t.TempDir()
	second := testsupport.TemplateTree(t, map[string]string{
		"plugin/emails/welcome.tpl": "override",
	})
	folder := testsupport.TemplateTree(t, map[string]string{"welcome.tpl": "folder"})

	engine := plates.New(plates.WithDirectory(first, second))
	if err := engine.AddFolder("emails", folder, false); err != nil {
		t.Fatalf("add folder: %v", err)
	}
	got, err := engine.Path("emails::welcome")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if want := filepath.Join(second, "plugin", "emails", "welcome.tpl"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	out, err := engine.Render("emails::welcome", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "override" {
		t.Fatalf("expected override body, got %q", out)
	}
}

func TestPath_InvalidIdentifiers(t *testing.T) {
	root := t.TempDir()
	engine := plates.New(plates.WithDirectory(root))

	cases := []struct {
		identifier string
		want       error
	}{
		{identifier: "", want: plates.ErrInvalidIdentifier},
		{identifier: "a::b::c", want: plates.ErrInvalidIdentifier},
		{identifier: "a::", want: plates.ErrInvalidIdentifier},
		{identifier: "::", want: plates.ErrInvalidIdentifier},
		{identifier: "::page", want: plates.ErrUnknownFolder},
		{identifier: "missing::page", want: plates.ErrUnknownFolder},
	}
	for _, tc := range cases {
		t.Run(tc.identifier, func(t *testing.T) {
			_, err := engine.Path(tc.identifier)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if engine.Exists(tc.identifier) {
				t.Fatalf("expected %q to not exist", tc.identifier)
			}
		})
	}
}

func TestPath_NoDefaultDirectory(t *testing.T) {
	engine := plates.New()

	if _, err := engine.Path("page"); !errors.Is(err, plates.ErrNoDefaultDirectory) {
		t.Fatalf("expected ErrNoDefaultDirectory, got %v", err)
	}

	if err := engine.AddFolder("emails", t.TempDir(), false); err != nil {
		t.Fatalf("add folder: %v", err)
	}
	if _, err := engine.Path("emails::page"); !errors.Is(err, plates.ErrNoDefaultDirectory) {
		t.Fatalf("expected ErrNoDefaultDirectory for namespaced lookup, got %v", err)
	}
	if _, err := engine.Path("other::page"); !errors.Is(err, plates.ErrUnknownFolder) {
		t.Fatalf("expected unknown folder to be reported first, got %v", err)
	}
}

func TestPath_FileExtension(t *testing.T) {
	root := testsupport.TemplateTree(t, map[string]string{
		"page.html": "html",
		"raw":       "raw",
	})

	engine := plates.New(plates.WithDirectory(root), plates.WithFileExtension(".html"))
	if got := engine.FileExtension(); got != "html" {
		t.Fatalf("expected extension without dot, got %q", got)
	}
	if !engine.Exists("page") {
		t.Fatalf("expected page.html to resolve")
	}

	engine.SetFileExtension("")
	if !engine.Exists("raw") {
		t.Fatalf("expected identifier to be used verbatim without an extension")
	}
	if engine.Exists("page") {
		t.Fatalf("expected page to not resolve without an extension")
	}
}

func TestName_Parts(t *testing.T) {
	folder := t.TempDir()
	engine := plates.New(plates.WithDirectory(t.TempDir()))
	if err := engine.AddFolder("emails", folder, false); err != nil {
		t.Fatalf("add folder: %v", err)
	}

	name := engine.Make("emails::welcome").Name()
	if got := name.Identifier(); got != "emails::welcome" {
		t.Fatalf("unexpected identifier %q", got)
	}
	file, err := name.File()
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if file != "welcome.tpl" {
		t.Fatalf("expected welcome.tpl, got %q", file)
	}
	got, ok, err := name.Folder()
	if err != nil || !ok {
		t.Fatalf("expected folder, got ok=%v err=%v", ok, err)
	}
	if got.Path != folder {
		t.Fatalf("expected folder path %q, got %q", folder, got.Path)
	}

	_, ok, err = engine.Make("page").Name().Folder()
	if err != nil || ok {
		t.Fatalf("expected no folder for plain identifier, got ok=%v err=%v", ok, err)
	}
}
