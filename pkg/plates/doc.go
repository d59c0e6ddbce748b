// Package plates resolves logical template names to files and renders them.
//
// An identifier is either a bare file name ("profile") looked up across the
// engine's ordered default directories, or a namespaced name
// ("emails::welcome") looked up through a registered folder. Namespaced
// lookups first honour overrides under "<root>/plugin/<namespace>/" in the
// default directories, which lets a theme replace individual files shipped by
// a plugin; fallback folders additionally resolve missing files against the
// default directories.
//
// A Template renders one body. While it runs, the body can capture named
// sections, defer its final composition to a layout, render sibling
// templates and call registered helpers:
//
//	engine := plates.New(plates.WithDirectory("templates"))
//	_ = engine.RegisterFunction("upper", strings.ToUpper)
//	out, err := engine.Render("profile", map[string]any{"name": "Ada"})
//
// The layout receives the child's sections plus its output under the
// reserved "content" section.
package plates
