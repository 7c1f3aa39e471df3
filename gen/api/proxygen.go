package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/xerrors"
)

const modulePath = "github.com/fundport/fundport"

type methodMeta struct {
	Name        string
	NamedParams string
	ParamNames  string
	Results     string
	DefRes      string
}

type ifaceMeta struct {
	Name    string
	Methods []*methodMeta
}

type meta struct {
	Imports [][]string
	Infos   []*ifaceMeta
}

func main() {
	if err := generate("./api", "proxy_gen.go"); err != nil {
		fmt.Println("error: ", err)
		os.Exit(1)
	}
}

func typeName(e ast.Expr) (string, error) {
	switch t := e.(type) {
	case *ast.SelectorExpr:
		return t.X.(*ast.Ident).Name + "." + t.Sel.Name, nil
	case *ast.Ident:
		return t.Name, nil
	case *ast.ArrayType:
		subt, err := typeName(t.Elt)
		if err != nil {
			return "", err
		}
		return "[]" + subt, nil
	case *ast.StarExpr:
		subt, err := typeName(t.X)
		if err != nil {
			return "", err
		}
		return "*" + subt, nil
	case *ast.MapType:
		k, err := typeName(t.Key)
		if err != nil {
			return "", err
		}
		v, err := typeName(t.Value)
		if err != nil {
			return "", err
		}
		return "map[" + k + "]" + v, nil
	case *ast.ChanType:
		subt, err := typeName(t.Value)
		if err != nil {
			return "", err
		}
		switch t.Dir {
		case ast.SEND:
			return "chan<- " + subt, nil
		case ast.RECV:
			return "<-chan " + subt, nil
		default:
			return "chan " + subt, nil
		}
	default:
		return "", xerrors.Errorf("unsupported type %T", e)
	}
}

// importName is the identifier a path is referred by when it is imported
// without an alias.
func importName(p string) string {
	return strings.TrimPrefix(path.Base(p), "go-")
}

func methodFor(name string, ft *ast.FuncType) (*methodMeta, error) {
	var params, pnames []string
	for _, param := range ft.Params.List {
		pstr, err := typeName(param.Type)
		if err != nil {
			return nil, xerrors.Errorf("method %s: %w", name, err)
		}

		c := len(param.Names)
		if c == 0 {
			c = 1
		}
		for i := 0; i < c; i++ {
			pname := fmt.Sprintf("p%d", len(params))
			pnames = append(pnames, pname)
			params = append(params, pname+" "+pstr)
		}
	}

	var results []string
	if ft.Results != nil {
		for _, result := range ft.Results.List {
			rs, err := typeName(result.Type)
			if err != nil {
				return nil, xerrors.Errorf("method %s: %w", name, err)
			}
			results = append(results, rs)
		}
	}
	if len(results) == 0 || results[len(results)-1] != "error" {
		return nil, xerrors.Errorf("method %s must return an error last", name)
	}

	m := &methodMeta{
		Name:        name,
		NamedParams: strings.Join(params, ", "),
		ParamNames:  strings.Join(pnames, ", "),
		Results:     strings.Join(results, ", "),
	}
	if len(results) > 1 {
		m.Results = "(" + m.Results + ")"
		m.DefRes = "*new(" + results[0] + "), "
	}
	return m, nil
}

func generate(dir, out string) error {
	fset := token.NewFileSet()
	apiDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	pkgs, err := parser.ParseDir(fset, apiDir, func(fi os.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go") && fi.Name() != out
	}, parser.AllErrors)
	if err != nil {
		return err
	}
	ap, ok := pkgs["api"]
	if !ok {
		return xerrors.Errorf("no api package in %s", apiDir)
	}

	m := &meta{}
	imports := map[string]string{}

	fnames := make([]string, 0, len(ap.Files))
	for fn := range ap.Files {
		fnames = append(fnames, fn)
	}
	sort.Strings(fnames)

	for _, fn := range fnames {
		f := ap.Files[fn]
		for _, im := range f.Imports {
			p, err := strconv.Unquote(im.Path.Value)
			if err != nil {
				return err
			}
			name := importName(p)
			if im.Name != nil {
				name = im.Name.Name
			}
			imports[name] = p
		}

		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				iface, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					continue
				}

				info := &ifaceMeta{Name: ts.Name.Name}
				for _, field := range iface.Methods.List {
					ft, ok := field.Type.(*ast.FuncType)
					if !ok {
						return xerrors.Errorf("%s: embedded interfaces are not supported", ts.Name.Name)
					}
					mm, err := methodFor(field.Names[0].Name, ft)
					if err != nil {
						return err
					}
					info.Methods = append(info.Methods, mm)
				}
				m.Infos = append(m.Infos, info)
			}
		}
	}

	// keep only the imports the generated signatures refer to
	used := map[string]bool{}
	for _, info := range m.Infos {
		for _, mm := range info.Methods {
			for name := range imports {
				if strings.Contains(mm.NamedParams, name+".") || strings.Contains(mm.Results, name+".") {
					used[name] = true
				}
			}
		}
	}

	groups := make([][]string, 3)
	for name := range used {
		p := imports[name]
		g := 1
		switch {
		case !strings.Contains(strings.Split(p, "/")[0], "."):
			g = 0
		case strings.HasPrefix(p, modulePath+"/"):
			g = 2
		}
		groups[g] = append(groups[g], strconv.Quote(p))
	}
	for _, g := range groups {
		if len(g) > 0 {
			sort.Strings(g)
			m.Imports = append(m.Imports, g)
		}
	}

	var buf bytes.Buffer
	if err := proxyTemplate.Execute(&buf, m); err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return xerrors.Errorf("formatting generated source: %w", err)
	}

	return os.WriteFile(filepath.Join(apiDir, out), src, 0644)
}

var proxyTemplate = template.Must(template.New("proxy").Parse(`// Code generated by github.com/fundport/fundport/gen/api. DO NOT EDIT.

package api

import (
{{range .Imports}}{{range .}}	{{.}}
{{end}}
{{end}})
{{range .Infos}}
type {{.Name}}Struct struct {
	Internal {{.Name}}Methods
}

type {{.Name}}Methods struct {
{{range .Methods}}	{{.Name}} func({{.NamedParams}}) {{.Results}}

{{end}}}
{{end}}
{{range .Infos}}{{$name := .Name}}{{range .Methods}}
func (s *{{$name}}Struct) {{.Name}}({{.NamedParams}}) {{.Results}} {
	if s.Internal.{{.Name}} == nil {
		return {{.DefRes}}ErrNotSupported
	}
	return s.Internal.{{.Name}}({{.ParamNames}})
}
{{end}}{{end}}
{{range .Infos}}var _ {{.Name}} = new({{.Name}}Struct)
{{end}}`))
