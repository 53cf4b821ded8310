package util

import (
	"bytes"
	"strings"
	"text/template"
	"text/template/parse"
)

var promptFuncs = template.FuncMap{
	"default": func(def, val any) any {
		if val == nil || val == "" {
			return def
		}

		return val
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"join": func(sep string, items []string) string {
		return strings.Join(items, sep)
	},
}

// RenderTemplate renders a prompt with text/template. Prompts are plain text,
// so nothing is escaped. Variables the prompt references but vars lacks
// render as empty strings and are false in conditionals.
func RenderTemplate(text string, vars map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("prompt").Funcs(promptFuncs).Parse(text)
	if err != nil {
		return "", err
	}

	data := make(map[string]any, len(vars))
	for k, v := range vars {
		data[k] = v
	}

	for _, name := range referencedFields(tmpl.Tree.Root) {
		if _, ok := data[name]; !ok {
			data[name] = ""
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// referencedFields returns the first identifier of every field access
// ({{.name}}, {{.name.sub}}) in the tree.
func referencedFields(root parse.Node) []string {
	var names []string

	var walk func(n parse.Node)

	walk = func(n parse.Node) {
		switch n := n.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}

			for _, c := range n.Nodes {
				walk(c)
			}
		case *parse.ActionNode:
			walk(n.Pipe)
		case *parse.PipeNode:
			if n == nil {
				return
			}

			for _, c := range n.Cmds {
				walk(c)
			}
		case *parse.CommandNode:
			for _, a := range n.Args {
				walk(a)
			}
		case *parse.ChainNode:
			walk(n.Node)
		case *parse.FieldNode:
			names = append(names, n.Ident[0])
		case *parse.IfNode:
			walk(n.Pipe)
			walk(n.List)
			walk(n.ElseList)
		case *parse.RangeNode:
			walk(n.Pipe)
			walk(n.List)
			walk(n.ElseList)
		case *parse.WithNode:
			walk(n.Pipe)
			walk(n.List)
			walk(n.ElseList)
		case *parse.TemplateNode:
			walk(n.Pipe)
		}
	}

	walk(root)

	return names
}
