package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xa-lang/xa/internal/parser"
)

// Dump formats understood by Dump.
const (
	DumpTree = "tree"
	DumpYAML = "yaml"
	DumpJSON = "json"
)

// Node is a generic, serialisable view of one AST node.
type Node struct {
	Type     string  `json:"type" yaml:"type"`
	Role     string  `json:"role,omitempty" yaml:"role,omitempty"`
	Pos      string  `json:"pos,omitempty" yaml:"pos,omitempty"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Value    *int32  `json:"value,omitempty" yaml:"value,omitempty"`
	Operator string  `json:"operator,omitempty" yaml:"operator,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree converts p into a Node tree.
func Tree(p *parser.Program) *Node {
	root := &Node{Type: "Program"}
	if p != nil && p.Body != nil {
		root.Pos = p.Pos().String()
		root.Children = statementNodes(p.Body)
	}
	return root
}

func statementNodes(b *parser.Block) []*Node {
	if b == nil {
		return nil
	}
	nodes := make([]*Node, 0, len(b.Statements))
	for _, stmt := range b.Statements {
		nodes = append(nodes, statementNode(stmt))
	}
	return nodes
}

func blockNode(role string, b *parser.Block) *Node {
	n := &Node{Type: "Block", Role: role, Children: statementNodes(b)}
	if b != nil {
		n.Pos = b.Pos().String()
	}
	return n
}

func statementNode(stmt parser.Statement) *Node {
	n := &Node{Pos: stmt.Pos().String()}

	switch s := stmt.(type) {
	case *parser.AssignStatement:
		n.Type, n.Name = "Assign", s.Name
		n.Children = []*Node{expressionNode("value", s.Value)}
	case *parser.OutputStatement:
		n.Type = "Output"
		n.Children = []*Node{expressionNode("value", s.Value)}
	case *parser.RepeatStatement:
		n.Type = "Repeat"
		n.Children = []*Node{expressionNode("count", s.Count), blockNode("body", s.Body)}
	case *parser.IfStatement:
		n.Type = "If"
		n.Children = []*Node{expressionNode("condition", s.Condition), blockNode("body", s.Body)}
		for _, arm := range s.ElseIfs {
			n.Children = append(n.Children, &Node{
				Type:     "ElseIf",
				Pos:      arm.At.String(),
				Children: []*Node{expressionNode("condition", arm.Condition), blockNode("body", arm.Body)},
			})
		}
		n.Children = append(n.Children, blockNode("else", s.Else))
	}
	return n
}

func expressionNode(role string, e parser.Expression) *Node {
	n := &Node{Role: role}
	if e == nil {
		n.Type = "Missing"
		return n
	}
	n.Pos = e.Pos().String()

	switch x := e.(type) {
	case *parser.IntegerLiteral:
		v := x.Value
		n.Type, n.Value = "Literal", &v
	case *parser.VariableRef:
		n.Type, n.Name = "Var", x.Name
	case *parser.BinaryExpression:
		n.Type, n.Operator = "Binary", x.Operator.Name()
		n.Children = []*Node{expressionNode("left", x.Left), expressionNode("right", x.Right)}
	}
	return n
}

// Dump renders p in the named format.
func Dump(p *parser.Program, format string) ([]byte, error) {
	tree := Tree(p)

	switch format {
	case DumpYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil

	case DumpJSON:
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil

	case DumpTree, "":
		return []byte(tree.Text()), nil
	}
	return nil, fmt.Errorf("unknown dump format %q (want %s, %s or %s)", format, DumpTree, DumpYAML, DumpJSON)
}

// Text renders the tree one node per line, children indented by two spaces.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb, 0)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if n.Role != "" {
		sb.WriteString(n.Role + ": ")
	}
	sb.WriteString(n.Type)
	switch {
	case n.Name != "":
		sb.WriteString(" " + n.Name)
	case n.Value != nil:
		fmt.Fprintf(sb, " %d", *n.Value)
	case n.Operator != "":
		sb.WriteString(" " + n.Operator)
	}
	if n.Pos != "" {
		sb.WriteString(" @" + n.Pos)
	}
	sb.WriteByte('\n')

	for _, c := range n.Children {
		c.writeText(sb, depth+1)
	}
}
