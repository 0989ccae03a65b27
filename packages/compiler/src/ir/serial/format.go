// Package serial reads the program graph the frontend hands off: one JSON
// document per source file. Declarations carry a module-wide integer id and
// references name those ids. Enum values are spelled the way ir.Dump renders
// them.
package serial

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// document is one source file
type document struct {
	Name         string  `json:"name"`
	Package      string  `json:"package"`
	Declarations []*node `json:"declarations"`
}

// node is a declaration, a body or an expression. Kind selects the fields
// that apply.
type node struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
	Name string `json:"name"`

	Visibility string `json:"visibility"`
	Modality   string `json:"modality"`
	ClassKind  string `json:"classKind"`
	Origin     string `json:"origin"`
	Variance   string `json:"variance"`
	External   bool   `json:"external"`
	Static     bool   `json:"static"`
	Primary    bool   `json:"primary"`
	Var        bool   `json:"var"`
	Final      bool   `json:"final"`
	Late       bool   `json:"late"`

	TypeParameters    []*node    `json:"typeParameters"`
	ValueParameters   []*node    `json:"valueParameters"`
	Declarations      []*node    `json:"declarations"`
	SuperTypes        []*typeRef `json:"superTypes"`
	Overridden        []int      `json:"overridden"`
	ReturnType        *typeRef   `json:"returnType"`
	Body              *node      `json:"body"`
	BackingField      *node      `json:"backingField"`
	Getter            *node      `json:"getter"`
	Setter            *node      `json:"setter"`
	Initializer       *node      `json:"initializer"`
	Default           *node      `json:"default"`
	VarargElementType *typeRef   `json:"varargElementType"`
	Target            *typeRef   `json:"target"`

	Type          *typeRef        `json:"type"`
	Ref           int             `json:"ref"`
	Builtin       string          `json:"builtin"`
	ConstKind     string          `json:"constKind"`
	Value         json.RawMessage `json:"value"`
	Expression    *node           `json:"expression"`
	Receiver      *node           `json:"receiver"`
	Arguments     []*node         `json:"arguments"`
	TypeArguments []*typeRef      `json:"typeArguments"`
	Statements    []*node         `json:"statements"`
	Branches      []*branch       `json:"branches"`
	Operator      string          `json:"operator"`
	Operand       *typeRef        `json:"operand"`
	ElementType   *typeRef        `json:"elementType"`
	Elements      []*node         `json:"elements"`
	Operands      []*node         `json:"operands"`
	Function      *node           `json:"function"`
}

type branch struct {
	Condition *node `json:"condition"`
	Result    *node `json:"result"`
}

// children returns every node n owns, skipping absent ones
func (n *node) children() []*node {
	var result []*node
	add := func(nodes ...*node) {
		for _, c := range nodes {
			if c != nil {
				result = append(result, c)
			}
		}
	}
	add(n.TypeParameters...)
	add(n.ValueParameters...)
	add(n.Declarations...)
	add(n.Body, n.BackingField, n.Getter, n.Setter, n.Initializer, n.Default)
	add(n.Expression, n.Receiver, n.Function)
	add(n.Arguments...)
	add(n.Statements...)
	add(n.Elements...)
	add(n.Operands...)
	for _, b := range n.Branches {
		add(b.Condition, b.Result)
	}
	return result
}

// typeRef is `"dynamic"`, a function type when Return is set, or a
// classifier applied to arguments.
type typeRef struct {
	Dynamic    bool            `json:"-"`
	Classifier int             `json:"classifier"`
	Builtin    string          `json:"builtin"`
	Arguments  []*typeArgument `json:"arguments"`
	Nullable   bool            `json:"nullable"`
	Parameters []*typeRef      `json:"parameters"`
	Return     *typeRef        `json:"return"`
}

func (t *typeRef) UnmarshalJSON(data []byte) error {
	var keyword string
	if err := json.Unmarshal(data, &keyword); err == nil {
		if keyword != "dynamic" {
			return errors.Errorf("unknown type %q", keyword)
		}
		t.Dynamic = true
		return nil
	}
	type plain typeRef
	return json.Unmarshal(data, (*plain)(t))
}

type typeArgument struct {
	Star     bool     `json:"star"`
	Variance string   `json:"variance"`
	Type     *typeRef `json:"type"`
}

func decode(data []byte) (*document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Name == "" {
		return nil, errors.New("document has no name")
	}
	return &doc, nil
}
