package markup

import (
	"strings"
	"testing"
)

func TestParsePlainText(t *testing.T) {
	nodes, err := Parse("<p>hello</p>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(nodes) != 1 || !nodes[0].IsText() {
		t.Fatalf("expected one text node, got %#v", nodes)
	}
	if nodes[0].Text != "<p>hello</p>" {
		t.Fatalf("text not preserved: %q", nodes[0].Text)
	}
}

func TestParseSelfClosingTag(t *testing.T) {
	nodes, err := Parse(`before <r:shopping:cart:total /> after`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	tag := nodes[1]
	if tag.Name != "shopping:cart:total" {
		t.Fatalf("name = %q", tag.Name)
	}
	if tag.Raw != `<r:shopping:cart:total />` {
		t.Fatalf("raw = %q", tag.Raw)
	}
}

func TestParseAttributes(t *testing.T) {
	nodes, err := Parse(`<r:shopping:product:each only="alpha beta" limit='3'></r:shopping:product:each>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tag := nodes[0]
	if got := tag.Attr("only"); got != "alpha beta" {
		t.Fatalf("only = %q", got)
	}
	if got := tag.Attr("limit"); got != "3" {
		t.Fatalf("limit = %q", got)
	}
	if got := tag.AttrDefault("quantity", "1"); got != "1" {
		t.Fatalf("default = %q", got)
	}
}

func TestParseNestedTags(t *testing.T) {
	src := `<r:shopping><r:shopping:product:each><li><r:shopping:product:code /></li></r:shopping:product:each></r:shopping>`
	nodes, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outer := nodes[0]
	if outer.Name != "shopping" || len(outer.Children) != 1 {
		t.Fatalf("outer = %#v", outer)
	}
	each := outer.Children[0]
	if each.Name != "shopping:product:each" || len(each.Children) != 3 {
		t.Fatalf("each = %#v", each)
	}
	if each.Children[1].Name != "shopping:product:code" {
		t.Fatalf("inner = %#v", each.Children[1])
	}
	if outer.Raw != src {
		t.Fatalf("raw = %q", outer.Raw)
	}
}

func TestParseSameNameNesting(t *testing.T) {
	src := `<r:shopping:cart><r:shopping:cart>x</r:shopping:cart></r:shopping:cart>`
	nodes, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(nodes) != 1 || len(nodes[0].Children) != 1 {
		t.Fatalf("nesting broken: %#v", nodes)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"unclosed", `<r:shopping>text`, "missing closing tag"},
		{"mismatched", `<r:shopping:cart><r:shopping:eula></r:shopping:cart></r:shopping:eula>`, "mismatched closing tag"},
		{"stray closer", `text</r:shopping>`, "unexpected closing tag"},
		{"unquoted attr", `<r:shopping:product:price quantity=3 />`, "must be quoted"},
		{"missing value", `<r:shopping:product:each only />`, "missing value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			if err == nil {
				t.Fatalf("expected error for %q", tc.src)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
