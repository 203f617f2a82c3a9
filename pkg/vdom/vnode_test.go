package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeAttr(t *testing.T) {
	node := Input(Type("text"), Disabled(), MinLength(3), AttrIf(false, Required()))

	if v, ok := node.Attr("type"); !ok || v != "text" {
		t.Errorf("Attr(type) = %q, %v", v, ok)
	}
	if _, ok := node.Attr("disabled"); !ok {
		t.Error("Attr(disabled) should be present")
	}
	if v, ok := node.Attr("minlength"); !ok || v != "3" {
		t.Errorf("Attr(minlength) = %q, %v", v, ok)
	}
	if _, ok := node.Attr("required"); ok {
		t.Error("conditional attribute should be absent")
	}

	var nilNode *VNode
	if _, ok := nilNode.Attr("id"); ok {
		t.Error("nil node has no attributes")
	}
}

func TestClassMerging(t *testing.T) {
	node := A(Class("nav-link"), ClassIf(true, "active"), ClassIf(false, "muted"))
	got, _ := node.Attr("class")
	if got != "nav-link active" {
		t.Errorf("class = %q, want %q", got, "nav-link active")
	}
	if !node.HasClass("active") || node.HasClass("muted") {
		t.Error("HasClass mismatch")
	}
}

func TestSetClass(t *testing.T) {
	node := Div(ID("loading"), Class("loading", "hidden"))

	node.SetClass("hidden", false)
	if node.HasClass("hidden") {
		t.Error("hidden should be removed")
	}
	if !node.HasClass("loading") {
		t.Error("loading should remain")
	}

	node.SetClass("hidden", true)
	node.SetClass("hidden", true)
	if got, _ := node.Attr("class"); got != "loading hidden" {
		t.Errorf("class = %q, want %q", got, "loading hidden")
	}
}

func TestClassesSortsMapKeys(t *testing.T) {
	a := Classes("badge", map[string]bool{"signed": true, "alert": true, "off": false})
	if a.Value != "badge alert signed" {
		t.Errorf("Classes = %q", a.Value)
	}
}

func TestFindAndText(t *testing.T) {
	tree := Div(ID("app"),
		H1(Text("Contracts")),
		Ul(
			Li(ID("first"), Text("NDA")),
			Li(Text("Lease")),
		),
		nil,
	)

	if got := tree.FindByID("first"); got == nil || got.TextContent() != "NDA" {
		t.Errorf("FindByID(first) = %v", got)
	}
	if tree.FindByID("missing") != nil {
		t.Error("FindByID(missing) should be nil")
	}
	if got := tree.TextContent(); got != "ContractsNDALease" {
		t.Errorf("TextContent = %q", got)
	}

	items := tree.FindAll(func(n *VNode) bool { return n.Tag == "li" })
	if len(items) != 2 {
		t.Errorf("FindAll(li) = %d nodes, want 2", len(items))
	}
}

func TestHelpers(t *testing.T) {
	if If(false, Text("x")) != nil {
		t.Error("If(false) should be nil")
	}
	if IfElse(false, Text("a"), Text("b")).Text != "b" {
		t.Error("IfElse picked wrong branch")
	}
	called := false
	When(false, func() *VNode { called = true; return nil })
	if called {
		t.Error("When(false) must not call fn")
	}
	nodes := Range([]string{"a", "", "c"}, func(s string, i int) *VNode {
		if s == "" {
			return nil
		}
		return Textf("%d:%s", i, s)
	})
	if len(nodes) != 2 || nodes[1].Text != "2:c" {
		t.Errorf("Range = %v", nodes)
	}
	if Either(nil, Text("b")).Text != "b" {
		t.Error("Either should fall back")
	}
	frag := Fragment("a", nil, []*VNode{Text("b"), nil})
	if len(frag.Children) != 2 {
		t.Errorf("Fragment children = %d, want 2", len(frag.Children))
	}
}

func TestHashHref(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/contracts", "#/contracts"},
		{"profile", "#/profile"},
	}
	for _, tt := range tests {
		if got := HashHref(tt.path).Value; got != tt.want {
			t.Errorf("HashHref(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("input") || IsVoidElement("div") {
		t.Error("IsVoidElement mismatch")
	}
}
