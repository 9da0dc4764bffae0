package parser_test

import (
	"testing"

	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/parser"
	"quill/internal/source"
	"quill/internal/syntax"
)

// parseString парсит строку и возвращает дерево вместе с диагностиками.
func parseString(t *testing.T, src string) (*syntax.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ql", []byte(src))
	file := fs.Get(fileID)

	bag := diag.NewBag(50)
	lx := lexer.New(file, lexer.Options{Reporter: &lexer.ReporterAdapter{Bag: bag}})
	interner := source.NewInterner()
	result := parser.ParseFile(fileID, lx, interner, parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: 50,
	})
	return result.Tree, bag
}

func parseOK(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors:\nsource: %s\ndiags: %v", src, bag.Items())
	}
	return tree
}

// childrenOfKind возвращает детей узла заданного вида.
func childrenOfKind(tree *syntax.Tree, id syntax.NodeID, kind syntax.NodeKind) []syntax.NodeID {
	var out []syntax.NodeID
	for _, child := range tree.Children(id) {
		if tree.Kind(child) == kind {
			out = append(out, child)
		}
	}
	return out
}

func TestParseUsingPlain(t *testing.T) {
	tree := parseOK(t, `using Some.Deep.Name;`)
	usings := childrenOfKind(tree, tree.Root(), syntax.KindUsingDirective)
	if len(usings) != 1 {
		t.Fatalf("expected 1 using, got %d", len(usings))
	}
	node := tree.Node(usings[0])
	if node.HasAlias() || node.Global {
		t.Fatalf("plain using must have no alias and not be global")
	}
	if got := tree.NameString(usings[0]); got != "Some.Deep.Name" {
		t.Fatalf("expected target Some.Deep.Name, got %q", got)
	}
}

func TestParseUsingAlias(t *testing.T) {
	tree := parseOK(t, `using GA = Some.Namespace.MyAttribute;`)
	usings := childrenOfKind(tree, tree.Root(), syntax.KindUsingDirective)
	if len(usings) != 1 {
		t.Fatalf("expected 1 using, got %d", len(usings))
	}
	node := tree.Node(usings[0])
	if !node.HasAlias() {
		t.Fatal("expected alias")
	}
	if got := tree.Interner().MustLookup(node.Alias); got != "GA" {
		t.Fatalf("expected alias GA, got %q", got)
	}
	if got := tree.NameString(usings[0]); got != "Some.Namespace.MyAttribute" {
		t.Fatalf("expected qualified target, got %q", got)
	}
	if node.Global {
		t.Fatal("non-global using marked global")
	}
}

func TestParseGlobalUsingAlias(t *testing.T) {
	tree := parseOK(t, `global using GA = Lib.X;`)
	usings := childrenOfKind(tree, tree.Root(), syntax.KindUsingDirective)
	node := tree.Node(usings[0])
	if !node.Global || !node.HasAlias() {
		t.Fatalf("expected global aliased using, got global=%v alias=%v", node.Global, node.HasAlias())
	}
}

// Алиас обязан быть одиночным идентификатором.
func TestAliasMustBeSingleIdent(t *testing.T) {
	_, bag := parseString(t, `using A.B = Lib.X;`)
	if !bag.HasErrors() {
		t.Fatal("expected error for dotted alias")
	}
}

func TestAttributesAttachAsFirstChildren(t *testing.T) {
	tree := parseOK(t, `
[First]
[Second, Third.Qualified]
class Target {
}
`)
	classes := childrenOfKind(tree, tree.Root(), syntax.KindClassDecl)
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(classes))
	}
	children := tree.Children(classes[0])
	if len(children) < 2 {
		t.Fatalf("expected 2 attribute lists, got %d children", len(children))
	}
	// Списки атрибутов — первые дети, в порядке записи.
	if tree.Kind(children[0]) != syntax.KindAttributeList || tree.Kind(children[1]) != syntax.KindAttributeList {
		t.Fatal("attribute lists must be the first children of the declaration")
	}
	firstAttrs := tree.Children(children[0])
	if len(firstAttrs) != 1 {
		t.Fatalf("expected 1 attribute in first list, got %d", len(firstAttrs))
	}
	if got := tree.NameString(firstAttrs[0]); got != "First" {
		t.Fatalf("expected attribute First, got %q", got)
	}
	secondAttrs := tree.Children(children[1])
	if len(secondAttrs) != 2 {
		t.Fatalf("expected 2 attributes in second list, got %d", len(secondAttrs))
	}
	if got := tree.NameString(secondAttrs[1]); got != "Third.Qualified" {
		t.Fatalf("expected qualified attribute, got %q", got)
	}
}

func TestAttributeArgumentsSkipped(t *testing.T) {
	tree := parseOK(t, `
[Attr("string (with paren", 1, (2))]
class A;
`)
	classes := childrenOfKind(tree, tree.Root(), syntax.KindClassDecl)
	if len(classes) != 1 {
		t.Fatalf("expected class to survive argument skipping, got %d", len(classes))
	}
}

func TestEmptyAttributeListWarns(t *testing.T) {
	tree, bag := parseString(t, `
[]
class A;
`)
	if bag.HasErrors() {
		t.Fatalf("empty list must be a warning, got errors: %v", bag.Items())
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynEmptyAttributeList && d.Severity == diag.SevWarning {
			found = true
		}
	}
	if !found {
		t.Fatal("expected empty-attribute-list warning")
	}
	if len(childrenOfKind(tree, tree.Root(), syntax.KindClassDecl)) != 1 {
		t.Fatal("declaration after empty list must still parse")
	}
}

func TestNestedNamespacesAndDecls(t *testing.T) {
	tree := parseOK(t, `
namespace Outer.Ns {
    using L = Lib.X;

    namespace Inner {
        struct S;
    }

    class C {
        record R;
    }

    interface I;
    enum E;
}
`)
	namespaces := childrenOfKind(tree, tree.Root(), syntax.KindNamespaceDecl)
	if len(namespaces) != 1 {
		t.Fatalf("expected 1 namespace, got %d", len(namespaces))
	}
	outer := namespaces[0]
	if got := tree.NameString(outer); got != "Outer.Ns" {
		t.Fatalf("expected dotted namespace name, got %q", got)
	}
	inner := childrenOfKind(tree, outer, syntax.KindNamespaceDecl)
	if len(inner) != 1 || len(childrenOfKind(tree, inner[0], syntax.KindStructDecl)) != 1 {
		t.Fatal("expected nested namespace with struct")
	}
	classes := childrenOfKind(tree, outer, syntax.KindClassDecl)
	if len(classes) != 1 || len(childrenOfKind(tree, classes[0], syntax.KindRecordDecl)) != 1 {
		t.Fatal("expected class with nested record")
	}
	if len(childrenOfKind(tree, outer, syntax.KindInterfaceDecl)) != 1 {
		t.Fatal("expected interface")
	}
	if len(childrenOfKind(tree, outer, syntax.KindEnumDecl)) != 1 {
		t.Fatal("expected enum")
	}
}

// Незнакомые члены тела типа пропускаются, вложенные декларации распознаются.
func TestTypeBodySkipsUnknownMembers(t *testing.T) {
	tree := parseOK(t, `
class Host {
    void Method(int x) { if (x) { nested(); } }
    int field;

    [Mark]
    class Nested;
}
`)
	classes := childrenOfKind(tree, tree.Root(), syntax.KindClassDecl)
	if len(classes) != 1 {
		t.Fatalf("expected 1 top-level class, got %d", len(classes))
	}
	nested := childrenOfKind(tree, classes[0], syntax.KindClassDecl)
	if len(nested) != 1 {
		t.Fatalf("expected nested class to be recognized, got %d", len(nested))
	}
}

// Ошибка в одной конструкции не валит разбор остальных (resync).
func TestErrorRecovery(t *testing.T) {
	tree, bag := parseString(t, `
using ;
class Good;
`)
	if !bag.HasErrors() {
		t.Fatal("expected error for malformed using")
	}
	if len(childrenOfKind(tree, tree.Root(), syntax.KindClassDecl)) != 1 {
		t.Fatal("parser must recover and parse the following declaration")
	}
}

func TestMissingSemicolonIsWarning(t *testing.T) {
	tree, bag := parseString(t, `using Lib.X
class A;`)
	if bag.HasErrors() {
		t.Fatalf("missing ';' must be a warning, got errors: %v", bag.Items())
	}
	if !bag.HasWarnings() {
		t.Fatal("expected a warning for missing ';'")
	}
	if len(childrenOfKind(tree, tree.Root(), syntax.KindUsingDirective)) != 1 {
		t.Fatal("using directive must still be recorded")
	}
}

func TestUnexpectedTopLevelToken(t *testing.T) {
	tree, bag := parseString(t, `
; class A;
`)
	if !bag.HasErrors() {
		t.Fatal("expected error for stray token")
	}
	if len(childrenOfKind(tree, tree.Root(), syntax.KindClassDecl)) != 1 {
		t.Fatal("parser must recover after stray token")
	}
}

// Лимит ошибок останавливает репортинг, но не разбор.
func TestMaxErrorsLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ql", []byte("; ; ; ; ;"))
	file := fs.Get(fileID)

	bag := diag.NewBag(50)
	lx := lexer.New(file, lexer.Options{})
	parser.ParseFile(fileID, lx, source.NewInterner(), parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: 2,
	})
	if bag.Len() > 2 {
		t.Fatalf("expected at most 2 reported diagnostics, got %d", bag.Len())
	}
}
