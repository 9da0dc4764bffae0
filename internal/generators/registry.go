// Package generators содержит встроенные генераторы quill. Они же служат
// эталоном для авторов плагинов: минимальный Init/Execute плюс необязательный
// инкрементальный callback.
package generators

import (
	"strings"

	"quill/internal/gen"
	"quill/internal/syntax"
)

// registryHint — имя единственного артефакта Registry-генератора.
const registryHint = "registry.g.ql"

// Registry собирает все классы с атрибутом [Registry] и генерирует один
// файл-перечень. От additional texts не зависит, поэтому любые text-правки
// обрабатывает "без изменений".
type Registry struct{}

func NewRegistry() *Registry { return &Registry{} }

func (*Registry) Name() string { return "quill.Registry" }

func (*Registry) Init(ic *gen.InitContext) error {
	ic.RegisterEditCallback(func(ec *gen.EditContext, edit gen.Edit) bool {
		// Вывод зависит только от исходников: правка принята, артефакты
		// остаются байт-в-байт прежними.
		switch edit.Kind {
		case gen.EditTextAdded, gen.EditTextRemoved, gen.EditTextChanged:
			return true
		default:
			return false
		}
	})
	return nil
}

func (*Registry) Execute(ec *gen.ExecContext) error {
	var names []string
	for _, tree := range ec.Units() {
		nodes, err := ec.FindAttributedNodes(tree, "Registry", syntax.KindClassDecl)
		if err != nil {
			return err
		}
		for _, node := range nodes {
			names = append(names, tree.NameString(node))
		}
	}

	var b strings.Builder
	b.WriteString("// <auto-generated/>\n")
	b.WriteString("namespace Quill.Generated {\n")
	b.WriteString("    class Registry {\n")
	for _, name := range names {
		b.WriteString("        // entry: " + name + "\n")
	}
	b.WriteString("    }\n")
	b.WriteString("}\n")

	return ec.AddSource(registryHint, b.String())
}
