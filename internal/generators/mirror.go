package generators

import (
	"path/filepath"

	"quill/internal/gen"
)

// Mirror генерирует по одному артефакту на каждый additional text. Его
// callback применяет add/remove/change инкрементально, так что после
// TryApplyEdits вывод совпадает с полным перезапуском байт-в-байт.
type Mirror struct{}

func NewMirror() *Mirror { return &Mirror{} }

func (*Mirror) Name() string { return "quill.Mirror" }

// MirrorHint возвращает hint name артефакта для одного additional text.
func MirrorHint(path string) string {
	return filepath.Base(path) + ".mirror.g.ql"
}

func mirrorContent(text gen.AdditionalText) string {
	return "// <auto-generated/> mirror of " + text.Path + "\n" + text.Content
}

func (*Mirror) Init(ic *gen.InitContext) error {
	ic.RegisterEditCallback(func(ec *gen.EditContext, edit gen.Edit) bool {
		hint := MirrorHint(edit.Text.Path)
		switch edit.Kind {
		case gen.EditTextAdded, gen.EditTextChanged:
			ec.ReplaceSource(hint, mirrorContent(edit.Text))
			return true
		case gen.EditTextRemoved:
			ec.RemoveSource(hint)
			return true
		default:
			return false
		}
	})
	return nil
}

func (*Mirror) Execute(ec *gen.ExecContext) error {
	for _, text := range ec.AdditionalTexts() {
		if err := ec.AddSource(MirrorHint(text.Path), mirrorContent(text)); err != nil {
			return err
		}
	}
	return nil
}
