package gen

// Generator — контракт плагина. Любой тип с Init/Execute подходит;
// иерархий нет, только интерфейс.
type Generator interface {
	// Name identifies the generator in diagnostics and must be unique
	// within one driver.
	Name() string
	// Init is called at most once per registered handle, before the first
	// Execute. A failed Init permanently disables the generator.
	Init(ic *InitContext) error
	// Execute runs one full generation pass and registers artifacts through
	// the context's output sink.
	Execute(ec *ExecContext) error
}

// EditCallback пытается применить одну инкрементальную правку к ранее
// сгенерированному набору артефактов. Возвращает true, если правка
// обработана (в том числе "обработана без изменений").
type EditCallback func(ec *EditContext, edit Edit) bool

// InitContext collects what a generator registers during Init.
type InitContext struct {
	callbacks []EditCallback
}

// RegisterEditCallback opts the generator into incremental edit application.
func (ic *InitContext) RegisterEditCallback(cb EditCallback) {
	if cb == nil {
		return
	}
	ic.callbacks = append(ic.callbacks, cb)
}

// Callbacks returns the registered callbacks in registration order.
func (ic *InitContext) Callbacks() []EditCallback {
	return ic.callbacks
}

// EditContext даёт callback-у доступ к артефактам его генератора.
// Правки мутируют копию набора; откат при неудаче — забота драйвера.
type EditContext struct {
	artifacts *ArtifactSet
}

func NewEditContext(artifacts *ArtifactSet) *EditContext {
	return &EditContext{artifacts: artifacts}
}

// ReplaceSource добавляет или заменяет артефакт по hint name.
func (ec *EditContext) ReplaceSource(hintName, content string) {
	ec.artifacts.Replace(hintName, content)
}

// RemoveSource удаляет артефакт по hint name.
func (ec *EditContext) RemoveSource(hintName string) {
	ec.artifacts.Remove(hintName)
}

// Source возвращает текущий артефакт по hint name.
func (ec *EditContext) Source(hintName string) (GeneratedSource, bool) {
	return ec.artifacts.Get(hintName)
}
