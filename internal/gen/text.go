package gen

// AdditionalText — вспомогательный текстовый вход генератора (не исходник).
// Идентичность для инкрементального сравнения — путь; содержимое уже
// материализовано, драйвер не выполняет I/O.
type AdditionalText struct {
	Path    string
	Content string
}

// EditKind tags one kind of incremental change to the additional-text set.
type EditKind uint8

const (
	// EditInvalid is the zero value; never queued.
	EditInvalid EditKind = iota
	// EditTextAdded — новый additional text появился.
	EditTextAdded
	// EditTextRemoved — additional text удалён (Content пустой, важен Path).
	EditTextRemoved
	// EditTextChanged — содержимое по прежнему пути изменилось.
	EditTextChanged
)

func (k EditKind) String() string {
	switch k {
	case EditTextAdded:
		return "TextAdded"
	case EditTextRemoved:
		return "TextRemoved"
	case EditTextChanged:
		return "TextChanged"
	}
	return "Invalid"
}

// Edit — одна отложенная инкрементальная правка. Правки ставятся в очередь
// в порядке поступления и не коалесцируются.
type Edit struct {
	Kind EditKind
	Text AdditionalText
}
