package syntax

// NodeKind tags the syntactic category of a node.
type NodeKind uint8

const (
	// KindInvalid indicates a malformed node kept for error recovery.
	KindInvalid NodeKind = iota
	// KindCompilationUnit is the root of one parsed file.
	KindCompilationUnit
	// KindUsingDirective is a `using` directive, with or without alias/global.
	KindUsingDirective
	// KindNamespaceDecl is a braced `namespace N { ... }` scope.
	KindNamespaceDecl
	// KindClassDecl is a `class` declaration.
	KindClassDecl
	// KindStructDecl is a `struct` declaration.
	KindStructDecl
	// KindInterfaceDecl is an `interface` declaration.
	KindInterfaceDecl
	// KindRecordDecl is a `record` declaration.
	KindRecordDecl
	// KindEnumDecl is an `enum` declaration.
	KindEnumDecl
	// KindAttributeList is a bracketed `[A, B(...)]` list attached to a declaration.
	KindAttributeList
	// KindAttribute is one attribute usage inside an attribute list.
	KindAttribute
)

var kindNames = [...]string{
	KindInvalid:         "Invalid",
	KindCompilationUnit: "CompilationUnit",
	KindUsingDirective:  "UsingDirective",
	KindNamespaceDecl:   "NamespaceDecl",
	KindClassDecl:       "ClassDecl",
	KindStructDecl:      "StructDecl",
	KindInterfaceDecl:   "InterfaceDecl",
	KindRecordDecl:      "RecordDecl",
	KindEnumDecl:        "EnumDecl",
	KindAttributeList:   "AttributeList",
	KindAttribute:       "Attribute",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsDecl reports whether the kind is a declaration that can carry attributes.
func (k NodeKind) IsDecl() bool {
	switch k {
	case KindNamespaceDecl, KindClassDecl, KindStructDecl, KindInterfaceDecl, KindRecordDecl, KindEnumDecl:
		return true
	default:
		return false
	}
}
