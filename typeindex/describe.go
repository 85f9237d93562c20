package typeindex

import "fmt"

// EntryDescription is a printable summary of an index entry.
type EntryDescription struct {
	Name    string
	Kind    string
	LLType  string
	Default string
}

// Describe summarizes every type in the index in name order.  It is used for
// debug dumps.
func (idx *Index) Describe() []EntryDescription {
	var descs []EntryDescription

	for _, name := range idx.Names() {
		info := idx.types[name]
		desc := EntryDescription{Name: info.TypeName(), Kind: kindOf(info)}

		if alias, ok := info.(*AliasInfo); ok {
			desc.LLType = "-> " + alias.ReferencedType
		} else if t := info.LLType(); t != nil {
			desc.LLType = t.String()
		}

		if val, ok := idx.FindInitialValue(name); ok {
			desc.Default = val.Ident()
		}

		descs = append(descs, desc)
	}

	return descs
}

func kindOf(info DataTypeInformation) string {
	switch v := info.(type) {
	case *StructInfo:
		if v.Type.Opaque {
			return "struct (opaque)"
		}

		return "struct"
	case *IntegerInfo:
		if v.Signed {
			return fmt.Sprintf("int%d", v.Size)
		}

		return fmt.Sprintf("uint%d", v.Size)
	case *FloatInfo:
		return fmt.Sprintf("float%d", v.Size)
	case *PointerInfo:
		return "ref"
	case *AliasInfo:
		return "alias"
	case *ArrayInfo:
		return fmt.Sprintf("array%dd", len(v.Dimensions))
	}

	return "unknown"
}
