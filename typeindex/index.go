package typeindex

import (
	"sort"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"

	"plcc/report"
)

// Index is the type registry for a compilation.  It maps type names to their
// type information and (optionally) default values and stores the global
// variables created for enumeration constants.  Names are case-insensitive.
//
// An index is populated across the stub and body passes and then frozen: after
// Freeze is called, any mutation is an internal compiler error.  The index is
// not synchronized and must only be used from one goroutine at a time.
type Index struct {
	// types maps each normalized name to its type information.
	types map[string]DataTypeInformation

	// initialValues maps type names to their default values.  These are stored
	// separately from the types so that a staging index can hold defaults for
	// types it does not define.
	initialValues map[string]constant.Constant

	// globals maps names to the global variables associated with them.
	globals map[string]*ir.Global

	// frozen indicates whether the index has become read-only.
	frozen bool
}

// New creates a new, empty index.
func New() *Index {
	return &Index{
		types:         make(map[string]DataTypeInformation),
		initialValues: make(map[string]constant.Constant),
		globals:       make(map[string]*ir.Global),
	}
}

// normalize converts a name to its lookup key.
func normalize(name string) string {
	return strings.ToUpper(name)
}

// mustBeMutable panics if the index has been frozen.
func (idx *Index) mustBeMutable(name string) {
	if idx.frozen {
		panic(report.ICE("type index is frozen: cannot associate `%s`", name))
	}
}

// -----------------------------------------------------------------------------

// AssociateType inserts or overwrites the type information for name.
func (idx *Index) AssociateType(name string, info DataTypeInformation) {
	idx.mustBeMutable(name)
	idx.types[normalize(name)] = info
}

// AssociateTypeAlias records name as an alias of target.
func (idx *Index) AssociateTypeAlias(name, target string) {
	idx.AssociateType(name, &AliasInfo{Name: name, ReferencedType: target})
}

// AssociateTypeInitialValue attaches a default value to name.
func (idx *Index) AssociateTypeInitialValue(name string, val constant.Constant) {
	idx.mustBeMutable(name)
	idx.initialValues[normalize(name)] = val
}

// AssociateGlobalVariable records the global variable storing name.
func (idx *Index) AssociateGlobalVariable(name string, glob *ir.Global) {
	idx.mustBeMutable(name)
	idx.globals[normalize(name)] = glob
}

// -----------------------------------------------------------------------------

// FindTypeInformation returns the entry stored under name without resolving
// aliases.
func (idx *Index) FindTypeInformation(name string) (DataTypeInformation, bool) {
	info, ok := idx.types[normalize(name)]
	return info, ok
}

// FindType returns the type information for name, following alias chains of
// any depth.  It fails for unknown names and for dangling or cyclic aliases.
func (idx *Index) FindType(name string) (DataTypeInformation, bool) {
	info, err := idx.ResolveType(name)
	return info, err == nil
}

// ResolveType is FindType with a descriptive error on failure.
func (idx *Index) ResolveType(name string) (DataTypeInformation, error) {
	var chain []string
	visited := make(map[string]struct{})

	for current := name; ; {
		key := normalize(current)

		if _, ok := visited[key]; ok {
			chain = append(chain, current)
			return nil, report.Raise(
				report.LookupFailure,
				nil,
				"alias cycle resolving '%s': %s",
				name,
				strings.Join(chain, " -> "),
			)
		}

		visited[key] = struct{}{}
		chain = append(chain, current)

		info, ok := idx.types[key]
		if !ok {
			return nil, report.Raise(report.LookupFailure, nil, "Unknown datatype '%s'", current)
		}

		alias, ok := info.(*AliasInfo)
		if !ok {
			return info, nil
		}

		current = alias.ReferencedType
	}
}

// FindInitialValue returns the default value associated with name.  If name is
// an alias with no default of its own, the alias chain is followed until a
// default is found.
func (idx *Index) FindInitialValue(name string) (constant.Constant, bool) {
	visited := make(map[string]struct{})

	for current := normalize(name); ; {
		if val, ok := idx.initialValues[current]; ok {
			return val, true
		}

		visited[current] = struct{}{}

		alias, ok := idx.types[current].(*AliasInfo)
		if !ok {
			return nil, false
		}

		current = normalize(alias.ReferencedType)
		if _, ok := visited[current]; ok {
			return nil, false
		}
	}
}

// FindGlobalVariable returns the global variable associated with name.
func (idx *Index) FindGlobalVariable(name string) (*ir.Global, bool) {
	glob, ok := idx.globals[normalize(name)]
	return glob, ok
}

// -----------------------------------------------------------------------------

// Merge commits the entries of a staging index into this index.  Entries of
// the staging index overwrite existing ones.
func (idx *Index) Merge(staging *Index) {
	for key, info := range staging.types {
		idx.AssociateType(key, info)
	}

	for key, val := range staging.initialValues {
		idx.AssociateTypeInitialValue(key, val)
	}

	for key, glob := range staging.globals {
		idx.AssociateGlobalVariable(key, glob)
	}
}

// Freeze makes the index read-only.
func (idx *Index) Freeze() {
	idx.frozen = true
}

// Frozen returns whether the index is read-only.
func (idx *Index) Frozen() bool {
	return idx.frozen
}

// Names returns the normalized names of all types in the index in sorted
// order.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.types))
	for name := range idx.types {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
