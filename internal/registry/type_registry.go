package registry

import (
	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/utils"
)

// TypeRegistry is the closed-world catalog of every non-skippable type, keyed by full name
type TypeRegistry struct {
	types    *utils.BaseRegistry[string, *models.TypeDef]
	skipped  map[string]bool
	guard    *models.PhaseGuard
	provider metadata.Provider
	modules  *models.Module
}

// NewTypeRegistry creates an empty catalog in PhaseConstruct
func NewTypeRegistry(provider metadata.Provider) *TypeRegistry {
	types := utils.NewBaseRegistry[string, *models.TypeDef]("type", "type name", "definition")
	types.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[*models.TypeDef]("type name"),
		utils.NoDuplicateValidator[string, *models.TypeDef]("type name"),
	))

	return &TypeRegistry{
		types:    types,
		skipped:  make(map[string]bool),
		guard:    models.NewPhaseGuard(),
		provider: provider,
		modules:  models.NewModuleTree(),
	}
}

// BuildCatalog registers every type of every assembly the provider exposes
func BuildCatalog(provider metadata.Provider) (*TypeRegistry, error) {
	r := NewTypeRegistry(provider)
	for _, asm := range provider.Assemblies() {
		for _, def := range asm.Types {
			if _, err := r.Register(def); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Register wraps def in a TypeDef and adds it to the catalog. Skippable types are
// remembered by name but not registered; nil is returned for them.
// Panics outside PhaseConstruct.
func (r *TypeRegistry) Register(def *metadata.TypeDefinition) (*models.TypeDef, error) {
	r.guard.Require("register type "+def.FullName(), models.PhaseConstruct)

	t := models.NewTypeDef(def, r.guard)
	if t.CanBeSkipped() {
		r.skipped[t.FullName()] = true
		return nil, nil
	}
	if err := r.types.Register(t.FullName(), t); err != nil {
		regErr := errors.NewRegistrationError("type", t.FullName(), "rejected by the catalog")
		regErr.WithLocation(def.Location).WithCause(err)
		return nil, regErr
	}
	r.modules.FindChild(t.Namespace())
	return t, nil
}

// Lookup returns the TypeDef registered under fullName or a LookupError
func (r *TypeRegistry) Lookup(fullName string) (*models.TypeDef, error) {
	t, ok := r.types.Get(fullName)
	if !ok {
		return nil, errors.NewLookupError(fullName)
	}
	return t, nil
}

// LookupRef resolves a named reference; generic instantiations resolve to their blueprint
func (r *TypeRegistry) LookupRef(ref *metadata.TypeRef) (*models.TypeDef, error) {
	if ref.Shape != metadata.ShapeNamed {
		return nil, errors.Newf(errors.LookupErrorCode, "%s does not name a type definition", ref)
	}
	return r.Lookup(ref.Name)
}

// IsSkipped reports whether fullName was dropped from the catalog as irrelevant
func (r *TypeRegistry) IsSkipped(fullName string) bool {
	return r.skipped[fullName]
}

// Types returns every registered type ordered by full name
func (r *TypeRegistry) Types() []*models.TypeDef {
	return r.types.Values()
}

// TypesInAssemblies returns the registered types declared by the given assemblies, ordered by full name
func (r *TypeRegistry) TypesInAssemblies(assemblies []string) []*models.TypeDef {
	wanted := make(map[string]bool, len(assemblies))
	for _, a := range assemblies {
		wanted[a] = true
	}

	var out []*models.TypeDef
	for _, t := range r.types.Values() {
		if wanted[t.Assembly()] {
			out = append(out, t)
		}
	}
	return out
}

// Size returns the number of registered types
func (r *TypeRegistry) Size() int {
	return r.types.Size()
}

// SkippedCount returns the number of types left out of the catalog
func (r *TypeRegistry) SkippedCount() int {
	return len(r.skipped)
}

// Provider returns the metadata the catalog was built from
func (r *TypeRegistry) Provider() metadata.Provider {
	return r.provider
}

// Guard returns the phase guard shared by every TypeDef in the catalog
func (r *TypeRegistry) Guard() *models.PhaseGuard {
	return r.guard
}

// Modules returns the root of the namespace tree generated text is written into
func (r *TypeRegistry) Modules() *models.Module {
	return r.modules
}

// Module returns the module for a namespace, creating missing nodes
func (r *TypeRegistry) Module(namespace string) *models.Module {
	return r.modules.FindChild(namespace)
}

// Freeze ends PhaseCollect; dependency sets are read-only afterwards
func (r *TypeRegistry) Freeze() {
	r.guard.Advance(models.PhaseEmit)
}
