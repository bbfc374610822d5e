package registry

import (
	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
)

// Catalog is the read side of the type catalog used during emission
type Catalog interface {
	Lookup(fullName string) (*models.TypeDef, error)
	LookupRef(ref *metadata.TypeRef) (*models.TypeDef, error)
	IsSkipped(fullName string) bool
	Types() []*models.TypeDef
	TypesInAssemblies(assemblies []string) []*models.TypeDef
	Provider() metadata.Provider
	Guard() *models.PhaseGuard
	Module(namespace string) *models.Module
}

var _ Catalog = (*TypeRegistry)(nil)
