package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
)

func collectInstances(t *testing.T, catalog *TypeRegistry) (*InstanceRegistry, []*models.GenericInstance) {
	t.Helper()
	instances := NewInstanceRegistry(catalog)
	require.NoError(t, instances.AddBaseIReferenceInstances())
	require.NoError(t, catalog.CollectDependencies())
	require.NoError(t, instances.Scan())
	collected, err := instances.Collect()
	require.NoError(t, err)
	return instances, collected
}

func TestInstanceDiscovery(t *testing.T) {
	catalog := loadCatalog(t, catalogSrc)
	instances, collected := collectInstances(t, catalog)

	keys := make([]string, len(collected))
	for i, inst := range collected {
		keys[i] = inst.Key()
	}

	assert.Contains(t, keys, "Windows.Foundation.Collections.IVectorView`1<Windows.Devices.Midi.IMidiMessage>")
	assert.Contains(t, keys, "Windows.Foundation.Collections.IVector`1<Windows.Foundation.Collections.IVectorView`1<Windows.Devices.Midi.IMidiMessage>>")
	assert.Contains(t, keys, "Windows.Foundation.IReference`1<String>")
	assert.Contains(t, keys, "Windows.Foundation.IReference`1<Windows.Foundation.Point>")
	assert.NotContains(t, keys, "Windows.Foundation.IReference`1<Windows.Foundation.DateTime>", "unregistered structs are not seeded")
	assert.NotContains(t, keys, "Windows.Foundation.Collections.IVectorView`1<T>", "open instantiations are ignored")

	// 13 primitives + Point + the two instantiations used by IMidiPort; the nested
	// IVectorView<IMidiMessage> is shared with get_Messages
	assert.Equal(t, 16, instances.Size())
	assert.Len(t, collected, 16)

	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i], "instances are returned in key order")
	}
}

func TestInstanceDependencies(t *testing.T) {
	catalog := loadCatalog(t, catalogSrc)
	_, collected := collectInstances(t, catalog)
	byKey := make(map[string]*models.GenericInstance, len(collected))
	for _, inst := range collected {
		byKey[inst.Key()] = inst
	}

	nested, ok := byKey["Windows.Foundation.Collections.IVector`1<Windows.Foundation.Collections.IVectorView`1<Windows.Devices.Midi.IMidiMessage>>"]
	require.True(t, ok)
	assert.Equal(t, []string{
		"Windows.Devices.Midi.IMidiMessage",
		"Windows.Foundation.Collections.IVectorView`1",
		"Windows.Foundation.Collections.IVector`1",
	}, fullNames(nested.Dependencies()))

	primitive, ok := byKey["Windows.Foundation.IReference`1<Int32>"]
	require.True(t, ok)
	assert.Equal(t, []string{"Windows.Foundation.IReference`1"}, fullNames(primitive.Dependencies()))
}

func TestInstanceAddRules(t *testing.T) {
	catalog := loadCatalog(t, catalogSrc)
	instances := NewInstanceRegistry(catalog)

	ref := metadata.NamedRef("Windows.Foundation.Collections.IVector`1", metadata.PrimitiveRef(metadata.PrimString))
	added, err := instances.Add(ref)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = instances.Add(metadata.NamedRef("Windows.Foundation.Collections.IVector`1", metadata.PrimitiveRef(metadata.PrimString)))
	require.NoError(t, err)
	assert.False(t, added, "instantiations are deduplicated by identity")

	added, err = instances.Add(metadata.NamedRef("Windows.Foundation.Point"))
	require.NoError(t, err)
	assert.False(t, added, "non-generic refs are not instances")

	_, err = instances.Add(metadata.NamedRef("Windows.Foundation.Collections.IMissing`1", metadata.PrimitiveRef(metadata.PrimString)))
	assert.Error(t, err)
}

func TestNoBaseInstancesWithoutIReference(t *testing.T) {
	catalog := loadCatalog(t, `format "v1"
assembly A {
    namespace N {
        struct S { X: Int32 }
    }
}`)
	instances := NewInstanceRegistry(catalog)
	require.NoError(t, instances.AddBaseIReferenceInstances())
	assert.Equal(t, 0, instances.Size())
}

func TestInstanceCollectRequiresCollectPhase(t *testing.T) {
	catalog := loadCatalog(t, catalogSrc)
	instances := NewInstanceRegistry(catalog)

	assert.Panics(t, func() { _, _ = instances.Collect() })
}
