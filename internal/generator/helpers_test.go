package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/metadata"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/registry"
)

const winrtSrc = `format "v1.0.0"

assembly Windows.Foundation {
    namespace Windows.Foundation {
        [guid("61c17706-2d65-11e0-9ae8-d48564015472")]
        interface IReference<T> {
            get_Value(): T
        }

        struct Point { X: Single, Y: Single }

        [guid("96369f54-8eb6-48f0-abce-c1b211e627c3")]
        interface IStringable {
            ToString(): String
        }
    }

    namespace Windows.Foundation.Collections {
        [guid("913337e9-11a1-4345-a3a2-4e7f956e222d")]
        interface IVector<T> {
            GetAt(index: UInt32, [out] item: &T): Void
            get_Size(): UInt32
            IndexOf(value: T, [out] index: &UInt32): Boolean
            ReplaceAll(items: T[]): Void
            GetMany(startIndex: UInt32, [out] items: T[]): UInt32
        }

        [guid("bbe1fa4c-b0e3-4583-baef-1f1b2e483e56")]
        interface IVectorView<T> {
            GetAt(index: UInt32): T
        }
    }
}

assembly Windows.Devices {
    namespace Windows.Devices.Midi {
        [guid("79767945-1094-4283-9be0-289fc0ee8334")]
        interface IMidiMessage {
            get_Timestamp(): Windows.Foundation.Point
            get_RawData(): UInt8[]
            get_Type(): MidiMessageType
            put_Type(value: MidiMessageType): Void
            GetType(): MidiMessageType
            FillBuffer([out] buffer: UInt8[]): Void
            GetBytes([out] data: &UInt8[]): Void
            Send(data: UInt8[], name: String, port: IMidiPort): Windows.Storage.IStorageFile
        }

        enum MidiMessageType { None = 0, NoteOff = 128 }

        [guid("f9c8d2a5-9fd6-4dc4-8b46-cfb55a9d4b1c")]
        interface IMidiPort {
            get_Messages(): Windows.Foundation.Collections.IVectorView<IMidiMessage>
            GetMany([out] items: UInt8[]): UInt32
        }

        class MidiPort default IMidiPort;
    }
}

assembly Windows.Storage {
    namespace Windows.Storage {
        [guid("fa3f6186-4214-428c-a64c-14c9ac7315ea")]
        interface IStorageFile {
            get_Name(): String
            OpenLog(): Windows.Foundation.Collections.IVectorView<String>
        }

        [guid("72d1cb78-b3ef-4f75-a80b-6fd9dae2944b")]
        interface IStorageFolder {
            GetFiles(): Windows.Foundation.Collections.IVectorView<IStorageFile>
            GetFolders(): Windows.Foundation.Collections.IVectorView<IStorageFolder>
        }
    }
}
`

type pipeline struct {
	catalog    *registry.TypeRegistry
	instances  *registry.InstanceRegistry
	translator *Translator
}

// newPipeline catalogs src and runs dependency and instance collection, leaving the catalog in PhaseEmit
func newPipeline(t *testing.T, src string) *pipeline {
	t.Helper()

	assemblies, err := metadata.Parse("test.rtmd", []byte(src))
	require.NoError(t, err)
	snap, err := metadata.NewSnapshot(assemblies...)
	require.NoError(t, err)

	catalog, err := registry.BuildCatalog(snap)
	require.NoError(t, err)

	instances := registry.NewInstanceRegistry(catalog)
	require.NoError(t, instances.AddBaseIReferenceInstances())
	require.NoError(t, catalog.CollectDependencies())
	require.NoError(t, instances.Scan())
	_, err = instances.Collect()
	require.NoError(t, err)
	catalog.Freeze()

	return &pipeline{
		catalog:    catalog,
		instances:  instances,
		translator: NewTranslator(catalog, Options{}),
	}
}

func (p *pipeline) method(t *testing.T, typeName, methodName string) *models.MethodDef {
	t.Helper()
	td, err := p.catalog.Lookup(typeName)
	require.NoError(t, err)
	for _, m := range td.Methods {
		if m.Def.Name == methodName {
			return m
		}
	}
	t.Fatalf("method %s not found on %s", methodName, typeName)
	return nil
}
