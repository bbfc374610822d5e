package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/errors"
)

const foundationSrc = `format "v1.0.0"

assembly Windows.Foundation {
    namespace Windows.Foundation {
        [guid("61c17706-2d65-11e0-9ae8-d48564015472")]
        interface IReference<T> requires IPropertyValue {
            get_Value(): T
        }

        [guid("4bd682dd-7554-40e9-9a9b-82654ede7e62")]
        interface IPropertyValue {
            get_Type(): PropertyType
            GetUInt8Array([out] value: &UInt8[]): Void
        }

        enum PropertyType {
            Empty = 0,
            UInt8 = 1,
            OtherType = 0x14,
        }

        struct Point {
            X: Single,
            Y: Single,
        }

        [guid("a4ed5c81-76c9-40bd-8be6-b1d90fb20ae7")]
        delegate AsyncActionCompletedHandler {
            Invoke(asyncInfo: IAsyncAction, status: AsyncStatus): Void
        }

        [flags]
        enum AsyncStatus { Started = 0, Completed = 1 }

        [guid("5a648006-843a-4da9-865b-9d26e5dfad7b")]
        interface IAsyncAction {}

        [marker]
        attribute WebHostHiddenAttribute;
    }

    namespace Windows.Foundation.Collections {
        [guid("faa585ea-6214-4217-afda-7f46de5869b3")]
        interface IIterable<T> {
            First(): IIterator<T>
        }

        [guid("6a79e863-4300-459a-9966-cbb660963ee1")]
        interface IIterator<T> {
            get_Current(): T
            GetMany([out] items: T[]): UInt32
        }
    }
}
`

func TestParseSnapshot(t *testing.T) {
	assemblies, err := Parse("foundation.rtmd", []byte(foundationSrc))
	require.NoError(t, err)
	require.Len(t, assemblies, 1)

	asm := assemblies[0]
	assert.Equal(t, "Windows.Foundation", asm.Name)
	assert.Equal(t, []string{"Windows.Foundation", "Windows.Foundation.Collections"}, asm.Namespaces())

	snap, err := NewSnapshot(assemblies...)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.TypeCount())

	t.Run("generic interface", func(t *testing.T) {
		ref, ok := snap.FindType("Windows.Foundation.IReference`1")
		require.True(t, ok)
		assert.Equal(t, KindInterface, ref.Kind)
		assert.Equal(t, []string{"T"}, ref.GenericParams)
		assert.True(t, ref.HasGuid)
		assert.Equal(t, "61c17706-2d65-11e0-9ae8-d48564015472", ref.Guid.String())
		require.Len(t, ref.Requires, 1)
		assert.Equal(t, "Windows.Foundation.IPropertyValue", ref.Requires[0].String())

		require.Len(t, ref.Methods, 1)
		ret := ref.Methods[0].Return
		assert.Equal(t, ShapeGenericParam, ret.Shape)
		assert.Equal(t, 0, ret.Index)
	})

	t.Run("out array parameter", func(t *testing.T) {
		pv, _ := snap.FindType("Windows.Foundation.IPropertyValue")
		m := pv.Methods[1]
		require.Len(t, m.Params, 1)
		p := m.Params[0]
		assert.True(t, p.IsOut())
		assert.True(t, p.Type.IsByReference())
		assert.True(t, p.Type.Elem.IsArray())
		assert.Equal(t, "&UInt8[]", p.Type.String())
	})

	t.Run("enum values", func(t *testing.T) {
		e, _ := snap.FindType("Windows.Foundation.PropertyType")
		require.Len(t, e.Fields, 3)
		assert.Equal(t, int64(0x14), e.Fields[2].Value)
		assert.Equal(t, PrimInt32, e.Underlying)

		flags, _ := snap.FindType("Windows.Foundation.AsyncStatus")
		assert.True(t, flags.IsFlags())
		assert.Equal(t, PrimUInt32, flags.Underlying)
	})

	t.Run("cross namespace generic reference", func(t *testing.T) {
		it, _ := snap.FindType("Windows.Foundation.Collections.IIterable`1")
		ret := it.Methods[0].Return
		assert.True(t, ret.IsGenericInstance())
		assert.False(t, ret.IsClosed())
		assert.Equal(t, "Windows.Foundation.Collections.IIterator`1<T>", ret.String())
	})

	t.Run("attribute declaration", func(t *testing.T) {
		a, _ := snap.FindType("Windows.Foundation.WebHostHiddenAttribute")
		assert.Equal(t, KindAttribute, a.Kind)
		assert.True(t, a.Attributes.Has("marker"))
		assert.Equal(t, "Windows.Foundation", a.Assembly)
	})
}

func TestParseSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.ErrorCode
	}{
		{
			name: "unsupported major version",
			src:  `format "v2.0.0"`,
			code: errors.FormatVersionErrorCode,
		},
		{
			name: "invalid version",
			src:  `format "banana"`,
			code: errors.FormatVersionErrorCode,
		},
		{
			name: "missing header",
			src:  `assembly A { }`,
			code: errors.SyntaxErrorCode,
		},
		{
			name: "bad guid",
			src:  `format "v1" assembly A { namespace N { [guid("nope")] interface I {} } }`,
			code: errors.SyntaxErrorCode,
		},
		{
			name: "field on interface",
			src:  `format "v1" assembly A { namespace N { interface I { X: Int32 } } }`,
			code: errors.SyntaxErrorCode,
		},
		{
			name: "underlying type on struct",
			src:  `format "v1" assembly A { namespace N { struct S : Int32 { X: Int32 } } }`,
			code: errors.SyntaxErrorCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.rtmd", []byte(tt.src))
			require.Error(t, err)

			var genErr errors.GenError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.code, genErr.ErrorCode())
		})
	}
}

func TestSyntaxErrorCarriesPosition(t *testing.T) {
	_, err := Parse("pos.rtmd", []byte("format \"v1.0.0\"\nassembly A {\n  namespace N {\n    interface I { Foo( }\n  }\n}\n"))
	require.Error(t, err)

	var syntaxErr *errors.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "pos.rtmd", syntaxErr.Location().File)
	assert.Equal(t, 4, syntaxErr.Location().Line)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "foundation.rtmd")
	second := filepath.Join(dir, "devices.rtmd")

	require.NoError(t, os.WriteFile(first, []byte(foundationSrc), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`format "v1.2.0"
assembly Windows.Devices {
    namespace Windows.Devices.Midi {
        [guid("8087b303-d551-bce2-ead8-ec2aa0b2b6d1")]
        interface IMidiMessage {
            get_RawData(): Windows.Foundation.Point
        }
    }
}
`), 0o644))

	snap, err := LoadFiles(first, second)
	require.NoError(t, err)
	assert.Len(t, snap.Assemblies(), 2)

	msg, ok := snap.FindType("Windows.Devices.Midi.IMidiMessage")
	require.True(t, ok)
	assert.Equal(t, "Windows.Devices", msg.Assembly)
	assert.Equal(t, "Windows.Foundation.Point", msg.Methods[0].Return.Name)

	t.Run("duplicate assembly", func(t *testing.T) {
		_, err := LoadFiles(first, first)
		var regErr *errors.RegistrationError
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, "assembly", regErr.Kind)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFiles(filepath.Join(dir, "nope.rtmd"))
		var genErr errors.GenError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, errors.FileSystemErrorCode, genErr.ErrorCode())
	})
}
