package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFoundation(t *testing.T) *Snapshot {
	t.Helper()
	assemblies, err := Parse("foundation.rtmd", []byte(foundationSrc))
	require.NoError(t, err)
	snap, err := NewSnapshot(assemblies...)
	require.NoError(t, err)
	return snap
}

func TestSignature(t *testing.T) {
	snap := loadFoundation(t)

	tests := []struct {
		name string
		ref  *TypeRef
		want string
	}{
		{"string", PrimitiveRef(PrimString), "string"},
		{"object", PrimitiveRef(PrimObject), "cinterface(IInspectable)"},
		{"enum", NamedRef("Windows.Foundation.PropertyType"), "enum(Windows.Foundation.PropertyType;i4)"},
		{"flags enum", NamedRef("Windows.Foundation.AsyncStatus"), "enum(Windows.Foundation.AsyncStatus;u4)"},
		{"struct", NamedRef("Windows.Foundation.Point"), "struct(Windows.Foundation.Point;f4;f4)"},
		{"interface", NamedRef("Windows.Foundation.IAsyncAction"), "{5a648006-843a-4da9-865b-9d26e5dfad7b}"},
		{"delegate", NamedRef("Windows.Foundation.AsyncActionCompletedHandler"), "delegate({a4ed5c81-76c9-40bd-8be6-b1d90fb20ae7})"},
		{
			"generic instance",
			NamedRef("Windows.Foundation.Collections.IIterable`1", PrimitiveRef(PrimString)),
			"pinterface({faa585ea-6214-4217-afda-7f46de5869b3};string)",
		},
		{
			"nested generic instance",
			NamedRef("Windows.Foundation.Collections.IIterable`1",
				NamedRef("Windows.Foundation.IReference`1", PrimitiveRef(PrimInt32))),
			"pinterface({faa585ea-6214-4217-afda-7f46de5869b3};pinterface({61c17706-2d65-11e0-9ae8-d48564015472};i4))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Signature(snap, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstanceIID(t *testing.T) {
	snap := loadFoundation(t)

	iid, err := InstanceIID(snap, NamedRef("Windows.Foundation.Collections.IIterable`1", PrimitiveRef(PrimString)))
	require.NoError(t, err)
	assert.Equal(t, "e2fcc7c1-3bfc-5a0b-b2b0-72e769d1cb7e", iid.String())

	_, err = InstanceIID(snap, NamedRef("Windows.Foundation.Collections.IIterable`1", GenericParamRef("T", 0)))
	assert.Error(t, err, "open instances have no IID")

	_, err = InstanceIID(snap, NamedRef("Windows.Foundation.Collections.IIterable`1", NamedRef("Missing.Type")))
	assert.Error(t, err)
}
