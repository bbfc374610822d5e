package metadata

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/toyz/rtgen/internal/errors"
)

// pinterfaceNamespace is the namespace GUID WinRT uses to derive parameterized interface IIDs
var pinterfaceNamespace = uuid.MustParse("11f47ad5-7b73-42c0-abae-878b1e16adee")

var primitiveSignatures = map[Primitive]string{
	PrimBoolean: "b1",
	PrimChar16:  "c2",
	PrimUInt8:   "u1",
	PrimInt16:   "i2",
	PrimUInt16:  "u2",
	PrimInt32:   "i4",
	PrimUInt32:  "u4",
	PrimInt64:   "i8",
	PrimUInt64:  "u8",
	PrimSingle:  "f4",
	PrimDouble:  "f8",
	PrimString:  "string",
	PrimGuid:    "g16",
	PrimObject:  "cinterface(IInspectable)",
}

// Signature returns the WinRT type signature of a closed type reference
func Signature(p Provider, ref *TypeRef) (string, error) {
	switch ref.Shape {
	case ShapePrimitive:
		sig, ok := primitiveSignatures[ref.Primitive]
		if !ok {
			return "", errors.Newf(errors.MetadataShapeErrorCode, "primitive %s has no type signature", ref.Primitive)
		}
		return sig, nil
	case ShapeNamed:
	default:
		return "", errors.Newf(errors.MetadataShapeErrorCode, "type %s has no type signature", ref)
	}

	def, ok := p.FindType(ref.Name)
	if !ok {
		return "", errors.NewLookupError(ref.Name)
	}

	if ref.IsGenericInstance() {
		if !def.HasGuid {
			return "", missingGuid(def)
		}
		parts := []string{guidSignature(def.Guid)}
		for _, arg := range ref.Args {
			s, err := Signature(p, arg)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "pinterface(" + strings.Join(parts, ";") + ")", nil
	}

	switch def.Kind {
	case KindInterface:
		if !def.HasGuid {
			return "", missingGuid(def)
		}
		return guidSignature(def.Guid), nil
	case KindDelegate:
		if !def.HasGuid {
			return "", missingGuid(def)
		}
		return "delegate(" + guidSignature(def.Guid) + ")", nil
	case KindEnum:
		underlying := "i4"
		if def.Underlying == PrimUInt32 {
			underlying = "u4"
		}
		return fmt.Sprintf("enum(%s;%s)", def.FullName(), underlying), nil
	case KindStruct:
		parts := []string{def.FullName()}
		for _, f := range def.Fields {
			s, err := Signature(p, f.Type)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "struct(" + strings.Join(parts, ";") + ")", nil
	case KindClass:
		if def.DefaultInterface == nil {
			return "", errors.Newf(errors.MetadataShapeErrorCode, "class %s has no default interface", def.FullName())
		}
		s, err := Signature(p, def.DefaultInterface)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rc(%s;%s)", def.FullName(), s), nil
	}
	return "", errors.Newf(errors.MetadataShapeErrorCode, "%s %s has no type signature", def.Kind, def.FullName())
}

// InstanceIID derives the IID of a closed generic interface or delegate instantiation
func InstanceIID(p Provider, ref *TypeRef) (uuid.UUID, error) {
	if !ref.IsGenericInstance() || !ref.IsClosed() {
		return uuid.Nil, errors.Newf(errors.MetadataShapeErrorCode, "%s is not a closed generic instance", ref)
	}
	sig, err := Signature(p, ref)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.NewSHA1(pinterfaceNamespace, []byte(sig)), nil
}

func guidSignature(id uuid.UUID) string {
	return "{" + id.String() + "}"
}

func missingGuid(def *TypeDefinition) error {
	return errors.Newf(errors.MetadataShapeErrorCode, "%s %s has no guid", def.Kind, def.FullName()).
		WithLocation(def.Location).
		WithSuggestion("Add a [guid(\"...\")] attribute to the declaration")
}
