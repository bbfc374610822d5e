package templates

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGuidLiteral(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{
			id:       "96369f54-8eb6-48f0-abce-c1b211e627c3",
			expected: "0x96369f54, 0x8eb6, 0x48f0, 0xab, 0xce, 0xc1, 0xb2, 0x11, 0xe6, 0x27, 0xc3",
		},
		{
			id:       "00000001-0002-0003-0405-060708090a0b",
			expected: "0x00000001, 0x0002, 0x0003, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := GuidLiteral(uuid.MustParse(tt.id)); got != tt.expected {
				t.Errorf("GuidLiteral() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGenerateInterface(t *testing.T) {
	data := InterfaceData{
		Name: "IStringable",
		IID:  &IIDData{Name: "IID_IStringable", Literal: "0x1, 0x2"},
		Slots: []string{
			"fn ToString(&mut self, out: *mut HSTRING) -> HRESULT",
			"fn get_Length(&mut self, out: *mut u32) -> HRESULT",
		},
		Wrappers: []string{"#[inline] pub unsafe fn to_string(&mut self) -> Result<HString> {}"},
	}

	got, err := GenerateInterface(data)
	if err != nil {
		t.Fatalf("GenerateInterface() error = %v", err)
	}

	expected := "\nDEFINE_IID!(IID_IStringable, 0x1, 0x2);" +
		"\nRT_INTERFACE!{interface IStringable(IStringableVtbl): IInspectable(IInspectableVtbl) [IID_IStringable] {" +
		"\n\tfn ToString(&mut self, out: *mut HSTRING) -> HRESULT," +
		"\n\tfn get_Length(&mut self, out: *mut u32) -> HRESULT" +
		"\n}}" +
		"\nimpl IStringable {" +
		"\n\t#[inline] pub unsafe fn to_string(&mut self) -> Result<HString> {}" +
		"\n}"
	if got != expected {
		t.Errorf("GenerateInterface() =\n%s\nwant\n%s", got, expected)
	}
}

func TestGenerateGenericInterface(t *testing.T) {
	got, err := GenerateInterface(InterfaceData{
		Name:         "IVector",
		Generics:     "<T>",
		ImplGenerics: "<T: RtType>",
		Slots:        []string{"fn get_Size(&mut self, out: *mut u32) -> HRESULT"},
		Wrappers:     []string{"#[inline] pub unsafe fn get_size(&mut self) -> Result<u32> {}"},
	})
	if err != nil {
		t.Fatalf("GenerateInterface() error = %v", err)
	}

	if strings.Contains(got, "DEFINE_IID!") {
		t.Error("generic interfaces must not define an IID")
	}
	for _, want := range []string{
		"RT_INTERFACE!{interface IVector<T>(IVectorVtbl): IInspectable(IInspectableVtbl) {",
		"impl<T: RtType> IVector<T> {",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateInterface() missing %q in:\n%s", want, got)
		}
	}
}

func TestGenerateDelegateWithoutWrappers(t *testing.T) {
	got, err := GenerateDelegate(InterfaceData{
		Name:  "AsyncActionCompletedHandler",
		IID:   &IIDData{Name: "IID_AsyncActionCompletedHandler", Literal: "0x1"},
		Slots: []string{"fn Invoke(&mut self, asyncInfo: *mut IAsyncAction) -> HRESULT"},
	})
	if err != nil {
		t.Fatalf("GenerateDelegate() error = %v", err)
	}

	if !strings.Contains(got, "RT_DELEGATE!{delegate AsyncActionCompletedHandler(AsyncActionCompletedHandlerVtbl, AsyncActionCompletedHandlerImpl) [IID_AsyncActionCompletedHandler] {") {
		t.Errorf("unexpected delegate header:\n%s", got)
	}
	if strings.Contains(got, "impl ") {
		t.Errorf("no impl block expected without wrappers:\n%s", got)
	}
}

func TestGenerateValueTypes(t *testing.T) {
	tests := []struct {
		name     string
		generate func() (string, error)
		expected string
	}{
		{
			name: "enum",
			generate: func() (string, error) {
				return GenerateEnum(EnumData{
					Name:       "AsyncStatus",
					Underlying: "u32",
					Values:     []EnumValue{{Name: "Started", Value: 0}, {Name: "Completed", Value: 1}},
				})
			},
			expected: "\nRT_ENUM! { enum AsyncStatus: u32 {\n\tStarted (AsyncStatus_Started) = 0, Completed (AsyncStatus_Completed) = 1,\n}}",
		},
		{
			name: "struct",
			generate: func() (string, error) {
				return GenerateStruct(StructData{
					Name:   "Point",
					Fields: []StructField{{Name: "X", Type: "f32"}, {Name: "Y", Type: "f32"}},
				})
			},
			expected: "\nRT_STRUCT! { struct Point {\n\tX: f32, Y: f32,\n}}",
		},
		{
			name: "class",
			generate: func() (string, error) {
				return GenerateClass(ClassData{Name: "MidiPort", Default: "IMidiPort"})
			},
			expected: "\nRT_CLASS!{class MidiPort: IMidiPort}",
		},
		{
			name: "gated instance",
			generate: func() (string, error) {
				return GenerateInstance(InstanceData{
					Cfg:  `#[cfg(feature="windows-storage")] `,
					Type: "IVectorView<HString>",
					IID:  IIDData{Name: "IID_IVectorView_1_HString", Literal: "0x1"},
				})
			},
			expected: "\n#[cfg(feature=\"windows-storage\")] RT_PINTERFACE!{ for IVectorView<HString> => [0x1] as IID_IVectorView_1_HString }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.generate()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got\n%q\nwant\n%q", got, tt.expected)
			}
		})
	}
}

func TestTemplateRegistry(t *testing.T) {
	registry := NewTemplateRegistry()
	for _, name := range []string{"interface", "delegate", "impl", "class", "enum", "struct", "pinterface"} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("template %q not registered", name)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGet should panic for unknown templates")
		}
	}()
	registry.MustGet("route")
}
