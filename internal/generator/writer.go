package generator

import (
	"io"
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/models"
)

const (
	banner = "// DO NOT MODIFY THIS FILE - IT IS AUTOMATICALLY GENERATED!\n" +
		"#![allow(non_camel_case_types, unused_imports)]\n"

	imports = "use ::{ComInterface, HString, HStringArg, ComPtr, ComArray, ComIid, IUnknown};\n" +
		"use ::rt::{RtType, IInspectable, RtResult}; use ::rt::handler::IntoInterface;"
)

// RenderModuleTree serializes the module tree depth-first. Empty modules are skipped;
// the import preamble is only written for modules carrying text.
func RenderModuleTree(root *models.Module) string {
	var b strings.Builder
	b.WriteString(banner)
	for _, child := range root.Children() {
		renderModule(&b, child)
	}
	return b.String()
}

func renderModule(b *strings.Builder, m *models.Module) {
	if m.IsEmpty() {
		return
	}
	b.WriteString("pub mod " + strings.ToLower(m.Name) + " { // " + m.Path + "\n")
	if m.HasText() {
		b.WriteString(imports)
		b.WriteString(m.Text())
		b.WriteString("\n")
	}
	for _, child := range m.Children() {
		renderModule(b, child)
	}
	b.WriteString("} // " + m.Path + "\n")
}

// WriteModuleTree writes the serialized module tree to w
func WriteModuleTree(w io.Writer, root *models.Module) error {
	if _, err := io.WriteString(w, RenderModuleTree(root)); err != nil {
		return errors.WrapGenerateError("module tree", err)
	}
	return nil
}
