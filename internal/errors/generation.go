package errors

import "fmt"

// SyntaxError represents a malformed metadata snapshot
type SyntaxError struct {
	*BaseError
}

// NewSyntaxError creates a new syntax error at the given location
func NewSyntaxError(message string, loc SourceLocation) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message).WithLocation(loc),
	}
}

// RegistrationError represents a duplicate or otherwise rejected registration
type RegistrationError struct {
	*BaseError
	Kind string // what was being registered ("type", "assembly")
	Name string
}

// NewRegistrationError creates a new registration error
func NewRegistrationError(kind, name, reason string) *RegistrationError {
	return &RegistrationError{
		BaseError: New(RegistrationErrorCode, fmt.Sprintf("cannot register %s '%s': %s", kind, name, reason)).
			WithContext("kind", kind).
			WithContext("name", name),
		Kind: kind,
		Name: name,
	}
}

// ShapeError reports a parameter or signature shape the translator does not support.
// It is always fatal.
type ShapeError struct {
	*BaseError
	TypeName   string
	MethodName string
	Parameter  string
}

// NewShapeError creates a metadata-shape violation for a method parameter
func NewShapeError(typeName, methodName, parameter, reason string) *ShapeError {
	msg := fmt.Sprintf("unsupported metadata shape in %s.%s", typeName, methodName)
	if parameter != "" {
		msg = fmt.Sprintf("%s (parameter '%s')", msg, parameter)
	}
	return &ShapeError{
		BaseError: New(MetadataShapeErrorCode, msg+": "+reason).
			WithContext("type", typeName).
			WithContext("method", methodName),
		TypeName:   typeName,
		MethodName: methodName,
		Parameter:  parameter,
	}
}

// LookupError reports a type reference missing from the closed-world catalog
type LookupError struct {
	*BaseError
	TypeName string
}

// NewLookupError creates a NotFound error for a type name
func NewLookupError(typeName string) *LookupError {
	return &LookupError{
		BaseError: New(LookupErrorCode, fmt.Sprintf("type '%s' not found in catalog", typeName)).
			WithContext("type", typeName).
			WithSuggestion("Add the assembly that declares this type to the metadata inputs"),
		TypeName: typeName,
	}
}

// PhaseError is the panic value used when a mutation happens outside its phase
type PhaseError struct {
	*BaseError
	Operation string
	Required  string
	Current   string
}

// NewPhaseError creates a phase-discipline violation
func NewPhaseError(operation, required, current string) *PhaseError {
	return &PhaseError{
		BaseError: New(PhaseErrorCode, fmt.Sprintf("%s requires phase %s, current phase is %s", operation, required, current)),
		Operation: operation,
		Required:  required,
		Current:   current,
	}
}

// GenerationError represents a failure while producing output text
type GenerationError struct {
	*BaseError
	Target string
}

// NewGenerationError creates a new generation error
func NewGenerationError(target, message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message).WithContext("target", target),
		Target:    target,
	}
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	*BaseError
	Field string
}

// NewConfigError creates a new configuration error for a field
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		BaseError: New(ConfigurationErrorCode, fmt.Sprintf("invalid configuration '%s': %s", field, message)).
			WithContext("field", field),
		Field: field,
	}
}
