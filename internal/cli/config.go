package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/generator"
)

// DefaultOutput is the file the generated module tree is written to when none is configured
const DefaultOutput = "gen.rs"

// Config holds the configuration for the CLI generator
type Config struct {
	// Metadata is the list of snapshot files to load
	Metadata []string `yaml:"metadata" validate:"required,min=1,dive,required"`

	// Output is the path of the generated Rust file
	Output string `yaml:"output" validate:"required"`

	// Roots are the assemblies whose types seed emission
	Roots []string `yaml:"roots" validate:"required,min=1,dive,required"`

	// BaseAssembly is always available and never becomes a feature gate
	BaseAssembly string `yaml:"base_assembly" validate:"required"`

	// CollectionsNamespace declares the interfaces with GetMany buffer semantics
	CollectionsNamespace string `yaml:"collections_namespace" validate:"required"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"verbose"`

	// Quiet only shows errors and the final summary
	Quiet bool `yaml:"quiet" validate:"excluded_with=Verbose"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		Output:               DefaultOutput,
		Roots:                append([]string(nil), generator.DefaultRoots...),
		BaseAssembly:         generator.DefaultBaseAssembly,
		CollectionsNamespace: generator.DefaultCollectionsNamespace,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapFileSystemError("read", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration on top of the defaults. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return Config{}, errors.WrapConfigurationError("yaml", "decode", err).
			WithSuggestion("Valid keys are metadata, output, roots, base_assembly, collections_namespace, verbose and quiet")
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills every empty field with its default value
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Output == "" {
		c.Output = defaults.Output
	}
	if len(c.Roots) == 0 {
		c.Roots = defaults.Roots
	}
	if c.BaseAssembly == "" {
		c.BaseAssembly = defaults.BaseAssembly
	}
	if c.CollectionsNamespace == "" {
		c.CollectionsNamespace = defaults.CollectionsNamespace
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration. Every violated field is reported as a *errors.ConfigError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.WrapConfigurationError("config", "validate", err)
	}

	var all *errors.MultipleErrors
	for _, fe := range fieldErrs {
		cfgErr := errors.NewConfigError(fieldPath(fe), describe(fe))
		switch fe.Tag() {
		case "excluded_with":
			cfgErr.WithSuggestion("Use either --verbose or --quiet, not both")
		case "required", "min":
			cfgErr.WithSuggestion(fmt.Sprintf("Set '%s' in the configuration file or pass it as a flag", fieldPath(fe)))
		}
		errors.AddToMultiple(&all, cfgErr)
	}
	return all
}

// fieldPath strips the root struct name from a namespace ("Config.roots[0]" -> "roots[0]")
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "min":
		return fmt.Sprintf("at least %s entries are required", fe.Param())
	case "excluded_with":
		return "cannot be combined with verbose"
	}
	return fmt.Sprintf("failed '%s' validation", fe.Tag())
}
