package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// ErrProjectSectionMissing indicates that [project] is missing.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrUnknownKeys indicates keys the manifest schema does not know.
	ErrUnknownKeys = errors.New("unknown manifest keys")
	// ErrInvalidManifest wraps validation failures.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Manifest is the decoded treant.toml / treant.yaml.
type Manifest struct {
	Project   ProjectSection `toml:"project" yaml:"project" validate:"required"`
	Modules   []ModuleSpec   `toml:"module" yaml:"modules" validate:"required,min=1,dive"`
	Libraries []LibrarySpec  `toml:"library" yaml:"libraries" validate:"dive"`

	// Path the manifest was loaded from; empty for in-memory manifests.
	Path string `toml:"-" yaml:"-"`
}

type ProjectSection struct {
	Name string `toml:"name" yaml:"name" validate:"required"`
	// JDK puts the JDK stubs on the classpath; defaults to true.
	JDK     *bool    `toml:"jdk" yaml:"jdk"`
	Presets []string `toml:"presets" yaml:"presets" validate:"dive,oneof=slf4j jul commons-log log4j log4j2 xslf4j"`
}

// UseJDK reports whether the JDK stubs are enabled.
func (p ProjectSection) UseJDK() bool { return p.JDK == nil || *p.JDK }

// ModuleSpec is one [[module]] entry: a compilation unit.
type ModuleSpec struct {
	Name    string      `toml:"name" yaml:"name" validate:"required"`
	Classes []ClassSpec `toml:"class" yaml:"classes" validate:"dive"`
}

// ClassSpec declares a class. Nested classes use "pkg/Outer.Inner" IDs and
// must be listed in the same module as their outer class.
type ClassSpec struct {
	ID          string         `toml:"id" yaml:"id" validate:"required"`
	Kind        string         `toml:"kind" yaml:"kind" validate:"omitempty,oneof=class object interface annotation"`
	Companion   bool           `toml:"companion" yaml:"companion"`
	Visibility  string         `toml:"visibility" yaml:"visibility" validate:"omitempty,oneof=public internal protected private"`
	Annotations []string       `toml:"annotations" yaml:"annotations"`
	Fields      []FieldSpec    `toml:"field" yaml:"fields" validate:"dive"`
	Functions   []FunctionSpec `toml:"function" yaml:"functions" validate:"dive"`
}

type FieldSpec struct {
	Name       string `toml:"name" yaml:"name" validate:"required"`
	Type       string `toml:"type" yaml:"type" validate:"required"`
	Visibility string `toml:"visibility" yaml:"visibility" validate:"omitempty,oneof=public internal protected private"`
	Mutable    bool   `toml:"mutable" yaml:"mutable" validate:"excluded_with=Const"`
	Const      bool   `toml:"const" yaml:"const"`
	// Value is a string literal initializer.
	Value *string `toml:"value" yaml:"value"`
}

type FunctionSpec struct {
	Name    string      `toml:"name" yaml:"name" validate:"required"`
	Params  []ParamSpec `toml:"params" yaml:"params" validate:"dive"`
	Returns string      `toml:"returns" yaml:"returns"`
}

type ParamSpec struct {
	Name string `toml:"name" yaml:"name"`
	Type string `toml:"type" yaml:"type" validate:"required"`
	Kind string `toml:"kind" yaml:"kind" validate:"omitempty,oneof=regular dispatch extension context"`
}

// LibrarySpec is one [[library]] entry: an artifact on the classpath.
type LibrarySpec struct {
	Artifact string             `toml:"artifact" yaml:"artifact" validate:"required"`
	Classes  []LibraryClassSpec `toml:"class" yaml:"classes" validate:"dive"`
}

type LibraryClassSpec struct {
	ID        string         `toml:"id" yaml:"id" validate:"required"`
	Kind      string         `toml:"kind" yaml:"kind" validate:"omitempty,oneof=class object interface annotation"`
	Functions []FunctionSpec `toml:"function" yaml:"functions" validate:"dive"`
}

// Load reads a manifest, choosing the decoder from the file extension.
func Load(path string) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err = loadYAML(path)
	default:
		m, err = loadTOML(path)
	}
	if err != nil {
		return nil, err
	}
	m.Path = path
	if err := Validate(m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func loadTOML(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	return &m, nil
}

func loadYAML(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	var m Manifest
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	if m.Project.Name == "" && len(m.Modules) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	return &m, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks the manifest structure.
func Validate(m *Manifest) error {
	if m == nil {
		return fmt.Errorf("%w: nil manifest", ErrInvalidManifest)
	}
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return nil
}
