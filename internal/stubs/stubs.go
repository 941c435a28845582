// Package stubs puts signature-only library classes on a classpath.
//
// Projects rarely want to spell out every factory signature of a logging
// framework, so the manifest can name a preset instead; the JDK classes the
// initializer phase relies on are always available unless disabled.
package stubs

import (
	"fmt"
	"sort"

	"treant/internal/ir"
	"treant/internal/strategy"
)

const JDKArtifact = "jdk"

var (
	ClassType  = ir.MustClassID("java/lang/Class")
	StringType = ir.MustClassID("java/lang/String")
	JulLogger  = ir.MustClassID("java/util/logging/Logger")
)

// Artifacts maps strategy tag names to the Maven coordinate of the library
// providing the factory.
var Artifacts = map[string]string{
	"slf4j":       "org.slf4j:slf4j-api",
	"jul":         JDKArtifact,
	"commons-log": "commons-logging:commons-logging",
	"log4j":       "log4j:log4j",
	"log4j2":      "org.apache.logging.log4j:log4j-api",
	"xslf4j":      "org.slf4j:slf4j-ext",
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	out := make([]string, 0, len(Artifacts))
	for name := range Artifacts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// JDK adds java.lang.Class, java.lang.String and java.util.logging.Logger.
func JDK(cp *ir.Classpath) error {
	if _, err := ensureClass(cp, JDKArtifact, StringType); err != nil {
		return err
	}
	class, err := ensureClass(cp, JDKArtifact, ClassType)
	if err != nil {
		return err
	}
	if len(cp.Functions(class, "forName")) == 0 {
		if _, err := cp.AddFunction(class, "forName", []ir.Param{{Name: "className", Type: StringType}}, ClassType); err != nil {
			return err
		}
	}
	logger, err := ensureClass(cp, JDKArtifact, JulLogger)
	if err != nil {
		return err
	}
	if len(cp.Functions(logger, "getLogger")) == 0 {
		if _, err := cp.AddFunction(logger, "getLogger", []ir.Param{{Name: "name", Type: StringType}}, JulLogger); err != nil {
			return err
		}
	}
	return nil
}

// Preset adds the logger and factory classes of the strategy whose tag is
// named name.
func Preset(cp *ir.Classpath, reg *strategy.Registry, name string) error {
	for _, d := range reg.All() {
		if d.Tag.String() == name {
			return Framework(cp, d)
		}
	}
	return fmt.Errorf("unknown library preset %q", name)
}

// Framework adds the logger type and the factory of desc with one factory
// overload matching its calling convention.
func Framework(cp *ir.Classpath, desc *strategy.Descriptor) error {
	artifact, ok := Artifacts[desc.Tag.String()]
	if !ok {
		artifact = desc.Recipe.FactoryType.Package.String()
	}
	if _, err := ensureClass(cp, artifact, desc.LoggerType); err != nil {
		return err
	}
	factory, err := ensureClass(cp, artifact, desc.Recipe.FactoryType)
	if err != nil {
		return err
	}
	param := ir.Param{Name: "clazz", Type: ClassType}
	if desc.Recipe.Convention == strategy.PlainText {
		param = ir.Param{Name: "name", Type: StringType}
	}
	if len(cp.Functions(factory, desc.Recipe.Method)) > 0 {
		return nil
	}
	_, err = cp.AddFunction(factory, desc.Recipe.Method, []ir.Param{param}, desc.LoggerType)
	return err
}

func ensureClass(cp *ir.Classpath, artifact string, id ir.ClassID) (ir.DeclID, error) {
	if decl, ok := cp.Resolve(id); ok {
		return decl, nil
	}
	return cp.AddClass(artifact, id, ir.ClassRegular)
}
