package strategy

import "treant/internal/ir"

// MarkerPackage is the namespace of the built-in marker annotations.
const MarkerPackage = "com.adkhambek.treant"

// Tags of the built-in strategies.
var (
	TagSlf4j      = NewTag("slf4j")
	TagJul        = NewTag("jul")
	TagCommonsLog = NewTag("commons-log")
	TagLog4j      = NewTag("log4j")
	TagLog4j2     = NewTag("log4j2")
	TagXSlf4j     = NewTag("xslf4j")
)

func marker(name string) ir.ClassID {
	return ir.NewClassID(MarkerPackage, name)
}

// Builtins returns fresh descriptors of the six built-in strategies in
// registry order.
func Builtins() []*Descriptor {
	return []*Descriptor{
		{
			Tag:        TagSlf4j,
			Marker:     marker("Slf4j"),
			LoggerType: ir.MustClassID("org/slf4j/Logger"),
			Recipe: Recipe{
				FactoryType: ir.MustClassID("org/slf4j/LoggerFactory"),
				Method:      "getLogger",
				Convention:  ClassToken,
			},
			MissingDependency: `@Slf4j requires org.slf4j:slf4j-api on the classpath. Add: implementation("org.slf4j:slf4j-api:<version>")`,
		},
		{
			Tag:        TagJul,
			Marker:     marker("Log"),
			LoggerType: ir.MustClassID("java/util/logging/Logger"),
			Recipe: Recipe{
				FactoryType: ir.MustClassID("java/util/logging/Logger"),
				Method:      "getLogger",
				Convention:  PlainText,
			},
			MissingDependency: `@Log requires java.util.logging.Logger on the classpath.`,
		},
		{
			Tag:        TagCommonsLog,
			Marker:     marker("CommonsLog"),
			LoggerType: ir.MustClassID("org/apache/commons/logging/Log"),
			Recipe: Recipe{
				FactoryType: ir.MustClassID("org/apache/commons/logging/LogFactory"),
				Method:      "getLog",
				Convention:  ClassToken,
			},
			MissingDependency: `@CommonsLog requires commons-logging:commons-logging on the classpath. Add: implementation("commons-logging:commons-logging:<version>")`,
		},
		{
			Tag:        TagLog4j,
			Marker:     marker("Log4j"),
			LoggerType: ir.MustClassID("org/apache/log4j/Logger"),
			Recipe: Recipe{
				FactoryType: ir.MustClassID("org/apache/log4j/Logger"),
				Method:      "getLogger",
				Convention:  ClassToken,
			},
			MissingDependency: `@Log4j requires log4j:log4j on the classpath. Add: implementation("log4j:log4j:<version>")`,
		},
		{
			Tag:        TagLog4j2,
			Marker:     marker("Log4j2"),
			LoggerType: ir.MustClassID("org/apache/logging/log4j/Logger"),
			Recipe: Recipe{
				FactoryType: ir.MustClassID("org/apache/logging/log4j/LogManager"),
				Method:      "getLogger",
				Convention:  ClassToken,
			},
			MissingDependency: `@Log4j2 requires org.apache.logging.log4j:log4j-api on the classpath. Add: implementation("org.apache.logging.log4j:log4j-api:<version>")`,
		},
		{
			Tag:        TagXSlf4j,
			Marker:     marker("XSlf4j"),
			LoggerType: ir.MustClassID("org/slf4j/ext/XLogger"),
			Recipe: Recipe{
				FactoryType: ir.MustClassID("org/slf4j/ext/XLoggerFactory"),
				Method:      "getXLogger",
				Convention:  ClassToken,
			},
			MissingDependency: `@XSlf4j requires org.slf4j:slf4j-ext on the classpath. Add: implementation("org.slf4j:slf4j-ext:<version>")`,
		},
	}
}
