package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Phase 1: declaration generation
	DeclInfo               Code = 1000
	DeclMissingLoggerType  Code = 1001
	DeclConflictingMarkers Code = 1002
	DeclHolderNameClash    Code = 1003
	DeclUnsupportedKind    Code = 1004

	// Phase 2: initializer generation
	InitInfo                   Code = 2000
	InitMissingFactoryType     Code = 2001
	InitMissingFactoryMethod   Code = 2002
	InitMissingTypeToken       Code = 2003
	InitMalformedEnclosingName Code = 2004
	InitUnknownTag             Code = 2005

	// Project / manifest
	ProjInfo             Code = 5000
	ProjInvalidManifest  Code = 5001
	ProjDuplicateModule  Code = 5002
	ProjDuplicateClass   Code = 5003
	ProjUnknownOuter     Code = 5004
	ProjInvalidReference Code = 5005

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                "Unknown error",
	DeclInfo:                   "Declaration generation information",
	DeclMissingLoggerType:      "Logger type is not on the classpath",
	DeclConflictingMarkers:     "Conflicting logger markers",
	DeclHolderNameClash:        "Companion already declares a member with the logger field name",
	DeclUnsupportedKind:        "Logger markers are not supported on this kind of declaration",
	InitInfo:                   "Initializer generation information",
	InitMissingFactoryType:     "Logger factory is not on the classpath",
	InitMissingFactoryMethod:   "No matching logger factory method",
	InitMissingTypeToken:       "Type token resolver is not on the classpath",
	InitMalformedEnclosingName: "Cannot compute the enclosing type name",
	InitUnknownTag:             "Generated field has an unknown strategy tag",
	ProjInfo:                   "Project information",
	ProjInvalidManifest:        "Invalid project manifest",
	ProjDuplicateModule:        "Duplicate module definition",
	ProjDuplicateClass:         "Duplicate class definition",
	ProjUnknownOuter:           "Nested class has no enclosing class",
	ProjInvalidReference:       "Invalid class reference",
	ObsInfo:                    "Observability information",
	ObsTimings:                 "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INI%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// MarshalText renders the stable ID for JSON output.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.ID()), nil
}
