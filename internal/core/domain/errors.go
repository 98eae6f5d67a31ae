package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrFileFlagRepeated is returned when -f is given more than once.
	ErrFileFlagRepeated = zerr.New("-f appears more than once")

	// ErrFileFlagMissing is returned when -f is not followed by a file name.
	ErrFileFlagMissing = zerr.New("no description file name specified after -f")

	// ErrTooManyTargets is returned when more than one target is named on the command line.
	ErrTooManyTargets = zerr.New("more than one target specified")

	// ErrNoTargetsSpecified is returned when no target is given and the description file declares none.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrCommandWithoutTarget is returned when a command line appears before any rule line.
	ErrCommandWithoutTarget = zerr.New("command without a target")

	// ErrMissingSeparator is returned when a rule line has no ':' separator.
	ErrMissingSeparator = zerr.New("no ':' on definition line")

	// ErrMissingTargetName is returned when a rule line has nothing before its ':' separator.
	ErrMissingTargetName = zerr.New("missing target name before ':'")

	// ErrTargetRedeclared is returned when a target is declared with prerequisites more than once.
	ErrTargetRedeclared = zerr.New("target declared more than once")

	// ErrCycleDetected is returned when a target ends up depending on itself.
	ErrCycleDetected = zerr.New("dependency cycle detected")

	// ErrTargetNotFound is returned when the requested target is not in the graph.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrPrerequisiteNotFound is returned when a node must be built but has no file and no rule.
	ErrPrerequisiteNotFound = zerr.New("file not found and not a target")

	// ErrCommandFailed is returned when a build command exits with a nonzero status.
	ErrCommandFailed = zerr.New("command failed")

	// ErrShellNotFound is returned when the shell used to run commands cannot be started.
	ErrShellNotFound = zerr.New("shell not found")

	// ErrDescriptionOpenFailed is returned when the description file cannot be opened.
	ErrDescriptionOpenFailed = zerr.New("could not open description file")

	// ErrDescriptionReadFailed is returned when reading the description file fails midway.
	ErrDescriptionReadFailed = zerr.New("failed to read description file")

	// ErrSettingsReadFailed is returned when the settings file exists but cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrStatFailed is returned when file metadata cannot be retrieved for a reason other than absence.
	ErrStatFailed = zerr.New("failed to stat path")

	// ErrStoreReadFailed is returned when the build record store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build records")

	// ErrStoreUnmarshalFailed is returned when the build record store cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build records")

	// ErrStoreMarshalFailed is returned when the build record store cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build records")

	// ErrStoreWriteFailed is returned when the build record store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build records")

	// ErrStoreRemoveFailed is returned when the build record store cannot be removed.
	ErrStoreRemoveFailed = zerr.New("failed to remove build records")
)

// ErrorKind classifies a fatal error.
type ErrorKind int

const (
	// KindUnknown is any error outside the taxonomy.
	KindUnknown ErrorKind = iota
	// KindUsage is a bad command-line invocation.
	KindUsage
	// KindParse is a malformed description file.
	KindParse
	// KindConfiguration is a graph that cannot be built as described.
	KindConfiguration
	// KindCommand is a build command that failed.
	KindCommand
	// KindResource is a file that could not be opened, read or written.
	KindResource
)

var kindNames = map[ErrorKind]string{
	KindUnknown:       "UnknownError",
	KindUsage:         "UsageError",
	KindParse:         "ParseError",
	KindConfiguration: "ConfigurationError",
	KindCommand:       "CommandError",
	KindResource:      "ResourceError",
}

// String returns the taxonomy name of the kind.
func (k ErrorKind) String() string {
	return kindNames[k]
}

var kindMembers = []struct {
	kind ErrorKind
	errs []error
}{
	{KindUsage, []error{ErrFileFlagRepeated, ErrFileFlagMissing, ErrTooManyTargets, ErrNoTargetsSpecified}},
	{KindParse, []error{ErrCommandWithoutTarget, ErrMissingSeparator, ErrMissingTargetName, ErrTargetRedeclared}},
	{KindConfiguration, []error{ErrCycleDetected, ErrTargetNotFound, ErrPrerequisiteNotFound}},
	{KindCommand, []error{ErrCommandFailed, ErrShellNotFound}},
	{KindResource, []error{
		ErrDescriptionOpenFailed, ErrDescriptionReadFailed,
		ErrSettingsReadFailed, ErrSettingsParseFailed, ErrStatFailed,
		ErrStoreReadFailed, ErrStoreUnmarshalFailed, ErrStoreMarshalFailed,
		ErrStoreWriteFailed, ErrStoreRemoveFailed,
	}},
}

// KindOf reports which part of the error taxonomy err belongs to.
// Kinds are checked in declaration order, so a chain holding sentinels of
// several kinds reports the earliest one.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, m := range kindMembers {
		for _, sentinel := range m.errs {
			if errors.Is(err, sentinel) {
				return m.kind
			}
		}
	}
	return KindUnknown
}
