package weirdness

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/git-prompt-info/internal/gitstatus"
)

const (
	rebaseApplyMarkerConstant                     = "rebase-apply"
	rebaseMergeMarkerConstant                     = "rebase-merge"
	mergeHeadMarkerConstant                       = "MERGE_HEAD"
	cherryPickHeadMarkerConstant                  = "CHERRY_PICK_HEAD"
	revertHeadMarkerConstant                      = "REVERT_HEAD"
	lineFeedConstant                              = "\n"
	carriageReturnConstant                        = "\r"
	fileSystemMissingMessageConstant              = "weirdness detector filesystem not configured"
	metadataDirectoryMissingMessageConstant       = "metadata directory query returned no path"
	metadataDirectoryResolveErrorTemplateConstant = "unable to resolve metadata directory %q: %w"
)

// ErrFileSystemNotConfigured indicates the detector was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrMetadataDirectoryMissing indicates the metadata directory query produced an empty path.
var ErrMetadataDirectoryMissing = errors.New(metadataDirectoryMissingMessageConstant)

// FileSystem exposes the filesystem queries required by the detector.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
}

// Marker associates an entry name under the metadata directory with the operation it signals.
type Marker struct {
	Name      string
	Operation gitstatus.Operation
}

// Markers lists the probed entries in probe order.
var Markers = []Marker{
	{Name: rebaseApplyMarkerConstant, Operation: gitstatus.OperationRebaseApply},
	{Name: rebaseMergeMarkerConstant, Operation: gitstatus.OperationRebaseMerge},
	{Name: mergeHeadMarkerConstant, Operation: gitstatus.OperationMerge},
	{Name: cherryPickHeadMarkerConstant, Operation: gitstatus.OperationCherryPick},
	{Name: revertHeadMarkerConstant, Operation: gitstatus.OperationRevert},
}

// Detector probes a metadata directory for in-progress operation markers.
type Detector struct {
	fileSystem FileSystem
}

// NewDetector constructs a Detector backed by the provided filesystem.
func NewDetector(fileSystem FileSystem) (*Detector, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Detector{fileSystem: fileSystem}, nil
}

// ResolveMetadataDirectory converts raw metadata directory query output into an absolute path.
// Exactly one trailing line terminator is removed. Relative output is joined
// to queryDirectory, the directory the query ran in, and then made absolute.
func (detector *Detector) ResolveMetadataDirectory(rawOutput string, queryDirectory string) (string, error) {
	metadataDirectory := strings.TrimSuffix(rawOutput, lineFeedConstant)
	metadataDirectory = strings.TrimSuffix(metadataDirectory, carriageReturnConstant)
	if len(metadataDirectory) == 0 {
		return "", ErrMetadataDirectoryMissing
	}

	if filepath.IsAbs(metadataDirectory) {
		return metadataDirectory, nil
	}
	if len(queryDirectory) > 0 {
		metadataDirectory = filepath.Join(queryDirectory, metadataDirectory)
		if filepath.IsAbs(metadataDirectory) {
			return metadataDirectory, nil
		}
	}

	absoluteDirectory, absError := detector.fileSystem.Abs(metadataDirectory)
	if absError != nil {
		return "", fmt.Errorf(metadataDirectoryResolveErrorTemplateConstant, metadataDirectory, absError)
	}
	return absoluteDirectory, nil
}

// Detect returns the operation signalled by the first existing marker, or
// OperationNone when no marker exists. Any Stat failure counts as absence.
func (detector *Detector) Detect(metadataDirectory string) gitstatus.Operation {
	for _, marker := range Markers {
		if _, statError := detector.fileSystem.Stat(filepath.Join(metadataDirectory, marker.Name)); statError == nil {
			return marker.Operation
		}
	}
	return gitstatus.OperationNone
}
