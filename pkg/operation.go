package bump

import (
	"context"
	"log/slog"
)

// ProgressEvent identifies what just happened during a version bump.
type ProgressEvent string

// Progress events, in the order they can occur.
const (
	ProgressFileUpdated ProgressEvent = "file updated"
	ProgressFileSkipped ProgressEvent = "file skipped"
	ProgressScriptRun   ProgressEvent = "script run"
	ProgressGitCommit   ProgressEvent = "git commit"
	ProgressGitTag      ProgressEvent = "git tag"
	ProgressGitPush     ProgressEvent = "git push"
)

// Results describes the outcome of a version bump.
type Results struct {
	// Release is the release type used, empty for explicit or custom versions.
	Release              ReleaseType
	CurrentVersion       string
	CurrentVersionSource string
	NewVersion           string
	CommitMessage        string
	TagName              string
	// UpdatedFiles and SkippedFiles are relative to the working directory, in
	// the order the files were processed. No file appears in both.
	UpdatedFiles []string
	SkippedFiles []string
}

// Progress is reported after each step of a version bump.
type Progress struct {
	Results
	Event ProgressEvent
	// File is set for file events.
	File string
	// Script is set for script events: the lifecycle script name or the
	// executed command.
	Script string
}

// State is the record an Operation accumulates while it runs.
type State struct {
	Release              ReleaseType
	CurrentVersionSource string
	CurrentVersion       string
	NewVersion           string
	CommitMessage        string
	TagName              string
	UpdatedFiles         []string
	SkippedFiles         []string
	Event                ProgressEvent
}

// Operation is a single version bump: the normalized options and the state
// each stage adds to. Stages run one after another and own the Operation while
// they run.
type Operation struct {
	Options NormalizedOptions
	State   State

	progress func(Progress)
	log      *slog.Logger
}

// NewOperation normalizes raw and starts an Operation. A current version in the
// options is recorded immediately.
func NewOperation(ctx context.Context, raw Options) (*Operation, error) {
	opts, err := NormalizeOptions(ctx, raw)
	if err != nil {
		return nil, err
	}

	logger := raw.Logger
	if logger == nil {
		logger = slog.Default()
	}

	op := &Operation{
		Options:  opts,
		progress: raw.Progress,
		log:      logger,
	}
	if opts.CurrentVersion != "" {
		op.setCurrentVersion(opts.CurrentVersion, "")
	}
	return op, nil
}

// Results returns a copy of the operation's outcome so far.
func (o *Operation) Results() Results {
	return Results{
		Release:              o.State.Release,
		CurrentVersion:       o.State.CurrentVersion,
		CurrentVersionSource: o.State.CurrentVersionSource,
		NewVersion:           o.State.NewVersion,
		CommitMessage:        o.State.CommitMessage,
		TagName:              o.State.TagName,
		UpdatedFiles:         append([]string(nil), o.State.UpdatedFiles...),
		SkippedFiles:         append([]string(nil), o.State.SkippedFiles...),
	}
}

// setCurrentVersion records the current version once; later calls are ignored.
func (o *Operation) setCurrentVersion(version, source string) {
	if o.State.CurrentVersion != "" {
		return
	}
	o.State.CurrentVersion = version
	o.State.CurrentVersionSource = source
}

func (o *Operation) setNewVersion(version string, release ReleaseType) {
	o.State.NewVersion = version
	o.State.Release = release
	if o.Options.Commit != nil {
		o.State.CommitMessage = formatVersionString(o.Options.Commit.Message, version)
	}
	if o.Options.Tag != nil {
		o.State.TagName = formatVersionString(o.Options.Tag.Name, version)
	}
}

func (o *Operation) fileUpdated(file string) {
	o.State.UpdatedFiles = append(o.State.UpdatedFiles, file)
	o.emit(Progress{Event: ProgressFileUpdated, File: file})
}

func (o *Operation) fileSkipped(file string) {
	o.State.SkippedFiles = append(o.State.SkippedFiles, file)
	o.emit(Progress{Event: ProgressFileSkipped, File: file})
}

func (o *Operation) emit(p Progress) {
	o.State.Event = p.Event
	if o.progress == nil {
		return
	}
	p.Results = o.Results()
	o.progress(p)
}
