package domain

type ProgressKind int

const (
	ProgressDirectoryEntry ProgressKind = iota
	ProgressFileSeen
	ProgressHash
	ProgressPass
	ProgressFile
)

// ProgressEvent carries every advisory progress shape through one tagged type.
// Field meaning depends on Kind:
//   - ProgressDirectoryEntry: Path, Current entry index, Total entries in listing
//   - ProgressFileSeen: Path, Current running file count
//   - ProgressHash: Path, Current running hashed-file count
//   - ProgressPass: Current pass index, Total passes, Status text
//   - ProgressFile: Path, Current file index, Total files
type ProgressEvent struct {
	Kind    ProgressKind
	Path    string
	Current int64
	Total   int64
	Status  string
}
