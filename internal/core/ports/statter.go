package ports

import "go.trai.ch/mymake/internal/core/domain"

// FileStatter reports filesystem metadata for target paths.
//
//go:generate mockgen -source=statter.go -destination=mocks/mock_statter.go -package=mocks
type FileStatter interface {
	// Stat returns the metadata of path. A path that does not exist is reported
	// with Exists set to false and no error.
	Stat(path string) (domain.FileInfo, error)
}
