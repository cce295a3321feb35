package domain

import (
	"io/fs"
	"time"
)

// ImageVersion identifies one rendered summary file on disk. Cached bytes are only
// served while the file still has the version they were read from.
type ImageVersion struct {
	ModTime time.Time
	Size    int64
}

func ImageVersionOf(fi fs.FileInfo) ImageVersion {
	return ImageVersion{ModTime: fi.ModTime(), Size: fi.Size()}
}

func (v ImageVersion) Equal(other ImageVersion) bool {
	return v.Size == other.Size && v.ModTime.Equal(other.ModTime)
}
