//go:build !linux && !darwin && !windows

package targets

import (
	"io/fs"
	"time"
)

func creationTime(_ string, fi fs.FileInfo) time.Time {
	return fi.ModTime()
}
