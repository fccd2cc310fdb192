package targets

import (
	"io/fs"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

func creationTime(path string, fi fs.FileInfo) time.Time {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fi.ModTime()
	}
	var data windows.Win32FileAttributeData
	if err := windows.GetFileAttributesEx(p, windows.GetFileExInfoStandard, (*byte)(unsafe.Pointer(&data))); err != nil {
		return fi.ModTime()
	}
	return time.Unix(0, data.CreationTime.Nanoseconds())
}
