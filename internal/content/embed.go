package content

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed all:data
var embedded embed.FS

// Embedded returns the content bundled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source returns os.DirFS(dir) when dir is set, the embedded content otherwise.
func Source(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return os.DirFS(dir)
}
