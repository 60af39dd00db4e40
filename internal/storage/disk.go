package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
)

var extensions = []string{".yaml", ".yml"}

// Disk is a Store backed by a directory holding one `<key>.yaml` (or
// `<key>.yml`) file per entry
type Disk struct {
	root string
}

// NewDisk returns a Disk store rooted at root
func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

// Check verifies the root is a readable directory
func (d *Disk) Check(context.Context) error {
	info, err := os.Stat(d.root)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return &fs.PathError{Op: "check", Path: d.root, Err: errors.New("not a directory")}
	}

	return nil
}

// Value reads the entry for key on a separate goroutine. Keys that would
// escape the root directory never exist.
func (d *Disk) Value(ctx context.Context, key string) *future.Future[Lookup] {
	lookup := future.New[Lookup]()

	go func() {
		lookup.Complete(d.read(ctx, key))
	}()

	return lookup
}

func (d *Disk) read(ctx context.Context, key string) Lookup {
	if !validKey(key) {
		return Lookup{Key: key}
	}

	for _, ext := range extensions {
		if err := ctx.Err(); err != nil {
			return Lookup{Key: key, Error: err}
		}

		value, err := os.ReadFile(filepath.Join(d.root, key+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Lookup{Key: key, Error: err}
		}

		return Lookup{Key: key, Value: value, Exists: true}
	}

	return Lookup{Key: key}
}

func validKey(key string) bool {
	return key != "" && key != "." && key != ".." &&
		!strings.ContainsAny(key, `/\`) && !strings.ContainsRune(key, 0)
}
