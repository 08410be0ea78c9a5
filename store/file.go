package store

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/signadot/go-dyn/encode"
	"github.com/signadot/go-dyn/format"
	"github.com/signadot/go-dyn/ir"
	"github.com/signadot/go-dyn/parse"
)

// File is a store backed by a single JSON or YAML document whose top
// level object holds the keys.  A missing file is an empty store.
//
// Every operation reads the file; writes replace it atomically.
type File struct {
	Path     string
	Format   format.Format
	ReadOnly bool

	mu sync.Mutex
}

// NewFile returns a store at path, choosing the format from its suffix.
func NewFile(path string) *File {
	return &File{Path: path, Format: format.FromPath(path)}
}

func (f *File) Get(key string) (any, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return nil, false, err
	}
	v := ir.Get(doc, key)
	if v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

// Set stores v under key and rewrites the file.  A nil v removes key.
func (f *File) Set(key string, v any) error {
	if f.ReadOnly {
		return ErrReadOnly
	}
	var n *ir.Node
	if v != nil {
		var err error
		n, err = toNode(key, v)
		if err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	kvs := ir.ToKeyVals(doc)
	res := make([]ir.KeyVal, 0, len(kvs)+1)
	found := false
	for _, kv := range kvs {
		if kv.Key != key {
			res = append(res, kv)
			continue
		}
		found = true
		if n != nil {
			res = append(res, ir.KeyVal{Key: key, Val: n})
		}
	}
	if !found && n != nil {
		res = append(res, ir.KeyVal{Key: key, Val: n})
	}
	return f.save(ir.FromKeyVals(res))
}

func (f *File) load() (*ir.Node, error) {
	d, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return ir.FromKeyVals(nil), nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(d)) == 0 {
		return ir.FromKeyVals(nil), nil
	}
	doc, err := parse.Parse(d, parse.ParseFormat(f.Format))
	if err != nil {
		return nil, err
	}
	if doc.Type != ir.ObjectType {
		return nil, &fs.PathError{Op: "load", Path: f.Path, Err: errors.New("document is not an object")}
	}
	return doc, nil
}

func (f *File) save(doc *ir.Node) error {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(doc, buf, encode.EncodeFormat(f.Format)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
