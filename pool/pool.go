// Package pool loads and resolves the externalized string constant pool
// every bytecode action indexes into. The bytecode format itself carries no
// string bytes at all - every literal, identifier, and inline string is a
// pool index (data model invariant 4) - so this package sits in front of the
// reader and the VM: the strings are loaded once, and Get resolves each index
// into an owned string when the reader decodes it.
package pool

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pool is a loaded, indexable constant pool.
type Pool struct {
	strings []string
}

// Load reads the constant pool from a JSON file containing a single array of
// strings.
func Load(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, LoadError{Path: path, Message: err.Error()}
	}
	return Parse(data, path)
}

// Parse decodes a constant pool from raw JSON bytes. path is only used to
// annotate errors.
func Parse(data []byte, path string) (*Pool, error) {
	var strs []string
	if err := json.Unmarshal(data, &strs); err != nil {
		return nil, LoadError{Path: path, Message: fmt.Sprintf("not a JSON array of strings: %s", err)}
	}
	return &Pool{strings: strs}, nil
}

// Len returns the number of entries in the pool.
func (p *Pool) Len() int {
	return len(p.strings)
}

// Get resolves an index into its owned string, or a LookupError if the index
// is out of range.
func (p *Pool) Get(index int) (string, error) {
	if index < 0 || index >= len(p.strings) {
		return "", LookupError{Index: index, Size: len(p.strings)}
	}
	return p.strings[index], nil
}
