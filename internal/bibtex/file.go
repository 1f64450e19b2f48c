package bibtex

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// LookupEncoding resolves a WHATWG encoding label such as "utf-8",
// "latin1" or "windows-1252".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Decode converts data in the named encoding to a UTF-8 string.
func Decode(data []byte, name string) (string, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to the named encoding. Characters the
// encoding cannot represent are an error.
func Encode(s, name string) ([]byte, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	return out, nil
}

// ReadFile reads and parses a .bib file in the named encoding.
func ReadFile(path, encodingName string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	src, err := Decode(data, encodingName)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(src), nil
}

// Output is one file to be written by WriteFiles.
type Output struct {
	Path    string
	Content string
}

// WriteFile writes content to path in the named encoding, atomically.
func WriteFile(path, encodingName, content string) error {
	return WriteFiles(encodingName, Output{Path: path, Content: content})
}

// WriteFiles writes every output in the named encoding. Each output is first
// staged in a temporary file in its target directory; the temporary files
// are renamed into place only after all of them were written and closed, so
// a failure for any output leaves none of them behind.
func WriteFiles(encodingName string, outs ...Output) error {
	staged := make([]string, 0, len(outs))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp) // No-op after a successful rename
		}
	}()

	for _, out := range outs {
		tmp, err := stage(out, encodingName)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, out := range outs {
		if err := os.Rename(staged[i], out.Path); err != nil {
			return fmt.Errorf("writing %s: %w", out.Path, err)
		}
	}
	return nil
}

// stage encodes out and writes it to a temporary file next to out.Path,
// returning the temporary file's name.
func stage(out Output, encodingName string) (string, error) {
	data, err := Encode(out.Content, encodingName)
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", out.Path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(out.Path), "."+filepath.Base(out.Path)+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s: %w", out.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s: %w", out.Path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s: %w", out.Path, err)
	}
	return tmp.Name(), nil
}
