package mmap

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned by every accessor once the file has been closed.
	ErrClosed = errors.New("mmap: file closed")
	// ErrTooLarge is returned when a file does not fit into the address space.
	ErrTooLarge = errors.New("mmap: file too large")
	// ErrNegativeOffset is returned by ReadAt for offsets below zero.
	ErrNegativeOffset = errors.New("mmap: negative offset")
)

// Hint tells the kernel how a mapped file is going to be read.
type Hint uint8

const (
	// Normal leaves readahead at the kernel default.
	Normal Hint = iota
	// Sequential asks for aggressive readahead; record files are scanned once.
	Sequential
	// Random disables readahead.
	Random
)

// File is a read-only mapping of a whole file.
type File struct {
	data    []byte
	closed  atomic.Bool
	release func() error
}

// Open maps path read-only and applies hint to the mapping.
// An empty file yields a File without a mapping.
func Open(path string, hint Hint) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := info.Size()
	if size == 0 {
		return &File{}, nil
	}
	if int64(int(size)) != size {
		return nil, ErrTooLarge
	}

	data, release, err := mapFile(f, int(size))
	if err != nil {
		return nil, err
	}

	if err := advise(data, hint); err != nil {
		_ = release()
		return nil, err
	}

	return &File{data: data, release: release}, nil
}

// Data returns the mapped contents. The slice is only valid until Close.
func (m *File) Data() ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return m.data, nil
}

// Len returns the length of the file in bytes.
func (m *File) Len() int {
	return len(m.data)
}

// ReadAt implements io.ReaderAt over the mapped contents.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	data, err := m.Data()
	if err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= int64(len(data)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file. Calling it more than once is a no-op.
func (m *File) Close() error {
	if m.closed.Swap(true) || m.release == nil {
		return nil
	}
	return m.release()
}
