// Package mmap maps record files read-only into memory.
//
// Training and test files are scanned once from the first line to the last,
// so the local blob store opens them with the Sequential hint:
//
//	f, err := mmap.Open("mnist_train.csv", mmap.Sequential)
//	if err != nil { ... }
//	defer f.Close()
//
//	data, err := f.Data()
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile and ignores the hint.
package mmap
