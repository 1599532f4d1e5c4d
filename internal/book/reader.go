package book

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader performs Polyglot lookups against a seekable byte source. The
// source must hold whole 16-byte records sorted ascending by their
// big-endian key field; the reader does not verify the ordering.
//
// A Reader owns the source's seek cursor for the duration of a call, so
// a single Reader must not be used from multiple goroutines. Independent
// Readers over independent handles to the same file are fine.
type Reader struct {
	src   io.ReadSeeker
	count int64
}

// NewReader wraps src, which must expose its total length through
// seeking. The length has to be a whole number of records.
func NewReader(src io.ReadSeeker) (*Reader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("book size: %w", err)
	}
	if size%recordSize != 0 {
		return nil, fmt.Errorf("%w: file length %d is not a multiple of %d", ErrInvalidRecord, size, recordSize)
	}
	return &Reader{src: src, count: size / recordSize}, nil
}

// Len returns the number of records in the source.
func (r *Reader) Len() int {
	return int(r.count)
}

// Find returns every entry recorded for the snapshot's position, in file
// order. A position absent from the book yields an empty result and no
// error.
func (r *Reader) Find(key *Key) ([]Entry, error) {
	return r.find(key.Hash(), key.WhiteCastle, key.BlackCastle)
}

func (r *Reader) find(hash uint64, white, black CastleRights) ([]Entry, error) {
	lo, found, err := r.lowerBound(hash)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	hi, err := r.upperBound(hash)
	if err != nil {
		return nil, err
	}

	n := hi - lo + 1
	buf := make([]byte, n*recordSize)
	if _, err := r.src.Seek(lo*recordSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek record %d: %w", lo, err)
	}
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, fmt.Errorf("read records %d..%d: %w", lo, hi, err)
	}

	entries := make([]Entry, 0, n)
	for i := int64(0); i < n; i++ {
		entry, err := decodeEntry(buf[i*recordSize:(i+1)*recordSize], white, black)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", lo+i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// lowerBound finds the first index whose key is >= hash, and reports
// whether an exactly matching key was seen on the way down. The search
// always probes the final index when a match exists, so a false report
// means the hash is not in the file and no further I/O is needed.
func (r *Reader) lowerBound(hash uint64) (int64, bool, error) {
	lo, hi := int64(0), r.count
	found := false
	for lo < hi {
		mid := lo + (hi-lo)/2
		key, err := r.keyAt(mid)
		if err != nil {
			return 0, false, err
		}
		if key == hash {
			found = true
		}
		if key >= hash {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, found, nil
}

// upperBound finds the last index whose key is <= hash. Only called once
// lowerBound has seen a match, so the result never underflows.
func (r *Reader) upperBound(hash uint64) (int64, error) {
	lo, hi := int64(0), r.count
	for lo < hi {
		mid := lo + (hi-lo)/2
		key, err := r.keyAt(mid)
		if err != nil {
			return 0, err
		}
		if key <= hash {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1, nil
}

func (r *Reader) keyAt(i int64) (uint64, error) {
	var buf [8]byte
	if _, err := r.src.Seek(i*recordSize, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek record %d: %w", i, err)
	}
	if _, err := io.ReadFull(r.src, buf[:]); err != nil {
		return 0, fmt.Errorf("read record %d: %w", i, err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
