// Package shard presents an ordered list of files as one logical byte stream
// that can be split into shards for parallel readers and read with wrap-around.
package shard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// source counts the bytes handed from a file to its buffered reader.
type source struct {
	file   *os.File
	path   string
	size   int64
	offset int64
}

func (s *source) Read(p []byte) (int, error) {
	n, err := s.file.Read(p)
	s.offset += int64(n)
	return n, err
}

// Cursor is a seekable, wrap-around reader over a fixed set of files.
//
// A Cursor is not safe for concurrent use. Parallel readers should each open
// their own Cursor and Seek it to a different shard.
type Cursor struct {
	sources []*source
	readers []*bufio.Reader
	starts  []int64 // logical offset of each file's first byte
	size    int64
	curr    int
	logger  *slog.Logger
}

// Open opens every path for reading and records its size.
// Either all files are opened or none are left open.
func Open(paths []string, opts ...Option) (*Cursor, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Cursor{
		sources: make([]*source, 0, len(paths)),
		readers: make([]*bufio.Reader, 0, len(paths)),
		starts:  make([]int64, 0, len(paths)),
		logger:  cfg.logger,
	}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			_ = c.Close() // Best-effort cleanup; open error takes precedence
			return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
		}
		src := &source{file: f, path: path}
		c.sources = append(c.sources, src)

		size, err := f.Seek(0, io.SeekEnd)
		if err == nil {
			_, err = f.Seek(0, io.SeekStart)
		}
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("%w: %s: sizing: %w", ErrOpen, path, err)
		}

		src.size = size
		c.starts = append(c.starts, c.size)
		c.size += size
		c.readers = append(c.readers, bufio.NewReaderSize(src, cfg.bufferSize))
	}

	c.logger.Debug("opened shard cursor", "files", len(paths), "bytes", c.size)
	return c, nil
}

// Size returns the total byte length of all files.
func (c *Cursor) Size() int64 {
	return c.size
}

// NumFiles returns the number of files.
func (c *Cursor) NumFiles() int {
	return len(c.sources)
}

// Target returns the logical offset where shard starts when the stream is
// split into shards parts: floor(Size() * shard / shards).
func (c *Cursor) Target(shard, shards int) (int64, error) {
	if shards <= 0 || shard < 0 || shard >= shards {
		return 0, fmt.Errorf("%w: %d of %d", ErrInvalidShard, shard, shards)
	}
	n := int64(shards)
	i := int64(shard)
	// size = q*n + r, so size*i/n = q*i + r*i/n without overflowing size*i.
	q, r := c.size/n, c.size%n
	return q*i + r*i/n, nil
}

// Locate maps a logical offset to a file index and an offset inside that file.
// Offset 0 of a file is attributed to that file, so empty files are skipped.
func (c *Cursor) Locate(pos int64) (file int, offset int64, err error) {
	if pos < 0 || pos > c.size || (pos == c.size && c.size > 0) {
		return 0, 0, fmt.Errorf("%w: offset %d outside [0, %d)", ErrInvalidShard, pos, c.size)
	}
	for i, src := range c.sources {
		if pos < src.size {
			return i, pos, nil
		}
		pos -= src.size
	}
	// Every file is empty.
	return 0, 0, nil
}

// Seek positions the cursor at the start of shard out of shards.
func (c *Cursor) Seek(shard, shards int) error {
	pos, err := c.Target(shard, shards)
	if err != nil {
		return err
	}
	return c.SeekOffset(pos)
}

// SeekOffset positions the cursor at a logical offset in [0, Size()).
func (c *Cursor) SeekOffset(pos int64) error {
	file, offset, err := c.Locate(pos)
	if err != nil {
		return err
	}
	if err := c.seekFile(file, offset); err != nil {
		return err
	}
	c.curr = file
	c.logger.Debug("seeked shard cursor", "pos", pos, "file", c.sources[file].path, "offset", offset)
	return nil
}

// seekFile repositions one file and discards its buffered data and any
// end-of-file state.
func (c *Cursor) seekFile(i int, offset int64) error {
	src := c.sources[i]
	if _, err := src.file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking %s: %w", src.path, err)
	}
	src.offset = offset
	c.readers[i].Reset(src)
	return nil
}

// AtEnd reports whether the current file has no bytes left to read.
func (c *Cursor) AtEnd() (bool, error) {
	_, err := c.readers[c.curr].Peek(1)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, io.EOF):
		return true, nil
	default:
		return false, fmt.Errorf("reading %s: %w", c.sources[c.curr].path, err)
	}
}

// Current returns the reader for the active file. When the active file is
// exhausted it is rewound and the cursor advances to the next file, wrapping
// from the last file to the first. The returned reader is only exhausted when
// the new file is empty; calling Current again moves past it.
func (c *Cursor) Current() (*bufio.Reader, error) {
	end, err := c.AtEnd()
	if err != nil {
		return nil, err
	}
	if end {
		if err := c.seekFile(c.curr, 0); err != nil {
			return nil, err
		}
		next := (c.curr + 1) % len(c.sources)
		c.logger.Debug("shard cursor advanced", "from", c.sources[c.curr].path, "to", c.sources[next].path)
		c.curr = next
		if err := c.seekFile(c.curr, 0); err != nil {
			return nil, err
		}
	}
	return c.readers[c.curr], nil
}

// Position returns the active file index and the in-file offset of the next
// unread byte.
func (c *Cursor) Position() (file int, offset int64) {
	src := c.sources[c.curr]
	return c.curr, src.offset - int64(c.readers[c.curr].Buffered())
}

// Tell returns the logical offset of the next unread byte.
func (c *Cursor) Tell() int64 {
	file, offset := c.Position()
	return c.starts[file] + offset
}

// AlignLine moves forward to the start of the next line unless the cursor is
// already at one: the first byte of a file, or a byte following '\n'.
// A file without a trailing newline aligns to its end.
func (c *Cursor) AlignLine() error {
	file, offset := c.Position()
	if offset == 0 {
		return nil
	}
	if err := c.seekFile(file, offset-1); err != nil {
		return err
	}

	r := c.readers[file]
	for {
		_, err := r.ReadSlice('\n')
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return fmt.Errorf("aligning %s: %w", c.sources[file].path, err)
		}
	}
}

// Close closes every file. The Cursor must not be used afterwards.
func (c *Cursor) Close() error {
	var errs []error
	for _, src := range c.sources {
		if err := src.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
