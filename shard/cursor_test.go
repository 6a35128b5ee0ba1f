package shard

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles writes each content string to its own file and returns the paths.
func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(contents))
	for i, content := range contents {
		path := filepath.Join(dir, "part"+strconv.Itoa(i)+".txt")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		paths[i] = path
	}
	return paths
}

func openFiles(t *testing.T, contents ...string) *Cursor {
	t.Helper()
	c, err := Open(writeFiles(t, contents...), WithBufferSize(16))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestOpen_NoFiles(t *testing.T) {
	_, err := Open(nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestOpen_MissingFile(t *testing.T) {
	paths := writeFiles(t, "first\n")
	paths = append(paths, filepath.Join(t.TempDir(), "missing.txt"))

	c, err := Open(paths)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCursor_Size(t *testing.T) {
	contents := []string{"alpha\n", "", "beta\ngamma\n", "d"}
	c := openFiles(t, contents...)

	var want int64
	for _, s := range contents {
		want += int64(len(s))
	}
	assert.Equal(t, want, c.Size())
	assert.Equal(t, len(contents), c.NumFiles())

	// Handles are rewound after sizing.
	r, err := c.Current()
	require.NoError(t, err)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "alpha\n", line)
}

func TestCursor_Locate(t *testing.T) {
	c := openFiles(t, "0123456789", "", "abcde")

	tests := []struct {
		name       string
		pos        int64
		wantFile   int
		wantOffset int64
		wantErr    bool
	}{
		{name: "start", pos: 0, wantFile: 0, wantOffset: 0},
		{name: "last byte of first file", pos: 9, wantFile: 0, wantOffset: 9},
		{name: "boundary skips empty file", pos: 10, wantFile: 2, wantOffset: 0},
		{name: "inside last file", pos: 14, wantFile: 2, wantOffset: 4},
		{name: "past the end", pos: 15, wantErr: true},
		{name: "negative", pos: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, offset, err := c.Locate(tt.pos)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidShard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, file)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestCursor_Target(t *testing.T) {
	c := openFiles(t, "aaaaaaa\n", "bb\n", "ccccccccccccc\n")

	for _, shards := range []int{1, 2, 3, 7, 25} {
		prev := int64(-1)
		for i := 0; i < shards; i++ {
			pos, err := c.Target(i, shards)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, pos, prev, "shards=%d i=%d", shards, i)
			assert.Equal(t, c.Size()*int64(i)/int64(shards), pos)
			prev = pos
		}

		pos, err := c.Target(0, shards)
		require.NoError(t, err)
		file, offset, err := c.Locate(pos)
		require.NoError(t, err)
		assert.Equal(t, 0, file)
		assert.Equal(t, int64(0), offset)
	}

	for _, bad := range [][2]int{{0, 0}, {-1, 3}, {3, 3}} {
		_, err := c.Target(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidShard)
		assert.ErrorIs(t, c.Seek(bad[0], bad[1]), ErrInvalidShard)
	}
}

func TestCursor_Seek(t *testing.T) {
	c := openFiles(t, "aaaa\n", "bbbb\n", "cccc\n")

	tests := []struct {
		shard, shards int
		wantFile      int
		wantOffset    int64
		wantLine      string
	}{
		{shard: 0, shards: 3, wantFile: 0, wantOffset: 0, wantLine: "aaaa\n"},
		{shard: 1, shards: 3, wantFile: 1, wantOffset: 0, wantLine: "bbbb\n"},
		{shard: 2, shards: 3, wantFile: 2, wantOffset: 0, wantLine: "cccc\n"},
		{shard: 1, shards: 2, wantFile: 1, wantOffset: 2, wantLine: "bb\n"},
	}

	for _, tt := range tests {
		name := strconv.Itoa(tt.shard) + "/" + strconv.Itoa(tt.shards)
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Seek(tt.shard, tt.shards))
			file, offset := c.Position()
			assert.Equal(t, tt.wantFile, file)
			assert.Equal(t, tt.wantOffset, offset)

			r, err := c.Current()
			require.NoError(t, err)
			line, err := r.ReadString('\n')
			require.NoError(t, err)
			assert.Equal(t, tt.wantLine, line)
		})
	}
}

func TestCursor_SeekAfterEOF(t *testing.T) {
	c := openFiles(t, "xy\n")

	r, err := c.Current()
	require.NoError(t, err)
	_, err = io.ReadAll(r)
	require.NoError(t, err)

	end, err := c.AtEnd()
	require.NoError(t, err)
	assert.True(t, end)

	require.NoError(t, c.SeekOffset(1))
	r, err = c.Current()
	require.NoError(t, err)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "y\n", line)
}

func TestCursor_WrapAround(t *testing.T) {
	contents := []string{"ab\n", "", "cd", "efg\n"}
	c := openFiles(t, contents...)

	var concat string
	for _, s := range contents {
		concat += s
	}

	var got bytes.Buffer
	for got.Len() < 3*len(concat)+2 {
		r, err := c.Current()
		require.NoError(t, err)
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			continue
		}
		require.NoError(t, err)
		got.WriteByte(b)
	}

	want := concat + concat + concat + concat[:2]
	assert.Equal(t, want, got.String())
}

func TestCursor_SingleFileWraps(t *testing.T) {
	c := openFiles(t, "one\n")

	for i := 0; i < 3; i++ {
		r, err := c.Current()
		require.NoError(t, err)
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, "one\n", line)
	}
}

func TestCursor_AlignLine(t *testing.T) {
	c := openFiles(t, "one\ntwo\n", "three\n", "four")

	tests := []struct {
		name     string
		pos      int64
		wantTell int64
		wantLine string
	}{
		{name: "file start", pos: 0, wantTell: 0, wantLine: "one\n"},
		{name: "mid line", pos: 1, wantTell: 4, wantLine: "two\n"},
		{name: "line start", pos: 4, wantTell: 4, wantLine: "two\n"},
		{name: "last line of file", pos: 6, wantTell: 8, wantLine: "three\n"},
		{name: "next file start", pos: 8, wantTell: 8, wantLine: "three\n"},
		{name: "no trailing newline", pos: 16, wantTell: 18, wantLine: "one\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, c.SeekOffset(tt.pos))
			require.NoError(t, c.AlignLine())
			assert.Equal(t, tt.wantTell, c.Tell())

			r, err := c.Current()
			require.NoError(t, err)
			line, err := r.ReadString('\n')
			require.NoError(t, err)
			assert.Equal(t, tt.wantLine, line)
		})
	}
}

func TestCursor_Tell(t *testing.T) {
	c := openFiles(t, "ab\n", "cde\n")

	r, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.Tell())

	_, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.Tell())

	r, err = c.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.Tell())

	_, err = r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.Tell())
}

func TestCursor_EmptyFiles(t *testing.T) {
	c := openFiles(t, "", "")
	assert.Equal(t, int64(0), c.Size())
	require.NoError(t, c.Seek(1, 2))

	r, err := c.Current()
	require.NoError(t, err)
	_, err = r.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCursor_Close(t *testing.T) {
	c, err := Open(writeFiles(t, "a", "b"))
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
