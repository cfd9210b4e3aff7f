package storage

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReaderReportsIncreasingPercentages(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 1000)
	var reports []int
	r := newProgressReader(iotest.OneByteReader(bytes.NewReader(data)), int64(len(data)), func(p int) {
		reports = append(reports, p)
	})

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	require.NotEmpty(t, reports)
	assert.Equal(t, 1, reports[0])
	assert.Equal(t, 99, reports[len(reports)-1])
	for i := 1; i < len(reports); i++ {
		assert.Greater(t, reports[i], reports[i-1])
	}
}

func TestProgressReaderPassThroughWithoutSize(t *testing.T) {
	src := bytes.NewReader([]byte("abc"))
	assert.Same(t, io.Reader(src), newProgressReader(src, 0, func(int) {}))
	assert.Same(t, io.Reader(src), newProgressReader(src, 3, nil))
}
