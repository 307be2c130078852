package jsonl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/DRSN-tech/ingest-pipeline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("disk full")
}

func TestSink_WriteDatapoint(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	for i := 0; i < 3; i++ {
		record := domain.NewProductRecord(fmt.Sprintf("SKU-%d", i), "Item")
		err := sink.WriteDatapoint(context.Background(), domain.NewDatapoint(record, []float32{0.1}))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, sink.Written())

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 3)
	for _, line := range lines {
		var obj map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(line, &obj))
		for _, key := range []string{"id", "featureVector", "restricts", "numericRestricts", "crowdingTag", "metadata"} {
			assert.Contains(t, obj, key)
		}
	}
}

func TestSink_WriteError(t *testing.T) {
	sink := NewSink(failingWriter{})

	err := sink.WriteDatapoint(context.Background(), domain.NewDatapoint(domain.NewProductRecord("A1", ""), nil))
	require.Error(t, err)
	assert.Zero(t, sink.Written())
}

func TestMultiSink_DuplicatesToAllSinks(t *testing.T) {
	var first, second bytes.Buffer
	multi := NewMultiSink(NewSink(&first), NewSink(&second))

	dp := domain.NewDatapoint(domain.NewProductRecord("A1", "Tee"), []float32{0.1})
	require.NoError(t, multi.WriteDatapoint(context.Background(), dp))

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, 1, multi.Written())
}

func TestMultiSink_WrittenIsMinOfChildren(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiSink(NewSink(&buf), NewSink(failingWriter{}))

	dp := domain.NewDatapoint(domain.NewProductRecord("A1", "Tee"), []float32{0.1})
	require.Error(t, multi.WriteDatapoint(context.Background(), dp))

	assert.Equal(t, 0, multi.Written())
}

func TestMultiSink_Empty(t *testing.T) {
	assert.Equal(t, 0, NewMultiSink().Written())
}
