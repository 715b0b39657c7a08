package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieval_SortsByChunkIndex(t *testing.T) {
	store := &fakeRanker{results: chunks(2, "B", 0, "A", 1, "C")}
	step := &RetrievalStep{Store: store, Limit: 3}

	out, err := step.Run(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, "A\n\nC\n\nB", out)
	assert.Equal(t, "query", store.lastQuery)
	assert.Equal(t, 3, store.lastLimit)
}

func TestRetrieval_DefaultLimit(t *testing.T) {
	store := &fakeRanker{results: chunks(9, "late", 4, "early", 1, "never")}
	step := &RetrievalStep{Store: store}

	out, err := step.Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, DefaultRetrievalLimit, store.lastLimit)
	assert.Equal(t, "early\n\nlate", out)
}

func TestRetrieval_EmptyResultIsNotAnError(t *testing.T) {
	step := &RetrievalStep{Store: &fakeRanker{}}
	out, err := step.Run(context.Background(), "nothing matches")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRetrieval_StoreFailure(t *testing.T) {
	cause := errors.New("connection refused")
	step := &RetrievalStep{Store: &fakeRanker{err: cause}}

	_, err := step.Run(context.Background(), "q")
	var unavailable *RetrievalUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, cause)
}

func TestRetrieval_RetriesTransientFailure(t *testing.T) {
	store := &fakeRanker{
		results:   chunks(0, "A"),
		transient: errors.New("timeout"),
		failTimes: 1,
	}
	step := &RetrievalStep{Store: store, Retries: 1}

	out, err := step.Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "A", out)
	assert.Equal(t, 2, store.count())
}

func TestRetrieval_NoRetryByDefault(t *testing.T) {
	store := &fakeRanker{
		results:   chunks(0, "A"),
		transient: errors.New("timeout"),
		failTimes: 1,
	}
	step := &RetrievalStep{Store: store}

	_, err := step.Run(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, 1, store.count())
}
