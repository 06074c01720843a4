package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type film struct {
	ID     uint64 `json:"id"`
	Title  string `json:"title"`
	TMDBID *int64 `json:"tmdbId,omitempty"`
}

func ptr(v int64) *int64 { return &v }

func filmID(f film) (int64, bool) {
	if f.TMDBID == nil {
		return 0, false
	}
	return *f.TMDBID, true
}

func quietFanout(timeout time.Duration) *Fanout {
	return NewFanout(timeout, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEnrich_PreservesOrderWhenCallsResolveOutOfOrder(t *testing.T) {
	rows := make([]film, 20)
	for i := range rows {
		rows[i] = film{ID: uint64(i + 1), TMDBID: ptr(int64(100 + i))}
	}

	fetch := func(ctx context.Context, id int64) (json.RawMessage, error) {
		// later rows finish first
		time.Sleep(time.Duration(120-id) * time.Millisecond)
		return json.RawMessage(fmt.Sprintf(`{"id":%d}`, id)), nil
	}

	out := Enrich(context.Background(), NewFanout(time.Second, 50, nil), rows, filmID, fetch)

	require.Len(t, out, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i], out[i].Row)
		assert.JSONEq(t, fmt.Sprintf(`{"id":%d}`, 100+i), string(out[i].ExternalData))
	}
}

func TestEnrich_FailureIsIsolatedToItsRow(t *testing.T) {
	rows := []film{
		{ID: 1, TMDBID: ptr(11)},
		{ID: 2, TMDBID: ptr(22)},
		{ID: 3, TMDBID: ptr(33)},
	}
	fetch := func(ctx context.Context, id int64) (json.RawMessage, error) {
		if id == 22 {
			return nil, errors.New("metadata api returned 502")
		}
		return json.RawMessage(`{"ok":true}`), nil
	}

	out := Enrich(context.Background(), quietFanout(time.Second), rows, filmID, fetch)

	require.Len(t, out, 3)
	assert.NotNil(t, out[0].ExternalData)
	assert.Nil(t, out[1].ExternalData)
	assert.NotNil(t, out[2].ExternalData)
	assert.Equal(t, uint64(2), out[1].Row.ID)
}

func TestEnrich_RowsWithoutExternalIDAreNotFetched(t *testing.T) {
	var calls atomic.Int32
	rows := []film{{ID: 1}, {ID: 2, TMDBID: ptr(7)}, {ID: 3}}
	fetch := func(ctx context.Context, id int64) (json.RawMessage, error) {
		calls.Add(1)
		return json.RawMessage(`{}`), nil
	}

	out := Enrich(context.Background(), quietFanout(time.Second), rows, filmID, fetch)

	assert.Equal(t, int32(1), calls.Load())
	assert.Nil(t, out[0].ExternalData)
	assert.NotNil(t, out[1].ExternalData)
	assert.Nil(t, out[2].ExternalData)
}

func TestEnrich_SlowCallIsBoundedByTimeout(t *testing.T) {
	rows := []film{{ID: 1, TMDBID: ptr(1)}, {ID: 2, TMDBID: ptr(2)}}
	release := make(chan struct{})
	defer close(release)

	fetch := func(ctx context.Context, id int64) (json.RawMessage, error) {
		if id == 1 {
			// ignores ctx on purpose
			<-release
		}
		return json.RawMessage(`{"fast":true}`), nil
	}

	start := time.Now()
	out := Enrich(context.Background(), quietFanout(50*time.Millisecond), rows, filmID, fetch)

	assert.Less(t, time.Since(start), time.Second)
	assert.Nil(t, out[0].ExternalData)
	assert.JSONEq(t, `{"fast":true}`, string(out[1].ExternalData))
}

func TestEnrich_CancelledRequestPropagatesToFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawCancel atomic.Bool
	rows := []film{{ID: 1, TMDBID: ptr(1)}}
	fetch := func(ctx context.Context, id int64) (json.RawMessage, error) {
		<-ctx.Done()
		sawCancel.Store(true)
		return nil, ctx.Err()
	}

	out := Enrich(ctx, quietFanout(time.Minute), rows, filmID, fetch)

	require.Len(t, out, 1)
	assert.Nil(t, out[0].ExternalData)
	assert.Eventually(t, sawCancel.Load, time.Second, 5*time.Millisecond)
}

func TestEnrich_NilFetchLeavesRowsBare(t *testing.T) {
	out := Enrich[film](context.Background(), quietFanout(0), []film{{ID: 9}}, filmID, nil)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].ExternalData)
}

func TestEnrichedRow_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(EnrichedRow[film]{Row: film{ID: 4, Title: "Ran"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"title":"Ran","externalData":null}`, string(b))

	b, err = json.Marshal(EnrichedRow[film]{Row: film{ID: 5, Title: "Ikiru", TMDBID: ptr(3782)}, ExternalData: json.RawMessage(`{"runtime":143}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"title":"Ikiru","tmdbId":3782,"externalData":{"runtime":143}}`, string(b))
}

func TestEnrichedRow_MarshalJSONRejectsNonObjects(t *testing.T) {
	_, err := json.Marshal(EnrichedRow[int]{Row: 3})
	assert.Error(t, err)
}
