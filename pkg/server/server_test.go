package server

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/bastiangx/emojiserve/pkg/corpus"
	"github.com/bastiangx/emojiserve/pkg/frecency"
	"github.com/bastiangx/emojiserve/pkg/highlight"
	"github.com/bastiangx/emojiserve/pkg/history"
	"github.com/bastiangx/emojiserve/pkg/session"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// reply is the union of every response shape.
type reply struct {
	ID       string  `msgpack:"id"`
	Status   string  `msgpack:"status"`
	Error    string  `msgpack:"e"`
	Code     int     `msgpack:"c"`
	Query    string  `msgpack:"q"`
	Selected int     `msgpack:"i"`
	Rows     []Row   `msgpack:"r"`
	Count    int     `msgpack:"n"`
	Picked   *Picked `msgpack:"p"`
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	scorer := frecency.NewScorer(frecency.DefaultHalfLife)
	scorer.Now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	var entries []corpus.Entry
	for _, l := range []string{
		"😀| grinning face| 1f600",
		"😢| crying face| 1f622",
		"🔥| fire| 1f525",
	} {
		entries = append(entries, corpus.Parse(l))
	}
	return session.New(session.Options{
		Corpus: entries,
		Log:    history.New(history.StaticPath(filepath.Join(t.TempDir(), "history.jsonl"))),
		Scorer: scorer,
	})
}

func encodeRequests(t *testing.T, reqs ...Request) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}
	return &buf
}

func decodeReplies(t *testing.T, out *bytes.Buffer) []reply {
	t.Helper()
	dec := msgpack.NewDecoder(out)
	var replies []reply
	for {
		var r reply
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			return replies
		}
		require.NoError(t, err)
		replies = append(replies, r)
	}
}

func TestServerSession(t *testing.T) {
	in := encodeRequests(t,
		Request{ID: "1", Action: ActionView},
		Request{ID: "2", Action: ActionInput, Text: "fa"},
		Request{ID: "3", Action: ActionDown},
		Request{ID: "4", Action: ActionCommit},
		Request{ID: "5", Action: ActionDelete},
		Request{ID: "6", Action: ActionClear},
		Request{ID: "7", Action: ActionHealth},
	)
	var out bytes.Buffer

	srv := NewServer(newTestSession(t), in, &out)
	require.NoError(t, srv.Start())

	replies := decodeReplies(t, &out)
	require.Len(t, replies, 8)

	assert.Equal(t, "ready", replies[0].Status)

	assert.Equal(t, "1", replies[1].ID)
	assert.Equal(t, 3, replies[1].Count)

	typed := replies[2]
	assert.Equal(t, "fa", typed.Query)
	require.Len(t, typed.Rows, 2)
	assert.Equal(t, "1f600", typed.Rows[0].Code)
	assert.Equal(t, "grinning face", highlight.Join(typed.Rows[0].Segments))
	assert.Equal(t, highlight.Segment{Text: "fa", Bold: true}, typed.Rows[0].Segments[1])

	assert.Equal(t, 1, replies[3].Selected)

	require.NotNil(t, replies[4].Picked)
	assert.Equal(t, "1f622", replies[4].Picked.Code)

	assert.Equal(t, "f", replies[5].Query)
	assert.Equal(t, 0, replies[5].Selected)
	assert.Equal(t, "1f622", replies[5].Rows[0].Code)

	assert.Equal(t, "", replies[6].Query)
	assert.Equal(t, "1f622", replies[6].Rows[0].Code)

	assert.Equal(t, "7", replies[7].ID)
	assert.Equal(t, "ok", replies[7].Status)
}

func TestServerErrors(t *testing.T) {
	in := encodeRequests(t,
		Request{ID: "a", Action: "dance"},
		Request{ID: "b", Action: ActionInput},
		Request{ID: "c", Action: ActionInput, Text: "zzz"},
	)
	var out bytes.Buffer
	require.NoError(t, NewServer(newTestSession(t), in, &out).Start())

	replies := decodeReplies(t, &out)
	require.Len(t, replies, 4)
	assert.Equal(t, 400, replies[1].Code)
	assert.Contains(t, replies[1].Error, "dance")
	assert.Equal(t, 400, replies[2].Code)

	assert.Equal(t, "zzz", replies[3].Query)
	assert.Len(t, replies[3].Rows, 3)
}

func TestServerSurvivesMistypedRequest(t *testing.T) {
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(map[string]interface{}{"id": "1", "a": 5}))
	require.NoError(t, enc.Encode(Request{ID: "2", Action: ActionHealth}))

	var out bytes.Buffer
	require.NoError(t, NewServer(newTestSession(t), &in, &out).Start())

	replies := decodeReplies(t, &out)
	require.Len(t, replies, 3)
	assert.Equal(t, "1", replies[1].ID)
	assert.Equal(t, 400, replies[1].Code)
	assert.Equal(t, "2", replies[2].ID)
	assert.Equal(t, "ok", replies[2].Status)
}

func TestServerRejectsBrokenStream(t *testing.T) {
	in := bytes.NewBuffer([]byte{0xc1})
	var out bytes.Buffer
	assert.Error(t, NewServer(newTestSession(t), in, &out).Start())
}
