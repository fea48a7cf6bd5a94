package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal/internal/note/service"
	"journal/socket"
	"journal/store"
)

func TestHealthz(t *testing.T) {
	st := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	h := Setup(service.NewNoteService(st, nil), nil, "*")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWebsocketReceivesCreatedNote(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	hub := socket.NewHub(st.LoadAll)
	go hub.Run(ctx)
	svc := service.NewNoteService(st, hub)

	server := httptest.NewServer(Setup(svc, hub, "*"))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() socket.WSMessage {
		var msg socket.WSMessage
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, p, err := conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(p, &msg))
		return msg
	}

	assert.Equal(t, socket.SnapshotType, read().Type)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	body := `{"id":"1","title":"A","content":"x","category":"Ideas","timestamp":"2024-01-01T00:00:00Z"}`
	resp, err := http.Post(server.URL+"/api/notes", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	msg := read()
	assert.Equal(t, socket.NoteCreatedType, msg.Type)
	assert.Equal(t, "1", msg.NoteID)
	assert.JSONEq(t, body, string(msg.Payload))

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/notes/1", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg = read()
	assert.Equal(t, socket.NoteDeletedType, msg.Type)
	assert.Equal(t, "1", msg.NoteID)
}
