package router

import (
	"net/http"

	"journal/internal/note"
	"journal/internal/note/service"
	"journal/middleware"
	"journal/socket"
)

// Setup registers the notes API under both / and /api. hub may be nil, in
// which case /ws is not served.
func Setup(svc *service.NoteService, hub *socket.Hub, corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	// WebSocket
	if hub != nil {
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			socket.ServeWs(hub, w, r)
		})
	}

	// REST API
	noteHandler := note.NewNoteHandler(svc)
	for _, prefix := range []string{"", "/api"} {
		mux.HandleFunc(prefix+"/notes", noteHandler.Notes)
		mux.HandleFunc(prefix+"/notes/{id}", noteHandler.Note)
		mux.HandleFunc(prefix+"/categories", noteHandler.Categories)
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.Recoverer(middleware.RequestLogger(middleware.CORSMiddleware(corsOrigin)(mux)))
}
