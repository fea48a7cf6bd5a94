package model

import "journal/store"

// Note is the wire shape of a note; it is the stored shape unchanged.
type Note = store.Note

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
