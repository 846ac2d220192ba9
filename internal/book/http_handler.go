package book

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"bookstore/internal/httpx"

	"github.com/rs/zerolog"
)

// bookRequest is the body of POST /books and PUT /books/{id}.
type bookRequest struct {
	Title  string   `json:"title" validate:"required,notblank,max=255"`
	Author string   `json:"author" validate:"required,notblank,max=255"`
	Price  *float64 `json:"price" validate:"required,gte=0"`
}

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("GET /books/{id}", h.Get)
	mux.HandleFunc("PUT /books/{id}", h.Update)
	mux.HandleFunc("DELETE /books/{id}", h.Delete)
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListAllBooks(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]interface{}{"total": len(books)})
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	inserted, err := h.service.InsertBook(r.Context(), Book{Title: req.Title, Author: req.Author, Price: *req.Price})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !inserted {
		h.log.Error().Str("request_id", httpx.RequestIDFrom(r)).Msg("insert affected no rows")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessCreated(w, r, map[string]bool{"inserted": true})
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b, found, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		h.writeError(w, r, ErrBookNotFound)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Update handles PUT /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	b := Book{ID: id, Title: req.Title, Author: req.Author, Price: *req.Price}
	updated, err := h.service.UpdateBook(r.Context(), b)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !updated {
		// the row went away between the existence check and the update
		h.writeError(w, r, ErrBookNotFound)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteBook(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !deleted {
		h.writeError(w, r, ErrBookNotFound)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// parseID reads the {id} path value. book_id is a SERIAL (int4) column,
// so a well-formed id above its range cannot name a book and gets a 404
// without reaching the store.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ID", "Book id must be a positive integer", nil)
		return 0, false
	}
	if id > math.MaxInt32 {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request) (bookRequest, bool) {
	var req bookRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return req, false
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body must be a JSON book", nil)
		return req, false
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book", details)
		return req, false
	}
	return req, true
}

// writeError maps Service errors to responses by kind. Causes are logged,
// never sent to the client.
func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrBookNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}

	ev := h.log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r))
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		ev = ev.Str("cause", svcErr.Cause)
	}
	var dataErr *DataAccessError
	if errors.As(err, &dataErr) {
		ev = ev.Str("op", dataErr.Op).Str("kind", string(dataErr.Kind))
	}
	ev.Msg("book request failed")

	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
