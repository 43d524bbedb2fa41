package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/service"
	"github.com/hungerhelp/hungerhelp/internal/session"
)

// maxUploadBytes bounds recipe image uploads.
const maxUploadBytes = 10 << 20

type BlogHandler struct {
	postService *service.PostService
}

func NewBlogHandler(postService *service.PostService) *BlogHandler {
	return &BlogHandler{postService: postService}
}

type PostResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Recipe      string `json:"recipe"`
	Ingredients string `json:"ingredients"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Views       int64  `json:"views"`
}

func toPostResponse(p *model.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Recipe:      p.Recipe,
		Ingredients: p.Ingredients,
		Image:       p.Image,
		Price:       p.Price,
		Views:       p.Views,
	}
}

func toPostResponses(posts []model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}

// readUpload pulls the named file out of a multipart form. A missing file
// yields empty values, letting the caller decide whether that is an error.
func readUpload(r *http.Request, field string) (name, contentType string, data []byte, err error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", "", nil, nil
	}
	if err != nil {
		return "", "", nil, err
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return "", "", nil, err
	}
	return header.Filename, header.Header.Get("Content-Type"), data, nil
}

// Create handles a new recipe post (multipart form).
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	imageName, imageType, imageData, err := readUpload(r, "image")
	if err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.CreatePost(r.Context(), sess.UserID, service.CreatePostInput{
		Title:       r.FormValue("title"),
		Recipe:      r.FormValue("recipe"),
		Ingredients: r.FormValue("ingredients"),
		Price:       r.FormValue("price"),
		ImageName:   imageName,
		ImageType:   imageType,
		ImageData:   imageData,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// Home lists all posts, most recent first.
func (h *BlogHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPosts(r.Context(), model.OrderRecent)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipes":  toPostResponses(posts),
		"order_by": model.OrderRecent,
	})
}

// Order lists posts sorted by views or recency.
func (h *BlogHandler) Order(w http.ResponseWriter, r *http.Request) {
	order := model.PostOrder(chi.URLParam(r, "order"))

	posts, err := h.postService.ListPosts(r.Context(), order)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipes":  toPostResponses(posts),
		"order_by": order,
	})
}

// Get returns a single post and counts the view.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.postService.ViewPost(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// Edit applies a partial update (multipart form, all fields optional).
func (h *BlogHandler) Edit(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	imageName, imageType, imageData, err := readUpload(r, "image")
	if err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.EditPost(r.Context(), sess.UserID, sess.Role, id, service.EditPostInput{
		Title:       r.FormValue("title"),
		Recipe:      r.FormValue("recipe"),
		Ingredients: r.FormValue("ingredients"),
		Price:       r.FormValue("price"),
		ImageName:   imageName,
		ImageType:   imageType,
		ImageData:   imageData,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// Delete removes a post.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if err := h.postService.DeletePost(r.Context(), sess.UserID, sess.Role, id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
