package social

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/CoolizzLuo/graphql-demo/internal/middleware"
	"github.com/CoolizzLuo/graphql-demo/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Handler exposes the social-graph operations over HTTP.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// Routes mounts every operation on r. The session middleware must already
// be installed on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/login", h.Login)
	})
	r.Get("/api/me", h.Me)
	r.Put("/api/me", h.UpdateMyInfo)
	r.Post("/api/me/friends", h.AddFriend)
	r.Get("/api/users", h.Users)
	r.Get("/api/users/{name}", h.UserByName)
	r.Get("/api/posts", h.Posts)
	r.Post("/api/posts", h.AddPost)
	r.Get("/api/posts/{id}", h.Post)
	r.Post("/api/posts/{id}/like", h.LikePost)
	r.Delete("/api/posts/{id}", h.DeletePost)
}

func (h *Handler) opCtx(r *http.Request) *Ctx {
	return &Ctx{
		Context: r.Context(),
		Session: middleware.SessionFrom(r.Context()),
	}
}

// decodeValid decodes the JSON body into req and validates it.
func (h *Handler) decodeValid(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return err
	}
	return h.validate.Struct(req)
}

func postIDArgs(r *http.Request) (PostIDArgs, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return PostIDArgs{}, ErrPostNotFound
	}
	return PostIDArgs{PostID: id}, nil
}

// run invokes op and writes the result, mapping domain failures to status
// codes.
func run[A, R any](h *Handler, w http.ResponseWriter, r *http.Request, op Operation[A, R], args A, status int) {
	res, err := op(h.opCtx(r), args)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, res)
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	run(h, w, r, h.svc.SignUp, req, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	run(h, w, r, h.svc.Login, req, http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	c := h.opCtx(r)
	me, err := h.svc.Me(c, NoArgs{})
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.svc.ResolveUser(c.Context, me)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	c := h.opCtx(r)
	users, err := h.svc.Users(c, NoArgs{})
	if err != nil {
		writeError(w, err)
		return
	}
	views, err := h.svc.ResolveUsers(c.Context, users)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) UserByName(w http.ResponseWriter, r *http.Request) {
	c := h.opCtx(r)
	u, err := h.svc.UserByName(c, NameArgs{Name: chi.URLParam(r, "name")})
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.svc.ResolveUser(c.Context, u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	c := h.opCtx(r)
	posts, err := h.svc.Posts(c, NoArgs{})
	if err != nil {
		writeError(w, err)
		return
	}
	views, err := h.svc.ResolvePosts(c.Context, posts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	args, err := postIDArgs(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c := h.opCtx(r)
	post, err := h.svc.Post(c, args)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.svc.ResolvePost(c.Context, post)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateMyInfo(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateMyInfoRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	run(h, w, r, h.svc.UpdateMyInfo, req, http.StatusOK)
}

func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	var req models.AddFriendRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	run(h, w, r, h.svc.AddFriend, req, http.StatusOK)
}

func (h *Handler) AddPost(w http.ResponseWriter, r *http.Request) {
	var req models.AddPostRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	run(h, w, r, h.svc.AddPost, req, http.StatusCreated)
}

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	args, err := postIDArgs(r)
	if err != nil {
		writeError(w, err)
		return
	}
	run(h, w, r, h.svc.LikePost, args, http.StatusOK)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	args, err := postIDArgs(r)
	if err != nil {
		writeError(w, err)
		return
	}
	run(h, w, r, h.svc.DeletePost, args, http.StatusOK)
}
