// Package apitest runs an in-process AutoTracker server for tests. It
// mirrors the real server's contract: paths, payload shapes, {detail} error
// bodies, bearer auth, and server-assigned ids and timestamps.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/autotrack/autotrack/pkg/models"
)

const botUsername = "autotracker_bot"

type user struct {
	username     string
	email        string
	passwordHash []byte
	chatID       string
	skills       []string
	linkToken    string
}

// Server is the fake AutoTracker backend.
type Server struct {
	secret string

	mu    sync.Mutex
	users map[string]*user
	jobs  map[string]map[string]models.Job // username -> id -> job
	seq   int

	httpSrv *httptest.Server
}

// New starts the fake server. Callers own the returned server and must
// Close it.
func New() *Server {
	s := &Server{
		secret: "apitest-secret",
		users:  make(map[string]*user),
		jobs:   make(map[string]map[string]models.Job),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	protected.HandleFunc("/auth/skills", s.handleSkills).Methods(http.MethodPut)
	protected.HandleFunc("/auth/telegram", s.handleTelegram).Methods(http.MethodPut)
	protected.HandleFunc("/auth/telegram/link", s.handleTelegramLink).Methods(http.MethodGet)
	protected.HandleFunc("/jobs/", s.handleListJobs).Methods(http.MethodGet)
	protected.HandleFunc("/jobs/", s.handleCreateJob).Methods(http.MethodPost)
	protected.HandleFunc("/jobs/{id}", s.handleGetJob).Methods(http.MethodGet)
	protected.HandleFunc("/jobs/{id}", s.handleUpdateJob).Methods(http.MethodPut)
	protected.HandleFunc("/jobs/{id}", s.handleDeleteJob).Methods(http.MethodDelete)

	s.httpSrv = httptest.NewServer(r)
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.httpSrv.URL }

// Close shuts the server down.
func (s *Server) Close() { s.httpSrv.Close() }

// AddUser registers an account directly, bypassing the signup endpoint.
func (s *Server) AddUser(username, password, email string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("apitest: bcrypt: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &user{username: username, email: email, passwordHash: hash}
	s.jobs[username] = make(map[string]models.Job)
}

// SeedJob inserts a job for a user directly and returns it as stored.
func (s *Server) SeedJob(username string, draft models.JobDraft) models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.jobFromDraft(draft)
	s.jobs[username][j.ID] = j
	return j
}

// TokenFor mints a valid bearer token for the user, same claims as login.
func (s *Server) TokenFor(username string) string {
	return s.mintToken(username)
}

// User returns the stored chat id and skills for assertions.
func (s *Server) User(username string) (chatID string, skills []string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return "", nil, false
	}
	return u.chatID, append([]string(nil), u.skills...), true
}

func (s *Server) jobFromDraft(draft models.JobDraft) models.Job {
	s.seq++
	return models.Job{
		ID:            fmt.Sprintf("job-%04d", s.seq),
		Title:         draft.Title,
		Company:       draft.Company,
		Location:      draft.Location,
		Description:   draft.Description,
		Link:          draft.Link,
		Applied:       draft.Applied,
		Source:        draft.Source,
		SkillsMatched: draft.SkillsMatched,
		DateAdded:     time.Now().UTC().Truncate(time.Second),
	}
}

func (s *Server) mintToken(username string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return signed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "AutoTracker app is running!"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username       string   `json:"username"`
		Email          string   `json:"email"`
		Password       string   `json:"password"`
		TelegramChatID string   `json:"telegram_chat_id"`
		Skills         []string `json:"skills"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "All fields are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "username already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "hash failure")
		return
	}
	s.users[req.Username] = &user{
		username:     req.Username,
		email:        req.Email,
		passwordHash: hash,
		chatID:       req.TelegramChatID,
		skills:       req.Skills,
	}
	s.jobs[req.Username] = make(map[string]models.Job)

	writeJSON(w, http.StatusOK, map[string]string{"message": "User created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": s.mintToken(username),
		"token_type":   "bearer",
	})
}

type ctxKey string

const ctxUsername ctxKey = "username"

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(s.secret), nil
		})
		if err != nil || !token.Valid {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		sub, _ := claims.GetSubject()

		s.mu.Lock()
		_, known := s.users[sub]
		s.mu.Unlock()
		if !known {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUsername(r.Context(), sub)))
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.users[usernameFrom(r)]
	resp := models.Profile{
		Username:       u.username,
		Email:          u.email,
		TelegramChatID: u.chatID,
		Skills:         append([]string(nil), u.skills...),
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Skills []string `json:"skills"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	s.mu.Lock()
	u := s.users[usernameFrom(r)]
	u.skills = req.Skills
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"message": "Skills updated", "skills": req.Skills})
}

func (s *Server) handleTelegram(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramChatID string `json:"telegram_chat_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	s.mu.Lock()
	u := s.users[usernameFrom(r)]
	u.chatID = req.TelegramChatID
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"message":          "Telegram chat id updated",
		"telegram_chat_id": req.TelegramChatID,
	})
}

func (s *Server) handleTelegramLink(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()

	s.mu.Lock()
	u := s.users[usernameFrom(r)]
	u.linkToken = token
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"link":         fmt.Sprintf("https://t.me/%s?start=%s", botUsername, token),
		"token":        token,
		"bot_username": botUsername,
	})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	byID := s.jobs[usernameFrom(r)]
	list := make([]models.Job, 0, len(byID))
	for _, j := range byID {
		list = append(list, j)
	}
	s.mu.Unlock()

	// stable server order: oldest id first
	sort.Slice(list, func(i, k int) bool { return list[i].ID < list[k].ID })
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var draft models.JobDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if draft.Title == "" || draft.Company == "" || draft.Description == "" || draft.Link == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "field required")
		return
	}

	s.mu.Lock()
	j := s.jobFromDraft(draft)
	s.jobs[usernameFrom(r)][j.ID] = j
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	j, ok := s.jobs[usernameFrom(r)][id]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.jobs[usernameFrom(r)]
	j, ok := byID[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "job not found")
		return
	}

	for key, v := range patch {
		switch key {
		case "title":
			j.Title, _ = v.(string)
		case "company":
			j.Company, _ = v.(string)
		case "location":
			j.Location, _ = v.(string)
		case "description":
			j.Description, _ = v.(string)
		case "link":
			j.Link, _ = v.(string)
		case "applied":
			j.Applied, _ = v.(bool)
		case "source":
			j.Source, _ = v.(string)
		}
	}
	byID[id] = j

	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.jobs[usernameFrom(r)]
	if _, ok := byID[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}
	delete(byID, id)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Job deleted successfully"})
}
