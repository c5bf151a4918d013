package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/satprep/internal/bank"
)

// Options configures the HTTP surface.
type Options struct {
	// AllowedOrigins lists the origins the UI may be served from.
	AllowedOrigins []string

	// Quiet disables request logging.
	Quiet bool
}

// New returns the router serving h.
func New(h *Holder, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/bank", bankHandler(h))
		ar.Get("/bank/{section}/{topic}/{difficulty}", bucketHandler(h))
		ar.Get("/issues", issuesHandler(h))
		ar.Post("/reload", reloadHandler(h))
	})
	return r
}

type bankResponse struct {
	LoadedAt time.Time  `json:"loadedAt"`
	Size     int        `json:"size"`
	Bank     *bank.Bank `json:"bank"`
}

func bankHandler(h *Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.Current()
		if snap == nil {
			writeErr(w, http.StatusServiceUnavailable, "bank not loaded")
			return
		}
		writeJSON(w, http.StatusOK, bankResponse{LoadedAt: snap.LoadedAt, Size: snap.Bank.Len(), Bank: snap.Bank})
	}
}

type bucketResponse struct {
	Section    bank.Section    `json:"section"`
	Topic      string          `json:"topic"`
	Difficulty bank.Difficulty `json:"difficulty"`
	Questions  []bank.Question `json:"questions"`
}

// bucketHandler serves one section/topic/difficulty bucket. The topic may
// be given by name or by slug ("Data Analysis" or "data-analysis").
func bucketHandler(h *Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.Current()
		if snap == nil {
			writeErr(w, http.StatusServiceUnavailable, "bank not loaded")
			return
		}
		section := bank.Section(chi.URLParam(r, "section"))
		difficulty := bank.Difficulty(chi.URLParam(r, "difficulty"))
		if !section.Valid() || !difficulty.Valid() {
			writeErr(w, http.StatusBadRequest, "unknown section or difficulty")
			return
		}
		want := bank.Slug(chi.URLParam(r, "topic"))
		for _, topic := range snap.Bank.Topics(section) {
			if bank.Slug(topic) != want {
				continue
			}
			qs := snap.Bank.Questions(section, topic, difficulty)
			if len(qs) == 0 {
				break
			}
			writeJSON(w, http.StatusOK, bucketResponse{Section: section, Topic: topic, Difficulty: difficulty, Questions: qs})
			return
		}
		writeErr(w, http.StatusNotFound, "no questions in bucket")
	}
}

type issuesResponse struct {
	Count  int          `json:"count"`
	Issues []bank.Issue `json:"issues"`
}

func issuesHandler(h *Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.Current()
		if snap == nil {
			writeErr(w, http.StatusServiceUnavailable, "bank not loaded")
			return
		}
		issues := snap.Issues
		if issues == nil {
			issues = []bank.Issue{}
		}
		writeJSON(w, http.StatusOK, issuesResponse{Count: len(issues), Issues: issues})
	}
}

type reloadResponse struct {
	LoadedAt   time.Time `json:"loadedAt"`
	Size       int       `json:"size"`
	IssueCount int       `json:"issueCount"`
}

func reloadHandler(h *Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.Reload()
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, reloadResponse{LoadedAt: snap.LoadedAt, Size: snap.Bank.Len(), IssueCount: len(snap.Issues)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
