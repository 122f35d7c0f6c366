// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package web implements the HTML pages of the course catalog service.
package web

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/z5labs/coursecatalog/catalog"
	"github.com/z5labs/coursecatalog/noop"
	"github.com/z5labs/coursecatalog/slogfield"
)

//go:embed templates/*.html
var templatesFS embed.FS

type handlerOptions struct {
	logHandler slog.Handler
}

// HandlerOption configures a Handler.
type HandlerOption func(*handlerOptions)

// LogHandler configures the slog.Handler used by the Handler.
func LogHandler(h slog.Handler) HandlerOption {
	return func(ho *handlerOptions) {
		ho.logHandler = h
	}
}

// Handler serves the course catalog pages.
type Handler struct {
	log  *slog.Logger
	svc  *catalog.Service
	tmpl *template.Template
}

// NewHandler returns a fully initialized Handler.
func NewHandler(svc *catalog.Service, opts ...HandlerOption) (*Handler, error) {
	ho := &handlerOptions{
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt(ho)
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		log:  slog.New(ho.logHandler),
		svc:  svc,
		tmpl: tmpl,
	}, nil
}

// Flash is a single use message displayed on the next rendered page.
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

const flashCookie = "flash"

func (h *Handler) setFlash(w http.ResponseWriter, message, category string) {
	b, err := json.Marshal(Flash{Message: message, Category: category})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
	})
}

func (h *Handler) popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	b, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f Flash
	err = json.Unmarshal(b, &f)
	if err != nil {
		return nil
	}
	return &f
}

type page struct {
	Title   string
	Flash   *Flash
	Courses []catalog.Course
	Course  catalog.Course
}

// Home renders the homepage.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.log.InfoContext(r.Context(), "homepage accessed")
	h.render(w, r, "index.html", page{
		Title: "Course Catalog",
		Flash: h.popFlash(w, r),
	})
}

// Catalog renders the course catalog page.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load courses", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "catalog.html", page{
		Title:   "Course Catalog",
		Flash:   h.popFlash(w, r),
		Courses: courses,
	})
}

// CourseDetails renders the details page for a specific course.
func (h *Handler) CourseDetails(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	course, err := h.svc.Get(r.Context(), code)
	if err != nil {
		var notFound catalog.CourseNotFoundError
		if errors.As(err, &notFound) {
			h.setFlash(w, "No course found with code '"+code+"'.", "error")
			http.Redirect(w, r, "/catalog", http.StatusFound)
			return
		}
		http.Error(w, "failed to load course", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "course_details.html", page{
		Title:  course.Name,
		Flash:  h.popFlash(w, r),
		Course: course,
	})
}

// AddCourse handles the form for adding a new course.
func (h *Handler) AddCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "add_course.html", page{
			Title: "Add Course",
			Flash: h.popFlash(w, r),
		})
		return
	}

	err := r.ParseForm()
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	course := catalog.Course{
		Name:       r.PostFormValue("name"),
		Code:       r.PostFormValue("code"),
		Instructor: r.PostFormValue("instructor"),
		Semester:   r.PostFormValue("semester"),
	}

	err = h.svc.Add(r.Context(), course)
	if err != nil {
		var validation catalog.ValidationError
		if errors.As(err, &validation) {
			h.render(w, r, "add_course.html", page{
				Title: "Add Course",
				Flash: &Flash{Message: "Fields marked with * are the required fields.", Category: "error"},
			})
			return
		}

		var exists catalog.CourseExistsError
		if errors.As(err, &exists) {
			h.render(w, r, "add_course.html", page{
				Title: "Add Course",
				Flash: &Flash{Message: "A course already exists with code '" + exists.Code + "'.", Category: "error"},
			})
			return
		}

		http.Error(w, "failed to add course", http.StatusInternalServerError)
		return
	}

	h.setFlash(w, "Course added successfully!", "success")
	http.Redirect(w, r, "/catalog", http.StatusFound)
}

// DeleteCourse handles deleting a course by its code.
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	err := h.svc.Delete(r.Context(), code)
	if err != nil {
		var notFound catalog.CourseNotFoundError
		if errors.As(err, &notFound) {
			h.setFlash(w, "No course found with code '"+code+"'.", "error")
			http.Redirect(w, r, "/catalog", http.StatusFound)
			return
		}
		http.Error(w, "failed to delete course", http.StatusInternalServerError)
		return
	}

	h.setFlash(w, "Course deleted successfully!", "success")
	http.Redirect(w, r, "/catalog", http.StatusFound)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := h.tmpl.ExecuteTemplate(w, name, p)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to render page",
			slogfield.String("template", name),
			slogfield.Error(err),
		)
	}
}
