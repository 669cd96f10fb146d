package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
	"github.com/goliatone/go-signup/pkg/render"
)

const maxBodyBytes = 16 << 10

// pageSubmission is the urlencoded body of the HTML form.
type pageSubmission struct {
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Email     string `form:"email"`
	Password  string `form:"password"`
	Action    string `form:"_action"`
}

func (p pageSubmission) values() registration.FormValues {
	return registration.FormValues{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Password:  p.Password,
	}
}

// apiValues echoes submitted values without the password.
type apiValues struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type apiResponse struct {
	Values apiValues               `json:"values"`
	Errors registration.FormErrors `json:"errors"`
	Status form.Status             `json:"status"`
}

type apiProblem struct {
	Error string `json:"error"`
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, form.New().Snapshot())
}

func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	var submission pageSubmission
	if err := s.decoder.Decode(&submission, r.PostForm); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	controller, err := s.controllerFor(submission.values())
	if err != nil {
		s.logger.Errorw("apply submission", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var snap form.Snapshot
	if s.resetAllowed(submission) {
		snap = s.reset(r.Context(), controller)
	} else {
		snap = s.submit(r.Context(), controller)
	}
	s.renderPage(w, r, snap)
}

// resetAllowed reports whether a posted reset comes from a page in the success
// state. Requests are stateless, so the posted values must validate cleanly;
// anything else is handled as a submit.
func (s *Server) resetAllowed(submission pageSubmission) bool {
	if strings.TrimSpace(submission.Action) != render.ActionReset {
		return false
	}
	return form.DeriveStatus(registration.Validate(submission.values())).AllowsReset()
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var values registration.FormValues
	if err := dec.Decode(&values); err != nil {
		s.writeJSON(w, http.StatusBadRequest, apiProblem{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, apiProblem{Error: "invalid request body: trailing data"})
		return
	}

	controller, err := s.controllerFor(values)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, apiProblem{Error: "internal error"})
		return
	}
	snap := s.submit(r.Context(), controller)
	s.writeJSON(w, http.StatusOK, apiResponse{
		Values: apiValues{
			FirstName: snap.Values.FirstName,
			LastName:  snap.Values.LastName,
			Email:     snap.Values.Email,
		},
		Errors: snap.Errors,
		Status: snap.Status,
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.apiDoc)
}

// controllerFor mounts a fresh controller holding values. HTTP requests are
// stateless; every request gets its own form instance.
func (s *Server) controllerFor(values registration.FormValues) (*form.Controller, error) {
	controller := form.New(form.WithLogger(s.logger.Named("form")))
	for _, field := range registration.Fields() {
		if err := controller.SetField(field, values.Get(field)); err != nil {
			return nil, err
		}
	}
	return controller, nil
}

func (s *Server) submit(ctx context.Context, controller *form.Controller) form.Snapshot {
	_, span := s.tracer.Start(ctx, "signup.submit")
	defer span.End()

	snap := controller.Submit()
	span.SetAttributes(
		attribute.String("signup.status", snap.Status.String()),
		attribute.Int("signup.errors", snap.Errors.Len()),
	)
	s.metrics.ObserveSubmit(snap.Status)
	return snap
}

func (s *Server) reset(ctx context.Context, controller *form.Controller) form.Snapshot {
	_, span := s.tracer.Start(ctx, "signup.reset")
	defer span.End()

	snap := controller.Reset()
	span.SetAttributes(attribute.String("signup.status", snap.Status.String()))
	s.metrics.ObserveReset()
	return snap
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, snap form.Snapshot) {
	renderer, err := s.negotiate(r)
	if err != nil {
		s.logger.Errorw("no renderer", "error", err)
		http.Error(w, "no renderer available", http.StatusInternalServerError)
		return
	}

	view := render.NewView(snap, render.ViewOptions{
		Copy:          s.copy,
		Fields:        s.fields,
		Action:        "/",
		StylesheetURL: stylesheetURL,
		LiveURL:       liveURL,
	})
	body, err := renderer.Render(r.Context(), view)
	if err != nil {
		s.logger.Errorw("render page", "renderer", renderer.Name(), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// negotiate picks the JSON renderer for clients that ask for JSON and the
// default (HTML) renderer otherwise.
func (s *Server) negotiate(r *http.Request) (render.Renderer, error) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		return s.registry.ForContentType("application/json")
	}
	return s.registry.Default()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warnw("write json response", "error", err)
	}
}
