package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/kyleking/supplier-api/internal/assembler"
	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/metrics"
	"github.com/kyleking/supplier-api/internal/query"
	"github.com/kyleking/supplier-api/internal/routing"
)

const maxBodyBytes = 1 << 20

const notFoundPage = "<!DOCTYPE html>\n<html>\n<head><title>404 Not Found</title></head>\n<body><p>404 Not Found</p></body>\n</html>\n"

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, errors.Wrap(err, errors.ErrTypeSubmission, "failed to read request body"))
		return
	}

	d, out, err := s.tree.Route(r.Method, r.URL.EscapedPath(), body)
	if out.Status == routing.Matched {
		metrics.SetOperation(ctx, out.Kind.String())
	} else {
		metrics.SetOperation(ctx, out.Status.String())
	}

	if err != nil {
		s.fail(w, r, err)
		return
	}

	switch out.Status {
	case routing.NotAPI:
		writeHTML(w, http.StatusNotFound, notFoundPage)
		return
	case routing.APIRoot:
		writeHTML(w, http.StatusOK, s.docs)
		return
	}

	env, err := s.execute(ctx, d)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeEnvelope(w, env)
}

// execute runs d under the query timeout and records its outcome
func (s *Server) execute(ctx context.Context, d query.Descriptor) (*assembler.Envelope, error) {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	start := time.Now()

	var (
		env *assembler.Envelope
		err error
	)

	if d.Kind().Mutating() {
		env, err = assembler.Insert(ctx, s.db, d)
	} else {
		env, err = assembler.Fetch(ctx, s.db, d)
	}

	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = string(errors.GetType(err))
		}

		s.metrics.RecordOperation(d.Kind().String(), outcome, time.Since(start))
	}

	return env, err
}

// fail renders err as an envelope. Server faults are logged as errors, client
// faults as warnings.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	env := assembler.Failure(err)
	logger := s.requestLogger(r).WithField("status", env.Code)

	if env.Code >= http.StatusInternalServerError {
		logger.ErrorWithErr("Request failed", err)
	} else {
		logger.WithError(err).Warn("Request rejected")
	}

	writeEnvelope(w, env)
}

func writeEnvelope(w http.ResponseWriter, env *assembler.Envelope) {
	// Map keys are marshalled sorted, so equal envelopes encode identically
	out, err := json.Marshal(env)
	if err != nil {
		http.Error(w, `{"code":500,"success":false,"message":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	_, _ = w.Write(out)
}

func writeHTML(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, page)
}
