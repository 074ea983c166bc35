// Package server exposes the pcre operations as a JSON HTTP API.
//
// Endpoints:
//
//	POST /v1/match       {pattern, subject, flags}
//	POST /v1/match-all   {pattern, subject, flags}
//	POST /v1/replace     {pattern, subject, replacement, limit, flags}
//	POST /v1/split       {pattern, subject, limit, flags}
//	GET  /v1/quote?text=
//	GET  /healthz
//
// Flags are modifier letters such as "im". An omitted limit means no limit.
// Engine failures are answered with 422 and {"error", "code"}; malformed
// requests with 400.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/coregx/pcre"
	"github.com/coregx/pcre/engine"
)

// Server serves one PCRE instance over HTTP.
type Server struct {
	Echo *echo.Echo

	pcre *pcre.PCRE
	log  zerolog.Logger
}

// New creates a Server with all routes registered.
func New(p *pcre.PCRE, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo: e,
		pcre: p,
		log:  log,
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.log.Debug()
			if v.Error != nil {
				ev = s.log.Info().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	e.GET("/healthz", s.health)
	v1 := e.Group("/v1")
	v1.POST("/match", s.match)
	v1.POST("/match-all", s.matchAll)
	v1.POST("/replace", s.replace)
	v1.POST("/split", s.split)
	v1.GET("/quote", s.quote)
	return s
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("listening")
	err := s.Echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

type request struct {
	Pattern     string `json:"pattern"`
	Subject     string `json:"subject"`
	Replacement string `json:"replacement"`
	Limit       *int   `json:"limit"`
	Flags       string `json:"flags"`
}

// bind decodes the request body and parses its flags.
func bind(c echo.Context) (*request, pcre.Flags, error) {
	req := new(request)
	if err := c.Bind(req); err != nil {
		return nil, 0, err
	}
	flags, err := engine.ParseModifiers(req.Flags)
	if err != nil {
		return nil, 0, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, flags, nil
}

func (r *request) limit() int {
	if r.Limit == nil {
		return pcre.NoLimit
	}
	return *r.Limit
}

type groupJSON struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

type matchJSON struct {
	Groups []groupJSON `json:"groups"`
}

func toJSON(m *pcre.Match) *matchJSON {
	if m == nil {
		return nil
	}
	groups := m.Groups()
	out := &matchJSON{Groups: make([]groupJSON, len(groups))}
	for i, g := range groups {
		out.Groups[i] = groupJSON{Index: g.Index, Name: g.Name, Text: g.Text, Offset: g.Offset}
	}
	return out
}

type errorJSON struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) match(c echo.Context) error {
	req, flags, err := bind(c)
	if err != nil {
		return err
	}
	m, err := s.pcre.Match(req.Pattern, req.Subject, flags)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]*matchJSON{"match": toJSON(m)})
}

func (s *Server) matchAll(c echo.Context) error {
	req, flags, err := bind(c)
	if err != nil {
		return err
	}
	matches, err := s.pcre.MatchAll(req.Pattern, req.Subject, flags)
	if err != nil {
		return err
	}
	out := make([]*matchJSON, len(matches))
	for i, m := range matches {
		out[i] = toJSON(m)
	}
	return c.JSON(http.StatusOK, map[string][]*matchJSON{"matches": out})
}

func (s *Server) replace(c echo.Context) error {
	req, flags, err := bind(c)
	if err != nil {
		return err
	}
	result, err := s.pcre.Replace(req.Pattern, req.Subject, req.Replacement, req.limit(), flags)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"result": result})
}

func (s *Server) split(c echo.Context) error {
	req, flags, err := bind(c)
	if err != nil {
		return err
	}
	pieces, err := s.pcre.Split(req.Pattern, req.Subject, req.limit(), flags)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]string{"pieces": pieces})
}

func (s *Server) quote(c echo.Context) error {
	text := c.QueryParam("text")
	return c.JSON(http.StatusOK, map[string]string{"quoted": s.pcre.Quote(text)})
}

// handleError writes err as a JSON error body.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := errorJSON{Error: err.Error()}

	var engineErr *pcre.EngineError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &engineErr):
		status = http.StatusUnprocessableEntity
		body.Code = engineErr.Code
	case errors.As(err, &httpErr):
		status = httpErr.Code
		body.Error = fmt.Sprint(httpErr.Message)
	default:
		s.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("writing error response")
	}
}
