package app

import (
	"log/slog"
	"net/http"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/upload"
	"bookcatalog/web"
)

// routes registers every endpoint and wraps the mux in the middleware chain:
//
//	request id → access log → recovery → security headers → CORS → size limit → rate limit → mux
func (a *App) routes() http.Handler {
	books := book.NewHTTPHandler(a.service, a.logger, a.cfg.Upload.MaxBytes)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", books.Healthz)
	mux.HandleFunc("GET /readyz", books.Readyz)

	mux.HandleFunc("POST /books", books.Create)
	mux.HandleFunc("GET /books", books.List)
	mux.HandleFunc("GET /books/{id}", books.Get)
	mux.HandleFunc("PUT /books/{id}", books.Update)
	mux.HandleFunc("PATCH /books/cover-image/{id}", books.UpdateCover)
	mux.HandleFunc("DELETE /books/{id}", books.Delete)

	mux.Handle("GET "+upload.URLPrefix+"/", http.StripPrefix(upload.URLPrefix+"/", http.FileServer(a.covers.FileSystem())))
	mux.Handle("GET /", http.FileServerFS(web.Public()))

	var accessLogger *slog.Logger
	if !a.cfg.IsTest() {
		accessLogger = a.logger
	}

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(accessLogger),
		httpx.RecoveryMiddleware(a.logger),
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(a.cfg.Server.CORSAllowedOrigins),
	}
	if a.cfg.Server.MaxBodyBytes > 0 {
		middlewares = append(middlewares, httpx.RequestSizeLimitMiddleware(a.cfg.Server.MaxBodyBytes))
	}
	if a.limiter != nil {
		middlewares = append(middlewares, a.limiter.Middleware)
	}

	return httpx.Chain(middlewares...)(mux)
}
