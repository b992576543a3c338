// Package web serves project trees, file downloads and inline file views over HTTP.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/treeview/internal/commands"
	"github.com/temirov/treeview/internal/metrics"
	"github.com/temirov/treeview/internal/session"
	"github.com/temirov/treeview/internal/types"
)

const (
	defaultListenAddress    = "127.0.0.1:0"
	defaultShutdownDuration = 5 * time.Second
	defaultPruneInterval    = 10 * time.Minute
	headerContentType       = "Content-Type"
	mimeTypeJSON            = "application/json"
	errorFieldName          = "error"

	routeHealth         = "GET /healthz"
	routeProjects       = "GET /api/projects"
	routeTree           = "GET /api/projects/{project}/tree"
	routeToggle         = "POST /api/projects/{project}/toggle"
	routeCollapse       = "POST /api/projects/{project}/collapse"
	routeDownload       = "GET /projects/{project}/download"
	routeView           = "GET /projects/{project}/view"
	routeMetrics        = "GET /metrics"
	projectPathValue    = "project"
	pathParameterName   = "path"
	logMessageListening = "treeview server listening"
	logMessageRequest   = "request"
	logMessageFailure   = "request failed"
)

// Config defines runtime options for the server.
type Config struct {
	Address         string
	ShutdownTimeout time.Duration
	PruneInterval   time.Duration
	Projects        types.ProjectRegistry
	Builder         *commands.TreeBuilder
	Sessions        *session.Store
	Logger          *zap.Logger
}

// Server serves project trees and file contents over HTTP.
type Server struct {
	config Config
}

// NewServer creates a new Server with defaults applied.
func NewServer(config Config) Server {
	normalized := config
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.PruneInterval <= 0 {
		normalized.PruneInterval = defaultPruneInterval
	}
	if normalized.Builder == nil {
		normalized.Builder = &commands.TreeBuilder{}
	}
	if normalized.Sessions == nil {
		normalized.Sessions = session.NewStore(0)
	}
	if normalized.Logger == nil {
		normalized.Logger = zap.NewNop()
	}
	return Server{config: normalized}
}

// Handler returns the routed HTTP handler with logging and metrics middleware.
func (server Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc(routeHealth, server.handleHealth)
	router.HandleFunc(routeProjects, server.handleProjects)
	router.HandleFunc(routeTree, server.handleTree)
	router.HandleFunc(routeToggle, server.handleToggle)
	router.HandleFunc(routeCollapse, server.handleCollapse)
	router.HandleFunc(routeDownload, server.handleDownload)
	router.HandleFunc(routeView, server.handleView)
	router.Handle(routeMetrics, metrics.Handler())
	return server.instrument(router)
}

// Run starts the server and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	httpServer := &http.Server{Handler: server.Handler(), ReadHeaderTimeout: 10 * time.Second}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", serveErr)
		}
		return nil
	})

	server.config.Logger.Info(logMessageListening, zap.String("address", actualAddress), zap.Int("projects", server.config.Projects.Len()))
	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		ticker := time.NewTicker(server.config.PruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				if removed := server.config.Sessions.Prune(); removed > 0 {
					server.config.Logger.Debug("pruned idle sessions", zap.Int("removed", removed))
				}
				metrics.SetActiveSessions(server.config.Sessions.Len())
			}
		}
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown HTTP: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

func (server Server) handleHealth(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

// lookupProject resolves the {project} path value.
func (server Server) lookupProject(request *http.Request) (types.Project, error) {
	projectName := request.PathValue(projectPathValue)
	project, found := server.config.Projects.Lookup(projectName)
	if !found {
		return types.Project{}, NewHandlerError(http.StatusNotFound, fmt.Errorf("%w: %s", errProjectNotFound, projectName))
	}
	return project, nil
}

// writeError logs failures with a 5xx status and writes the JSON error body.
func (server Server) writeError(writer http.ResponseWriter, request *http.Request, err error) {
	statusCode := statusCodeFromError(err)
	if statusCode >= http.StatusInternalServerError {
		server.config.Logger.Error(logMessageFailure, zap.String("path", request.URL.Path), zap.Error(err))
	}
	server.writeJSON(writer, statusCode, map[string]string{errorFieldName: err.Error()})
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := map[string]string{errorFieldName: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}
