package web

import (
	"net/http"
	"time"

	"github.com/temirov/treeview/internal/metrics"
	"github.com/temirov/treeview/internal/session"
	"github.com/temirov/treeview/internal/types"
)

const sessionCookieName = "treeview_session"

type projectsResponse struct {
	Projects []types.Project `json:"projects"`
}

type treeResponse struct {
	Project  string            `json:"project"`
	Root     string            `json:"root"`
	Nodes    []*types.TreeNode `json:"nodes"`
	Toggled  string            `json:"toggled,omitempty"`
	Expanded *bool             `json:"expanded,omitempty"`
}

func (server Server) handleProjects(writer http.ResponseWriter, request *http.Request) {
	server.writeJSON(writer, http.StatusOK, projectsResponse{Projects: server.config.Projects.Projects()})
}

func (server Server) handleTree(writer http.ResponseWriter, request *http.Request) {
	project, lookupErr := server.lookupProject(request)
	if lookupErr != nil {
		server.writeError(writer, request, lookupErr)
		return
	}
	expanded := server.expandedSet(writer, request, project, false)
	response, buildErr := server.buildTree(project, expanded)
	if buildErr != nil {
		server.writeError(writer, request, buildErr)
		return
	}
	server.writeJSON(writer, http.StatusOK, response)
}

// handleToggle expands a collapsed directory or collapses an expanded one, then returns the rebuilt tree.
func (server Server) handleToggle(writer http.ResponseWriter, request *http.Request) {
	project, lookupErr := server.lookupProject(request)
	if lookupErr != nil {
		server.writeError(writer, request, lookupErr)
		return
	}
	requestedPath := request.FormValue(pathParameterName)
	if requestedPath == "" {
		server.writeError(writer, request, NewHandlerError(http.StatusBadRequest, errMissingPath))
		return
	}
	directoryPath, resolveErr := types.ResolveWithin(project.Root, requestedPath)
	if resolveErr != nil {
		server.writeError(writer, request, NewHandlerError(http.StatusBadRequest, resolveErr))
		return
	}

	expanded := server.expandedSet(writer, request, project, true)
	isExpanded := expanded.Toggle(directoryPath)
	metrics.RecordToggle(isExpanded)

	response, buildErr := server.buildTree(project, expanded)
	if buildErr != nil {
		server.writeError(writer, request, buildErr)
		return
	}
	response.Toggled = directoryPath
	response.Expanded = &isExpanded
	server.writeJSON(writer, http.StatusOK, response)
}

func (server Server) handleCollapse(writer http.ResponseWriter, request *http.Request) {
	project, lookupErr := server.lookupProject(request)
	if lookupErr != nil {
		server.writeError(writer, request, lookupErr)
		return
	}
	expanded := server.expandedSet(writer, request, project, false)
	expanded.Clear()
	response, buildErr := server.buildTree(project, expanded)
	if buildErr != nil {
		server.writeError(writer, request, buildErr)
		return
	}
	server.writeJSON(writer, http.StatusOK, response)
}

// buildTree materializes the project forest from a snapshot of the expanded set.
func (server Server) buildTree(project types.Project, expanded *session.ExpandedSet) (treeResponse, error) {
	startedAt := time.Now()
	nodes, buildErr := server.config.Builder.Build(project.Root, expanded.Snapshot())
	metrics.RecordTreeBuild(time.Since(startedAt), buildErr == nil)
	if buildErr != nil {
		return treeResponse{}, NewHandlerError(http.StatusInternalServerError, buildErr)
	}
	return treeResponse{Project: project.Name, Root: project.Root, Nodes: nodes}, nil
}

// expandedSet returns the caller's expanded set for project, issuing a session cookie when needed.
// Only callers that change state with create set store an entry; the others read an empty set.
func (server Server) expandedSet(writer http.ResponseWriter, request *http.Request, project types.Project, create bool) *session.ExpandedSet {
	sessionID := ""
	if cookie, cookieErr := request.Cookie(sessionCookieName); cookieErr == nil && session.ValidSessionID(cookie.Value) {
		sessionID = cookie.Value
	} else {
		sessionID = session.NewSessionID()
		http.SetCookie(writer, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	if !create {
		if expanded, found := server.config.Sessions.Existing(sessionID, project.Name); found {
			return expanded
		}
		return session.NewExpandedSet()
	}
	expanded := server.config.Sessions.Expanded(sessionID, project.Name)
	metrics.SetActiveSessions(server.config.Sessions.Len())
	return expanded
}
