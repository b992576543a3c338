package web

import (
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/temirov/treeview/internal/icons"
	"github.com/temirov/treeview/internal/metrics"
	"github.com/temirov/treeview/internal/types"
	"github.com/temirov/treeview/internal/utils"
)

const (
	// UndecodablePlaceholder replaces file content that is not valid text.
	UndecodablePlaceholder = "Unable to display this file as text."
	// maxViewBytes bounds how much of a file the view handler renders inline.
	maxViewBytes = 2 << 20

	headerContentDisposition = "Content-Disposition"
	dispositionAttachment    = "attachment"
	mimeTypeHTML             = "text/html; charset=utf-8"
	downloadEndpoint         = "download"
	viewEndpoint             = "view"
)

var viewTemplate = template.Must(template.New("view").Parse(`<div class="file-view">
<h2 class="file-name">{{.Icon}} {{.Name}}</h2>
<p class="file-meta">{{.Size}} · modified <time title="{{.ModifiedAt}}">{{.Modified}}</time></p>
<p><a class="download-link" href="{{.DownloadURL}}">Download</a></p>
<pre class="file-content">{{.Content}}</pre>
{{- if .Truncated}}
<p class="file-truncated">Showing the first {{.ShownSize}} only.</p>
{{- end}}
</div>
`))

type viewData struct {
	Name        string
	Icon        string
	Size        string
	ShownSize   string
	Modified    string
	ModifiedAt  string
	DownloadURL string
	Content     string
	Truncated   bool
}

// DownloadURL returns the download route for path within project.
func DownloadURL(projectName string, path string) string {
	return "/projects/" + url.PathEscape(projectName) + "/" + downloadEndpoint + "?" + url.Values{pathParameterName: {path}}.Encode()
}

// resolveRegularFile maps the path query parameter to a regular file inside the project root.
func (server Server) resolveRegularFile(request *http.Request) (types.Project, string, os.FileInfo, error) {
	project, lookupErr := server.lookupProject(request)
	if lookupErr != nil {
		return types.Project{}, "", nil, lookupErr
	}
	requestedPath := request.URL.Query().Get(pathParameterName)
	if requestedPath == "" {
		return types.Project{}, "", nil, NewHandlerError(http.StatusBadRequest, errMissingPath)
	}
	filePath, resolveErr := types.ResolveWithin(project.Root, requestedPath)
	if resolveErr != nil {
		return types.Project{}, "", nil, NewHandlerError(http.StatusBadRequest, resolveErr)
	}
	info, statErr := os.Stat(filePath)
	if statErr != nil || !info.Mode().IsRegular() {
		return types.Project{}, "", nil, NewHandlerError(http.StatusNotFound, fmt.Errorf("%w: %s", errFileNotFound, requestedPath))
	}
	return project, filePath, info, nil
}

// handleDownload streams a file as an attachment.
func (server Server) handleDownload(writer http.ResponseWriter, request *http.Request) {
	_, filePath, info, resolveErr := server.resolveRegularFile(request)
	if resolveErr != nil {
		server.writeError(writer, request, resolveErr)
		return
	}
	// #nosec G304
	fileHandle, openErr := os.Open(filePath)
	if openErr != nil {
		server.writeError(writer, request, NewHandlerError(http.StatusNotFound, fmt.Errorf("%w: %v", errFileNotFound, openErr)))
		return
	}
	defer fileHandle.Close()

	writer.Header().Set(headerContentType, utils.DetectMimeType(filePath))
	writer.Header().Set(headerContentDisposition, mime.FormatMediaType(dispositionAttachment, map[string]string{"filename": info.Name()}))
	http.ServeContent(writer, request, info.Name(), info.ModTime(), fileHandle)
	metrics.RecordFileBytes(downloadEndpoint, info.Size())
}

// handleView renders the file's text HTML-escaped with a link to its download.
// Content that is not valid text is replaced with UndecodablePlaceholder.
func (server Server) handleView(writer http.ResponseWriter, request *http.Request) {
	project, filePath, info, resolveErr := server.resolveRegularFile(request)
	if resolveErr != nil {
		server.writeError(writer, request, resolveErr)
		return
	}
	// #nosec G304
	fileHandle, openErr := os.Open(filePath)
	if openErr != nil {
		server.writeError(writer, request, NewHandlerError(http.StatusNotFound, fmt.Errorf("%w: %v", errFileNotFound, openErr)))
		return
	}
	defer fileHandle.Close()

	data, readErr := io.ReadAll(io.LimitReader(fileHandle, maxViewBytes))
	if readErr != nil {
		server.writeError(writer, request, NewHandlerError(http.StatusInternalServerError, fmt.Errorf("read %s: %w", filePath, readErr)))
		return
	}
	if info.Size() > int64(len(data)) {
		data = trimPartialRune(data)
	}
	content, isText := utils.DecodeText(data)
	if !isText {
		content = UndecodablePlaceholder
	}

	name := filepath.Base(filePath)
	page := viewData{
		Name:        name,
		Icon:        icons.ForFile(name),
		Size:        utils.FormatFileSize(info.Size()),
		ShownSize:   utils.FormatFileSize(int64(len(data))),
		Modified:    utils.FormatRelativeTime(info.ModTime()),
		ModifiedAt:  utils.FormatTimestamp(info.ModTime()),
		DownloadURL: DownloadURL(project.Name, filePath),
		Content:     content,
		Truncated:   isText && info.Size() > int64(len(data)),
	}
	writer.Header().Set(headerContentType, mimeTypeHTML)
	writer.WriteHeader(http.StatusOK)
	if executeErr := viewTemplate.Execute(writer, page); executeErr != nil {
		server.config.Logger.Sugar().Errorf("render view of %s: %v", filePath, executeErr)
		return
	}
	metrics.RecordFileBytes(viewEndpoint, int64(len(data)))
}

// trimPartialRune drops a multi-byte character cut in half by the view limit.
// An encoded U+FFFD decodes to RuneError with a width of three and is kept.
func trimPartialRune(data []byte) []byte {
	for trimmed := 0; trimmed < utf8.UTFMax-1 && len(data) > 0; trimmed++ {
		if lastRune, width := utf8.DecodeLastRune(data); lastRune != utf8.RuneError || width != 1 {
			return data
		}
		data = data[:len(data)-1]
	}
	return data
}
