package utils

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// UnknownMimeType is reported when a file cannot be sniffed.
const UnknownMimeType = "application/octet-stream"

// sniffLen is the number of bytes http.DetectContentType considers.
const sniffLen = 512

// DetectMimeType returns the MIME type of the file at filePath.
// A type registered for the file extension wins; otherwise up to sniffLen bytes
// are sniffed with http.DetectContentType. Unreadable files report UnknownMimeType.
func DetectMimeType(filePath string) string {
	if extensionType := mime.TypeByExtension(filepath.Ext(filePath)); extensionType != "" {
		return extensionType
	}

	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return UnknownMimeType
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLen)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		return UnknownMimeType
	}
	return http.DetectContentType(buffer[:bytesRead])
}
