// Package api contains the HTTP API contract of the bid comparison service.
// Version v1 represents the current stable API version.
package api

// Multipart field carrying the bid documents
const FilesField = "files"

// UploadedFile describes one file of a compare request
type UploadedFile struct {
	Name string `json:"name" validate:"required,max=255"`
	Size int64  `json:"size" validate:"gte=0"`
}

// CompareRequest is a multipart bid comparison upload
type CompareRequest struct {
	Files []UploadedFile `json:"files" validate:"required,min=1,dive"`
}
