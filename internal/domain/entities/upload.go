package entities

import "io"

// UploadFile is a file handed to a controller, either from a multipart form or from disk.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}
