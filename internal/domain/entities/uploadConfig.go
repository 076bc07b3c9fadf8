package entities

import "strings"

// UploadConfig is fixed for the lifetime of a page. Zero values disable the matching checks' allowances.
type UploadConfig struct {
	APIURL            string   `json:"apiUrl"`
	EnableFileUpload  bool     `json:"enableFileUpload"`
	MaxFileSizeBytes  int64    `json:"maxFileSize"`
	AllowedExtensions []string `json:"allowedExtensions"`
}

func (c UploadConfig) AllowsExtension(ext string) bool {
	for _, allowed := range c.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}

func (c UploadConfig) MaxFileSizeMB() float64 {
	return float64(c.MaxFileSizeBytes) / (1024 * 1024)
}

// FileExtension returns the lowercased text after the last dot, or the whole name when there is none.
func FileExtension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return strings.ToLower(name[i+1:])
	}
	return strings.ToLower(name)
}
