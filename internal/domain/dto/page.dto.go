package dto

// PageConfig is injected into each rendered page, like the plugin's js_init_call payload.
type PageConfig struct {
	APIURL            string            `json:"apiUrl"`
	EnableFileUpload  bool              `json:"enableFileUpload"`
	MaxFileSizeBytes  int64             `json:"maxFileSize"`
	AllowedExtensions []string          `json:"allowedExtensions"`
	Strings           map[string]string `json:"strings"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

type ChangeLanguageRequest struct {
	Language string `json:"language"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// SelectedFile describes a file picked in the browser before it is uploaded.
type SelectedFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
