package i18n

import (
	"embed"
	"fmt"
	"path"

	"lms-connector/internal/domain/entities"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Strings is one language's copy, keyed like the plugin's language packs.
type Strings struct {
	ChatbotTitle    string `yaml:"chatbot_title" json:"chatbot_title"`
	Welcome         string `yaml:"welcome" json:"welcome"`
	GenericError    string `yaml:"generic_error" json:"generic_error"`
	TypeMessage     string `yaml:"type_message" json:"type_message"`
	Send            string `yaml:"send" json:"send"`
	ResetChat       string `yaml:"reset_chat" json:"reset_chat"`
	UploadFile      string `yaml:"upload_file" json:"upload_file"`
	Connecting      string `yaml:"connecting" json:"connecting"`
	Language        string `yaml:"language" json:"language"`
	FileUploaded    string `yaml:"file_uploaded" json:"file_uploaded"`
	FileUploadError string `yaml:"file_upload_error" json:"file_upload_error"`
}

// Map flattens the strings for template/JS injection.
func (s Strings) Map() map[string]string {
	return map[string]string{
		"chatbot_title":     s.ChatbotTitle,
		"welcome":           s.Welcome,
		"generic_error":     s.GenericError,
		"type_message":      s.TypeMessage,
		"send":              s.Send,
		"reset_chat":        s.ResetChat,
		"upload_file":       s.UploadFile,
		"connecting":        s.Connecting,
		"language":          s.Language,
		"file_uploaded":     s.FileUploaded,
		"file_upload_error": s.FileUploadError,
	}
}

type Catalog struct {
	strings map[entities.Language]Strings
}

// Load parses the embedded catalogs; every supported language must be present.
func Load() (*Catalog, error) {
	catalog := &Catalog{strings: make(map[entities.Language]Strings)}
	for _, lang := range entities.SupportedLanguages {
		data, err := locales.ReadFile(path.Join("locales", string(lang)+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s catalog: %w", lang, err)
		}
		var s Strings
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse %s catalog: %w", lang, err)
		}
		catalog.strings[lang] = s
	}
	return catalog, nil
}

// MustLoad is for process start-up and tests, where a broken embedded catalog is a build defect.
func MustLoad() *Catalog {
	catalog, err := Load()
	if err != nil {
		panic(err)
	}
	return catalog
}

// For returns the copy of lang, falling back to English.
func (c *Catalog) For(lang entities.Language) Strings {
	if s, ok := c.strings[lang]; ok {
		return s
	}
	return c.strings[entities.DefaultLanguage]
}
