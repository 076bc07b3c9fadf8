package entities

import "time"

// LanguagePreference is the only state this service stores: the chat language chosen by a client.
type LanguagePreference struct {
	ClientID  string    `json:"client_id" bson:"client_id"`
	Language  Language  `json:"language" bson:"language"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
