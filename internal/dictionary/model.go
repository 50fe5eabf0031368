package dictionary

import "time"

// Word is a dictionary entry spanning English, Assamese and Tai Khamyang.
type Word struct {
	ID              string    `json:"id"`
	English         string    `json:"english"`
	Assamese        string    `json:"assamese"`
	TaiKhamyang     string    `json:"taiKhamyang"`
	AdditionalLang  string    `json:"additionalLang,omitempty"`
	Pronunciation   string    `json:"pronunciation,omitempty"`
	ExampleSentence string    `json:"exampleSentence,omitempty"`
	SentenceMeaning string    `json:"sentenceMeaning,omitempty"`
	Category        string    `json:"category"`
	AddedBy         string    `json:"addedBy"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	AudioURL        string    `json:"audioUrl,omitempty"`
	OfflineReady    bool      `json:"isOfflineReady,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
