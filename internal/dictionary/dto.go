package dictionary

// WordRequest is the payload for creating or updating a word.
type WordRequest struct {
	ID              string `json:"id,omitempty"`
	English         string `json:"english" validate:"required,max=200"`
	Assamese        string `json:"assamese" validate:"required,max=200"`
	TaiKhamyang     string `json:"taiKhamyang" validate:"required,max=200"`
	AdditionalLang  string `json:"additionalLang,omitempty" validate:"max=200"`
	Pronunciation   string `json:"pronunciation,omitempty" validate:"max=200"`
	ExampleSentence string `json:"exampleSentence,omitempty" validate:"max=500"`
	SentenceMeaning string `json:"sentenceMeaning,omitempty" validate:"max=500"`
	Category        string `json:"category,omitempty" validate:"max=100"`
	ImageURL        string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	AudioURL        string `json:"audioUrl,omitempty"`
	OfflineReady    bool   `json:"isOfflineReady,omitempty"`
}

func (r WordRequest) toWord() Word {
	return Word{
		ID:              r.ID,
		English:         r.English,
		Assamese:        r.Assamese,
		TaiKhamyang:     r.TaiKhamyang,
		AdditionalLang:  r.AdditionalLang,
		Pronunciation:   r.Pronunciation,
		ExampleSentence: r.ExampleSentence,
		SentenceMeaning: r.SentenceMeaning,
		Category:        r.Category,
		ImageURL:        r.ImageURL,
		AudioURL:        r.AudioURL,
		OfflineReady:    r.OfflineReady,
	}
}
