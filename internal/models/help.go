package models

import "time"

// HelpContent is one help entry translated into the supported languages
type HelpContent struct {
	ID        string    `json:"id" db:"id"`
	TextHu    string    `json:"text_hu,omitempty" db:"text_hu"`
	TextEn    string    `json:"text_en,omitempty" db:"text_en"`
	TextSk    string    `json:"text_sk,omitempty" db:"text_sk"`
	TextRo    string    `json:"text_ro,omitempty" db:"text_ro"`
	TextPl    string    `json:"text_pl,omitempty" db:"text_pl"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Text returns the translation for a base language code
func (h HelpContent) Text(lang string) string {
	switch lang {
	case "hu":
		return h.TextHu
	case "en":
		return h.TextEn
	case "sk":
		return h.TextSk
	case "ro":
		return h.TextRo
	case "pl":
		return h.TextPl
	}
	return ""
}

// LocalizedHelp is a help entry resolved to one language
type LocalizedHelp struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

// HelpRequest is the body for creating or updating help content
type HelpRequest struct {
	TextHu string `json:"text_hu"`
	TextEn string `json:"text_en"`
	TextSk string `json:"text_sk"`
	TextRo string `json:"text_ro"`
	TextPl string `json:"text_pl"`
}
