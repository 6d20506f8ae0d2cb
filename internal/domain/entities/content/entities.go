// Package content defines the application's core content-related domain entities.
// The REST API owns and persists every entity; these types only mirror it.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque record identifier. The API returns numeric IDs for some
// collections and string IDs for others; both decode into ID.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric IDs back as numbers so the API sees what it sent
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

type Program struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    bool   `json:"isActive"`
}

type Service struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Icon        string `json:"icon,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// GalleryImage is an uploaded picture. FilePath is absolute for remote
// storage and relative for legacy local uploads.
type GalleryImage struct {
	ID           ID     `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	FilePath     string `json:"filePath"`
	Description  string `json:"description"`
	AltText      string `json:"altText"`
	Category     string `json:"category"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	IsPublished  bool   `json:"isPublished"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

type AdminUser struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// Session is the signed-in administrator as held by the session provider.
// Presence of a token and user is what the admin gate checks first.
type Session struct {
	Token string    `json:"token"`
	User  AdminUser `json:"user"`
}

// Valid reports whether both halves of the session are present
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.ID != ""
}

// ProgramIcons is the fixed icon set a program may use, in form order
var ProgramIcons = []string{"Education", "Health", "Food", "Home", "Training", "Heart", "Book"}

var programIconGlyphs = map[string]string{
	"Education": "🎓",
	"Health":    "🏥",
	"Food":      "🍎",
	"Home":      "🏠",
	"Training":  "🔧",
	"Heart":     "❤️",
	"Book":      "📚",
	"Default":   "🌟",
}

var programIconLabels = map[string]string{
	"Education": "Education",
	"Health":    "Health & Medical",
	"Food":      "Nutrition & Food",
	"Home":      "Shelter & Home",
	"Training":  "Vocational Training",
	"Heart":     "Emotional Support",
	"Book":      "Learning & Development",
}

// IconGlyph maps an icon name to its emoji, falling back to the default glyph
func IconGlyph(name string) string {
	if glyph, ok := programIconGlyphs[name]; ok {
		return glyph
	}
	return programIconGlyphs["Default"]
}

// IconLabel is the human-readable option text for an icon name
func IconLabel(name string) string {
	if label, ok := programIconLabels[name]; ok {
		return label
	}
	return name
}

// ServiceCategories is the fixed option list offered by the service forms
var ServiceCategories = []string{"Education", "Healthcare", "Shelter", "Counseling", "Nutrition", "Legal"}

// ImageCategories is the fixed option list offered by the upload form
var ImageCategories = []string{"children", "activities", "events", "facilities", "volunteers", "general"}
