package forms

import (
	"strings"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
)

type ContactDraft struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Message string `form:"message" validate:"required,max=5000"`
}

func (d *ContactDraft) Messages() map[string]string {
	return map[string]string{
		"name.required":    "Name is required",
		"email.required":   "Email is required",
		"email.email":      "Please enter a valid email",
		"message.required": "Message is required",
	}
}

func (d *ContactDraft) Input() api.ContactMessage {
	return api.ContactMessage{Name: d.Name, Email: d.Email, Message: d.Message}
}

// DonationDraft is a pledge; Amount is in rupees
type DonationDraft struct {
	Name   string `form:"name" validate:"required,max=100"`
	Email  string `form:"email" validate:"omitempty,email"`
	Amount string `form:"amount" validate:"required,amount"`
}

func (d *DonationDraft) Messages() map[string]string {
	return map[string]string{
		"name.required":   "Name is required",
		"email.email":     "Please enter a valid email",
		"amount.required": "Please choose or enter an amount",
		"amount.amount":   "Please enter a valid amount",
	}
}

// DisplayAmount is the amount with its currency sign
func (d *DonationDraft) DisplayAmount() string {
	return "₹" + strings.ReplaceAll(d.Amount, ",", "")
}

type RegisterDraft struct {
	Name            string `form:"name" validate:"required,max=100"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" trim:"-" validate:"required,min=8"`
	ConfirmPassword string `form:"confirmPassword" trim:"-" validate:"eqfield=Password"`
}

func (d *RegisterDraft) Messages() map[string]string {
	return map[string]string{
		"name.required":           "Name is required",
		"email.required":          "Email is required",
		"email.email":             "Please enter a valid email",
		"password.required":       "Password is required",
		"password.min":            "Password must be at least 8 characters",
		"confirmPassword.eqfield": "Passwords do not match",
	}
}

func (d *RegisterDraft) Input() api.Registration {
	return api.Registration{Name: d.Name, Email: d.Email, Password: d.Password}
}

type LoginDraft struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" trim:"-" validate:"required"`
}

func (d *LoginDraft) Messages() map[string]string {
	return map[string]string{
		"email.required":    "Email is required",
		"email.email":       "Please enter a valid email",
		"password.required": "Password is required",
	}
}

func (d *LoginDraft) Input() api.Credentials {
	return api.Credentials{Email: d.Email, Password: d.Password}
}

type ResetPasswordDraft struct {
	Email           string `form:"email" validate:"required,email"`
	NewPassword     string `form:"newPassword" trim:"-" validate:"required,min=8"`
	ConfirmPassword string `form:"confirmPassword" trim:"-" validate:"eqfield=NewPassword"`
}

func (d *ResetPasswordDraft) Messages() map[string]string {
	return map[string]string{
		"email.required":          "Email is required",
		"email.email":             "Please enter a valid email",
		"newPassword.required":    "Password is required",
		"newPassword.min":         "Password must be at least 8 characters",
		"confirmPassword.eqfield": "Passwords do not match",
	}
}

func (d *ResetPasswordDraft) Input() api.PasswordReset {
	return api.PasswordReset{Email: d.Email, NewPassword: d.NewPassword}
}

type ProgramDraft struct {
	Title       string `form:"title" validate:"required,max=120"`
	Description string `form:"description" validate:"required"`
	Icon        string `form:"icon" validate:"required,program_icon"`
	IsActive    bool   `form:"isActive"`
}

// ProgramDraftFrom fills a draft from an existing program for editing
func ProgramDraftFrom(p content.Program) ProgramDraft {
	return ProgramDraft{Title: p.Title, Description: p.Description, Icon: p.Icon, IsActive: p.IsActive}
}

// NewProgramDraft is the empty create form
func NewProgramDraft() ProgramDraft {
	return ProgramDraft{Icon: content.ProgramIcons[0], IsActive: true}
}

func (d *ProgramDraft) Messages() map[string]string {
	return map[string]string{
		"title.required":       "Title is required",
		"description.required": "Description is required",
		"icon.required":        "Please choose an icon",
		"icon.program_icon":    "Please choose an icon from the list",
	}
}

func (d *ProgramDraft) Input() api.ProgramInput {
	return api.ProgramInput{Title: d.Title, Description: d.Description, Icon: d.Icon, IsActive: d.IsActive}
}

type ServiceDraft struct {
	Name        string `form:"name" validate:"required,max=120"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category" validate:"required,service_category"`
	IsActive    bool   `form:"isActive"`
}

func ServiceDraftFrom(s content.Service) ServiceDraft {
	return ServiceDraft{Name: s.Name, Description: s.Description, Category: s.Category, IsActive: s.IsActive}
}

func NewServiceDraft() ServiceDraft {
	return ServiceDraft{IsActive: true}
}

func (d *ServiceDraft) Messages() map[string]string {
	return map[string]string{
		"name.required":             "Service name is required",
		"description.required":      "Description is required",
		"category.required":         "Please select a category",
		"category.service_category": "Please select a category from the list",
	}
}

func (d *ServiceDraft) Input() api.ServiceInput {
	return api.ServiceInput{Name: d.Name, Description: d.Description, Category: d.Category, IsActive: d.IsActive}
}

// ImageDraft holds the text fields of an upload; the file travels separately
type ImageDraft struct {
	Description string `form:"description" validate:"max=500"`
	AltText     string `form:"altText" validate:"max=200"`
	Category    string `form:"category" validate:"required,image_category"`
}

func NewImageDraft() ImageDraft {
	return ImageDraft{Category: "general"}
}

func (d *ImageDraft) Messages() map[string]string {
	return map[string]string{
		"category.required":       "Please select a category",
		"category.image_category": "Please select a category from the list",
	}
}

// StatsDraft edits all four statistics at once; every value is required
type StatsDraft struct {
	ChildrenHelped string `form:"children_helped" validate:"required,stat_value"`
	Volunteers     string `form:"volunteers" validate:"required,stat_value"`
	ShelterHomes   string `form:"shelter_homes" validate:"required,stat_value"`
	YearsService   string `form:"years_service" validate:"required,stat_value"`
}

func StatsDraftFrom(stats []content.Stat) StatsDraft {
	var d StatsDraft
	for _, s := range content.OrderStats(stats) {
		*d.field(s.Key) = s.Value
	}
	return d
}

func (d *StatsDraft) field(key content.StatKey) *string {
	switch key {
	case content.StatChildrenHelped:
		return &d.ChildrenHelped
	case content.StatVolunteers:
		return &d.Volunteers
	case content.StatShelterHomes:
		return &d.ShelterHomes
	default:
		return &d.YearsService
	}
}

// Value returns the draft value for key
func (d *StatsDraft) Value(key content.StatKey) string { return *d.field(key) }

func (d *StatsDraft) Messages() map[string]string {
	m := make(map[string]string, 8)
	for _, key := range content.StatOrder {
		m[string(key)+".required"] = "Please fill in all fields"
		m[string(key)+".stat_value"] = "Please enter a whole number"
	}
	return m
}

// Stats converts the draft to the PUT /stats body in display order
func (d *StatsDraft) Stats() []content.Stat {
	out := make([]content.Stat, 0, len(content.StatOrder))
	for _, key := range content.StatOrder {
		out = append(out, content.Stat{Key: key, Value: d.Value(key), Label: content.StatLabel(key)})
	}
	return out
}

type AdminUserDraft struct {
	Name  string `form:"name" validate:"required,max=100"`
	Email string `form:"email" validate:"required,email"`
}

func AdminUserDraftFrom(u content.AdminUser) AdminUserDraft {
	return AdminUserDraft{Name: u.Name, Email: u.Email}
}

func (d *AdminUserDraft) Messages() map[string]string {
	return map[string]string{
		"name.required":  "Name is required",
		"email.required": "Email is required",
		"email.email":    "Please enter a valid email",
	}
}

// Input builds the PUT body. The profile image path is included only when
// it differs from the current one.
func (d *AdminUserDraft) Input(currentImage, newImage string) api.UserUpdate {
	in := api.UserUpdate{Name: d.Name, Email: d.Email}
	if newImage != "" && newImage != currentImage {
		in.ProfileImage = newImage
	}
	return in
}
