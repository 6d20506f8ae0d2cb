package handlers

import (
	"github.com/Faseeh100/orphancare-web/internal/application/fetch"
	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

// FormView is the state a form is rendered with: the draft, per-field
// errors, a form-level message and the submission ID for this render
type FormView[D any] struct {
	Draft        D
	Errors       forms.Errors
	Message      string
	SubmissionID string
}

func newFormView[D any](draft D) FormView[D] {
	return FormView[D]{Draft: draft, SubmissionID: forms.NewSubmissionID()}
}

// ContactView is the contact page; Success is the API's confirmation text
type ContactView struct {
	FormView[forms.ContactDraft]
	Success string
}

// DonateView is the donate page. Thanks is set after a pledge is recorded.
type DonateView struct {
	FormView[forms.DonationDraft]
	ThanksName   string
	ThanksAmount string
}

// ProgramFormView backs the new and edit program pages
type ProgramFormView struct {
	FormView[forms.ProgramDraft]
	ID    content.ID
	Icons []string
}

// ServiceFormView backs the new and edit service pages
type ServiceFormView struct {
	FormView[forms.ServiceDraft]
	ID         content.ID
	Categories []string
}

// UploadFormView backs the gallery upload page
type UploadFormView struct {
	FormView[forms.ImageDraft]
	Categories []string
	MaxSize    string
}

// StatsFormView backs the statistics page with a preview of the rounded values
type StatsFormView struct {
	FormView[forms.StatsDraft]
	Load    fetch.Result[[]content.Stat]
	Preview []content.Stat
}

// UserFormView backs the administrator edit page
type UserFormView struct {
	FormView[forms.AdminUserDraft]
	User    content.AdminUser
	MaxSize string
}

// ProgramListView is the admin program list with status tabs
type ProgramListView struct {
	Programs fetch.Result[[]content.Program]
	Visible  []content.Program
	Counts   listing.Counts
	Status   string
}

// ServiceRowView is one service row; the toggle form carries its own submission ID
type ServiceRowView struct {
	Service      content.Service
	SubmissionID string
}

// ServiceListView is the admin service table
type ServiceListView struct {
	Services fetch.Result[[]content.Service]
	Rows     []ServiceRowView
	Counts   listing.Counts
	Status   string
}

// ConfirmView asks before a destructive action
type ConfirmView struct {
	Heading      string
	Message      string
	Action       string
	Cancel       string
	Token        string
	SubmissionID string
}

// UsersView is the administrator list
type UsersView struct {
	Users fetch.Result[[]content.AdminUser]
}

// ErrorView is rendered for failures outside any form
type ErrorView struct {
	Status  int
	Heading string
	Message string
	Retry   string
}
