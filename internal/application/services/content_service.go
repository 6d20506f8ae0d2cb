// Package services provides application-level services that orchestrate
// the REST API client, the fetcher and the form helpers for the handlers.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/Faseeh100/orphancare-web/internal/application/fetch"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

const (
	homeServices = 3
	homeImages   = 3
	homePrograms = 4
)

// Viewer identifies who is loading a page. Scope is the visitor or session
// ID that stale detection is keyed on; an empty Scope loads untracked, so the
// result is never superseded. Token is set only for admin loads.
type Viewer struct {
	Scope string
	Page  string
	Token string
}

func (v Viewer) request(resource, endpoint string, query url.Values) fetch.Request {
	req := fetch.Request{Key: fetch.KeyFor(endpoint, query, authScope(v.Token))}
	if v.Scope != "" {
		req.View = fetch.ViewFor(v.Scope, v.Page+"."+resource)
	}
	return req
}

// authScope keeps tokens out of de-duplication keys and logs
func authScope(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// ContentService loads the collections shown on public and admin pages
type ContentService struct {
	client  *api.Client
	fetcher *fetch.Fetcher
	logger  *logging.ChanneledLogger
}

// NewContentService creates a new content application service
func NewContentService(client *api.Client, fetcher *fetch.Fetcher, logger *logging.ChanneledLogger) *ContentService {
	return &ContentService{
		client:  client,
		fetcher: fetcher,
		logger:  logger,
	}
}

// AssetOrigin is the host that serves relative (legacy) upload paths
func (s *ContentService) AssetOrigin() string {
	return content.APIOrigin(s.client.BaseURL())
}

// Programs loads the public program list
func (s *ContentService) Programs(ctx context.Context, v Viewer) fetch.Result[[]content.Program] {
	return fetch.Do(ctx, s.fetcher, v.request("programs", "/programs", nil), s.client.ListPrograms)
}

// AdminPrograms loads every program, active or not
func (s *ContentService) AdminPrograms(ctx context.Context, v Viewer) fetch.Result[[]content.Program] {
	return fetch.Do(ctx, s.fetcher, v.request("programs", "/programs/admin", nil), func(ctx context.Context) ([]content.Program, error) {
		return s.client.ListAdminPrograms(ctx, v.Token)
	})
}

// Program loads one program for the edit form
func (s *ContentService) Program(ctx context.Context, v Viewer, id content.ID) fetch.Result[content.Program] {
	return fetch.Do(ctx, s.fetcher, v.request("program", "/programs/admin/"+id.String(), nil), func(ctx context.Context) (content.Program, error) {
		return s.client.GetProgram(ctx, v.Token, id)
	})
}

// Services loads the service list. The API serves the same list to
// visitors and administrators; public pages filter inactive rows.
func (s *ContentService) Services(ctx context.Context, v Viewer) fetch.Result[[]content.Service] {
	return fetch.Do(ctx, s.fetcher, v.request("services", "/services", nil), s.client.ListServices)
}

// Service loads one service for the edit form
func (s *ContentService) Service(ctx context.Context, v Viewer, id content.ID) fetch.Result[content.Service] {
	return fetch.Do(ctx, s.fetcher, v.request("service", "/services/"+id.String(), nil), func(ctx context.Context) (content.Service, error) {
		return s.client.GetService(ctx, v.Token, id)
	})
}

// Images loads the gallery
func (s *ContentService) Images(ctx context.Context, v Viewer) fetch.Result[[]content.GalleryImage] {
	return fetch.Do(ctx, s.fetcher, v.request("images", "/images", nil), s.client.ListImages)
}

// Stats loads the site statistics, always returned in display order
func (s *ContentService) Stats(ctx context.Context, v Viewer) fetch.Result[[]content.Stat] {
	res := fetch.Do(ctx, s.fetcher, v.request("stats", "/stats", nil), s.client.ListStats)
	if res.IsReady() {
		res.Data = content.OrderStats(res.Data)
	}
	return res
}

// Users loads the administrator accounts
func (s *ContentService) Users(ctx context.Context, v Viewer) fetch.Result[[]content.AdminUser] {
	return fetch.Do(ctx, s.fetcher, v.request("users", "/users/all", nil), func(ctx context.Context) ([]content.AdminUser, error) {
		return s.client.ListUsers(ctx, v.Token)
	})
}

// User loads one administrator for the edit form
func (s *ContentService) User(ctx context.Context, v Viewer, id content.ID) fetch.Result[content.AdminUser] {
	return fetch.Do(ctx, s.fetcher, v.request("user", "/users/"+id.String(), nil), func(ctx context.Context) (content.AdminUser, error) {
		return s.client.GetUser(ctx, v.Token, id)
	})
}

// HomeData holds the four independent sections of the home page
type HomeData struct {
	Services fetch.Result[[]content.Service]
	Images   fetch.Result[[]content.GalleryImage]
	Stats    fetch.Result[[]content.Stat]
	Programs fetch.Result[[]content.Program]
}

// Home loads every home page section concurrently. A failed section does
// not affect the others.
func (s *ContentService) Home(ctx context.Context, v Viewer) HomeData {
	var (
		data HomeData
		g    errgroup.Group
	)
	g.Go(func() error {
		data.Services = s.Services(ctx, v)
		if data.Services.IsReady() {
			data.Services.Data = listing.First(listing.ByStatus(data.Services.Data, listing.StatusActive, listing.ServiceActive), homeServices)
		}
		return nil
	})
	g.Go(func() error {
		data.Images = s.Images(ctx, v)
		if data.Images.IsReady() {
			data.Images.Data = listing.First(data.Images.Data, homeImages)
		}
		return nil
	})
	g.Go(func() error {
		data.Stats = s.Stats(ctx, v)
		return nil
	})
	g.Go(func() error {
		data.Programs = s.Programs(ctx, v)
		if data.Programs.IsReady() {
			data.Programs.Data = listing.First(listing.ByStatus(data.Programs.Data, listing.StatusActive, listing.ProgramActive), homePrograms)
		}
		return nil
	})
	_ = g.Wait()

	s.logSections("home", data.Services.Status, data.Images.Status, data.Stats.Status, data.Programs.Status)
	return data
}

// AboutData holds the about page sections
type AboutData struct {
	Stats    fetch.Result[[]content.Stat]
	Programs fetch.Result[[]content.Program]
}

// About loads the rounded statistics and the active programs
func (s *ContentService) About(ctx context.Context, v Viewer) AboutData {
	var (
		data AboutData
		g    errgroup.Group
	)
	g.Go(func() error {
		data.Stats = s.Stats(ctx, v)
		return nil
	})
	g.Go(func() error {
		data.Programs = s.Programs(ctx, v)
		if data.Programs.IsReady() {
			data.Programs.Data = listing.ByStatus(data.Programs.Data, listing.StatusActive, listing.ProgramActive)
		}
		return nil
	})
	_ = g.Wait()

	s.logSections("about", data.Stats.Status, data.Programs.Status)
	return data
}

// GalleryData is the gallery filtered to one category
type GalleryData struct {
	Images     fetch.Result[[]content.GalleryImage]
	Visible    []content.GalleryImage
	Categories []string
	Category   string
	TotalSize  int64
}

// Gallery loads the images and applies the category filter
func (s *ContentService) Gallery(ctx context.Context, v Viewer, category string) GalleryData {
	if category == "" {
		category = listing.All
	}
	data := GalleryData{Images: s.Images(ctx, v), Category: category}
	if data.Images.IsReady() {
		data.Categories = listing.Categories(data.Images.Data, listing.ImageCategory)
		data.Visible = listing.Filter(data.Images.Data, category, listing.ImageCategory)
		data.TotalSize = listing.TotalSize(data.Images.Data)
	}
	return data
}

// ServiceListData is the service list filtered by category for the public fragment
type ServiceListData struct {
	Services   fetch.Result[[]content.Service]
	Visible    []content.Service
	Categories []string
	Category   string
}

// PublicServices loads active services and filters them by category
func (s *ContentService) PublicServices(ctx context.Context, v Viewer, category string) ServiceListData {
	if category == "" {
		category = listing.All
	}
	data := ServiceListData{Services: s.Services(ctx, v), Category: category}
	if data.Services.IsReady() {
		active := listing.ByStatus(data.Services.Data, listing.StatusActive, listing.ServiceActive)
		data.Categories = listing.Categories(active, listing.ServiceCategory)
		data.Visible = listing.Filter(active, category, listing.ServiceCategory)
	}
	return data
}

func (s *ContentService) logSections(page string, statuses ...fetch.Status) {
	failed := 0
	for _, st := range statuses {
		if st == fetch.StatusError {
			failed++
		}
	}
	if failed > 0 {
		s.logger.Content().Warn("Page rendered with failed sections", "page", page, "failed", failed, "sections", len(statuses))
	}
}
