package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Faseeh100/orphancare-web/internal/application/fetch"
	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/media"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

// AdminService performs the admin console's writes against the API
type AdminService struct {
	client  *api.Client
	content *ContentService
	logger  *logging.ChanneledLogger
}

// NewAdminService creates a new admin application service
func NewAdminService(client *api.Client, contentService *ContentService, logger *logging.ChanneledLogger) *AdminService {
	return &AdminService{
		client:  client,
		content: contentService,
		logger:  logger,
	}
}

// DashboardData is the admin landing page
type DashboardData struct {
	Stats    fetch.Result[[]content.Stat]
	Programs fetch.Result[[]content.Program]
	Services fetch.Result[[]content.Service]
	Images   fetch.Result[[]content.GalleryImage]

	ProgramCounts listing.Counts
	ServiceCounts listing.Counts
}

// Dashboard loads the statistics overview and the collection counts
func (s *AdminService) Dashboard(ctx context.Context, v Viewer) DashboardData {
	var (
		data DashboardData
		g    errgroup.Group
	)
	g.Go(func() error {
		data.Stats = s.content.Stats(ctx, v)
		return nil
	})
	g.Go(func() error {
		data.Programs = s.content.AdminPrograms(ctx, v)
		data.ProgramCounts = listing.CountStatus(data.Programs.Data, listing.ProgramActive)
		return nil
	})
	g.Go(func() error {
		data.Services = s.content.Services(ctx, v)
		data.ServiceCounts = listing.CountStatus(data.Services.Data, listing.ServiceActive)
		return nil
	})
	g.Go(func() error {
		data.Images = s.content.Images(ctx, v)
		return nil
	})
	_ = g.Wait()
	return data
}

func (s *AdminService) logWrite(ctx context.Context, op string, id content.ID, err error) {
	log := s.logger.WithContext(logging.ChannelContent, ctx)
	if err != nil {
		log.Warn("Admin write failed", "op", op, "id", id.String(), "kind", string(api.KindOf(err)), "error", err)
		return
	}
	log.Info("Admin write completed", "op", op, "id", id.String())
}

func (s *AdminService) CreateProgram(ctx context.Context, w api.Write, in api.ProgramInput) error {
	_, err := s.client.CreateProgram(ctx, w, in)
	s.logWrite(ctx, "create_program", "", err)
	if err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	return nil
}

func (s *AdminService) UpdateProgram(ctx context.Context, w api.Write, id content.ID, in api.ProgramInput) error {
	_, err := s.client.UpdateProgram(ctx, w, id, in)
	s.logWrite(ctx, "update_program", id, err)
	if err != nil {
		return fmt.Errorf("failed to update program %s: %w", id, err)
	}
	return nil
}

func (s *AdminService) DeleteProgram(ctx context.Context, w api.Write, id content.ID) error {
	_, err := s.client.DeleteProgram(ctx, w, id)
	s.logWrite(ctx, "delete_program", id, err)
	if err != nil {
		return fmt.Errorf("failed to delete program %s: %w", id, err)
	}
	return nil
}

func (s *AdminService) CreateService(ctx context.Context, w api.Write, in api.ServiceInput) error {
	_, err := s.client.CreateService(ctx, w, in)
	s.logWrite(ctx, "create_service", "", err)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (s *AdminService) UpdateService(ctx context.Context, w api.Write, id content.ID, in api.ServiceInput) error {
	_, err := s.client.UpdateService(ctx, w, id, in)
	s.logWrite(ctx, "update_service", id, err)
	if err != nil {
		return fmt.Errorf("failed to update service %s: %w", id, err)
	}
	return nil
}

func (s *AdminService) DeleteService(ctx context.Context, w api.Write, id content.ID) error {
	_, err := s.client.DeleteService(ctx, w, id)
	s.logWrite(ctx, "delete_service", id, err)
	if err != nil {
		return fmt.Errorf("failed to delete service %s: %w", id, err)
	}
	return nil
}

// ToggleService flips a service's status and returns the row to re-render.
// When the API does not echo the row it is read back.
func (s *AdminService) ToggleService(ctx context.Context, w api.Write, id content.ID) (content.Service, error) {
	row, ok, err := s.client.ToggleService(ctx, w, id)
	s.logWrite(ctx, "toggle_service", id, err)
	if err != nil {
		return content.Service{}, fmt.Errorf("failed to toggle service %s: %w", id, err)
	}
	if ok {
		return row, nil
	}
	row, err = s.client.GetService(ctx, w.Token, id)
	if err != nil {
		return content.Service{}, fmt.Errorf("failed to reload service %s: %w", id, err)
	}
	return row, nil
}

// UploadImage forwards an inspected file with its text fields. An empty
// alt text is filled from the file name.
func (s *AdminService) UploadImage(ctx context.Context, w api.Write, draft forms.ImageDraft, upload forms.Upload) error {
	altText := draft.AltText
	if altText == "" {
		altText = media.AltTextFromFilename(upload.Filename)
	}
	_, err := s.client.UploadImage(ctx, w, api.ImageUpload{
		File:        upload.Part(),
		Description: draft.Description,
		AltText:     altText,
		Category:    draft.Category,
	})
	s.logWrite(ctx, "upload_image", "", err)
	if err != nil {
		return fmt.Errorf("failed to upload image %s: %w", upload.Filename, err)
	}
	s.logger.Media().Info("Gallery image uploaded", "filename", upload.Filename, "size", upload.Size, "width", upload.Width, "height", upload.Height)
	return nil
}

func (s *AdminService) DeleteImage(ctx context.Context, w api.Write, id content.ID) error {
	_, err := s.client.DeleteImage(ctx, w, id)
	s.logWrite(ctx, "delete_image", id, err)
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", id, err)
	}
	return nil
}

// UpdateStats saves all four statistics in display order
func (s *AdminService) UpdateStats(ctx context.Context, w api.Write, draft forms.StatsDraft) error {
	_, err := s.client.UpdateStats(ctx, w, draft.Stats())
	s.logWrite(ctx, "update_stats", "", err)
	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	return nil
}

// UpdateUser saves an administrator. A new profile image is uploaded first
// and its returned path is sent with the update only if it changed.
func (s *AdminService) UpdateUser(ctx context.Context, w api.Write, current content.AdminUser, draft forms.AdminUserDraft, upload *forms.Upload) error {
	var newImage string
	if upload != nil {
		path, err := s.client.UploadProfileImage(ctx, w, current.ID, upload.Part())
		s.logWrite(ctx, "upload_profile_image", current.ID, err)
		if err != nil {
			return fmt.Errorf("failed to upload profile image for user %s: %w", current.ID, err)
		}
		newImage = path
	}

	_, err := s.client.UpdateUser(ctx, w, current.ID, draft.Input(current.ProfileImage, newImage))
	s.logWrite(ctx, "update_user", current.ID, err)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", current.ID, err)
	}
	return nil
}

func (s *AdminService) DeleteUser(ctx context.Context, w api.Write, id content.ID) error {
	_, err := s.client.DeleteUser(ctx, w, id)
	s.logWrite(ctx, "delete_user", id, err)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
