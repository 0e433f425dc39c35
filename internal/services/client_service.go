package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"clients_backend/internal/models"
	"clients_backend/internal/repositories"
	"clients_backend/internal/storage"
	"clients_backend/pkg/utils"

	"github.com/google/uuid"
)

// ClientPageSize is the fixed number of clients per page.
const ClientPageSize = 3

// MaxClientPage is the largest page index whose row offset fits in an int.
const MaxClientPage = math.MaxInt / ClientPageSize

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientSave     = errors.New("client could not be saved")
	ErrPhotoWrite     = errors.New("photo could not be written")
	ErrPhotoNotFound  = errors.New("image could not be loaded")
	ErrInvalidPage    = errors.New("page index out of range")
)

// PhotoUpload is an uploaded file as received from the caller.
type PhotoUpload struct {
	OriginalName string
	Size         int64
	Content      io.Reader
}

// --- ClientService Interface ---
type ClientService interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	ListClientsPage(ctx context.Context, page int) (*models.Page[models.Client], error)
	GetClientByID(ctx context.Context, clientID int64) (*models.Client, error)
	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
	UpdateClient(ctx context.Context, clientID int64, payload *models.Client) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID int64) error
	// UploadPhoto returns a nil client and empty name when the upload is empty.
	UploadPhoto(ctx context.Context, clientID int64, upload PhotoUpload) (*models.Client, string, error)
	OpenPhoto(name string) (*storage.Photo, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	photos     storage.PhotoStore
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, photos storage.PhotoStore) ClientService {
	return &clientService{
		clientRepo: repo,
		photos:     photos,
	}
}

func (s *clientService) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) ListClientsPage(ctx context.Context, page int) (*models.Page[models.Client], error) {
	if page < 0 || page > MaxClientPage {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	clients, total, err := s.clientRepo.FindAllPage(ctx, page, ClientPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get client page %d: %w", page, err)
	}
	return models.NewPage(clients, page, ClientPageSize, total), nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

// CreateClient persists a new client. The ID and photo of the payload are ignored.
func (s *clientService) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	newClient := &models.Client{
		Name:     client.Name,
		LastName: client.LastName,
		Email:    client.Email,
		CreateAt: client.CreateAt,
	}
	if err := s.clientRepo.Save(ctx, newClient); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClientSave, err)
	}
	return newClient, nil
}

// UpdateClient copies the editable fields of payload onto the stored client.
// The stored photo is kept whatever the payload says, and so is the stored
// createAt when the payload leaves it unset.
func (s *clientService) UpdateClient(ctx context.Context, clientID int64, payload *models.Client) (*models.Client, error) {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	client.Name = payload.Name
	client.LastName = payload.LastName
	client.Email = payload.Email
	if !payload.CreateAt.IsZero() {
		client.CreateAt = payload.CreateAt
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrClientSave, err)
	}
	return client, nil
}

// DeleteClient removes the client's photo file, if any, and then the record.
func (s *clientService) DeleteClient(ctx context.Context, clientID int64) error {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return err
	}

	if client.HasPhoto() {
		s.removePhoto(*client.Photo)
	}

	if err := s.clientRepo.DeleteByID(ctx, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// UploadPhoto stores the upload under a fresh name, drops the previous photo
// and points the client at the new file. Nothing is changed when the write fails.
func (s *clientService) UploadPhoto(ctx context.Context, clientID int64, upload PhotoUpload) (*models.Client, string, error) {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, "", err
	}
	if upload.Size == 0 {
		return nil, "", nil
	}

	fileName := PhotoFileName(upload.OriginalName)
	utils.LogInfo("Storing uploaded photo", map[string]interface{}{"client_id": clientID, "path": s.photos.Path(fileName)})

	if _, err := s.photos.Write(fileName, upload.Content); err != nil {
		return nil, fileName, fmt.Errorf("%w: %w", ErrPhotoWrite, err)
	}

	if client.HasPhoto() {
		s.removePhoto(*client.Photo)
	}

	client.Photo = &fileName
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, fileName, fmt.Errorf("%w: %w", ErrClientSave, err)
	}
	return client, fileName, nil
}

func (s *clientService) OpenPhoto(name string) (*storage.Photo, error) {
	photo, err := s.photos.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrPhotoNotFound, name, err)
	}
	return photo, nil
}

// removePhoto deletes a stored photo. Missing or unreadable files are skipped.
func (s *clientService) removePhoto(name string) {
	if err := s.photos.Remove(name); err != nil {
		utils.LogDebug("Skipping photo removal", map[string]interface{}{"photo": name, "reason": err.Error()})
	}
}

// PhotoFileName returns a collision-resistant name for an uploaded file:
// a random UUID, an underscore and the original name without spaces.
func PhotoFileName(originalName string) string {
	return uuid.NewString() + "_" + strings.ReplaceAll(originalName, " ", "")
}
