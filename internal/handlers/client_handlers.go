package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"clients_backend/internal/metrics"
	"clients_backend/internal/models"
	"clients_backend/internal/services"
	"clients_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService  services.ClientService
	maxUploadBytes int64
}

// NewClientHandler creates a new ClientHandler.
// Upload bodies larger than maxUploadBytes are rejected.
func NewClientHandler(cs services.ClientService, maxUploadBytes int64) *ClientHandler {
	return &ClientHandler{clientService: cs, maxUploadBytes: maxUploadBytes}
}

func parseClientID(c *gin.Context, raw string) (int64, bool) {
	clientID, err := utils.StrToInt64(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format: "+raw, err)
		return 0, false
	}
	return clientID, true
}

// bindClient decodes and validates the request body. It writes the 400
// response itself and returns false on failure.
func bindClient(c *gin.Context) (*models.Client, bool) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		utils.RespondValidationFailed(c, []string{"invalid request body: " + err.Error()})
		return nil, false
	}
	if fieldErrs := services.ValidateClient(&client); len(fieldErrs) > 0 {
		errs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			errs = append(errs, fe.String())
		}
		utils.RespondValidationFailed(c, errs)
		return nil, false
	}
	return &client, true
}

// GetClients handles fetching all clients.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetClients: Error from clientService.ListClients")
		utils.RespondWithError(c, http.StatusInternalServerError, "Error when querying the database", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientsPage handles fetching one page of clients.
func (h *ClientHandler) GetClientsPage(c *gin.Context) {
	pageStr := c.Param("page")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 || page > services.MaxClientPage {
		if err == nil {
			err = services.ErrInvalidPage
		}
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid page: "+pageStr, err)
		return
	}

	clientPage, err := h.clientService.ListClientsPage(c.Request.Context(), page)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPage) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid page: "+pageStr, err)
			return
		}
		utils.LogError(err, "GetClientsPage: Error from clientService.ListClientsPage for page "+pageStr)
		utils.RespondWithError(c, http.StatusInternalServerError, "Error when querying the database", err)
		return
	}
	c.JSON(http.StatusOK, clientPage)
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	idStr := c.Param("id")
	clientID, ok := parseClientID(c, idStr)
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithMessage(c, http.StatusNotFound, "The client with ID:"+idStr+" does not exist")
			return
		}
		utils.LogError(err, "GetClientByID: Error from clientService.GetClientByID for ID "+idStr)
		utils.RespondWithError(c, http.StatusInternalServerError, "Error when querying the database", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	payload, ok := bindClient(c)
	if !ok {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), payload)
	if err != nil {
		utils.LogError(err, "CreateClient: Error from clientService.CreateClient")
		utils.RespondWithError(c, http.StatusInternalServerError, "Error when inserting into database", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		utils.KeyMessage: "The client was created successfully",
		utils.KeyClient:  client,
	})
}

// UpdateClient handles updating a client. Success answers 201, as existing
// consumers expect.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	idStr := c.Param("id")
	clientID, ok := parseClientID(c, idStr)
	if !ok {
		return
	}
	payload, ok := bindClient(c)
	if !ok {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, payload)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithMessage(c, http.StatusNotFound,
				"Error: the client with ID:"+idStr+" could not update because it does not exist")
			return
		}
		utils.LogError(err, "UpdateClient: Error from clientService.UpdateClient for ID "+idStr)
		utils.RespondWithError(c, http.StatusInternalServerError, "Error when update into database", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		utils.KeyMessage: "The client was update successfully",
		utils.KeyClient:  client,
	})
}

// DeleteClient handles deleting a client and its photo.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	idStr := c.Param("id")
	clientID, ok := parseClientID(c, idStr)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithMessage(c, http.StatusNotFound,
				"Error: the client with ID:"+idStr+" could not delete because it does not exist")
			return
		}
		utils.LogError(err, "DeleteClient: Error from clientService.DeleteClient for ID "+idStr)
		utils.RespondWithError(c, http.StatusInternalServerError, "Error when delete into database", err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "The client was delete successfully")
}

// UploadPhoto handles the multipart upload of a client photo ("file" and "id" fields).
func (h *ClientHandler) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.PhotoUploadsTotal.WithLabelValues("failed").Inc()
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Maximum upload size exceeded: %d bytes", tooLarge.Limit), err)
			return
		}
		utils.RespondWithError(c, http.StatusBadRequest, "Required request part 'file' is not present", err)
		return
	}
	idStr := c.PostForm("id")
	clientID, ok := parseClientID(c, idStr)
	if !ok {
		return
	}

	upload := services.PhotoUpload{OriginalName: fileHeader.Filename, Size: fileHeader.Size}
	if fileHeader.Size > 0 {
		file, err := fileHeader.Open()
		if err != nil {
			metrics.PhotoUploadsTotal.WithLabelValues("failed").Inc()
			utils.RespondWithError(c, http.StatusInternalServerError, "Error when uploading the photo: "+fileHeader.Filename, err)
			return
		}
		defer file.Close()
		upload.Content = file
	}

	client, fileName, err := h.clientService.UploadPhoto(c.Request.Context(), clientID, upload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			utils.RespondWithMessage(c, http.StatusNotFound, "Error: the client with ID:"+idStr+" does not exist")
		case errors.Is(err, services.ErrPhotoWrite):
			metrics.PhotoUploadsTotal.WithLabelValues("failed").Inc()
			utils.LogError(err, "UploadPhoto: Error writing photo "+fileName)
			utils.RespondWithError(c, http.StatusInternalServerError, "Error when uploading the photo: "+fileName, err)
		case errors.Is(err, services.ErrClientSave):
			metrics.PhotoUploadsTotal.WithLabelValues("failed").Inc()
			utils.LogError(err, "UploadPhoto: Error saving client "+idStr)
			utils.RespondWithError(c, http.StatusInternalServerError, "Error when update into database", err)
		default:
			utils.LogError(err, "UploadPhoto: Error loading client "+idStr)
			utils.RespondWithError(c, http.StatusInternalServerError, "Error when querying the database", err)
		}
		return
	}

	if client == nil {
		metrics.PhotoUploadsTotal.WithLabelValues("empty").Inc()
		c.JSON(http.StatusCreated, gin.H{})
		return
	}

	metrics.PhotoUploadsTotal.WithLabelValues("stored").Inc()
	metrics.PhotoBytesStored.Add(float64(fileHeader.Size))
	c.JSON(http.StatusCreated, gin.H{
		utils.KeyClient:        client,
		utils.KeyUploadMessage: "The photo was uploaded successfully " + fileName,
	})
}

// ViewPhoto streams a stored photo as an attachment. A missing file is an
// unhandled error for ErrorHandlerMiddleware, not a 404.
func (h *ClientHandler) ViewPhoto(c *gin.Context) {
	name := c.Param("filename")

	photo, err := h.clientService.OpenPhoto(name)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	defer photo.Close()

	c.DataFromReader(http.StatusOK, photo.Size, photo.ContentType, photo, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, photo.Name),
	})
}
