package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/amara/scholarfind/internal/auth"
	"github.com/amara/scholarfind/internal/db"
	"github.com/amara/scholarfind/internal/models"
	"github.com/amara/scholarfind/internal/storage"
)

const maxUploadBytes = 10 << 20

type helpRequestInput struct {
	ServiceType            string               `json:"service_type"`
	ScholarshipType        string               `json:"scholarship_type"`
	FullApplicationService bool                 `json:"full_application_service"`
	Deadline               string               `json:"deadline"`
	CurrentStatus          string               `json:"current_status"`
	SpecificHelp           string               `json:"specific_help"`
	AdditionalInfo         string               `json:"additional_info"`
	Urgency                string               `json:"urgency"`
	Documents              []models.DocumentRef `json:"documents"`
}

func (s *Server) handleCreateHelpRequest(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	var input helpRequestInput
	if err := c.Bind(&input); err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Invalid request")
	}

	if strings.TrimSpace(input.ServiceType) == "" {
		return apiError(c, http.StatusBadRequest, "validation/service_type", "Service type is required")
	}
	if input.Urgency == "" {
		input.Urgency = models.UrgencyStandard
	}
	if !models.ValidUrgency(input.Urgency) {
		return apiError(c, http.StatusBadRequest, "validation/urgency", "Urgency must be standard, priority or urgent")
	}

	created, err := s.Store.CreateHelpRequest(c.Request().Context(), models.HelpRequest{
		UserID:                 userID,
		ServiceType:            strings.TrimSpace(input.ServiceType),
		ScholarshipType:        strings.TrimSpace(input.ScholarshipType),
		FullApplicationService: input.FullApplicationService,
		Deadline:               strings.TrimSpace(input.Deadline),
		CurrentStatus:          strings.TrimSpace(input.CurrentStatus),
		SpecificHelp:           strings.TrimSpace(input.SpecificHelp),
		AdditionalInfo:         strings.TrimSpace(input.AdditionalInfo),
		Urgency:                input.Urgency,
		Documents:              input.Documents,
	})
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "help/create-failed", "Failed to submit help request")
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleListMyHelpRequests(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	reqs, err := s.Store.ListHelpRequestsByUser(c.Request().Context(), userID)
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "help/list-failed", "Failed to fetch help requests")
	}

	return c.JSON(http.StatusOK, reqs)
}

type pagedHelpRequests struct {
	Requests []models.HelpRequest `json:"requests"`
	Total    int                  `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

func (s *Server) handleAdminListHelpRequests(c echo.Context) error {
	limit, offset := pageParams(c, 50)

	reqs, total, err := s.Store.ListHelpRequests(c.Request().Context(), limit, offset)
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "help/list-failed", "Failed to fetch help requests")
	}

	return c.JSON(http.StatusOK, pagedHelpRequests{Requests: reqs, Total: total, Limit: limit, Offset: offset})
}

func (s *Server) handleUpdateHelpRequestStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Invalid request id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Invalid request")
	}

	if err := s.Store.UpdateHelpRequestStatus(c.Request().Context(), id, body.Status); err != nil {
		switch {
		case errors.Is(err, db.ErrInvalidStatus):
			return apiError(c, http.StatusBadRequest, "validation/status", "Invalid status value")
		case errors.Is(err, db.ErrNotFound):
			return apiError(c, http.StatusNotFound, "not-found", "Help request not found")
		default:
			return apiError(c, http.StatusInternalServerError, "help/update-failed", "Failed to update status")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"id": id.String(), "status": body.Status})
}

// Contact form

func (s *Server) handleSubmitContact(c echo.Context) error {
	var sub models.ContactSubmission
	if err := c.Bind(&sub); err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Invalid request")
	}

	if strings.TrimSpace(sub.Name) == "" {
		return apiError(c, http.StatusBadRequest, "validation/name", "Name is required")
	}
	if err := auth.ValidateEmail(sub.Email); err != nil {
		return validationError(c, err)
	}
	if strings.TrimSpace(sub.Message) == "" {
		return apiError(c, http.StatusBadRequest, "validation/message", "Message is required")
	}

	created, err := s.Store.CreateContactSubmission(c.Request().Context(), sub)
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "contact/create-failed", "Failed to submit message")
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleAdminListContacts(c echo.Context) error {
	limit, offset := pageParams(c, 50)

	subs, total, err := s.Store.ListContactSubmissions(c.Request().Context(), limit, offset)
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "contact/list-failed", "Failed to fetch submissions")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"submissions": subs,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

// Document uploads

func (s *Server) handleUploadDocument(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Missing file field")
	}
	if fileHeader.Size > maxUploadBytes {
		return apiError(c, http.StatusRequestEntityTooLarge, "documents/too-large", "File exceeds the 10 MB limit")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Unreadable file")
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Unreadable file")
	}
	if len(content) > maxUploadBytes {
		return apiError(c, http.StatusRequestEntityTooLarge, "documents/too-large", "File exceeds the 10 MB limit")
	}

	key := storage.DocumentKey(userID, fileHeader.Filename)
	url, err := s.Files.Save(ctx, key, bytes.NewReader(content))
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "documents/save-failed", "Failed to store file")
	}

	contentType := fileHeader.Header.Get("Content-Type")

	// Preview extraction is best effort; a corrupt PDF still uploads fine.
	var preview string
	if contentType == "application/pdf" || strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		if text, err := storage.PDFPreview(content, 500); err == nil {
			preview = text
		} else {
			c.Logger().Warnf("Failed to extract PDF preview for %s: %v", fileHeader.Filename, err)
		}
	}

	doc, err := s.Store.CreateUserDocument(ctx, models.UserDocument{
		UserID:      userID,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		URL:         url,
		Preview:     preview,
	})
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "documents/save-failed", "Failed to record document")
	}

	return c.JSON(http.StatusCreated, doc)
}

func (s *Server) handleListMyDocuments(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	docs, err := s.Store.ListUserDocuments(c.Request().Context(), userID)
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "documents/list-failed", "Failed to fetch documents")
	}

	return c.JSON(http.StatusOK, docs)
}

func pageParams(c echo.Context, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
