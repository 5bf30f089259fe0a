package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	profileUC "github.com/khoahotran/portfolio-admin/internal/application/usecase/profile"
	"github.com/khoahotran/portfolio-admin/internal/domain/media"
	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

// GetProfile serves the caller's profile, or the first user's profile for
// anonymous requests.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ownerID, _ := GetOwnerIDFromGinContext(c)

	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), profileUC.GetProfileInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.View)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var form UpdateProfileForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		c.Error(apperror.NewInvalidInput("invalid profile form", err))
		return
	}

	uploads := make(map[profile.Slot]*media.Upload, len(profile.Slots))
	for _, slot := range profile.Slots {
		up, closer, err := h.readUpload(c, slot)
		if err != nil {
			c.Error(err)
			return
		}
		if up == nil {
			continue
		}
		defer closer.Close()
		uploads[slot] = up
	}

	input := profileUC.UpdateProfileInput{
		OwnerID:   ownerID,
		Name:      form.Name,
		AboutText: form.AboutText,
		Details:   form.ToUserDetails(),
		Uploads:   uploads,
	}
	output, err := h.profileUseCase.ExecuteUpdateProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

// readUpload returns nil when the slot carries no file.
func (h *ProfileHandler) readUpload(c *gin.Context, slot profile.Slot) (*media.Upload, io.Closer, error) {
	fh, err := c.FormFile(string(slot))
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, apperror.NewInvalidInput("cannot read uploaded file "+string(slot), err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperror.NewInternal("cannot open uploaded file", err)
	}

	contentType, err := h.contentType(fh, f)
	if err != nil {
		f.Close()
		return nil, nil, apperror.NewInternal("cannot inspect uploaded file", err)
	}

	return &media.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

// contentType trusts the declared type and sniffs the content only when the
// client sent none.
func (h *ProfileHandler) contentType(fh *multipart.FileHeader, f multipart.File) (string, error) {
	declared := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	h.logger.Debug("Sniffed upload media type", zap.String("filename", fh.Filename), zap.String("media_type", detected.String()))
	return detected.String(), nil
}
