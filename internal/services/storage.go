package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// resumeFolder groups uploaded resumes in Cloudinary.
const resumeFolder = "resumes"

// ResumeStorage stores uploaded resumes as raw Cloudinary assets. Paths handed
// to callers are Cloudinary public IDs (folder-prefixed).
type ResumeStorage struct {
	cld  *cloudinary.Cloudinary
	http *http.Client
}

func NewResumeStorage(cloudName, apiKey, apiSecret string) (*ResumeStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &ResumeStorage{cld: cld, http: &http.Client{}}, nil
}

// Upload stores the file content under the owner's folder and returns the path
// to reference it by. The original extension is kept on the public ID so
// downloads keep their type. The reader is streamed straight to the uploader.
func (s *ResumeStorage) Upload(ctx context.Context, ownerID uuid.UUID, file io.Reader, filename string) (string, error) {
	publicID := uuid.New().String()
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		publicID += ext
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       ownerFolder(ownerID),
		PublicID:     publicID,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return result.PublicID, nil
}

func ownerFolder(ownerID uuid.UUID) string {
	return resumeFolder + "/" + ownerID.String()
}

// ResumeBelongsTo reports whether a stored resume path sits inside the owner's
// folder. The import pipeline refuses paths outside it.
func ResumeBelongsTo(path string, ownerID uuid.UUID) bool {
	return strings.HasPrefix(path, ownerFolder(ownerID)+"/")
}

// Download fetches the raw bytes for a previously uploaded path.
func (s *ResumeStorage) Download(ctx context.Context, path string) ([]byte, error) {
	asset, err := s.cld.Admin.Asset(ctx, admin.AssetParams{
		PublicID:  path,
		AssetType: api.File,
	})
	if err != nil {
		return nil, err
	}
	if asset.Error.Message != "" {
		return nil, fmt.Errorf("asset lookup failed: %s", asset.Error.Message)
	}
	if asset.SecureURL == "" {
		return nil, fmt.Errorf("no delivery URL for %s", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.SecureURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Delete removes a stored resume. Callers treat failures as advisory.
func (s *ResumeStorage) Delete(ctx context.Context, path string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     path,
		ResourceType: "raw",
	})
	return err
}
