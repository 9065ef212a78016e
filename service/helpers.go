package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"grimoire/data/dto"
	"grimoire/internal/validator"

	"github.com/gabriel-vasile/mimetype"
)

// Multipart forms are parsed with up to 4MB held in memory; anything larger
// spills to disk. The handler layer caps the total body size separately.
const maxMultipartMemory = 4 << 20

// Cover uploads must decode to one of these types before processing.
var supportedImageTypes = []string{
	"image/jpeg",
	"image/png",
}

// parseMultipartForm parses a multipart request body and translates size and
// syntax failures to service errors.
func (s *service) parseMultipartForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxMultipartMemory)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return ErrContentTooLarge
		default:
			return ErrBadRequest
		}
	}
	return nil
}

// decodeBookMetadata decodes the JSON book document carried in the "book"
// field of a multipart form.
func (s *service) decodeBookMetadata(r *http.Request) (dto.BookRequestBody, error) {
	var requestBody dto.BookRequestBody
	raw := r.FormValue("book")
	if raw == "" {
		return dto.BookRequestBody{}, ErrBadRequest
	}
	err := json.Unmarshal([]byte(raw), &requestBody)
	if err != nil {
		return dto.BookRequestBody{}, ErrBadRequest
	}
	return requestBody, nil
}

// detectMimeType reads a multipart file into memory and sniffs its content
// type. Reading the whole file up front avoids corrupting the multipart
// stream when the content is consumed again for staging.
func (s *service) detectMimeType(file multipart.File) ([]byte, *mimetype.MIME, error) {
	buffer, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	mtype := mimetype.Detect(buffer)
	return buffer, mtype, nil
}

// stageUpload pulls the uploaded cover out of the "image" form field,
// validates its media type and writes it to a staging file inside the images
// directory. It returns the staged path and the client's original file name.
func (s *service) stageUpload(r *http.Request) (string, string, error) {
	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		switch {
		case errors.Is(err, http.ErrMissingFile):
			return "", "", ErrMissingFile
		default:
			return "", "", ErrBadRequest
		}
	}
	defer file.Close()
	buffer, mtype, err := s.detectMimeType(file)
	if err != nil {
		return "", "", err
	}
	if validMime := validator.Mime(mtype, supportedImageTypes...); !validMime {
		return "", "", ErrUnsupportedMediaType
	}
	staged, err := os.CreateTemp(s.config.Images.Dir, "upload-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return "", "", err
	}
	_, err = staged.Write(buffer)
	if closeErr := staged.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(staged.Name())
		return "", "", err
	}
	return staged.Name(), fileHeader.Filename, nil
}

// buildImageURL derives the public URL of an optimized cover image from the
// request's scheme and host.
func (s *service) buildImageURL(r *http.Request, outputPath string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/images/%s", scheme, r.Host, filepath.Base(outputPath))
}

// removeImageFile deletes the on-disk file an image URL points at, resolving
// only the base name inside the images directory so an arbitrary URL can
// never reach outside it. A file that is already gone is not an error.
func (s *service) removeImageFile(imageURL string) error {
	if imageURL == "" {
		return nil
	}
	u, err := url.Parse(imageURL)
	if err != nil {
		return err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return nil
	}
	filePath := filepath.Join(s.config.Images.Dir, name)
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return os.Remove(filePath)
}

// background launches a function in a goroutine tracked by the shared
// WaitGroup, recovering from panics inside the goroutine.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}
