// Package upload содержит клиент загрузки медиафайлов через S3-прокси.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"fieldnotes/internal/station/config"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodUpload = "Upload"

	ErrorFailedToUpload    = "failed to upload media"
	ErrorFailedToReadAsset = "failed to read local asset"
)

// maxRejectionBody ограничивает объем тела ответа, сохраняемого в ошибке.
const maxRejectionBody = 4 << 10

// Ошибки загрузки.
var (
	// ErrTransport возвращается при сетевом сбое до получения ответа.
	ErrTransport = errors.New("upload transport failed")
	// ErrLocationMissing возвращается, когда успешный ответ не содержит
	// заголовка Location с удаленным локатором.
	ErrLocationMissing = errors.New("upload response is missing Location header")
)

// RejectedError сообщает, что прокси отверг загрузку.
type RejectedError struct {
	Status int
	Body   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("upload rejected with status %d", e.Status)
}

// Client загружает локальные медиафайлы на S3-прокси и возвращает
// удаленные локаторы. Повторы на этом уровне не выполняются - политика
// повторов принадлежит вызывающему.
type Client struct {
	httpClient *http.Client
	baseURL    string
	base64Mode bool
	now        func() time.Time
}

// NewClient создает новый клиент загрузки.
func NewClient(cfg *config.UploadConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		base64Mode: cfg.Base64Mode,
		now:        time.Now,
	}
}

// Upload отправляет файл одним POST-запросом и читает локатор из
// заголовка Location. Имя файла получает расширение jpg или mp4 по виду
// медиа независимо от исходного контейнера - контракт прокси.
func (c *Client) Upload(ctx context.Context, asset entities.LocalAsset, kind entities.Kind) (string, error) {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodUpload),
		zap.String("kind", string(kind)))

	data, err := os.ReadFile(asset.URI)
	if err != nil {
		log.Error(ctx, ErrorFailedToReadAsset, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToReadAsset, err)
	}

	filename := fmt.Sprintf("media-%d.%s", c.now().UnixMilli(), extensionFor(kind))

	var body bytes.Buffer
	var contentType string
	if c.base64Mode {
		contentType, err = writeBase64Form(&body, data, filename, mimeFor(kind))
	} else {
		contentType, err = writeMultipartForm(&body, data, filename)
	}
	if err != nil {
		log.Error(ctx, ErrorFailedToUpload, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/uploadFile", &body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrorFailedToUpload, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(ctx, ErrorFailedToUpload, zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		rejection, _ := io.ReadAll(io.LimitReader(resp.Body, maxRejectionBody))
		log.Error(ctx, ErrorFailedToUpload,
			zap.Int("status", resp.StatusCode),
			zap.String("filename", filename))
		return "", &RejectedError{Status: resp.StatusCode, Body: string(rejection)}
	}

	location := resp.Header.Get("Location")
	if location == "" {
		log.Error(ctx, ErrorFailedToUpload, zap.Error(ErrLocationMissing))
		return "", ErrLocationMissing
	}

	log.Info(ctx, "media uploaded",
		zap.String("filename", filename),
		zap.String("location", location))
	return location, nil
}

// writeMultipartForm собирает multipart-тело с одной бинарной частью file.
func writeMultipartForm(buf *bytes.Buffer, data []byte, filename string) (string, error) {
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return writer.FormDataContentType(), nil
}

// writeBase64Form собирает форму с полем file в виде data-URI для сред
// без поддержки потоковой отправки файлов.
func writeBase64Form(buf *bytes.Buffer, data []byte, filename, mime string) (string, error) {
	writer := multipart.NewWriter(buf)

	dataURI := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	if err := writer.WriteField("file", dataURI); err != nil {
		return "", fmt.Errorf("failed to write file field: %w", err)
	}
	if err := writer.WriteField("name", filename); err != nil {
		return "", fmt.Errorf("failed to write name field: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return writer.FormDataContentType(), nil
}

// extensionFor возвращает расширение имени файла для вида медиа.
func extensionFor(kind entities.Kind) string {
	if kind == entities.KindVideo {
		return "mp4"
	}
	return "jpg"
}

// mimeFor возвращает MIME-тип для вида медиа.
func mimeFor(kind entities.Kind) string {
	if kind == entities.KindVideo {
		return "video/mp4"
	}
	return "image/jpeg"
}
