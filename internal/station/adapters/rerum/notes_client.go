// Package rerum содержит HTTP-клиент хранилища документов заметок.
package rerum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fieldnotes/internal/station/config"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/api"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodFetchAll  = "FetchAll"
	LogMethodSearch    = "Search"
	LogMethodCreate    = "Create"
	LogMethodOverwrite = "Overwrite"
	LogMethodDelete    = "Delete"

	ErrorFailedToFetchNotes = "failed to fetch notes"
	ErrorFailedToCreateNote = "failed to create note"
	ErrorFailedToOverwrite  = "failed to overwrite note"
	ErrorFailedToDeleteNote = "failed to delete note"
)

// documentType - тип документа заметки в хранилище.
const documentType = "message"

// defaultPageSize используется, когда размер страницы в конфигурации
// не положителен: цикл выборки завершается только по короткой странице,
// и limit=0 зациклил бы его.
const defaultPageSize = 150

// Ошибки клиента заметок.
var (
	// ErrFetch возвращается при любой транспортной ошибке или ошибке
	// декодирования во время выборки; частичные результаты не возвращаются.
	ErrFetch = errors.New("fetch notes failed")
	// ErrMissingID возвращается, когда успешный ответ create не содержит @id.
	ErrMissingID = errors.New("create response is missing @id")
)

// StatusError сообщает, что хранилище ответило неожиданным HTTP-статусом.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

// Client реализует интерфейсы NotesClient и AgentQuerier поверх
// REST-протокола хранилища документов.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	now        func() time.Time
}

// NewClient создает новый клиент хранилища заметок.
func NewClient(cfg *config.APIConfig) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pageSize:   pageSize,
		now:        time.Now,
	}
}

// queryFilter - тело предикатного запроса выборки заметок.
type queryFilter struct {
	Type      string `json:"type"`
	Published *bool  `json:"published,omitempty"`
	Creator   string `json:"creator,omitempty"`
}

// filterForScope строит фильтр запроса для заданной выборки.
func filterForScope(scope api.Scope) queryFilter {
	filter := queryFilter{Type: documentType}
	switch scope.Kind {
	case api.ScopePublished:
		published := true
		filter.Published = &published
	case api.ScopeByOwner:
		filter.Creator = scope.Owner
	case api.ScopeGlobal:
	}
	return filter
}

// FetchAll постранично выкачивает корпус заметок, сдвигая skip на размер
// полученной страницы. Короткая или пустая страница трактуется как конец
// корпуса: хранилище не отдает признак наличия следующей страницы, поэтому
// короткая страница в середине потока приведет к недовыборке.
func (c *Client) FetchAll(ctx context.Context, scope api.Scope) ([]entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodFetchAll),
		zap.String("scope", string(scope.Kind)))

	filter := filterForScope(scope)

	var notes []entities.Note
	skip := 0
	for {
		page, err := c.fetchPage(ctx, filter, c.pageSize, skip)
		if err != nil {
			log.Error(ctx, ErrorFailedToFetchNotes, zap.Int("skip", skip), zap.Error(err))
			return nil, err
		}

		for _, doc := range page {
			notes = append(notes, doc.toNote())
		}

		if len(page) < c.pageSize {
			break
		}
		skip += len(page)
	}

	log.Debug(ctx, "fetched note corpus", zap.Int("count", len(notes)))
	return notes, nil
}

// fetchPage выполняет один постраничный запрос выборки.
func (c *Client) fetchPage(ctx context.Context, filter queryFilter, limit, skip int) ([]noteDocument, error) {
	url := c.baseURL + "/query?limit=" + strconv.Itoa(limit) + "&skip=" + strconv.Itoa(skip)

	body, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %w", ErrFetch, &StatusError{Op: "query", Status: resp.StatusCode})
	}

	var page []noteDocument
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return page, nil
}

// Search выкачивает весь корпус и фильтрует его на клиенте по подстроке
// в заголовке или тегах без учета регистра. Пустой результат не является ошибкой.
func (c *Client) Search(ctx context.Context, keyword string) ([]entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSearch))

	notes, err := c.FetchAll(ctx, api.GlobalScope())
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(keyword)
	matched := make([]entities.Note, 0)
	for _, note := range notes {
		if noteMatches(note, needle) {
			matched = append(matched, note)
		}
	}

	log.Debug(ctx, "search completed",
		zap.Int("corpus", len(notes)),
		zap.Int("matched", len(matched)))
	return matched, nil
}

// noteMatches проверяет вхождение подстроки в заголовок или любой тег.
func noteMatches(note entities.Note, needle string) bool {
	if strings.Contains(strings.ToLower(note.Title), needle) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Create сохраняет новую заметку и возвращает назначенный хранилищем @id.
func (c *Client) Create(ctx context.Context, note *entities.Note) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodCreate))

	doc := c.toDocument(note)
	doc.ID = ""

	resp, err := c.send(ctx, http.MethodPost, "/create", doc)
	if err != nil {
		log.Error(ctx, ErrorFailedToCreateNote, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToCreateNote, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &StatusError{Op: "create", Status: resp.StatusCode}
		log.Error(ctx, ErrorFailedToCreateNote, zap.Int("status", resp.StatusCode))
		return "", statusErr
	}

	var created struct {
		ID string `json:"@id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Error(ctx, ErrorFailedToCreateNote, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToCreateNote, err)
	}
	if created.ID == "" {
		log.Error(ctx, ErrorFailedToCreateNote, zap.Error(ErrMissingID))
		return "", ErrMissingID
	}

	return created.ID, nil
}

// Overwrite полностью заменяет заметку; побеждает последняя запись,
// проверка одновременных изменений не выполняется.
func (c *Client) Overwrite(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodOverwrite),
		zap.String("note_id", note.ID))

	resp, err := c.send(ctx, http.MethodPut, "/overwrite", c.toDocument(note))
	if err != nil {
		log.Error(ctx, ErrorFailedToOverwrite, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToOverwrite, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error(ctx, ErrorFailedToOverwrite, zap.Int("status", resp.StatusCode))
		return &StatusError{Op: "overwrite", Status: resp.StatusCode}
	}

	return nil
}

// deleteRequest - тело запроса удаления заметки.
type deleteRequest struct {
	Type    string `json:"type"`
	Creator string `json:"creator"`
	ID      string `json:"@id"`
}

// Delete удаляет заметку. Успехом считается ровно HTTP 204; любой другой
// статус возвращается как StatusError с кодом ответа.
func (c *Client) Delete(ctx context.Context, id, creator string) error {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodDelete),
		zap.String("note_id", id))

	resp, err := c.send(ctx, http.MethodDelete, "/delete", deleteRequest{
		Type:    documentType,
		Creator: creator,
		ID:      id,
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToDeleteNote, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDeleteNote, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		log.Error(ctx, ErrorFailedToDeleteNote, zap.Int("status", resp.StatusCode))
		return &StatusError{Op: "delete", Status: resp.StatusCode}
	}

	return nil
}

// send выполняет один JSON-запрос к хранилищу.
func (c *Client) send(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
