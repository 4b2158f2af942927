package rerum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodQueryAgent  = "QueryAgent"
	LogMethodCreateAgent = "CreateAgent"

	ErrorFailedToQueryAgent  = "failed to query agent"
	ErrorFailedToCreateAgent = "failed to create agent"
)

// Типы документов профиля. Хранилище исторически содержит записи
// обоих типов, поэтому поиск идет по дизъюнкции.
const (
	agentType     = "Agent"
	agentTypeFoaf = "foaf:Agent"
)

// agentDocument - формат документа профиля на проводе.
type agentDocument struct {
	ID    string          `json:"@id,omitempty"`
	Type  string          `json:"@type"`
	UID   string          `json:"uid"`
	Name  string          `json:"name,omitempty"`
	Roles map[string]bool `json:"roles,omitempty"`
}

// QueryAgent ищет профиль по uid среди документов обоих исторических типов.
// Отсутствие совпадений - легитимный результат (nil, nil), а не ошибка;
// ошибка означает транспортный сбой, который вызывающий должен считать
// повторяемым.
func (c *Client) QueryAgent(ctx context.Context, uid string) (*entities.UserProfile, error) {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodQueryAgent),
		zap.String("uid", uid))

	query := map[string]any{
		"$or": []map[string]any{
			{"@type": agentType, "uid": uid},
			{"@type": agentTypeFoaf, "uid": uid},
		},
	}

	resp, err := c.send(ctx, http.MethodPost, "/query", query)
	if err != nil {
		log.Error(ctx, ErrorFailedToQueryAgent, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToQueryAgent, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error(ctx, ErrorFailedToQueryAgent, zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Op: "query agent", Status: resp.StatusCode}
	}

	var agents []agentDocument
	if err := json.NewDecoder(resp.Body).Decode(&agents); err != nil {
		log.Error(ctx, ErrorFailedToQueryAgent, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToQueryAgent, err)
	}

	if len(agents) == 0 {
		log.Debug(ctx, "agent not found")
		return nil, nil
	}

	agent := agents[0]
	return &entities.UserProfile{
		UID:   agent.UID,
		Name:  agent.Name,
		Roles: agent.Roles,
	}, nil
}

// CreateAgent сохраняет документ профиля и возвращает его @id.
func (c *Client) CreateAgent(ctx context.Context, profile *entities.UserProfile) (string, error) {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodCreateAgent),
		zap.String("uid", profile.UID))

	doc := agentDocument{
		Type:  agentType,
		UID:   profile.UID,
		Name:  profile.Name,
		Roles: profile.Roles,
	}

	resp, err := c.send(ctx, http.MethodPost, "/create", doc)
	if err != nil {
		log.Error(ctx, ErrorFailedToCreateAgent, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToCreateAgent, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error(ctx, ErrorFailedToCreateAgent, zap.Int("status", resp.StatusCode))
		return "", &StatusError{Op: "create agent", Status: resp.StatusCode}
	}

	var created struct {
		ID string `json:"@id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Error(ctx, ErrorFailedToCreateAgent, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToCreateAgent, err)
	}
	if created.ID == "" {
		return "", ErrMissingID
	}

	return created.ID, nil
}
