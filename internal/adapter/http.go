package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-flock-vault/models"
)

// HTTPClientConfig configures the REST adapter.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client

	mu      sync.RWMutex
	account string
	token   string
}

// NewHTTPServerAdapter builds a [ServerAdapter] speaking the vault server's
// REST API.
func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli}
}

func (h *httpServerAdapter) SetCredentials(account, token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.account = strings.TrimSpace(account)
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Account() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.account
}

func (h *httpServerAdapter) CreateAccount(ctx context.Context, account models.Account) (bool, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.CreateAccountRequest{
			Account:   account.Account,
			AuthToken: account.AuthToken,
			Metadata:  account.Metadata,
		}).
		Post("/api/accounts")
	if err != nil {
		return false, fmt.Errorf("create account request: %w", err)
	}

	if resp.StatusCode() == http.StatusConflict {
		return false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return false, err
	}

	return true, nil
}

func (h *httpServerAdapter) CheckPassword(ctx context.Context) (bool, error) {
	resp, err := h.authedRequest(ctx).
		Post(h.accountPath("/check"))
	if err != nil {
		return false, fmt.Errorf("check password request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return false, err
	}

	var check models.CheckPasswordResponse
	if err = json.Unmarshal(resp.Body(), &check); err != nil {
		return false, fmt.Errorf("decode check password response: %w", err)
	}

	return check.Valid, nil
}

func (h *httpServerAdapter) GetAccount(ctx context.Context) (models.Account, error) {
	resp, err := h.authedRequest(ctx).
		Get(h.accountPath(""))
	if err != nil {
		return models.Account{}, fmt.Errorf("get account request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Account{}, err
	}

	var account models.Account
	if err = json.Unmarshal(resp.Body(), &account); err != nil {
		return models.Account{}, fmt.Errorf("decode account response: %w", err)
	}

	return account, nil
}

func (h *httpServerAdapter) SetMetadata(ctx context.Context, metadata json.RawMessage) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.SetMetadataRequest{Metadata: metadata}).
		Put(h.accountPath(""))
	if err != nil {
		return fmt.Errorf("set metadata request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) SetItem(ctx context.Context, item models.Item) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.WriteItemRequest{
			Cipher: item.Cipher,
			IV:     item.IV,
			Type:   item.Type,
		}).
		Put(h.accountPath("/items/" + url.PathEscape(item.ItemID)))
	if err != nil {
		return fmt.Errorf("set item request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	resp, err := h.authedRequest(ctx).
		Get(h.accountPath("/items/" + url.PathEscape(itemID)))
	if err != nil {
		return models.Item{}, fmt.Errorf("get item request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Item{}, err
	}

	var item models.ItemResponse
	if err = json.Unmarshal(resp.Body(), &item); err != nil {
		return models.Item{}, fmt.Errorf("decode item response: %w", err)
	}

	return models.Item{
		Account: h.Account(),
		ItemID:  item.ItemID,
		Cipher:  item.Cipher,
		IV:      item.IV,
		Type:    item.Type,
	}, nil
}

func (h *httpServerAdapter) FetchAllItems(ctx context.Context) ([]models.Item, error) {
	resp, err := h.authedRequest(ctx).
		Get(h.accountPath("/items"))
	if err != nil {
		return nil, fmt.Errorf("fetch all items request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var responses []models.ItemResponse
	if err = json.Unmarshal(resp.Body(), &responses); err != nil {
		return nil, fmt.Errorf("decode items response: %w", err)
	}

	account := h.Account()
	items := make([]models.Item, 0, len(responses))
	for _, r := range responses {
		items = append(items, models.Item{
			Account: account,
			ItemID:  r.ItemID,
			Cipher:  r.Cipher,
			IV:      r.IV,
			Type:    r.Type,
		})
	}

	return items, nil
}

func (h *httpServerAdapter) DeleteItem(ctx context.Context, itemID string) error {
	resp, err := h.authedRequest(ctx).
		Delete(h.accountPath("/items/" + url.PathEscape(itemID)))
	if err != nil {
		return fmt.Errorf("delete item request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) SetSubscription(ctx context.Context, sub models.Subscription) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.SetSubscriptionRequest{
			Hours:    sub.Hours,
			Timezone: sub.Timezone,
		}).
		Put(h.accountPath("/subscriptions/" + url.PathEscape(sub.Token)))
	if err != nil {
		return fmt.Errorf("set subscription request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) GetSubscription(ctx context.Context, token string) (models.Subscription, error) {
	resp, err := h.authedRequest(ctx).
		Get(h.accountPath("/subscriptions/" + url.PathEscape(token)))
	if err != nil {
		return models.Subscription{}, fmt.Errorf("get subscription request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Subscription{}, err
	}

	var sub models.Subscription
	if err = json.Unmarshal(resp.Body(), &sub); err != nil {
		return models.Subscription{}, fmt.Errorf("decode subscription response: %w", err)
	}

	return sub, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	h.mu.RLock()
	token := h.token
	h.mu.RUnlock()

	req := h.client.R().SetContext(ctx)
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func (h *httpServerAdapter) accountPath(suffix string) string {
	return "/api/accounts/" + url.PathEscape(h.Account()) + suffix
}
