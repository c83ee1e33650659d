// Package payment talks to the Mercado Pago preference-creation API.
// A preference describes what is being purchased and where the gateway
// should redirect the buyer afterwards; creating one returns the
// init_point URL the storefront redirects to.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

const preferencesPath = "/checkout/preferences"

// Preference is the gateway's response to a preference creation.
type Preference struct {
	PreferenceID     string `json:"preference_id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point,omitempty"`
}

type Config struct {
	BaseURL         string
	AccessToken     string
	PublicBaseURL   string
	NotificationURL string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
	cb         *gobreaker.CircuitBreaker[*Preference]
	log        *logrus.Entry
}

func NewClient(cfg Config, log *logrus.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "mercadopago",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
		cb:         gobreaker.NewCircuitBreaker[*Preference](settings),
		log:        log.WithField("component", "mercadopago"),
	}
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type preferencePhone struct {
	Number string `json:"number"`
}

type preferenceAddress struct {
	StreetName string `json:"street_name"`
}

type preferencePayer struct {
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Phone   preferencePhone   `json:"phone"`
	Address preferenceAddress `json:"address"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items             []preferenceItem   `json:"items"`
	Payer             preferencePayer    `json:"payer"`
	BackURLs          preferenceBackURLs `json:"back_urls"`
	AutoReturn        string             `json:"auto_return"`
	ExternalReference string             `json:"external_reference"`
	NotificationURL   string             `json:"notification_url,omitempty"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreatePreference registers the cart with the gateway and returns the
// redirect URL. The cart itself is never touched here: it is only
// cleared later by the success page on an approved return.
func (c *Client) CreatePreference(ctx context.Context, items []domain.CartItem, customer domain.CustomerData) (*Preference, error) {
	req := c.buildRequest(items, customer)

	pref, err := c.cb.Execute(func() (*Preference, error) {
		return c.post(ctx, req)
	})
	if err != nil {
		c.log.WithError(err).Error("preference creation failed")
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"preference_id":      pref.PreferenceID,
		"external_reference": req.ExternalReference,
	}).Info("preference created")

	return pref, nil
}

func (c *Client) buildRequest(items []domain.CartItem, customer domain.CustomerData) preferenceRequest {
	prefItems := make([]preferenceItem, 0, len(items))
	for _, item := range items {
		title := item.Product.Name
		if item.SelectedColor != "" {
			title = fmt.Sprintf("%s - %s", title, item.SelectedColor)
		}
		prefItems = append(prefItems, preferenceItem{
			Title:      title,
			Quantity:   item.Quantity,
			UnitPrice:  item.Product.Price,
			CurrencyID: "ARS",
		})
	}

	return preferenceRequest{
		Items: prefItems,
		Payer: preferencePayer{
			Name:    customer.Name,
			Email:   customer.Email,
			Phone:   preferencePhone{Number: customer.Phone},
			Address: preferenceAddress{StreetName: customer.Address},
		},
		BackURLs: preferenceBackURLs{
			Success: c.cfg.PublicBaseURL + "/payment-success",
			Failure: c.cfg.PublicBaseURL + "/payment-failure",
			Pending: c.cfg.PublicBaseURL + "/payment-pending",
		},
		AutoReturn:        "approved",
		ExternalReference: fmt.Sprintf("order_%d", time.Now().UnixMilli()),
		NotificationURL:   c.cfg.NotificationURL,
	}
}

func (c *Client) post(ctx context.Context, req preferenceRequest) (*Preference, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+preferencesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build preference request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("preference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("mercadopago API error: status %d: %s", resp.StatusCode, detail)
	}

	var prefResp preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&prefResp); err != nil {
		return nil, fmt.Errorf("failed to decode preference response: %w", err)
	}

	return &Preference{
		PreferenceID:     prefResp.ID,
		InitPoint:        prefResp.InitPoint,
		SandboxInitPoint: prefResp.SandboxInitPoint,
	}, nil
}
