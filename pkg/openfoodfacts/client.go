package openfoodfacts

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/internal/utils"
	"Markit-Pantry/pkg/product"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org"
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 4 << 20
)

var lookupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "markit_product_lookup_total",
		Help: "Product lookups against the food database by outcome",
	},
	[]string{"outcome"},
)

type (
	// ProductLookup resolves a barcode to a raw product. (nil, nil) means the
	// database has no record for it.
	ProductLookup interface {
		Lookup(ctx context.Context, barcode string) (*product.Lookup, error)
	}

	client struct {
		baseURL    string
		userAgent  string
		httpClient *http.Client
	}
)

func NewClient(baseURL string, timeout time.Duration, userAgent string) ProductLookup {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func NewClientFromConfig() ProductLookup {
	return NewClient(
		utils.GetConfig("OFF_BASE_URL"),
		utils.GetDuration("OFF_TIMEOUT", DefaultTimeout),
		utils.GetConfig("OFF_USER_AGENT"),
	)
}

func (c *client) Lookup(ctx context.Context, barcode string) (*product.Lookup, error) {
	res, err := c.lookup(ctx, barcode)
	switch {
	case err != nil:
		lookupTotal.WithLabelValues("error").Inc()
	case res == nil:
		lookupTotal.WithLabelValues("not_found").Inc()
	default:
		lookupTotal.WithLabelValues("found").Inc()
	}
	return res, err
}

func (c *client) lookup(ctx context.Context, barcode string) (*product.Lookup, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: food database returned %s", domain.ErrExternalService, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed food database payload", domain.ErrExternalService)
	}

	payload := gjson.ParseBytes(body)
	if payload.Get("status").Int() != 1 {
		return nil, nil
	}
	return product.NewLookup(payload.Get("product")), nil
}
