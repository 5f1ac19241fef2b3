package openmeteo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultHost  = "https://ensemble-api.open-meteo.com"
	ensemblePath = "/v1/ensemble"

	maxRetries = 2
	retryWait  = time.Second
)

// Client es el HTTP client de la API de ensembles de Open-Meteo.
type Client struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
}

// NewClient crea un Client. Con base vacío usa el host de producción. Acepta
// tanto el host solo como el endpoint completo: si el base no termina en
// /v1/ensemble lo agrega, para que un base de config tipo
// "https://ensemble-api.open-meteo.com" funcione igual.
func NewClient(base string) *Client {
	if base == "" {
		base = defaultHost
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, ensemblePath) {
		base += ensemblePath
	}
	return &Client{
		http: &http.Client{Timeout: 15 * time.Second},
		base: base,
		// Open-Meteo no publica límites duros para uso no comercial;
		// 5 req/s es más que suficiente para 2 modelos × 15 mercados.
		limiter: rate.NewLimiter(5, 2),
	}
}

// get hace un GET JSON con retries de delay fijo.
func (c *Client) get(ctx context.Context, url string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if attempt == maxRetries || (resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests) {
				return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
			}
			c.sleep(ctx)
			continue
		}

		err = decodeJSON(resp.Body, out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

func (c *Client) sleep(ctx context.Context) {
	select {
	case <-time.After(retryWait):
	case <-ctx.Done():
	}
}
