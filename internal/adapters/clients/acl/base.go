package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quotably/quotesync/internal/adapters/clients"
)

// BaseAdapter provides common functionality for ACL adapters.
// Embed this in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request and returns the response body (caller closes).
// Failures and non-2xx statuses come back as mapped domain errors.
func (a *BaseAdapter) Get(ctx context.Context, path, operation, entityID string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, entityID)
	}

	if err := checkStatus(resp, a.serviceName, operation, entityID); err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// PostJSON marshals the payload and performs a POST request.
func (a *BaseAdapter) PostJSON(ctx context.Context, path string, payload any, operation, entityID string) (io.ReadCloser, error) {
	body, err := encodeJSON(payload)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Post(ctx, path, body)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, entityID)
	}

	if err := checkStatus(resp, a.serviceName, operation, entityID); err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// PutJSON marshals the payload and performs a PUT request.
func (a *BaseAdapter) PutJSON(ctx context.Context, path string, payload any, operation, entityID string) (io.ReadCloser, error) {
	body, err := encodeJSON(payload)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Put(ctx, path, body)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, entityID)
	}

	if err := checkStatus(resp, a.serviceName, operation, entityID); err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// PatchJSON marshals the payload and performs a PATCH request, used for
// field-level partial updates on the document store.
func (a *BaseAdapter) PatchJSON(ctx context.Context, path string, payload any, operation, entityID string) (io.ReadCloser, error) {
	body, err := encodeJSON(payload)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Patch(ctx, path, body)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, entityID)
	}

	if err := checkStatus(resp, a.serviceName, operation, entityID); err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// Delete performs a DELETE request and discards any response body.
func (a *BaseAdapter) Delete(ctx context.Context, path, operation, entityID string) error {
	resp, err := a.client.Delete(ctx, path)
	if err != nil {
		return MapHTTPError(nil, err, a.serviceName, operation, entityID)
	}

	if err := checkStatus(resp, a.serviceName, operation, entityID); err != nil {
		return err
	}

	return resp.Body.Close()
}

// checkStatus maps non-2xx responses to domain errors, consuming the body.
func checkStatus(resp *http.Response, serviceName, operation, entityID string) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	defer func() { _ = resp.Body.Close() }()

	return MapHTTPError(resp, nil, serviceName, operation, entityID)
}

// encodeJSON marshals a payload into a reader for request bodies.
func encodeJSON(payload any) (io.Reader, error) {
	if payload == nil {
		return nil, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	return bytes.NewReader(data), nil
}

// DecodeResponse reads and decodes a JSON response body into the target
// type, closing the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, fmt.Errorf("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}
