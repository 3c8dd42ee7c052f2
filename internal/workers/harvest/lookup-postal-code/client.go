package lookuppostalcode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contact-harvester/internal/common/errors"
	httpclient "contact-harvester/internal/common/http"
	"contact-harvester/internal/models"
)

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*httpclient.Response, error)
}

// ViaCEPClient queries the ViaCEP web service: GET {base}/{cep}/json/.
type ViaCEPClient struct {
	baseURL string
	fetcher Fetcher
}

func NewViaCEPClient(baseURL string, fetcher Fetcher) *ViaCEPClient {
	return &ViaCEPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
	}
}

func (c *ViaCEPClient) Lookup(ctx context.Context, postalCode string) (*models.PostalAddress, error) {
	resp, err := c.fetcher.Fetch(ctx, fmt.Sprintf("%s/%s/json/", c.baseURL, postalCode))
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewTimeoutError("viacep", err)
		}
		return nil, errors.NewPostalCodeLookupFailedError(postalCode, err)
	}
	if !resp.OK() {
		return nil, errors.NewPostalCodeLookupFailedError(postalCode, fmt.Errorf("status %d", resp.Status))
	}

	var body viaCEPResponse
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		return nil, errors.NewPostalCodeLookupFailedError(postalCode, fmt.Errorf("decode response: %w", err))
	}
	if isTrue(body.Erro) {
		return nil, nil
	}

	return &models.PostalAddress{
		PostalCode: body.CEP,
		Street:     body.Logradouro,
		District:   body.Bairro,
		City:       body.Localidade,
		State:      body.UF,
	}, nil
}

func isTrue(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	default:
		return false
	}
}
