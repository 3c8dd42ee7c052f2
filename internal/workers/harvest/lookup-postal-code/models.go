package lookuppostalcode

import (
	"context"

	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/models"

	"github.com/redis/go-redis/v9"
)

type Input struct {
	PostalCode string `json:"postalCode"`
}

// Output reports the address registered for a postal code. Found is false,
// with a message, when the code is well formed but unknown.
type Output struct {
	Found   bool                  `json:"found"`
	Message string                `json:"message,omitempty"`
	Address *models.PostalAddress `json:"address,omitempty"`
}

// AddressLookup resolves an eight-digit postal code. A nil address with a nil
// error means the code is not registered.
type AddressLookup interface {
	Lookup(ctx context.Context, postalCode string) (*models.PostalAddress, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	Lookup AddressLookup
	Redis  *redis.Client
}

// viaCEPResponse is the ViaCEP JSON body. Erro is a boolean in older
// responses and the string "true" in newer ones.
type viaCEPResponse struct {
	CEP         string      `json:"cep"`
	Logradouro  string      `json:"logradouro"`
	Complemento string      `json:"complemento"`
	Bairro      string      `json:"bairro"`
	Localidade  string      `json:"localidade"`
	UF          string      `json:"uf"`
	Erro        interface{} `json:"erro"`
}
