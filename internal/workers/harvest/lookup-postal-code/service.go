package lookuppostalcode

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"regexp"
	"strings"

	"contact-harvester/internal/common/errors"
	"contact-harvester/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix  = "cep:"
	notFoundMessage = "postal code not found"
)

var postalCodeRe = regexp.MustCompile(`^\d{5}-?\d{3}$`)

type Service struct {
	config *Config
	logger logger.Logger
	lookup AddressLookup
	redis  *redis.Client
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		lookup: deps.Lookup,
		redis:  deps.Redis,
	}
}

// NormalizePostalCode validates a CEP ("01001000" or "01001-000") and returns
// its eight digits.
func NormalizePostalCode(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !postalCodeRe.MatchString(raw) {
		return "", errors.NewInvalidInputError("postal code must have 8 digits, optionally as 00000-000")
	}
	return strings.ReplaceAll(raw, "-", ""), nil
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	postalCode, err := NormalizePostalCode(input.PostalCode)
	if err != nil {
		return nil, err
	}
	cacheKey := cacheKeyPrefix + postalCode

	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		s.logger.Debug("postal code served from cache", map[string]interface{}{"postalCode": postalCode})
		return cached, nil
	}

	address, err := s.lookup.Lookup(ctx, postalCode)
	if err != nil {
		return nil, err
	}
	if address == nil {
		s.logger.Info("postal code not found", map[string]interface{}{"postalCode": postalCode})
		return &Output{Found: false, Message: notFoundMessage}, nil
	}

	output := &Output{Found: true, Address: address}
	s.toCache(ctx, cacheKey, output)
	return output, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (*Output, bool) {
	if s.redis == nil {
		return nil, false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			s.logger.Warn("postal code cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil, false
	}
	var out Output
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (s *Service) toCache(ctx context.Context, key string, output *Output) {
	if s.redis == nil || s.config.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("postal code cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
