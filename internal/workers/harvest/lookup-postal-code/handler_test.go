package lookuppostalcode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"contact-harvester/internal/common/config"
	"contact-harvester/internal/common/errors"
	httpclient "contact-harvester/internal/common/http"
	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viaCEPFound = `{
  "cep": "01001-000",
  "logradouro": "Praça da Sé",
  "complemento": "lado ímpar",
  "bairro": "Sé",
  "localidade": "São Paulo",
  "uf": "SP"
}`

func expectedAddress() *models.PostalAddress {
	return &models.PostalAddress{
		PostalCode: "01001-000",
		Street:     "Praça da Sé",
		District:   "Sé",
		City:       "São Paulo",
		State:      "SP",
	}
}

// countingLookup returns a fixed answer and counts calls.
type countingLookup struct {
	calls   atomic.Int32
	address *models.PostalAddress
	err     error
}

func (l *countingLookup) Lookup(context.Context, string) (*models.PostalAddress, error) {
	l.calls.Add(1)
	return l.address, l.err
}

func createTestConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  5,
		Timeout:        10 * time.Second,
		BaseURL:        "http://viacep.test/ws",
		RequestTimeout: 2 * time.Second,
		CacheTTL:       time.Hour,
	}
}

func createTestHandler(t *testing.T, redisClient *redis.Client, lookup AddressLookup) *Handler {
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: createTestConfig(),
		Logger:       logger.NewTestLogger(t),
		Redis:        redisClient,
		Lookup:       lookup,
	})
	require.NoError(t, err)
	return handler
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func TestNormalizePostalCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "01001000", expected: "01001000"},
		{input: "01001-000", expected: "01001000"},
		{input: " 80000-000 ", expected: "80000000"},
		{input: "0100100", wantErr: true},
		{input: "01001-0000", wantErr: true},
		{input: "01.001-000", wantErr: true},
		{input: "abcde-fgh", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizePostalCode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestViaCEPClient_Lookup(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		expected     *models.PostalAddress
		expectedCode errors.ErrorCode
	}{
		{
			name:     "found",
			status:   http.StatusOK,
			body:     viaCEPFound,
			expected: expectedAddress(),
		},
		{
			name:   "not found boolean flag",
			status: http.StatusOK,
			body:   `{"erro": true}`,
		},
		{
			name:   "not found string flag",
			status: http.StatusOK,
			body:   `{"erro": "true"}`,
		},
		{
			name:         "bad request",
			status:       http.StatusBadRequest,
			body:         `<html>Bad Request</html>`,
			expectedCode: errors.ErrCodePostalCodeLookupFailed,
		},
		{
			name:         "malformed body",
			status:       http.StatusOK,
			body:         `{"cep":`,
			expectedCode: errors.ErrCodePostalCodeLookupFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewViaCEPClient(server.URL+"/ws/", httpclient.NewClient(httpclient.Options{Timeout: 2 * time.Second}))
			address, err := client.Lookup(context.Background(), "01001000")

			assert.Equal(t, "/ws/01001000/json/", gotPath)
			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, address)
		})
	}
}

func TestService_Execute_CacheMissWritesThrough(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()
	lookup := &countingLookup{address: expectedAddress()}
	handler := createTestHandler(t, redisClient, lookup)

	cacheKey := "cep:01001000"
	redisMock.ExpectGet(cacheKey).RedisNil()
	cachedData, _ := json.Marshal(&Output{Found: true, Address: expectedAddress()})
	redisMock.ExpectSet(cacheKey, cachedData, time.Hour).SetVal("OK")

	output, err := handler.Execute(context.Background(), &Input{PostalCode: "01001-000"})
	require.NoError(t, err)

	assert.True(t, output.Found)
	assert.Equal(t, expectedAddress(), output.Address)
	assert.Equal(t, int32(1), lookup.calls.Load())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_Execute_CacheHit(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()
	lookup := &countingLookup{err: errors.NewExternalServiceError("viacep", assert.AnError)}
	handler := createTestHandler(t, redisClient, lookup)

	cachedData, _ := json.Marshal(&Output{Found: true, Address: expectedAddress()})
	redisMock.ExpectGet("cep:01001000").SetVal(string(cachedData))

	output, err := handler.Execute(context.Background(), &Input{PostalCode: "01001000"})
	require.NoError(t, err)

	assert.True(t, output.Found)
	assert.Equal(t, "São Paulo", output.Address.City)
	assert.Equal(t, int32(0), lookup.calls.Load())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_Execute_NotFoundIsNotCached(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()
	handler := createTestHandler(t, redisClient, &countingLookup{})

	redisMock.ExpectGet("cep:99999999").RedisNil()

	output, err := handler.Execute(context.Background(), &Input{PostalCode: "99999-999"})
	require.NoError(t, err)

	assert.False(t, output.Found)
	assert.Equal(t, "postal code not found", output.Message)
	assert.Nil(t, output.Address)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_Execute_Errors(t *testing.T) {
	t.Run("invalid postal code", func(t *testing.T) {
		lookup := &countingLookup{}
		handler := createTestHandler(t, nil, lookup)

		output, err := handler.Execute(context.Background(), &Input{PostalCode: "123"})
		require.Error(t, err)
		assert.Nil(t, output)
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
		assert.Equal(t, int32(0), lookup.calls.Load())
	})

	t.Run("lookup failure", func(t *testing.T) {
		lookup := &countingLookup{err: errors.NewPostalCodeLookupFailedError("01001000", assert.AnError)}
		handler := createTestHandler(t, nil, lookup)

		output, err := handler.Execute(context.Background(), &Input{PostalCode: "01001000"})
		require.Error(t, err)
		assert.Nil(t, output)
		assert.Equal(t, errors.ErrCodePostalCodeLookupFailed, errors.CodeOf(err))
	})

	t.Run("cache outage falls back to lookup", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		lookup := &countingLookup{address: expectedAddress()}
		handler := createTestHandler(t, redisClient, lookup)

		redisMock.ExpectGet("cep:01001000").SetErr(assert.AnError)
		cachedData, _ := json.Marshal(&Output{Found: true, Address: expectedAddress()})
		redisMock.ExpectSet("cep:01001000", cachedData, time.Hour).SetErr(assert.AnError)

		output, err := handler.Execute(context.Background(), &Input{PostalCode: "01001000"})
		require.NoError(t, err)
		assert.True(t, output.Found)
		assert.Equal(t, int32(1), lookup.calls.Load())
	})
}

func TestService_Execute_MiniredisRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(viaCEPFound))
	}))
	defer server.Close()

	handler, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{
			Enabled:        true,
			MaxJobsActive:  1,
			Timeout:        5 * time.Second,
			BaseURL:        server.URL + "/ws",
			RequestTimeout: 2 * time.Second,
			CacheTTL:       time.Hour,
		},
		Logger: logger.NewTestLogger(t),
		Redis:  redisClient,
	})
	require.NoError(t, err)

	first, err := handler.Execute(context.Background(), &Input{PostalCode: "01001-000"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("cep:01001000"))
	assert.Equal(t, time.Hour, mr.TTL("cep:01001000"))

	server.Close()

	second, err := handler.Execute(context.Background(), &Input{PostalCode: "01001000"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHandler_ParseInput(t *testing.T) {
	handler := createTestHandler(t, nil, &countingLookup{})

	input, err := handler.parseInput(createMockJob(1, map[string]interface{}{"postalCode": "01001-000"}))
	require.NoError(t, err)
	assert.Equal(t, "01001-000", input.PostalCode)

	_, err = handler.parseInput(createMockJob(2, map[string]interface{}{"cep": "01001-000"}))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{
		PostalCode: config.PostalCodeConfig{
			BaseURL:    "https://cep.example.com/ws",
			TimeoutMs:  1500,
			CacheTTLMs: 60000,
		},
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 2, Timeout: 9000},
		},
	}, nil)

	assert.Equal(t, "https://cep.example.com/ws", cfg.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 2, cfg.MaxJobsActive)
	assert.Equal(t, 9*time.Second, cfg.Timeout)

	assert.Equal(t, DefaultConfig(), createConfigFromAppConfig(nil, nil))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.BaseURL = ""
	assert.EqualError(t, cfg.Validate(), "base_url is required")

	cfg = DefaultConfig()
	cfg.CacheTTL = -time.Second
	assert.Error(t, cfg.Validate())
}
