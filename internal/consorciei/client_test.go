package consorciei

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cotahub/mdcota-etl/internal/logger"
)

func testClient(srv *httptest.Server) *Client {
	return NewWithHTTPClient(srv.Client(), srv.URL, srv.URL, "test-token", logger.New("error"))
}

func TestGetQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quotes/0000428", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quota_code":"0000428","quote_value":35000.5}`))
	}))
	defer srv.Close()

	quote, err := testClient(srv).GetQuote(context.Background(), "0000428")
	require.NoError(t, err)
	require.Equal(t, "0000428", quote.QuotaCode)
	require.Equal(t, 35000.5, quote.QuoteValue)
}

func TestGetQuoteRetriesOnceThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"erro interno"}`))
			return
		}
		w.Write([]byte(`{"quota_code":"0000428"}`))
	}))
	defer srv.Close()

	quote, err := testClient(srv).GetQuote(context.Background(), "0000428")
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
	require.Equal(t, "0000428", quote.QuotaCode)
}

func TestGetQuoteFailsAfterTwoAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"erro interno no parceiro"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).GetQuote(context.Background(), "0000428")
	require.Error(t, err)
	require.Equal(t, 2, attempts)

	var serverErr *InternalServerError
	require.True(t, errors.As(err, &serverErr))
	require.Equal(t, "erro interno no parceiro", serverErr.Message)
}

func TestGetQuoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"cota nao encontrada"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).GetQuote(context.Background(), "9999999")
	require.Error(t, err)

	var notFound *EntityNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "cota nao encontrada", notFound.Message)
}

func TestGetCompanyUnprocessable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"documento invalido"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).GetCompany(context.Background(), "123")
	require.Error(t, err)

	var unprocessable *UnprocessableEntityError
	require.True(t, errors.As(err, &unprocessable))
	require.Equal(t, "documento invalido", unprocessable.Message)
}

func TestNotifyBPM(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := testClient(srv).NotifyBPM(context.Background(), "quota-transferred", map[string]string{"quota_code": "0000428"})
	require.NoError(t, err)
	require.Equal(t, "/events/quota-transferred", gotPath)
	require.Equal(t, http.MethodPost, gotMethod)
}
