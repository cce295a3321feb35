package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"countryfx/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Country, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Country)
	return list, args.Error(1)
}

func (m *MockService) Get(ctx context.Context, name string) (domain.Country, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(domain.Country)
	return c, args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, name string) (domain.Country, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(domain.Country)
	return c, args.Error(1)
}

func (m *MockService) Status(ctx context.Context) (domain.Status, error) {
	args := m.Called(ctx)
	st, _ := args.Get(0).(domain.Status)
	return st, args.Error(1)
}

func (m *MockService) LastRefreshedAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).(*time.Time)
	return ts, args.Error(1)
}

func (m *MockService) SummaryImage(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type MockRefresher struct{ mock.Mock }

func (m *MockRefresher) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type errorJSON struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func withName(req *http.Request, name string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", name)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorJSON {
	t.Helper()
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	return ej
}

func strPtr(s string) *string { return &s }

// --- Refresh ---

func TestHandler_Refresh_Success(t *testing.T) {
	mockService := new(MockService)
	mockRefresher := new(MockRefresher)
	h := NewCountryHandler(mockService, mockRefresher)

	ts := time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC)
	mockRefresher.On("Refresh", mock.Anything).Return(nil).Once()
	mockService.On("LastRefreshedAt", mock.Anything).Return(&ts, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/countries/refresh", nil)
	rr := httptest.NewRecorder()
	h.Refresh(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "Refresh completed", res["message"])
	require.Equal(t, "2025-10-22T18:00:00Z", res["last_refreshed_at"])
	mockRefresher.AssertExpectations(t)
	mockService.AssertExpectations(t)
}

func TestHandler_Refresh_UpstreamFailures(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantDetails string
	}{
		{
			name:        "countries",
			err:         &domain.UpstreamError{Source: domain.SourceCountries, Err: errors.New("dial tcp")},
			wantDetails: "Could not fetch data from Countries API",
		},
		{
			name:        "rates",
			err:         &domain.UpstreamError{Source: domain.SourceExchangeRates, Err: errors.New("timeout")},
			wantDetails: "Could not fetch data from Exchange Rates API",
		},
		{
			name:        "internal processing",
			err:         domain.ErrInternalProcessing,
			wantDetails: "Internal processing during refresh",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockService)
			mockRefresher := new(MockRefresher)
			h := NewCountryHandler(mockService, mockRefresher)

			mockRefresher.On("Refresh", mock.Anything).Return(tc.err).Once()

			rr := httptest.NewRecorder()
			h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/countries/refresh", nil))

			require.Equal(t, http.StatusServiceUnavailable, rr.Code)
			ej := decodeError(t, rr)
			require.Equal(t, "External data source unavailable", ej.Error)
			var details string
			require.NoError(t, json.Unmarshal(ej.Details, &details))
			require.Equal(t, tc.wantDetails, details)
			mockService.AssertNotCalled(t, "LastRefreshedAt", mock.Anything)
		})
	}
}

func TestHandler_Refresh_UnexpectedError(t *testing.T) {
	mockService := new(MockService)
	mockRefresher := new(MockRefresher)
	h := NewCountryHandler(mockService, mockRefresher)

	mockRefresher.On("Refresh", mock.Anything).Return(errors.New("boom")).Once()

	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/countries/refresh", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	ej := decodeError(t, rr)
	require.Equal(t, "Internal server error", ej.Error)
	require.Empty(t, ej.Details)
}

// --- List ---

func TestHandler_List_BuildsFilter(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	want := domain.ListFilter{Region: strPtr("Africa"), Currency: strPtr("ngn"), Sort: domain.SortGDPDesc}
	mockService.On("List", mock.Anything, want).Return([]domain.Country{
		{
			ID:              1,
			Name:            "Nigeria",
			Region:          strPtr("Africa"),
			Population:      10,
			CurrencyCode:    strPtr("NGN"),
			ExchangeRate:    decimal.NewNullDecimal(decimal.RequireFromString("1600.5")),
			EstimatedGDP:    decimal.NewNullDecimal(decimal.NewFromInt(12000)),
			LastRefreshedAt: ts,
		},
		{ID: 2, Name: "Atlantis", LastRefreshedAt: ts},
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/countries?region=Africa&currency=ngn&sort=gdp_desc", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var res []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Len(t, res, 2)
	require.Equal(t, "Nigeria", res[0]["name"])
	require.Equal(t, 1600.5, res[0]["exchange_rate"])
	require.Equal(t, float64(12000), res[0]["estimated_gdp"])
	require.Equal(t, "NGN", res[0]["currency_code"])
	require.Equal(t, "2025-01-01T00:00:00Z", res[0]["last_refreshed_at"])
	require.Nil(t, res[1]["exchange_rate"])
	require.Nil(t, res[1]["estimated_gdp"])
	require.Nil(t, res[1]["capital"])
	require.Contains(t, res[1], "flag_url")
	mockService.AssertExpectations(t)
}

func TestHandler_List_NoParams_DefaultOrder(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("List", mock.Anything, domain.ListFilter{Sort: domain.SortDefault}).Return([]domain.Country{}, nil).Once()

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/countries", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())
	mockService.AssertExpectations(t)
}

func TestHandler_List_UnknownSort_FallsBackToName(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("List", mock.Anything, domain.ListFilter{Sort: domain.SortNameAsc}).Return([]domain.Country{}, nil).Once()

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/countries?sort=population", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_List_BlankParamsAreAbsent(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("List", mock.Anything, domain.ListFilter{Sort: domain.SortDefault}).Return([]domain.Country{}, nil).Once()

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/countries?region=%20%20&currency=%09&sort=%20", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_List_NonLetterCurrency_Filters(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("List", mock.Anything, domain.ListFilter{Currency: strPtr("US1"), Sort: domain.SortDefault}).Return([]domain.Country{}, nil).Once()

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/countries?currency=US1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())
	mockService.AssertExpectations(t)
}

func TestHandler_List_ValidationError(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/countries?currency=TOOLONGCODE", nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	ej := decodeError(t, rr)
	require.Equal(t, "Validation failed", ej.Error)
	var details map[string][]string
	require.NoError(t, json.Unmarshal(ej.Details, &details))
	require.Contains(t, details, "currency")
	mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestHandler_List_InternalError(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/countries", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Internal server error", decodeError(t, rr).Error)
}

// --- GetByName ---

func TestHandler_GetByName_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("Get", mock.Anything, "FRANCE").Return(domain.Country{ID: 7, Name: "France"}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetByName(rr, withName(httptest.NewRequest(http.MethodGet, "/countries/FRANCE", nil), "FRANCE"))

	require.Equal(t, http.StatusOK, rr.Code)
	var res CountryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, int64(7), res.ID)
	require.Equal(t, "France", res.Name)
	mockService.AssertExpectations(t)
}

func TestHandler_GetByName_NotFound(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("Get", mock.Anything, "NoSuchPlace").Return(domain.Country{}, domain.ErrCountryNotFound).Once()

	rr := httptest.NewRecorder()
	h.GetByName(rr, withName(httptest.NewRequest(http.MethodGet, "/countries/NoSuchPlace", nil), "NoSuchPlace"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "Country not found", decodeError(t, rr).Error)
}

func TestHandler_GetByName_TooLong(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	rr := httptest.NewRecorder()
	h.GetByName(rr, withName(httptest.NewRequest(http.MethodGet, "/countries/x", nil), string(long)))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Validation failed", decodeError(t, rr).Error)
	mockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

// --- Delete ---

func TestHandler_Delete_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("Delete", mock.Anything, "togo").Return(domain.Country{ID: 1, Name: "Togo"}, nil).Once()

	rr := httptest.NewRecorder()
	h.Delete(rr, withName(httptest.NewRequest(http.MethodDelete, "/countries/togo", nil), "togo"))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"message":"Deleted","name":"Togo"}`, rr.Body.String())
}

func TestHandler_Delete_NotFound(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("Delete", mock.Anything, "Nowhere").Return(domain.Country{}, domain.ErrCountryNotFound).Once()

	rr := httptest.NewRecorder()
	h.Delete(rr, withName(httptest.NewRequest(http.MethodDelete, "/countries/Nowhere", nil), "Nowhere"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "Country not found", decodeError(t, rr).Error)
}

// --- Image ---

func TestHandler_Image_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("SummaryImage", mock.Anything).Return([]byte("\x89PNG"), nil).Once()

	rr := httptest.NewRecorder()
	h.Image(rr, httptest.NewRequest(http.MethodGet, "/countries/image", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	require.Equal(t, "\x89PNG", rr.Body.String())
}

func TestHandler_Image_NotFound(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("SummaryImage", mock.Anything).Return(nil, domain.ErrImageNotFound).Once()

	rr := httptest.NewRecorder()
	h.Image(rr, httptest.NewRequest(http.MethodGet, "/countries/image", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "Summary image not found", decodeError(t, rr).Error)
}

// --- Status ---

func TestHandler_Status_Empty(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("Status", mock.Anything).Return(domain.Status{}, nil).Once()

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"total_countries":0,"last_refreshed_at":null}`, rr.Body.String())
}

func TestHandler_Status_WithTimestamp(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	ts := time.Date(2025, 10, 22, 21, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	mockService.On("Status", mock.Anything).Return(domain.Status{TotalCountries: 3, LastRefreshedAt: &ts}, nil).Once()

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"total_countries":3,"last_refreshed_at":"2025-10-22T18:00:00Z"}`, rr.Body.String())
}

func TestHandler_Status_InternalError(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService, new(MockRefresher))

	mockService.On("Status", mock.Anything).Return(domain.Status{}, errors.New("db down")).Once()

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Internal server error", decodeError(t, rr).Error)
}
