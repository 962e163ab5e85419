package roundhandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	authdomain "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/domain"
	roundservice "github.com/Black-And-White-Club/golf-handicap/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
)

func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	return req.WithContext(authdomain.WithClaims(req.Context(), &authdomain.Claims{OwnerID: "owner-1"}))
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestRoundHandlers_HandleRecordRound(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*FakeService)
		wantStatus int
		wantTrace  []string
		verify     func(t *testing.T, body map[string]any)
	}{
		{
			name: "created",
			body: `{"date":"2024-01-15","course":"Pebble Beach Golf Links","rating":72.8,"slope":145,"gross":85}`,
			setup: func(s *FakeService) {
				s.RecordRoundFunc = func(_ context.Context, ownerID string, in rounddomain.RoundInput) (roundservice.RoundOperationResult, error) {
					r := rounddomain.NewRound(ownerID, in, testNow)
					return roundservice.RoundOperationResult{Success: &r}, nil
				}
			},
			wantStatus: http.StatusCreated,
			wantTrace:  []string{"RecordRound"},
			verify: func(t *testing.T, body map[string]any) {
				require.Equal(t, "Pebble Beach Golf Links", body["course"])
				require.InDelta(t, 9.5076, body["differential"], 0.0001)
				require.NotContains(t, body, "OwnerID")
			},
		},
		{
			name: "validation failure",
			body: `{"date":"2024-01-15","course":"X","rating":72.8,"slope":300,"gross":85}`,
			setup: func(s *FakeService) {
				s.RecordRoundFunc = func(context.Context, string, rounddomain.RoundInput) (roundservice.RoundOperationResult, error) {
					return roundservice.RoundOperationResult{Failure: &roundservice.RoundFailure{
						Reason: "invalid round",
						Errors: []string{"invalid round: slope 300 outside [55, 155]"},
					}}, nil
				}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantTrace:  []string{"RecordRound"},
			verify: func(t *testing.T, body map[string]any) {
				require.Equal(t, "invalid round", body["error"])
				require.Len(t, body["errors"], 1)
			},
		},
		{
			name:       "unknown field",
			body:       `{"date":"2024-01-15","handicap":3}`,
			wantStatus: http.StatusBadRequest,
			wantTrace:  []string{},
		},
		{
			name: "infrastructure error",
			body: `{"date":"2024-01-15","course":"X","rating":72.8,"slope":130,"gross":85}`,
			setup: func(s *FakeService) {
				s.RecordRoundFunc = func(context.Context, string, rounddomain.RoundInput) (roundservice.RoundOperationResult, error) {
					return roundservice.RoundOperationResult{}, errors.New("db down")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantTrace:  []string{"RecordRound"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := newTestHandlers(svc)

			rr := httptest.NewRecorder()
			h.HandleRecordRound(rr, authedRequest(http.MethodPost, "/api/v1/rounds", bytes.NewBufferString(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantTrace, svc.Trace())
			if tt.verify != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				tt.verify(t, body)
			}
		})
	}
}

func TestRoundHandlers_MissingOwnerIsUnauthorized(t *testing.T) {
	svc := &FakeService{
		ListRoundsFunc: func(_ context.Context, ownerID string) ([]rounddomain.Round, error) {
			require.Empty(t, ownerID)
			return nil, roundservice.ErrMissingOwner
		},
	}
	h := newTestHandlers(svc)

	rr := httptest.NewRecorder()
	h.HandleListRounds(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rounds", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRoundHandlers_HandleListRounds(t *testing.T) {
	svc := &FakeService{
		ListRoundsFunc: func(_ context.Context, ownerID string) ([]rounddomain.Round, error) {
			require.Equal(t, "owner-1", ownerID)
			return []rounddomain.Round{{Date: "2024-02-01", Course: "A"}, {Date: "2024-01-01", Course: "B"}}, nil
		},
	}
	rr := httptest.NewRecorder()
	newTestHandlers(svc).HandleListRounds(rr, authedRequest(http.MethodGet, "/api/v1/rounds", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Rounds []rounddomain.Round `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Rounds, 2)
	require.Equal(t, "2024-02-01", body.Rounds[0].Date)
}

func TestRoundHandlers_HandleClearRounds(t *testing.T) {
	svc := &FakeService{
		ClearRoundsFunc: func(context.Context, string) (roundservice.ClearOperationResult, error) {
			return roundservice.ClearOperationResult{Success: &roundservice.ClearSummary{Deleted: 4}}, nil
		},
	}
	rr := httptest.NewRecorder()
	newTestHandlers(svc).HandleClearRounds(rr, authedRequest(http.MethodDelete, "/api/v1/rounds", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"deleted":4}`, rr.Body.String())
}

func TestRoundHandlers_HandleLoadDemoRounds(t *testing.T) {
	svc := &FakeService{}
	rr := httptest.NewRecorder()
	newTestHandlers(svc).HandleLoadDemoRounds(rr, authedRequest(http.MethodPost, "/api/v1/rounds/demo", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, []string{"LoadDemoRounds"}, svc.Trace())
}

func TestRoundHandlers_HandleImportRounds(t *testing.T) {
	const csv = "Date,Course,Rating,Slope,Gross\n2024-01-15,Pebble Beach Golf Links,72.8,145,85\n"

	tests := []struct {
		name       string
		field      string
		content    string
		setup      func(*FakeService)
		wantStatus int
		wantTrace  []string
	}{
		{
			name:    "imported",
			field:   "file",
			content: csv,
			setup: func(s *FakeService) {
				s.ImportRoundsFunc = func(_ context.Context, ownerID, filename string, data []byte) (roundservice.ImportOperationResult, error) {
					require.Equal(t, "owner-1", ownerID)
					require.Equal(t, "history.csv", filename)
					require.Equal(t, csv, string(data))
					return roundservice.ImportOperationResult{Success: &roundservice.ImportSummary{Imported: 1}}, nil
				}
			},
			wantStatus: http.StatusCreated,
			wantTrace:  []string{"ImportRounds"},
		},
		{
			name:    "nothing usable",
			field:   "file",
			content: csv,
			setup: func(s *FakeService) {
				s.ImportRoundsFunc = func(context.Context, string, string, []byte) (roundservice.ImportOperationResult, error) {
					return roundservice.ImportOperationResult{Failure: &roundservice.RoundFailure{Reason: "no valid rounds in file"}}, nil
				}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantTrace:  []string{"ImportRounds"},
		},
		{
			name:       "wrong field",
			field:      "upload",
			content:    csv,
			wantStatus: http.StatusBadRequest,
			wantTrace:  []string{},
		},
		{
			name:       "too large",
			field:      "file",
			content:    strings.Repeat("x", 2<<20),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantTrace:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			body, contentType := multipartBody(t, tt.field, "history.csv", tt.content)
			req := authedRequest(http.MethodPost, "/api/v1/rounds/import", body)
			req.Header.Set("Content-Type", contentType)

			rr := httptest.NewRecorder()
			newTestHandlers(svc).HandleImportRounds(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantTrace, svc.Trace())
		})
	}
}

func TestRoundHandlers_HandleGetHandicap(t *testing.T) {
	svc := &FakeService{
		HandicapIndexFunc: func(context.Context, string) (rounddomain.IndexSummary, error) {
			return rounddomain.IndexSummary{Index: 9.7, RoundsPlayed: 5, RoundsCounted: 3}, nil
		},
	}
	rr := httptest.NewRecorder()
	newTestHandlers(svc).HandleGetHandicap(rr, authedRequest(http.MethodGet, "/api/v1/handicap", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"index":9.7,"roundsPlayed":5,"roundsCounted":3}`, rr.Body.String())
}

func TestRoundHandlers_HandleHandicapChart(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n")
	svc := &FakeService{
		HandicapChartFunc: func(context.Context, string) ([]byte, error) { return png, nil },
	}
	rr := httptest.NewRecorder()
	newTestHandlers(svc).HandleHandicapChart(rr, authedRequest(http.MethodGet, "/api/v1/handicap/chart.png", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	require.Equal(t, png, rr.Body.Bytes())
}
