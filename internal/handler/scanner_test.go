package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/gezipass/pass-platform/internal/queue"
    "github.com/gezipass/pass-platform/internal/repository"
    "github.com/gezipass/pass-platform/internal/service"
)

type fakeEngine struct {
    gotBusinessID uint64
    gotReq        service.ValidateRequest
    result        service.ValidateResult
    err           error
}

func (f *fakeEngine) ValidatePass(_ context.Context, businessID uint64, req service.ValidateRequest) (service.ValidateResult, error) {
    f.gotBusinessID = businessID
    f.gotReq = req
    return f.result, f.err
}

type fakeHistory struct {
    gotLimit int
    items    []repository.HistoryItem
    err      error
}

func (f *fakeHistory) ListByBusiness(_ context.Context, _ uint64, limit int) ([]repository.HistoryItem, error) {
    f.gotLimit = limit
    return f.items, f.err
}

type fakePublisher struct {
    events chan queue.PassRedeemedEvent
}

func newFakePublisher() *fakePublisher {
    return &fakePublisher{events: make(chan queue.PassRedeemedEvent, 1)}
}

func (f *fakePublisher) PublishPassRedeemed(_ context.Context, event queue.PassRedeemedEvent) error {
    f.events <- event
    return nil
}

func scanContext(t *testing.T, body string, businessID uint64) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    e.Validator = NewRequestValidator()
    req := httptest.NewRequest(http.MethodPost, "/v1/business/validate-pass", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if businessID != 0 {
        c.Set("business_id", businessID)
    }
    return c, rec
}

func TestValidatePassAccepted(t *testing.T) {
    engine := &fakeEngine{result: service.ValidateResult{
        Valid:   true,
        Message: "Pass accepted: 20% discount applied.",
        RedemptionID: 42,
        Pass: &service.ValidatedPass{
            ID:         5,
            PassName:   "City Explorer 7-Day",
            UsageCount: 1,
        },
    }}
    events := newFakePublisher()
    h := NewScannerHandler(engine, &fakeHistory{}, events)

    c, rec := scanContext(t, `{"identifier":"GP-ABC","validationType":"qr_code","originalAmount":250}`, 7)
    c.Request().Header.Set("X-Request-ID", "req-123")
    require.NoError(t, h.ValidatePass(c))

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, uint64(7), engine.gotBusinessID)
    assert.Equal(t, "GP-ABC", engine.gotReq.Identifier)
    assert.Equal(t, "qr_code", engine.gotReq.Method)
    assert.Equal(t, "req-123", engine.gotReq.RequestID)
    require.NotNil(t, engine.gotReq.OriginalAmount)
    assert.Equal(t, 250.0, *engine.gotReq.OriginalAmount)

    var resp map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, true, resp["success"])
    assert.Equal(t, true, resp["valid"])
    require.NotNil(t, resp["pass"])

    select {
    case ev := <-events.events:
        assert.Equal(t, uint64(42), ev.RedemptionID)
        assert.Equal(t, uint64(5), ev.PassID)
        assert.Equal(t, uint64(7), ev.BusinessID)
        assert.Equal(t, "qr_code", ev.ValidationMethod)
        assert.NotEmpty(t, ev.EventID)
    case <-time.After(2 * time.Second):
        t.Fatal("no redemption event published for an accepted scan")
    }
}

func TestValidatePassRejectedIsStill200(t *testing.T) {
    engine := &fakeEngine{result: service.ValidateResult{
        Valid:   false,
        Message: "This pass has expired.",
        Reason:  service.ReasonExpired,
    }}
    events := newFakePublisher()
    h := NewScannerHandler(engine, &fakeHistory{}, events)

    c, rec := scanContext(t, `{"identifier":"GP-ABC","validationType":"pin_code"}`, 7)
    require.NoError(t, h.ValidatePass(c))
    assert.Empty(t, events.events, "rejections must not publish an event")

    assert.Equal(t, http.StatusOK, rec.Code, "a rejection is a successful validation call")
    var resp map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, true, resp["success"])
    assert.Equal(t, false, resp["valid"])
    assert.Equal(t, "This pass has expired.", resp["message"])
    _, hasPass := resp["pass"]
    assert.False(t, hasPass)
}

func TestValidatePassEngineFailureIs500(t *testing.T) {
    engine := &fakeEngine{err: errors.New("db down")}
    h := NewScannerHandler(engine, &fakeHistory{}, nil)

    c, rec := scanContext(t, `{"identifier":"GP-ABC","validationType":"qr_code"}`, 7)
    require.NoError(t, h.ValidatePass(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestValidatePassRequiresBusinessBinding(t *testing.T) {
    h := NewScannerHandler(&fakeEngine{}, &fakeHistory{}, nil)
    c, rec := scanContext(t, `{"identifier":"GP-ABC","validationType":"qr_code"}`, 0)
    require.NoError(t, h.ValidatePass(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestValidatePassRejectsBadValidationType(t *testing.T) {
    h := NewScannerHandler(&fakeEngine{}, &fakeHistory{}, nil)
    c, _ := scanContext(t, `{"identifier":"GP-ABC","validationType":"telepathy"}`, 7)
    err := h.ValidatePass(c)
    var httpErr *echo.HTTPError
    require.ErrorAs(t, err, &httpErr)
    assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetHistory(t *testing.T) {
    passName := "City Explorer 7-Day"
    history := &fakeHistory{items: []repository.HistoryItem{
        {ID: 9, PassName: &passName, ValidationMethod: "qr_code", Outcome: "accepted"},
    }}
    h := NewScannerHandler(&fakeEngine{}, history, nil)

    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/business/history?limit=10", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("business_id", uint64(7))

    require.NoError(t, h.GetHistory(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, 10, history.gotLimit)

    var resp map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    items, ok := resp["redemptions"].([]any)
    require.True(t, ok)
    require.Len(t, items, 1)
}

func TestGetHistoryRejectsBadLimit(t *testing.T) {
    h := NewScannerHandler(&fakeEngine{}, &fakeHistory{}, nil)
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/business/history?limit=abc", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("business_id", uint64(7))

    require.NoError(t, h.GetHistory(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
