package handler

import (
    "context"
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/gezipass/pass-platform/internal/model"
)

type fakePassStore struct {
    passes    map[uint64]*model.Pass
    gotStatus string
}

func (f *fakePassStore) GetByID(_ context.Context, id uint64) (*model.Pass, error) {
    p, ok := f.passes[id]
    if !ok {
        return nil, sql.ErrNoRows
    }
    return p, nil
}

func (f *fakePassStore) UpdateStatus(_ context.Context, id uint64, status string) error {
    if _, ok := f.passes[id]; !ok {
        return sql.ErrNoRows
    }
    f.gotStatus = status
    return nil
}

type fakePassLedger struct {
    records  []model.RedemptionRecord
    counters []model.UsageCounter
}

func (f *fakePassLedger) ListByPass(_ context.Context, _ uint64) ([]model.RedemptionRecord, error) {
    return f.records, nil
}

func (f *fakePassLedger) UsageCounts(_ context.Context, _ uint64) ([]model.UsageCounter, error) {
    return f.counters, nil
}

func adminPassContext(t *testing.T, id string) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues(id)
    return c, rec
}

func TestAdminPassGetIncludesUsageCounters(t *testing.T) {
    now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
    passes := &fakePassStore{passes: map[uint64]*model.Pass{
        5: {
            ID:             5,
            CustomerID:     3,
            PassTypeID:     1,
            ActivationCode: "GP-ABC",
            PINCode:        "123456",
            ExpiryDate:     now.Add(48 * time.Hour),
            Status:         model.PassStatusActive,
        },
    }}
    ledger := &fakePassLedger{counters: []model.UsageCounter{
        {PassID: 5, BusinessID: 7, Count: 2, UpdatedAt: now},
        {PassID: 5, BusinessID: 9, Count: 1, UpdatedAt: now},
    }}
    h := NewPassAdminHandler(passes, ledger)

    c, rec := adminPassContext(t, "5")
    require.NoError(t, h.Get(c))
    require.Equal(t, http.StatusOK, rec.Code)

    var resp map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    pass, ok := resp["pass"].(map[string]any)
    require.True(t, ok)
    assert.Equal(t, float64(5), pass["id"])

    usage, ok := resp["usage"].([]any)
    require.True(t, ok)
    require.Len(t, usage, 2)
    first, ok := usage[0].(map[string]any)
    require.True(t, ok)
    assert.Equal(t, float64(7), first["business_id"])
    assert.Equal(t, float64(2), first["count"])
}

func TestAdminPassGetUnknownIs404(t *testing.T) {
    h := NewPassAdminHandler(&fakePassStore{passes: map[uint64]*model.Pass{}}, &fakePassLedger{})
    c, rec := adminPassContext(t, "99")
    require.NoError(t, h.Get(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminPassRevokeAlreadyRevokedIs409(t *testing.T) {
    passes := &fakePassStore{passes: map[uint64]*model.Pass{
        5: {ID: 5, Status: model.PassStatusRevoked},
    }}
    h := NewPassAdminHandler(passes, &fakePassLedger{})
    c, rec := adminPassContext(t, "5")
    require.NoError(t, h.Revoke(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Empty(t, passes.gotStatus)
}
