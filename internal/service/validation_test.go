package service

import (
    "context"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/gezipass/pass-platform/internal/model"
    "github.com/gezipass/pass-platform/internal/repository"
)

// In-memory fakes for the engine's stores. The ledger fake mirrors the
// SQL implementation's contract: ApplyAndRecord checks the counter and
// writes the accepted row under one lock, Append writes rejected rows
// unconditionally.

type fakePassStore struct {
    passes []*model.Pass
}

func (f *fakePassStore) FindByIdentifier(_ context.Context, identifier string) (*model.Pass, error) {
    for _, p := range f.passes {
        if p.ActivationCode == identifier {
            return p, nil
        }
    }
    for _, p := range f.passes {
        if p.PINCode == identifier {
            return p, nil
        }
    }
    return nil, repository.ErrPassNotFound
}

type fakeTypeStore struct {
    types map[uint64]*model.PassType
}

func (f *fakeTypeStore) GetByID(_ context.Context, id uint64) (*model.PassType, error) {
    return f.types[id], nil
}

type ruleKey struct{ passTypeID, businessID uint64 }

type fakeRuleResolver struct {
    rules map[ruleKey]*model.BusinessDiscountRule
}

func (f *fakeRuleResolver) Resolve(_ context.Context, passTypeID, businessID uint64) (*model.BusinessDiscountRule, error) {
    rule, ok := f.rules[ruleKey{passTypeID, businessID}]
    if !ok {
        return nil, repository.ErrNoRuleForBusiness
    }
    return rule, nil
}

type counterKey struct{ passID, businessID uint64 }

type fakeLedger struct {
    mu       sync.Mutex
    counters map[counterKey]uint32
    records  []model.RedemptionRecord
    nextID   uint64
}

func newFakeLedger() *fakeLedger {
    return &fakeLedger{counters: make(map[counterKey]uint32)}
}

func (f *fakeLedger) Append(_ context.Context, rec *model.RedemptionRecord) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.nextID++
    rec.ID = f.nextID
    f.records = append(f.records, *rec)
    return nil
}

func (f *fakeLedger) ApplyAndRecord(_ context.Context, passID, businessID uint64, limit uint32, rec *model.RedemptionRecord) (uint32, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    key := counterKey{passID, businessID}
    count := f.counters[key]
    if limit > 0 && count >= limit {
        return count, repository.ErrUsageExceeded
    }
    f.counters[key] = count + 1
    f.nextID++
    rec.ID = f.nextID
    f.records = append(f.records, *rec)
    return count + 1, nil
}

func (f *fakeLedger) snapshot() []model.RedemptionRecord {
    f.mu.Lock()
    defer f.mu.Unlock()
    out := make([]model.RedemptionRecord, len(f.records))
    copy(out, f.records)
    return out
}

type fixture struct {
    engine *ValidationEngine
    passes *fakePassStore
    rules  *fakeRuleResolver
    ledger *fakeLedger
    now    time.Time
}

func newFixture(t *testing.T) *fixture {
    t.Helper()
    now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
    passes := &fakePassStore{}
    types := &fakeTypeStore{types: map[uint64]*model.PassType{
        1: {ID: 1, Name: "City Explorer 7-Day", ValidityDays: 7},
    }}
    rules := &fakeRuleResolver{rules: make(map[ruleKey]*model.BusinessDiscountRule)}
    ledger := newFakeLedger()
    engine := NewValidationEngine(passes, types, rules, ledger)
    engine.now = func() time.Time { return now }
    return &fixture{engine: engine, passes: passes, rules: rules, ledger: ledger, now: now}
}

func (fx *fixture) addPass(id uint64, status string, expiry time.Time) *model.Pass {
    p := &model.Pass{
        ID:             id,
        CustomerID:     100 + id,
        PassTypeID:     1,
        ActivationCode: "GP-CODE-" + strings.Repeat("A", int(id)),
        PINCode:        "10000" + string(rune('0'+id%10)),
        ExpiryDate:     expiry,
        Status:         status,
    }
    fx.passes.passes = append(fx.passes.passes, p)
    return p
}

func (fx *fixture) addRule(businessID uint64, percent uint8, usageType string, maxUsage uint32) {
    fx.rules.rules[ruleKey{1, businessID}] = &model.BusinessDiscountRule{
        ID:              uint64(len(fx.rules.rules) + 1),
        PassTypeID:      1,
        BusinessID:      businessID,
        DiscountPercent: percent,
        UsageType:       usageType,
        MaxUsage:        maxUsage,
        IsActive:        true,
    }
}

func amount(v float64) *float64 { return &v }

func TestValidateAcceptsAndAppliesDiscount(t *testing.T) {
    fx := newFixture(t)
    pass := fx.addPass(1, model.PassStatusActive, fx.now.Add(48*time.Hour))
    fx.addRule(7, 20, model.UsageTypeUnlimited, 0)

    res, err := fx.engine.ValidatePass(context.Background(), 7, ValidateRequest{
        Identifier:     pass.ActivationCode,
        Method:         model.MethodQRCode,
        OriginalAmount: amount(250),
    })
    require.NoError(t, err)
    require.True(t, res.Valid)
    require.NotNil(t, res.Pass)

    assert.Equal(t, "Pass accepted: 20% discount applied.", res.Message)
    assert.Equal(t, pass.ID, res.Pass.ID)
    assert.Equal(t, "City Explorer 7-Day", res.Pass.PassName)
    assert.Equal(t, uint32(1), res.Pass.UsageCount)
    assert.Equal(t, uint32(0), res.Pass.MaxUsage)

    require.NotNil(t, res.Pass.DiscountApplied)
    assert.Equal(t, uint8(20), res.Pass.DiscountApplied.Percentage)
    assert.Equal(t, 250.0, res.Pass.DiscountApplied.OriginalAmount)
    assert.Equal(t, 200.0, res.Pass.DiscountApplied.DiscountedAmount)
    assert.Equal(t, 50.0, res.Pass.DiscountApplied.Savings)

    records := fx.ledger.snapshot()
    require.Len(t, records, 1)
    rec := records[0]
    assert.Equal(t, model.OutcomeAccepted, rec.Outcome)
    assert.Equal(t, uint8(20), rec.DiscountPercent)
    require.NotNil(t, rec.DiscountedAmount)
    assert.Equal(t, 200.0, *rec.DiscountedAmount)
    assert.Equal(t, rec.ID, res.RedemptionID)
}

func TestValidateAcceptsWithoutAmount(t *testing.T) {
    fx := newFixture(t)
    pass := fx.addPass(1, model.PassStatusActive, fx.now.Add(48*time.Hour))
    fx.addRule(7, 15, model.UsageTypeUnlimited, 0)

    res, err := fx.engine.ValidatePass(context.Background(), 7, ValidateRequest{
        Identifier: pass.PINCode,
        Method:     model.MethodPINCode,
    })
    require.NoError(t, err)
    require.True(t, res.Valid)
    assert.Equal(t, "Pass accepted.", res.Message)
    assert.Nil(t, res.Pass.DiscountApplied)
    assert.Equal(t, uint8(15), res.Pass.DiscountPercent)

    records := fx.ledger.snapshot()
    require.Len(t, records, 1)
    assert.Nil(t, records[0].OriginalAmount)
    assert.Nil(t, records[0].DiscountedAmount)
}

func TestValidateRejections(t *testing.T) {
    cases := []struct {
        name       string
        setup      func(fx *fixture) string // returns the identifier to scan
        wantReason string
    }{
        {
            name: "unknown identifier",
            setup: func(fx *fixture) string {
                return "GP-DOES-NOT-EXIST"
            },
            wantReason: ReasonNotFound,
        },
        {
            name: "revoked pass",
            setup: func(fx *fixture) string {
                fx.addRule(7, 20, model.UsageTypeUnlimited, 0)
                return fx.addPass(1, model.PassStatusRevoked, fx.now.Add(48*time.Hour)).ActivationCode
            },
            wantReason: ReasonRevoked,
        },
        {
            name: "revoked wins over expired",
            setup: func(fx *fixture) string {
                fx.addRule(7, 20, model.UsageTypeUnlimited, 0)
                return fx.addPass(1, model.PassStatusRevoked, fx.now.Add(-48*time.Hour)).ActivationCode
            },
            wantReason: ReasonRevoked,
        },
        {
            name: "expired by status",
            setup: func(fx *fixture) string {
                fx.addRule(7, 20, model.UsageTypeUnlimited, 0)
                return fx.addPass(1, model.PassStatusExpired, fx.now.Add(48*time.Hour)).ActivationCode
            },
            wantReason: ReasonExpired,
        },
        {
            name: "expired by date while still marked active",
            setup: func(fx *fixture) string {
                fx.addRule(7, 20, model.UsageTypeUnlimited, 0)
                return fx.addPass(1, model.PassStatusActive, fx.now.Add(-time.Minute)).ActivationCode
            },
            wantReason: ReasonExpired,
        },
        {
            name: "no rule at this business",
            setup: func(fx *fixture) string {
                return fx.addPass(1, model.PassStatusActive, fx.now.Add(48*time.Hour)).ActivationCode
            },
            wantReason: ReasonNotEligible,
        },
    }

    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            fx := newFixture(t)
            identifier := tc.setup(fx)

            res, err := fx.engine.ValidatePass(context.Background(), 7, ValidateRequest{
                Identifier: identifier,
                Method:     model.MethodQRCode,
            })
            require.NoError(t, err, "rejections are results, not errors")
            assert.False(t, res.Valid)
            assert.Equal(t, tc.wantReason, res.Reason)
            assert.NotEmpty(t, res.Message)
            assert.Nil(t, res.Pass)

            records := fx.ledger.snapshot()
            require.Len(t, records, 1, "every attempt writes exactly one ledger row")
            assert.Equal(t, model.OutcomeRejected, records[0].Outcome)
            require.NotNil(t, records[0].RejectReason)
            assert.Equal(t, tc.wantReason, *records[0].RejectReason)
        })
    }
}

func TestValidateOncePolicyUnderConcurrency(t *testing.T) {
    fx := newFixture(t)
    pass := fx.addPass(1, model.PassStatusActive, fx.now.Add(48*time.Hour))
    fx.addRule(7, 50, model.UsageTypeOnce, 0)

    const attempts = 20
    results := make([]ValidateResult, attempts)
    errs := make([]error, attempts)
    var wg sync.WaitGroup
    for i := 0; i < attempts; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            results[i], errs[i] = fx.engine.ValidatePass(context.Background(), 7, ValidateRequest{
                Identifier: pass.ActivationCode,
                Method:     model.MethodQRCode,
            })
        }(i)
    }
    wg.Wait()
    for _, err := range errs {
        require.NoError(t, err)
    }

    accepted := 0
    for _, res := range results {
        if res.Valid {
            accepted++
        } else {
            assert.Equal(t, ReasonUsageExceeded, res.Reason)
        }
    }
    assert.Equal(t, 1, accepted, "a once pass must be consumed exactly once per business")
    assert.Len(t, fx.ledger.snapshot(), attempts)
}

func TestValidateLimitedUsageExhausted(t *testing.T) {
    fx := newFixture(t)
    pass := fx.addPass(1, model.PassStatusActive, fx.now.Add(48*time.Hour))
    fx.addRule(7, 10, model.UsageTypeLimited, 3)

    ctx := context.Background()
    for i := 1; i <= 3; i++ {
        res, err := fx.engine.ValidatePass(ctx, 7, ValidateRequest{
            Identifier: pass.ActivationCode,
            Method:     model.MethodManual,
        })
        require.NoError(t, err)
        require.True(t, res.Valid)
        assert.Equal(t, uint32(i), res.Pass.UsageCount)
        assert.Equal(t, uint32(3), res.Pass.MaxUsage)
    }

    res, err := fx.engine.ValidatePass(ctx, 7, ValidateRequest{
        Identifier: pass.ActivationCode,
        Method:     model.MethodManual,
    })
    require.NoError(t, err)
    assert.False(t, res.Valid)
    assert.Equal(t, ReasonUsageExceeded, res.Reason)
    assert.Equal(t, uint32(3), fx.ledger.counters[counterKey{pass.ID, 7}], "rejection must not consume usage")
    assert.Len(t, fx.ledger.snapshot(), 4)
}

func TestValidateUsageIsPerBusiness(t *testing.T) {
    fx := newFixture(t)
    pass := fx.addPass(1, model.PassStatusActive, fx.now.Add(48*time.Hour))
    fx.addRule(7, 10, model.UsageTypeOnce, 0)
    fx.addRule(8, 25, model.UsageTypeOnce, 0)

    ctx := context.Background()
    req := ValidateRequest{Identifier: pass.ActivationCode, Method: model.MethodQRCode}

    res, err := fx.engine.ValidatePass(ctx, 7, req)
    require.NoError(t, err)
    require.True(t, res.Valid)

    // The same pass is still fresh at a different business.
    res, err = fx.engine.ValidatePass(ctx, 8, req)
    require.NoError(t, err)
    require.True(t, res.Valid)
    assert.Equal(t, uint8(25), res.Pass.DiscountPercent)

    res, err = fx.engine.ValidatePass(ctx, 7, req)
    require.NoError(t, err)
    assert.False(t, res.Valid)
    assert.Equal(t, ReasonUsageExceeded, res.Reason)
}

func TestApplyDiscount(t *testing.T) {
    cases := []struct {
        original    float64
        percent     uint8
        wantPrice   float64
        wantSavings float64
    }{
        {250.00, 20, 200.00, 50.00},
        {99.99, 33, 66.99, 33.00},
        {100.00, 0, 100.00, 0},
        {10.00, 100, 0, 10.00},
        {0, 25, 0, 0},
        // Exact decimal midpoints must round up even when their
        // nearest float sits a hair below x.xx5.
        {0.05, 30, 0.04, 0.01},   // 0.035
        {0.29, 50, 0.15, 0.14},   // 0.145
        {123.45, 10, 111.11, 12.34}, // 111.105
        {2.45, 50, 1.23, 1.22},   // 1.225
    }
    for _, tc := range cases {
        price, savings := ApplyDiscount(tc.original, tc.percent)
        assert.Equal(t, tc.wantPrice, price, "ApplyDiscount(%v, %d) price", tc.original, tc.percent)
        assert.Equal(t, tc.wantSavings, savings, "ApplyDiscount(%v, %d) savings", tc.original, tc.percent)
    }
}

func TestDiscountRounding(t *testing.T) {
    fx := newFixture(t)
    pass := fx.addPass(1, model.PassStatusActive, fx.now.Add(48*time.Hour))
    fx.addRule(7, 33, model.UsageTypeUnlimited, 0)

    res, err := fx.engine.ValidatePass(context.Background(), 7, ValidateRequest{
        Identifier:     pass.ActivationCode,
        Method:         model.MethodQRCode,
        OriginalAmount: amount(99.99),
    })
    require.NoError(t, err)
    require.True(t, res.Valid)
    d := res.Pass.DiscountApplied
    require.NotNil(t, d)
    // 99.99 * 0.67 = 66.9933 -> 66.99; savings derived from the
    // rounded price so the two always sum back to the original.
    assert.Equal(t, 66.99, d.DiscountedAmount)
    assert.Equal(t, 33.0, d.Savings)
    assert.InDelta(t, d.OriginalAmount, d.DiscountedAmount+d.Savings, 1e-9)
}
