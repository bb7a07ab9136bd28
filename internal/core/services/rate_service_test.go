package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock providers ---
type MockFiatRateProvider struct {
	mock.Mock
}

func (m *MockFiatRateProvider) LatestRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	args := m.Called(ctx, base, quote)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockGoldPriceProvider struct {
	mock.Mock
}

func (m *MockGoldPriceProvider) OuncePrice(ctx context.Context, currency string) (decimal.Decimal, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite ---
type RateSourceTestSuite struct {
	suite.Suite
	fiatProvider *MockFiatRateProvider
	goldProvider *MockGoldPriceProvider
	fiat         *services.FiatRateSource
	gold         *services.GoldRateSource
	ctx          context.Context
}

func (suite *RateSourceTestSuite) SetupTest() {
	suite.fiatProvider = new(MockFiatRateProvider)
	suite.goldProvider = new(MockGoldPriceProvider)
	suite.fiat = services.NewFiatRateSource(suite.fiatProvider, services.DefaultDirectionPolicy())
	suite.gold = services.NewGoldRateSource(suite.goldProvider)
	suite.ctx = context.Background()
}

func (suite *RateSourceTestSuite) TestFiat_StrongQuoteIntoBaseMultiplies() {
	suite.fiatProvider.On("LatestRate", suite.ctx, "USD", "TRY").Return(dec("28.5"), nil).Once()

	quote, err := suite.fiat.Quote(suite.ctx, usd, try)

	suite.Require().NoError(err)
	suite.Equal(domain.Multiply, quote.Direction)
	suite.True(dec("28.5").Equal(quote.Rate))
	suite.fiatProvider.AssertExpectations(suite.T())
}

func (suite *RateSourceTestSuite) TestFiat_BaseIntoStrongQuoteDividesByReversePair() {
	suite.fiatProvider.On("LatestRate", suite.ctx, "EUR", "TRY").Return(dec("31.2"), nil).Once()

	quote, err := suite.fiat.Quote(suite.ctx, try, domain.NewFiat("EUR"))

	suite.Require().NoError(err)
	suite.Equal(domain.Divide, quote.Direction)
	suite.True(dec("31.2").Equal(quote.Rate))
	suite.fiatProvider.AssertNotCalled(suite.T(), "LatestRate", suite.ctx, "TRY", "EUR")
}

func (suite *RateSourceTestSuite) TestFiat_OtherPairsMultiply() {
	suite.fiatProvider.On("LatestRate", suite.ctx, "GBP", "USD").Return(dec("1.27"), nil).Once()

	quote, err := suite.fiat.Quote(suite.ctx, domain.NewFiat("GBP"), usd)

	suite.Require().NoError(err)
	suite.Equal(domain.Multiply, quote.Direction)
}

func (suite *RateSourceTestSuite) TestFiat_ProviderErrorIsRateUnavailable() {
	suite.fiatProvider.On("LatestRate", suite.ctx, "USD", "TRY").Return(decimal.Zero, errors.New("upstream 503")).Once()

	_, err := suite.fiat.Quote(suite.ctx, usd, try)

	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.Contains(err.Error(), "upstream 503")
}

func (suite *RateSourceTestSuite) TestFiat_RejectsGoldAndNonPositiveRates() {
	_, err := suite.fiat.Quote(suite.ctx, gold, try)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)

	suite.fiatProvider.On("LatestRate", suite.ctx, "USD", "TRY").Return(decimal.Zero, nil).Once()
	_, err = suite.fiat.Quote(suite.ctx, usd, try)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func (suite *RateSourceTestSuite) TestGold_PurchaseDividesByGramPrice() {
	// 2500 per gram
	suite.goldProvider.On("OuncePrice", suite.ctx, "TRY").Return(dec("77758.692"), nil).Once()

	quote, err := suite.gold.Quote(suite.ctx, try, gold)

	suite.Require().NoError(err)
	suite.Equal(domain.Divide, quote.Direction)
	suite.True(dec("2500").Equal(quote.Rate), "got %s", quote.Rate)
}

func (suite *RateSourceTestSuite) TestGold_SaleMultipliesByGramPrice() {
	suite.goldProvider.On("OuncePrice", suite.ctx, "USD").Return(dec("2000"), nil).Once()

	quote, err := suite.gold.Quote(suite.ctx, gold, usd)

	suite.Require().NoError(err)
	suite.Equal(domain.Multiply, quote.Direction)
	suite.True(dec("64.301493").Equal(quote.Rate), "got %s", quote.Rate)
}

func (suite *RateSourceTestSuite) TestGold_RejectsFiatPairs() {
	_, err := suite.gold.Quote(suite.ctx, usd, try)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.goldProvider.AssertNotCalled(suite.T(), "OuncePrice", mock.Anything, mock.Anything)
}

func (suite *RateSourceTestSuite) TestGoldPrices_AppliesSpread() {
	suite.goldProvider.On("OuncePrice", suite.ctx, "TRY").Return(dec("77758.692"), nil).Once()

	board, err := suite.gold.GoldPrices(suite.ctx, try)

	suite.Require().NoError(err)
	suite.Equal("TRY", board.Currency)
	suite.True(dec("2500").Equal(board.GramPrice))
	suite.True(dec("2487.5").Equal(board.Buy), "buy %s", board.Buy)
	suite.True(dec("2512.5").Equal(board.Sell), "sell %s", board.Sell)
}

func (suite *RateSourceTestSuite) TestGoldPrices_ProviderError() {
	suite.goldProvider.On("OuncePrice", suite.ctx, "TRY").Return(decimal.Zero, errors.New("timeout")).Once()

	board, err := suite.gold.GoldPrices(suite.ctx, try)

	suite.Nil(board)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func TestRateSourceTestSuite(t *testing.T) {
	suite.Run(t, new(RateSourceTestSuite))
}

type stubSource struct {
	name  string
	calls int
}

func (s *stubSource) Quote(context.Context, domain.Currency, domain.Currency) (domain.RateQuote, error) {
	s.calls++
	return domain.RateQuote{Rate: decimal.NewFromInt(1), Direction: domain.Multiply}, nil
}

func TestRateRouter_SelectsSourceByGoldSide(t *testing.T) {
	fiat, goldSrc := &stubSource{name: "fiat"}, &stubSource{name: "gold"}
	router := services.RateRouter{Fiat: fiat, Gold: goldSrc}
	ctx := context.Background()

	_, err := router.Quote(ctx, usd, try)
	require.NoError(t, err)
	_, err = router.Quote(ctx, try, gold)
	require.NoError(t, err)
	_, err = router.Quote(ctx, gold, usd)
	require.NoError(t, err)

	assert.Equal(t, 1, fiat.calls)
	assert.Equal(t, 2, goldSrc.calls)
}
