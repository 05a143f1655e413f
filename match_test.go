package match

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UncrossTestSuite struct {
	suite.Suite
}

func TestUncrossTestSuite(t *testing.T) {
	suite.Run(t, new(UncrossTestSuite))
}

func (suite *UncrossTestSuite) TestPartialCrossStopsWithoutRepricing() {
	var book Book
	book = book.Insert(newTestOrder(1, Buy, 100, 55))
	book = book.Insert(newTestOrder(2, Buy, 100, 50))
	book = book.Insert(newTestOrder(3, Sell, 100, 54))
	book = book.Insert(newTestOrder(4, Sell, 100, 54))

	result := Uncross(book)

	suite.Equal(int64(100), result.Matched)
	suite.Require().Len(result.Fills, 2)

	buy, sell := result.Fills[0], result.Fills[1]
	suite.Equal(int64(101), buy.ClientID)
	suite.Equal(uint64(1), buy.OrderID)
	suite.Equal(int64(100), buy.Size)
	suite.True(buy.Done)
	suite.Equal("54", buy.Price.String())

	suite.Equal(int64(103), sell.ClientID)
	suite.Equal(uint64(3), sell.OrderID)
	suite.Equal(int64(100), sell.Size)
	suite.True(sell.Done)
	suite.Equal("54", sell.Price.String())

	suite.Equal([]uint64{2}, ids(result.Book.Bids))
	suite.Equal([]uint64{4}, ids(result.Book.Asks))
	suite.Equal(int64(100), result.Book.Asks[0].Size)

	// the input book is untouched
	suite.Equal(int64(100), book.Bids[0].Size)
	suite.Equal(2, len(book.Asks))
}

func (suite *UncrossTestSuite) TestEmptySideRepricesToLastFill() {
	var book Book
	book = book.Insert(newTestOrder(1, Buy, 10, 100))
	book = book.Insert(newTestOrder(2, Sell, 4, 90))
	book = book.Insert(newTestOrder(3, Sell, 6, 96))

	result := Uncross(book)

	suite.Equal(int64(10), result.Matched)
	suite.Require().Len(result.Fills, 4)
	for _, fill := range result.Fills {
		suite.Equal("98", fill.Price.String())
	}

	suite.Equal(uint64(1), result.Fills[0].OrderID)
	suite.False(result.Fills[0].Done)
	suite.Equal(uint64(2), result.Fills[1].OrderID)
	suite.True(result.Fills[1].Done)
	suite.True(result.Fills[2].Done)
	suite.True(result.Fills[3].Done)

	suite.Empty(result.Book.Bids)
	suite.Empty(result.Book.Asks)
}

func (suite *UncrossTestSuite) TestBuySideFillFirst() {
	var book Book
	book = book.Insert(newTestOrder(1, Sell, 3, 10))
	book = book.Insert(newTestOrder(2, Buy, 3, 12))

	result := Uncross(book)
	suite.Require().Len(result.Fills, 2)
	suite.Equal(uint64(2), result.Fills[0].OrderID)
	suite.Equal(uint64(1), result.Fills[1].OrderID)
	suite.Equal("11", result.Fills[0].Price.String())
}

func (suite *UncrossTestSuite) TestImpliedSideHasNoFill() {
	implied := newTestOrder(1, Buy, 5, 100)
	implied.Implied = true
	implied.ClientID = ImpliedClientID

	var book Book
	book = book.Insert(implied)
	book = book.Insert(newTestOrder(2, Sell, 8, 100))

	result := Uncross(book)

	suite.Equal(int64(5), result.Matched)
	suite.Require().Len(result.Fills, 1)
	suite.Equal(uint64(2), result.Fills[0].OrderID)
	suite.Equal(int64(5), result.Fills[0].Size)
	suite.False(result.Fills[0].Done)
	suite.Equal(int64(3), result.Book.Asks[0].Size)
}

func (suite *UncrossTestSuite) TestNoCross() {
	book := createTestBook()

	result := Uncross(book)

	suite.Equal(book, result.Book)
	suite.Empty(result.Fills)
	suite.Zero(result.Matched)

	again := Uncross(result.Book)
	suite.Equal(result.Book, again.Book)
}

func (suite *UncrossTestSuite) TestOneSidedOrEmpty() {
	result := Uncross(Book{})
	suite.Empty(result.Fills)

	book := Book{}.Insert(newTestOrder(1, Buy, 1, 10))
	result = Uncross(book)
	suite.Equal(book, result.Book)
}

func TestMidPrice(t *testing.T) {
	tests := []struct {
		bid, ask string
		want     string
	}{
		{bid: "55", ask: "54", want: "54"},
		{bid: "12", ask: "10", want: "11"},
		{bid: "11", ask: "10", want: "10"},
		{bid: "-9", ask: "-10", want: "-9"},
		{bid: "10.5", ask: "10", want: "10.25"},
		{bid: "0.3", ask: "0.2", want: "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.bid+"/"+tt.ask, func(t *testing.T) {
			got := midPrice(decimal.RequireFromString(tt.bid), decimal.RequireFromString(tt.ask))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNormalizeFillPrices(t *testing.T) {
	normalizeFillPrices(nil)

	fills := []Fill{
		{Price: decimal.NewFromInt(1)},
		{Price: decimal.NewFromInt(2)},
		{Price: decimal.NewFromInt(3)},
	}
	normalizeFillPrices(fills)
	require.Len(t, fills, 3)
	for _, f := range fills {
		assert.Equal(t, "3", f.Price.String())
	}
}
