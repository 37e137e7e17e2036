package scrape

import "github.com/shopspring/decimal"

// SmartResp is the envelope every SmartAPI REST endpoint answers with.
type SmartResp[T any] struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorcode"`
	Data      T      `json:"data"`
}

type LoginRequest struct {
	ClientCode string `json:"clientcode"`
	Password   string `json:"password"`
	TOTP       string `json:"totp"`
}

type RenewRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenData struct {
	JwtToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
	FeedToken    string `json:"feedToken"`
}

type SearchRequest struct {
	Exchange    string `json:"exchange"`
	SearchScrip string `json:"searchscrip"`
}

type ScripCandidate struct {
	Exchange      string `json:"exchange"`
	TradingSymbol string `json:"tradingsymbol"`
	SymbolToken   string `json:"symboltoken"`
}

type LTPRequest struct {
	Exchange      string `json:"exchange"`
	TradingSymbol string `json:"tradingsymbol"`
	SymbolToken   string `json:"symboltoken"`
}

type LTPData struct {
	Exchange      string              `json:"exchange"`
	TradingSymbol string              `json:"tradingsymbol"`
	SymbolToken   string              `json:"symboltoken"`
	Ltp           decimal.NullDecimal `json:"ltp"`
	Close         decimal.NullDecimal `json:"close"`
}

// Quote modes accepted by the market quote endpoint.
const (
	ModeLTP  = "LTP"
	ModeFull = "FULL"
)

type MarketQuoteRequest struct {
	Mode           string              `json:"mode"`
	ExchangeTokens map[string][]string `json:"exchangeTokens"`
}

type MarketQuoteData struct {
	Fetched   []FetchedQuote `json:"fetched"`
	Unfetched []any          `json:"unfetched"`
}

type FetchedQuote struct {
	Exchange      string              `json:"exchange"`
	TradingSymbol string              `json:"tradingSymbol"`
	SymbolToken   string              `json:"symbolToken"`
	Ltp           decimal.NullDecimal `json:"ltp"`
}

/**********************************************************************************************************************
*************************************************** SmartStream ******************************************************
**********************************************************************************************************************/

// SmartStream exchange types
const (
	NseCM = 1
	NseFO = 2
	BseCM = 3
	BseFO = 4
	McxFO = 5
)

var exchangeTypes = map[string]int{
	"NSE": NseCM,
	"NFO": NseFO,
	"BSE": BseCM,
	"BFO": BseFO,
	"MCX": McxFO,
}

const (
	subscribeAction = 1
	ltpMode         = 1
)

type StreamSubscribeRequest struct {
	CorrelationID string               `json:"correlationID"`
	Action        int                  `json:"action"`
	Params        StreamSubscribeParam `json:"params"`
}

type StreamSubscribeParam struct {
	Mode      int               `json:"mode"`
	TokenList []StreamTokenList `json:"tokenList"`
}

type StreamTokenList struct {
	ExchangeType int      `json:"exchangeType"`
	Tokens       []string `json:"tokens"`
}
