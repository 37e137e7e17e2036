package scrape

import "errors"

var (
	ErrLoginRejected = errors.New("login rejected by provider")
	ErrOneTimeCode   = errors.New("one-time code generation failed")
	ErrNoSession     = errors.New("no broker session, login first")
	ErrAPIStatus     = errors.New("provider returned failure status")
	ErrHTTPStatus    = errors.New("unexpected http status")
	ErrNoData        = errors.New("no price data")
	ErrUnknownSource = errors.New("unknown quote strategy")
	ErrNoFeedToken   = errors.New("session has no feed token")
)
