package models

// SnapshotRequest binds GET /api/v1/stocks/:ticker.
type SnapshotRequest struct {
	Ticker  string `param:"ticker" validate:"required,b3ticker"`
	Refresh bool   `query:"refresh"`
}

// PeersRequest binds GET /api/v1/stocks/:ticker/peers.
type PeersRequest struct {
	Ticker string `param:"ticker" validate:"required,b3ticker"`
}

// HistoricalRequest binds GET /api/v1/stocks/:ticker/historical.
type HistoricalRequest struct {
	Ticker   string `param:"ticker" validate:"required,b3ticker"`
	Range    string `query:"range" default:"1mo" validate:"oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y max"`
	Interval string `query:"interval" default:"1d" validate:"oneof=1d 1wk 1mo"`
}

// InvalidateRequest binds DELETE /api/v1/cache/:ticker.
type InvalidateRequest struct {
	Ticker string `param:"ticker" validate:"required,b3ticker"`
}

// CacheClearResponse is returned by the cache admin endpoints.
type CacheClearResponse struct {
	Scope  string `json:"scope"`
	Ticker string `json:"ticker,omitempty"`
}
