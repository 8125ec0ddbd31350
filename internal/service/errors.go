package service

import "errors"

// ErrLeagueUnavailable means the starting league of a report build could not
// be resolved at all; there is nothing best-effort to return.
var ErrLeagueUnavailable = errors.New("league unavailable")
