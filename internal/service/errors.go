package service

import "errors"

var (
	ErrQuotaExceeded       = errors.New("quota or rate limit exceeded")
	ErrEmptyResponse       = errors.New("empty response from model")
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
)
