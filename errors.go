package main

import "errors"

// Failure classes of the ingestion pipeline. Per-file classes
// (ErrMalformedRecord, ErrFetchFailed, ErrStoreWrite) are logged and
// counted, never abort a batch. ErrMigration and ErrSetup are fatal.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrFetchFailed     = errors.New("asset fetch failed")
	ErrStoreWrite      = errors.New("store write failed")
	ErrMigration       = errors.New("migration failed")
	ErrSetup           = errors.New("setup failed")
)
