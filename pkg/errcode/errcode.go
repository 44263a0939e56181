package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBUnsupportedDriverError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBDropTableError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// Store errors
	StoreQueryError
	StoreSaveError
	StoreCommitError
	StoreMissingFilterError
	StoreNotFoundError

	// SPARQL client errors
	SparqlRequestError
	SparqlStatusError
	SparqlRetriesExhaustedError
	SparqlMalformedResponseError
	SparqlQueryTemplateError

	// Import errors
	ImportCancelledError
	ImportStoreError
	ImportScheduleError

	// Web errors
	WebServerError
)
