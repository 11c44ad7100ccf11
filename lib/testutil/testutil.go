package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"glowpicked-backend/lib/telemetry"

	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	result := ServiceResult{}
	if params.DbSchema != "" {
		dbpath := params.DbPath
		if dbpath == "" {
			dbpath = ":memory:"
		}
		sqlite, err := sql.Open("sqlite", dbpath)
		if err != nil {
			t.Fatal(err)
		}
		// a :memory: database exists per connection, keep the pool at one
		sqlite.SetMaxOpenConns(1)
		_, err = sqlite.Exec(params.DbSchema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			t.Fatal(err)
		}
		result.DB = sqlite
	}

	return result, cleanup
}
