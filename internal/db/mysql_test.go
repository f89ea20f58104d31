package db

import (
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN_ForcesParseTime(t *testing.T) {
	out, err := normalizeDSN("root:pw@tcp(localhost:3306)/medstore")
	require.NoError(t, err)

	cfg, err := mysqldriver.ParseDSN(out)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "medstore", cfg.DBName)
	assert.Equal(t, "root", cfg.User)
}

func TestNormalizeDSN_Invalid(t *testing.T) {
	_, err := normalizeDSN("root:pw@tcp(localhost:3306")
	assert.Error(t, err)
}
