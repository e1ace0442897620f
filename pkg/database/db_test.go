package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", User: "placement", Password: "pw", Name: "portal", Port: "5432"}
	assert.Equal(t, "host=db user=placement password=pw dbname=portal port=5432 sslmode=disable", cfg.DSN())

	cfg.URL = "postgres://u:p@h:5432/d"
	assert.Equal(t, "postgres://u:p@h:5432/d", cfg.DSN())
}
