package bootstrap

import "errors"

var errDatabaseRequired = errors.New("DATABASE_URL is required outside dev")
