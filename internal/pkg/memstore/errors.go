package memstore

import "errors"

// errDuplicateEmail mirrors the unique index on users.email
var errDuplicateEmail = errors.New("memstore: duplicate user email")
