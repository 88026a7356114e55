package handlers

import "errors"

var (
	errUnknownType    = errors.New("type must be one of alevel, sat, olevel, igcse")
	errUnknownSection = errors.New("section must be one of books, yearly, topical, sa_resources")
	errInvalidID      = errors.New("id must be a UUID")
)
