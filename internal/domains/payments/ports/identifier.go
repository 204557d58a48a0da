package ports

// IdentifierGenerator produces short order identifiers requesters can copy by hand.
type IdentifierGenerator interface {
	Next() string
}
